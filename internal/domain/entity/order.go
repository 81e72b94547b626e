package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents a spectacle order placed against a prescription
type Order struct {
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	PrescriptionID uuid.UUID        `gorm:"type:uuid;not null;index" json:"prescription_id"`
	OrderNo        string           `gorm:"size:100;uniqueIndex;not null" json:"order_no"`
	BillNo         string           `gorm:"size:100" json:"bill_no"`
	OrderDate      *time.Time       `gorm:"type:date" json:"order_date,omitempty"`
	Status         enum.OrderStatus `gorm:"default:0" json:"status"`
	StatusDate     *time.Time       `gorm:"type:date" json:"status_date,omitempty"`
	RetestDate     *time.Time       `gorm:"type:date" json:"retest_date,omitempty"`
	DeliveryDate   *time.Time       `gorm:"type:date" json:"delivery_date,omitempty"`
	DeliveryTime   string           `gorm:"size:20" json:"delivery_time"`
	Remarks        string           `gorm:"type:text" json:"remarks"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	DeletedAt      gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Prescription *Prescription `gorm:"foreignKey:PrescriptionID" json:"prescription,omitempty"`
	Items        []OrderItem   `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	Payment      *OrderPayment `gorm:"foreignKey:OrderID" json:"payment,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem represents a line item in an order. Items are replaced as a
// set on every save, so they are hard deleted.
type OrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	SI              int             `gorm:"column:si;not null" json:"si"`
	ItemType        string          `gorm:"size:50" json:"item_type"`
	ItemCode        string          `gorm:"size:50" json:"item_code"`
	ItemName        string          `gorm:"size:255;not null" json:"item_name"`
	Unit            string          `gorm:"size:20" json:"unit"`
	TaxPercent      decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"-"`
	Rate            decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	Qty             int             `gorm:"not null;default:1" json:"qty"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	DiscountAmount  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"-"`
	BrandName       string          `gorm:"size:255" json:"brand_name"`
	LensIndex       string          `gorm:"column:lens_index;size:50" json:"index"`
	Coating         string          `gorm:"size:100" json:"coating"`
	CreatedAt       time.Time       `json:"created_at"`
}

// MarshalJSON renders money fields with two decimals
func (oi OrderItem) MarshalJSON() ([]byte, error) {
	type Alias OrderItem
	return json.Marshal(&struct {
		Alias
		TaxPercent      string `json:"tax_percent"`
		Rate            string `json:"rate"`
		Amount          string `json:"amount"`
		DiscountAmount  string `json:"discount_amount"`
		DiscountPercent string `json:"discount_percent"`
	}{
		Alias:           Alias(oi),
		TaxPercent:      oi.TaxPercent.StringFixed(2),
		Rate:            oi.Rate.StringFixed(2),
		Amount:          oi.Amount.StringFixed(2),
		DiscountAmount:  oi.DiscountAmount.StringFixed(2),
		DiscountPercent: oi.DiscountPercent.StringFixed(2),
	})
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// OrderPayment is the payment summary of an order. TotalAdvance and
// Balance are computed before writing; the table has no generated columns.
type OrderPayment struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID        uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"order_id"`
	Estimate       decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	FinalAmount    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	CashAdvance    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	CardUPIAdvance decimal.Decimal `gorm:"column:card_upi_advance;type:decimal(12,2);default:0" json:"-"`
	OtherAdvance   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	TotalAdvance   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	Balance        decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	PaymentDate    *time.Time      `gorm:"type:date" json:"payment_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// MarshalJSON renders money fields with two decimals
func (op OrderPayment) MarshalJSON() ([]byte, error) {
	type Alias OrderPayment
	return json.Marshal(&struct {
		Alias
		Estimate       string `json:"estimate"`
		TaxAmount      string `json:"tax_amount"`
		DiscountAmount string `json:"discount_amount"`
		FinalAmount    string `json:"final_amount"`
		CashAdvance    string `json:"cash_advance"`
		CardUPIAdvance string `json:"card_upi_advance"`
		OtherAdvance   string `json:"other_advance"`
		TotalAdvance   string `json:"total_advance"`
		Balance        string `json:"balance"`
	}{
		Alias:          Alias(op),
		Estimate:       op.Estimate.StringFixed(2),
		TaxAmount:      op.TaxAmount.StringFixed(2),
		DiscountAmount: op.DiscountAmount.StringFixed(2),
		FinalAmount:    op.FinalAmount.StringFixed(2),
		CashAdvance:    op.CashAdvance.StringFixed(2),
		CardUPIAdvance: op.CardUPIAdvance.StringFixed(2),
		OtherAdvance:   op.OtherAdvance.StringFixed(2),
		TotalAdvance:   op.TotalAdvance.StringFixed(2),
		Balance:        op.Balance.StringFixed(2),
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (op *OrderPayment) BeforeCreate(tx *gorm.DB) error {
	if op.ID == uuid.Nil {
		op.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderPayment model
func (OrderPayment) TableName() string {
	return "order_payments"
}
