package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ContactLensPrescription is a contact-lens prescription with its patient
// and workshop status. The contact-lens tables are independent of the
// spectacle tables.
type ContactLensPrescription struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	PrescriptionNo string    `gorm:"size:50;uniqueIndex;not null" json:"prescription_no"`
	ReferenceNo    string    `gorm:"size:50;index" json:"reference_no"`
	PrescribedBy   string    `gorm:"size:255" json:"prescribed_by"`
	BookedBy       string    `gorm:"size:255;not null" json:"booked_by"`
	Customer
	IPD          string           `gorm:"size:20" json:"ipd"`
	Status       enum.OrderStatus `gorm:"default:0" json:"status"`
	DeliveryDate *time.Time       `gorm:"type:date" json:"delivery_date,omitempty"`
	DeliveryTime string           `gorm:"size:20" json:"delivery_time"`
	RetestDate   *time.Time       `gorm:"type:date" json:"retest_date,omitempty"`
	ExpiryDate   *time.Time       `gorm:"type:date" json:"expiry_date,omitempty"`
	Remarks      string           `gorm:"type:text" json:"remarks"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`

	// Relationships
	Eyes    []ContactLensEye    `gorm:"foreignKey:ContactLensPrescriptionID" json:"eyes,omitempty"`
	Items   []ContactLensItem   `gorm:"foreignKey:ContactLensPrescriptionID" json:"items,omitempty"`
	Payment *ContactLensPayment `gorm:"foreignKey:ContactLensPrescriptionID" json:"payment,omitempty"`
}

// BeforeCreate generates a UUID before creating a new contact-lens prescription
func (p *ContactLensPrescription) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ContactLensPrescription model
func (ContactLensPrescription) TableName() string {
	return "contact_lens_prescriptions"
}

// ContactLensEye is the distance reading of one eye
type ContactLensEye struct {
	ID                        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ContactLensPrescriptionID uuid.UUID `gorm:"type:uuid;not null;index" json:"contact_lens_prescription_id"`
	EyeSide                   string    `gorm:"size:10;not null" json:"eye_side"`
	Sph                       string    `gorm:"size:20" json:"sph"`
	Cyl                       string    `gorm:"size:20" json:"cyl"`
	Axis                      string    `gorm:"size:10" json:"axis"`
	AddPower                  string    `gorm:"size:20" json:"add_power"`
	VN                        string    `gorm:"column:vn;size:20" json:"vn"`
	RPD                       string    `gorm:"column:rpd;size:20" json:"rpd"`
	LPD                       string    `gorm:"column:lpd;size:20" json:"lpd"`
	CreatedAt                 time.Time `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new eye reading
func (e *ContactLensEye) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ContactLensEye model
func (ContactLensEye) TableName() string {
	return "contact_lens_eyes"
}

// ContactLensItem is one lens line of a contact-lens prescription
type ContactLensItem struct {
	ID                        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ContactLensPrescriptionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"contact_lens_prescription_id"`
	SI                        int             `gorm:"column:si;not null" json:"si"`
	EyeSide                   string          `gorm:"size:10;not null" json:"eye_side"`
	BaseCurve                 string          `gorm:"size:20" json:"base_curve"`
	Power                     string          `gorm:"size:20" json:"power"`
	MaterialText              string          `gorm:"size:100" json:"material_text"`
	DisposalText              string          `gorm:"size:100" json:"disposal_text"`
	BrandText                 string          `gorm:"size:255" json:"brand_text"`
	Diameter                  string          `gorm:"size:20" json:"diameter"`
	Quantity                  int             `gorm:"not null;default:1" json:"quantity"`
	Rate                      decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	Amount                    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	Sph                       string          `gorm:"size:20" json:"sph"`
	Cyl                       string          `gorm:"size:20" json:"cyl"`
	Axis                      string          `gorm:"size:10" json:"axis"`
	LensCode                  string          `gorm:"size:50" json:"lens_code"`
	CreatedAt                 time.Time       `json:"created_at"`
}

// MarshalJSON renders money fields with two decimals
func (i ContactLensItem) MarshalJSON() ([]byte, error) {
	type Alias ContactLensItem
	return json.Marshal(&struct {
		Alias
		Rate   string `json:"rate"`
		Amount string `json:"amount"`
	}{
		Alias:  Alias(i),
		Rate:   i.Rate.StringFixed(2),
		Amount: i.Amount.StringFixed(2),
	})
}

// BeforeCreate generates a UUID before creating a new lens line
func (i *ContactLensItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ContactLensItem model
func (ContactLensItem) TableName() string {
	return "contact_lens_items"
}

// ContactLensPayment is the payment summary of a contact-lens prescription
type ContactLensPayment struct {
	ID                        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ContactLensPrescriptionID uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null" json:"contact_lens_prescription_id"`
	PaymentTotal              decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	Estimate                  decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	Advance                   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	Balance                   decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	PaymentMode               string          `gorm:"size:50;default:Cash" json:"payment_mode"`
	CashAdvance               decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	CardUPIAdvance            decimal.Decimal `gorm:"column:card_upi_advance;type:decimal(12,2);default:0" json:"-"`
	ChequeAdvance             decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	DiscountAmount            decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"-"`
	DiscountPercent           decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"-"`
	SchemeDiscount            bool            `gorm:"default:false" json:"scheme_discount"`
	PaymentDate               *time.Time      `gorm:"type:date" json:"payment_date,omitempty"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

// MarshalJSON renders money fields with two decimals
func (p ContactLensPayment) MarshalJSON() ([]byte, error) {
	type Alias ContactLensPayment
	return json.Marshal(&struct {
		Alias
		PaymentTotal    string `json:"payment_total"`
		Estimate        string `json:"estimate"`
		Advance         string `json:"advance"`
		Balance         string `json:"balance"`
		CashAdvance     string `json:"cash_advance"`
		CardUPIAdvance  string `json:"card_upi_advance"`
		ChequeAdvance   string `json:"cheque_advance"`
		DiscountAmount  string `json:"discount_amount"`
		DiscountPercent string `json:"discount_percent"`
	}{
		Alias:           Alias(p),
		PaymentTotal:    p.PaymentTotal.StringFixed(2),
		Estimate:        p.Estimate.StringFixed(2),
		Advance:         p.Advance.StringFixed(2),
		Balance:         p.Balance.StringFixed(2),
		CashAdvance:     p.CashAdvance.StringFixed(2),
		CardUPIAdvance:  p.CardUPIAdvance.StringFixed(2),
		ChequeAdvance:   p.ChequeAdvance.StringFixed(2),
		DiscountAmount:  p.DiscountAmount.StringFixed(2),
		DiscountPercent: p.DiscountPercent.StringFixed(2),
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *ContactLensPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ContactLensPayment model
func (ContactLensPayment) TableName() string {
	return "contact_lens_payments"
}
