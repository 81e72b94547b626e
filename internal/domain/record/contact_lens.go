package record

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sangkips/optica-api/internal/domain/billing"
	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/pkg/formatter"
	"github.com/shopspring/decimal"
)

const DefaultPaymentMode = "Cash"

var (
	ErrPrescriptionNoRequired = errors.New("Prescription number is required")
	ErrBookingByRequired      = errors.New("Booking by is required")
	ErrNoContactLensItems     = errors.New("Please add at least one contact lens item")
	ErrInvalidDiscountPercent = errors.New("Please enter a valid discount percentage between 0 and 100.")
)

// ContactLensRecord is the full state of one contact-lens order form.
// Only the distance reading of each eye is used.
type ContactLensRecord struct {
	Identifiers     Identifiers        `json:"identifiers"`
	Customer        Customer           `json:"customer"`
	RightEye        EyeMeasurement     `json:"right_eye"`
	LeftEye         EyeMeasurement     `json:"left_eye"`
	IPD             string             `json:"ipd"`
	PrescribedBy    string             `json:"prescribed_by"`
	BookingBy       string             `json:"booking_by"`
	ExpiryDate      string             `json:"expiry_date"`
	Items           []ContactLensItem  `json:"items"`
	DiscountPercent string             `json:"discount_percent"`
	Payment         ContactLensPayment `json:"payment"`
	Status          Status             `json:"status"`
}

// ContactLensItem is one lens line as entered at the counter
type ContactLensItem struct {
	Side      string `json:"side"`
	BaseCurve string `json:"bc"`
	Power     string `json:"power"`
	Material  string `json:"material"`
	Disposal  string `json:"dispose"`
	Brand     string `json:"brand"`
	Diameter  string `json:"diameter"`
	Qty       string `json:"qty"`
	Rate      string `json:"rate"`
	Sph       string `json:"sph"`
	Cyl       string `json:"cyl"`
	Axis      string `json:"ax"`
	LensCode  string `json:"lens_code"`
}

// EyeSide maps the counter label to the stored side. Anything other than
// RE or LE is Both.
func (i ContactLensItem) EyeSide() enum.EyeSide {
	switch strings.ToUpper(strings.TrimSpace(i.Side)) {
	case "RE":
		return enum.EyeRight
	case "LE":
		return enum.EyeLeft
	}
	if side, ok := enum.ParseEyeSide(i.Side); ok {
		return side
	}
	return enum.EyeBoth
}

// ContactLensPayment holds the advance inputs of a contact-lens order.
// Cheque advance takes the place of the "other" channel.
type ContactLensPayment struct {
	PaymentMode    string `json:"payment_mode"`
	CashAdvance    string `json:"cash_advance"`
	CardUPIAdvance string `json:"card_upi_advance"`
	ChequeAdvance  string `json:"cheque_advance"`
	PaymentDate    string `json:"payment_date"`
}

// Advances parses the advance inputs. Unparseable text counts as zero.
func (p ContactLensPayment) Advances() billing.Advances {
	return billing.Advances{
		Cash:    formatter.AmountOrZero(p.CashAdvance),
		CardUPI: formatter.AmountOrZero(p.CardUPIAdvance),
		Other:   formatter.AmountOrZero(p.ChequeAdvance),
	}
}

// Validate checks the fields required to save a contact-lens record
func (r ContactLensRecord) Validate() error {
	if strings.TrimSpace(r.Identifiers.PrescriptionNo) == "" {
		return ErrPrescriptionNoRequired
	}
	if strings.TrimSpace(r.BookingBy) == "" {
		return ErrBookingByRequired
	}
	if len(r.Items) == 0 {
		return ErrNoContactLensItems
	}
	if _, err := r.discountPercent(); err != nil {
		return err
	}
	return nil
}

func (r ContactLensRecord) discountPercent() (decimal.Decimal, error) {
	percent, err := formatter.ParseAmount(formatter.FormatNumeric(r.DiscountPercent))
	if err != nil || percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, ErrInvalidDiscountPercent
	}
	return percent, nil
}

// LineItems prices the lens lines through the ledger and spreads the
// order discount percentage over them
func (r ContactLensRecord) LineItems() ([]billing.LineItem, error) {
	var items []billing.LineItem
	for n, cl := range r.Items {
		var err error
		items, err = billing.AddItem(items, billing.Candidate{
			ItemType:  enum.ItemTypeContactLens,
			ItemCode:  cl.LensCode,
			ItemName:  cl.displayName(),
			Rate:      cl.Rate,
			Qty:       cl.Qty,
			BrandName: cl.Brand,
		})
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", n+1, err)
		}
	}
	percent, err := r.discountPercent()
	if err != nil {
		return nil, err
	}
	if percent.IsPositive() {
		items = billing.ApplyPercentToAll(items, percent)
	}
	return items, nil
}

func (i ContactLensItem) displayName() string {
	for _, s := range []string{i.Brand, i.LensCode, i.Material} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return string(enum.ItemTypeContactLens)
}

// Totals reconciles the contact-lens record with the same rules as a
// spectacle order. prior is advance already stored for the record.
func (r ContactLensRecord) Totals(prior decimal.Decimal) (billing.Totals, error) {
	items, err := r.LineItems()
	if err != nil {
		return billing.Totals{}, err
	}
	adv := r.Payment.Advances()
	adv.Prior = prior
	return billing.Reconcile(items, adv), nil
}
