package record

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/billing"
	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/pkg/formatter"
	"github.com/sangkips/optica-api/pkg/identifier"
	"github.com/shopspring/decimal"
)

const (
	DefaultTitle        = "Mr."
	DefaultGender       = "Male"
	DefaultDeliveryTime = "18:30:00"
)

// OrderRecord is the full state of one spectacle order form
type OrderRecord struct {
	Identifiers  Identifiers        `json:"identifiers"`
	Customer     Customer           `json:"customer"`
	Prescription Prescription       `json:"prescription"`
	Items        []billing.LineItem `json:"items"`
	Payment      Payment            `json:"payment"`
	Status       Status             `json:"status"`
}

// Identifiers holds the document numbers of a record
type Identifiers struct {
	PrescriptionNo string `json:"prescription_no"`
	ReferenceNo    string `json:"reference_no"`
	BillNo         string `json:"bill_no"`
}

// Customer holds patient contact and demographic fields
type Customer struct {
	Title               string `json:"title"`
	Name                string `json:"name"`
	Gender              string `json:"gender"`
	Age                 string `json:"age"`
	MobileNo            string `json:"mobile_no"`
	PhoneLandline       string `json:"phone_landline"`
	Email               string `json:"email"`
	Address             string `json:"address"`
	City                string `json:"city"`
	State               string `json:"state"`
	Pin                 string `json:"pin"`
	CustomerCode        string `json:"customer_code"`
	BirthDay            string `json:"birth_day"`
	MarriageAnniversary string `json:"marriage_anniversary"`
}

// Prescription holds the eye examination of a record
type Prescription struct {
	Date         string         `json:"date"`
	Class        string         `json:"class"`
	PrescribedBy string         `json:"prescribed_by"`
	BookingBy    string         `json:"booking_by"`
	RightEye     EyeMeasurement `json:"right_eye"`
	LeftEye      EyeMeasurement `json:"left_eye"`
	IPD          string         `json:"ipd"`
	BalanceLens  bool           `json:"balance_lens"`
	Remarks      RemarkFlags    `json:"remarks"`
}

// EyeMeasurement is the reading of one eye. PD is RPD for the right eye and
// LPD for the left.
type EyeMeasurement struct {
	Distance VisionReading `json:"distance"`
	Near     VisionReading `json:"near"`
	PD       string        `json:"pd"`
}

// VisionReading is one focal distance of an eye
type VisionReading struct {
	Sph          string `json:"sph"`
	Cyl          string `json:"cyl"`
	Axis         string `json:"axis"`
	Add          string `json:"add"`
	VisualAcuity string `json:"vn"`
}

// RemarkFlags are the fixed prescription remarks
type RemarkFlags struct {
	ForConstantUse        bool `json:"for_constant_use"`
	ForDistanceVisionOnly bool `json:"for_distance_vision_only"`
	ForNearVisionOnly     bool `json:"for_near_vision_only"`
	SeparateGlasses       bool `json:"separate_glasses"`
	BifocalLenses         bool `json:"bifocal_lenses"`
	ProgressiveLenses     bool `json:"progressive_lenses"`
	AntiReflectionLenses  bool `json:"anti_reflection_lenses"`
	AntiRadiationLenses   bool `json:"anti_radiation_lenses"`
	UnderCorrected        bool `json:"under_corrected"`
}

// Flag returns a pointer to the flag for a remark type, or nil
func (r *RemarkFlags) Flag(t enum.RemarkType) *bool {
	switch t {
	case enum.RemarkForConstantUse:
		return &r.ForConstantUse
	case enum.RemarkForDistanceVisionOnly:
		return &r.ForDistanceVisionOnly
	case enum.RemarkForNearVisionOnly:
		return &r.ForNearVisionOnly
	case enum.RemarkSeparateGlasses:
		return &r.SeparateGlasses
	case enum.RemarkBifocalLenses:
		return &r.BifocalLenses
	case enum.RemarkProgressiveLenses:
		return &r.ProgressiveLenses
	case enum.RemarkAntiReflectionLenses:
		return &r.AntiReflectionLenses
	case enum.RemarkAntiRadiationLenses:
		return &r.AntiRadiationLenses
	case enum.RemarkUnderCorrected:
		return &r.UnderCorrected
	}
	return nil
}

// Selected lists the remark types that are set
func (r RemarkFlags) Selected() []enum.RemarkType {
	var out []enum.RemarkType
	for _, t := range enum.RemarkTypes {
		if *r.Flag(t) {
			out = append(out, t)
		}
	}
	return out
}

// Payment holds the raw advance inputs and the derived payment summary.
// The advance inputs are text as typed; everything else is written by
// RecomputeTotals.
type Payment struct {
	CashAdvance    string `json:"cash_advance"`
	CardUPIAdvance string `json:"card_upi_advance"`
	OtherAdvance   string `json:"other_advance"`

	// PriorAdvance is the advance already stored for an existing order
	PriorAdvance decimal.Decimal `json:"prior_advance"`

	BaseAmount    decimal.Decimal `json:"base_amount"`
	TaxTotal      decimal.Decimal `json:"tax_total"`
	Estimate      decimal.Decimal `json:"estimate"`
	DiscountTotal decimal.Decimal `json:"discount_total"`
	FinalAmount   decimal.Decimal `json:"final_amount"`
	TotalAdvance  decimal.Decimal `json:"total_advance"`
	Balance       decimal.Decimal `json:"balance"`
}

// Advances parses the raw advance inputs. Unparseable text counts as zero.
func (p Payment) Advances() billing.Advances {
	return billing.Advances{
		Cash:    formatter.AmountOrZero(p.CashAdvance),
		CardUPI: formatter.AmountOrZero(p.CardUPIAdvance),
		Other:   formatter.AmountOrZero(p.OtherAdvance),
		Prior:   p.PriorAdvance,
	}
}

// MarshalJSON renders money fields with two decimals
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		PriorAdvance  string `json:"prior_advance"`
		BaseAmount    string `json:"base_amount"`
		TaxTotal      string `json:"tax_total"`
		Estimate      string `json:"estimate"`
		DiscountTotal string `json:"discount_total"`
		FinalAmount   string `json:"final_amount"`
		TotalAdvance  string `json:"total_advance"`
		Balance       string `json:"balance"`
	}{
		Alias:         Alias(p),
		PriorAdvance:  formatter.Money(p.PriorAdvance),
		BaseAmount:    formatter.Money(p.BaseAmount),
		TaxTotal:      formatter.Money(p.TaxTotal),
		Estimate:      formatter.Money(p.Estimate),
		DiscountTotal: formatter.Money(p.DiscountTotal),
		FinalAmount:   formatter.Money(p.FinalAmount),
		TotalAdvance:  formatter.Money(p.TotalAdvance),
		Balance:       formatter.Money(p.Balance),
	})
}

// Status holds the workshop status and follow-up dates
type Status struct {
	OrderStatus  enum.OrderStatus `json:"order_status"`
	StatusDate   string           `json:"status_date"`
	RetestDate   string           `json:"retest_date"`
	DeliveryDate string           `json:"delivery_date"`
	DeliveryTime string           `json:"delivery_time"`
	Remarks      string           `json:"remarks"`
}

// Suggestion is a read-only projection of a saved record found by search
type Suggestion struct {
	PrescriptionID uuid.UUID   `json:"prescription_id"`
	OrderID        *uuid.UUID  `json:"order_id,omitempty"`
	Record         OrderRecord `json:"record"`
}

// New returns a blank record with fresh identifiers and default dates
func New(gen *identifier.Generator) OrderRecord {
	today := gen.Today()
	prescriptionNo := gen.PrescriptionNo()
	return OrderRecord{
		Identifiers: Identifiers{
			PrescriptionNo: prescriptionNo,
			ReferenceNo:    gen.ReferenceNo(prescriptionNo),
		},
		Customer: Customer{
			Title:  DefaultTitle,
			Gender: DefaultGender,
		},
		Prescription: Prescription{
			Date:     today,
			RightEye: blankEye(),
			LeftEye:  blankEye(),
		},
		Items: []billing.LineItem{},
		Status: Status{
			OrderStatus:  enum.OrderStatusProcessing,
			StatusDate:   today,
			RetestDate:   today,
			DeliveryDate: gen.Now().AddDate(0, 1, 0).Format("2006-01-02"),
			DeliveryTime: DefaultDeliveryTime,
		},
	}
}

func blankEye() EyeMeasurement {
	return EyeMeasurement{
		Distance: VisionReading{VisualAcuity: enum.VisionDistance.DefaultVisualAcuity()},
		Near:     VisionReading{VisualAcuity: enum.VisionNear.DefaultVisualAcuity()},
	}
}

// RecomputeTotals returns the record with its derived payment fields
// rebuilt from the items and the raw advance inputs. TotalAdvance and the
// other derived fields are never read.
func RecomputeTotals(rec OrderRecord) OrderRecord {
	totals := billing.Reconcile(rec.Items, rec.Payment.Advances())
	rec.Payment.BaseAmount = totals.BaseAmount
	rec.Payment.TaxTotal = totals.TaxTotal
	rec.Payment.Estimate = totals.Estimate
	rec.Payment.DiscountTotal = totals.DiscountTotal
	rec.Payment.FinalAmount = totals.FinalAmount
	rec.Payment.TotalAdvance = totals.TotalAdvance
	rec.Payment.Balance = totals.Balance
	return rec
}

// RecomputeIPD rebuilds the interpupillary distance from both PDs
func RecomputeIPD(rec OrderRecord) OrderRecord {
	rec.Prescription.IPD = formatter.FormatIPD(rec.Prescription.RightEye.PD, rec.Prescription.LeftEye.PD)
	return rec
}

// Clone returns a copy that shares no slices with rec
func Clone(rec OrderRecord) OrderRecord {
	items := make([]billing.LineItem, len(rec.Items))
	copy(items, rec.Items)
	rec.Items = items
	return rec
}
