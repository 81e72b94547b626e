package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/pkg/formatter"
)

// ErrUnknownPath is returned for a path that does not name an editable leaf
var ErrUnknownPath = errors.New("Unknown field path")

// Path addresses one editable leaf, one segment per level, for example
// Path{"prescription", "right_eye", "distance", "axis"}
type Path []string

func (p Path) String() string {
	return strings.Join(p, ".")
}

type leaf struct {
	get   func(OrderRecord) string
	set   func(OrderRecord, string) (OrderRecord, error)
	after func(OrderRecord) OrderRecord
}

type node struct {
	children map[string]*node
	leaf     *leaf
}

var tree = &node{}

func register(p Path, l *leaf) {
	n := tree
	for _, seg := range p {
		if n.children == nil {
			n.children = make(map[string]*node)
		}
		child, ok := n.children[seg]
		if !ok {
			child = &node{}
			n.children[seg] = child
		}
		n = child
	}
	n.leaf = l
}

func lookup(p Path) (*leaf, error) {
	n := tree
	for _, seg := range p {
		child, ok := n.children[seg]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPath, p)
		}
		n = child
	}
	if n.leaf == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPath, p)
	}
	return n.leaf, nil
}

func text(l Lens[OrderRecord, string], format func(string) string) *leaf {
	return &leaf{
		get: l.Get,
		set: func(r OrderRecord, v string) (OrderRecord, error) {
			if format != nil {
				v = format(v)
			}
			return l.Set(r, v), nil
		},
	}
}

func flag(l Lens[OrderRecord, bool]) *leaf {
	return &leaf{
		get: func(r OrderRecord) string { return strconv.FormatBool(l.Get(r)) },
		set: func(r OrderRecord, v string) (OrderRecord, error) {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				return r, fmt.Errorf("invalid boolean %q", v)
			}
			return l.Set(r, b), nil
		},
	}
}

func withAfter(l *leaf, after func(OrderRecord) OrderRecord) *leaf {
	l.after = after
	return l
}

func init() {
	ids := func(at func(*Identifiers) *string) Lens[OrderRecord, string] {
		return Compose(IdentifiersLens, Field(at))
	}
	register(Path{"identifiers", "prescription_no"}, text(ids(func(i *Identifiers) *string { return &i.PrescriptionNo }), strings.TrimSpace))
	register(Path{"identifiers", "reference_no"}, text(ids(func(i *Identifiers) *string { return &i.ReferenceNo }), strings.TrimSpace))
	register(Path{"identifiers", "bill_no"}, text(ids(func(i *Identifiers) *string { return &i.BillNo }), strings.TrimSpace))

	cust := func(at func(*Customer) *string) Lens[OrderRecord, string] {
		return Compose(CustomerLens, Field(at))
	}
	customerFields := map[string]func(*Customer) *string{
		"title":          func(c *Customer) *string { return &c.Title },
		"name":           func(c *Customer) *string { return &c.Name },
		"gender":         func(c *Customer) *string { return &c.Gender },
		"age":            func(c *Customer) *string { return &c.Age },
		"mobile_no":      func(c *Customer) *string { return &c.MobileNo },
		"phone_landline": func(c *Customer) *string { return &c.PhoneLandline },
		"email":          func(c *Customer) *string { return &c.Email },
		"address":        func(c *Customer) *string { return &c.Address },
		"city":           func(c *Customer) *string { return &c.City },
		"state":          func(c *Customer) *string { return &c.State },
		"pin":            func(c *Customer) *string { return &c.Pin },
		"customer_code":  func(c *Customer) *string { return &c.CustomerCode },
	}
	for name, at := range customerFields {
		register(Path{"customer", name}, text(cust(at), nil))
	}
	register(Path{"customer", "birth_day"}, text(cust(func(c *Customer) *string { return &c.BirthDay }), formatter.FormatDate))
	register(Path{"customer", "marriage_anniversary"}, text(cust(func(c *Customer) *string { return &c.MarriageAnniversary }), formatter.FormatDate))

	rx := func(at func(*Prescription) *string) Lens[OrderRecord, string] {
		return Compose(PrescriptionLens, Field(at))
	}
	register(Path{"prescription", "date"}, text(rx(func(p *Prescription) *string { return &p.Date }), formatter.FormatDate))
	register(Path{"prescription", "class"}, text(rx(func(p *Prescription) *string { return &p.Class }), nil))
	register(Path{"prescription", "prescribed_by"}, text(rx(func(p *Prescription) *string { return &p.PrescribedBy }), nil))
	register(Path{"prescription", "booking_by"}, text(rx(func(p *Prescription) *string { return &p.BookingBy }), nil))
	register(Path{"prescription", "ipd"}, text(rx(func(p *Prescription) *string { return &p.IPD }), formatter.FormatNumeric))
	register(Path{"prescription", "balance_lens"}, flag(Compose(PrescriptionLens, Field(func(p *Prescription) *bool { return &p.BalanceLens }))))

	for _, side := range []enum.EyeSide{enum.EyeRight, enum.EyeLeft} {
		eyeKey := "right_eye"
		if side == enum.EyeLeft {
			eyeKey = "left_eye"
		}
		register(Path{"prescription", eyeKey, "pd"}, withAfter(text(Compose(EyeLens(side), PDLens), formatter.FormatPD), RecomputeIPD))

		for _, vision := range []enum.VisionType{enum.VisionDistance, enum.VisionNear} {
			reading := ReadingLens(side, vision)
			register(Path{"prescription", eyeKey, string(vision), "sph"}, text(Compose(reading, SphLens), formatter.FormatNumeric))
			register(Path{"prescription", eyeKey, string(vision), "cyl"}, text(Compose(reading, CylLens), formatter.FormatNumeric))
			register(Path{"prescription", eyeKey, string(vision), "axis"}, text(Compose(reading, AxisLens), formatter.FormatAxis))
			register(Path{"prescription", eyeKey, string(vision), "add"}, text(Compose(reading, AddLens), formatter.FormatNumeric))
			register(Path{"prescription", eyeKey, string(vision), "vn"}, text(Compose(reading, AcuityLens), nil))
		}
	}

	for _, t := range enum.RemarkTypes {
		register(Path{"prescription", "remarks", string(t)}, flag(RemarkLens(t)))
	}

	pay := func(at func(*Payment) *string) Lens[OrderRecord, string] {
		return Compose(PaymentLens, Field(at))
	}
	register(Path{"payment", "cash_advance"}, withAfter(text(pay(func(p *Payment) *string { return &p.CashAdvance }), formatter.FormatNumeric), RecomputeTotals))
	register(Path{"payment", "card_upi_advance"}, withAfter(text(pay(func(p *Payment) *string { return &p.CardUPIAdvance }), formatter.FormatNumeric), RecomputeTotals))
	register(Path{"payment", "other_advance"}, withAfter(text(pay(func(p *Payment) *string { return &p.OtherAdvance }), formatter.FormatNumeric), RecomputeTotals))

	st := func(at func(*Status) *string) Lens[OrderRecord, string] {
		return Compose(StatusLens, Field(at))
	}
	register(Path{"status", "status_date"}, text(st(func(s *Status) *string { return &s.StatusDate }), formatter.FormatDate))
	register(Path{"status", "retest_date"}, text(st(func(s *Status) *string { return &s.RetestDate }), formatter.FormatDate))
	register(Path{"status", "delivery_date"}, text(st(func(s *Status) *string { return &s.DeliveryDate }), formatter.FormatDate))
	register(Path{"status", "delivery_time"}, text(st(func(s *Status) *string { return &s.DeliveryTime }), strings.TrimSpace))
	register(Path{"status", "remarks"}, text(st(func(s *Status) *string { return &s.Remarks }), nil))

	orderStatus := Compose(StatusLens, Field(func(s *Status) *enum.OrderStatus { return &s.OrderStatus }))
	register(Path{"status", "order_status"}, &leaf{
		get: func(r OrderRecord) string { return orderStatus.Get(r).String() },
		set: func(r OrderRecord, v string) (OrderRecord, error) {
			status, err := enum.ParseOrderStatus(v)
			if err != nil {
				return r, err
			}
			return orderStatus.Set(r, status), nil
		},
	})
}

// Apply formats value for the leaf at p, stores it and runs any dependent
// recomputation. rec itself is not modified.
func Apply(rec OrderRecord, p Path, value string) (OrderRecord, error) {
	l, err := lookup(p)
	if err != nil {
		return rec, err
	}
	out, err := l.set(Clone(rec), value)
	if err != nil {
		return rec, fmt.Errorf("%s: %w", p, err)
	}
	if l.after != nil {
		out = l.after(out)
	}
	return out, nil
}

// Get reads the leaf at p as text
func Get(rec OrderRecord, p Path) (string, error) {
	l, err := lookup(p)
	if err != nil {
		return "", err
	}
	return l.get(rec), nil
}
