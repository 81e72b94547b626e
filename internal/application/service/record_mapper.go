package service

import (
	"strings"
	"time"

	"github.com/sangkips/optica-api/internal/domain/billing"
	"github.com/sangkips/optica-api/internal/domain/entity"
	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/internal/domain/record"
	"github.com/sangkips/optica-api/pkg/formatter"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// parseDate reads a form date. Blank or malformed input is stored as NULL.
func parseDate(s string) *time.Time {
	s = formatter.FormatDate(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func customerFromRecord(c record.Customer) entity.Customer {
	return entity.Customer{
		Title:               c.Title,
		Name:                orDefault(c.Name, entity.DefaultCustomerName),
		Gender:              c.Gender,
		Age:                 c.Age,
		MobileNo:            c.MobileNo,
		PhoneLandline:       c.PhoneLandline,
		Email:               c.Email,
		Address:             c.Address,
		City:                c.City,
		State:               c.State,
		Pin:                 c.Pin,
		CustomerCode:        c.CustomerCode,
		BirthDay:            parseDate(c.BirthDay),
		MarriageAnniversary: parseDate(c.MarriageAnniversary),
	}
}

func customerToRecord(c entity.Customer) record.Customer {
	return record.Customer{
		Title:               c.Title,
		Name:                c.Name,
		Gender:              c.Gender,
		Age:                 c.Age,
		MobileNo:            c.MobileNo,
		PhoneLandline:       c.PhoneLandline,
		Email:               c.Email,
		Address:             c.Address,
		City:                c.City,
		State:               c.State,
		Pin:                 c.Pin,
		CustomerCode:        c.CustomerCode,
		BirthDay:            formatDate(c.BirthDay),
		MarriageAnniversary: formatDate(c.MarriageAnniversary),
	}
}

// applyPrescription copies the form onto a prescription row, keeping its id
func applyPrescription(p *entity.Prescription, rec record.OrderRecord) {
	p.PrescriptionNo = strings.TrimSpace(rec.Identifiers.PrescriptionNo)
	p.ReferenceNo = rec.Identifiers.ReferenceNo
	p.PrescriptionDate = parseDate(rec.Prescription.Date)
	p.Class = rec.Prescription.Class
	p.PrescribedBy = orDefault(rec.Prescription.PrescribedBy, entity.DefaultPrescriber)
	p.BookingBy = rec.Prescription.BookingBy
	p.Customer = customerFromRecord(rec.Customer)
	p.IPD = rec.Prescription.IPD
	p.BalanceLens = rec.Prescription.BalanceLens
}

func eyeRow(side enum.EyeSide, vision enum.VisionType, r record.VisionReading, pd string) entity.EyePrescription {
	row := entity.EyePrescription{
		EyeType:    strings.ToLower(string(side)),
		VisionType: string(vision),
		Sph:        r.Sph,
		Cyl:        r.Cyl,
		Axis:       r.Axis,
		AddPower:   r.Add,
		VN:         r.VisualAcuity,
	}
	if vision == enum.VisionDistance {
		if side == enum.EyeRight {
			row.RPD = pd
		} else {
			row.LPD = pd
		}
	}
	return row
}

// eyesFromRecord produces the four readings of a prescription. The
// pupillary distance is kept on the distance rows.
func eyesFromRecord(p record.Prescription) []entity.EyePrescription {
	return []entity.EyePrescription{
		eyeRow(enum.EyeRight, enum.VisionDistance, p.RightEye.Distance, p.RightEye.PD),
		eyeRow(enum.EyeRight, enum.VisionNear, p.RightEye.Near, p.RightEye.PD),
		eyeRow(enum.EyeLeft, enum.VisionDistance, p.LeftEye.Distance, p.LeftEye.PD),
		eyeRow(enum.EyeLeft, enum.VisionNear, p.LeftEye.Near, p.LeftEye.PD),
	}
}

func remarksFromRecord(flags record.RemarkFlags) []entity.PrescriptionRemark {
	selected := flags.Selected()
	remarks := make([]entity.PrescriptionRemark, 0, len(selected))
	for _, t := range selected {
		remarks = append(remarks, entity.PrescriptionRemark{RemarkType: string(t)})
	}
	return remarks
}

// applyOrder copies identifiers and status onto an order row. The order
// date is set once on create and left alone on resubmit.
func applyOrder(o *entity.Order, rec record.OrderRecord, orderNo string) {
	o.OrderNo = orderNo
	o.BillNo = rec.Identifiers.BillNo
	o.Status = rec.Status.OrderStatus
	o.StatusDate = parseDate(rec.Status.StatusDate)
	o.RetestDate = parseDate(rec.Status.RetestDate)
	o.DeliveryDate = parseDate(rec.Status.DeliveryDate)
	o.DeliveryTime = rec.Status.DeliveryTime
	o.Remarks = rec.Status.Remarks
}

// orderItemsFromRecord maps line items to rows. Item types missing on the
// form are inferred from the code and name.
func orderItemsFromRecord(items []billing.LineItem) []entity.OrderItem {
	rows := make([]entity.OrderItem, 0, len(items))
	for _, li := range items {
		itemType := li.ItemType
		if itemType == "" {
			itemType = enum.InferItemType(li.ItemCode, li.ItemName)
		}
		rows = append(rows, entity.OrderItem{
			SI:              li.SI,
			ItemType:        string(itemType),
			ItemCode:        li.ItemCode,
			ItemName:        li.ItemName,
			Unit:            li.Unit,
			TaxPercent:      li.TaxPercent,
			Rate:            li.Rate,
			Qty:             li.Qty,
			Amount:          li.Amount,
			DiscountAmount:  li.DiscountAmount,
			DiscountPercent: li.DiscountPercent,
			BrandName:       li.BrandName,
			LensIndex:       li.LensIndex,
			Coating:         li.Coating,
		})
	}
	return rows
}

// lineItemsFromRows carries stored items over as saved, without repricing
func lineItemsFromRows(rows []entity.OrderItem) []billing.LineItem {
	items := make([]billing.LineItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, billing.LineItem{
			SI:              row.SI,
			ItemType:        enum.ParseItemType(row.ItemType),
			ItemCode:        row.ItemCode,
			ItemName:        row.ItemName,
			Unit:            row.Unit,
			TaxPercent:      row.TaxPercent,
			Rate:            row.Rate,
			Qty:             row.Qty,
			Amount:          row.Amount,
			DiscountAmount:  row.DiscountAmount,
			DiscountPercent: row.DiscountPercent,
			BrandName:       row.BrandName,
			LensIndex:       row.LensIndex,
			Coating:         row.Coating,
		})
	}
	return items
}

// paymentSnapshot shows a stored payment as saved. The advance inputs
// hold the stored per-channel totals.
func paymentSnapshot(p *entity.OrderPayment) record.Payment {
	if p == nil {
		return record.Payment{}
	}
	return record.Payment{
		CashAdvance:    moneyInput(p.CashAdvance),
		CardUPIAdvance: moneyInput(p.CardUPIAdvance),
		OtherAdvance:   moneyInput(p.OtherAdvance),
		BaseAmount:     p.Estimate.Sub(p.TaxAmount),
		TaxTotal:       p.TaxAmount,
		Estimate:       p.Estimate,
		DiscountTotal:  p.DiscountAmount,
		FinalAmount:    p.FinalAmount,
		TotalAdvance:   p.TotalAdvance,
		Balance:        p.Balance,
	}
}

func moneyInput(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return formatter.Money(d)
}

func statusFromOrder(o *entity.Order) record.Status {
	return record.Status{
		OrderStatus:  o.Status,
		StatusDate:   formatDate(o.StatusDate),
		RetestDate:   formatDate(o.RetestDate),
		DeliveryDate: formatDate(o.DeliveryDate),
		DeliveryTime: o.DeliveryTime,
		Remarks:      o.Remarks,
	}
}
