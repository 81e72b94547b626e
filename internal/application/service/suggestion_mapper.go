package service

import (
	"fmt"
	"log"
	"strings"

	"github.com/sangkips/optica-api/internal/domain/billing"
	"github.com/sangkips/optica-api/internal/domain/entity"
	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/internal/domain/record"
	"github.com/sangkips/optica-api/internal/domain/repository"
	"github.com/sangkips/optica-api/internal/infrastructure/metrics"
	"github.com/sangkips/optica-api/pkg/formatter"
)

// Column spellings found in eye_prescriptions rows, most common first
var (
	eyeKeys     = []string{"eye_type", "eyeType", "eye"}
	visionKeys  = []string{"vision_type", "visionType", "type"}
	sphKeys     = []string{"sph", "sphere"}
	cylKeys     = []string{"cyl", "cylinder"}
	axisKeys    = []string{"ax", "axis"}
	addKeys     = []string{"add_power", "add", "addition"}
	acuityKeys  = []string{"vn", "visual_acuity", "va"}
	rightPDKeys = []string{"rpd", "right_pd", "pupillary_distance_right"}
	leftPDKeys  = []string{"lpd", "left_pd", "pupillary_distance_left"}
)

// lookup returns the first non-empty value stored under any of keys
func lookup(row repository.EyeRow, keys ...string) string {
	for _, k := range keys {
		v, ok := row[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch x := v.(type) {
		case string:
			s = x
		case []byte:
			s = string(x)
		default:
			s = fmt.Sprint(x)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

func reading(row repository.EyeRow, vision enum.VisionType) record.VisionReading {
	acuity := lookup(row, acuityKeys...)
	if acuity == "" {
		acuity = vision.DefaultVisualAcuity()
	}
	return record.VisionReading{
		Sph:          lookup(row, sphKeys...),
		Cyl:          lookup(row, cylKeys...),
		Axis:         lookup(row, axisKeys...),
		Add:          lookup(row, addKeys...),
		VisualAcuity: acuity,
	}
}

// applyEyeRows maps eye rows onto a prescription. A row whose eye or
// vision cannot be read is logged and skipped, leaving the defaults.
func applyEyeRows(p *record.Prescription, rows []repository.EyeRow, prescriptionNo string) {
	for i, row := range rows {
		side, ok := enum.ParseEyeSide(lookup(row, eyeKeys...))
		if !ok || side == enum.EyeBoth {
			log.Printf("Search: prescription %s eye row %d has unreadable eye %q, using defaults", prescriptionNo, i, lookup(row, eyeKeys...))
			metrics.SearchRowFallbacks.Inc()
			continue
		}
		vision, ok := enum.ParseVisionType(lookup(row, visionKeys...))
		if !ok {
			log.Printf("Search: prescription %s eye row %d has unreadable vision type %q, using defaults", prescriptionNo, i, lookup(row, visionKeys...))
			metrics.SearchRowFallbacks.Inc()
			continue
		}

		eye := &p.RightEye
		pd := lookup(row, rightPDKeys...)
		if side == enum.EyeLeft {
			eye = &p.LeftEye
			pd = lookup(row, leftPDKeys...)
		}
		if vision == enum.VisionNear {
			eye.Near = reading(row, vision)
		} else {
			eye.Distance = reading(row, vision)
		}
		if pd != "" {
			eye.PD = pd
		}
	}
}

func remarkFlags(types []string, prescriptionNo string) record.RemarkFlags {
	var flags record.RemarkFlags
	for _, t := range types {
		f := flags.Flag(enum.RemarkType(strings.TrimSpace(t)))
		if f == nil {
			log.Printf("Search: prescription %s has unknown remark type %q, ignored", prescriptionNo, t)
			continue
		}
		*f = true
	}
	return flags
}

func blankEye() record.EyeMeasurement {
	return record.EyeMeasurement{
		Distance: record.VisionReading{VisualAcuity: enum.VisionDistance.DefaultVisualAcuity()},
		Near:     record.VisionReading{VisualAcuity: enum.VisionNear.DefaultVisualAcuity()},
	}
}

// buildSuggestion projects a stored prescription, its eye and remark rows
// and its latest order into a form record. Items and payment of the order
// are carried as saved.
func buildSuggestion(p entity.Prescription, rows []repository.EyeRow, remarkTypes []string, order *entity.Order) record.Suggestion {
	rec := record.OrderRecord{
		Identifiers: record.Identifiers{
			PrescriptionNo: p.PrescriptionNo,
			ReferenceNo:    p.ReferenceNo,
		},
		Customer: customerToRecord(p.Customer),
		Prescription: record.Prescription{
			Date:         formatDate(p.PrescriptionDate),
			Class:        p.Class,
			PrescribedBy: p.PrescribedBy,
			BookingBy:    p.BookingBy,
			RightEye:     blankEye(),
			LeftEye:      blankEye(),
			IPD:          p.IPD,
			BalanceLens:  p.BalanceLens,
			Remarks:      remarkFlags(remarkTypes, p.PrescriptionNo),
		},
		Items: []billing.LineItem{},
	}
	applyEyeRows(&rec.Prescription, rows, p.PrescriptionNo)
	if rec.Prescription.IPD == "" {
		rec.Prescription.IPD = formatter.FormatIPD(rec.Prescription.RightEye.PD, rec.Prescription.LeftEye.PD)
	}

	suggestion := record.Suggestion{PrescriptionID: p.ID}
	if order != nil {
		id := order.ID
		suggestion.OrderID = &id
		rec.Identifiers.BillNo = order.BillNo
		rec.Items = lineItemsFromRows(order.Items)
		rec.Payment = paymentSnapshot(order.Payment)
		rec.Status = statusFromOrder(order)
	}
	suggestion.Record = rec
	return suggestion
}
