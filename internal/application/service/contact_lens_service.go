package service

import (
	"context"
	"log"
	"strings"

	"github.com/sangkips/optica-api/internal/domain/billing"
	"github.com/sangkips/optica-api/internal/domain/entity"
	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/internal/domain/record"
	"github.com/sangkips/optica-api/internal/domain/repository"
	"github.com/sangkips/optica-api/internal/infrastructure/metrics"
	"github.com/sangkips/optica-api/pkg/apperror"
	"github.com/sangkips/optica-api/pkg/formatter"
	"github.com/sangkips/optica-api/pkg/identifier"
)

// ContactLensService saves and finds contact-lens prescriptions
type ContactLensService struct {
	repo  repository.ContactLensRepository
	gen   *identifier.Generator
	limit int
}

// NewContactLensService creates a new contact-lens service
func NewContactLensService(repo repository.ContactLensRepository, gen *identifier.Generator, limit int) *ContactLensService {
	if limit < 1 {
		limit = DefaultSearchLimit
	}
	return &ContactLensService{repo: repo, gen: gen, limit: limit}
}

// NewRecord returns a blank contact-lens form with a fresh number
func (s *ContactLensService) NewRecord() record.ContactLensRecord {
	base := record.New(s.gen)
	return record.ContactLensRecord{
		Identifiers: record.Identifiers{PrescriptionNo: s.gen.ContactLensPrescriptionNo()},
		Customer:    base.Customer,
		RightEye:    base.Prescription.RightEye,
		LeftEye:     base.Prescription.LeftEye,
		Items:       []record.ContactLensItem{},
		Payment: record.ContactLensPayment{
			PaymentMode: record.DefaultPaymentMode,
			PaymentDate: s.gen.Today(),
		},
		Status: base.Status,
	}
}

// Save validates the form and writes the prescription, its eyes, its lens
// lines and its payment. Advances are added to any already stored.
func (s *ContactLensService) Save(ctx context.Context, rec record.ContactLensRecord) (*entity.ContactLensPrescription, error) {
	if err := rec.Validate(); err != nil {
		return nil, apperror.NewUnprocessableError(err)
	}
	items, err := rec.LineItems()
	if err != nil {
		return nil, apperror.NewUnprocessableError(err)
	}
	prescriptionNo := strings.TrimSpace(rec.Identifiers.PrescriptionNo)

	prescription, err := s.repo.GetByPrescriptionNo(ctx, prescriptionNo)
	if err != nil {
		return nil, stepFailed(StepLookupPrescription, prescriptionNo, err)
	}
	created := prescription == nil
	if created {
		prescription = &entity.ContactLensPrescription{}
		applyContactLens(prescription, rec)
		if err := s.repo.Create(ctx, prescription); err != nil {
			return nil, stepFailed(StepCreatePrescription, prescriptionNo, err)
		}
	} else {
		applyContactLens(prescription, rec)
		if err := s.repo.Update(ctx, prescription); err != nil {
			return nil, stepFailed(StepUpdatePrescription, prescriptionNo, err)
		}
	}

	if err := s.repo.ReplaceEyes(ctx, prescription.ID, contactLensEyes(rec)); err != nil {
		return nil, stepFailed(StepSaveEyeReadings, prescriptionNo, err)
	}
	if err := s.repo.ReplaceItems(ctx, prescription.ID, contactLensItems(rec.Items, items)); err != nil {
		return nil, stepFailed(StepCreateItems, prescriptionNo, err)
	}

	payment, err := s.repo.GetPayment(ctx, prescription.ID)
	if err != nil {
		return nil, stepFailed(StepLookupPayment, prescriptionNo, err)
	}
	adv := rec.Payment.Advances()
	if payment == nil {
		payment = &entity.ContactLensPayment{
			ContactLensPrescriptionID: prescription.ID,
			CashAdvance:               adv.Cash,
			CardUPIAdvance:            adv.CardUPI,
			ChequeAdvance:             adv.Other,
		}
		applyContactLensPayment(payment, rec, items)
		if err := s.repo.CreatePayment(ctx, payment); err != nil {
			return nil, stepFailed(StepCreatePayment, prescriptionNo, err)
		}
	} else {
		payment.CashAdvance = payment.CashAdvance.Add(adv.Cash)
		payment.CardUPIAdvance = payment.CardUPIAdvance.Add(adv.CardUPI)
		payment.ChequeAdvance = payment.ChequeAdvance.Add(adv.Other)
		applyContactLensPayment(payment, rec, items)
		if err := s.repo.UpdatePayment(ctx, payment); err != nil {
			return nil, stepFailed(StepUpdatePayment, prescriptionNo, err)
		}
	}

	outcome := "updated"
	if created {
		outcome = "created"
	}
	metrics.RecordsSaved.WithLabelValues("contact_lens", outcome).Inc()
	log.Printf("Saved contact-lens prescription %s (%s)", prescriptionNo, outcome)

	return s.Get(ctx, prescriptionNo)
}

// Get returns a contact-lens prescription with its eyes, items and payment
func (s *ContactLensService) Get(ctx context.Context, prescriptionNo string) (*entity.ContactLensPrescription, error) {
	prescription, err := s.repo.GetWithDetails(ctx, strings.TrimSpace(prescriptionNo))
	if err != nil {
		return nil, apperror.NewStepError(StepLookupPrescription, err)
	}
	if prescription == nil {
		return nil, apperror.NewNotFoundError("Contact lens prescription")
	}
	return prescription, nil
}

// Search finds contact-lens prescriptions with the same exact then
// contains rule as the spectacle search
func (s *ContactLensService) Search(ctx context.Context, field repository.SearchField, query string) ([]entity.ContactLensPrescription, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []entity.ContactLensPrescription{}, nil
	}
	params := repository.SearchParams{Field: field, Query: query, Mode: repository.MatchExact, Limit: s.limit}
	found, err := s.repo.Search(ctx, params)
	if err != nil {
		return nil, apperror.NewStepError("search", err)
	}
	if len(found) == 0 && field.AllowsContains() {
		params.Mode = repository.MatchContains
		if found, err = s.repo.Search(ctx, params); err != nil {
			return nil, apperror.NewStepError("search", err)
		}
	}
	metrics.SearchRequests.WithLabelValues("contact_lens_"+string(field), "store").Inc()
	return found, nil
}

func applyContactLens(p *entity.ContactLensPrescription, rec record.ContactLensRecord) {
	p.PrescriptionNo = strings.TrimSpace(rec.Identifiers.PrescriptionNo)
	p.ReferenceNo = rec.Identifiers.ReferenceNo
	p.PrescribedBy = orDefault(rec.PrescribedBy, entity.DefaultPrescriber)
	p.BookedBy = strings.TrimSpace(rec.BookingBy)
	p.Customer = customerFromRecord(rec.Customer)
	p.IPD = rec.IPD
	if p.IPD == "" {
		p.IPD = formatter.FormatIPD(rec.RightEye.PD, rec.LeftEye.PD)
	}
	p.Status = rec.Status.OrderStatus
	p.DeliveryDate = parseDate(rec.Status.DeliveryDate)
	p.DeliveryTime = rec.Status.DeliveryTime
	p.RetestDate = parseDate(rec.Status.RetestDate)
	p.ExpiryDate = parseDate(rec.ExpiryDate)
	p.Remarks = rec.Status.Remarks
}

func contactLensEyes(rec record.ContactLensRecord) []entity.ContactLensEye {
	eye := func(side enum.EyeSide, m record.EyeMeasurement) entity.ContactLensEye {
		row := entity.ContactLensEye{
			EyeSide:  string(side),
			Sph:      m.Distance.Sph,
			Cyl:      m.Distance.Cyl,
			Axis:     m.Distance.Axis,
			AddPower: m.Distance.Add,
			VN:       m.Distance.VisualAcuity,
		}
		if side == enum.EyeRight {
			row.RPD = m.PD
		} else {
			row.LPD = m.PD
		}
		return row
	}
	return []entity.ContactLensEye{
		eye(enum.EyeRight, rec.RightEye),
		eye(enum.EyeLeft, rec.LeftEye),
	}
}

// contactLensItems pairs each lens line with its priced line item
func contactLensItems(lines []record.ContactLensItem, priced []billing.LineItem) []entity.ContactLensItem {
	rows := make([]entity.ContactLensItem, 0, len(lines))
	for i, cl := range lines {
		li := priced[i]
		rows = append(rows, entity.ContactLensItem{
			SI:           li.SI,
			EyeSide:      string(cl.EyeSide()),
			BaseCurve:    cl.BaseCurve,
			Power:        cl.Power,
			MaterialText: cl.Material,
			DisposalText: cl.Disposal,
			BrandText:    cl.Brand,
			Diameter:     cl.Diameter,
			Quantity:     li.Qty,
			Rate:         li.Rate,
			Amount:       li.Amount,
			Sph:          formatter.FormatNumeric(cl.Sph),
			Cyl:          formatter.FormatNumeric(cl.Cyl),
			Axis:         formatter.FormatAxis(cl.Axis),
			LensCode:     cl.LensCode,
		})
	}
	return rows
}

// applyContactLensPayment reconciles the priced items against the stored
// per-channel advances on p
func applyContactLensPayment(p *entity.ContactLensPayment, rec record.ContactLensRecord, items []billing.LineItem) {
	totals := billing.Reconcile(items, billing.Advances{
		Cash:    p.CashAdvance,
		CardUPI: p.CardUPIAdvance,
		Other:   p.ChequeAdvance,
	})
	p.PaymentTotal = totals.FinalAmount
	p.Estimate = totals.Estimate
	p.Advance = totals.TotalAdvance
	p.Balance = totals.Balance
	p.DiscountAmount = totals.DiscountTotal
	p.DiscountPercent = formatter.AmountOrZero(rec.DiscountPercent)
	p.PaymentMode = orDefault(rec.Payment.PaymentMode, record.DefaultPaymentMode)
	p.PaymentDate = parseDate(rec.Payment.PaymentDate)
}
