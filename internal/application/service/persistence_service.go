package service

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/optica-api/internal/domain/billing"
	"github.com/sangkips/optica-api/internal/domain/entity"
	"github.com/sangkips/optica-api/internal/domain/record"
	"github.com/sangkips/optica-api/internal/domain/repository"
	"github.com/sangkips/optica-api/internal/infrastructure/cache"
	"github.com/sangkips/optica-api/internal/infrastructure/metrics"
	"github.com/sangkips/optica-api/pkg/apperror"
	"github.com/sangkips/optica-api/pkg/identifier"
)

// Save steps, in the order they run
const (
	StepLookupPrescription = "lookup_prescription"
	StepCreatePrescription = "create_prescription"
	StepUpdatePrescription = "update_prescription"
	StepSaveEyeReadings    = "save_eye_readings"
	StepSaveRemarks        = "save_remarks"
	StepLookupOrder        = "lookup_order"
	StepCreateOrder        = "create_order"
	StepUpdateOrder        = "update_order"
	StepDeleteItems        = "delete_items"
	StepCreateItems        = "create_items"
	StepLookupPayment      = "lookup_payment"
	StepCreatePayment      = "create_payment"
	StepUpdatePayment      = "update_payment"
)

// SaveResult describes what a save wrote
type SaveResult struct {
	PrescriptionID uuid.UUID            `json:"prescription_id"`
	OrderID        uuid.UUID            `json:"order_id"`
	OrderNo        string               `json:"order_no"`
	NewOrder       bool                 `json:"new_order"`
	Payment        *entity.OrderPayment `json:"payment"`
}

// PersistenceService writes spectacle order records to the store. Steps
// run one after another without a transaction; a failed step leaves the
// earlier steps applied and reports its own name.
type PersistenceService struct {
	prescriptionRepo repository.PrescriptionRepository
	orderRepo        repository.OrderRepository
	itemRepo         repository.OrderItemRepository
	paymentRepo      repository.OrderPaymentRepository
	suggestions      *cache.SuggestionCache
	gen              *identifier.Generator
}

// NewPersistenceService creates a new persistence service
func NewPersistenceService(
	prescriptionRepo repository.PrescriptionRepository,
	orderRepo repository.OrderRepository,
	itemRepo repository.OrderItemRepository,
	paymentRepo repository.OrderPaymentRepository,
	suggestions *cache.SuggestionCache,
	gen *identifier.Generator,
) *PersistenceService {
	return &PersistenceService{
		prescriptionRepo: prescriptionRepo,
		orderRepo:        orderRepo,
		itemRepo:         itemRepo,
		paymentRepo:      paymentRepo,
		suggestions:      suggestions,
		gen:              gen,
	}
}

func stepFailed(step, ref string, err error) error {
	metrics.SaveStepFailures.WithLabelValues(step).Inc()
	log.Printf("Save %s: step %s failed: %v", ref, step, err)
	return apperror.NewStepError(step, err)
}

// Save looks up or creates the prescription, then updates or inserts the
// order with its items and payment. Advances entered on the form are added
// to the advances already stored for an existing order.
func (s *PersistenceService) Save(ctx context.Context, rec record.OrderRecord) (*SaveResult, error) {
	prescriptionNo := strings.TrimSpace(rec.Identifiers.PrescriptionNo)
	if prescriptionNo == "" {
		return nil, apperror.NewUnprocessableError(record.ErrPrescriptionNoRequired)
	}

	prescription, err := s.savePrescription(ctx, prescriptionNo, rec)
	if err != nil {
		return nil, err
	}

	orderNo := strings.TrimSpace(rec.Identifiers.ReferenceNo)
	if orderNo == "" {
		orderNo = s.gen.OrderNo()
	}

	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, stepFailed(StepLookupOrder, prescriptionNo, err)
	}

	var result *SaveResult
	if order == nil {
		result, err = s.createOrder(ctx, prescription.ID, orderNo, rec)
	} else {
		result, err = s.updateOrder(ctx, order, rec)
	}
	if err != nil {
		return nil, err
	}

	s.suggestions.Invalidate(ctx)

	outcome := "updated"
	if result.NewOrder {
		outcome = "created"
	}
	metrics.RecordsSaved.WithLabelValues("spectacles", outcome).Inc()
	log.Printf("Saved prescription %s order %s (%s)", prescriptionNo, result.OrderNo, outcome)
	return result, nil
}

func (s *PersistenceService) savePrescription(ctx context.Context, prescriptionNo string, rec record.OrderRecord) (*entity.Prescription, error) {
	prescription, err := s.prescriptionRepo.GetByPrescriptionNo(ctx, prescriptionNo)
	if err != nil {
		return nil, stepFailed(StepLookupPrescription, prescriptionNo, err)
	}

	if prescription == nil {
		prescription = &entity.Prescription{}
		applyPrescription(prescription, rec)
		if err := s.prescriptionRepo.Create(ctx, prescription); err != nil {
			return nil, stepFailed(StepCreatePrescription, prescriptionNo, err)
		}
	} else {
		applyPrescription(prescription, rec)
		if err := s.prescriptionRepo.Update(ctx, prescription); err != nil {
			return nil, stepFailed(StepUpdatePrescription, prescriptionNo, err)
		}
	}

	if err := s.prescriptionRepo.ReplaceEyes(ctx, prescription.ID, eyesFromRecord(rec.Prescription)); err != nil {
		return nil, stepFailed(StepSaveEyeReadings, prescriptionNo, err)
	}
	if err := s.prescriptionRepo.ReplaceRemarks(ctx, prescription.ID, remarksFromRecord(rec.Prescription.Remarks)); err != nil {
		return nil, stepFailed(StepSaveRemarks, prescriptionNo, err)
	}
	return prescription, nil
}

func (s *PersistenceService) createOrder(ctx context.Context, prescriptionID uuid.UUID, orderNo string, rec record.OrderRecord) (*SaveResult, error) {
	order := &entity.Order{PrescriptionID: prescriptionID}
	applyOrder(order, rec, orderNo)
	order.OrderDate = parseDate(rec.Prescription.Date)
	if order.OrderDate == nil {
		order.OrderDate = parseDate(s.gen.Today())
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, stepFailed(StepCreateOrder, orderNo, err)
	}

	if err := s.insertItems(ctx, order, rec.Items); err != nil {
		return nil, err
	}

	adv := rec.Payment.Advances()
	payment := &entity.OrderPayment{
		OrderID:        order.ID,
		CashAdvance:    adv.Cash,
		CardUPIAdvance: adv.CardUPI,
		OtherAdvance:   adv.Other,
		PaymentDate:    parseDate(s.gen.Today()),
	}
	applyTotals(payment, rec.Items)
	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, stepFailed(StepCreatePayment, orderNo, err)
	}

	return &SaveResult{
		PrescriptionID: prescriptionID,
		OrderID:        order.ID,
		OrderNo:        order.OrderNo,
		NewOrder:       true,
		Payment:        payment,
	}, nil
}

func (s *PersistenceService) updateOrder(ctx context.Context, order *entity.Order, rec record.OrderRecord) (*SaveResult, error) {
	applyOrder(order, rec, order.OrderNo)
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, stepFailed(StepUpdateOrder, order.OrderNo, err)
	}

	if err := s.itemRepo.DeleteByOrderID(ctx, order.ID); err != nil {
		return nil, stepFailed(StepDeleteItems, order.OrderNo, err)
	}
	if err := s.insertItems(ctx, order, rec.Items); err != nil {
		return nil, err
	}

	payment, err := s.paymentRepo.GetByOrderID(ctx, order.ID)
	if err != nil {
		return nil, stepFailed(StepLookupPayment, order.OrderNo, err)
	}

	adv := rec.Payment.Advances()
	if payment == nil {
		payment = &entity.OrderPayment{
			OrderID:        order.ID,
			CashAdvance:    adv.Cash,
			CardUPIAdvance: adv.CardUPI,
			OtherAdvance:   adv.Other,
			PaymentDate:    parseDate(s.gen.Today()),
		}
		applyTotals(payment, rec.Items)
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return nil, stepFailed(StepCreatePayment, order.OrderNo, err)
		}
	} else {
		payment.CashAdvance = payment.CashAdvance.Add(adv.Cash)
		payment.CardUPIAdvance = payment.CardUPIAdvance.Add(adv.CardUPI)
		payment.OtherAdvance = payment.OtherAdvance.Add(adv.Other)
		payment.PaymentDate = parseDate(s.gen.Today())
		applyTotals(payment, rec.Items)
		if err := s.paymentRepo.Update(ctx, payment); err != nil {
			return nil, stepFailed(StepUpdatePayment, order.OrderNo, err)
		}
	}

	return &SaveResult{
		PrescriptionID: order.PrescriptionID,
		OrderID:        order.ID,
		OrderNo:        order.OrderNo,
		Payment:        payment,
	}, nil
}

func (s *PersistenceService) insertItems(ctx context.Context, order *entity.Order, items []billing.LineItem) error {
	rows := orderItemsFromRecord(items)
	for i := range rows {
		rows[i].OrderID = order.ID
	}
	if err := s.itemRepo.CreateBatch(ctx, rows); err != nil {
		return stepFailed(StepCreateItems, order.OrderNo, err)
	}
	return nil
}

// applyTotals writes the reconciled totals of items onto a payment row.
// The per-channel advances on the row are the stored running totals.
func applyTotals(p *entity.OrderPayment, items []billing.LineItem) {
	totals := billing.Reconcile(items, billing.Advances{
		Cash:    p.CashAdvance,
		CardUPI: p.CardUPIAdvance,
		Other:   p.OtherAdvance,
	})
	p.Estimate = totals.Estimate
	p.TaxAmount = totals.TaxTotal
	p.DiscountAmount = totals.DiscountTotal
	p.FinalAmount = totals.FinalAmount
	p.TotalAdvance = totals.TotalAdvance
	p.Balance = totals.Balance
}
