package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/internal/domain/record"
	domainRepo "github.com/sangkips/optica-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

func sampleContactLens(env *testEnv) record.ContactLensRecord {
	rec := env.contactLens.NewRecord()
	rec.Customer.Name = "Ravi Kumar"
	rec.Customer.MobileNo = "9123456780"
	rec.BookingBy = "Meena"
	rec.RightEye.Distance.Sph = "-2.25"
	rec.RightEye.PD = "31"
	rec.LeftEye.PD = "31"
	rec.Items = []record.ContactLensItem{
		{Side: "RE", Brand: "Acuvue", BaseCurve: "8.5", Qty: "2", Rate: "1000", Axis: "200"},
		{Side: "LE", Brand: "Acuvue", Rate: "500"},
	}
	rec.DiscountPercent = "10"
	rec.Payment.CashAdvance = "500"
	return rec
}

func TestContactLensSaveAndResave(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	rec := sampleContactLens(env)
	if rec.Identifiers.PrescriptionNo != "CL2403-090042" {
		t.Fatalf("prescription no = %q", rec.Identifiers.PrescriptionNo)
	}

	saved, err := env.contactLens.Save(ctx, rec)
	if err != nil {
		t.Fatal(err)
	}
	if saved.BookedBy != "Meena" || saved.IPD != "62.0" || saved.PrescribedBy != "Unknown" {
		t.Fatalf("prescription = %+v", saved)
	}
	if len(saved.Eyes) != 2 || len(saved.Items) != 2 {
		t.Fatalf("eyes=%d items=%d", len(saved.Eyes), len(saved.Items))
	}
	if saved.Items[0].EyeSide != string(enum.EyeRight) || saved.Items[0].Axis != "180" || saved.Items[0].Quantity != 2 {
		t.Fatalf("first item = %+v", saved.Items[0])
	}

	p := saved.Payment
	if p == nil {
		t.Fatal("payment missing")
	}
	if !p.Estimate.Equal(decimal.NewFromInt(2500)) || !p.DiscountAmount.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("estimate=%s discount=%s", p.Estimate, p.DiscountAmount)
	}
	if !p.PaymentTotal.Equal(decimal.NewFromInt(2250)) || !p.Balance.Equal(decimal.NewFromInt(1750)) || p.PaymentMode != "Cash" {
		t.Fatalf("payment = %+v", p)
	}

	rec.Payment.CashAdvance = ""
	rec.Payment.ChequeAdvance = "200"
	saved, err = env.contactLens.Save(ctx, rec)
	if err != nil {
		t.Fatal(err)
	}
	p = saved.Payment
	if !p.Advance.Equal(decimal.NewFromInt(700)) || !p.ChequeAdvance.Equal(decimal.NewFromInt(200)) || !p.Balance.Equal(decimal.NewFromInt(1550)) {
		t.Fatalf("after resave advance=%s cheque=%s balance=%s", p.Advance, p.ChequeAdvance, p.Balance)
	}
	if len(saved.Items) != 2 {
		t.Fatalf("items were duplicated: %d", len(saved.Items))
	}
}

func TestContactLensValidation(t *testing.T) {
	env := newTestEnv(t)
	rec := sampleContactLens(env)
	rec.BookingBy = " "

	_, err := env.contactLens.Save(context.Background(), rec)
	appErr := requireAppError(t, err, http.StatusUnprocessableEntity)
	if appErr.Message != record.ErrBookingByRequired.Error() {
		t.Fatalf("message = %q", appErr.Message)
	}
}

func TestContactLensSearchAndGet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	rec := sampleContactLens(env)
	if _, err := env.contactLens.Save(ctx, rec); err != nil {
		t.Fatal(err)
	}

	found, err := env.contactLens.Search(ctx, domainRepo.SearchByMobile, "345")
	if err != nil || len(found) != 1 {
		t.Fatalf("search: %v (%d)", err, len(found))
	}
	found, _ = env.contactLens.Search(ctx, domainRepo.SearchByPrescriptionNo, "CL24")
	if len(found) != 0 {
		t.Fatalf("prescription number must match exactly, got %d", len(found))
	}

	if _, err := env.contactLens.Get(ctx, rec.Identifiers.PrescriptionNo); err != nil {
		t.Fatal(err)
	}
	_, err = env.contactLens.Get(ctx, "CL0000-000000")
	requireAppError(t, err, http.StatusNotFound)
}
