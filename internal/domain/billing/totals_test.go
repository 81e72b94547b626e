package billing

import (
	"errors"
	"strings"
	"testing"

	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func twoItemOrder(t *testing.T) []LineItem {
	t.Helper()
	items := mustAdd(t, nil, Candidate{ItemName: "Lens", Rate: "100", Qty: "2", TaxPercent: "10"})
	return mustAdd(t, items, Candidate{ItemName: "Frame", Rate: "50", Qty: "1"})
}

func TestReconcileScenario(t *testing.T) {
	items := twoItemOrder(t)
	got := Reconcile(items, Advances{Cash: dec("50")})

	checks := []struct {
		name string
		got  decimal.Decimal
		want string
	}{
		{"base", got.BaseAmount, "250"},
		{"tax", got.TaxTotal, "20"},
		{"estimate", got.Estimate, "270"},
		{"discount", got.DiscountTotal, "0"},
		{"final", got.FinalAmount, "270"},
		{"advance", got.TotalAdvance, "50"},
		{"balance", got.Balance, "220"},
	}
	for _, c := range checks {
		if !c.got.Equal(dec(c.want)) {
			t.Fatalf("%s = %s, want %s", c.name, c.got, c.want)
		}
	}
	if got.Estimate.StringFixed(2) != "270.00" || got.Balance.StringFixed(2) != "220.00" {
		t.Fatalf("formatted estimate/balance = %s/%s", got.Estimate.StringFixed(2), got.Balance.StringFixed(2))
	}
}

func TestReconcileBalanceNeverNegative(t *testing.T) {
	items := twoItemOrder(t)
	got := Reconcile(items, Advances{Cash: dec("200"), CardUPI: dec("100"), Other: dec("10")})
	if !got.Balance.IsZero() {
		t.Fatalf("balance = %s", got.Balance)
	}
	if !got.TotalAdvance.Equal(dec("310")) {
		t.Fatalf("advance = %s", got.TotalAdvance)
	}
}

func TestReconcileIncludesPriorAdvance(t *testing.T) {
	items := twoItemOrder(t)
	got := Reconcile(items, Advances{Cash: dec("50"), Prior: dec("100")})
	if !got.TotalAdvance.Equal(dec("150")) || !got.Balance.Equal(dec("120")) {
		t.Fatalf("advance=%s balance=%s", got.TotalAdvance, got.Balance)
	}
}

func TestReconcileProperty(t *testing.T) {
	items := twoItemOrder(t)
	items, _ = UpdateItemField(items, 0, FieldDiscountPercent, "7.5")
	items = mustAdd(t, items, Candidate{ItemName: "Case", Rate: "33.33", Qty: "3", TaxPercent: "18"})

	adv := Advances{Cash: dec("12.5"), CardUPI: dec("40")}
	got := Reconcile(items, adv)

	base, tax, discount := decimal.Zero, decimal.Zero, decimal.Zero
	for _, li := range items {
		base = base.Add(li.Base())
		tax = tax.Add(li.Tax())
		discount = discount.Add(li.DiscountAmount)
	}
	if got.Estimate.Sub(base.Add(tax)).Abs().GreaterThan(tolerance) {
		t.Fatalf("estimate %s != base %s + tax %s", got.Estimate, base, tax)
	}
	want := got.Estimate.Sub(discount).Sub(adv.Sum())
	if want.IsNegative() {
		want = decimal.Zero
	}
	if got.Balance.Sub(want).Abs().GreaterThan(tolerance) {
		t.Fatalf("balance %s, want %s", got.Balance, want)
	}
}

func TestBulkDiscountPercentage(t *testing.T) {
	items, err := ApplyBulkDiscount(twoItemOrder(t), enum.DiscountPercentage, dec("10"))
	if err != nil {
		t.Fatal(err)
	}
	if !items[0].DiscountAmount.Equal(dec("22")) || !items[1].DiscountAmount.Equal(dec("5")) {
		t.Fatalf("discounts = %s, %s", items[0].DiscountAmount, items[1].DiscountAmount)
	}
	got := Reconcile(items, Advances{})
	if !got.DiscountTotal.Equal(dec("27")) || !got.Balance.Equal(dec("243")) {
		t.Fatalf("discount total=%s balance=%s", got.DiscountTotal, got.Balance)
	}
}

func TestBulkDiscountFixedFullTotal(t *testing.T) {
	items := twoItemOrder(t)
	items = mustAdd(t, items, Candidate{ItemName: "Lens", Rate: "99.99", TaxPercent: "12"})
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.TotalWithTax())
	}

	items, err := ApplyBulkDiscount(items, enum.DiscountFixed, total)
	if err != nil {
		t.Fatal(err)
	}
	for _, li := range items {
		if !li.Amount.IsZero() {
			t.Fatalf("item %d amount = %s", li.SI, li.Amount)
		}
		if !li.DiscountPercent.Equal(hundred) {
			t.Fatalf("item %d percent = %s", li.SI, li.DiscountPercent)
		}
	}
}

func TestBulkDiscountSharesSumExactly(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		rate     string
		discount string
	}{
		{"three equal items", 3, "10", "10"},
		{"shares rounding up past the discount", 4, "0.01", "0.02"},
		{"odd cents", 7, "3.33", "1.01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var items []LineItem
			for i := 0; i < tt.count; i++ {
				items = mustAdd(t, items, Candidate{ItemName: "Lens", Rate: tt.rate})
			}
			items, err := ApplyBulkDiscount(items, enum.DiscountFixed, dec(tt.discount))
			if err != nil {
				t.Fatal(err)
			}
			sum := decimal.Zero
			for _, li := range items {
				if li.DiscountAmount.IsNegative() {
					t.Fatalf("negative share %s", li.DiscountAmount)
				}
				sum = sum.Add(li.DiscountAmount)
				assertAmountInvariant(t, li)
			}
			if !sum.Equal(dec(tt.discount)) {
				t.Fatalf("shares sum to %s, want %s", sum, tt.discount)
			}
		})
	}
}

func TestBulkDiscountRejects(t *testing.T) {
	if _, err := ApplyBulkDiscount(twoItemOrder(t), enum.DiscountFixed, decimal.Zero); !errors.Is(err, ErrInvalidDiscountValue) {
		t.Fatalf("zero value error = %v", err)
	}
	if _, err := ApplyBulkDiscount(nil, enum.DiscountPercentage, dec("5")); !errors.Is(err, ErrNoItemsToDiscount) {
		t.Fatalf("empty order error = %v", err)
	}
}

func TestLineItemJSONUsesTwoDecimals(t *testing.T) {
	items := twoItemOrder(t)
	out, err := items[1].MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if want := `"amount":"50.00"`; !strings.Contains(string(out), want) {
		t.Fatalf("json %s missing %s", out, want)
	}
}
