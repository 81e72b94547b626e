package billing

import (
	"encoding/json"

	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/pkg/formatter"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineItem is one priced entry of an order
type LineItem struct {
	SI              int             `json:"si"`
	ItemType        enum.ItemType   `json:"item_type"`
	ItemCode        string          `json:"item_code"`
	ItemName        string          `json:"item_name"`
	Unit            string          `json:"unit"`
	TaxPercent      decimal.Decimal `json:"tax_percent"`
	Rate            decimal.Decimal `json:"rate"`
	Qty             int             `json:"qty"`
	Amount          decimal.Decimal `json:"amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	BrandName       string          `json:"brand_name,omitempty"`
	LensIndex       string          `json:"index,omitempty"`
	Coating         string          `json:"coating,omitempty"`
}

// Base returns rate * qty
func (li LineItem) Base() decimal.Decimal {
	return li.Rate.Mul(decimal.NewFromInt(int64(li.Qty)))
}

// Tax returns the tax on the base amount, rounded to the cent per line
func (li LineItem) Tax() decimal.Decimal {
	return formatter.Round2(TaxOn(li.Base(), li.TaxPercent))
}

// TotalWithTax returns base + tax, before any discount
func (li LineItem) TotalWithTax() decimal.Decimal {
	return li.Base().Add(li.Tax())
}

// MarshalJSON renders money fields with two decimals
func (li LineItem) MarshalJSON() ([]byte, error) {
	type Alias LineItem
	return json.Marshal(&struct {
		Alias
		TaxPercent      string `json:"tax_percent"`
		Rate            string `json:"rate"`
		Amount          string `json:"amount"`
		DiscountAmount  string `json:"discount_amount"`
		DiscountPercent string `json:"discount_percent"`
	}{
		Alias:           Alias(li),
		TaxPercent:      formatter.Money(li.TaxPercent),
		Rate:            formatter.Money(li.Rate),
		Amount:          formatter.Money(li.Amount),
		DiscountAmount:  formatter.Money(li.DiscountAmount),
		DiscountPercent: formatter.Money(li.DiscountPercent),
	})
}

// TaxOn returns base * percent / 100
func TaxOn(base, percent decimal.Decimal) decimal.Decimal {
	return base.Mul(percent).Div(hundred)
}

// reprice recomputes amount and discount percent from the current rate,
// quantity, tax and discount amount. The discount never exceeds the total.
func reprice(li LineItem) LineItem {
	total := li.TotalWithTax()
	if li.DiscountAmount.GreaterThan(total) {
		li.DiscountAmount = total
	}
	if li.DiscountAmount.IsNegative() {
		li.DiscountAmount = decimal.Zero
	}
	li.DiscountAmount = formatter.Round2(li.DiscountAmount)
	if total.IsZero() {
		li.DiscountPercent = decimal.Zero
	} else {
		li.DiscountPercent = formatter.Round2(li.DiscountAmount.Div(total).Mul(hundred))
	}
	li.Amount = formatter.Round2(total.Sub(li.DiscountAmount))
	return li
}

// withDiscountAmount sets a fixed discount, clamped to [0, total]
func withDiscountAmount(li LineItem, amount decimal.Decimal) LineItem {
	total := li.TotalWithTax()
	if total.IsZero() {
		return li
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	if amount.GreaterThan(total) {
		amount = total
	}
	li.DiscountAmount = formatter.Round2(amount)
	li.DiscountPercent = formatter.Round2(li.DiscountAmount.Div(total).Mul(hundred))
	li.Amount = formatter.Round2(total.Sub(li.DiscountAmount))
	return li
}

// withDiscountPercent sets a percentage discount, clamped to [0, 100]
func withDiscountPercent(li LineItem, percent decimal.Decimal) LineItem {
	total := li.TotalWithTax()
	if total.IsZero() {
		return li
	}
	if percent.IsNegative() {
		percent = decimal.Zero
	}
	if percent.GreaterThan(hundred) {
		percent = hundred
	}
	li.DiscountAmount = formatter.Round2(total.Mul(percent).Div(hundred))
	li.DiscountPercent = formatter.Round2(percent)
	li.Amount = formatter.Round2(total.Sub(li.DiscountAmount))
	return li
}
