package billing

import (
	"github.com/sangkips/optica-api/pkg/formatter"
	"github.com/shopspring/decimal"
)

// Advances are the raw advance-payment inputs. Prior is advance already
// stored for the order by earlier submissions.
type Advances struct {
	Cash    decimal.Decimal
	CardUPI decimal.Decimal
	Other   decimal.Decimal
	Prior   decimal.Decimal
}

// Sum returns the advance total including any prior advance
func (a Advances) Sum() decimal.Decimal {
	return a.Cash.Add(a.CardUPI).Add(a.Other).Add(a.Prior)
}

// Totals is the derived payment summary of an order
type Totals struct {
	BaseAmount    decimal.Decimal
	TaxTotal      decimal.Decimal
	Estimate      decimal.Decimal
	DiscountTotal decimal.Decimal
	FinalAmount   decimal.Decimal
	TotalAdvance  decimal.Decimal
	Balance       decimal.Decimal
}

// Reconcile derives the payment summary from the items and the raw advance
// inputs. Outputs are rounded to two decimals; the balance never goes below
// zero.
func Reconcile(items []LineItem, adv Advances) Totals {
	base := decimal.Zero
	tax := decimal.Zero
	discount := decimal.Zero
	for _, li := range items {
		base = base.Add(li.Base())
		tax = tax.Add(li.Tax())
		discount = discount.Add(li.DiscountAmount)
	}

	estimate := formatter.Round2(base.Add(tax))
	discount = formatter.Round2(discount)
	final := estimate.Sub(discount)
	advance := formatter.Round2(adv.Sum())

	balance := final.Sub(advance)
	if balance.IsNegative() {
		balance = decimal.Zero
	}

	return Totals{
		BaseAmount:    formatter.Round2(base),
		TaxTotal:      formatter.Round2(tax),
		Estimate:      estimate,
		DiscountTotal: discount,
		FinalAmount:   final,
		TotalAdvance:  advance,
		Balance:       balance,
	}
}
