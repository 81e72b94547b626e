package billing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sangkips/optica-api/internal/domain/enum"
	"github.com/sangkips/optica-api/pkg/formatter"
	"github.com/shopspring/decimal"
)

// DefaultUnit is the unit given to items added without one
const DefaultUnit = "PCS"

var (
	ErrMissingNameOrRate = errors.New("Please enter both item name and rate")
	ErrItemNotFound      = errors.New("Line item not found")
	ErrNegativeValue     = errors.New("Value must not be negative")
	ErrUnknownField      = errors.New("Unknown line item field")
)

// Candidate is the raw input for a new line item
type Candidate struct {
	ItemType   enum.ItemType `json:"item_type"`
	ItemCode   string        `json:"item_code"`
	ItemName   string        `json:"item_name"`
	Unit       string        `json:"unit"`
	Rate       string        `json:"rate"`
	Qty        string        `json:"qty"`
	TaxPercent string        `json:"tax_percent"`
	BrandName  string        `json:"brand_name"`
	LensIndex  string        `json:"index"`
	Coating    string        `json:"coating"`
}

// ItemField names an editable line item field
type ItemField string

const (
	FieldRate            ItemField = "rate"
	FieldQty             ItemField = "qty"
	FieldTaxPercent      ItemField = "tax_percent"
	FieldDiscountAmount  ItemField = "discount_amount"
	FieldDiscountPercent ItemField = "discount_percent"
	FieldItemName        ItemField = "item_name"
	FieldItemCode        ItemField = "item_code"
	FieldItemType        ItemField = "item_type"
	FieldUnit            ItemField = "unit"
	FieldBrandName       ItemField = "brand_name"
	FieldLensIndex       ItemField = "index"
	FieldCoating         ItemField = "coating"
)

// AddItem appends a new item numbered len(items)+1. The name and a positive
// rate are required; quantity defaults to 1.
func AddItem(items []LineItem, c Candidate) ([]LineItem, error) {
	name := strings.TrimSpace(c.ItemName)
	rate, err := formatter.ParseAmount(formatter.FormatNumeric(c.Rate))
	if name == "" || strings.TrimSpace(c.Rate) == "" || err != nil || !rate.IsPositive() {
		return items, ErrMissingNameOrRate
	}

	tax, err := parseNonNegative(c.TaxPercent)
	if err != nil {
		return items, fmt.Errorf("tax percent: %w", err)
	}

	unit := strings.TrimSpace(c.Unit)
	if unit == "" {
		unit = DefaultUnit
	}

	itemType := c.ItemType
	if itemType == "" {
		itemType = enum.InferItemType(c.ItemCode, name)
	}

	item := reprice(LineItem{
		SI:         len(items) + 1,
		ItemType:   itemType,
		ItemCode:   strings.TrimSpace(c.ItemCode),
		ItemName:   name,
		Unit:       unit,
		TaxPercent: formatter.Round2(tax),
		Rate:       formatter.Round2(rate),
		Qty:        parseQty(c.Qty),
		BrandName:  c.BrandName,
		LensIndex:  c.LensIndex,
		Coating:    c.Coating,
	})

	out := make([]LineItem, len(items), len(items)+1)
	copy(out, items)
	return append(out, item), nil
}

// UpdateItemField edits one field of the item at index and keeps the
// amount and both discount representations consistent
func UpdateItemField(items []LineItem, index int, field ItemField, value string) ([]LineItem, error) {
	if index < 0 || index >= len(items) {
		return items, ErrItemNotFound
	}
	li := items[index]

	switch field {
	case FieldRate:
		rate, err := parseNonNegative(value)
		if err != nil {
			return items, fmt.Errorf("rate: %w", err)
		}
		li.Rate = formatter.Round2(rate)
		li = reprice(li)
	case FieldQty:
		li.Qty = parseQty(value)
		li = reprice(li)
	case FieldTaxPercent:
		tax, err := parseNonNegative(value)
		if err != nil {
			return items, fmt.Errorf("tax percent: %w", err)
		}
		li.TaxPercent = formatter.Round2(tax)
		li = reprice(li)
	case FieldDiscountAmount:
		amount, err := formatter.ParseAmount(formatter.FormatNumeric(value))
		if err != nil {
			return items, fmt.Errorf("discount amount: %w", err)
		}
		li = withDiscountAmount(li, amount)
	case FieldDiscountPercent:
		percent, err := formatter.ParseAmount(formatter.FormatNumeric(value))
		if err != nil {
			return items, fmt.Errorf("discount percent: %w", err)
		}
		li = withDiscountPercent(li, percent)
	case FieldItemName:
		li.ItemName = value
	case FieldItemCode:
		li.ItemCode = value
	case FieldItemType:
		li.ItemType = enum.ParseItemType(value)
	case FieldUnit:
		li.Unit = value
	case FieldBrandName:
		li.BrandName = value
	case FieldLensIndex:
		li.LensIndex = value
	case FieldCoating:
		li.Coating = value
	default:
		return items, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}

	out := make([]LineItem, len(items))
	copy(out, items)
	out[index] = li
	return out, nil
}

// RemoveItem deletes the item at index. Remaining items keep their
// original sequence numbers.
func RemoveItem(items []LineItem, index int) ([]LineItem, error) {
	if index < 0 || index >= len(items) {
		return items, ErrItemNotFound
	}
	out := make([]LineItem, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...), nil
}

// Reprice recomputes every item from its stored inputs
func Reprice(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, li := range items {
		out[i] = reprice(li)
	}
	return out
}

func parseQty(s string) int {
	d, err := formatter.ParseAmount(formatter.FormatNumeric(s))
	if err != nil || d.LessThan(decimal.NewFromInt(1)) {
		return 1
	}
	return int(d.IntPart())
}

func parseNonNegative(s string) (decimal.Decimal, error) {
	d, err := formatter.ParseAmount(formatter.FormatNumeric(s))
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, ErrNegativeValue
	}
	return d, nil
}
