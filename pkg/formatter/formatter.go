package formatter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	nonDigit   = regexp.MustCompile(`[^0-9]`)
	nonNumeric = regexp.MustCompile(`[^0-9.-]`)
)

// MaxAxis is the largest cylinder axis in degrees
const MaxAxis = 180

// FormatDate keeps the date part of an ISO date or datetime string
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "T"); i >= 0 {
		return s[:i]
	}
	if i := strings.Index(s, " "); i >= 0 {
		return s[:i]
	}
	return s
}

// DateTimeLocal renders a stored date for a datetime-local input
func DateTimeLocal(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || strings.Contains(s, "T") {
		return s
	}
	return s + "T00:00"
}

// FormatAxis strips everything but digits and clamps the result to 0..180.
// An input with no digits becomes empty.
func FormatAxis(s string) string {
	digits := nonDigit.ReplaceAllString(s, "")
	if digits == "" {
		return ""
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		// only overflow can fail here
		return strconv.Itoa(MaxAxis)
	}
	if n > MaxAxis {
		n = MaxAxis
	}
	return strconv.Itoa(n)
}

// FormatNumeric keeps digits, the decimal point and the minus sign
func FormatNumeric(s string) string {
	return nonNumeric.ReplaceAllString(s, "")
}

// FormatPD returns pupillary distance input unchanged
func FormatPD(s string) string {
	return s
}

// ParseAmount parses a money or numeric text input. Blank input is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}
	return d, nil
}

// AmountOrZero is ParseAmount with parse failures read as zero
func AmountOrZero(s string) decimal.Decimal {
	d, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Round2 rounds to two decimal places
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Money formats an amount with exactly two decimals
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatIPD combines right and left pupillary distances into the
// interpupillary distance with one decimal. It is empty unless at least
// one side is positive.
func FormatIPD(rpd, lpd string) string {
	r := AmountOrZero(rpd)
	l := AmountOrZero(lpd)
	if !r.IsPositive() && !l.IsPositive() {
		return ""
	}
	return r.Add(l).StringFixed(1)
}
