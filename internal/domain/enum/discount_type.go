package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DiscountType selects how a bulk discount value is read
type DiscountType int

const (
	DiscountPercentage DiscountType = 0
	DiscountFixed      DiscountType = 1
)

func (d DiscountType) String() string {
	if d == DiscountFixed {
		return "fixed"
	}
	return "percentage"
}

func (d DiscountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *DiscountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*d = DiscountType(i)
		return nil
	}
	switch strings.ToLower(str) {
	case "percentage", "percent", "%":
		*d = DiscountPercentage
	case "fixed", "amount":
		*d = DiscountFixed
	default:
		return fmt.Errorf("unknown discount type %q", str)
	}
	return nil
}
