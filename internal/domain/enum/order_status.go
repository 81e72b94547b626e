package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// OrderStatus represents where an optical order is in the workshop
type OrderStatus int

const (
	OrderStatusProcessing OrderStatus = 0
	OrderStatusReady      OrderStatus = 1
	OrderStatusDelivered  OrderStatus = 2
	OrderStatusCancelled  OrderStatus = 3
)

var orderStatusNames = [...]string{"Processing", "Ready", "Delivered", "Cancelled"}

func (s OrderStatus) String() string {
	if s < 0 || int(s) >= len(orderStatusNames) {
		return orderStatusNames[OrderStatusProcessing]
	}
	return orderStatusNames[s]
}

// ParseOrderStatus matches a status name case-insensitively
func ParseOrderStatus(s string) (OrderStatus, error) {
	for i, name := range orderStatusNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return OrderStatus(i), nil
		}
	}
	return OrderStatusProcessing, fmt.Errorf("unknown order status %q", s)
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = OrderStatus(i)
		return nil
	}
	status, err := ParseOrderStatus(str)
	if err != nil {
		return err
	}
	*s = status
	return nil
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	if value == nil {
		*s = OrderStatusProcessing
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = OrderStatus(v)
	case int:
		*s = OrderStatus(v)
	case string:
		status, err := ParseOrderStatus(v)
		if err != nil {
			return err
		}
		*s = status
	case []byte:
		status, err := ParseOrderStatus(string(v))
		if err != nil {
			return err
		}
		*s = status
	}
	return nil
}
