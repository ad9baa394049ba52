package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SaleType distinguishes ordinary sales from exchange sales
type SaleType int

const (
	SaleTypeSale     SaleType = 0
	SaleTypeExchange SaleType = 1
)

func (t SaleType) String() string {
	names := [...]string{"Sale", "Exchange"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Sale"
	}
	return names[t]
}

func (t SaleType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *SaleType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = SaleType(i)
		return nil
	}
	switch str {
	case "Sale":
		*t = SaleTypeSale
	case "Exchange":
		*t = SaleTypeExchange
	}
	return nil
}

func (t SaleType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *SaleType) Scan(value interface{}) error {
	if value == nil {
		*t = SaleTypeSale
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = SaleType(v)
	case int:
		*t = SaleType(v)
	}
	return nil
}
