package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ProductType determines how stock is tracked for a product
type ProductType int

const (
	// ProductTypeSimple tracks stock on the product row itself
	ProductTypeSimple ProductType = 0
	// ProductTypeVariant tracks stock per variant row; the product has none
	ProductTypeVariant ProductType = 1
	// ProductTypeComposite derives availability from a bill of materials
	ProductTypeComposite ProductType = 2
)

func (t ProductType) String() string {
	names := [...]string{"Simple", "Variant", "Composite"}
	if int(t) < 0 || int(t) >= len(names) {
		return "Simple"
	}
	return names[t]
}

func (t ProductType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *ProductType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*t = ProductType(i)
		return nil
	}
	switch str {
	case "Simple":
		*t = ProductTypeSimple
	case "Variant":
		*t = ProductTypeVariant
	case "Composite":
		*t = ProductTypeComposite
	}
	return nil
}

func (t ProductType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *ProductType) Scan(value interface{}) error {
	if value == nil {
		*t = ProductTypeSimple
		return nil
	}
	switch v := value.(type) {
	case int64:
		*t = ProductType(v)
	case int:
		*t = ProductType(v)
	}
	return nil
}
