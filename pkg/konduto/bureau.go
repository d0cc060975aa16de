package konduto

import (
	"bytes"
	"encoding/json"
)

// BureauQuery carries the raw answer of a credit bureau consulted for the order.
// Response is free-form; numbers decode as json.Number so large integers keep
// their digits.
type BureauQuery struct {
	Service  string         `json:"service,omitempty" validate:"required,max=100"`
	Response map[string]any `json:"response,omitempty" validate:"omitempty,json_value"`
}

func (b *BureauQuery) Validate() error {
	if b == nil {
		return &InvalidEntityError{Entity: "bureau query", Message: "bureau query is required"}
	}
	return check("bureau query", b)
}

func (b *BureauQuery) UnmarshalJSON(data []byte) error {
	type plain BureauQuery
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var p plain
	if err := dec.Decode(&p); err != nil {
		return err
	}
	*b = BureauQuery(p)
	return nil
}
