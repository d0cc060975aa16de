// Package konduto models the entities of the Konduto fraud-detection API and
// their canonical JSON encoding.
package konduto

import (
	"bytes"
	"context"
	"encoding/json"
	"reflect"
	"strings"
	"unicode"
)

// Entity is any model that can check itself before being sent to Konduto.
type Entity interface {
	Validate() error
}

// Submitter sends an order for analysis and returns it as scored by Konduto.
type Submitter interface {
	Analyze(ctx context.Context, order *Order) (*Order, error)
}

// ToJSON validates e and returns its canonical JSON. An invalid entity yields an
// *InvalidEntityError and no output.
func ToJSON(e Entity) ([]byte, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	out, err := json.Marshal(e)
	if err != nil {
		return nil, &InvalidEntityError{Entity: entityName(e), Message: err.Error()}
	}
	return out, nil
}

// entityName turns the Go type of e into the label used in errors:
// *BureauQuery -> "bureau query".
func entityName(e Entity) string {
	t := reflect.TypeOf(e)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	var b strings.Builder
	for i, r := range t.Name() {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte(' ')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FromJSON decodes data into a new T without validating it. Unknown fields are ignored.
func FromJSON[T any](data []byte) (*T, error) {
	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Equal reports whether a and b have the same canonical encoding. Values that
// cannot be encoded fall back to reflect.DeepEqual, so the same pointer is still
// equal to itself.
func Equal(a, b any) bool {
	ab, aErr := json.Marshal(a)
	bb, bErr := json.Marshal(b)
	if aErr != nil || bErr != nil {
		return reflect.DeepEqual(a, b)
	}
	return bytes.Equal(ab, bb)
}
