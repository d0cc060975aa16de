package konduto

import (
	"errors"
	"fmt"
)

// ErrInvalidEntity is matched by every validation failure returned from this package.
var ErrInvalidEntity = errors.New("invalid entity")

// InvalidEntityError reports the first rule an entity breaks.
type InvalidEntityError struct {
	Entity  string // e.g. "order", "customer"
	Field   string // wire path of the offending field, e.g. "customer.email"
	Message string // human-readable, e.g. "customer.email is required"
}

func (e *InvalidEntityError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, e.Message)
}

func (e *InvalidEntityError) Unwrap() error { return ErrInvalidEntity }
