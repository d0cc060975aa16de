package konduto

import (
	"bytes"
	"fmt"
	"time"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04:05Z"
)

// Date is a calendar day rendered as "2006-01-02" (birth dates, creation dates).
type Date struct {
	time.Time
}

// NewDate returns the given day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{t}, nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(bytes.Trim(data, `"`)))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DateTime is an instant rendered in UTC with second precision, "2006-01-02T15:04:05Z".
type DateTime struct {
	time.Time
}

// NewDateTime normalizes t to UTC and drops sub-second precision.
func NewDateTime(t time.Time) DateTime {
	return DateTime{t.UTC().Truncate(time.Second)}
}

func (dt DateTime) String() string { return dt.UTC().Format(dateTimeLayout) }

func (dt DateTime) MarshalJSON() ([]byte, error) {
	if dt.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + dt.UTC().Format(dateTimeLayout) + `"`), nil
}

func (dt *DateTime) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*dt = DateTime{}
		return nil
	}
	s := string(bytes.Trim(data, `"`))
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("parse datetime %q: %w", s, err)
	}
	*dt = NewDateTime(t)
	return nil
}
