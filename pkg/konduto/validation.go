package konduto

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every entity. validator.Validate caches struct metadata
// and is safe for concurrent use.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report wire names ("total_amount") instead of Go names ("TotalAmount").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("finite", isFinite)
	_ = v.RegisterValidation("json_value", isJSONValue)
	v.RegisterStructValidation(paymentStructLevel, Payment{})
	return v
}

// isFinite rejects NaN and the infinities, which encoding/json cannot represent.
func isFinite(fl validator.FieldLevel) bool {
	f := fl.Field()
	switch f.Kind() {
	case reflect.Float32, reflect.Float64:
		return !math.IsNaN(f.Float()) && !math.IsInf(f.Float(), 0)
	}
	return true
}

// isJSONValue accepts free-form values only if they can be encoded.
func isJSONValue(fl validator.FieldLevel) bool {
	_, err := json.Marshal(fl.Field().Interface())
	return err == nil
}

// paymentStructLevel enforces the status rules that depend on the payment type.
func paymentStructLevel(sl validator.StructLevel) {
	p := sl.Current().Interface().(Payment)
	switch {
	case p.Status == "" && p.Type == PaymentTypeCredit:
		sl.ReportError(p.Status, "status", "Status", "required_if", "type credit")
	case p.Status != "" && !p.Status.valid():
		sl.ReportError(p.Status, "status", "Status", "oneof", "approved declined pending")
	}
}

// check runs the struct rules of s and converts the first failure into an
// InvalidEntityError for entity.
func check(entity string, s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		field := fieldPath(fe)
		return &InvalidEntityError{Entity: entity, Field: field, Message: describe(field, fe)}
	}
	return &InvalidEntityError{Entity: entity, Message: err.Error()}
}

// fieldPath strips the root struct name from the validator namespace:
// "orderWire.customer.email" -> "customer.email".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "finite":
		return field + " must be a finite number"
	case "json_value":
		return field + " cannot be encoded as JSON"
	case "email":
		return field + " must be a valid email address"
	case "number", "alpha", "uppercase", "ip":
		return fmt.Sprintf("%s has an invalid format (%s)", field, fe.Tag())
	default:
		return fmt.Sprintf("%s failed on the %q rule", field, fe.Tag())
	}
}
