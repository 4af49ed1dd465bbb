package form

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the wire format for all date-valued form fields.
const DateLayout = "2006-01-02"

// Local mobile format with an optional country prefix.
var phonePattern = regexp.MustCompile(`^(?:\+88|01)?\d{9,11}$`)

// Register installs the custom rules the resource forms rely on. Field
// values are strings, so the numeric-bound rules parse before comparing.
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation("bd_phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register bd_phone: %w", err)
	}
	if err := v.RegisterValidation("int_gte", func(fl validator.FieldLevel) bool {
		return compareInt(fl, func(value, bound int) bool { return value >= bound })
	}); err != nil {
		return fmt.Errorf("register int_gte: %w", err)
	}
	if err := v.RegisterValidation("int_lte", func(fl validator.FieldLevel) bool {
		return compareInt(fl, func(value, bound int) bool { return value <= bound })
	}); err != nil {
		return fmt.Errorf("register int_lte: %w", err)
	}
	return nil
}

func compareInt(fl validator.FieldLevel, cmp func(value, bound int) bool) bool {
	value, err := strconv.Atoi(fl.Field().String())
	if err != nil {
		return false
	}
	bound, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return cmp(value, bound)
}

// ParseDate parses a date-valued field.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// messageFor turns a failed rule into a user-facing field message.
func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "bd_phone":
		return "Must be a valid mobile number"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	case "int_gte":
		return fmt.Sprintf("Must be %s or more", fe.Param())
	case "int_lte":
		return fmt.Sprintf("Must be %s or less", fe.Param())
	case "numeric":
		return "Must be a number"
	case "datetime":
		return "Must be a valid date (YYYY-MM-DD)"
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	default:
		return "Invalid value"
	}
}
