package validation

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/kbukum/podscribe/errors"
)

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator collects field errors from chained checks. The zero value is
// ready to use.
type Validator struct {
	failed []FieldError
}

func New() *Validator { return &Validator{} }

func (v *Validator) fail(field, message string) *Validator {
	v.failed = append(v.failed, FieldError{Field: field, Message: message})
	return v
}

func (v *Validator) HasErrors() bool { return len(v.failed) > 0 }

func (v *Validator) Errors() []FieldError { return v.failed }

// Err returns nil, or one INVALID_INPUT error naming every failed field.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	parts := make([]string, 0, len(v.failed))
	for _, f := range v.failed {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", v.failed)
}

// Required rejects empty and whitespace-only values.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) != "" {
		return v
	}
	return v.fail(field, "is required")
}

// URL accepts empty values (pair it with Required) and absolute http(s)
// URLs with a host.
func (v *Validator) URL(field, value string) *Validator {
	if value == "" {
		return v
	}
	if u, err := url.Parse(value); err == nil && u.Host != "" && (u.Scheme == "http" || u.Scheme == "https") {
		return v
	}
	return v.fail(field, "must be a valid http(s) URL")
}

// NonNegative rejects negative, NaN and infinite numbers.
func (v *Validator) NonNegative(field string, value float64) *Validator {
	if value >= 0 && !math.IsInf(value, 1) {
		return v
	}
	return v.fail(field, "must be zero or greater")
}

// LabelFormat checks a speaker label pattern with IsLabelFormat.
func (v *Validator) LabelFormat(field, value string) *Validator {
	if IsLabelFormat(value) {
		return v
	}
	return v.fail(field, fmt.Sprintf("%q must contain exactly one %%d", value))
}

// Custom fails field with message unless ok holds.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if ok {
		return v
	}
	return v.fail(field, message)
}
