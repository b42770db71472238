// Package validation declares the input forms accepted by the site and checks
// them with go-playground/validator struct tags.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/finoteselam-court/court-portal-api/pkg/errors"
)

// Form is an input schema. Normalize trims the raw values before the
// constraints run.
type Form interface {
	Normalize()
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate normalizes form in place and checks it. It stops at the first
// violated constraint in field declaration order and reports it as a
// VALIDATION_ERROR naming that field; the cause is a *FieldViolation.
func Validate(form Form) error {
	if form == nil || reflect.ValueOf(form).IsNil() {
		return appErrors.Clone(appErrors.ErrValidation, "empty form")
	}
	form.Normalize()

	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}
	first := fieldErrs[0]
	violation := &FieldViolation{Field: first.Field(), Rule: first.Tag(), Param: first.Param()}
	return appErrors.FieldError(violation.Field, violation.Error(), violation)
}

// Violation extracts the field violation carried by err, if any.
func Violation(err error) (*FieldViolation, bool) {
	var v *FieldViolation
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
