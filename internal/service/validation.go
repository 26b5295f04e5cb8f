package service

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/noah-isme/previsa-console/pkg/errors"
)

// fieldMessages maps "Field.tag" to the message shown next to that field.
type fieldMessages map[string]string

var countryMessages = fieldMessages{
	"CountryName.required": "Country name is required",
}

var jobMessages = fieldMessages{
	"JobTitle.required":      "Job title is required",
	"Country.required":       "Country is required",
	"ServiceCharge.required": "Service charge is required",
	"ServiceCharge.gte":      "Service charge cannot be negative",
	"AdminCharge.required":   "Admin charge is required",
	"AdminCharge.gte":        "Admin charge cannot be negative",
	"Salary.gte":             "Salary cannot be negative",
}

// validatePayload runs struct validation and turns failures into a VALIDATION_ERROR with per-field messages.
func validatePayload(v *validator.Validate, payload interface{}, message string, messages fieldMessages) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := jsonFieldName(fe.StructField())
		if _, seen := fields[name]; seen {
			continue
		}
		if text, ok := messages[fe.StructField()+"."+fe.Tag()]; ok {
			fields[name] = text
			continue
		}
		fields[name] = name + " is invalid"
	}
	return appErrors.WithFields(appErrors.ErrValidation, message, fields)
}

func jsonFieldName(field string) string {
	if field == "" {
		return field
	}
	runes := []rune(field)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func trimmed(values ...*string) {
	for _, v := range values {
		if v != nil {
			*v = strings.TrimSpace(*v)
		}
	}
}
