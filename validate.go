package cdp

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// getValidator builds the validator used for fail-fast request checks.
// The custom "amount" rule accepts any field whose string form parses as a
// positive decimal, which covers decimal.Decimal request fields.
func getValidator() *validator.Validate {
	validate := validator.New()

	if err := validate.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fmt.Sprint(fl.Field()))
		return err == nil && d.IsPositive()
	}); err != nil {
		panic(fmt.Sprintf("failed to register amount validation: %v", err))
	}

	return validate
}

// checkRequest validates a request struct and translates the first
// violation into an *ArgumentError, so callers fail before any network
// call is made.
func checkRequest(validate *validator.Validate, req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	violations, ok := err.(validator.ValidationErrors)
	if !ok || len(violations) == 0 {
		return &ArgumentError{Field: "request", Reason: err.Error()}
	}

	v := violations[0]
	field := fieldName(v.Field())
	switch v.Tag() {
	case "required":
		return &ArgumentError{Field: field, Reason: "is required"}
	case "amount":
		return &ArgumentError{Field: field, Reason: "must be a positive decimal"}
	case "oneof":
		return &ArgumentError{Field: field, Reason: fmt.Sprintf("must be one of [%s]", v.Param())}
	default:
		return &ArgumentError{Field: field, Reason: fmt.Sprintf("failed %q validation", v.Tag())}
	}
}

// fieldName converts a Go field name to its wire form, e.g. "FromAssetID"
// to "from_asset_id", so validation errors name the field the way callers
// see it in the API.
func fieldName(field string) string {
	field = strings.ReplaceAll(field, "IDs", "Ids")
	field = strings.ReplaceAll(field, "ID", "Id")

	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
