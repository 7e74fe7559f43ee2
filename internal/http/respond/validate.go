package respond

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/caixa/internal/cash"
)

// NewValidator returns a validator that names fields by their json tag.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Validate checks req and converts the first failure into a ledger
// validation error.
func Validate(v *validator.Validate, req any) error {
	err := v.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]

	switch fe.Tag() {
	case "required":
		return cash.MissingField(fe.Field())
	case "uuid", "uuid4":
		return cash.InvalidIdentifier(fe.Field())
	case "max":
		if n, err := strconv.Atoi(fe.Param()); err == nil {
			return cash.FieldTooLong(fe.Field(), n)
		}

		return cash.InvalidField(fe.Field())
	default:
		return &cash.ValidationError{
			Kind:    cash.KindInvalidField,
			Message: fmt.Sprintf("%s is invalid", fe.Field()),
		}
	}
}
