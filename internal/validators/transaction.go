package validators

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/sbilibin2017/gw-money-tracker/internal/apperrors"
	"github.com/sbilibin2017/gw-money-tracker/internal/models"
)

// Amount limits of the transactions.amount NUMERIC(20, 4) column.
const amountScale = 4

var maxAmount = decimal.New(1, 16)

// TransactionValidator checks transaction payloads before any store is touched.
type TransactionValidator struct {
	validate *validator.Validate
}

// New creates a validator that understands decimal amounts and reports JSON field names.
func New() *TransactionValidator {
	v := validator.New()

	// amounts are validated as their exact decimal text
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		return err == nil && d.IsPositive()
	})
	v.RegisterValidation("money", func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return d.Equal(d.Round(amountScale)) && d.Abs().LessThan(maxAmount)
	})
	v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &TransactionValidator{validate: v}
}

// ValidateInput validates a create payload.
func (tv *TransactionValidator) ValidateInput(in models.TransactionInput) error {
	return tv.translate(tv.validate.Struct(in))
}

// ValidatePatch validates an update payload. An empty patch is accepted.
func (tv *TransactionValidator) ValidatePatch(p models.TransactionPatch) error {
	return tv.translate(tv.validate.Struct(p))
}

// translate converts the first validator failure into an apperrors.ValidationError.
func (tv *TransactionValidator) translate(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.NewValidationError("", err.Error())
	}

	fe := fieldErrs[0]
	return apperrors.NewValidationError(fe.Field(), reason(fe))
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return `must be "expense" or "credit"`
	case "positive":
		return "must be greater than 0"
	case "money":
		return "must have at most 4 decimal places and be less than 10000000000000000"
	case "notblank":
		return "must not be blank"
	case "datetime":
		return "must be a date in YYYY-MM-DD format"
	default:
		return "is invalid"
	}
}
