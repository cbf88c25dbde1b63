package money

import (
	"github.com/shopspring/decimal"

	"ordermgmt/internal/service/errs"
)

// Currency-safe bounds for every monetary quantity in the system.
const (
	MaxDecimalPlaces = 2
	MaxTotalDigits   = 15
	MaxQuantity      = 10000
)

// MaxAmount is the default upper bound for a monetary value.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// Parse converts a decimal string to an exact decimal value. Floating
// point callers must go through their string form so binary-float
// artifacts never reach validation.
func Parse(value, fieldName string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, errs.NewValidation(fieldName, "must be a valid decimal number")
	}

	return d, nil
}

// ValidateAmount enforces sign, bounds and precision rules on a monetary
// amount and returns it normalized to exactly 2 decimal places.
// maxAmount of nil means the default MaxAmount bound.
//
// Precision is checked on the input's own representation, before
// normalization, so 29.999 is rejected rather than silently rounded.
func ValidateAmount(
	amount decimal.Decimal,
	fieldName string,
	allowZero bool,
	maxAmount *decimal.Decimal,
) (decimal.Decimal, error) {
	if !allowZero && amount.Sign() <= 0 {
		return decimal.Zero, errs.NewValidation(fieldName, "must be greater than 0")
	}
	if amount.Sign() < 0 {
		return decimal.Zero, errs.NewValidation(fieldName, "cannot be negative")
	}

	maxVal := MaxAmount
	if maxAmount != nil {
		maxVal = *maxAmount
	}
	if amount.GreaterThan(maxVal) {
		return decimal.Zero, errs.NewValidation(fieldName, "cannot exceed %s", maxVal.String())
	}

	if decimalPlaces(amount) > MaxDecimalPlaces {
		return decimal.Zero, errs.NewValidation(
			fieldName, "cannot have more than %d decimal places", MaxDecimalPlaces,
		)
	}

	if totalDigits(amount) > MaxTotalDigits {
		return decimal.Zero, errs.NewValidation(
			fieldName, "cannot have more than %d total digits", MaxTotalDigits,
		)
	}

	return amount.Round(MaxDecimalPlaces), nil
}

// ValidateUnitPrice validates a unit price, which must be strictly positive.
func ValidateUnitPrice(price decimal.Decimal) (decimal.Decimal, error) {
	return ValidateAmount(price, "unit_price", false, nil)
}

// ValidateTotalAmount validates a total, which may be zero (discounts etc.).
func ValidateTotalAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	return ValidateAmount(amount, "total_amount", true, nil)
}

// ValidateQuantity validates an integer quantity.
func ValidateQuantity(quantity int, fieldName string) (int, error) {
	if quantity < 1 {
		return 0, errs.NewValidation(fieldName, "must be at least 1")
	}
	if quantity > MaxQuantity {
		return 0, errs.NewValidation(fieldName, "cannot exceed 10,000")
	}

	return quantity, nil
}

// decimalPlaces is the fractional digit count of the value as written.
func decimalPlaces(d decimal.Decimal) int {
	if d.Exponent() >= 0 {
		return 0
	}

	return int(-d.Exponent())
}

// totalDigits is the significant digit count of the coefficient.
func totalDigits(d decimal.Decimal) int {
	coeff := d.Coefficient().String()
	if len(coeff) > 0 && coeff[0] == '-' {
		coeff = coeff[1:]
	}

	return len(coeff)
}
