package cash

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxAmount bounds the magnitude of any single movement.
var MaxAmount = decimal.NewFromInt(10_000_000)

const maxAmount = 10_000_000

// ValidateAmount checks amount against the sign rules of t and returns it
// rounded to 2 decimal places, half away from zero. The rules run on the
// submitted value; a non-sale amount that rounds to zero is rejected as
// well, so a stored amount always satisfies them.
func ValidateAmount(t MovementType, amount float64) (decimal.Decimal, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return decimal.Zero, ErrInvalidAmount
	}

	if math.Abs(amount) > maxAmount {
		return decimal.Zero, ErrAmountTooLarge
	}

	if amount == 0 {
		// Zero-value sales are recorded (e.g. fully discounted tickets).
		if t == TypeSale {
			return decimal.Zero, nil
		}

		if _, err := ParseMovementType(string(t)); err != nil {
			return decimal.Zero, err
		}

		return decimal.Zero, ErrZeroAmountNotAllowed
	}

	switch t {
	case TypeReturn:
		if amount > 0 {
			return decimal.Zero, ErrReturnMustBeNegative
		}
	case TypeIn, TypeOut, TypeSale:
		if amount < 0 {
			return decimal.Zero, ErrAmountMustBePositive
		}
	case TypeAdjustment:
	default:
		return decimal.Zero, ErrInvalidMovementType
	}

	rounded := decimal.NewFromFloat(amount).Round(2)
	if rounded.IsZero() && t != TypeSale {
		return decimal.Zero, ErrZeroAmountNotAllowed
	}

	return rounded, nil
}
