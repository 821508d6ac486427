package kernel

import (
	"errors"
	"fmt"
	"math"

	"fulfillment/internal/pkg/errs"
)

// Money is an amount in minor currency units (kobo, cents).
type Money int64

// MaxMoney bounds every stored amount, totals included. Ten billion major
// units keeps sums of bounded lines far from int64 overflow.
const MaxMoney Money = 1_000_000_000_000

// MoneyFromMajor converts a decimal major-unit amount, rounding half away from zero.
// Untrusted input goes through ParseMajor.
func MoneyFromMajor(amount float64) Money {
	return Money(math.Round(amount * 100))
}

// ParseMajor converts client input, rejecting non-finite, negative and
// out-of-range amounts.
func ParseMajor(field string, amount float64) (Money, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, errs.NewValueIsInvalidErrorWithCause(field, fmt.Errorf("%v is not a finite number", amount))
	}
	if amount < 0 || amount > MaxMoney.Major() {
		return 0, errs.NewValueIsOutOfRangeError(field, amount, 0, MaxMoney.Major())
	}
	return MoneyFromMajor(amount), nil
}

// Major returns the amount in major units.
func (m Money) Major() float64 {
	return float64(m) / 100
}

// Percent returns pct percent of m rounded to the nearest minor unit.
func (m Money) Percent(pct int64) Money {
	return Money(math.Round(float64(m) * float64(pct) / 100))
}

func (m Money) Validate() error {
	if m < 0 {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is negative", m))
	}
	if m > MaxMoney {
		return errs.NewValueIsOutOfRangeError("amount", int64(m), 0, int64(MaxMoney))
	}
	return nil
}

// Plus adds two valid amounts. A sum above MaxMoney is an error, never a wrap.
func (m Money) Plus(other Money) (Money, error) {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return 0, err
	}
	if m > MaxMoney-other {
		return 0, errs.NewValueIsOutOfRangeErrorWithCause("amount", m.String()+" + "+other.String(), 0, MaxMoney.String(),
			errors.New("sum exceeds the maximum amount"))
	}
	return m + other, nil
}

// Times multiplies a valid amount by a non-negative count.
func (m Money) Times(n int) (Money, error) {
	if err := m.Validate(); err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errs.NewValueIsOutOfRangeError("multiplier", n, 0, "unbounded")
	}
	if n > 0 && m > MaxMoney/Money(n) {
		return 0, errs.NewValueIsOutOfRangeErrorWithCause("amount", fmt.Sprintf("%s x %d", m, n), 0, MaxMoney.String(),
			errors.New("product exceeds the maximum amount"))
	}
	return m * Money(n), nil
}

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
