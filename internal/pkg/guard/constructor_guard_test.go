package guard_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		// Given
		g := guard.NewConstructorGuard()

		// Then
		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard
		expectedError := errors.New("delivery not constructed")

		// When
		err := g.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Equal(t, "object must be created via its constructor", err.Error())
	})
}

// TestConstructorGuardEmbedded shows the guard inside a value object.
func TestConstructorGuardEmbedded(t *testing.T) {
	errFeeNotConstructed := errors.New("Fee must be created via newFee")

	type fee struct {
		amount int64
		guard  guard.ConstructorGuard
	}

	newFee := func(amount int64) (fee, error) {
		if amount < 0 {
			return fee{}, errors.New("amount cannot be negative")
		}
		return fee{amount: amount, guard: guard.NewConstructorGuard()}, nil
	}

	t.Run("constructed_value_validates", func(t *testing.T) {
		f, err := newFee(500)

		require.NoError(t, err)
		require.NoError(t, f.guard.Validate(errFeeNotConstructed))
		assert.Equal(t, int64(500), f.amount)
	})

	t.Run("zero_value_fails", func(t *testing.T) {
		var f fee

		assert.Equal(t, errFeeNotConstructed, f.guard.Validate(errFeeNotConstructed))
	})

	t.Run("guard_copy_keeps_state", func(t *testing.T) {
		f, _ := newFee(1)
		copied := f

		require.NoError(t, copied.guard.Validate(nil))
	})
}

func TestConstructorGuardConcurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	done := make(chan bool)
	for range 50 {
		go func() {
			for range 500 {
				assert.NoError(t, g.Validate(validationError))
			}
			done <- true
		}()
	}

	for range 50 {
		<-done
	}
}

func BenchmarkConstructorGuard(b *testing.B) {
	g := guard.NewConstructorGuard()
	err := errors.New("not constructed")
	b.ResetTimer()
	for range b.N {
		_ = g.Validate(err)
	}
}
