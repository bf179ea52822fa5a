package guard_test

import (
	"errors"
	"testing"

	"orderflow/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("constructed_guard_passes_validation", func(t *testing.T) {
		// When
		g := guard.NewConstructorGuard()

		// Then
		require.NoError(t, g.Validate(errors.New("not constructed")))
		require.NoError(t, g.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard // zero value
		expectedError := errors.New("command must be created via its constructor")

		// When
		err := g.Validate(expectedError)

		// Then
		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		// Given
		var g guard.ConstructorGuard // zero value

		// When
		err := g.Validate(nil)

		// Then
		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
		assert.Contains(t, err.Error(), "constructor")
	})
}

// TestConstructorGuardUsageExample demonstrates how ConstructorGuard is
// embedded in a command to reject instances that bypassed the constructor.
func TestConstructorGuardUsageExample(t *testing.T) {
	type cancelOrderCommand struct {
		orderID string
		guard   guard.ConstructorGuard
	}

	var errNotConstructed = errors.New("CancelOrderCommand must be created via NewCancelOrderCommand")

	newCancelOrderCommand := func(orderID string) (cancelOrderCommand, error) {
		if orderID == "" {
			return cancelOrderCommand{}, errors.New("orderID is required")
		}
		return cancelOrderCommand{
			orderID: orderID,
			guard:   guard.NewConstructorGuard(),
		}, nil
	}

	validate := func(c cancelOrderCommand) error {
		return c.guard.Validate(errNotConstructed)
	}

	t.Run("construction_through_constructor_passes", func(t *testing.T) {
		// When
		cmd, err := newCancelOrderCommand("7b4f")

		// Then
		require.NoError(t, err)
		require.NoError(t, validate(cmd))
		assert.Equal(t, "7b4f", cmd.orderID)
	})

	t.Run("zero_value_command_fails_validation", func(t *testing.T) {
		// Given
		var cmd cancelOrderCommand // zero value

		// When
		err := validate(cmd)

		// Then
		require.Error(t, err)
		assert.Equal(t, errNotConstructed, err)
	})

	t.Run("constructor_still_enforces_business_rules", func(t *testing.T) {
		// When
		_, err := newCancelOrderCommand("")

		// Then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "orderID is required")
	})
}

// TestConstructorGuardCopySemantics verifies that a guard carried by value
// keeps its constructed state across copies.
func TestConstructorGuardCopySemantics(t *testing.T) {
	// Given
	g := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	// When
	copied := g

	// Then
	require.NoError(t, g.Validate(validationError))
	require.NoError(t, copied.Validate(validationError))
}

// TestConstructorGuardConcurrency verifies that concurrent validation of the
// same guard is safe.
func TestConstructorGuardConcurrency(t *testing.T) {
	g := guard.NewConstructorGuard()
	validationError := errors.New("not constructed")

	done := make(chan bool)
	for range 50 {
		go func() {
			for range 1000 {
				assert.NoError(t, g.Validate(validationError))
			}
			done <- true
		}()
	}

	for range 50 {
		<-done
	}
}
