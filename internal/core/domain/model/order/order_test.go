package order_test

import (
	"testing"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItems(t *testing.T) []order.Item {
	t.Helper()

	first, err := order.NewItem(kernel.NewUUID(), "Keyboard", 2, decimal.NewFromFloat(19.99))
	require.NoError(t, err)
	second, err := order.NewItem(kernel.NewUUID(), "Mouse", 1, decimal.NewFromFloat(9.99))
	require.NoError(t, err)

	return []order.Item{first, second}
}

func TestNewOrder(t *testing.T) {
	validID := kernel.NewUUID()
	validClientID := kernel.NewUUID()

	t.Run("should create valid order with all valid parameters", func(t *testing.T) {
		items := makeItems(t)

		o, err := order.NewOrder(validID, validClientID, items)

		require.NoError(t, err)
		assert.NotNil(t, o)
		require.NoError(t, o.Validate())
		assert.True(t, o.ID().IsEqual(validID))
		assert.True(t, o.ClientID().IsEqual(validClientID))
		assert.Equal(t, order.Created, o.Status())
		assert.Len(t, o.Items(), 2)
		assert.True(t, decimal.NewFromFloat(49.97).Equal(o.TotalPrice()))
		assert.Equal(t, int64(1), o.Version())
		assert.True(t, o.IsActive())
	})

	t.Run("should fail with invalid order ID", func(t *testing.T) {
		var invalidID kernel.UUID

		o, err := order.NewOrder(invalidID, validClientID, makeItems(t))

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should fail with invalid client ID", func(t *testing.T) {
		var invalidClientID kernel.UUID

		o, err := order.NewOrder(validID, invalidClientID, makeItems(t))

		require.Error(t, err)
		assert.Nil(t, o)
	})

	t.Run("should fail with no items", func(t *testing.T) {
		o, err := order.NewOrder(validID, validClientID, nil)

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail with unconstructed item", func(t *testing.T) {
		o, err := order.NewOrder(validID, validClientID, []order.Item{{}})

		require.Error(t, err)
		assert.Nil(t, o)
		assert.ErrorIs(t, err, order.ErrItemIsNotConstructed)
	})
}

func TestRestoreOrder(t *testing.T) {
	validID := kernel.NewUUID()
	validClientID := kernel.NewUUID()
	now := time.Now().UTC()

	t.Run("should restore order from persistence", func(t *testing.T) {
		items := makeItems(t)
		total := decimal.NewFromFloat(49.97)

		o, err := order.RestoreOrder(validID, validClientID, items, order.Shipped, total, now, now, 3)

		require.NoError(t, err)
		assert.Equal(t, order.Shipped, o.Status())
		assert.True(t, total.Equal(o.TotalPrice()))
		assert.Equal(t, int64(3), o.Version())
		assert.Equal(t, now, o.CreatedAt())
	})

	t.Run("should trust the stored total over recomputation", func(t *testing.T) {
		storedTotal := decimal.NewFromInt(5)

		o, err := order.RestoreOrder(validID, validClientID, makeItems(t), order.Created, storedTotal, now, now, 1)

		require.NoError(t, err)
		assert.True(t, storedTotal.Equal(o.TotalPrice()))
	})

	t.Run("should fail with invalid status", func(t *testing.T) {
		_, err := order.RestoreOrder(validID, validClientID, makeItems(t), order.Unknown, decimal.Zero, now, now, 1)

		require.Error(t, err)
	})

	t.Run("should fail with zero version", func(t *testing.T) {
		_, err := order.RestoreOrder(validID, validClientID, makeItems(t), order.Created, decimal.Zero, now, now, 0)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})
}

func TestOrderChangeStatus(t *testing.T) {
	graph := order.DefaultTransitionGraph()

	newOrder := func(t *testing.T) *order.Order {
		t.Helper()
		o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), makeItems(t))
		require.NoError(t, err)
		return o
	}

	t.Run("should follow a graph edge and bump version", func(t *testing.T) {
		o := newOrder(t)

		err := o.ChangeStatus(graph, order.Confirmed)

		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, o.Status())
		assert.Equal(t, int64(2), o.Version())
	})

	t.Run("should walk the full workflow", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.ChangeStatus(graph, order.Confirmed))
		require.NoError(t, o.ChangeStatus(graph, order.Shipped))
		require.NoError(t, o.ChangeStatus(graph, order.Delivered))

		assert.Equal(t, order.Delivered, o.Status())
		assert.Equal(t, int64(4), o.Version())
		assert.False(t, o.IsActive())
	})

	t.Run("should reject skipping a step", func(t *testing.T) {
		o := newOrder(t)

		err := o.ChangeStatus(graph, order.Shipped)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, order.Created, o.Status())
		assert.Equal(t, int64(1), o.Version())
	})

	t.Run("should reject the current status", func(t *testing.T) {
		o := newOrder(t)

		err := o.ChangeStatus(graph, order.Created)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
		assert.Equal(t, int64(1), o.Version())
	})

	t.Run("should reject transitions out of terminal status", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.ChangeStatus(graph, order.Cancelled))

		err := o.ChangeStatus(graph, order.Confirmed)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("should reject unconstructed graph", func(t *testing.T) {
		o := newOrder(t)

		err := o.ChangeStatus(order.TransitionGraph{}, order.Confirmed)

		require.Error(t, err)
		assert.ErrorIs(t, err, order.ErrGraphIsNotConstructed)
	})
}

func TestOrderItemsImmutability(t *testing.T) {
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), makeItems(t))
	require.NoError(t, err)

	items := o.Items()
	items[0] = order.Item{}

	assert.NoError(t, o.Items()[0].Validate())
}

func TestOrderValidate(t *testing.T) {
	t.Run("should reject nil order", func(t *testing.T) {
		var o *order.Order

		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})

	t.Run("should reject zero value order", func(t *testing.T) {
		assert.ErrorIs(t, (&order.Order{}).Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrderIsEqual(t *testing.T) {
	first, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), makeItems(t))
	require.NoError(t, err)
	second, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), makeItems(t))
	require.NoError(t, err)

	assert.True(t, first.IsEqual(first))
	assert.False(t, first.IsEqual(second))
	assert.False(t, first.IsEqual(nil))
}
