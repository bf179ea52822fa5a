package order

import (
	"errors"
	"fmt"
	"time"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// ErrOrderIsNotConstructed is returned when an Order instance was not created
// through the NewOrder or RestoreOrder factory methods. This ensures all
// orders are properly validated.
var ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

// Order is the aggregate root under protection: the mutable record whose
// status moves along the transition graph while two classes of writer (API
// requests and the reconciliation sweep) race to advance it.
//
// Order maintains these invariants:
//   - Must have valid order and client identifiers and at least one item
//   - Items are an immutable snapshot taken at order time; cancellation
//     releases inventory but never alters them
//   - totalPrice is derived from the items at construction and never mutated
//     independently
//   - status only moves along transition-graph edges, via ChangeStatus
//   - version increases by exactly one with every committed status change and
//     is the compare-and-swap token for optimistic concurrency
//   - an order is never hard-deleted; it ends in Delivered or Cancelled and
//     is retained indefinitely
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// clientID identifies the customer who owns the order
	clientID kernel.UUID

	// items is the ordered product snapshot, immutable after construction
	items []Item

	// status is the current state in the order lifecycle
	status Status

	// totalPrice is the sum of item subtotals, computed at construction
	totalPrice decimal.Decimal

	createdAt time.Time
	updatedAt time.Time

	// version is the optimistic-concurrency counter; every persisted
	// status change carries version+1 guarded by a CAS on the old value
	version int64

	// isConstructed ensures the order was created via a constructor
	isConstructed bool
}

// NewOrder creates an order in Created status with validation.
// The caller is responsible for having reserved inventory first: a CREATED
// order must only come into existence if the reservation succeeded.
//
// The total price is computed from the item snapshot; the initial version is 1.
func NewOrder(id, clientID kernel.UUID, items []Item) (*Order, error) {
	o := &Order{
		status:        Created,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setClientID(clientID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	o.totalPrice = totalOf(o.items)
	o.createdAt = now
	o.updatedAt = now
	o.version = 1

	return o, nil
}

// RestoreOrder reconstructs an order from persistence.
// All fields are validated; the stored total is trusted as-is because it is a
// snapshot value, not a recomputable one (product prices may have changed).
func RestoreOrder(
	id, clientID kernel.UUID,
	items []Item,
	status Status,
	totalPrice decimal.Decimal,
	createdAt, updatedAt time.Time,
	version int64,
) (*Order, error) {
	o := &Order{isConstructed: true}

	if err := errors.Join(
		o.setID(id),
		o.setClientID(clientID),
		o.setItems(items),
		o.setStatus(status),
	); err != nil {
		return nil, err
	}

	if version < 1 {
		return nil, errs.NewVersionIsInvalidError("order version",
			fmt.Errorf("%d is not greater than 0", version))
	}

	o.totalPrice = totalPrice
	o.createdAt = createdAt
	o.updatedAt = updatedAt
	o.version = version

	return o, nil
}

// Validate ensures the Order instance was properly constructed through a
// factory method. Call it when reconstructing orders from persistence.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// ClientID returns the identifier of the customer who owns the order.
func (o *Order) ClientID() kernel.UUID {
	return o.clientID
}

// Items returns a copy of the order's item snapshot.
// The copy keeps the aggregate's items immutable from the outside.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Status returns the current status of the order.
func (o *Order) Status() Status {
	return o.status
}

// TotalPrice returns the order total computed at construction.
func (o *Order) TotalPrice() decimal.Decimal {
	return o.totalPrice
}

// CreatedAt returns when the order was created.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// UpdatedAt returns when the order last changed.
func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Version returns the optimistic-concurrency counter.
func (o *Order) Version() int64 {
	return o.version
}

// IsActive reports whether the order can still change status.
func (o *Order) IsActive() bool {
	return !o.status.IsTerminal()
}

// ChangeStatus moves the order to the requested status if the transition
// graph allows it, bumping the version and the update timestamp.
//
// Requesting the current status is rejected here: idempotent re-application
// is a service-level concern and must be short-circuited before any mutation,
// not absorbed as a silent version bump.
func (o *Order) ChangeStatus(graph TransitionGraph, to Status) error {
	if err := graph.Validate(); err != nil {
		return err
	}
	if err := to.Validate(); err != nil {
		return err
	}

	if !graph.CanTransition(o.status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.status, to)
	}

	o.status = to
	o.version++
	o.updatedAt = time.Now().UTC()
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setClientID(clientID kernel.UUID) error {
	if err := clientID.Validate(); err != nil {
		return err
	}
	o.clientID = clientID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return err
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func totalOf(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}
