package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
)

// CreateOrderCommandHandler handles checkout: it reserves inventory and, only
// if the reservation succeeds, persists a new order in Created status. A
// reservation failure means no order exists at all; a persistence failure
// after a successful reservation is compensated by releasing the hold again.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, inventory, 3*time.Second, logger)
//	created, err := handler.Handle(ctx, cmd)
//	if errors.Is(err, ports.ErrInsufficientStock) {
//	    // out of stock; nothing was created
//	}
type CreateOrderCommandHandler struct {
	uowFactory      OrderUoWFactory
	inventory       ports.InventoryCoordinator
	upstreamTimeout time.Duration
	logger          *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation.
// Requires an OrderUoWFactory for transactional persistence and the inventory
// coordinator whose reservation gates order existence.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	inventory ports.InventoryCoordinator,
	upstreamTimeout time.Duration,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory:      uowFactory,
		inventory:       inventory,
		upstreamTimeout: upstreamTimeout,
		logger:          logger.With("component", "create_order_handler"),
	}
}

// Handle processes the checkout command and returns the created order.
// Reservation happens first: ports.ErrInsufficientStock aborts before any
// write, and an unreachable coordinator surfaces ErrUpstreamUnavailable.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	items := cmd.Items()

	if err := h.reserveInventory(ctx, items); err != nil {
		return nil, err
	}

	aggregate, err := order.NewOrder(cmd.OrderID(), cmd.ClientID(), items)
	if err != nil {
		h.compensateReservation(ctx, cmd, items)
		return nil, err
	}

	if err = h.persist(ctx, aggregate); err != nil {
		h.compensateReservation(ctx, cmd, items)
		return nil, err
	}

	return aggregate, nil
}

func (h CreateOrderCommandHandler) persist(ctx context.Context, aggregate *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// reserveInventory places the stock hold with a bounded call.
// ErrInsufficientStock passes through untouched so callers can distinguish
// "out of stock" from "coordinator unreachable".
func (h CreateOrderCommandHandler) reserveInventory(ctx context.Context, items []order.Item) error {
	reserveCtx, cancel := context.WithTimeout(ctx, h.upstreamTimeout)
	defer cancel()

	err := h.inventory.Reserve(reserveCtx, items)
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrInsufficientStock) {
		return err
	}
	return fmt.Errorf("%w: inventory reserve: %w", ErrUpstreamUnavailable, err)
}

// compensateReservation releases a hold whose order never materialized.
// A failed compensation is logged; the coordinator's idempotent release makes
// a retry by reconciliation tooling safe.
func (h CreateOrderCommandHandler) compensateReservation(
	ctx context.Context,
	cmd CreateOrderCommand,
	items []order.Item,
) {
	releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.upstreamTimeout)
	defer cancel()

	if err := h.inventory.Release(releaseCtx, items); err != nil {
		h.logger.ErrorContext(ctx, "Failed to release reservation for unpersisted order",
			"orderId", cmd.OrderID().String(),
			"error", err)
	}
}
