package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"
)

var (
	// ErrForbidden is returned when the requesting actor lacks the rights
	// for the transition: only admins, the system actor, or the owning
	// client cancelling their own order are authorized.
	ErrForbidden = errors.New("actor is not allowed to perform this transition")

	// ErrUpstreamUnavailable is returned when the inventory coordinator is
	// unreachable or timed out. The transition aborts and no status change
	// is persisted, so stock truth and order status never disagree.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

// TransitionOrderCommandHandler is the sole mutation entry point for order
// status. Both the API path and the reconciliation scheduler funnel through
// Handle, so one consistency mechanism covers every writer:
//
//	load -> authorize -> graph check -> inventory side effect -> CAS persist -> event
//
// Side effects execute strictly before the status is persisted. A failed
// inventory release aborts the transition; a lost CAS race surfaces as a
// conflict for the caller to re-read and re-evaluate; a failed event publish
// is logged and never rolls back the committed transition.
//
// Example:
//
//	handler := NewTransitionOrderCommandHandler(uowFactory, graph, inventory,
//	    publisher, "order.status.changed", 3*time.Second, nil, logger)
//	cmd, _ := NewTransitionOrderCommand(orderID, order.Cancelled, actor)
//	updated, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrObjectNotFound):
//	    // unknown order
//	case errors.Is(err, ErrForbidden):
//	    // actor lacks rights
//	case errors.Is(err, order.ErrInvalidTransition):
//	    // edge absent from the graph
//	case errors.Is(err, errs.ErrConcurrencyConflict):
//	    // lost the CAS race; reload and re-evaluate
//	case errors.Is(err, ErrUpstreamUnavailable):
//	    // inventory unreachable; nothing was persisted
//	}
type TransitionOrderCommandHandler struct {
	uowFactory      OrderUoWFactory
	graph           order.TransitionGraph
	inventory       ports.InventoryCoordinator
	publisher       ports.EventPublisher
	eventTopic      string
	upstreamTimeout time.Duration
	metrics         *metrics.LifecycleMetrics
	logger          *slog.Logger
}

// NewTransitionOrderCommandHandler creates the lifecycle transition handler.
// The graph must be a constructed TransitionGraph; metrics may be nil.
func NewTransitionOrderCommandHandler(
	uowFactory OrderUoWFactory,
	graph order.TransitionGraph,
	inventory ports.InventoryCoordinator,
	publisher ports.EventPublisher,
	eventTopic string,
	upstreamTimeout time.Duration,
	lifecycleMetrics *metrics.LifecycleMetrics,
	logger *slog.Logger,
) TransitionOrderCommandHandler {
	return TransitionOrderCommandHandler{
		uowFactory:      uowFactory,
		graph:           graph,
		inventory:       inventory,
		publisher:       publisher,
		eventTopic:      eventTopic,
		upstreamTimeout: upstreamTimeout,
		metrics:         lifecycleMetrics,
		logger:          logger.With("component", "transition_order_handler"),
	}
}

// Handle applies one status transition and returns the updated order.
//
// Contract:
//   - unknown order: error wrapping errs.ErrObjectNotFound
//   - requested status equals current status: no-op success for any actor
//     with no write, no version bump, and no event
//   - unauthorized actor: ErrForbidden
//   - edge absent from the graph: error wrapping order.ErrInvalidTransition
//   - transition to Cancelled releases the inventory reservation first; a
//     release failure aborts with ErrUpstreamUnavailable and persists nothing
//   - persistence is a compare-and-swap on the version read at load time; a
//     lost race surfaces errs.ErrConcurrencyConflict and the order is unchanged
//   - the status-changed event is published after commit, best-effort
func (h TransitionOrderCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionOrderCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()

	aggregate, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	target := cmd.TargetStatus()

	// Idempotent re-application: the requested status is already in place.
	// Resolved before authorization, so a retried request succeeds for any
	// actor without a write, a version bump, or an event.
	if aggregate.Status() == target {
		h.metrics.RecordTransition(target.String(), metrics.ResultNoop)
		return aggregate, nil
	}

	if !cmd.Actor().MayTransition(aggregate, target) {
		h.metrics.RecordTransition(target.String(), metrics.ResultRejected)
		return nil, fmt.Errorf("%w: actor %s (%s) requested %s -> %s",
			ErrForbidden, cmd.Actor().ID(), cmd.Actor().Role(), aggregate.Status(), target)
	}

	fromStatus := aggregate.Status()
	expectedVersion := aggregate.Version()

	if err = aggregate.ChangeStatus(h.graph, target); err != nil {
		h.metrics.RecordTransition(target.String(), metrics.ResultRejected)
		return nil, err
	}

	// Inventory release happens strictly before the status write. If it
	// fails, the transition aborts and the stored order stays untouched; if
	// the CAS below fails after a successful release, the release is treated
	// as having already taken effect (the coordinator's Release is idempotent).
	if target == order.Cancelled {
		if err = h.releaseInventory(ctx, aggregate); err != nil {
			h.metrics.RecordTransition(target.String(), metrics.ResultUnavailable)
			return nil, err
		}
	}

	if err = repo.UpdateWithVersion(ctx, aggregate, expectedVersion); err != nil {
		if errors.Is(err, errs.ErrConcurrencyConflict) {
			h.metrics.RecordTransition(target.String(), metrics.ResultConflict)
		}
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	h.metrics.RecordTransition(target.String(), metrics.ResultApplied)
	h.publishStatusChanged(ctx, aggregate, fromStatus, target)

	return aggregate, nil
}

// releaseInventory frees the reservation for all items with a bounded call.
// Any failure, including a timeout, surfaces as ErrUpstreamUnavailable.
func (h TransitionOrderCommandHandler) releaseInventory(ctx context.Context, aggregate *order.Order) error {
	releaseCtx, cancel := context.WithTimeout(ctx, h.upstreamTimeout)
	defer cancel()

	if err := h.inventory.Release(releaseCtx, aggregate.Items()); err != nil {
		return fmt.Errorf("%w: inventory release for order %s: %w",
			ErrUpstreamUnavailable, aggregate.ID(), err)
	}
	return nil
}

// publishStatusChanged emits the lifecycle event after a successful commit.
// Publish failures are logged only: delivery is best-effort and a missed
// event never rolls back a committed transition.
func (h TransitionOrderCommandHandler) publishStatusChanged(
	ctx context.Context,
	aggregate *order.Order,
	from, to order.Status,
) {
	event := order.NewStatusChangedEvent(aggregate, from, to)

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.upstreamTimeout)
	defer cancel()

	if err := h.publisher.Publish(publishCtx, h.eventTopic, event); err != nil {
		h.logger.ErrorContext(ctx, "Failed to publish status changed event",
			"orderId", aggregate.ID().String(),
			"fromStatus", from.String(),
			"toStatus", to.String(),
			"error", err)
	}
}
