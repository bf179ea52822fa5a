package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// OrderReconciliationJob advances active orders along the lifecycle graph on a
// fixed interval. Each sweep walks every non-terminal order and drives it one
// step toward completion through the regular transition handler, so all the
// authorization, concurrency and side effect rules apply to scheduled
// transitions exactly as they do to user initiated ones.
type OrderReconciliationJob struct {
	uowFactory commands.OrderUoWFactory
	handler    commands.TransitionOrderCommandHandler
	graph      order.TransitionGraph
	interval   time.Duration
	metrics    *metrics.LifecycleMetrics
	logger     *slog.Logger

	cron     *cron.Cron
	sweeping atomic.Bool
	stopping atomic.Bool
}

// NewOrderReconciliationJob creates the reconciliation job.
// The uowFactory is used for the read side of each sweep; writes go through
// the transition handler.
func NewOrderReconciliationJob(
	uowFactory commands.OrderUoWFactory,
	handler commands.TransitionOrderCommandHandler,
	graph order.TransitionGraph,
	interval time.Duration,
	lifecycleMetrics *metrics.LifecycleMetrics,
	logger *slog.Logger,
) *OrderReconciliationJob {
	return &OrderReconciliationJob{
		uowFactory: uowFactory,
		handler:    handler,
		graph:      graph,
		interval:   interval,
		metrics:    lifecycleMetrics,
		logger:     logger.With("component", "order_reconciliation_job"),
	}
}

// Start begins the reconciliation schedule.
// A tick that fires while the previous sweep is still running is skipped,
// never queued, so slow sweeps cannot pile up.
func (j *OrderReconciliationJob) Start() error {
	j.cron = cron.New()

	_, err := j.cron.AddFunc("@every "+j.interval.String(), j.tick)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Order reconciliation job started", "interval", j.interval.String())
	return nil
}

// Stop halts the schedule and waits for an in-flight sweep to finish.
// A running sweep stops advancing orders at the next order boundary.
func (j *OrderReconciliationJob) Stop() {
	j.stopping.Store(true)

	if j.cron != nil {
		<-j.cron.Stop().Done()
	}

	j.logger.InfoContext(context.Background(), "Order reconciliation job stopped")
}

// tick runs one scheduled sweep, skipping the tick entirely if the previous
// sweep has not finished yet.
func (j *OrderReconciliationJob) tick() {
	ctx := context.Background()

	if !j.sweeping.CompareAndSwap(false, true) {
		j.metrics.RecordSweep(metrics.SweepSkipped)
		j.logger.InfoContext(ctx, "Previous sweep still running, skipping tick")
		return
	}
	defer j.sweeping.Store(false)

	j.sweep(ctx)
}

// sweep advances every active order one lifecycle step.
// A failed order never aborts the sweep; conflicts and rejections are
// logged and picked up again on the next tick.
func (j *OrderReconciliationJob) sweep(ctx context.Context) {
	active, err := j.uowFactory.Create().OrderRepository().FindActive(ctx)
	if err != nil {
		j.metrics.RecordSweep(metrics.SweepFailed)
		j.logger.ErrorContext(ctx, "Failed to load active orders", "error", err)
		return
	}

	advanced := 0
	for _, aggregate := range active {
		if j.stopping.Load() {
			break
		}

		next, ok := j.graph.NextActiveStatus(aggregate.Status())
		if !ok {
			continue
		}

		if j.advance(ctx, aggregate, next) {
			advanced++
		}
	}

	j.metrics.RecordSweep(metrics.SweepCompleted)
	j.logger.InfoContext(ctx, "Reconciliation sweep completed",
		"active", len(active),
		"advanced", advanced)
}

func (j *OrderReconciliationJob) advance(ctx context.Context, aggregate *order.Order, next order.Status) bool {
	cmd, err := commands.NewTransitionOrderCommand(aggregate.ID(), next, order.SystemActor())
	if err != nil {
		j.logger.ErrorContext(ctx, "Failed to build transition command",
			"orderId", aggregate.ID().String(),
			"error", err)
		return false
	}

	if _, err = j.handler.Handle(ctx, cmd); err != nil {
		if errors.Is(err, errs.ErrConcurrencyConflict) {
			j.logger.InfoContext(ctx, "Order changed concurrently, will retry next sweep",
				"orderId", aggregate.ID().String())
			return false
		}

		j.logger.WarnContext(ctx, "Failed to advance order",
			"orderId", aggregate.ID().String(),
			"target", next.String(),
			"error", err)
		return false
	}

	return true
}
