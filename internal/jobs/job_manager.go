package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/metrics"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	reconciliationJob *OrderReconciliationJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	uowFactory commands.OrderUoWFactory,
	transitionHandler commands.TransitionOrderCommandHandler,
	graph order.TransitionGraph,
	reconcileInterval time.Duration,
	lifecycleMetrics *metrics.LifecycleMetrics,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		reconciliationJob: NewOrderReconciliationJob(
			uowFactory,
			transitionHandler,
			graph,
			reconcileInterval,
			lifecycleMetrics,
			logger,
		),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.reconciliationJob.Start(); err != nil {
		return fmt.Errorf("failed to start order reconciliation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.reconciliationJob.Stop()
}
