// Package jobs provides scheduled background tasks for the order lifecycle service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order reconciliation.
//
// # Available Jobs
//
// 1. OrderReconciliationJob - Runs on a configurable interval to advance active
// orders one step along the lifecycle graph (Created to Confirmed, Confirmed to
// Shipped, Shipped to Delivered).
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(uowFactory, transitionHandler, graph, interval, metrics, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The reconciliation job uses an "@every" cron schedule built from the
// configured interval. A tick that fires while the previous sweep is still
// running is skipped rather than queued.
//
// # Error Handling
//
// - Sweep failures on individual orders are logged and retried on the next tick
// - Concurrency conflicts are expected when users race the sweep and are logged at info level
// - A failed start is returned by StartAll and leaves nothing running
package jobs
