package ports

import (
	"context"

	"orderflow/internal/core/domain/model/order"
)

// EventPublisher is the external collaborator notifying other services about
// committed status changes. Publication is fire-and-forget from the core's
// perspective: delivery is best-effort, and a publish
// failure is logged by the caller but never rolls back a transition.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event order.StatusChangedEvent) error
}
