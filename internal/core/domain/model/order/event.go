package order

import "time"

// StatusChangedEvent is the cross-service notification emitted after a status
// transition has been committed. Delivery is best-effort; downstream
// consumers must be idempotent.
type StatusChangedEvent struct {
	OrderID    string    `json:"orderId"`
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewStatusChangedEvent builds the event for a committed from->to transition.
func NewStatusChangedEvent(o *Order, from, to Status) StatusChangedEvent {
	return StatusChangedEvent{
		OrderID:    o.ID().String(),
		FromStatus: from.String(),
		ToStatus:   to.String(),
		OccurredAt: time.Now().UTC(),
	}
}
