package ports

import (
	"context"

	"handwash-backend/domain/model"
)

// DeliveryOutcome is the per-subscription result of one push delivery.
// Failures are values, not errors: callers prune on Gone and leave the
// subscription in place on TransientFailure.
type DeliveryOutcome int

const (
	// Delivered means the push service accepted the message.
	Delivered DeliveryOutcome = iota
	// Gone means the endpoint is permanently invalid (HTTP 404/410) and the
	// subscription must be pruned.
	Gone
	// TransientFailure means delivery failed but the endpoint may recover;
	// the next scheduled run retries naturally.
	TransientFailure
)

func (o DeliveryOutcome) String() string {
	switch o {
	case Delivered:
		return "delivered"
	case Gone:
		return "gone"
	default:
		return "transient_failure"
	}
}

// PushMessage is the payload handed to the client's notification layer.
type PushMessage struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// PushDispatcher sends one message to one subscription. The error return is
// reserved for malformed input (a caller bug); delivery failures come back
// as outcomes.
type PushDispatcher interface {
	Send(ctx context.Context, sub model.PushSubscription, msg PushMessage) (DeliveryOutcome, error)
}

// MetricsEmitter publishes the aggregate counts of a reminder run.
type MetricsEmitter interface {
	EmitReminderCounts(ctx context.Context, sent, skipped, failed int) error
}
