// Package alerting publishes operational alerts for unexpected failures.
package alerting

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

const alertDetailType = "handwash.error"

// EventBridgeNotifier pushes error alerts onto an event bus so an
// operational channel can pick them up. Callers treat it as best-effort:
// a failed alert is logged, never re-raised.
type EventBridgeNotifier struct {
	client  *eventbridge.Client
	busName string
	source  string
	logger  *zap.Logger
}

// NewEventBridgeNotifier creates a new notifier
func NewEventBridgeNotifier(client *eventbridge.Client, busName, source string, logger *zap.Logger) *EventBridgeNotifier {
	return &EventBridgeNotifier{
		client:  client,
		busName: busName,
		source:  source,
		logger:  logger,
	}
}

// NotifyError publishes one alert describing the failure
func (n *EventBridgeNotifier) NotifyError(ctx context.Context, source string, cause error) error {
	if n.client == nil || n.busName == "" {
		return nil
	}

	detail, err := json.Marshal(map[string]string{
		"source":     source,
		"error":      cause.Error(),
		"occurredAt": time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal alert detail: %w", err)
	}

	out, err := n.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{
			{
				EventBusName: aws.String(n.busName),
				Source:       aws.String(n.source),
				DetailType:   aws.String(alertDetailType),
				Detail:       aws.String(string(detail)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish alert: %w", err)
	}
	if out.FailedEntryCount > 0 {
		return fmt.Errorf("alert entry rejected by event bus")
	}

	n.logger.Debug("ops alert published", zap.String("source", source))
	return nil
}
