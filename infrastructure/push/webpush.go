// Package push delivers Web Push messages to subscription endpoints.
package push

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"handwash-backend/application/ports"
	"handwash-backend/domain/model"
	"handwash-backend/infrastructure/secrets"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"
)

const defaultTTLSeconds = 3600

// WebPushDispatcher sends VAPID-signed Web Push messages. Delivery
// failures come back as outcomes, never as errors; the error return is
// reserved for malformed subscriptions, which are caller bugs.
type WebPushDispatcher struct {
	vapid  *secrets.VAPIDProvider
	logger *zap.Logger
}

// NewWebPushDispatcher creates a new dispatcher
func NewWebPushDispatcher(vapid *secrets.VAPIDProvider, logger *zap.Logger) *WebPushDispatcher {
	return &WebPushDispatcher{vapid: vapid, logger: logger}
}

var _ ports.PushDispatcher = (*WebPushDispatcher)(nil)

// Send pushes one message to one subscription
func (d *WebPushDispatcher) Send(ctx context.Context, sub model.PushSubscription, msg ports.PushMessage) (ports.DeliveryOutcome, error) {
	if sub.Endpoint == "" || sub.P256dh == "" || sub.Auth == "" {
		return ports.TransientFailure, fmt.Errorf("subscription is missing endpoint or key material")
	}

	keys, err := d.vapid.Keys(ctx)
	if err != nil {
		d.logger.Error("failed to load VAPID keys", zap.Error(err))
		return ports.TransientFailure, nil
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return ports.TransientFailure, fmt.Errorf("failed to marshal push payload: %w", err)
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dh,
			Auth:   sub.Auth,
		},
	}, &webpush.Options{
		Subscriber:      keys.Subject,
		VAPIDPublicKey:  keys.PublicKey,
		VAPIDPrivateKey: keys.PrivateKey,
		TTL:             defaultTTLSeconds,
	})
	if err != nil {
		d.logger.Warn("push delivery failed",
			zap.Error(err),
			zap.String("endpointHash", sub.EndpointHash),
		)
		return ports.TransientFailure, nil
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ports.Gone, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return ports.Delivered, nil
	default:
		d.logger.Warn("push service rejected delivery",
			zap.Int("status", resp.StatusCode),
			zap.String("endpointHash", sub.EndpointHash),
		)
		return ports.TransientFailure, nil
	}
}
