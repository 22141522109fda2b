package push

import (
	"context"
	"testing"

	"handwash-backend/application/ports"
	"handwash-backend/domain/model"
	"handwash-backend/infrastructure/secrets"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestSendRejectsIncompleteSubscription(t *testing.T) {
	vapid := secrets.NewVAPIDProvider(nil, "", secrets.VAPIDKeys{
		PublicKey:  "pub",
		PrivateKey: "priv",
	})
	d := NewWebPushDispatcher(vapid, zap.NewNop())

	cases := []model.PushSubscription{
		{P256dh: "key", Auth: "auth"},
		{Endpoint: "https://push.example.com/x", Auth: "auth"},
		{Endpoint: "https://push.example.com/x", P256dh: "key"},
	}
	for _, sub := range cases {
		_, err := d.Send(context.Background(), sub, ports.PushMessage{Body: "hi"})
		assert.Error(t, err)
	}
}
