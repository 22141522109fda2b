// Package secrets loads signing credentials for push delivery.
package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// VAPIDKeys are the credentials used to sign Web Push requests.
type VAPIDKeys struct {
	Subject    string `json:"subject"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

func (k VAPIDKeys) complete() bool {
	return k.PublicKey != "" && k.PrivateKey != ""
}

// VAPIDProvider resolves VAPID keys once and caches them for the life of
// the process. Keys configured directly (env) win; otherwise they are
// fetched lazily from Secrets Manager on first use.
type VAPIDProvider struct {
	client     *secretsmanager.Client
	secretName string
	direct     VAPIDKeys

	once sync.Once
	keys VAPIDKeys
	err  error
}

// NewVAPIDProvider creates a new provider. client may be nil when direct
// keys are configured.
func NewVAPIDProvider(client *secretsmanager.Client, secretName string, direct VAPIDKeys) *VAPIDProvider {
	return &VAPIDProvider{
		client:     client,
		secretName: secretName,
		direct:     direct,
	}
}

// Keys returns the cached credentials, loading them on first call.
func (p *VAPIDProvider) Keys(ctx context.Context) (VAPIDKeys, error) {
	p.once.Do(func() {
		if p.direct.complete() {
			p.keys = p.direct
		} else {
			p.keys, p.err = p.fetch(ctx)
		}
		if p.err == nil && p.keys.Subject == "" {
			p.keys.Subject = "mailto:noreply@example.com"
		}
	})
	return p.keys, p.err
}

func (p *VAPIDProvider) fetch(ctx context.Context) (VAPIDKeys, error) {
	if p.client == nil {
		return VAPIDKeys{}, fmt.Errorf("VAPID keys are not configured and no secrets client is available")
	}
	out, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(p.secretName),
	})
	if err != nil {
		return VAPIDKeys{}, fmt.Errorf("failed to fetch VAPID secret: %w", err)
	}

	var keys VAPIDKeys
	if err := json.Unmarshal([]byte(aws.ToString(out.SecretString)), &keys); err != nil {
		return VAPIDKeys{}, fmt.Errorf("failed to parse VAPID secret: %w", err)
	}
	if !keys.complete() {
		return VAPIDKeys{}, fmt.Errorf("VAPID secret is missing publicKey or privateKey")
	}
	return keys, nil
}
