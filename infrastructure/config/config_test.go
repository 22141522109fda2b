package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "handwash", cfg.TableName)
	assert.Equal(t, "GSI1", cfg.IndexName)
	assert.Equal(t, 540, cfg.TZOffsetMinutes)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("TABLE_NAME", "custom")
	t.Setenv("TZ_OFFSET_MINUTES", "0")
	t.Setenv("ENABLE_METRICS", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.TableName)
	assert.Zero(t, cfg.TZOffsetMinutes)
	assert.True(t, cfg.EnableMetrics)
}

func TestValidateProduction(t *testing.T) {
	cfg := &Config{
		Environment:     "production",
		TableName:       "handwash",
		JWTSecret:       "secret",
		VAPIDSecretName: "handwash/vapid",
	}
	assert.NoError(t, cfg.Validate())

	cfg.TableName = ""
	assert.Error(t, cfg.Validate())

	cfg.TableName = "handwash"
	cfg.VAPIDSecretName = ""
	assert.Error(t, cfg.Validate())

	cfg.VAPIDPublicKey = "pub"
	cfg.VAPIDPrivateKey = "priv"
	assert.NoError(t, cfg.Validate())
}
