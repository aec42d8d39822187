package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDevDefaults(t *testing.T) {
	cfg := Config{Env: "development", Mode: ModeDev}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DevFallbackSecret, cfg.SigningKey())
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	cfg := Config{Mode: "SOMETHING"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_MODE")
}

func TestValidateProductionRequiresTokenOnly(t *testing.T) {
	cfg := Config{Env: "production", Production: true, Mode: ModeDev, JWTSecret: strings.Repeat("k", 32)}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_ONLY")
}

func TestValidateProductionSecretRules(t *testing.T) {
	base := Config{Env: "production", Production: true, Mode: ModeJWTOnly}

	t.Run("missing secret", func(t *testing.T) {
		cfg := base
		require.Error(t, cfg.Validate())
	})

	t.Run("dev fallback secret", func(t *testing.T) {
		cfg := base
		cfg.JWTSecret = DevFallbackSecret
		require.Error(t, cfg.Validate())
	})

	t.Run("short secret", func(t *testing.T) {
		cfg := base
		cfg.JWTSecret = "short"
		require.Error(t, cfg.Validate())
	})

	t.Run("valid", func(t *testing.T) {
		cfg := base
		cfg.JWTSecret = strings.Repeat("k", 32)
		require.NoError(t, cfg.Validate())
	})
}

func TestIsTokenOnly(t *testing.T) {
	assert.False(t, Config{Mode: ModeDev}.IsTokenOnly())
	assert.True(t, Config{Mode: ModeJWTOnly}.IsTokenOnly())
}
