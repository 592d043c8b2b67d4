package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NAMEMARKET_ENV",
		"NAMEMARKET_ADDR",
		"NAMEMARKET_ADMIN_PRINCIPAL",
		"NAMEMARKET_DOMAIN_PRICE",
		"NAMEMARKET_JWT_SIGNING_KEY",
	} {
		t.Setenv(key, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	assert.Equal(t, EnvDevelopment, cfg.Environment)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, DefaultDomainPrice, cfg.DomainPrice)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("NAMEMARKET_ADDR", ":9090")
	t.Setenv("NAMEMARKET_DOMAIN_PRICE", "250")
	t.Setenv("NAMEMARKET_ADMIN_PRINCIPAL", "registry-admin")

	cfg := FromEnv()
	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, uint64(250), cfg.DomainPrice)
	assert.Equal(t, "registry-admin", cfg.AdminPrincipal)
}

func TestValidateRejectsFallbacksOutsideDevelopment(t *testing.T) {
	clearEnv(t)
	t.Setenv("NAMEMARKET_ENV", "production")

	t.Run("default admin principal", func(t *testing.T) {
		cfg := FromEnv()
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NAMEMARKET_ADMIN_PRINCIPAL")
	})

	t.Run("default signing key", func(t *testing.T) {
		t.Setenv("NAMEMARKET_ADMIN_PRINCIPAL", "registry-admin")
		cfg := FromEnv()
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "NAMEMARKET_JWT_SIGNING_KEY")
	})

	t.Run("explicit values pass", func(t *testing.T) {
		t.Setenv("NAMEMARKET_ADMIN_PRINCIPAL", "registry-admin")
		t.Setenv("NAMEMARKET_JWT_SIGNING_KEY", "s3cr3t-signing-key")
		cfg := FromEnv()
		require.NoError(t, cfg.Validate())
	})
}
