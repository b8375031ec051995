package config

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func publicKeyFile(t *testing.T) string {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(pub)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "jwt.pub")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), 0o600))
	return path
}

func setRequiredEnv(t *testing.T) {
	t.Setenv("POSTGRES_USER", "rentals")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "rentals")
	t.Setenv("AUTH_JWT_PUBLIC_KEY_FILE", publicKeyFile(t))
}

func TestBuild(t *testing.T) {
	t.Log("defaults are applied")
	{
		setRequiredEnv(t)

		cfg, err := Build()
		require.NoError(t, err)
		require.Equal(t, 3000, cfg.HTTPCfg.Port)
		require.Equal(t, AuditStoreMongo, cfg.AuditCfg.Store)
		require.Equal(t, 100, cfg.AuditCfg.BatchSize)
		require.Equal(t, 5*time.Second, cfg.AuditCfg.FlushInterval)
		require.Equal(t, "0 2 * * *", cfg.RetentionCfg.Schedule)
		require.True(t, cfg.RetentionCfg.Enabled)
		require.True(t, cfg.AuthCfg.Required)
		require.Equal(t, "EdDSA", cfg.AuthCfg.SigningMethod.Alg())
		require.IsType(t, ed25519.PublicKey{}, cfg.AuthCfg.PublicKey)
	}

	t.Log("unknown audit store is rejected")
	{
		setRequiredEnv(t)
		t.Setenv("AUDIT_STORE", "file")

		_, err := Build()
		require.Error(t, err)
	}

	t.Log("missing key file is rejected")
	{
		setRequiredEnv(t)
		t.Setenv("AUDIT_STORE", AuditStorePostgres)
		t.Setenv("AUTH_JWT_PUBLIC_KEY_FILE", filepath.Join(t.TempDir(), "missing.pub"))

		_, err := Build()
		require.Error(t, err)
	}
}

func TestBuildRequiresDatabaseCredentials(t *testing.T) {
	t.Setenv("AUTH_JWT_PUBLIC_KEY_FILE", publicKeyFile(t))
	for _, name := range []string{"POSTGRES_USER", "POSTGRES_PASSWORD", "POSTGRES_DB"} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}

	_, err := Build()
	require.Error(t, err)
}
