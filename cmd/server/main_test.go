package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/item-catalog/backend/internal/auth"
)

func setEnv(t *testing.T) {
	t.Helper()
	t.Setenv("POSTGRES_DSN", "postgres://localhost/catalog")
	t.Setenv("JWT_SECRET", "cli-secret")
	t.Setenv("IDENTITY_PROVIDER", "jwt")
	t.Setenv("LOG_LEVEL", "error")
	configFile = ""
}

func TestSetupStoresAppOnContext(t *testing.T) {
	setEnv(t)

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	assert.Nil(t, appFrom(cmd))

	require.NoError(t, setup(cmd, nil))
	a := appFrom(cmd)
	require.NotNil(t, a)
	assert.Equal(t, "cli-secret", a.cfg.JWTSecret)
	assert.Equal(t, "postgres://localhost/catalog", a.cfg.PostgresDSN)
	assert.NotNil(t, a.log)
}

func TestAppFromWithoutContext(t *testing.T) {
	assert.Nil(t, appFrom(&cobra.Command{}))
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	setEnv(t)
	t.Setenv("POSTGRES_DSN", "")

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	err := setup(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres_dsn is required")
	assert.Nil(t, appFrom(cmd))
}

func TestTokenCommandMintsVerifiableJWT(t *testing.T) {
	setEnv(t)
	t.Cleanup(func() { tokenUser, tokenEmail, tokenTTL = "", "", time.Hour })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"token", "--user", "u1", "--email", "u1@example.com", "--ttl", "5m"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())

	token := strings.TrimSpace(out.String())
	require.NotEmpty(t, token)

	identity, err := auth.NewJWTProvider("cli-secret").Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "u1", identity.ID)
	assert.Equal(t, "u1@example.com", identity.Email)
	require.NotNil(t, identity.CreatedAt)
	assert.WithinDuration(t, time.Now(), *identity.CreatedAt, time.Minute)
}

func TestTokenCommandRequiresUser(t *testing.T) {
	setEnv(t)
	t.Cleanup(func() { tokenUser, tokenEmail, tokenTTL = "", "", time.Hour })

	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{"token"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--user is required")
}
