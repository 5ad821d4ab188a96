package config

import (
	"os"
	fp "path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POSTGRES_URL", "postgres://magma@localhost/magma")
	t.Setenv("MAGMA_ADDR", "")

	cfg, err := Load(fp.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, ":3001", cfg.Addr)
	assert.Equal(t, "magma.key", cfg.KeyFile)
	assert.Equal(t, 12*time.Hour, cfg.SessionLifetime)
}

func TestLoadEnvFile(t *testing.T) {
	env := fp.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(env, []byte("MAGMA_TEST_URL=postgres://file@localhost/magma\n"), 0600))
	t.Setenv("POSTGRES_URL", "postgres://env@localhost/magma")
	t.Cleanup(func() { os.Unsetenv("MAGMA_TEST_URL") })
	t.Setenv("MAGMA_SESSION_LIFETIME", "")

	cfg, err := Load(env)
	require.NoError(t, err)
	assert.Equal(t, "postgres://file@localhost/magma", os.Getenv("MAGMA_TEST_URL"))
	// variables already present in the environment win over the file
	assert.Equal(t, "postgres://env@localhost/magma", cfg.PostgresURL)
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("POSTGRES_URL", "")
	_, err := Load(fp.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	t.Setenv("POSTGRES_URL", "postgres://magma@localhost/magma")
	t.Setenv("MAGMA_SESSION_LIFETIME", "forever")
	_, err = Load(fp.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
