package config

import (
	"os"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, DriverMongoDB, cfg.Store.Driver)
	assert.Equal(t, "HOSICO", cfg.Bounty.DefaultTokenSymbol)
	assert.Empty(t, cfg.JWT.Secret)
	assert.Empty(t, cfg.Auth.AdminWallets)
}

func TestLoad_EnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("BOUNTY_STORE_DRIVER", "Memory")
	t.Setenv("BOUNTY_SERVER_REQUEST_TIMEOUT", "3s")
	t.Setenv("BOUNTY_AUTH_ADMIN_WALLETS", "0xabc, 0xdef ,")
	t.Setenv("BOUNTY_JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 3*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, []string{"0xabc", "0xdef"}, cfg.Auth.AdminWallets)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
}

func TestValidate(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("store.driver", "redis")
	_, err := unmarshal(v)
	assert.ErrorContains(t, err, "unknown store.driver")

	v.Set("store.driver", DriverPostgres)
	_, err = unmarshal(v)
	assert.ErrorContains(t, err, "postgres.dsn is required")

	v.Set("postgres.dsn", "postgres://localhost/bounties")
	cfg, err := unmarshal(v)
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
}

// chdir changes the working directory for the duration of the test
// (equivalent of testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
