package bootstrap

import (
	"bytes"
	"context"
	"testing"

	"github.com/hosico-labs/bounty-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LogConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.Contains(t, buf.String(), `"key":"value"`)
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LogConfig{Level: "loud"}, &buf)
	logger.Info("visible")
	assert.Contains(t, buf.String(), "visible")
}

func TestOpenStore_Memory(t *testing.T) {
	store, err := OpenStore(context.Background(), &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}})
	require.NoError(t, err)
	require.NotNil(t, store.Bounties)
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close(context.Background()))
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "redis"}})
	assert.Error(t, err)
}
