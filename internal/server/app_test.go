package server

import (
	"context"
	"testing"
	"time"

	"github.com/fyndrai/fyndr/internal/logging"
	"github.com/fyndrai/fyndr/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(addr string) *config.Config {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Addr = addr
	return cfg
}

func TestNewApp_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(":0")
	cfg.SecretKey = ""

	_, err := NewApp(cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	app, err := NewApp(testConfig("127.0.0.1:0"), logging.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	app, err := NewApp(testConfig("127.0.0.1:99999"), logging.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.Error(t, app.Run(ctx))
}
