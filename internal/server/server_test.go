package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"revenue-dashboard/internal/config"
)

func testGraceful() *GracefulServer {
	cfg := &config.Config{
		Server: config.ServerConfig{ShutdownTimeout: time.Second},
		Data:   config.DataConfig{LoadTimeout: time.Second},
	}
	return NewGracefulServer(&http.Server{Addr: "127.0.0.1:0"}, slog.New(slog.NewTextHandler(io.Discard, nil)), cfg)
}

func TestGracefulServer_ShutdownRunsHooks(t *testing.T) {
	gs := testGraceful()
	var calls atomic.Int32
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		calls.Add(1)
		return errors.New("flush failed")
	})

	err := gs.Shutdown(context.Background())

	assert.Equal(t, int32(2), calls.Load())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "flush failed")
}

func TestGracefulServer_ShutdownDeadline(t *testing.T) {
	gs := testGraceful()
	release := make(chan struct{})
	defer close(release)
	gs.RegisterShutdownHook(func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, gs.Shutdown(ctx), context.DeadlineExceeded)
}

func TestGracefulServer_Reload(t *testing.T) {
	gs := testGraceful()
	var order []int
	gs.RegisterReloadHook(func(ctx context.Context) error {
		order = append(order, 1)
		return errors.New("bad export")
	})
	gs.RegisterReloadHook(func(ctx context.Context) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		order = append(order, 2)
		return nil
	})

	gs.Reload(context.Background())

	assert.Equal(t, []int{1, 2}, order, "a failing hook must not stop the rest")
}
