package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/Atelier_Go/internal/capacity"
	"github.com/osse101/Atelier_Go/internal/config"
	"github.com/osse101/Atelier_Go/internal/domain"
	"github.com/osse101/Atelier_Go/internal/event"
)

func newEventSystem(t *testing.T) (event.Bus, *event.ResilientPublisher) {
	t.Helper()
	cfg := &config.Config{
		EventMaxRetries:     1,
		EventRetryDelay:     time.Millisecond,
		EventDeadLetterPath: filepath.Join(t.TempDir(), "events", "deadletter.jsonl"),
	}
	bus, publisher, err := InitializeEventSystem(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = publisher.Shutdown(context.Background()) })
	return bus, publisher
}

func TestInitializeEventSystem_CreatesDeadLetterDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "events")
	cfg := &config.Config{EventDeadLetterPath: filepath.Join(dir, "deadletter.jsonl")}

	_, publisher, err := InitializeEventSystem(cfg)
	require.NoError(t, err)
	require.NoError(t, publisher.Shutdown(context.Background()))

	assert.DirExists(t, dir)
}

func TestRegisterEventHandlers_InvalidatesCache(t *testing.T) {
	bus, publisher := newEventSystem(t)
	cache := capacity.NewCache(4, time.Minute)
	cache.SetReport(&domain.CapacityReport{ProductID: "p1", MaxProducible: 3})
	require.Equal(t, 1, cache.Len())

	RegisterEventHandlers(EventHandlerDependencies{EventBus: bus, CapacityCache: cache})

	err := publisher.Publish(context.Background(), event.NewStockAdjustedEvent("packaging", "Kraft Box", 2, 5, "recount"))

	require.NoError(t, err)
	assert.Zero(t, cache.Len())
}

func TestRegisterEventHandlers_WithoutCache(t *testing.T) {
	bus, _ := newEventSystem(t)

	RegisterEventHandlers(EventHandlerDependencies{EventBus: bus})

	assert.NoError(t, bus.Publish(context.Background(), event.NewStockAdjustedEvent("additive", "Clay", 1, 1, "")))
}

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), "", "test")

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracer_Enabled(t *testing.T) {
	// exporter creation does not dial, so an unreachable endpoint is fine here
	shutdown, err := InitTracer(context.Background(), "127.0.0.1:1", "test")

	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = shutdown(ctx)
}

type fakeStopper struct {
	stopped bool
	err     error
}

func (f *fakeStopper) Stop(context.Context) error {
	f.stopped = true
	return f.err
}

type shutdownFunc func(context.Context) error

func (f shutdownFunc) Shutdown(ctx context.Context) error { return f(ctx) }

type fakePool struct{ closed bool }

func (p *fakePool) Ping(context.Context) error { return nil }
func (p *fakePool) Close()                     { p.closed = true }

func TestGracefulShutdown(t *testing.T) {
	t.Run("stops everything", func(t *testing.T) {
		srv := &fakeStopper{}
		pool := &fakePool{}
		tracerDown := false
		publisher := &fakeStopper{}

		GracefulShutdown(context.Background(), ShutdownComponents{
			Server:         srv,
			Publisher:      shutdownFunc(publisher.Stop),
			DBPool:         pool,
			ShutdownTracer: func(context.Context) error { tracerDown = true; return nil },
		})

		assert.True(t, srv.stopped)
		assert.True(t, publisher.stopped)
		assert.True(t, tracerDown)
		assert.True(t, pool.closed)
	})

	t.Run("continues after server error", func(t *testing.T) {
		pool := &fakePool{}

		GracefulShutdown(context.Background(), ShutdownComponents{
			Server: &fakeStopper{err: assert.AnError},
			DBPool: pool,
		})

		assert.True(t, pool.closed)
	})

	t.Run("nil components", func(t *testing.T) {
		assert.NotPanics(t, func() { GracefulShutdown(context.Background(), ShutdownComponents{}) })
	})
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	cfg := &config.Config{LogLevel: "info", LogFormat: "json", Environment: "test", Port: 8080}

	SetupLogger(cfg, "1.2.3", &buf)

	assert.Contains(t, buf.String(), LogMsgStartingAtelier)
	assert.Contains(t, buf.String(), `"version":"1.2.3"`)
	assert.NotContains(t, buf.String(), LogMsgConfigurationLoaded, "debug line must be filtered at info")
}
