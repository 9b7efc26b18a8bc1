package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/Atelier_Go/internal/database"
)

// Stopper is anything with a graceful stop, such as the HTTP server
type Stopper interface {
	Stop(ctx context.Context) error
}

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server         Stopper
	ShutdownTracer func(context.Context) error
	DBPool         database.Pool

	// Publisher is shut down after the server so pending retries are dead-lettered
	Publisher interface {
		Shutdown(ctx context.Context) error
	}
}

// GracefulShutdown stops the HTTP server first so no new production run starts,
// then settles pending events, flushes pending spans and closes the pool. Errors are logged and never
// stop the sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Publisher != nil {
		if err := components.Publisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgPublisherFailed, "error", err)
		}
	}

	if components.ShutdownTracer != nil {
		if err := components.ShutdownTracer(ctx); err != nil {
			slog.Error(LogMsgTracerShutdownFailed, "error", err)
		}
	}

	if components.DBPool != nil {
		slog.Info(LogMsgClosingDatabase)
		components.DBPool.Close()
	}

	slog.Info(LogMsgServerStopped)
}
