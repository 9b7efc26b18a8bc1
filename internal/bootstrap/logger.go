package bootstrap

import (
	"io"
	"log/slog"

	"github.com/osse101/Atelier_Go/internal/config"
	"github.com/osse101/Atelier_Go/internal/logger"
)

// SetupLogger initializes the default slog logger from the application config
// and logs the startup banner
func SetupLogger(cfg *config.Config, version string, w io.Writer) {
	logCfg := logger.ForEnvironment(cfg.Environment)
	logCfg.ServiceName = TracerServiceName
	logCfg.Version = version
	if cfg.LogLevel != "" {
		logCfg.Level = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		logCfg.Format = cfg.LogFormat
	}
	logger.InitLoggerWithWriter(logCfg, w)

	slog.Info(LogMsgLoggingInitialized, "level", logCfg.LogLevel().String(), "format", logCfg.Format)
	slog.Info(LogMsgStartingAtelier, "environment", cfg.Environment, "version", version)
	slog.Debug(LogMsgConfigurationLoaded,
		"db_host", cfg.DBHost,
		"db_port", cfg.DBPort,
		"db_name", cfg.DBName,
		"port", cfg.Port,
		"analysis_concurrency", cfg.AnalysisConcurrency,
		"capacity_cache_ttl", cfg.CapacityCacheTTL)
}
