package logger

import (
	"log/slog"
	"strings"
)

// Config controls the process-wide slog handler
type Config struct {
	Level       string
	Format      string
	ServiceName string
	Version     string
	Environment string
	AddSource   bool
}

// ForEnvironment returns the defaults used when nothing is configured.
// Production logs JSON at info, dev logs text at debug with source
// locations, and tests only surface warnings.
func ForEnvironment(env string) Config {
	cfg := Config{
		Level:       LogLevelInfo,
		Format:      LogFormatText,
		ServiceName: DefaultServiceName,
		Version:     DefaultVersion,
		Environment: env,
	}
	switch env {
	case EnvironmentProduction, EnvironmentStaging:
		cfg.Format = LogFormatJSON
	case EnvironmentDev:
		cfg.Level = LogLevelDebug
		cfg.AddSource = true
	case EnvironmentTest:
		cfg.Level = LogLevelWarn
	default:
		cfg.Environment = EnvironmentDev
	}
	return cfg
}

// LogLevel parses Level, falling back to info on anything unrecognised
func (c Config) LogLevel() slog.Level {
	name := strings.ToLower(strings.TrimSpace(c.Level))
	if name == LogLevelWarning {
		name = LogLevelWarn
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// IsJSON reports whether the JSON handler should be used
func (c Config) IsJSON() bool {
	return strings.EqualFold(c.Format, LogFormatJSON)
}

// BaseAttributes are attached to every record
func (c Config) BaseAttributes() []slog.Attr {
	attrs := make([]slog.Attr, 0, 3)
	if c.ServiceName != "" {
		attrs = append(attrs, slog.String(AttrKeyService, c.ServiceName))
	}
	if c.Version != "" {
		attrs = append(attrs, slog.String(AttrKeyVersion, c.Version))
	}
	if c.Environment != "" {
		attrs = append(attrs, slog.String(AttrKeyEnvironment, c.Environment))
	}
	return attrs
}

// redactSecrets masks attribute values whose keys name a credential
func redactSecrets(_ []string, a slog.Attr) slog.Attr {
	key := strings.ToLower(a.Key)
	for _, marker := range sensitiveKeyMarkers {
		if strings.Contains(key, marker) {
			return slog.String(a.Key, RedactedValue)
		}
	}
	return a
}
