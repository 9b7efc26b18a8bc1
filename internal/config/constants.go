package config

import "time"

// Environment defaults
const (
	DefaultPort        = 8080
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"

	DefaultDBUser = "postgres"
	DefaultDBHost = "localhost"
	DefaultDBPort = "5432"
	DefaultDBName = "atelier"

	DefaultDBMaxConns        = 20
	DefaultDBMaxConnIdleTime = 5 * time.Minute
	DefaultDBMaxConnLifetime = 30 * time.Minute

	DefaultMigrationsDir = "migrations"

	DefaultEventDeadLetterPath = "data/deadletter.jsonl"
)

// Engine settings file
const (
	DefaultEngineSettingsPath = "configs/engine.yaml"
	EngineSettingsEnvPrefix   = "ATELIER"
)

// Engine settings keys
const (
	KeyCastingMixFactor              = "casting.mix_factor"
	KeyCastingWastagePercent         = "casting.wastage_percent"
	KeyFormulatedFragranceGramsDrop  = "formulated.fragrance_grams_per_drop"
	KeyFormulatedAdditiveGramBasis   = "formulated.additive_gram_basis"
	KeyFormulatedAdditiveFallbackPct = "formulated.additive_fallback_percent"
	KeySummaryTopN                   = "summary.top_n"
	KeySummaryCriticalThreshold      = "summary.critical_threshold"
)

// Error messages
const (
	ErrMsgInvalidPort           = "invalid PORT value: %w"
	ErrMsgAPIKeyRequired        = "API_KEY environment variable must be set for security"
	ErrMsgReadEngineSettings    = "failed to read engine settings %s: %w"
	ErrMsgDecodeEngineSettings  = "failed to decode engine settings: %w"
	ErrMsgNonPositiveSettingFmt = "engine setting %s must be positive, got %v"
	ErrMsgNegativeSettingFmt    = "engine setting %s must not be negative, got %v"
	ErrMsgSchemaVersionUnset    = "ENV_SCHEMA_VERSION is not set, expected %s"
	ErrMsgSchemaVersionMismatch = "ENV_SCHEMA_VERSION mismatch: expected %s, got %s"
	ErrMsgMissingEnvVars        = "missing required environment variables: %s"
)

// Values shipped in .env.example that must not reach a real deployment
const (
	ExampleDBPassword = "change_this_secure_password"
	ExampleAPIKey     = "generate_with_openssl_rand_hex_32"

	MaxSaneAnalysisConcurrency = 64
)
