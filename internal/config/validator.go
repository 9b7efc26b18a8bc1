package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/osse101/Atelier_Go/internal/logger"
)

// ExpectedEnvSchemaVersion is bumped whenever a variable is renamed or removed
const ExpectedEnvSchemaVersion = "1.0"

// RequiredEnvVars must be present and non-empty
var RequiredEnvVars = []string{
	"ENV_SCHEMA_VERSION",
	"DB_USER",
	"DB_PASSWORD",
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
	"API_KEY",
}

// envRule checks the format of one variable when it is set. Load falls back
// to defaults on malformed values, so these rules are what surfaces typos.
type envRule struct {
	key   string
	check func(string) error
}

var envRules = []envRule{
	{"PORT", checkPort},
	{"DB_PORT", checkPort},
	{"DB_MAX_CONNS", checkPositiveInt},
	{"CAPACITY_CACHE_SIZE", checkPositiveInt},
	{"ANALYSIS_CONCURRENCY", checkPositiveInt},
	{"EVENT_MAX_RETRIES", checkNonNegativeInt},
	{"DB_MAX_CONN_IDLE_TIME", checkDuration},
	{"DB_MAX_CONN_LIFETIME", checkDuration},
	{"CAPACITY_CACHE_TTL", checkDuration},
	{"EVENT_RETRY_DELAY", checkDuration},
	{"LOG_LEVEL", oneOf(logger.LogLevelDebug, logger.LogLevelInfo, logger.LogLevelWarn, logger.LogLevelWarning, logger.LogLevelError)},
	{"LOG_FORMAT", oneOf(logger.LogFormatJSON, logger.LogFormatText)},
	{"TRUSTED_PROXIES", checkIPList},
}

// ValidateEnv checks the schema version, the required variables and the
// format of every optional variable that is set
func ValidateEnv() error {
	schemaVersion := os.Getenv("ENV_SCHEMA_VERSION")
	if schemaVersion == "" {
		return fmt.Errorf(ErrMsgSchemaVersionUnset, ExpectedEnvSchemaVersion)
	}
	if schemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf(ErrMsgSchemaVersionMismatch, ExpectedEnvSchemaVersion, schemaVersion)
	}

	var missing []string
	for _, key := range RequiredEnvVars {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf(ErrMsgMissingEnvVars, strings.Join(missing, ", "))
	}

	var errs []error
	for _, rule := range envRules {
		value, ok := os.LookupEnv(rule.key)
		if !ok || value == "" {
			continue
		}
		if err := rule.check(value); err != nil {
			errs = append(errs, fmt.Errorf("%s=%q: %w", rule.key, value, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateEnvWithWarnings runs ValidateEnv and also reports settings that are
// valid but suspicious
func ValidateEnvWithWarnings() ([]string, error) {
	if err := ValidateEnv(); err != nil {
		return nil, err
	}

	var warnings []string

	if os.Getenv("DB_PASSWORD") == ExampleDBPassword {
		warnings = append(warnings, "DB_PASSWORD is the example value, set a real password")
	}
	if os.Getenv("API_KEY") == ExampleAPIKey {
		warnings = append(warnings, "API_KEY is the example value, generate one with: openssl rand -hex 32")
	}
	if n := getEnvAsInt("ANALYSIS_CONCURRENCY", 0); n > MaxSaneAnalysisConcurrency {
		warnings = append(warnings, fmt.Sprintf("ANALYSIS_CONCURRENCY=%d is unusually high and may exhaust the connection pool", n))
	}
	if os.Getenv("ENVIRONMENT") == logger.EnvironmentProduction && os.Getenv("LOG_LEVEL") == logger.LogLevelDebug {
		warnings = append(warnings, "LOG_LEVEL=debug in production logs every production state transition")
	}

	return warnings, nil
}

func checkPort(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if n < 1 || n > 65535 {
		return errors.New("port out of range")
	}
	return nil
}

func checkPositiveInt(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if n <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func checkNonNegativeInt(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil {
		return err
	}
	if n < 0 {
		return errors.New("must not be negative")
	}
	return nil
}

func checkDuration(v string) error {
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	if d <= 0 {
		return errors.New("must be positive")
	}
	return nil
}

func checkIPList(v string) error {
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" && net.ParseIP(part) == nil {
			return fmt.Errorf("%q is not an IP address", part)
		}
	}
	return nil
}

func oneOf(allowed ...string) func(string) error {
	return func(v string) error {
		if !slices.Contains(allowed, strings.ToLower(v)) {
			return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
		}
		return nil
	}
}
