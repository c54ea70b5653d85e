package config

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds console configuration loaded from .env, environment and flags.
type Config struct {
	RunAddress      string
	BackendURL      string
	DatabaseURI     string
	TokenFile       string
	TokenStoreKey   []byte
	DeviceID        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	MaxUploadBytes  int64
	WorkingLanguage string
	CORSOrigins     []string
	LogLevel        slog.Level
}

const (
	defaultRunAddress      = ":8080"
	defaultBackendURL      = "https://ash-translation-backend.up.railway.app"
	defaultTokenFile       = ".ash/session.json"
	defaultRequestTimeout  = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
	defaultMaxUploadMB     = 50
	defaultWorkingLanguage = "English"
	defaultDotenvFile      = ".env"
)

// Load parses configuration from .env files, environment variables and flags.
// Real environment variables win over .env entries; flags win over both.
func Load() (*Config, error) {
	dotenvPath := getString(os.LookupEnv, "ENV_FILE", defaultDotenvFile)
	dotenv, err := readDotenv(dotenvPath)
	if err != nil {
		return nil, err
	}
	return load(os.Args[1:], chain(os.LookupEnv, mapLookup(dotenv)))
}

type envLookup func(string) (string, bool)

func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

func mapLookup(values map[string]string) envLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func chain(lookups ...envLookup) envLookup {
	return func(key string) (string, bool) {
		for _, l := range lookups {
			if v, ok := l(key); ok && v != "" {
				return v, true
			}
		}
		return "", false
	}
}

func load(args []string, lookup envLookup) (*Config, error) {
	hostname, _ := os.Hostname()

	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		BackendURL:      getString(lookup, "BACKEND_URL", defaultBackendURL),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		TokenFile:       getString(lookup, "TOKEN_FILE", defaultTokenFile),
		DeviceID:        getString(lookup, "DEVICE_ID", hostname),
		RequestTimeout:  getDuration(lookup, "REQUEST_TIMEOUT", defaultRequestTimeout),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		WorkingLanguage: getString(lookup, "WORKING_LANGUAGE", defaultWorkingLanguage),
	}
	maxUploadMB := getInt(lookup, "MAX_UPLOAD_MB", defaultMaxUploadMB)

	flags := flag.NewFlagSet("ashconsole", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var (
		requestTimeoutStr  = cfg.RequestTimeout.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		storeKey           = getString(lookup, "TOKEN_STORE_KEY", "")
		corsOrigins        = getString(lookup, "CORS_ORIGINS", "")
		logLevel           = getString(lookup, "LOG_LEVEL", "info")
	)

	// The key file only replaces the environment default; --token-key still wins.
	if keyFile, ok := lookup("TOKEN_STORE_KEY_FILE"); ok && keyFile != "" {
		content, err := os.ReadFile(keyFile)
		if err != nil {
			return nil, fmt.Errorf("read token store key file: %w", err)
		}
		storeKey = strings.TrimSpace(string(content))
	}

	flags.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP listen address")
	flags.StringVar(&cfg.BackendURL, "b", cfg.BackendURL, "Order backend base URL")
	flags.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN for token persistence")
	flags.StringVar(&cfg.TokenFile, "token-file", cfg.TokenFile, "Path of the persisted session file")
	flags.StringVar(&cfg.DeviceID, "device-id", cfg.DeviceID, "Device identifier used as session key")
	flags.StringVar(&storeKey, "token-key", storeKey, "32 byte key (hex or base64) sealing persisted tokens")
	flags.StringVar(&requestTimeoutStr, "request-timeout", requestTimeoutStr, "Backend request timeout")
	flags.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	flags.Int64Var(&maxUploadMB, "max-upload-mb", maxUploadMB, "Maximum quote attachment size in MB")
	flags.StringVar(&cfg.WorkingLanguage, "working-language", cfg.WorkingLanguage, "Pivot language required in translation pairs")
	flags.StringVar(&corsOrigins, "cors-origins", corsOrigins, "Comma separated allowed origins")
	flags.StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")

	if err := flags.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.RequestTimeout, err = time.ParseDuration(requestTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	if storeKey != "" {
		if cfg.TokenStoreKey, err = decodeKey(storeKey); err != nil {
			return nil, err
		}
	}

	cfg.CORSOrigins = splitList(corsOrigins)

	if cfg.RequestTimeout < 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if maxUploadMB <= 0 {
		maxUploadMB = defaultMaxUploadMB
	}
	cfg.MaxUploadBytes = maxUploadMB * 1024 * 1024

	if strings.TrimSpace(cfg.WorkingLanguage) == "" {
		cfg.WorkingLanguage = defaultWorkingLanguage
	}

	if cfg.DeviceID == "" {
		cfg.DeviceID = "default"
	}

	parsed, err := url.Parse(cfg.BackendURL)
	if err != nil || !parsed.IsAbs() {
		return nil, fmt.Errorf("backend url must be absolute, got %q", cfg.BackendURL)
	}

	if cfg.DatabaseURI == "" && cfg.TokenFile == "" {
		return nil, fmt.Errorf("either a token file or a database URI must be provided")
	}

	return cfg, nil
}

func decodeKey(raw string) ([]byte, error) {
	if key, err := hex.DecodeString(raw); err == nil && len(key) == 32 {
		return key, nil
	}
	if key, err := base64.StdEncoding.DecodeString(raw); err == nil && len(key) == 32 {
		return key, nil
	}
	return nil, fmt.Errorf("token store key must be 32 bytes encoded as hex or base64")
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
