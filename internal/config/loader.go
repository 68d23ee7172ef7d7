package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads configuration from configPath, applies defaults and environment
// overrides, and validates the result. An empty configPath means "defaults plus
// environment only".
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	if configPath != "" {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
		}

		info, err := os.Stat(absPath)
		if err != nil {
			return nil, fmt.Errorf("config file not found: %s\n"+
				"Hint: Check the path or run with --config flag", absPath)
		}
		if info.IsDir() {
			absPath = filepath.Join(absPath, "hookhand.yaml")
		}

		cfg, err = loadConfigFile(absPath)
		if err != nil {
			return nil, err
		}
	}

	cfg = applyConfigDefaults(cfg)

	if err := ApplyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadConfigFile loads and parses a single config file.
func loadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Apply environment variable interpolation
	interpolated := interpolateEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(interpolated), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	return &cfg, nil
}

// applyConfigDefaults fills zero values from Defaults.
func applyConfigDefaults(cfg *Config) *Config {
	defaults := Defaults()

	if cfg.Service.Name == "" {
		cfg.Service.Name = defaults.Service.Name
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = defaults.Service.LogLevel
	}
	if cfg.Service.LogFormat == "" {
		cfg.Service.LogFormat = defaults.Service.LogFormat
	}

	if cfg.Server.Listen == "" {
		cfg.Server.Listen = defaults.Server.Listen
	}
	if cfg.Server.MaxBodySize == "" {
		cfg.Server.MaxBodySize = defaults.Server.MaxBodySize
	}
	if cfg.Server.SignatureHeader == "" {
		cfg.Server.SignatureHeader = defaults.Server.SignatureHeader
	}

	if cfg.Scripts.Dir == "" {
		cfg.Scripts.Dir = defaults.Scripts.Dir
	}
	if cfg.Scripts.RequestTimeout == 0 {
		cfg.Scripts.RequestTimeout = defaults.Scripts.RequestTimeout
	}
	if cfg.Scripts.GracePeriod == 0 {
		cfg.Scripts.GracePeriod = defaults.Scripts.GracePeriod
	}
	if cfg.Scripts.BackgroundCheck == 0 {
		cfg.Scripts.BackgroundCheck = defaults.Scripts.BackgroundCheck
	}
	if cfg.Scripts.MaxOutputBytes == "" {
		cfg.Scripts.MaxOutputBytes = defaults.Scripts.MaxOutputBytes
	}

	if cfg.State.Path == "" {
		cfg.State.Path = defaults.State.Path
	}
	if cfg.State.LockPath == "" {
		cfg.State.LockPath = defaults.State.LockPath
	}

	return cfg
}

// ApplyEnv overlays the process environment variables HookHand has always
// honoured (REQUEST_TIMEOUT, SCRIPTS_DIR, SCRIPTS_GIT_*, PORT, LOG_LEVEL).
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup("REQUEST_TIMEOUT"); ok && v != "" {
		timeout, err := parseTimeout(v)
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		cfg.Scripts.RequestTimeout = timeout
	}
	if v, ok := lookup("SCRIPTS_DIR"); ok && v != "" {
		cfg.Scripts.Dir = v
	}
	if v, ok := lookup("SCRIPTS_GIT_REPO"); ok {
		cfg.Repository.URL = v
	}
	if v, ok := lookup("SCRIPTS_GIT_USERNAME"); ok {
		cfg.Repository.Username = v
	}
	if v, ok := lookup("SCRIPTS_GIT_PASSWORD"); ok {
		cfg.Repository.Password = v
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		cfg.Server.Listen = ":" + v
	}
	if v, ok := lookup("HOOKHAND_LISTEN"); ok && v != "" {
		cfg.Server.Listen = v
	}
	if v, ok := lookup("HOOKHAND_WEBHOOK_SECRET"); ok && v != "" {
		cfg.Server.WebhookSecret = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.Service.LogLevel = strings.ToLower(v)
	}
	return nil
}

// parseTimeout accepts whole seconds ("25") or a Go duration ("1m30s").
func parseTimeout(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q", v)
	}
	return d, nil
}

// interpolateEnv replaces ${VAR} patterns with environment variable values.
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]

		if value, exists := os.LookupEnv(varName); exists {
			return value
		}

		// If not found, leave the placeholder (will fail validation if required)
		return match
	})
}

// Validate performs basic validation on the configuration.
func Validate(cfg *Config) error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Service.LogLevel] {
		return fmt.Errorf("service.log_level must be one of: debug, info, warn, error (got %q)", cfg.Service.LogLevel)
	}
	if cfg.Service.LogFormat != "json" && cfg.Service.LogFormat != "text" {
		return fmt.Errorf("service.log_format must be json or text (got %q)", cfg.Service.LogFormat)
	}

	if cfg.Server.Listen == "" {
		return fmt.Errorf("server.listen is required")
	}
	if _, err := ParseSize(cfg.Server.MaxBodySize); err != nil {
		return fmt.Errorf("server.max_body_size: %w", err)
	}
	if err := checkUnresolved("server.webhook_secret", cfg.Server.WebhookSecret); err != nil {
		return err
	}
	if cfg.Server.WebhookSecret != "" && cfg.Server.SignatureHeader == "" {
		return fmt.Errorf("server.signature_header is required when server.webhook_secret is set")
	}

	if cfg.Scripts.Dir == "" {
		return fmt.Errorf("scripts.dir is required")
	}
	if cfg.Scripts.RequestTimeout <= 0 {
		return fmt.Errorf("scripts.request_timeout must be positive")
	}
	if cfg.Scripts.GracePeriod <= 0 {
		return fmt.Errorf("scripts.grace_period must be positive")
	}
	if cfg.Scripts.BackgroundCheck <= 0 {
		return fmt.Errorf("scripts.background_check must be positive")
	}
	if _, err := ParseSize(cfg.Scripts.MaxOutputBytes); err != nil {
		return fmt.Errorf("scripts.max_output_bytes: %w", err)
	}

	if cfg.Repository.URL != "" {
		if err := checkUnresolved("repository.url", cfg.Repository.URL); err != nil {
			return err
		}
		if cfg.Repository.Username != "" {
			u, err := url.Parse(cfg.Repository.URL)
			if err != nil || u.Host == "" {
				return fmt.Errorf("repository.url must include a host when credentials are set (got %q)", cfg.Repository.URL)
			}
		}
	}
	if err := checkUnresolved("repository.password", cfg.Repository.Password); err != nil {
		return err
	}

	if cfg.State.Path == "" {
		return fmt.Errorf("state.path is required")
	}
	if cfg.State.LockPath == "" {
		return fmt.Errorf("state.lock_path is required")
	}

	return nil
}

// checkUnresolved rejects values still holding a ${VAR} placeholder.
func checkUnresolved(field, value string) error {
	if matches := envVarPattern.FindStringSubmatch(value); len(matches) > 1 {
		return fmt.Errorf("%s: environment variable ${%s} is not set", field, matches[1])
	}
	return nil
}

// BodyLimit returns the parsed max_body_size in bytes. An empty size means
// DefaultMaxBodySize.
func (s ServerConfig) BodyLimit() (int64, error) {
	if s.MaxBodySize == "" {
		return DefaultMaxBodySize, nil
	}
	n, err := ParseSize(s.MaxBodySize)
	if err != nil {
		return 0, fmt.Errorf("invalid max_body_size %q: %w", s.MaxBodySize, err)
	}
	return n, nil
}

// OutputLimit returns the parsed max_output_bytes in bytes.
func (s ScriptsConfig) OutputLimit() int64 {
	n, err := ParseSize(s.MaxOutputBytes)
	if err != nil {
		return DefaultMaxOutputBytes
	}
	return n
}
