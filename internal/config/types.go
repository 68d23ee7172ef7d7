package config

import "time"

// Config represents the complete hookhand configuration.
type Config struct {
	Service    ServiceConfig    `yaml:"service"`
	Server     ServerConfig     `yaml:"server"`
	Scripts    ScriptsConfig    `yaml:"scripts"`
	Repository RepositoryConfig `yaml:"repository,omitempty"`
	State      StateConfig      `yaml:"state"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// ServerConfig defines the webhook HTTP listener.
type ServerConfig struct {
	Listen string `yaml:"listen"`
	// MaxBodySize accepts plain bytes or KB/MB/GB suffixes (e.g. "1MB").
	MaxBodySize string `yaml:"max_body_size"`
	// WebhookSecret enables HMAC-SHA256 verification of every request body.
	WebhookSecret   string `yaml:"webhook_secret,omitempty"`
	SignatureHeader string `yaml:"signature_header"`
}

// ScriptsConfig defines where scripts live and how long they may run.
type ScriptsConfig struct {
	Dir string `yaml:"dir"`
	// RequestTimeout is the wall-clock budget for a whole foreground request.
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// GracePeriod separates SIGINT from SIGTERM when a session is torn down.
	GracePeriod time.Duration `yaml:"grace_period"`
	// BackgroundCheck is how long background scripts are watched before 202.
	BackgroundCheck time.Duration `yaml:"background_check"`
	MaxOutputBytes  string        `yaml:"max_output_bytes"`
}

// RepositoryConfig describes the git repository the scripts directory is synced from.
type RepositoryConfig struct {
	URL       string `yaml:"url"`
	Username  string `yaml:"username,omitempty"`
	Password  string `yaml:"password,omitempty"`
	NetrcPath string `yaml:"netrc_path,omitempty"`
}

// StateConfig defines local state paths.
type StateConfig struct {
	Path     string `yaml:"path"`
	LockPath string `yaml:"lock_path"`
}

// DefaultRequestTimeout leaves headroom under the 30s limit common to PaaS routers.
const DefaultRequestTimeout = 25 * time.Second

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:      "hookhand",
			LogLevel:  "info",
			LogFormat: "json",
		},
		Server: ServerConfig{
			Listen:          ":8080",
			MaxBodySize:     "1MB",
			SignatureHeader: "X-Hub-Signature-256",
		},
		Scripts: DefaultScriptsConfig(),
		State: StateConfig{
			Path:     "./data/hookhand.db",
			LockPath: "./data/provision.lock",
		},
	}
}

// DefaultScriptsConfig returns the default execution settings.
func DefaultScriptsConfig() ScriptsConfig {
	return ScriptsConfig{
		Dir:             "./scripts",
		RequestTimeout:  DefaultRequestTimeout,
		GracePeriod:     1 * time.Second,
		BackgroundCheck: 1 * time.Second,
		MaxOutputBytes:  "4MB",
	}
}
