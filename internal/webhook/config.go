package webhook

import (
	"fmt"

	"github.com/hookhand/hookhand/internal/config"
)

// FromGlobalConfig converts the service config to webhook.Config. The write
// timeout covers the request budget plus both termination grace periods.
func FromGlobalConfig(cfg *config.Config) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("config is nil")
	}

	maxBodySize, err := cfg.Server.BodyLimit()
	if err != nil {
		return Config{}, err
	}

	header := cfg.Server.SignatureHeader
	if header == "" {
		header = DefaultSignatureHeader
	}

	return Config{
		Listen:          cfg.Server.Listen,
		MaxBodySize:     maxBodySize,
		Secret:          cfg.Server.WebhookSecret,
		SignatureHeader: header,
		WriteTimeout:    cfg.Scripts.RequestTimeout + 2*cfg.Scripts.GracePeriod + writeMargin,
	}, nil
}
