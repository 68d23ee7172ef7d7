package webhook

import (
	"context"
	"time"

	"github.com/hookhand/hookhand/internal/dispatch"
)

// Handler serves a transport-neutral request.
type Handler interface {
	Handle(ctx context.Context, in *dispatch.Inbound) (*dispatch.Response, error)
}

// Config holds webhook server configuration.
type Config struct {
	Listen string

	// MaxBodySize is the maximum allowed request body size in bytes (default: 1MB)
	MaxBodySize int64

	// Secret enables signature verification when non-empty.
	Secret string

	// SignatureHeader carries the HMAC signature.
	// Examples: "X-Hub-Signature-256" (GitHub, sha256=), "X-Hub-Signature" (GitHub, sha1=)
	SignatureHeader string

	// WriteTimeout must cover the longest foreground script run.
	WriteTimeout time.Duration
}

// Default values
const (
	DefaultMaxBodySize     = 1048576 // 1 MB
	DefaultSignatureHeader = "X-Hub-Signature-256"
	DefaultWriteTimeout    = 35 * time.Second

	readTimeout     = 10 * time.Second
	idleTimeout     = 60 * time.Second
	shutdownTimeout = 5 * time.Second
	writeMargin     = 5 * time.Second
)
