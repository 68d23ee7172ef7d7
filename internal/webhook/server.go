package webhook

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/hookhand/hookhand/internal/dispatch"
)

// Server represents the webhook HTTP server.
type Server struct {
	config  Config
	handler Handler
	logger  *slog.Logger
	server  *http.Server
}

// New creates a new webhook server instance.
func New(config Config, handler Handler, logger *slog.Logger) *Server {
	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}
	if config.SignatureHeader == "" {
		config.SignatureHeader = DefaultSignatureHeader
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = DefaultWriteTimeout
	}

	return &Server{
		config:  config,
		handler: handler,
		logger:  logger,
	}
}

// Start starts the webhook HTTP server (blocking).
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Listen,
		Handler:      s.setupRoutes(),
		ReadTimeout:  readTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  idleTimeout,
	}

	s.logger.Info("webhook server starting",
		"listen", s.config.Listen,
		"signature_check", s.config.Secret != "",
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("webhook server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("webhook server shutdown failed: %w", err)
		}
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("webhook server error: %w", err)
	}
}

// setupRoutes configures the HTTP router. Every path is a potential script.
func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)

	for _, pattern := range []string{"/", "/*"} {
		r.Get(pattern, s.handleWebhook)
		r.Post(pattern, s.handleWebhook)
	}

	return r
}

// loggingMiddleware logs HTTP requests (excludes sensitive payloads).
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("webhook request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
			"remote_addr", r.RemoteAddr,
		)
	})
}

// handleWebhook converts the request and hands it to the dispatcher. The
// request context ends when the client goes away, which cancels the script.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	receivedAt := time.Now()
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, s.config.MaxBodySize+1))
	if err != nil {
		s.respondText(w, http.StatusInternalServerError, "failed to read request body")
		return
	}
	if int64(len(body)) > s.config.MaxBodySize {
		s.respondText(w, http.StatusRequestEntityTooLarge, "payload too large")
		return
	}

	if s.config.Secret != "" {
		signature := r.Header.Get(s.config.SignatureHeader)
		if err := verifyHMACSignature(body, signature, s.config.Secret); err != nil {
			s.logger.Warn("webhook signature verification failed",
				"path", r.URL.Path,
				"header", s.config.SignatureHeader,
				"missing", signature == "",
			)
			s.respondText(w, http.StatusForbidden, "Forbidden")
			return
		}
	}

	resp, err := s.handler.Handle(ctx, &dispatch.Inbound{
		Method:      r.Method,
		Path:        r.URL.Path,
		Query:       r.URL.Query(),
		ContentType: r.Header.Get("Content-Type"),
		Header:      r.Header,
		Body:        body,
		ReceivedAt:  receivedAt,
		RequestID:   middleware.GetReqID(ctx),
	})
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, dispatch.ErrMalformedBody) {
			level = slog.LevelWarn
		}
		s.logger.Log(ctx, level, "request handling failed",
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(ctx),
			"error", err,
		)
		s.respondText(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}

	s.respondText(w, resp.Status, resp.Body)
}

// respondText sends a plain text response.
func (s *Server) respondText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}
