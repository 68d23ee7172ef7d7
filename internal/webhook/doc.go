// Package webhook is the HTTP front end of HookHand.
//
// Every GET or POST path is handed to a Handler (the dispatcher) as a
// dispatch.Inbound; the first path segment names the script. Responses are
// always text/plain.
//
// # Security Model
//
// - Optional HMAC signature verification using crypto/subtle (constant-time comparison)
// - Body size limits enforced before anything else runs
// - No signature details leaked in error responses (always generic 403)
// - Request logging excludes payloads
//
// # Configuration
//
//	server:
//	  listen: ":8080"
//	  max_body_size: 1MB
//	  webhook_secret: ${HOOKHAND_WEBHOOK_SECRET}  # empty disables verification
//	  signature_header: X-Hub-Signature-256
//
// # Request Flow
//
//  1. Request arrives; receive time is recorded for the shared timeout budget
//  2. Body size checked (reject with 413 if too large)
//  3. If a secret is configured, the signature header is verified (403 on mismatch)
//  4. The dispatcher runs the script; its status and body are returned as-is
//
// # Error Responses
//
// - 403 Forbidden: Invalid or missing signature
// - 413 Payload Too Large: Body exceeds max_body_size
// - 500 Internal Server Error: Missing scripts directory, malformed JSON, or a panic
//
// # Example Usage
//
//	wc, err := webhook.FromGlobalConfig(cfg)
//	if err != nil {
//		return err
//	}
//	server := webhook.New(wc, dispatcher, log.WithComponent("webhook"))
//	if err := server.Start(ctx); err != nil {
//		return err
//	}
package webhook
