package webhook

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"hash"
	"strings"
)

var errVerification = errors.New("webhook verification failed")

// verifyHMACSignature checks signature against an HMAC of body keyed by
// secret, using a constant-time comparison.
//
// Supported formats:
//   - "sha256=<hex>" (GitHub X-Hub-Signature-256)
//   - "sha1=<hex>" (GitHub X-Hub-Signature, legacy)
//   - "<hex>" (plain hex, SHA-256)
//
// All failures return the same error.
func verifyHMACSignature(body []byte, signature, secret string) error {
	if secret == "" || signature == "" {
		return errVerification
	}

	newHash, actualMAC, err := parseSignature(signature)
	if err != nil {
		return errVerification
	}

	mac := hmac.New(newHash, []byte(secret))
	mac.Write(body)

	if subtle.ConstantTimeCompare(mac.Sum(nil), actualMAC) != 1 {
		return errVerification
	}
	return nil
}

// parseSignature returns the digest named by the signature prefix and the
// decoded MAC.
func parseSignature(signature string) (func() hash.Hash, []byte, error) {
	if hexSig, ok := strings.CutPrefix(signature, "sha256="); ok {
		mac, err := hex.DecodeString(hexSig)
		return sha256.New, mac, err
	}
	if hexSig, ok := strings.CutPrefix(signature, "sha1="); ok {
		mac, err := hex.DecodeString(hexSig)
		return sha1.New, mac, err
	}
	mac, err := hex.DecodeString(signature)
	return sha256.New, mac, err
}

// computeExpectedSignature returns the hex HMAC-SHA256 of body.
func computeExpectedSignature(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// formatGitHubSignature formats a hex signature in GitHub's X-Hub-Signature-256 format.
func formatGitHubSignature(hexSig string) string {
	return "sha256=" + hexSig
}
