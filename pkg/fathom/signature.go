package fathom

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/omerharel/minuteflow/errors"
)

// Fathom signs webhooks with the standard-webhooks convention:
//
//	signed content = "{webhook-id}.{webhook-timestamp}.{raw body}"
//	secret bytes   = base64-decode of the secret without its whsec_ prefix
//	signature      = base64(HMAC-SHA256(secret bytes, signed content))
//
// The webhook-signature header carries space-separated "v1,{sig}" entries;
// more than one entry may be present during secret rotation.

// TimestampTolerance bounds how stale a webhook timestamp may be before the
// delivery is rejected as a possible replay.
const TimestampTolerance = 5 * time.Minute

// SignatureHeaders are the raw header values needed for verification
type SignatureHeaders struct {
	ID        string
	Timestamp string
	Signature string
}

// VerifySignature verifies the HMAC signature over the exact raw body. The
// body must not be parsed or trusted before this returns nil. Comparison is
// constant-time.
func VerifySignature(secret string, body []byte, h SignatureHeaders, now time.Time) error {
	if secret == "" {
		return apperrors.ErrSignatureInvalid("webhook secret not configured")
	}
	if h.ID == "" || h.Timestamp == "" || h.Signature == "" {
		return apperrors.ErrSignatureInvalid("missing signature headers")
	}

	ts, err := strconv.ParseInt(h.Timestamp, 10, 64)
	if err != nil {
		return apperrors.ErrSignatureInvalid("timestamp is not an integer")
	}
	age := now.Unix() - ts
	if age < 0 {
		age = -age
	}
	if age > int64(TimestampTolerance.Seconds()) {
		return apperrors.ErrSignatureInvalid("timestamp outside tolerance")
	}

	secretBytes, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return apperrors.ErrSignatureInvalid("malformed webhook secret")
	}

	mac := hmac.New(sha256.New, secretBytes)
	fmt.Fprintf(mac, "%s.%s.", h.ID, h.Timestamp)
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	for _, entry := range strings.Split(h.Signature, " ") {
		version, sig, ok := strings.Cut(entry, ",")
		if !ok || version != "v1" {
			continue
		}
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}

	return apperrors.ErrSignatureInvalid("no matching v1 signature")
}

// Sign computes a v1 signature entry for the given message. Used by tests
// and local tooling to produce valid deliveries.
func Sign(secret string, body []byte, id, timestamp string) (string, error) {
	secretBytes, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(secret, "whsec_"))
	if err != nil {
		return "", fmt.Errorf("malformed webhook secret: %w", err)
	}
	mac := hmac.New(sha256.New, secretBytes)
	fmt.Fprintf(mac, "%s.%s.", id, timestamp)
	mac.Write(body)
	return "v1," + base64.StdEncoding.EncodeToString(mac.Sum(nil)), nil
}
