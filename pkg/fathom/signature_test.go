package fathom

import (
	"encoding/base64"
	"strconv"
	"testing"
	"time"

	apperrors "github.com/omerharel/minuteflow/errors"
)

const testSecret = "whsec_" + "dGVzdC1zaWduaW5nLWtleS0xMjM0NTY3ODkw" // base64("test-signing-key-1234567890")

func signedHeaders(t *testing.T, secret string, body []byte, now time.Time) SignatureHeaders {
	t.Helper()
	ts := strconv.FormatInt(now.Unix(), 10)
	sig, err := Sign(secret, body, "msg_1", ts)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	return SignatureHeaders{ID: "msg_1", Timestamp: ts, Signature: sig}
}

func TestVerifySignature_Valid(t *testing.T) {
	body := []byte(`{"recording_id":"119611450"}`)
	now := time.Now()
	h := signedHeaders(t, testSecret, body, now)

	if err := VerifySignature(testSecret, body, h, now); err != nil {
		t.Fatalf("expected valid signature, got %v", err)
	}
}

func TestVerifySignature_TamperedBody(t *testing.T) {
	body := []byte(`{"recording_id":"119611450"}`)
	now := time.Now()
	h := signedHeaders(t, testSecret, body, now)

	tampered := []byte(`{"recording_id":"999999999"}`)
	err := VerifySignature(testSecret, tampered, h, now)
	if err == nil {
		t.Fatal("expected verification failure for tampered body")
	}
	if apperrors.CodeOf(err) != apperrors.ErrorCode_SIGNATURE_INVALID {
		t.Fatalf("expected SIGNATURE_INVALID, got %v", apperrors.CodeOf(err))
	}
}

func TestVerifySignature_StaleTimestamp(t *testing.T) {
	body := []byte(`{}`)
	signedAt := time.Now().Add(-TimestampTolerance - time.Minute)
	h := signedHeaders(t, testSecret, body, signedAt)

	if err := VerifySignature(testSecret, body, h, time.Now()); err == nil {
		t.Fatal("expected rejection of stale timestamp")
	}
}

func TestVerifySignature_FutureTimestamp(t *testing.T) {
	body := []byte(`{}`)
	signedAt := time.Now().Add(TimestampTolerance + time.Minute)
	h := signedHeaders(t, testSecret, body, signedAt)

	if err := VerifySignature(testSecret, body, h, time.Now()); err == nil {
		t.Fatal("expected rejection of future timestamp")
	}
}

func TestVerifySignature_MissingHeaders(t *testing.T) {
	err := VerifySignature(testSecret, []byte(`{}`), SignatureHeaders{}, time.Now())
	if err == nil {
		t.Fatal("expected failure with missing headers")
	}
}

func TestVerifySignature_EmptySecret(t *testing.T) {
	body := []byte(`{}`)
	h := signedHeaders(t, testSecret, body, time.Now())

	if err := VerifySignature("", body, h, time.Now()); err == nil {
		t.Fatal("expected failure with empty secret")
	}
}

func TestVerifySignature_SecretRotation(t *testing.T) {
	// During rotation the header carries signatures from both the old and
	// the new secret; verification must accept when any entry matches.
	oldSecret := "whsec_" + base64.StdEncoding.EncodeToString([]byte("old-key"))
	body := []byte(`{"recording_id":"42"}`)
	now := time.Now()
	ts := strconv.FormatInt(now.Unix(), 10)

	oldSig, err := Sign(oldSecret, body, "msg_1", ts)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	newSig, err := Sign(testSecret, body, "msg_1", ts)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	h := SignatureHeaders{ID: "msg_1", Timestamp: ts, Signature: oldSig + " " + newSig}
	if err := VerifySignature(testSecret, body, h, now); err != nil {
		t.Fatalf("expected rotated signature to verify, got %v", err)
	}
}

func TestVerifySignature_WrongSecret(t *testing.T) {
	otherSecret := "whsec_" + base64.StdEncoding.EncodeToString([]byte("a-different-key"))
	body := []byte(`{}`)
	now := time.Now()
	h := signedHeaders(t, otherSecret, body, now)

	if err := VerifySignature(testSecret, body, h, now); err == nil {
		t.Fatal("expected failure for signature from another secret")
	}
}
