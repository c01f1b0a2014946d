package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// SignatureHeader carries the payload signature on outgoing webhooks
const SignatureHeader = "X-WardWatch-Signature"

const signaturePrefix = "sha256="

// Signer computes HMAC-SHA256 signatures for webhook payloads
type Signer struct {
	key []byte
}

// NewSigner creates a new signer from a shared secret
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, fmt.Errorf("signing secret must not be empty")
	}

	return &Signer{
		key: []byte(secret),
	}, nil
}

// Sign returns the signature of body in the form "sha256=<hex>"
func (s *Signer) Sign(body []byte) string {
	mac := hmac.New(sha256.New, s.key)
	mac.Write(body)
	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether signature matches body. The comparison is constant time.
func (s *Signer) Verify(body []byte, signature string) bool {
	if !strings.HasPrefix(signature, signaturePrefix) {
		return false
	}
	got, err := hex.DecodeString(strings.TrimPrefix(signature, signaturePrefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, s.key)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
