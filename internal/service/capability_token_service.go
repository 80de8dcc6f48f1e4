package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// DefaultCapabilityTTL is the lifetime of an invoice read token.
const DefaultCapabilityTTL = 900 * time.Second

const capabilityKeyInfo = "kiosk-settlement/invoice-capability/v1"

// capabilityPayload fields are declared in key order so json.Marshal emits
// the sorted, compact encoding that gets signed.
type capabilityPayload struct {
	Exp int64  `json:"exp"`
	Pid string `json:"pid"`
}

// HMACCapabilityTokenService implements ports.CapabilityTokenService.
// Token format: b64url(payload) "." b64url(HMAC-SHA256(key, payload)).
type HMACCapabilityTokenService struct {
	key []byte
	now func() time.Time
}

// NewHMACCapabilityTokenService derives the signing key from the process
// secret with HKDF-SHA256.
func NewHMACCapabilityTokenService(secret string) (*HMACCapabilityTokenService, error) {
	key := make([]byte, sha256.Size)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(capabilityKeyInfo))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("deriving capability key: %w", err)
	}
	return &HMACCapabilityTokenService{key: key, now: time.Now}, nil
}

// Sign binds subjectID to an absolute expiry of now+ttl.
func (s *HMACCapabilityTokenService) Sign(subjectID string, ttl time.Duration) string {
	// An int64 and a string always marshal; invalid UTF-8 is coerced, not rejected.
	payload, _ := json.Marshal(capabilityPayload{
		Exp: s.now().Add(ttl).Unix(),
		Pid: subjectID,
	})
	return encodeSegment(payload) + "." + encodeSegment(s.mac(payload))
}

// Verify recomputes the MAC over the exact decoded payload bytes.
// Malformed input of any kind yields false.
func (s *HMACCapabilityTokenService) Verify(token string, expectedSubjectID string) bool {
	payloadPart, sigPart, ok := strings.Cut(token, ".")
	if !ok {
		return false
	}
	payload, err := decodeSegment(payloadPart)
	if err != nil {
		return false
	}
	sig, err := decodeSegment(sigPart)
	if err != nil {
		return false
	}
	if !hmac.Equal(sig, s.mac(payload)) {
		return false
	}

	var p capabilityPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return false
	}
	if p.Pid == "" || p.Pid != expectedSubjectID {
		return false
	}
	return p.Exp >= s.now().Unix()
}

func (s *HMACCapabilityTokenService) mac(payload []byte) []byte {
	m := hmac.New(sha256.New, s.key)
	m.Write(payload)
	return m.Sum(nil)
}

func encodeSegment(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// decodeSegment accepts both padded and unpadded base64url.
func decodeSegment(s string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "="))
}
