package service

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

// Reference prefixes. Every reference is PREFIX-XXXXXXXXXXXX (12 upper hex).
const (
	RefPrefixTopup   = "TOPUP"
	RefPrefixPayment = "PAY"
	RefPrefixReceipt = "RCPT"

	publicIDPrefix = "pay_"

	// maxReferenceAttempts bounds regeneration after a unique-key clash.
	maxReferenceAttempts = 5
)

// randomHex returns 2*n upper-case hex characters from crypto/rand.
func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return strings.ToUpper(hex.EncodeToString(b))
}

func newReference(prefix string) string {
	return prefix + "-" + randomHex(6)
}

func newPublicID() string {
	return publicIDPrefix + randomHex(6)
}

func newDeviceSecret() string {
	return randomHex(16)
}
