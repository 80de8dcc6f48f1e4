package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewReference_Format(t *testing.T) {
	for _, prefix := range []string{RefPrefixTopup, RefPrefixPayment, RefPrefixReceipt} {
		assert.Regexp(t, `^`+prefix+`-[0-9A-F]{12}$`, newReference(prefix))
	}
}

func TestNewPublicID_Format(t *testing.T) {
	assert.Regexp(t, `^pay_[0-9A-F]{12}$`, newPublicID())
}

func TestNewPublicID_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		id := newPublicID()
		_, dup := seen[id]
		assert.False(t, dup, "duplicate public id %s", id)
		seen[id] = struct{}{}
	}
}

func TestNewDeviceSecret_Length(t *testing.T) {
	assert.Len(t, newDeviceSecret(), 32)
}
