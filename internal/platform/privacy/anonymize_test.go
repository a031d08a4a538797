package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"ipv4 address", "192.168.1.47", "192.168.1.0"},
		{"ipv4 localhost", "127.0.0.1", "127.0.0.0"},
		{"ipv4-mapped ipv6", "::ffff:203.0.113.9", "203.0.113.0"},
		{"ipv6 address", "2001:db8:85a3::8a2e:370:7334", "2001:db8:85a3::"},
		{"ipv6 loopback", "::1", "::"},
		{"empty", "", "unknown"},
		{"unknown marker", "unknown", "unknown"},
		{"garbage", "not-an-ip", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AnonymizeIP(tt.input))
		})
	}
}

func TestMaskUsername(t *testing.T) {
	assert.Equal(t, "", MaskUsername("  "))
	assert.Equal(t, "a", MaskUsername("a"))
	assert.Equal(t, "a****", MaskUsername("alice"))
	assert.Equal(t, "é**", MaskUsername("éva"))
	assert.Equal(t, "v*******", MaskUsername("verylongusername"))
}

func TestHashKey(t *testing.T) {
	assert.Equal(t, HashKey("93955"), HashKey("93955"))
	assert.NotEqual(t, HashKey("93955"), HashKey("93950"))
	assert.Len(t, HashKey("CA"), 16)
}
