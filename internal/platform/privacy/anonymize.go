// Package privacy reduces personal data to forms that are safe to log or export.
package privacy

import (
	"crypto/sha256"
	"encoding/hex"
	"net/netip"
	"strings"
	"unicode/utf8"
)

// AnonymizeIP masks an address to its network: /24 for IPv4 and /48 for IPv6.
// Returns "unknown" for empty input and "invalid" for unparseable input.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	addr = addr.Unmap()

	bits := 48
	if addr.Is4() {
		bits = 24
	}
	prefix, err := addr.WithZone("").Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.Addr().String()
}

// MaskUsername keeps the first rune of a username and replaces the rest with '*'.
// Output length is capped so long names do not leak their length.
func MaskUsername(username string) string {
	username = strings.TrimSpace(username)
	if username == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(username)
	rest := utf8.RuneCountInString(username[size:])
	if rest > 7 {
		rest = 7
	}
	return string(first) + strings.Repeat("*", rest)
}

// HashKey returns a short, stable, non-reversible token for a lookup key.
func HashKey(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}
