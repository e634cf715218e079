// Package session holds the purchaser-session domain: the identifier token
// that correlates a purchaser's jobs across visits, and the orchestration
// state machine that governs a single monitoring run.
package session

import (
	"math/rand/v2"
	"strings"
)

// IdentifierLength is the fixed length of a purchaser identifier.
const IdentifierLength = 16

// NewIdentifier produces a purchaser identifier of exactly 16 decimal
// digits, each drawn independently and uniformly from 0-9. The token is a
// human-visible session correlator, not a cryptographic nonce; collisions
// are tolerated by the resume logic rather than prevented here.
func NewIdentifier() string {
	var b strings.Builder
	b.Grow(IdentifierLength)
	for i := 0; i < IdentifierLength; i++ {
		b.WriteByte(byte('0' + rand.IntN(10)))
	}
	return b.String()
}

// ValidIdentifier reports whether s has the shape of a purchaser identifier.
func ValidIdentifier(s string) bool {
	if len(s) != IdentifierLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
