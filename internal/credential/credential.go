// Package credential produces and checks salted password hashes.
package credential

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor applied to stored passwords.
const DefaultCost = 10

const maxPasswordBytes = 72

// Hasher hashes and verifies passwords with bcrypt.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher using cost, or DefaultCost when cost is outside
// the range bcrypt accepts.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return Hasher{cost: cost}
}

// Cost reports the configured work factor.
func (h Hasher) Cost() int {
	if h.cost == 0 {
		return DefaultCost
	}
	return h.cost
}

// Hash returns a salted bcrypt hash of plaintext.
func (h Hasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(truncate(plaintext), h.Cost())
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches storedHash. Malformed hashes are
// treated as a mismatch.
func (h Hasher) Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), truncate(plaintext)) == nil
}

// bcrypt only reads the first 72 bytes of its input. Longer passwords are cut
// there rather than rejected, which keeps hashes produced by other bcrypt
// implementations verifiable.
func truncate(plaintext string) []byte {
	b := []byte(plaintext)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

var defaultHasher = NewHasher(DefaultCost)

// Hash hashes plaintext with DefaultCost.
func Hash(plaintext string) (string, error) {
	return defaultHasher.Hash(plaintext)
}

// Verify checks plaintext against storedHash.
func Verify(plaintext, storedHash string) bool {
	return defaultHasher.Verify(plaintext, storedHash)
}
