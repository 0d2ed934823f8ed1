package security

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher produces and verifies password digests. Implementations must
// be safe for concurrent use.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// BcryptHasher hashes passwords with bcrypt. Verification additionally accepts
// legacy unsalted SHA-256 hex digests so that accounts imported from the old
// system can still sign in; callers should rehash after a legacy match.
type BcryptHasher struct {
	Cost int
}

// NewHasher returns a BcryptHasher with the default cost.
func NewHasher() *BcryptHasher {
	return &BcryptHasher{Cost: bcrypt.DefaultCost}
}

// Hash returns a bcrypt digest of plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

// Verify reports whether plaintext matches the stored digest.
func (h *BcryptHasher) Verify(plaintext, digest string) bool {
	if IsLegacyDigest(digest) {
		return verifyLegacy(plaintext, digest)
	}

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// IsLegacyDigest reports whether digest has the shape of an unsalted SHA-256
// hex digest from the previous system.
func IsLegacyDigest(digest string) bool {
	if len(digest) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(digest)
	return err == nil
}

// LegacyDigest returns the unsalted SHA-256 hex digest used by the previous
// system. Only needed to verify imported rows and in migration tests.
func LegacyDigest(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}

func verifyLegacy(plaintext, digest string) bool {
	computed := LegacyDigest(plaintext)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(digest)) == 1
}
