// Package auth provides the credential hashing and session token
// implementations behind the admin domain's interfaces.
package auth

import (
	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/finexpress/storefront/internal/domain/admin"
)

var _ admin.PasswordHasher = (*BcryptHasher)(nil)

// BcryptHasher hashes admin passwords with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a hasher with the given cost. A non-positive
// cost falls back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns the salted bcrypt hash of password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt")
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored hash.
func (h *BcryptHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
