package admin

import (
	"context"
	"time"

	"github.com/go-faster/errors"
)

// Role is an admin account's permission level.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// ParseRole validates a role label, defaulting blank input to RoleAdmin.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case "":
		return RoleAdmin, nil
	case RoleAdmin, RoleSuperadmin:
		return Role(s), nil
	}
	return "", errors.Errorf("unknown role %q", s)
}

// CanManage reports whether the role may mutate products and orders.
func (r Role) CanManage() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

var (
	// ErrNotFound is returned when a requested account does not exist.
	ErrNotFound = errors.New("admin account not found")
	// ErrDuplicateAccount is returned when the username or email is taken.
	ErrDuplicateAccount = errors.New("admin with this username or email already exists")
	// ErrInvalidCredentials is returned on login failure. It deliberately
	// does not distinguish an unknown email from a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned for a missing, invalid, or expired token.
	ErrUnauthorized = errors.New("not authorized")
)

// Account is a back-office operator. The password exists only as a salted
// hash from the moment of creation.
type Account struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Repository defines persistence operations for admin accounts.
type Repository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

// PasswordHasher provides one-way hashing and verification of passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// TokenIssuer issues and verifies signed, time-limited session tokens whose
// payload is the account identity.
type TokenIssuer interface {
	Issue(accountID string) (string, error)
	Verify(token string) (accountID string, err error)
}
