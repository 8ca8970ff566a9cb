package admin

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const minPasswordLen = 6

// ValidationError reports a missing or malformed registration field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// RegisterRequest holds the input for creating an admin account.
type RegisterRequest struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Session pairs an authenticated account with its signed token.
type Session struct {
	Account *Account
	Token   string
}

// Service implements account registration, login, and token authentication.
type Service struct {
	accounts Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	lg       *zap.Logger
	now      func() time.Time
}

// NewService creates an admin Service.
func NewService(accounts Repository, hasher PasswordHasher, tokens TokenIssuer, lg *zap.Logger) *Service {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Service{
		accounts: accounts,
		hasher:   hasher,
		tokens:   tokens,
		lg:       lg,
		now:      time.Now,
	}
}

// Register validates the request, hashes the password, and stores the new
// account. It returns a ready-to-use session so setup flows can log in the
// fresh account immediately.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if username == "" {
		return nil, &ValidationError{Field: "username", Message: "username is required"}
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, &ValidationError{Field: "email", Message: "a valid email is required"}
	}
	if len(req.Password) < minPasswordLen {
		return nil, &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}
	role, err := ParseRole(req.Role)
	if err != nil {
		return nil, &ValidationError{Field: "role", Message: err.Error()}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	a := &Account{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now(),
	}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(a.ID)
	if err != nil {
		return nil, errors.Wrap(err, "issue token")
	}

	s.lg.Info("admin registered", zap.String("username", a.Username), zap.String("role", string(a.Role)))
	return &Session{Account: a, Token: token}, nil
}

// Login verifies credentials and returns a session. Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	a, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "find account")
	}

	if !s.hasher.Verify(a.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(a.ID)
	if err != nil {
		return nil, errors.Wrap(err, "issue token")
	}

	s.lg.Info("admin logged in", zap.String("username", a.Username))
	return &Session{Account: a, Token: token}, nil
}

// Authenticate resolves a session token to its account. Any verification
// or lookup failure collapses into ErrUnauthorized.
func (s *Service) Authenticate(ctx context.Context, token string) (*Account, error) {
	id, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return a, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *Service) ChangePassword(ctx context.Context, id, current, next string) error {
	a, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(a.PasswordHash, current) {
		return ErrInvalidCredentials
	}
	if len(next) < minPasswordLen {
		return &ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	return s.accounts.UpdatePasswordHash(ctx, id, hash)
}
