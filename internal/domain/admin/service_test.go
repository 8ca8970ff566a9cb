package admin

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockAccountRepo struct {
	byID      map[string]*Account
	byEmail   map[string]*Account
	createErr error
	newHash   string
}

func newAccountRepo(accounts ...*Account) *mockAccountRepo {
	m := &mockAccountRepo{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]*Account),
	}
	for _, a := range accounts {
		m.byID[a.ID] = a
		m.byEmail[a.Email] = a
	}
	return m
}

func (m *mockAccountRepo) Create(_ context.Context, a *Account) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.byEmail[a.Email]; ok {
		return ErrDuplicateAccount
	}
	m.byID[a.ID] = a
	m.byEmail[a.Email] = a
	return nil
}

func (m *mockAccountRepo) GetByID(_ context.Context, id string) (*Account, error) {
	a, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockAccountRepo) FindByEmail(_ context.Context, email string) (*Account, error) {
	a, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

func (m *mockAccountRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	m.newHash = hash
	return nil
}

// mockHasher "hashes" by prefixing, which keeps assertions readable.
type mockHasher struct{}

func (mockHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (mockHasher) Verify(hash, password string) bool    { return hash == "hashed:"+password }

type mockTokens struct {
	verifyErr error
}

func (m *mockTokens) Issue(accountID string) (string, error) { return "token-for-" + accountID, nil }

func (m *mockTokens) Verify(token string) (string, error) {
	if m.verifyErr != nil {
		return "", m.verifyErr
	}
	const prefix = "token-for-"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return "", errors.New("malformed token")
	}
	return token[len(prefix):], nil
}

func testAccount() *Account {
	return &Account{
		ID:           "a1",
		Username:     "ops",
		Email:        "ops@finexpress.test",
		PasswordHash: "hashed:s3cret1",
		Role:         RoleAdmin,
	}
}

// --- Tests ---

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account with hashed password", func(t *testing.T) {
		repo := newAccountRepo()
		svc := NewService(repo, mockHasher{}, &mockTokens{}, nil)

		sess, err := svc.Register(ctx, RegisterRequest{
			Username: "ops",
			Email:    "Ops@Finexpress.Test",
			Password: "s3cret1",
		})
		require.NoError(t, err)
		assert.Equal(t, "ops@finexpress.test", sess.Account.Email)
		assert.Equal(t, "hashed:s3cret1", sess.Account.PasswordHash)
		assert.Equal(t, RoleAdmin, sess.Account.Role, "blank role defaults to admin")
		assert.NotEmpty(t, sess.Token)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newAccountRepo(testAccount())
		svc := NewService(repo, mockHasher{}, &mockTokens{}, nil)

		_, err := svc.Register(ctx, RegisterRequest{
			Username: "other",
			Email:    "ops@finexpress.test",
			Password: "s3cret1",
		})
		assert.ErrorIs(t, err, ErrDuplicateAccount)
	})

	t.Run("validation failures", func(t *testing.T) {
		svc := NewService(newAccountRepo(), mockHasher{}, &mockTokens{}, nil)

		cases := []RegisterRequest{
			{Username: "", Email: "a@b.c", Password: "s3cret1"},
			{Username: "ops", Email: "not-an-email", Password: "s3cret1"},
			{Username: "ops", Email: "a@b.c", Password: "short"},
			{Username: "ops", Email: "a@b.c", Password: "s3cret1", Role: "root"},
		}
		for _, req := range cases {
			_, err := svc.Register(ctx, req)
			var ve *ValidationError
			assert.True(t, errors.As(err, &ve), "request %+v", req)
		}
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		svc := NewService(newAccountRepo(testAccount()), mockHasher{}, &mockTokens{}, nil)

		sess, err := svc.Login(ctx, "ops@finexpress.test", "s3cret1")
		require.NoError(t, err)
		assert.Equal(t, "a1", sess.Account.ID)
		assert.Equal(t, "token-for-a1", sess.Token)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		svc := NewService(newAccountRepo(testAccount()), mockHasher{}, &mockTokens{}, nil)

		_, wrongPw := svc.Login(ctx, "ops@finexpress.test", "nope")
		_, unknown := svc.Login(ctx, "ghost@finexpress.test", "s3cret1")

		assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
		assert.ErrorIs(t, unknown, ErrInvalidCredentials)
		assert.Equal(t, wrongPw.Error(), unknown.Error())
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newAccountRepo(testAccount()), mockHasher{}, &mockTokens{}, nil)

	t.Run("valid token resolves account", func(t *testing.T) {
		a, err := svc.Authenticate(ctx, "token-for-a1")
		require.NoError(t, err)
		assert.Equal(t, "ops", a.Username)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "garbage")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("token for deleted account", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "token-for-gone")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("verifies current password", func(t *testing.T) {
		repo := newAccountRepo(testAccount())
		svc := NewService(repo, mockHasher{}, &mockTokens{}, nil)

		require.NoError(t, svc.ChangePassword(ctx, "a1", "s3cret1", "newpass1"))
		assert.Equal(t, "hashed:newpass1", repo.newHash)
	})

	t.Run("rejects wrong current password", func(t *testing.T) {
		svc := NewService(newAccountRepo(testAccount()), mockHasher{}, &mockTokens{}, nil)
		assert.ErrorIs(t, svc.ChangePassword(ctx, "a1", "wrong", "newpass1"), ErrInvalidCredentials)
	})
}

func TestRoleCanManage(t *testing.T) {
	assert.True(t, RoleAdmin.CanManage())
	assert.True(t, RoleSuperadmin.CanManage())
	assert.False(t, Role("viewer").CanManage())
}
