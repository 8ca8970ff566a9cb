package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost) // MinCost keeps the test fast

	hash, err := h.Hash("s3cret1")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret1", hash, "plaintext never stored")

	assert.True(t, h.Verify(hash, "s3cret1"))
	assert.False(t, h.Verify(hash, "wrong"))
	assert.False(t, h.Verify("not-a-hash", "s3cret1"))
}

func TestJWTIssuer_RoundTrip(t *testing.T) {
	issuer := NewJWTIssuer([]byte("test-secret"), time.Hour)

	token, err := issuer.Issue("admin-42")
	require.NoError(t, err)

	id, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "admin-42", id)
}

func TestJWTIssuer_Expired(t *testing.T) {
	issuer := NewJWTIssuer([]byte("test-secret"), time.Hour)

	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return issued }
	token, err := issuer.Issue("admin-42")
	require.NoError(t, err)

	issuer.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = issuer.Verify(token)
	assert.Error(t, err)
}

func TestJWTIssuer_ForeignSignature(t *testing.T) {
	issuer := NewJWTIssuer([]byte("test-secret"), time.Hour)
	other := NewJWTIssuer([]byte("other-secret"), time.Hour)

	token, err := other.Issue("admin-42")
	require.NoError(t, err)

	_, err = issuer.Verify(token)
	assert.Error(t, err)
}

func TestJWTIssuer_Garbage(t *testing.T) {
	issuer := NewJWTIssuer([]byte("test-secret"), time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.Verify(tok)
		assert.Error(t, err, "token %q", tok)
	}
}
