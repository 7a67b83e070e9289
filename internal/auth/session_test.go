package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignInAndVerify(t *testing.T) {
	m := NewManager("test-secret-key")

	s, token, err := m.SignIn("  Operator@Example.com ")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, "operator@example.com", s.Email)

	got, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, s.Email, got.Email)
	assert.True(t, got.SignedInAt.Equal(s.SignedInAt), "signed-in time %v, want %v", got.SignedInAt, s.SignedInAt)
}

func TestSignInRejectsBadEmail(t *testing.T) {
	m := NewManager("secret")
	for _, email := range []string{"", "not-an-email", "Name <a@b.c>"} {
		_, _, err := m.SignIn(email)
		assert.ErrorIs(t, err, ErrInvalidEmail, "SignIn(%q)", email)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	_, token, err := NewManager("secret1").SignIn("a@example.com")
	require.NoError(t, err)

	_, err = NewManager("secret2").Verify(token)
	assert.Error(t, err)
}

func TestVerifyInvalid(t *testing.T) {
	_, err := NewManager("secret").Verify("not-a-token")
	assert.Error(t, err)
}

func TestSessionExpiry(t *testing.T) {
	m := NewManager("secret")
	start := time.Now()
	m.now = func() time.Time { return start }

	s, token, err := m.SignIn("a@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, start.Add(SessionExpiry), s.ExpiresAt, time.Second)

	m.now = func() time.Time { return start.Add(SessionExpiry + time.Minute) }
	_, err = m.Verify(token)
	assert.Error(t, err, "expired token should be rejected")
}

func TestGenerateSecret(t *testing.T) {
	a, err := GenerateSecret()
	require.NoError(t, err)
	b, err := GenerateSecret()
	require.NoError(t, err)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}
