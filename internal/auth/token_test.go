package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozenService(secret string, at time.Time) *TokenService {
	ts := NewTokenService(secret)
	ts.now = func() time.Time { return at }
	return ts
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	ts := NewTokenService("test-secret")

	token, err := ts.Issue("user-123", false)
	require.NoError(t, err)

	subject, err := ts.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)
}

func TestVerifyExpired(t *testing.T) {
	start := time.Now()
	ts := frozenService("test-secret", start)

	token, err := ts.Issue("user-123", false)
	require.NoError(t, err)

	ts.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRememberMeStretchesExpiry(t *testing.T) {
	start := time.Now()
	ts := frozenService("test-secret", start)

	long, err := ts.Issue("user-123", true)
	require.NoError(t, err)
	short, err := ts.Issue("user-123", false)
	require.NoError(t, err)

	// Six days in: the rememberMe token still verifies, the default one
	// expired five days and twenty-three hours ago.
	ts.now = func() time.Time { return start.Add(6 * 24 * time.Hour) }

	subject, err := ts.Verify(long)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)

	_, err = ts.Verify(short)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// Past seven days even the rememberMe token dies.
	ts.now = func() time.Time { return start.Add(8 * 24 * time.Hour) }
	_, err = ts.Verify(long)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := NewTokenService("secret-a").Issue("user-123", false)
	require.NoError(t, err)

	_, err = NewTokenService("secret-b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMalformed(t *testing.T) {
	ts := NewTokenService("test-secret")
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := ts.Verify(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", tok)
	}
}

func TestVerifyEmptySubject(t *testing.T) {
	ts := NewTokenService("test-secret")
	token, err := ts.Issue("", false)
	require.NoError(t, err)

	_, err = ts.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
