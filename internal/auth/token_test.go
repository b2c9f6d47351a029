package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/vote-service/internal/domain"
)

const testFingerprint = "Mozilla/5.0 (X11; Linux x86_64)"

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newTestTokens(t *testing.T, clock *testClock) *TokenManager {
	t.Helper()
	tokens, err := NewTokenManager("test-signing-key", 360*time.Second, WithClock(clock.Now))
	require.NoError(t, err)
	return tokens
}

func TestIssueAndVerify(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(t, clock)

	session, err := tokens.Issue("user-1", domain.RoleVoter, testFingerprint)
	require.NoError(t, err)
	require.NotEmpty(t, session.Token)
	assert.Equal(t, clock.now.Add(360*time.Second), session.ExpiresAt)

	clock.now = clock.now.Add(time.Minute)
	claims, err := tokens.Verify(session.Token, testFingerprint)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, domain.RoleVoter, claims.Role)
	assert.Equal(t, testFingerprint, claims.Fingerprint)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestVerify_FingerprintMismatch(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(t, clock)

	session, err := tokens.Issue("user-1", domain.RoleVoter, testFingerprint)
	require.NoError(t, err)

	_, err = tokens.Verify(session.Token, "curl/8.5.0")
	require.ErrorIs(t, err, domain.ErrFingerprintMismatch)
}

func TestVerify_ExpiredEvenWithMatchingFingerprint(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(t, clock)

	session, err := tokens.Issue("user-1", domain.RoleVoter, testFingerprint)
	require.NoError(t, err)

	clock.now = clock.now.Add(360*time.Second + time.Second)
	_, err = tokens.Verify(session.Token, testFingerprint)
	require.ErrorIs(t, err, domain.ErrExpiredToken)
	assert.NotErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(t, clock)
	other, err := NewTokenManager("another-key", time.Minute, WithClock(clock.Now))
	require.NoError(t, err)

	session, err := other.Issue("user-1", domain.RoleAdmin, testFingerprint)
	require.NoError(t, err)

	_, err = tokens.Verify(session.Token, testFingerprint)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	tokens := newTestTokens(t, &testClock{now: time.Now()})

	_, err := tokens.Verify("not-a-jwt", testFingerprint)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	clock := &testClock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
	tokens := newTestTokens(t, clock)

	claims := &Claims{
		UserID:      "user-1",
		Role:        domain.RoleAdmin,
		Fingerprint: testFingerprint,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = tokens.Verify(signed, testFingerprint)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestVerify_RequiresExpiry(t *testing.T) {
	tokens := newTestTokens(t, &testClock{now: time.Now()})

	claims := &Claims{UserID: "user-1", Role: domain.RoleAdmin, Fingerprint: testFingerprint}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = tokens.Verify(signed, testFingerprint)
	require.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestNewTokenManager(t *testing.T) {
	_, err := NewTokenManager("", time.Minute)
	require.Error(t, err)

	tokens, err := NewTokenManager("secret", 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, tokens.TTL())
}
