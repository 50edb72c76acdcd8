package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokenManager() *TokenManager {
	m := NewTokenManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }
	return m
}

func TestTokenPairRoundTrip(t *testing.T) {
	m := testTokenManager()
	userID := uuid.New()

	pair, err := m.IssuePair(userID)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	got, err := m.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	got, err = m.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	m := testTokenManager()

	pair, err := m.IssuePair(uuid.New())
	require.NoError(t, err)

	_, err = m.ParseAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenFromDifferentSecretRejected(t *testing.T) {
	m := testTokenManager()
	other := NewTokenManager("other-access", "other-refresh", time.Hour, 24*time.Hour)

	pair, err := other.IssuePair(uuid.New())
	require.NoError(t, err)

	_, err = m.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := testTokenManager()

	pair, err := m.IssuePair(uuid.New())
	require.NoError(t, err)

	// advance the clock past the access TTL
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base.Add(2 * time.Hour) }

	_, err = m.ParseAccess(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// the refresh token is still inside its 24h window
	_, err = m.ParseRefresh(pair.RefreshToken)
	assert.NoError(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	m := testTokenManager()

	_, err := m.ParseAccess("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseAccess("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
