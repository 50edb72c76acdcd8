package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenManager issues and verifies the HS256 access/refresh token pair. The
// two token kinds are signed with separate secrets so a leaked refresh
// secret cannot mint access tokens and vice versa.
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 7 * 24 * time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 30 * 24 * time.Hour
	}

	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
}

// IssuePair mints a fresh access+refresh pair for the user.
func (m *TokenManager) IssuePair(userID uuid.UUID) (TokenPair, error) {
	const op = "auth.TokenManager.IssuePair"

	access, err := m.sign(userID, m.accessSecret, m.accessTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%s:%w", op, err)
	}

	refresh, err := m.sign(userID, m.refreshSecret, m.refreshTTL)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%s:%w", op, err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ParseAccess verifies an access token and returns the user id it carries.
//
// Returns:
//   - error: auth.ErrInvalidToken for malformed, forged or expired tokens.
func (m *TokenManager) ParseAccess(token string) (uuid.UUID, error) {
	return m.parse(token, m.accessSecret)
}

// ParseRefresh verifies a refresh token and returns the user id it carries.
func (m *TokenManager) ParseRefresh(token string) (uuid.UUID, error) {
	return m.parse(token, m.refreshSecret)
}

func (m *TokenManager) sign(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := m.now()

	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func (m *TokenManager) parse(token string, secret []byte) (uuid.UUID, error) {
	const op = "auth.TokenManager.parse"

	parsed, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return secret, nil
		},
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("%s:%w", op, ErrInvalidToken)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return uuid.Nil, fmt.Errorf("%s:%w", op, ErrInvalidToken)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s:%w", op, ErrInvalidToken)
	}

	return id, nil
}
