package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken indicates the token failed parsing or signature checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken indicates the token is past its expiry.
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the access-token payload carrying the identity context.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"full_name"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Identity reconstructs the identity context carried by the claims.
func (c Claims) Identity() Identity {
	var userID uint
	if c.Subject != "" {
		if parsed, err := parseSubject(c.Subject); err == nil {
			userID = parsed
		}
	}

	return Identity{
		UserID:   userID,
		Username: c.Username,
		Role:     c.Role,
		FullName: c.FullName,
		IsAdmin:  c.IsAdmin,
	}
}

// TokenManager issues and parses signed access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager builds a TokenManager signing with the given HMAC secret.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a new access token for the identity. The returned token id (jti)
// is what the logout denylist keys on.
func (m *TokenManager) Issue(identity Identity) (token string, tokenID string, err error) {
	now := m.now()
	tokenID = uuid.NewString()

	claims := Claims{
		Username: identity.Username,
		Role:     identity.Role,
		FullName: identity.FullName,
		IsAdmin:  identity.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   formatSubject(identity.UserID),
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", "", err
	}

	return signed, tokenID, nil
}

// Parse validates the token string and returns its claims.
func (m *TokenManager) Parse(tokenString string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredToken
		}
		return Claims{}, ErrInvalidToken
	}

	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}

// TTL exposes the configured token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}
