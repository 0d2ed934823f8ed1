package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenManagerIssueAndParse(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	identity := Identity{
		UserID:   42,
		Username: "alice",
		Role:     "student",
		FullName: "Alice Smith",
	}

	token, tokenID, err := manager.Issue(identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, tokenID)

	claims, err := manager.Parse(token)
	require.NoError(t, err)
	require.Equal(t, tokenID, claims.ID)
	require.Equal(t, identity, claims.Identity())
}

func TestTokenManagerRejectsExpiredToken(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Minute)

	issued := time.Now()
	manager.now = func() time.Time { return issued }

	token, _, err := manager.Issue(Identity{UserID: 1, Username: "bob", Role: "teacher"})
	require.NoError(t, err)

	manager.now = func() time.Time { return issued.Add(2 * time.Minute) }

	_, err = manager.Parse(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManagerRejectsForeignSignature(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	token, _, err := issuer.Issue(Identity{UserID: 7, Username: "carol", Role: "student"})
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManagerRejectsGarbage(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	_, err := manager.Parse("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaimsIdentityAdminFlag(t *testing.T) {
	manager := NewTokenManager("test-secret", time.Hour)

	token, _, err := manager.Issue(Identity{UserID: 3, Username: "root", Role: "teacher", IsAdmin: true})
	require.NoError(t, err)

	claims, err := manager.Parse(token)
	require.NoError(t, err)
	require.True(t, claims.Identity().IsAdmin)
}
