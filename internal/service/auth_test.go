package service

import (
	"testing"

	"github.com/d1may/LanguageAPP/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	svc, _ := newTestAuth(t)

	res, err := svc.Register("a@example.com", "alice", "password123")
	require.NoError(t, err)
	assert.NotZero(t, res.ID)
	assert.Equal(t, "alice", res.Username)

	_, err = svc.Register("a@example.com", "other", "password123")
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register("b@example.com", "alice", "password123")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuth(t)
	mustRegister(t, svc, "a@example.com", "alice")

	res, err := svc.Login("a@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, res.Tokens.AccessToken)
	assert.NotEmpty(t, res.Tokens.RefreshToken)

	_, err = svc.Login("a@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_InvalidatesPreviousSession(t *testing.T) {
	svc, gdb := newTestAuth(t)
	mustRegister(t, svc, "a@example.com", "alice")

	first, err := svc.Login("a@example.com", "password123")
	require.NoError(t, err)
	second, err := svc.Login("a@example.com", "password123")
	require.NoError(t, err)

	// Only one ledger row survives the second login.
	var count int64
	require.NoError(t, gdb.Model(&models.RefreshToken{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// The first session's refresh token no longer works.
	_, err = svc.Refresh(first.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// The second one does.
	_, err = svc.Refresh(second.Tokens.RefreshToken)
	assert.NoError(t, err)
}

func TestRefresh_RotationScenario(t *testing.T) {
	svc, _ := newTestAuth(t)
	mustRegister(t, svc, "a@example.com", "alice")

	login, err := svc.Login("a@example.com", "password123")
	require.NoError(t, err)
	r1 := login.Tokens.RefreshToken

	// R1 -> R2: R1 is revoked by the rotation.
	pair2, err := svc.Refresh(r1)
	require.NoError(t, err)
	r2 := pair2.RefreshToken
	require.NotEqual(t, r1, r2)

	// Replaying R1 fails: refresh tokens are single-use.
	_, err = svc.Refresh(r1)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// R2 is good for exactly one more rotation.
	pair3, err := svc.Refresh(r2)
	require.NoError(t, err)
	assert.NotEqual(t, r2, pair3.RefreshToken)

	_, err = svc.Refresh(r2)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestRefresh_RejectsNonRefreshTokens(t *testing.T) {
	svc, _ := newTestAuth(t)
	mustRegister(t, svc, "a@example.com", "alice")

	login, err := svc.Login("a@example.com", "password123")
	require.NoError(t, err)

	// An access token never rotates a session, even with a valid signature.
	_, err = svc.Refresh(login.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Refresh("garbage")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Refresh("")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogout(t *testing.T) {
	svc, _ := newTestAuth(t)
	mustRegister(t, svc, "a@example.com", "alice")

	login, err := svc.Login("a@example.com", "password123")
	require.NoError(t, err)

	svc.Logout(login.Tokens.RefreshToken)

	// The revoked session cannot refresh anymore.
	_, err = svc.Refresh(login.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	// Logout is tolerant: repeated, empty and garbage input are no-ops.
	svc.Logout(login.Tokens.RefreshToken)
	svc.Logout("")
	svc.Logout("garbage")
}

func TestIsRevoked(t *testing.T) {
	svc, _ := newTestAuth(t)
	mustRegister(t, svc, "a@example.com", "alice")

	login, err := svc.Login("a@example.com", "password123")
	require.NoError(t, err)

	// Access tokens are never individually revocable.
	assert.False(t, svc.IsRevoked(login.Tokens.AccessToken))
	// A live refresh token is not revoked.
	assert.False(t, svc.IsRevoked(login.Tokens.RefreshToken))
	// Undecodable input counts as revoked.
	assert.True(t, svc.IsRevoked("garbage"))

	svc.Logout(login.Tokens.RefreshToken)
	assert.True(t, svc.IsRevoked(login.Tokens.RefreshToken))
}
