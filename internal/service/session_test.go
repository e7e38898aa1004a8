package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vertramos/eco-reporte/internal/auth"
	"github.com/vertramos/eco-reporte/internal/model"
)

const testSecret = "session-test-secret"

func testConfig() SessionConfig {
	return SessionConfig{
		Secret:          testSecret,
		AccessTTLMin:    15,
		RefreshTTLDays:  7,
		RememberTTLDays: 30,
	}
}

func activeUser(t *testing.T, id uint64, username, password, role string) model.User {
	t.Helper()
	hash, err := auth.HashPassword(password, bcrypt.MinCost)
	require.NoError(t, err)
	return model.User{
		ID:           id,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
}

func newSession(users *fakeUserStore, tokens *fakeRefreshStore, verifier IdentityVerifier) *SessionService {
	if verifier == nil {
		verifier = &fakeVerifier{err: errors.New("verifier not configured")}
	}
	return NewSessionService(users, tokens, verifier, testConfig())
}

func TestLoginIssuesTokenPairAndPersistsRecord(t *testing.T) {
	alice := activeUser(t, 1, "alice", "secret123", model.RoleUser)
	tokens := newFakeRefreshStore()
	svc := newSession(newFakeUserStore(alice), tokens, nil)

	pair, err := svc.Login(context.Background(), "alice", "secret123", false, "10.0.0.1", "test-agent")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEmpty(t, pair.RefreshID)

	// access token decodes with the pre-resolved role
	claims, err := auth.Decode(testSecret, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.UserID)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.False(t, claims.IsRefresh())

	// refresh token carries the persisted record id
	claims, err = auth.Decode(testSecret, pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, claims.IsRefresh())
	assert.Equal(t, pair.RefreshID, claims.TokenID)

	rec, err := tokens.Find(context.Background(), pair.RefreshID, 1)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", rec.IP)
	assert.Equal(t, "test-agent", rec.UserAgent)
}

func TestLoginWrongPassword(t *testing.T) {
	alice := activeUser(t, 1, "alice", "secret123", model.RoleUser)
	svc := newSession(newFakeUserStore(alice), newFakeRefreshStore(), nil)

	_, err := svc.Login(context.Background(), "alice", "wrong", false, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc := newSession(newFakeUserStore(), newFakeRefreshStore(), nil)

	_, err := svc.Login(context.Background(), "nobody", "secret123", false, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	bob := activeUser(t, 2, "bob", "secret123", model.RoleUser)
	bob.Active = false
	svc := newSession(newFakeUserStore(bob), newFakeRefreshStore(), nil)

	_, err := svc.Login(context.Background(), "bob", "secret123", false, "", "")
	assert.ErrorIs(t, err, ErrInactiveAccount)
}

func TestLoginFederatedOnlyAccountHasNoLocalPassword(t *testing.T) {
	federated := model.User{ID: 3, Username: "fed@example.com", Role: model.RoleUser, Active: true}
	svc := newSession(newFakeUserStore(federated), newFakeRefreshStore(), nil)

	_, err := svc.Login(context.Background(), "fed@example.com", "", false, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSecondLoginReplacesSession(t *testing.T) {
	alice := activeUser(t, 1, "alice", "secret123", model.RoleUser)
	tokens := newFakeRefreshStore()
	svc := newSession(newFakeUserStore(alice), tokens, nil)

	first, err := svc.Login(context.Background(), "alice", "secret123", false, "", "")
	require.NoError(t, err)
	second, err := svc.Login(context.Background(), "alice", "secret123", false, "", "")
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshID, second.RefreshID)

	// the first session's record is gone
	err = svc.ValidateRefreshToken(context.Background(), first.RefreshID, 1)
	assert.ErrorIs(t, err, ErrTokenUnauthorized)

	// the second one is live
	assert.NoError(t, svc.ValidateRefreshToken(context.Background(), second.RefreshID, 1))
}

func TestGoogleLoginCreatesAccountOnFirstLogin(t *testing.T) {
	users := newFakeUserStore()
	tokens := newFakeRefreshStore()
	verifier := &fakeVerifier{identity: auth.GoogleIdentity{
		Email: "nueva@example.com",
		Name:  "Nueva Usuaria",
	}}
	svc := newSession(users, tokens, verifier)

	pair, err := svc.GoogleLogin(context.Background(), "provider-token", "1.2.3.4", "agent")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)

	u, err := users.GetByUsername(context.Background(), "nueva@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, u.Role)
	assert.True(t, u.Active)

	_, err = tokens.Find(context.Background(), pair.RefreshID, u.ID)
	assert.NoError(t, err)
}

func TestGoogleLoginVerifierFailure(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("bad token")}
	svc := newSession(newFakeUserStore(), newFakeRefreshStore(), verifier)

	_, err := svc.GoogleLogin(context.Background(), "junk", "", "")
	assert.ErrorIs(t, err, ErrFederatedAuth)
}

func TestGoogleLoginInactiveAccount(t *testing.T) {
	existing := model.User{ID: 9, Username: "off@example.com", Role: model.RoleUser, Active: false}
	verifier := &fakeVerifier{identity: auth.GoogleIdentity{Email: "off@example.com"}}
	svc := newSession(newFakeUserStore(existing), newFakeRefreshStore(), verifier)

	_, err := svc.GoogleLogin(context.Background(), "provider-token", "", "")
	assert.ErrorIs(t, err, ErrInactiveAccount)
}

func TestRefreshReturnsNewAccessTokenOnly(t *testing.T) {
	alice := activeUser(t, 1, "alice", "secret123", model.RoleUser)
	svc := newSession(newFakeUserStore(alice), newFakeRefreshStore(), nil)

	pair, err := svc.Login(context.Background(), "alice", "secret123", false, "", "")
	require.NoError(t, err)

	grant, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(15*60), grant.ExpiresIn)

	claims, err := auth.Decode(testSecret, grant.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), claims.UserID)
	assert.False(t, claims.IsRefresh())
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	alice := activeUser(t, 1, "alice", "secret123", model.RoleUser)
	svc := newSession(newFakeUserStore(alice), newFakeRefreshStore(), nil)

	pair, err := svc.Login(context.Background(), "alice", "secret123", false, "", "")
	require.NoError(t, err)

	// the access token must never pass where a refresh token is required
	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestRefreshExpiredToken(t *testing.T) {
	svc := newSession(newFakeUserStore(), newFakeRefreshStore(), nil)

	expired, err := auth.NewRefreshToken(testSecret, 1, model.RoleUser, "id", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), expired.Token)
	assert.ErrorIs(t, err, auth.ErrTokenExpired)
}

func TestRefreshUnknownSubject(t *testing.T) {
	svc := newSession(newFakeUserStore(), newFakeRefreshStore(), nil)

	tok, err := auth.NewRefreshToken(testSecret, 404, model.RoleUser, "id", time.Hour)
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), tok.Token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestValidateRefreshTokenEvictsExpiredRecord(t *testing.T) {
	tokens := newFakeRefreshStore()
	require.NoError(t, tokens.Replace(context.Background(), 1, "stale-id", "", "", time.Now().Add(-time.Hour)))
	svc := newSession(newFakeUserStore(), tokens, nil)

	err := svc.ValidateRefreshToken(context.Background(), "stale-id", 1)
	assert.ErrorIs(t, err, ErrRefreshExpired)

	// lazy eviction: the record is gone, so a second check fails differently
	err = svc.ValidateRefreshToken(context.Background(), "stale-id", 1)
	assert.ErrorIs(t, err, ErrTokenUnauthorized)
}

func TestValidateRefreshTokenWrongOwner(t *testing.T) {
	tokens := newFakeRefreshStore()
	require.NoError(t, tokens.Replace(context.Background(), 1, "id-1", "", "", time.Now().Add(time.Hour)))
	svc := newSession(newFakeUserStore(), tokens, nil)

	err := svc.ValidateRefreshToken(context.Background(), "id-1", 2)
	assert.ErrorIs(t, err, ErrTokenUnauthorized)
}

func TestLogout(t *testing.T) {
	tokens := newFakeRefreshStore()
	require.NoError(t, tokens.Replace(context.Background(), 1, "live-id", "", "", time.Now().Add(time.Hour)))
	svc := newSession(newFakeUserStore(), tokens, nil)

	require.NoError(t, svc.Logout(context.Background(), "live-id"))

	// the record is gone afterwards
	err := svc.ValidateRefreshToken(context.Background(), "live-id", 1)
	assert.ErrorIs(t, err, ErrTokenUnauthorized)

	// a second logout with the same id finds nothing
	assert.ErrorIs(t, svc.Logout(context.Background(), "live-id"), ErrTokenNotFound)
}
