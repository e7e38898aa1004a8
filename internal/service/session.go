// Package service coordinates the repositories, token issuing and
// external identity verification behind the HTTP handlers. The session
// service owns the login/refresh/validate/logout lifecycle and enforces
// one active session per user.
package service

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "time"

    "github.com/google/uuid"

    "github.com/vertramos/eco-reporte/internal/auth"
    "github.com/vertramos/eco-reporte/internal/model"
)

// Session failure kinds. Handlers translate each into a distinct HTTP
// status and message.
var (
    ErrInvalidCredentials = errors.New("invalid credentials")
    ErrInactiveAccount    = errors.New("inactive account")
    ErrFederatedAuth      = errors.New("federated authentication failed")
    ErrWrongTokenType     = errors.New("token is not a refresh token")
    ErrUserNotFound       = errors.New("user not found")
    ErrTokenUnauthorized  = errors.New("token not found or unauthorized")
    ErrRefreshExpired     = errors.New("refresh token expired")
    ErrTokenNotFound      = errors.New("refresh token not found")
)

// UserStore is the subset of the user repository the session service
// needs.
type UserStore interface {
    GetByUsername(ctx context.Context, username string) (model.User, error)
    GetByID(ctx context.Context, id uint64) (model.User, error)
    FindOrCreateByEmail(ctx context.Context, email, name, picture string) (model.User, error)
}

// RefreshStore persists outstanding refresh-token records. Replace must
// be atomic: delete-old plus insert-new in one transaction, so a login
// always leaves exactly one live session.
type RefreshStore interface {
    Replace(ctx context.Context, userID uint64, tokenID, ip, userAgent string, expiresAt time.Time) error
    Find(ctx context.Context, tokenID string, userID uint64) (model.RefreshToken, error)
    DeleteByTokenID(ctx context.Context, tokenID string) (bool, error)
}

// IdentityVerifier resolves an opaque provider token into a verified
// identity (Google in production; faked in tests).
type IdentityVerifier interface {
    Verify(ctx context.Context, rawToken string) (auth.GoogleIdentity, error)
}

// SessionConfig carries the signing secret and token lifetimes.
type SessionConfig struct {
    Secret          string
    AccessTTLMin    int
    RefreshTTLDays  int
    RememberTTLDays int
}

// SessionService implements the session state machine: NoSession →
// Active on login; refresh keeps it Active; expiry or logout returns it
// to NoSession. Logging in again replaces the previous session.
type SessionService struct {
    users  UserStore
    tokens RefreshStore
    google IdentityVerifier
    cfg    SessionConfig
}

func NewSessionService(users UserStore, tokens RefreshStore, google IdentityVerifier, cfg SessionConfig) *SessionService {
    return &SessionService{users: users, tokens: tokens, google: google, cfg: cfg}
}

// TokenPair is the result of a successful login: both tokens plus the id
// of the persisted refresh record (returned to clients as
// idRefreshToken).
type TokenPair struct {
    AccessToken  string
    AccessExp    time.Time
    RefreshToken string
    RefreshExp   time.Time
    RefreshID    string
}

// AccessGrant is the result of a refresh: a new access token only — the
// refresh token is not rotated in this flow.
type AccessGrant struct {
    AccessToken string
    ExpiresIn   int64 // seconds until the access token expires
}

// Login verifies a local username/password pair and opens a session.
// The previous session, if any, is invalidated: its refresh record is
// replaced inside one transaction.
func (s *SessionService) Login(ctx context.Context, username, password string, rememberMe bool, ip, userAgent string) (TokenPair, error) {
    u, err := s.users.GetByUsername(ctx, username)
    if err == sql.ErrNoRows {
        return TokenPair{}, ErrInvalidCredentials
    }
    if err != nil {
        return TokenPair{}, fmt.Errorf("lookup user: %w", err)
    }
    // Federated-only accounts hold no password and cannot log in locally.
    if u.PasswordHash == "" || !auth.VerifyPassword(u.PasswordHash, password) {
        return TokenPair{}, ErrInvalidCredentials
    }
    if !u.Active {
        return TokenPair{}, ErrInactiveAccount
    }
    return s.open(ctx, u, rememberMe, ip, userAgent)
}

// GoogleLogin verifies a Google ID token and opens a session for the
// matching local account, creating it on first federated login. The
// session-replacement behavior is identical to Login.
func (s *SessionService) GoogleLogin(ctx context.Context, idToken, ip, userAgent string) (TokenPair, error) {
    identity, err := s.google.Verify(ctx, idToken)
    if err != nil {
        return TokenPair{}, fmt.Errorf("%w: %v", ErrFederatedAuth, err)
    }
    u, err := s.users.FindOrCreateByEmail(ctx, identity.Email, identity.Name, identity.Picture)
    if err != nil {
        return TokenPair{}, fmt.Errorf("resolve federated user: %w", err)
    }
    if !u.Active {
        return TokenPair{}, ErrInactiveAccount
    }
    return s.open(ctx, u, true, ip, userAgent)
}

// open issues an access+refresh pair and atomically swaps the user's
// refresh record for the new one.
func (s *SessionService) open(ctx context.Context, u model.User, rememberMe bool, ip, userAgent string) (TokenPair, error) {
    days := s.cfg.RefreshTTLDays
    if rememberMe {
        days = s.cfg.RememberTTLDays
    }
    tokenID := uuid.NewString()

    access, err := auth.NewAccessToken(s.cfg.Secret, u.ID, u.Role, s.cfg.AccessTTLMin)
    if err != nil {
        return TokenPair{}, fmt.Errorf("issue access token: %w", err)
    }
    refresh, err := auth.NewRefreshToken(s.cfg.Secret, u.ID, u.Role, tokenID, time.Duration(days)*24*time.Hour)
    if err != nil {
        return TokenPair{}, fmt.Errorf("issue refresh token: %w", err)
    }
    if err := s.tokens.Replace(ctx, u.ID, tokenID, ip, userAgent, refresh.Exp); err != nil {
        return TokenPair{}, fmt.Errorf("persist refresh token: %w", err)
    }
    return TokenPair{
        AccessToken:  access.Token,
        AccessExp:    access.Exp,
        RefreshToken: refresh.Token,
        RefreshExp:   refresh.Exp,
        RefreshID:    tokenID,
    }, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh
// token itself is not rotated. Decode failures surface as the auth
// package's error kinds; a non-refresh token fails with
// ErrWrongTokenType before anything is issued.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (AccessGrant, error) {
    claims, err := auth.Decode(s.cfg.Secret, refreshToken)
    if err != nil {
        return AccessGrant{}, err
    }
    if !claims.IsRefresh() {
        return AccessGrant{}, ErrWrongTokenType
    }
    u, err := s.users.GetByID(ctx, claims.UserID)
    if err == sql.ErrNoRows {
        return AccessGrant{}, ErrUserNotFound
    }
    if err != nil {
        return AccessGrant{}, fmt.Errorf("lookup user: %w", err)
    }
    access, err := auth.NewAccessToken(s.cfg.Secret, u.ID, u.Role, s.cfg.AccessTTLMin)
    if err != nil {
        return AccessGrant{}, fmt.Errorf("issue access token: %w", err)
    }
    return AccessGrant{
        AccessToken: access.Token,
        ExpiresIn:   int64(s.cfg.AccessTTLMin) * 60,
    }, nil
}

// ValidateRefreshToken is an out-of-band check of a stored refresh
// record by token id and owner. An expired record is deleted on
// detection, so a subsequent lookup also fails.
func (s *SessionService) ValidateRefreshToken(ctx context.Context, tokenID string, userID uint64) error {
    rec, err := s.tokens.Find(ctx, tokenID, userID)
    if err == sql.ErrNoRows {
        return ErrTokenUnauthorized
    }
    if err != nil {
        return fmt.Errorf("lookup refresh token: %w", err)
    }
    if time.Now().UTC().After(rec.ExpiresAt) {
        // Lazy eviction: the expired record is removed on check rather
        // than by a background sweep.
        if _, err := s.tokens.DeleteByTokenID(ctx, tokenID); err != nil {
            return fmt.Errorf("evict expired token: %w", err)
        }
        return ErrRefreshExpired
    }
    return nil
}

// Logout revokes a session by deleting its refresh record.
// ErrTokenNotFound when no record matches the id.
func (s *SessionService) Logout(ctx context.Context, tokenID string) error {
    deleted, err := s.tokens.DeleteByTokenID(ctx, tokenID)
    if err != nil {
        return fmt.Errorf("delete refresh token: %w", err)
    }
    if !deleted {
        return ErrTokenNotFound
    }
    return nil
}
