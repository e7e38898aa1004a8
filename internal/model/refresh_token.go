package model

import "time"

// RefreshToken mirrors the `refresh_tokens` table: one persisted
// record per outstanding refresh token. TokenID is the opaque uuid
// embedded in the refresh JWT's jti claim and returned to clients as
// idRefreshToken. At most one active record exists per user; logging
// in replaces any previous record.
type RefreshToken struct {
	TokenID   string    // refresh_tokens.idToken (uuid)
	UserID    uint64    // refresh_tokens.idUsuario
	IP        string    // refresh_tokens.ip
	UserAgent string    // refresh_tokens.user_agent
	ExpiresAt time.Time // refresh_tokens.expires_at
	CreatedAt time.Time // refresh_tokens.created_at
}
