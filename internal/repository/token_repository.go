package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vertramos/eco-reporte/internal/model"
)

// TokenRepo persists refresh-token records (refresh_tokens table). Each
// record links the opaque token id embedded in the refresh JWT to its
// owning user, the issuing client's IP and user agent, and an expiry.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Replace atomically swaps the user's session: any previous refresh
// records are deleted and the new one inserted inside one transaction, so
// concurrent logins cannot leave two live sessions or drop both.
func (r *TokenRepo) Replace(ctx context.Context, userID uint64, tokenID, ip, userAgent string, expiresAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE idUsuario=?", userID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO refresh_tokens (idToken, idUsuario, ip, user_agent, expires_at) VALUES (?,?,?,?,?)",
		tokenID, userID, ip, userAgent, expiresAt); err != nil {
		return err
	}
	return tx.Commit()
}

// Find returns the record matching both token id and owner, or
// sql.ErrNoRows.
func (r *TokenRepo) Find(ctx context.Context, tokenID string, userID uint64) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT idToken, idUsuario, ip, user_agent, expires_at, created_at FROM refresh_tokens WHERE idToken=? AND idUsuario=? LIMIT 1",
		tokenID, userID).Scan(&t.TokenID, &t.UserID, &t.IP, &t.UserAgent, &t.ExpiresAt, &t.CreatedAt)
	return t, err
}

// DeleteByTokenID removes a record by token id and reports whether a row
// was actually deleted.
func (r *TokenRepo) DeleteByTokenID(ctx context.Context, tokenID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE idToken=?", tokenID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByUser removes all refresh records belonging to a user.
func (r *TokenRepo) DeleteByUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM refresh_tokens WHERE idUsuario=?", userID)
	return err
}
