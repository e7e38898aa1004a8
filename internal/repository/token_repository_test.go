package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepoReplaceIsTransactional(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expires := time.Now().Add(7 * 24 * time.Hour)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE idUsuario=?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens (idToken, idUsuario, ip, user_agent, expires_at) VALUES (?,?,?,?,?)")).
		WithArgs("tok-id", uint64(5), "1.2.3.4", "agent", expires).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	repo := NewTokenRepo(db)
	err = repo.Replace(context.Background(), 5, "tok-id", "1.2.3.4", "agent", expires)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoReplaceRollsBackOnInsertFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE idUsuario=?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO refresh_tokens")).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	repo := NewTokenRepo(db)
	err = repo.Replace(context.Background(), 5, "tok-id", "", "", time.Now())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoFind(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"idToken", "idUsuario", "ip", "user_agent", "expires_at", "created_at"}).
		AddRow("tok-id", uint64(5), "1.2.3.4", "agent", now.Add(time.Hour), now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT idToken, idUsuario, ip, user_agent, expires_at, created_at FROM refresh_tokens WHERE idToken=? AND idUsuario=? LIMIT 1")).
		WithArgs("tok-id", uint64(5)).
		WillReturnRows(rows)

	repo := NewTokenRepo(db)
	rec, err := repo.Find(context.Background(), "tok-id", 5)
	require.NoError(t, err)
	assert.Equal(t, "tok-id", rec.TokenID)
	assert.Equal(t, uint64(5), rec.UserID)
	assert.Equal(t, "1.2.3.4", rec.IP)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoDeleteByTokenID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE idToken=?")).
		WithArgs("live").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE idToken=?")).
		WithArgs("gone").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewTokenRepo(db)

	deleted, err := repo.DeleteByTokenID(context.Background(), "live")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.DeleteByTokenID(context.Background(), "gone")
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepoDeleteByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE idUsuario=?")).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	repo := NewTokenRepo(db)
	require.NoError(t, repo.DeleteByUser(context.Background(), 5))
	assert.NoError(t, mock.ExpectationsWereMet())
}
