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

func TestPerCapitaRepoListByUserFormatsDateColumn(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*), COALESCE(SUM(weight_kg),0) FROM per_capita_records WHERE idUsuario=?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "sum"}).AddRow(2, 3.5))

	// record_date is a DATE column: time.Time under parseTime=true.
	rows := sqlmock.NewRows([]string{"id", "idUsuario", "weight_kg", "record_date", "created_at"}).
		AddRow(uint64(2), uint64(7), 1.5, time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), time.Now()).
		AddRow(uint64(1), uint64(7), 2.0, time.Date(2025, 8, 29, 0, 0, 0, 0, time.UTC), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, idUsuario, weight_kg, record_date, created_at FROM per_capita_records WHERE idUsuario=? ORDER BY record_date DESC LIMIT ? OFFSET ?")).
		WithArgs(uint64(7), 10, 0).
		WillReturnRows(rows)

	repo := NewPerCapitaRepo(db)
	out, total, summary, err := repo.ListByUser(context.Background(), 7, 1, 10)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "2025-08-30", out[0].RecordDate)
	assert.Equal(t, "2025-08-29", out[1].RecordDate)
	assert.Equal(t, 2, total)
	assert.Equal(t, 3.5, summary.TotalWeightKg)
	assert.NoError(t, mock.ExpectationsWereMet())
}
