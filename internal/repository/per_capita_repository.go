package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/vertramos/eco-reporte/internal/model"
)

type PerCapitaRepo struct{ DB *sql.DB }

func NewPerCapitaRepo(db *sql.DB) *PerCapitaRepo { return &PerCapitaRepo{DB: db} }

// ExistsForDate reports whether the user already logged a weight for the
// given date. One record per user per day.
func (r *PerCapitaRepo) ExistsForDate(ctx context.Context, userID uint64, date string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM per_capita_records WHERE idUsuario=? AND record_date=? LIMIT 1",
		userID, date).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Create inserts a daily record and returns its id.
func (r *PerCapitaRepo) Create(ctx context.Context, userID uint64, weightKg float64, date string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO per_capita_records (idUsuario, weight_kg, record_date) VALUES (?,?,?)",
		userID, weightKg, date)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Summary holds a user's accumulated totals across all records.
type Summary struct {
	TotalDays     int
	TotalWeightKg float64
}

// ListByUser returns a page of the user's records newest first, the total
// record count, and the all-time summary.
func (r *PerCapitaRepo) ListByUser(ctx context.Context, userID uint64, page, perPage int) ([]model.PerCapitaRecord, int, Summary, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	var s Summary
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(weight_kg),0) FROM per_capita_records WHERE idUsuario=?",
		userID).Scan(&s.TotalDays, &s.TotalWeightKg)
	if err != nil {
		return nil, 0, Summary{}, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, idUsuario, weight_kg, record_date, created_at FROM per_capita_records WHERE idUsuario=? ORDER BY record_date DESC LIMIT ? OFFSET ?",
		userID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, Summary{}, err
	}
	defer rows.Close()

	var out []model.PerCapitaRecord
	for rows.Next() {
		var (
			rec  model.PerCapitaRecord
			date time.Time // record_date arrives as time.Time under parseTime=true
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.WeightKg, &date, &rec.CreatedAt); err != nil {
			return nil, 0, Summary{}, err
		}
		rec.RecordDate = date.Format(dateLayout)
		out = append(out, rec)
	}
	return out, s.TotalDays, s, rows.Err()
}

// Totals holds the aggregate weights for the admin dashboard.
type Totals struct {
	Daily   float64
	Weekly  float64
	Monthly float64
}

// TotalsAt computes the day/week/month sums relative to the given moment.
// Weeks run Monday through Sunday.
func (r *PerCapitaRepo) TotalsAt(ctx context.Context, now time.Time) (Totals, error) {
	var t Totals
	day := now.Format("2006-01-02")

	// back up to Monday
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	weekStart := now.AddDate(0, 0, -(weekday - 1)).Format("2006-01-02")
	weekEnd := now.AddDate(0, 0, 7-weekday).Format("2006-01-02")

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02")
	monthEnd := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Format("2006-01-02")

	err := r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(weight_kg),0) FROM per_capita_records WHERE record_date=?", day).Scan(&t.Daily)
	if err != nil {
		return Totals{}, err
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(weight_kg),0) FROM per_capita_records WHERE record_date BETWEEN ? AND ?", weekStart, weekEnd).Scan(&t.Weekly)
	if err != nil {
		return Totals{}, err
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(weight_kg),0) FROM per_capita_records WHERE record_date BETWEEN ? AND ?", monthStart, monthEnd).Scan(&t.Monthly)
	if err != nil {
		return Totals{}, err
	}
	return t, nil
}
