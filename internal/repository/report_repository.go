package repository

import (
	"context"
	"database/sql"

	"github.com/vertramos/eco-reporte/internal/model"
)

// dateLayout formats DATE columns for API responses. With parseTime=true
// the driver hands DATE values over as time.Time, so they must be
// reformatted instead of scanned straight into strings.
const dateLayout = "2006-01-02"

type ReportRepo struct{ DB *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

const reportColumns = "id, idUsuario, description, image_url, latitude, longitude, status, fecha, hora, created_at, updated_at"

func scanReport(rows *sql.Rows) (model.Report, error) {
	var (
		rep   model.Report
		img   sql.NullString
		fecha sql.NullTime
	)
	err := rows.Scan(&rep.ID, &rep.UserID, &rep.Description, &img, &rep.Latitude,
		&rep.Longitude, &rep.Status, &fecha, &rep.Hora, &rep.CreatedAt, &rep.UpdatedAt)
	if err != nil {
		return model.Report{}, err
	}
	rep.ImageURL = img.String
	if fecha.Valid {
		rep.Fecha = fecha.Time.Format(dateLayout)
	}
	return rep, nil
}

// Create inserts a report and returns its id. Status starts as pending.
func (r *ReportRepo) Create(ctx context.Context, rep model.Report) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reports (idUsuario, description, image_url, latitude, longitude, status, fecha, hora) VALUES (?,?,?,?,?,?,?,?)",
		rep.UserID, rep.Description, rep.ImageURL, rep.Latitude, rep.Longitude, model.ReportPending, rep.Fecha, rep.Hora)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// HasPending reports whether the user has a pending report. A citizen may
// only hold one open report at a time.
func (r *ReportRepo) HasPending(ctx context.Context, userID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM reports WHERE idUsuario=? AND status=? LIMIT 1",
		userID, model.ReportPending).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByUser returns all reports submitted by a user, newest first.
func (r *ReportRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Report, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reportColumns+" FROM reports WHERE idUsuario=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

// ListAll returns every report, newest first, for the admin view.
func (r *ReportRepo) ListAll(ctx context.Context) ([]model.Report, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+reportColumns+" FROM reports ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReports(rows)
}

func collectReports(rows *sql.Rows) ([]model.Report, error) {
	var out []model.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

// UpdateStatus moves a report through its lifecycle; sql.ErrNoRows when
// the report does not exist.
func (r *ReportRepo) UpdateStatus(ctx context.Context, id uint64, status int) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE reports SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		err = r.DB.QueryRowContext(ctx, "SELECT 1 FROM reports WHERE id=? LIMIT 1", id).Scan(&exists)
		if err == sql.ErrNoRows {
			return sql.ErrNoRows
		}
		return err
	}
	return nil
}

// CountByStatus returns the number of reports in the given status, or the
// total count when status is negative.
func (r *ReportRepo) CountByStatus(ctx context.Context, status int) (int, error) {
	var n int
	if status < 0 {
		err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM reports").Scan(&n)
		return n, err
	}
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reports WHERE status=?", status).Scan(&n)
	return n, err
}
