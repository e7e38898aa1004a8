package repository

import (
	"context"
	"database/sql"

	"github.com/vertramos/eco-reporte/internal/model"
)

type ZoneRepo struct{ DB *sql.DB }

func NewZoneRepo(db *sql.DB) *ZoneRepo { return &ZoneRepo{DB: db} }

// Create inserts a zone and returns its id.
func (r *ZoneRepo) Create(ctx context.Context, name, description string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO zonas (nombre, descripcion) VALUES (?,?)", name, description)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Update modifies a zone; sql.ErrNoRows when the id does not exist.
func (r *ZoneRepo) Update(ctx context.Context, id uint64, name, description string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE zonas SET nombre=?, descripcion=? WHERE id=?", name, description, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		err = r.DB.QueryRowContext(ctx, "SELECT 1 FROM zonas WHERE id=? LIMIT 1", id).Scan(&exists)
		if err == sql.ErrNoRows {
			return sql.ErrNoRows
		}
		return err
	}
	return nil
}

// List returns a page of zones newest first plus the total row count for
// the pagination envelope.
func (r *ZoneRepo) List(ctx context.Context, page, perPage int) ([]model.Zone, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM zonas").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, nombre, descripcion, created_at, updated_at FROM zonas ORDER BY created_at DESC LIMIT ? OFFSET ?",
		perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []model.Zone
	for rows.Next() {
		var (
			z    model.Zone
			desc sql.NullString
		)
		if err := rows.Scan(&z.ID, &z.Name, &desc, &z.CreatedAt, &z.UpdatedAt); err != nil {
			return nil, 0, err
		}
		z.Description = desc.String
		out = append(out, z)
	}
	return out, total, rows.Err()
}

// Exists reports whether a zone id is present.
func (r *ZoneRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, "SELECT 1 FROM zonas WHERE id=? LIMIT 1", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
