package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/vertramos/eco-reporte/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `u.idUsuario, u.username, u.name, u.perfil, u.password,
	u.idRol, r.nombre, u.idZona, u.recolectPoints, u.estado, u.created_at, u.updated_at`

// scanUser maps a usuarios row (joined with roles) onto model.User,
// folding the nullable columns into zero values.
func scanUser(row *sql.Row) (model.User, error) {
	var (
		u        model.User
		username sql.NullString
		name     sql.NullString
		perfil   sql.NullString
		password sql.NullString
		zona     sql.NullInt64
	)
	err := row.Scan(&u.ID, &username, &name, &perfil, &password,
		&u.RoleID, &u.Role, &zona, &u.CollectPoints, &u.Active, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	u.Username = username.String
	u.Name = name.String
	u.Profile = perfil.String
	u.PasswordHash = password.String
	u.ZoneID = uint64(zona.Int64)
	return u, nil
}

// GetByUsername fetches a user with its role name resolved, so the token
// issuer never needs a live relationship lookup at signing time.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM usuarios u JOIN roles r ON r.idRol=u.idRol WHERE u.username=? LIMIT 1",
		username)
	return scanUser(row)
}

// GetByID fetches a user by id with its role name resolved.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	row := r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM usuarios u JOIN roles r ON r.idRol=u.idRol WHERE u.idUsuario=? LIMIT 1",
		id)
	return scanUser(row)
}

// FindOrCreateByEmail resolves a federated identity to a local account.
// First Google login creates the user with the default role and active
// status; later logins just return the existing row.
func (r *UserRepo) FindOrCreateByEmail(ctx context.Context, email, name, picture string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := r.GetByUsername(ctx, email)
	if err == nil {
		return u, nil
	}
	if err != sql.ErrNoRows {
		return model.User{}, err
	}
	if name == "" {
		name = "Usuario Google"
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO usuarios (username, name, perfil, idRol, estado) VALUES (?,?,?,?,1)",
		email, name, picture, model.RoleIDUser)
	if err != nil {
		// Concurrent first logins race on the unique username; the loser
		// reads the winner's row.
		if isDuplicate(err) {
			return r.GetByUsername(ctx, email)
		}
		return model.User{}, err
	}
	return r.GetByUsername(ctx, email)
}

// CollectorRow is a collector listing entry with its zone resolved.
type CollectorRow struct {
	ID       uint64
	Username string
	Name     string
	Active   bool
	ZoneID   uint64
	ZoneName string
}

// ListCollectors returns all collector accounts newest first.
func (r *UserRepo) ListCollectors(ctx context.Context) ([]CollectorRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT u.idUsuario, u.username, u.name, u.estado, u.idZona, z.nombre
		 FROM usuarios u LEFT JOIN zonas z ON z.id=u.idZona
		 WHERE u.idRol=? ORDER BY u.created_at DESC`, model.RoleIDCollector)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CollectorRow
	for rows.Next() {
		var (
			c        CollectorRow
			username sql.NullString
			name     sql.NullString
			zona     sql.NullInt64
			zoneName sql.NullString
		)
		if err := rows.Scan(&c.ID, &username, &name, &c.Active, &zona, &zoneName); err != nil {
			return nil, err
		}
		c.Username = username.String
		c.Name = name.String
		c.ZoneID = uint64(zona.Int64)
		c.ZoneName = zoneName.String
		out = append(out, c)
	}
	return out, rows.Err()
}

// CreateCollector inserts a collector account. The zone must not be held
// by another collector and the username must be unique.
func (r *UserRepo) CreateCollector(ctx context.Context, username, name, passwordHash string, zoneID uint64, active bool) (uint64, error) {
	taken, err := r.zoneTaken(ctx, zoneID, 0)
	if err != nil {
		return 0, err
	}
	if taken {
		return 0, ErrZoneTaken
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO usuarios (username, name, password, idRol, idZona, estado, recolectPoints) VALUES (?,?,?,?,?,?,0)",
		username, name, passwordHash, model.RoleIDCollector, zoneID, active)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// UpdateCollector updates a collector account. An empty passwordHash keeps
// the stored password.
func (r *UserRepo) UpdateCollector(ctx context.Context, id uint64, username, name, passwordHash string, zoneID uint64, active bool) error {
	taken, err := r.zoneTaken(ctx, zoneID, id)
	if err != nil {
		return err
	}
	if taken {
		return ErrZoneTaken
	}
	var res sql.Result
	if passwordHash != "" {
		res, err = r.DB.ExecContext(ctx,
			"UPDATE usuarios SET username=?, name=?, password=?, idZona=?, estado=? WHERE idUsuario=? AND idRol=?",
			username, name, passwordHash, zoneID, active, id, model.RoleIDCollector)
	} else {
		res, err = r.DB.ExecContext(ctx,
			"UPDATE usuarios SET username=?, name=?, idZona=?, estado=? WHERE idUsuario=? AND idRol=?",
			username, name, zoneID, active, id, model.RoleIDCollector)
	}
	if err != nil {
		if isDuplicate(err) {
			return ErrUsernameExists
		}
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish "nothing changed" from "no such collector".
		var exists int
		err = r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM usuarios WHERE idUsuario=? AND idRol=? LIMIT 1", id, model.RoleIDCollector).Scan(&exists)
		if err == sql.ErrNoRows {
			return sql.ErrNoRows
		}
		return err
	}
	return nil
}

// UpdateZone assigns a citizen to a collection zone.
func (r *UserRepo) UpdateZone(ctx context.Context, userID, zoneID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE usuarios SET idZona=? WHERE idUsuario=?", zoneID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		err = r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM usuarios WHERE idUsuario=? LIMIT 1", userID).Scan(&exists)
		if err == sql.ErrNoRows {
			return sql.ErrNoRows
		}
		return err
	}
	return nil
}

// Profile returns a user together with its zone name for the profile
// endpoint.
func (r *UserRepo) Profile(ctx context.Context, userID uint64) (model.User, string, error) {
	u, err := r.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, "", err
	}
	var zoneName string
	if u.ZoneID != 0 {
		var zn sql.NullString
		err = r.DB.QueryRowContext(ctx, "SELECT nombre FROM zonas WHERE id=? LIMIT 1", u.ZoneID).Scan(&zn)
		if err != nil && err != sql.ErrNoRows {
			return model.User{}, "", err
		}
		zoneName = zn.String
	}
	return u, zoneName, nil
}

// CountByRole returns the number of users holding the given role.
func (r *UserRepo) CountByRole(ctx context.Context, roleID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM usuarios WHERE idRol=?", roleID).Scan(&n)
	return n, err
}

// CollectorsInZone returns the active collectors assigned to a zone.
func (r *UserRepo) CollectorsInZone(ctx context.Context, zoneID uint64) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT u.idUsuario, u.username, u.name FROM usuarios u
		 WHERE u.idRol=? AND u.idZona=? AND u.estado=1`, model.RoleIDCollector, zoneID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var (
			u        model.User
			username sql.NullString
			name     sql.NullString
		)
		if err := rows.Scan(&u.ID, &username, &name); err != nil {
			return nil, err
		}
		u.Username = username.String
		u.Name = name.String
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepo) zoneTaken(ctx context.Context, zoneID, ignoreUserID uint64) (bool, error) {
	var exists int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM usuarios WHERE idZona=? AND idRol=? AND idUsuario<>? LIMIT 1",
		zoneID, model.RoleIDCollector, ignoreUserID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// isDuplicate detects MySQL duplicate-key violations (error 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
