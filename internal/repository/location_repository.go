package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vertramos/eco-reporte/internal/model"
)

// locationTTL bounds how long a cached collector position is served; a
// collector that stops pushing falls back to the MySQL row.
const locationTTL = 5 * time.Minute

// LocationRepo stores collector positions. MySQL keeps the durable last
// known position (one row per collector); Redis caches the latest push so
// citizen polls avoid hitting the database. Redis may be nil, in which
// case reads and writes go straight to MySQL.
type LocationRepo struct {
	DB  *sql.DB
	RDB *redis.Client
}

func NewLocationRepo(db *sql.DB, rdb *redis.Client) *LocationRepo {
	return &LocationRepo{DB: db, RDB: rdb}
}

type cachedLocation struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	UpdatedAt time.Time `json:"updated_at"`
}

func locationKey(userID uint64) string {
	return fmt.Sprintf("collector:loc:%d", userID)
}

// Upsert records a collector position, replacing any previous row, and
// refreshes the Redis cache. A cache failure is ignored: the durable row
// already holds the position.
func (r *LocationRepo) Upsert(ctx context.Context, userID uint64, lat, lng float64) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO locations (idUsuario, latitude, longitude) VALUES (?,?,?)
		 ON DUPLICATE KEY UPDATE latitude=VALUES(latitude), longitude=VALUES(longitude)`,
		userID, lat, lng)
	if err != nil {
		return err
	}
	if r.RDB != nil {
		payload, err := json.Marshal(cachedLocation{Latitude: lat, Longitude: lng, UpdatedAt: time.Now().UTC()})
		if err == nil {
			_ = r.RDB.Set(ctx, locationKey(userID), payload, locationTTL).Err()
		}
	}
	return nil
}

// Latest returns a collector's newest known position, preferring the
// Redis cache and falling back to the MySQL row. sql.ErrNoRows when the
// collector never pushed a position.
func (r *LocationRepo) Latest(ctx context.Context, userID uint64) (model.Location, error) {
	if r.RDB != nil {
		raw, err := r.RDB.Get(ctx, locationKey(userID)).Bytes()
		if err == nil {
			var c cachedLocation
			if json.Unmarshal(raw, &c) == nil {
				return model.Location{
					UserID:    userID,
					Latitude:  c.Latitude,
					Longitude: c.Longitude,
					UpdatedAt: c.UpdatedAt,
				}, nil
			}
		}
	}

	var loc model.Location
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, idUsuario, latitude, longitude, updated_at FROM locations WHERE idUsuario=? LIMIT 1",
		userID).Scan(&loc.ID, &loc.UserID, &loc.Latitude, &loc.Longitude, &loc.UpdatedAt)
	return loc, err
}
