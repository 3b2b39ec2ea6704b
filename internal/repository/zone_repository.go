package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"errors"

	"github.com/entradix/seatmap-editor/internal/model"
)

// ErrZoneNotFound is returned when a zone lookup fails.
var ErrZoneNotFound = errors.New("zone not found")

// ZoneRepo provides access to the zonas table, the pricing-zone catalog
// each room's map draws from. It satisfies the editor's zone.Catalog
// contract through FetchZonesForRoom.
type ZoneRepo struct {
	db *sql.DB
}

// NewZoneRepo constructs a ZoneRepo with the given DB handle.
func NewZoneRepo(db *sql.DB) *ZoneRepo {
	return &ZoneRepo{db: db}
}

// FetchZonesForRoom returns the zones defined for a room, ordered by
// name so pickers render deterministically.
func (r *ZoneRepo) FetchZonesForRoom(ctx context.Context, roomID string) ([]model.Zone, error) {
	const q = `SELECT id, nombre, color FROM zonas WHERE sala_id = ? ORDER BY nombre, id`
	rows, err := r.db.QueryContext(ctx, q, roomID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Zone
	for rows.Next() {
		var z model.Zone
		if err := rows.Scan(&z.ID, &z.Name, &z.Color); err != nil {
			return nil, err
		}
		out = append(out, z)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a single zone. Returns ErrZoneNotFound when no row
// exists.
func (r *ZoneRepo) GetByID(ctx context.Context, id string) (*model.Zone, error) {
	const q = `SELECT id, nombre, color FROM zonas WHERE id = ?`
	var z model.Zone
	err := r.db.QueryRowContext(ctx, q, id).Scan(&z.ID, &z.Name, &z.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrZoneNotFound
		}
		return nil, err
	}
	return &z, nil
}

// Create inserts a zone into a room's catalog.
func (r *ZoneRepo) Create(ctx context.Context, salaID string, z *model.Zone) error {
	const q = `INSERT INTO zonas (id, sala_id, nombre, color) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, z.ID, salaID, z.Name, z.Color)
	return err
}

// Update renames or recolors a zone. Elements already tagged with the
// zone keep their painted color until the map is next edited.
func (r *ZoneRepo) Update(ctx context.Context, z *model.Zone) error {
	const q = `UPDATE zonas SET nombre = ?, color = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, z.Name, z.Color, z.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrZoneNotFound
	}
	return nil
}

// Delete removes a zone from the catalog. Maps referencing the zone are
// not rewritten here; stale tags are dropped when the map is reopened
// and its zone ids are revalidated.
func (r *ZoneRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM zonas WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrZoneNotFound
	}
	return nil
}
