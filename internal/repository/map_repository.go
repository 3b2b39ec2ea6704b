package repository // repository holds data access logic for domain entities

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"

	"github.com/entradix/seatmap-editor/internal/model"
)

// ErrMapNotFound is returned when a map lookup fails.
var ErrMapNotFound = errors.New("map not found")

// MapRepo provides access to the mapas table. Each row stores one full
// seating map document; the scene itself lives in the contenido JSON
// column and is never decomposed into relational rows.
type MapRepo struct {
	db *sql.DB
}

// NewMapRepo constructs a MapRepo with the given DB handle.
func NewMapRepo(db *sql.DB) *MapRepo {
	return &MapRepo{db: db}
}

// scanDocument reads one mapas row into a document. A contenido column
// that cannot be decoded is logged and left empty so a corrupted map
// opens as a blank canvas instead of failing the whole request.
func scanDocument(row interface{ Scan(...any) error }) (*model.MapDocument, error) {
	var doc model.MapDocument
	var descripcion sql.NullString
	var contenido []byte
	if err := row.Scan(&doc.ID, &doc.Nombre, &descripcion, &doc.SalaID, &doc.Estado, &contenido); err != nil {
		return nil, err
	}
	doc.Descripcion = descripcion.String
	if len(contenido) > 0 {
		if err := json.Unmarshal(contenido, &doc.Contenido); err != nil {
			log.Printf("mapas: map %s has unreadable contenido, opening blank: %v", doc.ID, err)
			doc.Contenido = model.MapContent{Configuracion: model.DefaultConfig()}
		}
	}
	return &doc, nil
}

// GetByID retrieves a map by its primary key. Returns ErrMapNotFound
// when no row exists.
func (r *MapRepo) GetByID(ctx context.Context, id string) (*model.MapDocument, error) {
	const q = `SELECT id, nombre, descripcion, sala_id, estado, contenido FROM mapas WHERE id = ?`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMapNotFound
		}
		return nil, err
	}
	return doc, nil
}

// GetBySala retrieves the map for a room. Rooms hold at most one map;
// should legacy data carry several, the most recently updated one wins.
func (r *MapRepo) GetBySala(ctx context.Context, salaID string) (*model.MapDocument, error) {
	const q = `SELECT id, nombre, descripcion, sala_id, estado, contenido
	           FROM mapas WHERE sala_id = ?
	           ORDER BY updated_at DESC LIMIT 1`
	doc, err := scanDocument(r.db.QueryRowContext(ctx, q, salaID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMapNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Load adapts GetBySala to the editor's persistence contract: a missing
// map is not an error, it means "start with a blank canvas".
func (r *MapRepo) Load(ctx context.Context, roomID string) (*model.MapDocument, error) {
	doc, err := r.GetBySala(ctx, roomID)
	if errors.Is(err, ErrMapNotFound) {
		return nil, nil
	}
	return doc, err
}

// Save upserts the full document. The entire contenido blob is replaced
// on every save; there is no partial update of the scene.
func (r *MapRepo) Save(ctx context.Context, doc *model.MapDocument) error {
	contenido, err := json.Marshal(doc.Contenido)
	if err != nil {
		return err
	}
	const q = `INSERT INTO mapas (id, nombre, descripcion, sala_id, estado, contenido)
	           VALUES (?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	               nombre = VALUES(nombre),
	               descripcion = VALUES(descripcion),
	               estado = VALUES(estado),
	               contenido = VALUES(contenido),
	               updated_at = CURRENT_TIMESTAMP`
	_, err = r.db.ExecContext(ctx, q, doc.ID, doc.Nombre, nullIfEmpty(doc.Descripcion), doc.SalaID, doc.Estado, contenido)
	return err
}

// SetEstado flips the lifecycle state (borrador/active) without touching
// the scene content. Returns ErrMapNotFound when the map does not exist.
func (r *MapRepo) SetEstado(ctx context.Context, id, estado string) error {
	const q = `UPDATE mapas SET estado = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, estado, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMapNotFound
	}
	return nil
}

// Delete removes a map. Active maps are protected; deleting one returns
// ErrConflict so a published seating plan cannot vanish by accident.
func (r *MapRepo) Delete(ctx context.Context, id string) error {
	doc, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if doc.Estado == model.EstadoActive {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, `DELETE FROM mapas WHERE id = ?`, id)
	return err
}

// nullIfEmpty maps "" to SQL NULL for optional text columns.
func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
