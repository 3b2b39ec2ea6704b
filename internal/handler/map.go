package handler // read-side map document endpoints

import (
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/entradix/seatmap-editor/internal/model"
    "github.com/entradix/seatmap-editor/internal/repository"
)

// MapHandler serves stored map documents outside an editing session:
// the reservation front-end reads the active map of a room, and owners
// inspect or delete drafts.
type MapHandler struct {
    MapRepo *repository.MapRepo
}

// NewMapHandler constructs a MapHandler.
func NewMapHandler(mapRepo *repository.MapRepo) *MapHandler {
    return &MapHandler{MapRepo: mapRepo}
}

// GetBySala handles GET /v1/salas/:sala_id/mapa and returns the room's
// stored map document as-is.
func (h *MapHandler) GetBySala(c echo.Context) error {
    doc, err := h.MapRepo.GetBySala(c.Request().Context(), c.Param("sala_id"))
    if err != nil {
        if errors.Is(err, repository.ErrMapNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "map not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, doc)
}

// GetActiveBySala handles GET /v1/salas/:sala_id/mapa/activo, the read
// path used by the public reservation flow. Drafts are not exposed.
func (h *MapHandler) GetActiveBySala(c echo.Context) error {
    doc, err := h.MapRepo.GetBySala(c.Request().Context(), c.Param("sala_id"))
    if err != nil {
        if errors.Is(err, repository.ErrMapNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "map not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if doc.Estado != model.EstadoActive {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no active map for this room"})
    }
    return c.JSON(http.StatusOK, doc)
}

// Delete handles DELETE /v1/mapas/:id.  Active maps cannot be deleted.
func (h *MapHandler) Delete(c echo.Context) error {
    err := h.MapRepo.Delete(c.Request().Context(), c.Param("id"))
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrMapNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "map not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "active maps cannot be deleted"})
        default:
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}
