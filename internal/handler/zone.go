package handler // zone catalog endpoints

import (
    "errors"
    "net/http"
    "strings"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"

    "github.com/entradix/seatmap-editor/internal/model"
    "github.com/entradix/seatmap-editor/internal/repository"
)

// ZoneHandler manages the per-room zone catalog (pricing areas).  The
// catalog lives in its own table; maps reference zones by id and pick up
// renames and recolors on their next open.
type ZoneHandler struct {
    ZoneRepo *repository.ZoneRepo
}

// NewZoneHandler constructs a ZoneHandler.
func NewZoneHandler(zoneRepo *repository.ZoneRepo) *ZoneHandler {
    return &ZoneHandler{ZoneRepo: zoneRepo}
}

// List handles GET /v1/salas/:sala_id/zonas.
func (h *ZoneHandler) List(c echo.Context) error {
    zones, err := h.ZoneRepo.FetchZonesForRoom(c.Request().Context(), c.Param("sala_id"))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    if zones == nil {
        zones = []model.Zone{}
    }
    return c.JSON(http.StatusOK, echo.Map{"zonas": zones})
}

// Create handles POST /v1/salas/:sala_id/zonas.
func (h *ZoneHandler) Create(c echo.Context) error {
    var body struct {
        Name  string `json:"name"`
        Color string `json:"color"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Name = strings.TrimSpace(body.Name)
    if body.Name == "" || body.Color == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and color are required"})
    }
    z := &model.Zone{ID: uuid.NewString(), Name: body.Name, Color: body.Color}
    if err := h.ZoneRepo.Create(c.Request().Context(), c.Param("sala_id"), z); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create zone"})
    }
    return c.JSON(http.StatusCreated, z)
}

// Update handles PUT /v1/zonas/:id.
func (h *ZoneHandler) Update(c echo.Context) error {
    var body struct {
        Name  string `json:"name"`
        Color string `json:"color"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Name = strings.TrimSpace(body.Name)
    if body.Name == "" || body.Color == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and color are required"})
    }
    z := &model.Zone{ID: c.Param("id"), Name: body.Name, Color: body.Color}
    if err := h.ZoneRepo.Update(c.Request().Context(), z); err != nil {
        if errors.Is(err, repository.ErrZoneNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, z)
}

// Delete handles DELETE /v1/zonas/:id.
func (h *ZoneHandler) Delete(c echo.Context) error {
    if err := h.ZoneRepo.Delete(c.Request().Context(), c.Param("id")); err != nil {
        if errors.Is(err, repository.ErrZoneNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "zone not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}
