package handler // collaboration-facing editor endpoints

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// Cursor handles POST /v1/salas/:sala_id/editor/cursor.  Cursor positions
// are transient: they go out over the channel and are never persisted.
func (h *EditorHandler) Cursor(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    s := ed.Session()
    if s == nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "collaboration not available"})
    }
    var body struct {
        X float64 `json:"x"`
        Y float64 `json:"y"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    s.PublishCursor(c.Request().Context(), body.X, body.Y)
    return c.JSON(http.StatusOK, echo.Map{"sent": true})
}

// Cursors handles GET /v1/salas/:sala_id/editor/cursors and returns the
// last known cursor of every other participant.
func (h *EditorHandler) Cursors(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    s := ed.Session()
    if s == nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "collaboration not available"})
    }
    return c.JSON(http.StatusOK, echo.Map{"cursors": s.Cursors()})
}

// SendChat handles POST /v1/salas/:sala_id/editor/chat.
func (h *EditorHandler) SendChat(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    s := ed.Session()
    if s == nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "collaboration not available"})
    }
    var body struct {
        Text string `json:"text"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Text == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
    }
    s.PublishChat(c.Request().Context(), body.Text)
    return c.JSON(http.StatusOK, echo.Map{"sent": true})
}

// ChatLog handles GET /v1/salas/:sala_id/editor/chat and returns the
// transient in-session chat log.
func (h *EditorHandler) ChatLog(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    s := ed.Session()
    if s == nil {
        return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "collaboration not available"})
    }
    return c.JSON(http.StatusOK, echo.Map{"messages": s.Chat()})
}
