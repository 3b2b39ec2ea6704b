package handler // handler package contains the HTTP layer of the map editor

import (
    "context"
    "net/http"
    "sync"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/entradix/seatmap-editor/internal/collab"
    "github.com/entradix/seatmap-editor/internal/config"
    "github.com/entradix/seatmap-editor/internal/editor"
    "github.com/entradix/seatmap-editor/internal/middleware"
    "github.com/entradix/seatmap-editor/internal/model"
    "github.com/entradix/seatmap-editor/internal/queue"
    "github.com/entradix/seatmap-editor/internal/repository"
    queuepub "github.com/entradix/seatmap-editor/internal/service"
)

// EditorHandler owns the live editor sessions.  One session exists per
// (sala, actor) pair: every actor gets their own editor whose scene
// converges with the others through the Redis channel.  Sessions are
// created by Open and torn down by Close; everything in between resolves
// the session from the request identity.
type EditorHandler struct {
    MapRepo  *repository.MapRepo
    ZoneRepo *repository.ZoneRepo
    Redis    *redis.Client // nil disables collaboration
    Cfg      config.Config

    mu       sync.Mutex
    sessions map[string]*editor.Editor
}

// NewEditorHandler constructs the handler with its collaborators.
func NewEditorHandler(mapRepo *repository.MapRepo, zoneRepo *repository.ZoneRepo, rdb *redis.Client, cfg config.Config) *EditorHandler {
    return &EditorHandler{
        MapRepo:  mapRepo,
        ZoneRepo: zoneRepo,
        Redis:    rdb,
        Cfg:      cfg,
        sessions: make(map[string]*editor.Editor),
    }
}

// sessionKey scopes sessions per sala and actor so two users editing the
// same room hold independent editors that sync over the channel.
func sessionKey(salaID, actorID string) string {
    return salaID + "|" + actorID
}

// session resolves the caller's open editor or replies 404.
func (h *EditorHandler) session(c echo.Context) (*editor.Editor, error) {
    salaID := c.Param("sala_id")
    actorID, _ := middleware.Actor(c)
    h.mu.Lock()
    ed := h.sessions[sessionKey(salaID, actorID)]
    h.mu.Unlock()
    if ed == nil {
        return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "editor session not open"})
    }
    return ed, nil
}

// stateResponse is the canvas snapshot returned by Open and State.
type stateResponse struct {
    SalaID    string             `json:"sala_id"`
    Mapa      *model.MapDocument `json:"mapa"`
    Selected  []string           `json:"selected"`
    CanUndo   bool               `json:"can_undo"`
    CanRedo   bool               `json:"can_redo"`
    Dirty     bool               `json:"dirty"`
    Warnings  []string           `json:"warnings,omitempty"`
    Presence  []collab.Presence  `json:"presence,omitempty"`
}

func (h *EditorHandler) state(ed *editor.Editor) stateResponse {
    resp := stateResponse{
        SalaID:   ed.RoomID(),
        Mapa:     ed.Document(),
        Selected: ed.SelectedIDs(),
        CanUndo:  ed.CanUndo(),
        CanRedo:  ed.CanRedo(),
        Dirty:    ed.Dirty(),
        Warnings: ed.Warnings(),
    }
    if s := ed.Session(); s != nil {
        resp.Presence = s.Participants()
    }
    return resp
}

// Open handles POST /v1/salas/:sala_id/editor/open.  It loads the room's
// map (or starts blank), joins the collaboration channel when Redis is
// available, and returns the initial canvas state.  Opening twice is
// idempotent and returns the existing session.
func (h *EditorHandler) Open(c echo.Context) error {
    salaID := c.Param("sala_id")
    actorID, actorName := middleware.Actor(c)
    key := sessionKey(salaID, actorID)

    h.mu.Lock()
    if ed := h.sessions[key]; ed != nil {
        h.mu.Unlock()
        return c.JSON(http.StatusOK, h.state(ed))
    }
    h.mu.Unlock()

    opts := editor.Options{
        HistoryDepth:  h.Cfg.HistoryDepth,
        AutosaveDelay: time.Duration(h.Cfg.AutosaveDelaySec) * time.Second,
        ActorID:       actorID,
        ActorName:     actorName,
        OnSaved: func(doc *model.MapDocument) {
            ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
            defer cancel()
            _ = queuepub.PublishMapSaved(ctx, queue.MapSavedEvent{
                MapID:        doc.ID,
                SalaID:       doc.SalaID,
                Nombre:       doc.Nombre,
                Estado:       doc.Estado,
                ElementCount: len(doc.Contenido.Elementos),
                ZoneCount:    len(doc.Contenido.Zonas),
                ActorID:      actorID,
                SavedAt:      time.Now().UTC().Format(time.RFC3339),
            })
        },
    }
    if h.Redis != nil {
        opts.Channel = collab.NewRedisChannel(h.Redis)
    }

    ed, err := editor.Open(c.Request().Context(), salaID, h.MapRepo, h.ZoneRepo, opts)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not open editor"})
    }

    h.mu.Lock()
    // A concurrent Open for the same key may have won the race; prefer
    // the registered session and discard ours.
    if existing := h.sessions[key]; existing != nil {
        h.mu.Unlock()
        ed.Close()
        return c.JSON(http.StatusOK, h.state(existing))
    }
    h.sessions[key] = ed
    h.mu.Unlock()

    return c.JSON(http.StatusOK, h.state(ed))
}

// Close handles POST /v1/salas/:sala_id/editor/close.  Pending edits are
// flushed before the session is discarded.
func (h *EditorHandler) Close(c echo.Context) error {
    salaID := c.Param("sala_id")
    actorID, _ := middleware.Actor(c)
    key := sessionKey(salaID, actorID)

    h.mu.Lock()
    ed := h.sessions[key]
    delete(h.sessions, key)
    h.mu.Unlock()
    if ed == nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "editor session not open"})
    }
    if ed.Dirty() {
        _ = ed.Save(c.Request().Context())
    }
    ed.Close()
    return c.JSON(http.StatusOK, echo.Map{"closed": true})
}

// State handles GET /v1/salas/:sala_id/editor/state.
func (h *EditorHandler) State(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    return c.JSON(http.StatusOK, h.state(ed))
}

// Save handles POST /v1/salas/:sala_id/editor/save, the explicit save
// button.  Autosave keeps running regardless.
func (h *EditorHandler) Save(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    if err := ed.Save(c.Request().Context()); err != nil {
        // The in-memory scene is untouched; the client may retry.
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "could not save map", "retryable": true})
    }
    return c.JSON(http.StatusOK, echo.Map{"saved": true})
}

// Undo handles POST /v1/salas/:sala_id/editor/undo.
func (h *EditorHandler) Undo(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    if !ed.Undo() {
        return c.JSON(http.StatusConflict, echo.Map{"error": "nothing to undo"})
    }
    return c.JSON(http.StatusOK, h.state(ed))
}

// Redo handles POST /v1/salas/:sala_id/editor/redo.
func (h *EditorHandler) Redo(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    if !ed.Redo() {
        return c.JSON(http.StatusConflict, echo.Map{"error": "nothing to redo"})
    }
    return c.JSON(http.StatusOK, h.state(ed))
}

// SetEstado handles PUT /v1/salas/:sala_id/editor/estado and flips the
// map between borrador and active.  Owner only; enforced in the router.
func (h *EditorHandler) SetEstado(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        Estado string `json:"estado"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Estado != model.EstadoBorrador && body.Estado != model.EstadoActive {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado must be borrador or active"})
    }
    ed.SetEstado(body.Estado)
    if err := ed.Save(c.Request().Context()); err != nil {
        return c.JSON(http.StatusBadGateway, echo.Map{"error": "could not save map"})
    }
    return c.JSON(http.StatusOK, echo.Map{"estado": body.Estado})
}
