package handler // element-level editor endpoints

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/entradix/seatmap-editor/internal/layout"
    "github.com/entradix/seatmap-editor/internal/model"
)

// validSeatStates gates the seat state endpoints.
var validSeatStates = map[model.SeatState]bool{
    model.SeatAvailable: true,
    model.SeatSelected:  true,
    model.SeatOccupied:  true,
    model.SeatBlocked:   true,
    model.SeatReserved:  true,
}

// AddTable handles POST /v1/salas/:sala_id/editor/tables.
func (h *EditorHandler) AddTable(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        Shape string  `json:"shape"`
        X     float64 `json:"x"`
        Y     float64 `json:"y"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    id, err := ed.AddTable(c.Request().Context(), model.TableShape(body.Shape), model.Vec2{X: body.X, Y: body.Y})
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// AddText handles POST /v1/salas/:sala_id/editor/texts.
func (h *EditorHandler) AddText(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        Content string  `json:"content"`
        X       float64 `json:"x"`
        Y       float64 `json:"y"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    id, err := ed.AddText(c.Request().Context(), body.Content, model.Vec2{X: body.X, Y: body.Y})
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// AddShape handles POST /v1/salas/:sala_id/editor/shapes.
func (h *EditorHandler) AddShape(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        Kind   string  `json:"kind"`
        X      float64 `json:"x"`
        Y      float64 `json:"y"`
        Width  float64 `json:"width"`
        Height float64 `json:"height"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Kind != string(model.ShapeRect) && body.Kind != string(model.ShapeEllipse) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be rect or ellipse"})
    }
    id, err := ed.AddShape(c.Request().Context(), model.ShapeKind(body.Kind), model.Vec2{X: body.X, Y: body.Y}, body.Width, body.Height)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// GenerateChairs handles POST /v1/salas/:sala_id/editor/tables/:id/chairs.
// Count drives circle and rect tables; hexagon and star tables take the
// per-facet arrays instead.
func (h *EditorHandler) GenerateChairs(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        Count    int    `json:"count"`
        PerSide  [6]int `json:"per_side"`
        PerPoint [5]int `json:"per_point"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    chairs, err := ed.GenerateChairs(c.Request().Context(), c.Param("id"), layout.ChairSpec{
        Count:    body.Count,
        PerSide:  body.PerSide,
        PerPoint: body.PerPoint,
    })
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    ids := make([]string, len(chairs))
    for i, ch := range chairs {
        ids[i] = ch.ID
    }
    return c.JSON(http.StatusCreated, echo.Map{"chairs": ids})
}

// UpdateElement handles PATCH /v1/salas/:sala_id/editor/elements/:id with
// a single property write. Live gestures stream these; history is
// recorded separately through EndGesture.
func (h *EditorHandler) UpdateElement(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        Property string `json:"property"`
        Value    any    `json:"value"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Property == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "property is required"})
    }
    if !ed.UpdateProperty(c.Request().Context(), c.Param("id"), body.Property, body.Value) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "element not found or property not applicable"})
    }
    return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// ResizeElement handles PUT /v1/salas/:sala_id/editor/elements/:id/size.
func (h *EditorHandler) ResizeElement(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        Width  float64 `json:"width"`
        Height float64 `json:"height"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if !ed.Resize(c.Request().Context(), c.Param("id"), body.Width, body.Height) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "element not found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// RotateElement handles PUT /v1/salas/:sala_id/editor/elements/:id/rotation.
// Rotating a table swings its chairs along.
func (h *EditorHandler) RotateElement(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        Degrees float64 `json:"degrees"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if !ed.RotateElement(c.Request().Context(), c.Param("id"), body.Degrees) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "element not found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"updated": true})
}

// DeleteElement handles DELETE /v1/salas/:sala_id/editor/elements/:id.
// Deleting a table cascades to its chairs and their connections.
func (h *EditorHandler) DeleteElement(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    if ed.Delete(c.Request().Context(), c.Param("id")) == 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "element not found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"deleted": true})
}

// Duplicate handles POST /v1/salas/:sala_id/editor/duplicate.
func (h *EditorHandler) Duplicate(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        IDs []string `json:"ids"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    created, err := ed.Duplicate(c.Request().Context(), body.IDs)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not duplicate"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"ids": created})
}

// Copy handles POST /v1/salas/:sala_id/editor/copy.
func (h *EditorHandler) Copy(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        IDs []string `json:"ids"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    return c.JSON(http.StatusOK, echo.Map{"copied": ed.Copy(body.IDs)})
}

// Paste handles POST /v1/salas/:sala_id/editor/paste.
func (h *EditorHandler) Paste(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    created, err := ed.Paste(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not paste"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"ids": created})
}

// SetSeatState handles PUT /v1/salas/:sala_id/editor/chairs/seat-state for
// an explicit chair id list.
func (h *EditorHandler) SetSeatState(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        State string   `json:"state"`
        IDs   []string `json:"ids"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    state := model.SeatState(body.State)
    if !validSeatStates[state] {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat state"})
    }
    return c.JSON(http.StatusOK, echo.Map{"updated": ed.SetSeatState(c.Request().Context(), state, body.IDs)})
}

// SetTableSeatState handles PUT /v1/salas/:sala_id/editor/tables/:id/seat-state
// and applies one state to every chair of the table.
func (h *EditorHandler) SetTableSeatState(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        State string `json:"state"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    state := model.SeatState(body.State)
    if !validSeatStates[state] {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat state"})
    }
    return c.JSON(http.StatusOK, echo.Map{"updated": ed.SetTableSeatState(c.Request().Context(), c.Param("id"), state)})
}

// AssignZone handles POST /v1/salas/:sala_id/editor/zones/assign.  An
// empty zone_id clears the assignment.  Tables cascade to their chairs.
func (h *EditorHandler) AssignZone(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        ZoneID string   `json:"zone_id"`
        IDs    []string `json:"ids"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    touched, err := ed.AssignZone(c.Request().Context(), body.ZoneID, body.IDs)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusOK, echo.Map{"touched": touched})
}

// Connect handles POST /v1/salas/:sala_id/editor/connections and creates
// a manual connection between two chairs.
func (h *EditorHandler) Connect(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        Start string `json:"start"`
        End   string `json:"end"`
        Style string `json:"style"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    style := model.ConnectionStyle(body.Style)
    if style == "" {
        style = model.ConnectionSolid
    }
    if style != model.ConnectionSolid && style != model.ConnectionDashed {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "style must be solid or dashed"})
    }
    id, err := ed.Connect(c.Request().Context(), body.Start, body.End, style)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// AutoConnect handles POST /v1/salas/:sala_id/editor/chairs/:id/autoconnect.
func (h *EditorHandler) AutoConnect(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    created, err := ed.AutoConnect(c.Request().Context(), c.Param("id"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    }
    ids := make([]string, len(created))
    for i, cn := range created {
        ids[i] = cn.ID
    }
    return c.JSON(http.StatusCreated, echo.Map{"connections": ids})
}

// RemoveConnections handles DELETE /v1/salas/:sala_id/editor/connections
// and removes every connection touching the given chairs.
func (h *EditorHandler) RemoveConnections(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        ChairIDs []string `json:"chair_ids"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    return c.JSON(http.StatusOK, echo.Map{"removed": ed.RemoveConnections(c.Request().Context(), body.ChairIDs)})
}

// Select handles POST /v1/salas/:sala_id/editor/selection.  A body with an
// id performs a (possibly additive) click; an empty id clears.
func (h *EditorHandler) Select(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        ID       string `json:"id"`
        Additive bool   `json:"additive"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.ID == "" {
        ed.ClearSelection()
    } else {
        ed.Select(body.ID, body.Additive)
    }
    return c.JSON(http.StatusOK, echo.Map{"selected": ed.SelectedIDs()})
}

// Marquee handles POST /v1/salas/:sala_id/editor/selection/marquee.
func (h *EditorHandler) Marquee(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        FromX float64 `json:"from_x"`
        FromY float64 `json:"from_y"`
        ToX   float64 `json:"to_x"`
        ToY   float64 `json:"to_y"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    selected := ed.Marquee(model.Vec2{X: body.FromX, Y: body.FromY}, model.Vec2{X: body.ToX, Y: body.ToY})
    return c.JSON(http.StatusOK, echo.Map{"selected": selected})
}

// MoveSelection handles POST /v1/salas/:sala_id/editor/selection/move.
func (h *EditorHandler) MoveSelection(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        DX float64 `json:"dx"`
        DY float64 `json:"dy"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    ed.MoveSelection(c.Request().Context(), body.DX, body.DY)
    return c.JSON(http.StatusOK, echo.Map{"moved": ed.ResolvedSelection()})
}

// DeleteSelection handles POST /v1/salas/:sala_id/editor/selection/delete.
func (h *EditorHandler) DeleteSelection(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"deleted": ed.DeleteSelection(c.Request().Context())})
}

// ScaleSelection handles POST /v1/salas/:sala_id/editor/selection/scale.
func (h *EditorHandler) ScaleSelection(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        Factor float64 `json:"factor"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Factor <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "factor must be positive"})
    }
    return c.JSON(http.StatusOK, echo.Map{"scaled": ed.ScaleSelection(c.Request().Context(), body.Factor)})
}

// EndGesture handles POST /v1/salas/:sala_id/editor/gesture.  Clients call
// it once when a drag/resize/rotate gesture ends so the whole gesture
// lands as a single undo step.
func (h *EditorHandler) EndGesture(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    var body struct {
        Label string `json:"label"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.Label == "" {
        body.Label = "Editar elementos"
    }
    ed.RecordGesture(body.Label)
    return c.JSON(http.StatusOK, echo.Map{"recorded": true})
}

// SnapToGrid handles POST /v1/salas/:sala_id/editor/snap.
func (h *EditorHandler) SnapToGrid(c echo.Context) error {
    ed, err := h.session(c)
    if ed == nil {
        return err
    }
    return c.JSON(http.StatusOK, echo.Map{"moved": ed.SnapAll(c.Request().Context())})
}
