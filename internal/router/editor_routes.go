package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/entradix/seatmap-editor/internal/config"
	"github.com/entradix/seatmap-editor/internal/handler"    // editor, map and zone handlers
	"github.com/entradix/seatmap-editor/internal/middleware" // JWT + role + rate limit + cache middlewares
)

// RegisterEditor registers the editing endpoints under /v1.
// All routes require a valid JWT; editing is open to both OWNER and
// EDITOR, while lifecycle changes (estado) are OWNER only.  The token
// bucket limiter wraps the whole group because drag gestures arrive as
// bursts of property writes.
func RegisterEditor(e *echo.Echo, h *handler.EditorHandler, rdb *redis.Client, jwtSecret string) {
	g := e.Group(
		"/v1/salas/:sala_id/editor",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleOwner, middleware.RoleEditor),
		middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	)

	// ---- Session lifecycle ----
	g.POST("/open", h.Open)
	g.POST("/close", h.Close)
	g.GET("/state", h.State)
	g.POST("/save", h.Save)
	g.POST("/undo", h.Undo)
	g.POST("/redo", h.Redo)

	// ---- Elements ----
	g.POST("/tables", h.AddTable)
	g.POST("/texts", h.AddText)
	g.POST("/shapes", h.AddShape)
	g.POST("/tables/:id/chairs", h.GenerateChairs)
	g.PUT("/tables/:id/seat-state", h.SetTableSeatState)
	g.PATCH("/elements/:id", h.UpdateElement)
	g.PUT("/elements/:id/size", h.ResizeElement)
	g.PUT("/elements/:id/rotation", h.RotateElement)
	g.DELETE("/elements/:id", h.DeleteElement)
	g.POST("/duplicate", h.Duplicate)
	g.POST("/copy", h.Copy)
	g.POST("/paste", h.Paste)
	g.PUT("/chairs/seat-state", h.SetSeatState)
	g.POST("/zones/assign", h.AssignZone)
	g.POST("/gesture", h.EndGesture)
	g.POST("/snap", h.SnapToGrid)

	// ---- Connections ----
	g.POST("/connections", h.Connect)
	g.DELETE("/connections", h.RemoveConnections)
	g.POST("/chairs/:id/autoconnect", h.AutoConnect)

	// ---- Selection ----
	g.POST("/selection", h.Select)
	g.POST("/selection/marquee", h.Marquee)
	g.POST("/selection/move", h.MoveSelection)
	g.POST("/selection/delete", h.DeleteSelection)
	g.POST("/selection/scale", h.ScaleSelection)

	// ---- Collaboration ----
	g.POST("/cursor", h.Cursor)
	g.GET("/cursors", h.Cursors)
	g.POST("/chat", h.SendChat)
	g.GET("/chat", h.ChatLog)

	// Estado flips are OWNER only; registered outside the shared group so
	// the stricter role check applies.
	e.PUT("/v1/salas/:sala_id/editor/estado", h.SetEstado,
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleOwner),
	)
}

// RegisterMaps registers the stored-document read side under /v1.  GETs
// go through the response cache: the active map of a room is read by
// every reservation page load but changes only on save.
func RegisterMaps(e *echo.Echo, m *handler.MapHandler, z *handler.ZoneHandler, rdb *redis.Client, jwtSecret string) {
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	// Public read path for the reservation front-end.
	e.GET("/v1/salas/:sala_id/mapa/activo", m.GetActiveBySala, cache)

	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleOwner, middleware.RoleEditor),
	)
	g.GET("/salas/:sala_id/mapa", m.GetBySala)
	g.GET("/salas/:sala_id/zonas", z.List)

	// ---- Zone catalog management (OWNER only) ----
	owner := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleOwner),
	)
	owner.POST("/salas/:sala_id/zonas", z.Create)
	owner.PUT("/zonas/:id", z.Update)
	owner.DELETE("/zonas/:id", z.Delete)
	owner.DELETE("/mapas/:id", m.Delete)
}
