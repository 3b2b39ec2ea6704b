package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Loads .env files into the environment
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/entradix/seatmap-editor/internal/config"   // Internal config loader
	"github.com/entradix/seatmap-editor/internal/database" // MySQL connection helper
	"github.com/entradix/seatmap-editor/internal/handler"  // HTTP handlers
	"github.com/entradix/seatmap-editor/internal/queue"    // map.saved consumer
	"github.com/entradix/seatmap-editor/internal/repository"
	"github.com/entradix/seatmap-editor/internal/router" // Internal router setup
)

func main() {
	// A missing .env is fine in production where the environment is
	// provided by the orchestrator.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: without it the editor runs single-user, the
	// response cache and rate limiter switch off.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; collaboration, cache and rate limiting disabled")
	}

	mapRepo := repository.NewMapRepo(db)
	zoneRepo := repository.NewZoneRepo(db)

	e := echo.New()
	router.RegisterRoutes(e) // health check
	router.RegisterEditor(e, handler.NewEditorHandler(mapRepo, zoneRepo, rdb, cfg), rdb, cfg.JWTSecret)
	router.RegisterMaps(e, handler.NewMapHandler(mapRepo), handler.NewZoneHandler(zoneRepo), rdb, cfg.JWTSecret)

	// Background consumer that appends map.saved events to logs/mapas.log.
	// It reconnects on broker failures and never takes the server down.
	go func() {
		if err := queue.StartMapSavedConsumer(); err != nil {
			log.Printf("map-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
