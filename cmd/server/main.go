package main

import (
	"log"
	"log/slog"
	"os"

	"threadline/internal/router"
	"threadline/pkg/config"

	"github.com/labstack/echo/v4"
)

func main() {
	cfg := config.Load()

	db, err := config.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer config.CloseDB(db)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	e := echo.New()
	router.SetupMiddleware(e)
	router.SetupRoutes(e, db, cfg, logger)

	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
