package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loader for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/vertramos/eco-reporte/internal/auth"       // Google ID-token verification
	"github.com/vertramos/eco-reporte/internal/config"     // Internal config loader
	"github.com/vertramos/eco-reporte/internal/database"   // MySQL connector and migrations
	"github.com/vertramos/eco-reporte/internal/handler"    // HTTP handlers
	"github.com/vertramos/eco-reporte/internal/middleware" // rate limiting
	"github.com/vertramos/eco-reporte/internal/queue"      // report-created consumer
	"github.com/vertramos/eco-reporte/internal/repository" // DB repositories
	"github.com/vertramos/eco-reporte/internal/router"     // Internal router setup
	"github.com/vertramos/eco-reporte/internal/service"    // session and report services
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("database migrate: %v", err)
	}

	// Redis is optional: without it rate limiting is disabled and
	// collector-location reads fall back to MySQL.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting disabled, location cache disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	zones := repository.NewZoneRepo(db)
	reports := repository.NewReportRepo(db)
	perCapita := repository.NewPerCapitaRepo(db)
	locations := repository.NewLocationRepo(db, rdb)

	sessions := service.NewSessionService(users, tokens,
		auth.NewGoogleVerifier(cfg.GoogleClientID),
		service.SessionConfig{
			Secret:          cfg.JWTSecret,
			AccessTTLMin:    cfg.AccessTTLMin,
			RefreshTTLDays:  cfg.RefreshTTLDays,
			RememberTTLDays: cfg.RememberTTLDays,
		})
	reportSvc := service.NewReportService(reports, cfg.StorageDir, service.PublishReportCreated)

	h := router.Handlers{
		Auth:      handler.NewAuthHandler(sessions),
		Reports:   handler.NewReportHandler(reportSvc, reports),
		Zones:     handler.NewZoneHandler(zones),
		Collector: handler.NewCollectorHandler(users, zones, cfg.BcryptCost),
		PerCapita: handler.NewPerCapitaHandler(perCapita),
		Location:  handler.NewLocationHandler(locations, users),
		User:      handler.NewUserHandler(users, zones),
		Dashboard: handler.NewDashboardHandler(users, reports, perCapita),
	}

	e := echo.New() // Create Echo instance
	e.Static("/storage", cfg.StorageDir)
	router.Register(e, h, cfg.JWTSecret, middleware.NewLoginRateLimit(config.LoadRateLimit(), rdb))

	// Consume report.created events in the background; the consumer
	// reconnects on its own if the broker drops.
	go func() {
		if err := queue.StartReportConsumer(); err != nil {
			log.Printf("report consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
