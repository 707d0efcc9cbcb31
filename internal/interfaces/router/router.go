package router

import (
	authsvc "autovia-backend/internal/application/auth"
	catsvc "autovia-backend/internal/application/catalog"
	"autovia-backend/internal/config"
	"autovia-backend/internal/infrastructure/database"
	"autovia-backend/internal/infrastructure/storage"
	adminhandler "autovia-backend/internal/interfaces/handlers/admin"
	authhandler "autovia-backend/internal/interfaces/handlers/auth"
	cataloghandler "autovia-backend/internal/interfaces/handlers/catalog"
	healthhandler "autovia-backend/internal/interfaces/handlers/health"
	"autovia-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// dbPinger adapts the GORM connection to the health check.
type dbPinger struct{ db *gorm.DB }

func (p dbPinger) Ping() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all middleware, storage, and routes.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		sessionHandler, client, err := middleware.Session(sessionCfg)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = client
		app.Use(sessionHandler)
	}
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	dsn := cfg.DatabaseURL
	if dsn == "" {
		dsn = cfg.SQLitePath
	}
	db, err := database.Open(dsn)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	files, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		return nil, nil, nil, err
	}

	// Health
	healthHandlers := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             dbPinger{db},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	// Auth (shared admin credential)
	authService := &authsvc.Service{
		AdminEmail:        cfg.AdminEmail,
		AdminPasswordHash: cfg.AdminPasswordHash,
	}
	authHandlers := &authhandler.Handlers{Service: authService, Rdb: rdb, Config: sessionCfg}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// Catalog (public browsing surface)
	catalogService := &catsvc.Service{DB: db, Files: files}
	catalogHandlers := &cataloghandler.Handlers{Service: catalogService, WhatsAppPhone: cfg.WhatsAppPhone}
	catalogGroup := app.Group("/api/v1/catalog")
	catalogGroup.Get("/home", catalogHandlers.Home)
	catalogGroup.Get("/listings", catalogHandlers.List)
	catalogGroup.Get("/listings/:slug", catalogHandlers.GetBySlug)

	// Photo files
	app.Static("/uploads", cfg.UploadDir)

	// Admin (session-gated mutations)
	adminHandlers := &adminhandler.Handlers{Service: catalogService}
	adminGroup := app.Group("/api/v1/admin", middleware.RequireAdmin())
	adminGroup.Post("/listings", adminHandlers.CreateListing)
	adminGroup.Put("/listings/:id", adminHandlers.UpdateListing)
	adminGroup.Delete("/listings/:id", adminHandlers.DeleteListing)
	adminGroup.Get("/listings/:id/events", adminHandlers.ListEvents)
	adminGroup.Delete("/photos/:photo_id", adminHandlers.DetachPhoto)
	adminGroup.Patch("/photos/:photo_id/cover", adminHandlers.SetCoverPhoto)

	return app, db, rdb, nil
}
