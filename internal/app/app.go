package app

import (
	"lendstock-backend/internal/assets"
	"lendstock-backend/internal/auth"
	"lendstock-backend/internal/config"
	"lendstock-backend/internal/constants"
	"lendstock-backend/internal/database"
	"lendstock-backend/internal/health"
	"lendstock-backend/internal/identity"
	"lendstock-backend/internal/lending"
	"lendstock-backend/internal/middleware"
	"lendstock-backend/internal/profiles"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// CreateApp builds the Fiber app with all global middleware and route
// registration, and returns the DB and Redis handles for startup checks.
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
		IsProduction:      cfg.IsProduction(),
	}
	sessionHandler, rdb, err := middleware.Session(sessionCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, nil, nil, err
	}

	RegisterRoutes(app, db, rdb, sessionCfg)
	return app, db, rdb, nil
}

// RegisterRoutes wires every module's handlers onto the app. Split from
// CreateApp so tests can mount routes on an in-memory DB and miniredis.
func RegisterRoutes(app *fiber.App, db *gorm.DB, rdb *redis.Client, sessionCfg middleware.SessionConfig) {
	identitySvc := &identity.Service{DB: db}
	profileSvc := &profiles.Service{DB: db}

	// Health
	healthHandlers := &health.Handlers{DB: dbPinger(db), Rdb: rdb}
	app.Get("/health/json", healthHandlers.JSON)

	// Auth (no auth middleware)
	authHandlers := &auth.Handlers{
		Identity: identitySvc,
		Profiles: profileSvc,
		Rdb:      &auth.RedisSessionIndex{Rdb: rdb},
		Config:   sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/signup", authHandlers.Signup)
	authGroup.Post("/login", authHandlers.Login)
	authGroup.Get("/me", authHandlers.Me)
	authGroup.Delete("/logout", authHandlers.Logout)

	// Users
	profileHandlers := &profiles.Handlers{Service: profileSvc, Identity: identitySvc, Rdb: rdb}
	userGroup := app.Group("/api/v1/users", middleware.RequireAuth())
	userGroup.Get("/list-users", middleware.AuthorizePermission(constants.ViewUsers), profileHandlers.ListUsers)
	userGroup.Get("/view-user/:id", profileHandlers.ViewUser)
	userGroup.Post("/create-user", middleware.AuthorizePermission(constants.CreateUser), profileHandlers.CreateUser)
	userGroup.Patch("/update-role", middleware.AuthorizePermission(constants.AssignRole), profileHandlers.UpdateRole)

	// Assets
	assetHandlers := &assets.Handlers{Service: &assets.Service{DB: db}}
	assetGroup := app.Group("/api/v1/assets", middleware.RequireAuth())
	assetGroup.Get("/list-assets", assetHandlers.ListAssets)
	assetGroup.Get("/view-asset/:id", assetHandlers.ViewAsset)
	assetGroup.Get("/list-categories", assetHandlers.ListCategories)
	assetGroup.Post("/register-asset", middleware.AuthorizePermission(constants.RegisterAsset), assetHandlers.RegisterAsset)

	// Lending
	lendingHandlers := &lending.Handlers{Service: &lending.Service{DB: db}}
	lendingGroup := app.Group("/api/v1/lending", middleware.RequireAuth())
	lendingGroup.Post("/borrow", lendingHandlers.Borrow)
	lendingGroup.Post("/return", lendingHandlers.Return)
	lendingGroup.Get("/my-loans", lendingHandlers.MyLoans)
	lendingGroup.Get("/list-transactions", middleware.AuthorizePermission(constants.ViewAllLoans), lendingHandlers.ListTransactions)
	lendingGroup.Get("/list-events", middleware.AuthorizePermission(constants.ViewEvents), lendingHandlers.ListEvents)
}

func dbPinger(db *gorm.DB) health.DBPinger {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil
	}
	return sqlDB
}
