// Package server wires repositories, services and handlers into a Fiber app.
package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sefazor/eventos-backend/internal/config"
	"github.com/sefazor/eventos-backend/internal/handler"
	"github.com/sefazor/eventos-backend/internal/middleware"
	"github.com/sefazor/eventos-backend/internal/models"
	"github.com/sefazor/eventos-backend/internal/repository"
	"github.com/sefazor/eventos-backend/internal/service"
	jwtPkg "github.com/sefazor/eventos-backend/pkg/jwt"
	"github.com/sefazor/eventos-backend/pkg/qrcode"
	"github.com/sefazor/eventos-backend/pkg/storage"
	"github.com/sefazor/eventos-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Services struct {
	Auth   *service.AuthService
	Users  *service.UserService
	Events *service.EventService
}

// NewServices builds the service layer. mailer may be nil.
func NewServices(cfg *config.Config, log *zap.Logger, db *gorm.DB, store storage.FileStorage, mailer service.Notifier) *Services {
	validator := utils.NewValidator()

	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db, cfg.Database.SearchLanguage)

	tokens := jwtPkg.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.TTL)
	uploads := service.NewUploadService(store, validator, cfg.Storage.MaxBytes, log)
	qr := qrcode.NewQRService(strings.TrimRight(cfg.Server.FrontendURL, "/") + "/eventos")

	return &Services{
		Auth:   service.NewAuthService(userRepo, tokens, validator, mailer, log),
		Users:  service.NewUserService(userRepo, eventRepo, uploads, validator, log),
		Events: service.NewEventService(eventRepo, uploads, qr, validator, mailer, log),
	}
}

func New(cfg *config.Config, log *zap.Logger, db *gorm.DB, store storage.FileStorage, mailer service.Notifier) *fiber.App {
	return NewWithServices(cfg, log, db, store, NewServices(cfg, log, db, store, mailer))
}

func NewWithServices(cfg *config.Config, log *zap.Logger, db *gorm.DB, store storage.FileStorage, svc *Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "eventos-backend",
		ErrorHandler: handler.ErrorHandler(log),
		BodyLimit:    cfg.Server.BodyLimit,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(middleware.RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	if local, ok := store.(*storage.LocalStorage); ok {
		app.Static("/uploads", local.Root(), fiber.Static{MaxAge: 3600})
	}

	authMiddleware := middleware.NewAuthMiddleware(svc.Auth)
	requireAuth := authMiddleware.RequireAuth()
	requireCreator := middleware.RequireEventCreator(svc.Events)

	authHandler := handler.NewAuthHandler(svc.Auth)
	userHandler := handler.NewUserHandler(svc.Users)
	eventHandler := handler.NewEventHandler(svc.Events)
	healthHandler := handler.NewHealthHandler(db)

	api := app.Group("/api")
	api.Get("/health", healthHandler.Health)

	auth := api.Group("/auth")
	authLimiter := limiter.New(limiter.Config{
		Max:        cfg.RateLimit.AuthMax,
		Expiration: cfg.RateLimit.AuthExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse("Too many requests, try again later"))
		},
	})
	auth.Post("/registro", authLimiter, authHandler.Register)
	auth.Post("/login", authLimiter, authHandler.Login)
	auth.Get("/perfil", requireAuth, userHandler.GetMyProfile)
	auth.Put("/perfil", requireAuth, userHandler.UpdateProfile)
	auth.Put("/password", requireAuth, authHandler.ChangePassword)

	events := api.Group("/eventos")
	events.Get("/", eventHandler.ListEvents)
	events.Get("/:id", eventHandler.GetEvent)
	events.Get("/:id/qr", eventHandler.GetEventQR)
	events.Post("/", requireAuth, eventHandler.CreateEvent)
	events.Put("/:id", requireAuth, requireCreator, eventHandler.UpdateEvent)
	events.Delete("/:id", requireAuth, requireCreator, eventHandler.DeleteEvent)
	events.Post("/:id/asistir", requireAuth, eventHandler.JoinEvent)
	events.Delete("/:id/asistir", requireAuth, eventHandler.LeaveEvent)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	return app
}
