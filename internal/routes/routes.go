package routes

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/evcharge/account_service/internal/auth"
	"github.com/evcharge/account_service/internal/config"
	"github.com/evcharge/account_service/internal/identity"
	"github.com/evcharge/account_service/internal/middleware"
	"github.com/evcharge/account_service/internal/notification"
	"github.com/evcharge/account_service/internal/otp"
	"github.com/evcharge/account_service/internal/token"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Backend
// selection follows configuration: postgres/redis when available,
// in-memory fallbacks in dev.
func Setup(app *fiber.App, d Deps) error {
	if !isDev(d.Cfg.Env) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} -  ${latency} ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))

	RegisterHealthRoutes(app, d)

	var userRepo identity.Repository
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB)
	} else {
		userRepo = identity.NewMemoryRepository()
	}
	ids := identity.NewService(userRepo)

	var challenges otp.Store
	if d.Cache != nil {
		challenges = otp.NewRedisStore(d.Cache, d.Cfg.OTPTTL)
	} else {
		challenges = otp.NewMemoryStore(d.Cfg.OTPTTL)
	}

	var mailer notification.Mailer
	if d.Cfg.EmailUser != "" && d.Cfg.EmailPass != "" {
		mailer = notification.NewSMTPMailer(d.Cfg.SMTPHost, d.Cfg.SMTPPort, d.Cfg.EmailUser, d.Cfg.EmailPass)
	} else {
		mailer = notification.NewLogMailer(d.Logger)
	}

	tokens := token.NewIssuer(d.Cfg.JWTSecret, d.Cfg.TokenTTL)
	authSvc := auth.NewService(ids, challenges, mailer, tokens, d.Logger, d.Cfg.OTPTTL)
	handler := auth.NewHandler(authSvc, ids, d.Logger)

	RegisterAccountRoutes(app, handler, middleware.TokenAuth(tokens))

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
