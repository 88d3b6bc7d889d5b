package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/panel-admin/internal/application/matrix"
	"github.com/jhoicas/panel-admin/internal/application/permission"
	"github.com/jhoicas/panel-admin/internal/application/session"
	"github.com/jhoicas/panel-admin/internal/infrastructure/kvstate"
	"github.com/jhoicas/panel-admin/internal/infrastructure/seed"
	"github.com/jhoicas/panel-admin/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/panel-admin/internal/interfaces/http"
	"github.com/jhoicas/panel-admin/pkg/config"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	kv, closeStore, err := storage.Open(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer closeStore()

	users := kvstate.NewUserRepository(kv)
	perms := permission.NewStore(
		kvstate.NewPermissionRepository(kv),
		log,
		permission.WithAdminLock(cfg.RBAC.LockAdmin),
	)
	perms.Load(ctx)

	sessions := session.NewManager(
		users,
		kvstate.NewSessionRepository(kv),
		log,
		session.WithTTL(cfg.Session.TTL),
	)
	if cfg.Storage.SeedDemo {
		if _, err := seed.Run(ctx, users, sessions, seed.DemoUsers(), log.Component("seed")); err != nil {
			log.Fatal().Err(err).Msg("cuentas demo")
		}
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Panel Admin API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "storage": cfg.Storage.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Sessions:    sessions,
		Permissions: perms,
		Editor:      matrix.NewEditor(perms),
		JWT:         httpRouter.JWTConfig{Secret: cfg.JWT.Secret, Issuer: cfg.JWT.Issuer},
		Log:         log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
