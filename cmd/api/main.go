package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"

	"ldapsync/docs"
	"ldapsync/internal/app"
	"ldapsync/internal/config"
	handlers "ldapsync/internal/http/handler"
	"ldapsync/internal/http/middleware"
	"ldapsync/internal/logger"
	"ldapsync/internal/otel"
)

// @title ldapsync API
// @version 1.0
// @description Reconciles directory group membership into the record store.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger.Init(cfg.Log.Level, cfg.Log.Pretty, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "ldapsync")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize tracing")
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer a.Close()

	promMiddleware, err := middleware.NewPrometheusMiddleware(a.Registry)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to register HTTP metrics")
	}

	srv := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// RequestID runs before the logger so every access line carries it.
	srv.Use(recover.New())
	srv.Use(middleware.RequestID())
	srv.Use(otelfiber.Middleware())
	srv.Use(middleware.Logger(*logger.Get()))
	srv.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(srv, handlers.Deps{
		DB:        a.DB,
		Groups:    a.Groups,
		Sync:      a.Sync,
		Calendar:  a.Calendar,
		Gatherer:  a.Registry,
		Recursive: cfg.Sync.Recursive,
	})

	// Swagger UI with dynamic host and scheme
	srv.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		errCh <- srv.Listen(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("failed to start server")
		}
	case <-ctx.Done():
		logger.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("tracer shutdown failed")
	}
}
