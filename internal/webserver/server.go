// Package webserver exposes the HTTP boundary consumed by the embedded
// web-app: the landing page, the checkout callback, and a health probe.
package webserver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/sirupsen/logrus"

	"github.com/HBKLXNDR/websites-bot-OLD/internal/config"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/domain"
	"github.com/HBKLXNDR/websites-bot-OLD/internal/logging"
)

const (
	readTimeout  = 15 * time.Second
	writeTimeout = 30 * time.Second
	idleTimeout  = 120 * time.Second

	rateLimitMax    = 100
	rateLimitWindow = 15 * time.Minute
)

// Acknowledger answers the pending web-app query for an order.
type Acknowledger interface {
	Acknowledge(ctx context.Context, order domain.Order) error
}

// Server owns the Fiber application serving the web-app endpoints.
type Server struct {
	app      *fiber.App
	cfg      config.Config
	checkout Acknowledger
	validate *validator.Validate
	logger   *logrus.Entry
	started  time.Time
}

// New constructs the HTTP server with the relay's middleware stack and routes.
func New(cfg config.Config, checkout Acknowledger, logger *logrus.Entry) *Server {
	if logger == nil {
		logger = logging.Logger()
	}

	srv := &Server{
		cfg:      cfg,
		checkout: checkout,
		validate: validator.New(),
		logger:   logger,
		started:  time.Now(),
	}

	app := fiber.New(fiber.Config{
		AppName:      "websites-bot",
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
		ErrorHandler: srv.errorHandler,
	})

	app.Use(recoverer.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: []string{cfg.WebAppURL},
		AllowMethods: []string{fiber.MethodGet, fiber.MethodPost},
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        rateLimitMax,
		Expiration: rateLimitWindow,
	}))

	app.Get("/", srv.handleLanding)
	app.Get("/healthz", srv.handleHealth)
	app.Post("/web-data", srv.handleWebData)

	srv.app = app
	return srv
}

// Listen starts the HTTP server and blocks until shutdown.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%d", s.cfg.HTTPPort)

	s.logger.WithFields(logging.Fields{
		"event": "http_listen",
		"addr":  addr,
	}).Info("starting web server")

	if err := s.app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		return fmt.Errorf("web server listen: %w", err)
	}

	s.logger.WithField("event", "http_stopped").Info("web server stopped")
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil || s.app == nil {
		return nil
	}

	return s.app.ShutdownWithContext(ctx)
}

func (s *Server) errorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	s.logger.WithFields(logging.Fields{
		"event":  "http_error",
		"path":   c.Path(),
		"status": code,
	}).WithError(err).Error("request failed")

	return c.Status(code).JSON(fiber.Map{"error": message})
}
