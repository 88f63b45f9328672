// Package api serves the tracked totals over HTTP.
package api

import (
	"context"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/edouard-claude/printmeter/internal/display"
)

type Server struct {
	App *fiber.App
	Src display.InfoSource
}

// NewServer builds the fiber app. Request logging goes to stderr when verbose.
func NewServer(src display.InfoSource, verbose bool) *Server {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	if verbose {
		app.Use(logger.New(logger.Config{Output: os.Stderr}))
	}

	s := &Server{App: app, Src: src}
	registerRoutes(s)
	return s
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	RegisterRoutes(s.App.Group("/api"), s.Src)
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

// Run serves on addr until a signal arrives, ctx is done or the listener fails,
// then shuts down within five seconds.
func Run(ctx context.Context, srv *Server, addr string, signals <-chan os.Signal, listen ListenFunc) error {
	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, addr)
	}()

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.App.ShutdownWithContext(shutdownCtx)
}
