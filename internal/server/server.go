// Package server exposes the editing session over HTTP so a browser
// frontend can drive it.
package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/capedit/capedit/internal/config"
	"github.com/capedit/capedit/internal/editor"
	"github.com/capedit/capedit/internal/logging"
	"github.com/capedit/capedit/internal/tier"
	"github.com/capedit/capedit/internal/video"
)

// ProbeFunc matches video.Probe; swapped out in tests.
type ProbeFunc func(ctx context.Context, path string) (*video.Info, error)

// Server hosts one editing session behind a JSON API.
type Server struct {
	cfg     *config.Config
	log     *logging.Logger
	session *editor.Session
	meter   *tier.Meter
	probe   ProbeFunc
	echo    *echo.Echo
}

func New(cfg *config.Config, log *logging.Logger, session *editor.Session) *Server {
	s := &Server{
		cfg:     cfg,
		log:     log,
		session: session,
		meter:   tier.NewMeter(),
		probe:   video.Probe,
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = newValidator()

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}))

	s.routes(e)
	s.echo = e
	return s
}

func (s *Server) routes(e *echo.Echo) {
	e.GET("/health", s.health)

	v1 := e.Group("/v1")

	v1.POST("/video", s.loadVideo)
	v1.GET("/video", s.videoInfo)

	v1.POST("/captions/generate", s.generateCaptions)
	v1.GET("/captions", s.listCaptions)
	v1.PUT("/captions/:id", s.updateCaption)
	v1.POST("/captions/:id/split", s.splitCaption)
	v1.POST("/captions/:id/select", s.selectCaption)
	v1.GET("/captions/active", s.activeCaption)

	v1.GET("/render", s.renderState)

	v1.GET("/export/srt", s.exportSRT)
	v1.POST("/export/video", s.exportVideo)
}

// Start blocks serving HTTP until Shutdown or a listener error.
func (s *Server) Start() error {
	s.log.Infow("http server starting", "addr", s.cfg.Addr())
	return s.echo.Start(s.cfg.Addr())
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the routing tree, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
