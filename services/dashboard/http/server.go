package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/monai/airquality-dashboard/services/dashboard/config"
	"github.com/monai/airquality-dashboard/services/dashboard/dashboard"
	"github.com/monai/airquality-dashboard/services/dashboard/models"
)

// Accounts resolves bearer tokens and manages users.
type Accounts interface {
	Register(ctx context.Context, creds models.Credentials) (models.Token, error)
	Login(ctx context.Context, creds models.Credentials) (models.Token, error)
	Me(ctx context.Context, token string) (models.User, error)
	Users(ctx context.Context, token string) ([]models.User, error)
	DeleteUser(ctx context.Context, token string, id int) error
}

// Stations creates and deletes monitoring stations on behalf of a token holder.
type Stations interface {
	CreateStation(ctx context.Context, token string, in models.StationCreate) (models.Station, error)
	DeleteStation(ctx context.Context, token string, id int) error
}

// Deps are the capabilities the server is built from. Health may be nil.
type Deps struct {
	Data     dashboard.Fetcher
	Accounts Accounts
	Stations Stations
	Health   func(ctx context.Context) error
}

// Server bundles router and dependencies for the dashboard.
type Server struct {
	cfg    config.Config
	deps   Deps
	log    *slog.Logger
	engine *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, deps Deps, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(logger))
	engine.Use(corsMiddleware())

	server := &Server{cfg: cfg, deps: deps, log: logger, engine: engine}
	server.registerRoutes()
	server.registerV1Routes()
	return server
}

// Engine exposes the underlying gin engine (for tests).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ListenAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealthz)
	s.engine.GET("/", s.handleDashboardPage)
	s.engine.GET("/admin", s.handleAdminPage)
	s.engine.GET("/partials/series-table", s.handleSeriesTablePartial)
}

// requestContext bounds a handler's upstream calls.
func (s *Server) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	timeout := s.cfg.BackendTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

func (s *Server) handleHealthz(c *gin.Context) {
	if s.deps.Health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
