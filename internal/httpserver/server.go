package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Server owns the storefront HTTP listener.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New builds a Server with the storefront routes.
func New(addr string, logger *log.Logger, db *pgxpool.Pool, deps Deps, opts Options) (*Server, error) {
	router, err := buildRouter(logger, db, deps, opts)
	if err != nil {
		return nil, err
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       2 * time.Minute,
		},
		logger: logger,
	}, nil
}

// ListenAndServe blocks until the listener fails or Shutdown is called.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests such as running checkouts.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Printf("http: draining connections on %s", s.httpServer.Addr)
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// storeChecker is the part of the pool readiness needs.
type storeChecker interface {
	Ping(ctx context.Context) error
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// readyHandler reports ready once the database answers and the schema
// migrations are applied cleanly; cart and checkout routes need both.
func readyHandler(store storeChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not configured"})
			return
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "db not reachable"})
			return
		}

		var (
			version int64
			dirty   bool
		)
		err := store.QueryRow(ctx, `SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&version, &dirty)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "migrations not applied"})
		case err != nil:
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "schema not readable"})
		case dirty:
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "reason": "migration dirty", "schemaVersion": version})
		default:
			c.JSON(http.StatusOK, gin.H{"status": "ready", "schemaVersion": version})
		}
	}
}
