// ABOUTME: Route table and HTTP server for the catalog API.
// ABOUTME: Handlers are optional so tests can mount only what they exercise.

package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/harper/catalog/internal/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AllowedOrigins []string

	ArticleHandler *ArticleHandler
	SectionHandler *SectionHandler
	HealthHandler  *HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Log))
	r.Use(CORS(cfg.AllowedOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.ArticleHandler != nil {
			api.GET("/articles", cfg.ArticleHandler.Search)
			api.GET("/articles/:id", cfg.ArticleHandler.Get)
			api.POST("/articles", cfg.ArticleHandler.Create)
			api.PUT("/articles/:id", cfg.ArticleHandler.Update)
			api.DELETE("/articles/:id", cfg.ArticleHandler.Delete)
		}

		if cfg.SectionHandler != nil {
			api.GET("/sections", cfg.SectionHandler.List)
			api.GET("/sections/:id", cfg.SectionHandler.Get)
			api.GET("/sections/:id/articles", cfg.SectionHandler.Articles)
		}
	}

	return r
}

type Server struct {
	Engine *gin.Engine
	log    *logger.Logger
}

func NewServer(cfg RouterConfig) *Server {
	return &Server{Engine: NewRouter(cfg), log: logger.OrNop(cfg.Log)}
}

// Run serves on address until ctx is done, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, address string) error {
	srv := &http.Server{
		Addr:              address,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", "addr", address)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("HTTP server shutting down")
	return srv.Shutdown(shutdownCtx)
}
