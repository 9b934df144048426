package ui

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"samplemeta/app"

	"github.com/gin-gonic/gin"
)

// Services are the application services the HTTP surface exposes
type Services struct {
	Experiments *app.ExperimentService
	Templates   *app.TemplateService
	Imports     *app.ImportService
	Rosters     *app.RosterService
}

// Server represents the web server for experiment imports
type Server struct {
	router         *gin.Engine
	services       Services
	maxUploadBytes int64
}

// NewServer creates a new web server instance with all routes registered
func NewServer(services Services, maxUploadMB int) *Server {
	s := &Server{
		router:         gin.Default(),
		services:       services,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
	s.router.MaxMultipartMemory = s.maxUploadBytes
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	{
		api.POST("/experiments", s.handleCreateExperiment)
		api.GET("/experiments/:id", s.handleGetExperiment)
		api.GET("/experiments/:id/data", s.handleGroupData)
		api.GET("/experiments/:id/template", s.handleTemplate)
		api.POST("/experiments/:id/imports", s.handleImport)
		api.POST("/imports/:token/confirm", s.handleConfirmImport)
		api.POST("/experiments/:id/subjects/preview", s.handleRosterPreview)
		api.GET("/experiments/:id/subjects/pending", s.handleRosterPending)
		api.POST("/experiments/:id/subjects/commit", s.handleRosterCommit)
		api.GET("/experiments/:id/subjects", s.handleListSubjects)
	}
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Printf("[Server] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
