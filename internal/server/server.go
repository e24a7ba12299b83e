// Package server открывает восприятие и действия браузера по HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pagePerception/internal/browser"
	"pagePerception/internal/config"
	"pagePerception/internal/database"
	"pagePerception/internal/logger"
	"pagePerception/internal/sanitizer"
)

const shutdownTimeout = 5 * time.Second

// SnapshotStore - чтение истории снимков. nil, если БД отключена.
type SnapshotStore interface {
	List(ctx context.Context, limit, offset int) ([]database.Snapshot, error)
	GetByID(ctx context.Context, id uint) (*database.Snapshot, error)
}

type Server struct {
	cfg       *config.Cfg
	log       *logger.Zap
	browser   browser.Browser
	snapshots SnapshotStore
	values    *sanitizer.DataSanitizer
}

func New(cfg *config.Cfg, log *logger.Zap, br browser.Browser, snapshots SnapshotStore) *Server {
	return &Server{
		cfg:       cfg,
		log:       log,
		browser:   br,
		snapshots: snapshots,
		values:    sanitizer.New(),
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("HTTP",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/navigate", s.navigate)
		api.GET("/view", s.perceive(s.browser.View))
		api.GET("/visible", s.perceive(s.browser.VisibleContent))
		api.GET("/interactive", s.perceive(s.browser.InteractiveElements))
		api.POST("/click", s.click)
		api.POST("/input", s.input)
		api.POST("/select", s.selectOption)
		api.POST("/scroll", s.scroll)
		api.POST("/move", s.move)
		api.POST("/key", s.key)
		api.GET("/screenshot", s.screenshot)
		api.POST("/console", s.consoleExec)
		api.GET("/console", s.consoleView)
		api.GET("/snapshots", s.listSnapshots)
		api.GET("/snapshots/:id", s.getSnapshot)
	}

	return r
}

// Run слушает до отмены ctx, затем гасит сервер.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.App.Addr(),
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Сервер запущен", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("Остановка сервера")
	return srv.Shutdown(shutdownCtx)
}

// fail переводит ошибку браузера или хранилища в HTTP-статус.
func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, browser.ErrUnknownIndex), errors.Is(err, database.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, browser.ErrBlockedURL):
		status = http.StatusForbidden
	case errors.Is(err, browser.ErrNotLaunched), errors.Is(err, browser.ErrCircuitOpen):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	if status == http.StatusInternalServerError {
		s.log.Error("Ошибка обработки запроса", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
