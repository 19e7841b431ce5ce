// Package server exposes the cutout pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"time"

	"github.com/chaos-io/cutout/compose"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ArtifactSaver persists a copy of a successful result.
type ArtifactSaver interface {
	Save(op, ext string, data []byte) (string, error)
}

type Options struct {
	MaxUploadBytes int64
	StaticDir      string
	Artifacts      ArtifactSaver
	Logger         *zap.Logger
}

type Server struct {
	extractor  *compose.Extractor
	compositor *compose.Compositor
	opts       Options
	logger     *zap.Logger
	engine     *gin.Engine
}

func New(extractor *compose.Extractor, compositor *compose.Compositor, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 16 << 20
	}

	s := &Server{
		extractor:  extractor,
		compositor: compositor,
		opts:       opts,
		logger:     opts.Logger,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = s.opts.MaxUploadBytes
	r.Use(requestID(), accessLog(s.logger), gin.CustomRecovery(s.recover))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/remove-background", s.limitBody, s.removeBackground)
	r.POST("/apply-background", s.limitBody, s.applyBackground)

	if s.opts.StaticDir != "" {
		r.Static("/static", s.opts.StaticDir)
		r.StaticFile("/", filepath.Join(s.opts.StaticDir, "index.html"))
	}
	return r
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) limitBody(c *gin.Context) {
	if c.Request.ContentLength > s.opts.MaxUploadBytes {
		s.fail(c, &http.MaxBytesError{Limit: s.opts.MaxUploadBytes})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)
	c.Next()
}

func (s *Server) save(op string, p *compose.Payload) {
	if s.opts.Artifacts == nil {
		return
	}
	name, err := s.opts.Artifacts.Save(op, p.Format.Ext(), p.Data)
	if err != nil {
		s.logger.Warn("save artifact", zap.String("op", op), zap.Error(err))
		return
	}
	s.logger.Debug("saved artifact", zap.String("name", name))
}
