package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/techagentng/wefixsa/config"
	"github.com/techagentng/wefixsa/models"
	"github.com/techagentng/wefixsa/services"
)

// Server serves the report store over HTTP
type Server struct {
	Config        *config.Config
	AuthService   services.AuthService
	ReportService services.ReportService
}

// Start listens on the configured port until ctx is cancelled or the process is signalled
func (s *Server) Start(ctx context.Context) error {
	if s.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.Config.Port),
		Handler:           s.setupRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.S().Infow("server listening", "addr", srv.Addr, "env", s.Config.Env)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		zap.S().Infow("received signal, shutting down", "signal", sig.String())
	case <-ctx.Done():
		zap.S().Info("context cancelled, shutting down")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// decode binds the JSON body into v and runs its conform and validate tags
func decode(c *gin.Context, v interface{}) error {
	if err := c.ShouldBindJSON(v); err != nil {
		return err
	}
	return models.ValidateStruct(v)
}
