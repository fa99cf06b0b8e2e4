package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dndscribe/dndscribe/internal/dndscribe/conf"
	"github.com/dndscribe/dndscribe/internal/errors"
	"github.com/dndscribe/dndscribe/internal/model"
	"github.com/dndscribe/dndscribe/internal/speech"
)

// Control is the slice of the transcription service the HTTP layer drives.
type Control interface {
	TranscribeFile(ctx context.Context, audioPath, originalName string) (*model.Session, error)
	Sessions(ctx context.Context, limit int) ([]*model.Session, error)
	Session(ctx context.Context, id string) (*model.Session, error)
	Capabilities() speech.Capabilities
	Decision() speech.Decision
	Conf() *conf.Config
}

// Service is the HTTP front for uploads and session history.
type Service struct {
	control Control
	conf    *conf.Config

	router *gin.Engine
	server *http.Server
}

// NewService wires the gin router around the given control service.
func NewService(control Control) *Service {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Err(err).Msg("Failed to set trusted proxies")
	}

	router.Use(
		errors.RecoveryMiddleware(),
		errors.ErrorHandlerMiddleware(),
		gin.LoggerWithWriter(log.Logger, "/health"),
		corsMiddleware(),
	)

	s := &Service{
		control: control,
		conf:    control.Conf(),
		router:  router,
	}

	s.initRouter()
	return s
}

// ListenAndServe runs the server on the configured address until it fails or
// is shut down.
func (s *Service) ListenAndServe() error {
	s.server = &http.Server{
		Addr:    s.conf.HTTPAddr,
		Handler: s.router,
	}

	log.Info().Msg("Starting HTTP server on " + s.conf.HTTPAddr)
	return s.server.ListenAndServe()
}

// Stop shuts the server down gracefully.
func (s *Service) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.Debug().Err(err).Msg("Failed to shutdown HTTP server")
		return nil
	}

	log.Info().Msg("HTTP server stopped")
	return nil
}

// GetRouter exposes the router, mainly for tests.
func (s *Service) GetRouter() *gin.Engine {
	return s.router
}
