package http

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dndscribe/dndscribe/internal/errors"
	"github.com/dndscribe/dndscribe/internal/speech"
	"github.com/dndscribe/dndscribe/pkg/util"
)

//go:embed static
var EFS embed.FS

func (s *Service) initRouter() {
	s.initBaseRouter()
	s.initAPIRouter()
}

func (s *Service) initBaseRouter() {
	staticDir, _ := fs.Sub(EFS, "static")
	s.router.StaticFS("/static", http.FS(staticDir))
	s.router.StaticFileFS("/", "./index.htm", http.FS(staticDir))
	s.router.GET("/health", func(ctx *gin.Context) { ctx.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	s.router.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api") || strings.HasPrefix(path, "/static") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
		c.Redirect(http.StatusFound, "/")
	})
}

func (s *Service) initAPIRouter() {
	api := s.router.Group("/api/v1")
	{
		api.POST("/transcribe", s.handleTranscribe)
		api.GET("/sessions", s.handleSessions)
		api.GET("/sessions/:id", s.handleSession)
		api.GET("/sessions/:id/download", s.handleSessionDownload)
		api.GET("/device", s.handleDevice)
		api.GET("/models", s.handleModels)
	}
}

// POST /api/v1/transcribe
func (s *Service) handleTranscribe(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		errors.Err(c, errors.InvalidArg("file"))
		return
	}

	if !s.conf.ExtensionAllowed(fileHeader.Filename) {
		errors.Err(c, errors.New(http.StatusBadRequest,
			"unsupported audio format, expected one of: "+s.conf.Extensions))
		return
	}

	tempDir, err := os.MkdirTemp("", "dndscribe-upload-*")
	if err != nil {
		errors.Err(c, err)
		return
	}
	defer os.RemoveAll(tempDir)

	dst := filepath.Join(tempDir, filepath.Base(fileHeader.Filename))
	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		errors.Err(c, err)
		return
	}

	log.Info().
		Str("name", fileHeader.Filename).
		Str("size", util.HumanSizeMB(fileHeader.Size)).
		Msg("processing upload")

	session, err := s.control.TranscribeFile(c.Request.Context(), dst, fileHeader.Filename)
	if err != nil {
		errors.Err(c, errors.Wrap(http.StatusInternalServerError, "transcription failed", err))
		return
	}

	c.JSON(http.StatusOK, session)
}

// GET /api/v1/sessions
func (s *Service) handleSessions(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			errors.Err(c, errors.InvalidArg("limit"))
			return
		}
		if parsed > 200 {
			parsed = 200
		}
		limit = parsed
	}

	sessions, err := s.control.Sessions(c.Request.Context(), limit)
	if err != nil {
		errors.Err(c, err)
		return
	}

	// Listings carry metadata only; the transcript body is fetched per id.
	for _, session := range sessions {
		session.Transcript = ""
	}
	c.JSON(http.StatusOK, gin.H{"items": sessions})
}

// GET /api/v1/sessions/:id
func (s *Service) handleSession(c *gin.Context) {
	session, err := s.control.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		errors.Err(c, err)
		return
	}
	if session == nil {
		errors.Err(c, errors.NotFound("session"))
		return
	}
	c.JSON(http.StatusOK, session)
}

// GET /api/v1/sessions/:id/download
func (s *Service) handleSessionDownload(c *gin.Context) {
	session, err := s.control.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		errors.Err(c, err)
		return
	}
	if session == nil {
		errors.Err(c, errors.NotFound("session"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+session.Filename+`"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(session.Transcript))
}

// GET /api/v1/device
func (s *Service) handleDevice(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"capabilities": s.control.Capabilities(),
		"decision":     s.control.Decision(),
	})
}

// GET /api/v1/models
func (s *Service) handleModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"default": speech.DefaultModel,
		"active":  s.conf.Model,
		"items":   speech.Models(),
	})
}
