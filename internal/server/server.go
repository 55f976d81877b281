// Package server implements the HTTP summarization endpoint the terminal client talks to.
package server

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/csheth/podsum/internal/cache"
)

// Summarizer produces newline-separated summary points for a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
	Name() string
}

// Transcriber converts an uploaded audio or video file to text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error)
}

// Config wires the handlers to their collaborators. Cache and Transcriber are optional.
type Config struct {
	Summarizer     Summarizer
	Transcriber    Transcriber
	Cache          *cache.Store
	AllowedOrigins []string
	Logger         *zap.Logger
}

// Server holds the handlers for POST /summarize and GET /healthz.
type Server struct {
	summarizer  Summarizer
	transcriber Transcriber
	cache       *cache.Store
	origins     []string
	logger      *zap.Logger
}

func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		summarizer:  cfg.Summarizer,
		transcriber: cfg.Transcriber,
		cache:       cfg.Cache,
		origins:     cfg.AllowedOrigins,
		logger:      logger,
	}
}

// Router builds the gin engine. Callers pick the gin mode beforehand.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(requestLogger(s.logger))
	router.Use(cors.New(s.corsConfig()))

	router.GET("/healthz", s.handleHealth)
	router.POST("/summarize", s.handleSummarize)
	return router
}

func (s *Server) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
	}
	if len(s.origins) == 0 || contains(s.origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = s.origins
	return cfg
}

func (s *Server) handleHealth(c *gin.Context) {
	body := gin.H{"status": "ok"}
	if s.summarizer != nil {
		body["model"] = s.summarizer.Name()
	}
	body["transcription"] = s.transcriber != nil
	c.JSON(http.StatusOK, body)
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
