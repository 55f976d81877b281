package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/csheth/podsum/internal/cache"
	"github.com/csheth/podsum/internal/config"
	"github.com/csheth/podsum/internal/llm"
	"github.com/csheth/podsum/internal/logging"
	"github.com/csheth/podsum/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to podsum.yaml (default ./podsum.yaml when present)")
	addr := flag.String("addr", "", "listen address (default :5000)")
	debug := flag.Bool("debug", false, "run gin in debug mode")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fallback, _ := zap.NewProduction()
		fallback.Fatal("failed to load config", zap.Error(err))
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, Sink: logging.SinkStderr})
	if err != nil {
		logger, _ = zap.NewProduction()
		logger.Warn("console logger unavailable, falling back to zap production logger", zap.Error(err))
	}
	defer func() { _ = logger.Sync() }()

	if !*debug {
		gin.SetMode(gin.ReleaseMode)
	}

	summarizer, err := llm.New(llm.Config{
		Provider: cfg.Server.LLM.Provider,
		Model:    cfg.Server.LLM.Model,
		Endpoint: cfg.Server.LLM.Endpoint,
		APIKey:   cfg.Server.LLM.APIKey,
	})
	if err != nil {
		logger.Fatal("failed to configure llm", zap.Error(err))
	}

	var transcriber server.Transcriber
	if t := cfg.Server.Transcription; t.Endpoint != "" || t.APIKey != "" {
		transcriber = llm.NewTranscriber(llm.TranscriberConfig{
			Endpoint: t.Endpoint,
			Model:    t.Model,
			APIKey:   t.APIKey,
		})
	} else {
		logger.Warn("transcription disabled; audio and video uploads will fail")
	}

	var store *cache.Store
	if !cfg.Server.Cache.Disabled {
		dir := cfg.Server.Cache.Dir
		if dir == "" {
			dir = cache.DefaultDir()
		}
		store, err = cache.New(dir, cfg.Server.Cache.TTL)
		if err != nil {
			logger.Fatal("failed to open summary cache", zap.Error(err))
		}
		if removed, err := store.Prune(); err != nil {
			logger.Warn("cache prune failed", zap.Error(err))
		} else if removed > 0 {
			logger.Info("pruned expired summaries", zap.Int("count", removed))
		}
	}

	app := server.New(server.Config{
		Summarizer:     summarizer,
		Transcriber:    transcriber,
		Cache:          store,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: app.Router(),
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("llm", summarizer.Name()),
			zap.Bool("transcription", transcriber != nil),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}
