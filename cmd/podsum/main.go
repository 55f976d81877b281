package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/csheth/podsum/internal/config"
	"github.com/csheth/podsum/internal/desktop"
	"github.com/csheth/podsum/internal/inbox"
	"github.com/csheth/podsum/internal/logging"
	"github.com/csheth/podsum/internal/media"
	"github.com/csheth/podsum/internal/summarize"
	"github.com/csheth/podsum/internal/tui"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "podsum:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to podsum.yaml (default ./podsum.yaml when present)")
	endpoint := flag.String("endpoint", "", "summarization endpoint (eg. http://localhost:5000/summarize)")
	noAltScreen := flag.Bool("no-alt-screen", false, "disable the alternate screen buffer")
	theme := flag.String("theme", "", "color theme: auto, dark or light")
	timeout := flag.Duration("timeout", 0, "per-request timeout (default 2m)")
	watchDir := flag.String("watch", "", "offer new episodes dropped into this folder")
	logFile := flag.String("log-file", "", "write logs here instead of the user cache dir")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *endpoint != "" {
		cfg.Client.Endpoint = *endpoint
	}
	if *theme != "" {
		cfg.Client.Theme = config.Theme(*theme)
	}
	if *timeout > 0 {
		cfg.Client.Timeout = *timeout
	}
	if *watchDir != "" {
		cfg.Client.WatchDir = *watchDir
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: cfg.Logging.Level, File: cfg.Logging.File, Sink: logging.SinkFile})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("podsum starting",
		zap.String("endpoint", cfg.Client.Endpoint),
		zap.Duration("timeout", cfg.Client.Timeout),
		zap.String("theme", string(cfg.Client.Theme)),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var files <-chan media.File
	if cfg.Client.WatchDir != "" {
		watcher, err := inbox.New(cfg.Client.WatchDir, inbox.WithLogger(logger.Named("inbox")))
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("inbox stopped", zap.Error(err))
			}
		}()
		files = watcher.Files()
	}

	clip := desktop.Clipboard{}
	if !clip.Available() {
		logger.Warn("no clipboard backend found; copying will fail")
	}

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !*noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(
		tui.New(tui.Config{
			Summarizer: summarize.New(summarize.Config{Endpoint: cfg.Client.Endpoint, Logger: logger.Named("summarize")}),
			Clipboard:  clip,
			Speaker:    desktop.NewSpeaker(cfg.Client.SpeechCommand, logger.Named("speech")),
			Logger:     logger,
			Timeout:    cfg.Client.Timeout,
			Dark:       darkTheme(cfg.Client.Theme),
			StartDir:   cfg.Client.StartDir,
			Inbox:      files,
			Endpoint:   cfg.Client.Endpoint,
		}),
		opts...,
	)

	started := time.Now()
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	logger.Info("podsum exiting", zap.Duration("uptime", time.Since(started)))
	return nil
}

func darkTheme(theme config.Theme) bool {
	switch theme {
	case config.ThemeDark:
		return true
	case config.ThemeLight:
		return false
	default:
		return lipgloss.HasDarkBackground()
	}
}
