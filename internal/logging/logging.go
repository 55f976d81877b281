package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Sink selects where log entries are written.
type Sink int

const (
	// SinkFile writes JSON lines to a file; used by the terminal UI, which owns stdout.
	SinkFile Sink = iota
	// SinkStderr writes human readable lines to stderr; used by the server.
	SinkStderr
)

const logFileName = "podsum.log"

// Options configures New.
type Options struct {
	Level string
	File  string
	Sink  Sink
}

// New builds a zap logger for the given sink.
func New(opts Options) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	switch opts.Sink {
	case SinkStderr:
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level)
		return zap.New(core), nil
	default:
		path := opts.File
		if path == "" {
			path = DefaultFile()
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		encCfg := zap.NewProductionEncoderConfig()
		encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), level)
		return zap.New(core), nil
	}
}

// DefaultFile is the client log location when none is configured.
func DefaultFile() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "podsum", logFileName)
}
