// ABOUTME: zap logger construction for obsctl binaries
// ABOUTME: Console output on stderr plus an optional rotating JSON log file
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects the log sinks
type Config struct {
	// File is the log file path; empty disables file logging
	File string

	// Console enables human-readable logs on Stderr
	Console bool

	// Debug lowers the level from info to debug
	Debug bool

	// Stderr overrides the console writer (default: os.Stderr)
	Stderr io.Writer

	// MaxSizeMB rotates the file at this size (default: 10)
	MaxSizeMB int

	// MaxBackups bounds the number of rotated files kept (default: 3)
	MaxBackups int
}

// New builds a logger; with no sink enabled it returns a no-op logger
func New(config Config) *zap.Logger {
	if config.Stderr == nil {
		config.Stderr = os.Stderr
	}
	if config.MaxSizeMB == 0 {
		config.MaxSizeMB = 10
	}
	if config.MaxBackups == 0 {
		config.MaxBackups = 3
	}

	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if config.Debug {
		level.SetLevel(zapcore.DebugLevel)
	}

	var cores []zapcore.Core

	if config.Console {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.TimeKey = ""
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(config.Stderr), level))
	}

	if config.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    config.MaxSizeMB,
			MaxBackups: config.MaxBackups,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), zapcore.AddSync(rotator), level))
	}

	if len(cores) == 0 {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewTee(cores...))
}
