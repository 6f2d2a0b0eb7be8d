// Package logging builds the zap loggers used by the binaries.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options are embedded into each binary's flags.
type Options struct {
	Production bool   `long:"log-production" env:"LOG_PRODUCTION" description:"emit JSON logs at info level"`
	Level      string `long:"log-level" env:"LOG_LEVEL" description:"override the log level (debug, info, warn, error)"`
	File       string `long:"log-file" env:"LOG_FILE" description:"also write logs to this file, rotated by size"`
	MaxSizeMB  int    `long:"log-max-size" env:"LOG_MAX_SIZE_MB" default:"100" description:"rotate the log file after this many megabytes"`
	MaxBackups int    `long:"log-max-backups" env:"LOG_MAX_BACKUPS" default:"5" description:"rotated log files to keep"`
}

// New returns a development logger unless Production is set. With File set,
// entries are teed into a lumberjack-rotated JSON file.
func New(opts Options) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if opts.Production {
		cfg = zap.NewProductionConfig()
	}
	if opts.Level != "" {
		level, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	if opts.File == "" {
		return logger, nil
	}

	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	})
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, cfg.Level)
	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	})), nil
}
