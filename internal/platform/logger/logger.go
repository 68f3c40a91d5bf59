// Copyright (c) 2026 Pipemill. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package logger builds the process-wide structured logger.

Output is JSON via [log/slog]. Stdout is always written; when a log file is
configured, entries are duplicated into a size-rotated file managed by lumberjack.
*/
package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures [New].
type Options struct {
	App   string
	Debug bool

	// File enables the rotating sink when non-empty.
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New returns a JSON logger tagged with the app name, plus a closer for the file sink.
// The closer is a no-op when no file is configured.
func New(opts Options) (*slog.Logger, func() error) {
	return build(os.Stdout, opts)
}

func build(stdout io.Writer, opts Options) (*slog.Logger, func() error) {
	level := slog.LevelInfo
	if opts.Debug {
		level = slog.LevelDebug
	}

	out := stdout
	closer := func() error { return nil }

	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		out = io.MultiWriter(stdout, rotating)
		closer = rotating.Close
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	log := slog.New(handler)
	if opts.App != "" {
		log = log.With(slog.String("app", opts.App))
	}

	return log, closer
}
