// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures the process logger.
type Options struct {
	Level string
	// File, when set, receives a copy of every record with size-based rotation.
	File string
	Dev  bool
}

// ParseLevel maps a config string to a slog level. Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds the process logger. The returned closer flushes the rotating
// file, if any, and must be closed on shutdown.
func New(opts Options) (*slog.Logger, io.Closer) {
	return NewWithWriter(os.Stdout, opts)
}

// NewWithWriter is New with an explicit console writer.
func NewWithWriter(console io.Writer, opts Options) (*slog.Logger, io.Closer) {
	out := console
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    64, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   !opts.Dev,
		}
		out = io.MultiWriter(console, rotating)
		closer = rotating
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level:     ParseLevel(opts.Level),
		AddSource: opts.Dev,
	})
	return slog.New(NewContextHandler(handler)), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
