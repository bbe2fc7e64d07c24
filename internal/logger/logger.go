// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps a slog.Logger so the rest of the code base does not depend on a
// particular handler setup.
type Logger struct {
	*slog.Logger
}

// New returns a Logger that writes text records of the given level or above to stderr.
func New(level slog.Level) *Logger {
	return NewLogger(level, os.Stderr)
}

// NewLogger returns a Logger that writes text records of the given level or above to
// the given writers. If no writer is given, stderr is used.
func NewLogger(level slog.Level, output ...io.Writer) *Logger {
	var writer io.Writer = os.Stderr
	switch len(output) {
	case 0:
	case 1:
		writer = output[0]
	default:
		writer = io.MultiWriter(output...)
	}
	return &Logger{slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: level}))}
}

// Err returns an error attribute for structured log records.
func Err(err error) slog.Attr {
	return slog.Any("error", err)
}
