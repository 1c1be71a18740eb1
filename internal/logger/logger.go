// Copyright 2019 The Fuchsia Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package logger provides a context-scoped leveled logger, the same calling
// convention the teacher's tools/lib/syslog and tools/net/sshutil packages
// use (logger.Infof(ctx, ...), logger.Errorf(ctx, ...)) but not present as a
// source file in the retrieval pack.
package logger

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Level is the severity of a log line.
type Level int

const (
	Debug Level = iota
	Info
	Warning
	Error
)

func (l Level) String() string {
	switch l {
	case Debug:
		return "DEBUG"
	case Info:
		return "INFO"
	case Warning:
		return "WARN"
	case Error:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger writes leveled, prefixed lines to an underlying *log.Logger.
type Logger struct {
	MinLevel Level
	out      *log.Logger
}

// NewLogger returns a Logger that writes to os.Stderr, each line prefixed
// with the local time of day (the interactive session prints its own output
// to stdout).
func NewLogger(minLevel Level) *Logger {
	return &Logger{
		MinLevel: minLevel,
		out:      log.New(os.Stderr, "", log.Ltime),
	}
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if l == nil || level < l.MinLevel {
		return
	}
	l.out.Printf("[%s] %s", level, fmt.Sprintf(format, args...))
}

func (l *Logger) Debugf(format string, args ...interface{})   { l.logf(Debug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})    { l.logf(Info, format, args...) }
func (l *Logger) Warningf(format string, args ...interface{}) { l.logf(Warning, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{})   { l.logf(Error, format, args...) }

type contextKey struct{}

// WithLogger returns a context carrying l, retrievable with LoggerFromContext.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// LoggerFromContext returns the Logger installed in ctx, or a silent
// default logger if none was installed.
func LoggerFromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(contextKey{}).(*Logger); ok && l != nil {
		return l
	}
	return NewLogger(Error + 1) // swallow everything
}

// Debugf logs at Debug level using the Logger installed in ctx.
func Debugf(ctx context.Context, format string, args ...interface{}) {
	LoggerFromContext(ctx).Debugf(format, args...)
}

// Infof logs at Info level using the Logger installed in ctx.
func Infof(ctx context.Context, format string, args ...interface{}) {
	LoggerFromContext(ctx).Infof(format, args...)
}

// Warningf logs at Warning level using the Logger installed in ctx.
func Warningf(ctx context.Context, format string, args ...interface{}) {
	LoggerFromContext(ctx).Warningf(format, args...)
}

// Errorf logs at Error level using the Logger installed in ctx.
func Errorf(ctx context.Context, format string, args ...interface{}) {
	LoggerFromContext(ctx).Errorf(format, args...)
}
