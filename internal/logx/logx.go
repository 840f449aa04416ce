// Copyright 2024 The jpac Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package logx is a small leveled-logging facade, reconstructed in the
// shape of the teacher codebase's own log subpackage usage
// (log.NewStdLogger, log.NewHelper, log.NewFilter, log.FilterLevel): a
// minimal Logger interface, a Helper providing printf-style convenience
// methods per level, a standard-writer implementation, and a level filter
// wrapper. It carries no third-party dependency — the teacher's own log
// subpackage isn't part of the retrieval pack, so its shape is rebuilt
// here rather than invented from scratch.
package logx

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Level is a log severity, ordered Debug < Info < Warn < Error.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal sink every logging backend implements: a leveled
// message plus structured key/value pairs.
type Logger interface {
	Log(level Level, msg string, keyvals ...interface{}) error
}

// stdLogger writes human-readable lines to an io.Writer.
type stdLogger struct {
	mu sync.Mutex
	w  io.Writer
}

// NewStdLogger returns a Logger that writes timestamped lines to w.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{w: w}
}

func (s *stdLogger) Log(level Level, msg string, keyvals ...interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ts := time.Now().Format(time.RFC3339)
	if len(keyvals) == 0 {
		_, err := fmt.Fprintf(s.w, "%s [%s] %s\n", ts, level, msg)
		return err
	}
	_, err := fmt.Fprintf(s.w, "%s [%s] %s %v\n", ts, level, msg, keyvals)
	return err
}

// filterLogger wraps a Logger, dropping messages below a minimum level.
type filterLogger struct {
	next Logger
	min  Level
}

// FilterOption configures a filtered Logger; FilterLevel is the only
// option this codec needs.
type FilterOption func(*filterLogger)

// FilterLevel sets the minimum level a message must meet to pass through.
func FilterLevel(min Level) FilterOption {
	return func(f *filterLogger) { f.min = min }
}

// NewFilter wraps next with level filtering per the given options.
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &filterLogger{next: next, min: LevelInfo}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filterLogger) Log(level Level, msg string, keyvals ...interface{}) error {
	if level < f.min {
		return nil
	}
	return f.next.Log(level, msg, keyvals...)
}

// Helper wraps a Logger with printf-style convenience methods, the call
// shape every package in this module actually uses.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

// Discard returns a Helper that drops everything, the default used by
// codec functions that aren't handed an explicit logger.
func Discard() *Helper {
	return NewHelper(NewFilter(NewStdLogger(io.Discard)))
}

func (h *Helper) Debugf(format string, args ...interface{}) {
	h.logger.Log(LevelDebug, fmt.Sprintf(format, args...))
}

func (h *Helper) Infof(format string, args ...interface{}) {
	h.logger.Log(LevelInfo, fmt.Sprintf(format, args...))
}

func (h *Helper) Warnf(format string, args ...interface{}) {
	h.logger.Log(LevelWarn, fmt.Sprintf(format, args...))
}

func (h *Helper) Errorf(format string, args ...interface{}) {
	h.logger.Log(LevelError, fmt.Sprintf(format, args...))
}
