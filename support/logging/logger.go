// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package logging defines the diagnostic sink used throughout this
// repository.
package logging

import (
	"fmt"
	"io"
	"sync"
)

// L accepts diagnostic messages.
//
// L is designed to automatically conform to zap's zap.SugaredLogger, but is
// generic enough that any logger should be able to match it.
type L interface {
	// Errorf emits an error-level log.
	Errorf(fmt string, args ...interface{})
	// Warnf emits a warning-level log.
	Warnf(fmt string, args ...interface{})
	// Infof emits an info-level log.
	Infof(fmt string, args ...interface{})
	// Debugf emits a debug-level log.
	Debugf(fmt string, args ...interface{})
}

// Nop is a L instance that does nothing.
var Nop L = nopLogger{}

// Must ensures that a valid L is available. If l is not nil, it will be
// returned; otherwise, Must will return Nop.
func Must(l L) L {
	if l != nil {
		return l
	}
	return Nop
}

type nopLogger struct{}

func (nopLogger) Errorf(fmt string, args ...interface{}) {}
func (nopLogger) Warnf(fmt string, args ...interface{})  {}
func (nopLogger) Infof(fmt string, args ...interface{})  {}
func (nopLogger) Debugf(fmt string, args ...interface{}) {}

// Writer returns a L that writes level-tagged lines to w.
//
// The returned L serializes writes internally and is safe for concurrent
// use as long as nothing else writes to w.
func Writer(w io.Writer) L {
	return &writerLogger{w: w}
}

type writerLogger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *writerLogger) emit(level, format string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s: %s\n", level, fmt.Sprintf(format, args...))
}

func (l *writerLogger) Errorf(format string, args ...interface{}) { l.emit("error", format, args) }
func (l *writerLogger) Warnf(format string, args ...interface{})  { l.emit("warn", format, args) }
func (l *writerLogger) Infof(format string, args ...interface{})  { l.emit("info", format, args) }
func (l *writerLogger) Debugf(format string, args ...interface{}) { l.emit("debug", format, args) }
