// Copyright 2018 The gVisor Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log implements a simple logging framework with emitters and
// levels, used by the octet barrier package to carry its (otherwise
// compiled-out) debug tracing.
package log

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Level is the log level.
type Level int32

const (
	// Warning indicates that the message is a warning.
	Warning Level = iota

	// Info indicates that the message is informational.
	Info

	// Debug indicates that the message is verbose debug information.
	Debug
)

func (l Level) String() string {
	switch l {
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Debug:
		return "debug"
	default:
		return fmt.Sprintf("invalid level %d", int32(l))
	}
}

// Emitter is the final step in the logging pipeline: it knows how to
// serialize a single log record.
//
// depth is the number of additional stack frames to skip when attributing
// the call site, in the style of log.Output.
type Emitter interface {
	Emit(depth int, level Level, timestamp time.Time, format string, v ...any)
}

// Writer is an io.Writer that drops messages instead of blocking or growing
// unboundedly when the underlying writer is failing.
type Writer struct {
	// Next receives non-dropped writes.
	Next interface {
		Write([]byte) (int, error)
	}

	mu      sync.Mutex
	dropped int
}

// Write implements io.Writer. Failed writes increment a dropped-message
// counter instead of propagating indefinitely; the next successful write is
// preceded by a summary of how many messages were lost.
func (w *Writer) Write(bytes []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.dropped > 0 {
		if _, err := w.Next.Write([]byte(fmt.Sprintf("\n*** Dropped %d log messages ***\n", w.dropped))); err != nil {
			w.dropped++
			return 0, err
		}
		w.dropped = 0
	}

	n, err := w.Next.Write(bytes)
	if err != nil {
		w.dropped++
		return n, err
	}
	return n, nil
}

// Logger is the logging interface used throughout the octet package.
type Logger interface {
	Debugf(format string, v ...any)
	Infof(format string, v ...any)
	Warningf(format string, v ...any)
	IsLogging(level Level) bool
}

// BasicLogger logs to a fixed Emitter, filtering by a configurable level.
type BasicLogger struct {
	level   atomic.Int32
	Emitter Emitter
}

// NewBasicLogger constructs a BasicLogger emitting to e, starting at level.
func NewBasicLogger(level Level, e Emitter) *BasicLogger {
	l := &BasicLogger{Emitter: e}
	l.level.Store(int32(level))
	return l
}

// SetLevel sets the logger's minimum level.
func (l *BasicLogger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// IsLogging implements Logger.IsLogging.
func (l *BasicLogger) IsLogging(level Level) bool {
	return int32(level) <= l.level.Load()
}

// Debugf implements Logger.Debugf.
func (l *BasicLogger) Debugf(format string, v ...any) {
	if l.IsLogging(Debug) {
		l.Emitter.Emit(1, Debug, time.Now(), format, v...)
	}
}

// Infof implements Logger.Infof.
func (l *BasicLogger) Infof(format string, v ...any) {
	if l.IsLogging(Info) {
		l.Emitter.Emit(1, Info, time.Now(), format, v...)
	}
}

// Warningf implements Logger.Warningf.
func (l *BasicLogger) Warningf(format string, v ...any) {
	if l.IsLogging(Warning) {
		l.Emitter.Emit(1, Warning, time.Now(), format, v...)
	}
}

// log is the global logger used by the package-level Debugf/Infof/Warningf
// helpers.
var log atomic.Value // Logger

func init() {
	log.Store(Logger(NewBasicLogger(Info, GoogleEmitter{Emitter: JSONEmitter{Writer: &Writer{Next: os.Stderr}}})))
}

// Log returns the global logger.
func Log() Logger {
	return log.Load().(Logger)
}

// SetTarget replaces the global logger.
func SetTarget(l Logger) {
	log.Store(l)
}

// Debugf logs to the global logger at Debug level.
func Debugf(format string, v ...any) { Log().Debugf(format, v...) }

// Infof logs to the global logger at Info level.
func Infof(format string, v ...any) { Log().Infof(format, v...) }

// Warningf logs to the global logger at Warning level.
func Warningf(format string, v ...any) { Log().Warningf(format, v...) }

// IsLogging reports whether the global logger is logging at the given level.
func IsLogging(level Level) bool { return Log().IsLogging(level) }
