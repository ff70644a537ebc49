// Package rclog is rcbox's leveled logging package, built on the stdlib
// "log" package: a Level type, a Sink seam, depth-adjusted call-site
// reporting, pointed at handle lifecycle events (failed weak upgrades,
// CAS mismatches, cell contention) reported by component rather than
// by a single undifferentiated stream.
package rclog

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
)

// Logger is the subset of level-tagged methods rcbox's packages log
// through; callers that want silence pass Discard. Named scopes every
// subsequent line to a component (pkg/handle's weak-upgrade misses,
// pkg/atomiccell's lock contention, ...) without the caller threading a
// prefix through every format string by hand.
type Logger interface {
	Named(component string) Logger
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
}

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	}
	panic("rclog: unexpected level " + strconv.Itoa(int(l)))
}

var stringToLevel = func() map[string]Level {
	levels := []Level{DebugLevel, InfoLevel, WarnLevel, ErrorLevel}
	res := make(map[string]Level, len(levels))
	for _, l := range levels {
		res[l.String()] = l
	}
	return res
}()

// LevelFromString parses a level name ("DEBUG", "INFO", "WARN", "ERROR").
func LevelFromString(s string) (Level, error) {
	l, ok := stringToLevel[s]
	if !ok {
		return 0, errors.New("rclog: invalid level " + s)
	}
	return l, nil
}

const stdLoggerFlags = log.LstdFlags | log.Lmicroseconds | log.Lshortfile

// Sink is the output seam; NewSink lets tests install one that doesn't go
// through the stdlib logger.
type Sink interface {
	Output(callDepth int, l Level, msg string)
}

type stdSink struct{ std *log.Logger }

func (s *stdSink) Output(callDepth int, l Level, msg string) {
	s.std.Output(callDepth+1, l.String()+": "+msg)
}

// logger is the one Logger implementation. Its zero value is a discard
// logger: a nil sink drops every line regardless of level, so Discard
// and every Named child of it need no sentinel level or sink type of
// their own, just a *logger with sink left nil.
type logger struct {
	sink      Sink
	level     Level
	depth     int
	component string
}

// New builds a Logger writing lines at or above l to w.
func New(l Level, w io.Writer) Logger {
	return NewSink(l, &stdSink{log.New(w, "", stdLoggerFlags)})
}

// NewSink builds a Logger over a caller-supplied Sink, for tests that want
// to capture log output without parsing stdlib log text.
func NewSink(l Level, s Sink) Logger {
	return &logger{sink: s, level: l}
}

// Discard is the zero-overhead Logger for callers that want silence: a
// *logger whose nil sink makes every level a no-op, including any
// component Named off of it.
var Discard Logger = &logger{}

// Named returns a child logger sharing this logger's sink and level but
// tagging every line with component, joined onto any component this
// logger was already named with.
func (l *logger) Named(component string) Logger {
	c := component
	if l.component != "" {
		c = l.component + "." + component
	}
	return &logger{sink: l.sink, level: l.level, depth: l.depth, component: c}
}

func (l *logger) Debug(args ...interface{})                 { l.log(DebugLevel, args...) }
func (l *logger) Debugf(format string, args ...interface{}) { l.logf(DebugLevel, format, args...) }
func (l *logger) Info(args ...interface{})                  { l.log(InfoLevel, args...) }
func (l *logger) Infof(format string, args ...interface{})  { l.logf(InfoLevel, format, args...) }
func (l *logger) Warn(args ...interface{})                  { l.log(WarnLevel, args...) }
func (l *logger) Warnf(format string, args ...interface{})  { l.logf(WarnLevel, format, args...) }
func (l *logger) Error(args ...interface{})                 { l.log(ErrorLevel, args...) }
func (l *logger) Errorf(format string, args ...interface{}) { l.logf(ErrorLevel, format, args...) }

const initialLoggerCallDepth = 3

func (l *logger) tag(msg string) string {
	if l.component == "" {
		return msg
	}
	return l.component + ": " + msg
}

func (l *logger) log(level Level, args ...interface{}) {
	if l.sink == nil || level < l.level {
		return
	}
	l.sink.Output(l.depth+initialLoggerCallDepth, level, l.tag(fmt.Sprint(args...)))
}

func (l *logger) logf(level Level, format string, args ...interface{}) {
	if l.sink == nil || level < l.level {
		return
	}
	l.sink.Output(l.depth+initialLoggerCallDepth, level, l.tag(fmt.Sprintf(format, args...)))
}

// Std is the process-wide default, used by packages that log diagnostic
// events (pkg/handle's weak-upgrade misses, pkg/atomiccell's contention)
// without threading a Logger through every constructor. Each caller
// scopes it to its own component via Named rather than logging through
// the bare default. cmd/rcbox-demo replaces it with a DebugLevel logger
// when run with -v.
var std = New(WarnLevel, os.Stderr)

// SetDefault replaces the process-wide default logger.
func SetDefault(l Logger) { std = l }

// Default returns the process-wide default logger.
func Default() Logger { return std }
