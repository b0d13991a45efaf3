package eslgo

import (
	"fmt"
	"io"
	"log"
	"os"
)

// Logger is the logging capability injected into a Connection or Listener.
// Components never reach for a process-wide logger; construction always
// accepts one of these, defaulting to a quiet standard-library wrapper.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

// Level filters which severities a defaultLogger emits.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelNone
)

var levelPrefix = [...]string{
	"[Debug] ",
	"[Info] ",
	"[Warn] ",
	"[Error] ",
}

// defaultLogger wraps a standard log.Logger with level filtering. It is
// used whenever a caller does not supply their own Logger.
type defaultLogger struct {
	std   *log.Logger
	level Level
}

func newDefaultLogger() *defaultLogger {
	return &defaultLogger{
		std:   log.New(os.Stderr, "", log.LstdFlags|log.Lmicroseconds),
		level: LevelInfo,
	}
}

func (l *defaultLogger) SetOutput(w io.Writer) { l.std.SetOutput(w) }
func (l *defaultLogger) SetLevel(lv Level)      { l.level = lv }

func (l *defaultLogger) Debugf(format string, v ...interface{}) { l.logf(LevelDebug, format, v...) }
func (l *defaultLogger) Infof(format string, v ...interface{})  { l.logf(LevelInfo, format, v...) }
func (l *defaultLogger) Warnf(format string, v ...interface{})  { l.logf(LevelWarn, format, v...) }
func (l *defaultLogger) Errorf(format string, v ...interface{}) { l.logf(LevelError, format, v...) }

func (l *defaultLogger) logf(lv Level, format string, v ...interface{}) {
	if lv < l.level {
		return
	}
	l.std.Output(3, levelPrefix[lv]+fmt.Sprintf(format, v...))
}

// NilLogger discards everything; use it to silence a Connection entirely.
type NilLogger struct{}

func (NilLogger) Debugf(string, ...interface{}) {}
func (NilLogger) Infof(string, ...interface{})  {}
func (NilLogger) Warnf(string, ...interface{})  {}
func (NilLogger) Errorf(string, ...interface{}) {}
