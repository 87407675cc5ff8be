package logger

import (
	"io"
	"log"
	"os"
	"strings"
)

type Logger struct {
	info  *log.Logger
	warn  *log.Logger
	error *log.Logger
	debug *log.Logger
}

func New() *Logger {
	return NewWithLevel(os.Getenv("LOG_LEVEL"))
}

// NewWithLevel returns a logger that emits debug lines only when level is "debug".
func NewWithLevel(level string) *Logger {
	debugOut := io.Discard
	if strings.EqualFold(level, "debug") {
		debugOut = os.Stdout
	}

	flags := log.Ldate | log.Ltime | log.Lmicroseconds
	return &Logger{
		info:  log.New(os.Stdout, "[INFO] ", flags),
		warn:  log.New(os.Stdout, "[WARN] ", flags),
		error: log.New(os.Stderr, "[ERROR] ", flags),
		debug: log.New(debugOut, "[DEBUG] ", flags),
	}
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.info.Printf(format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.warn.Printf(format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.error.Printf(format, args...)
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.debug.Printf(format, args...)
}
