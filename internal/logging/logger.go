package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Logger writes leveled, key=value annotated lines. Each line goes through
// a single log.Logger call, so concurrent workers never interleave within
// a line.
type Logger struct {
	prefix string
	logger *log.Logger
	debug  atomic.Bool
}

// NewLogger creates a new logger with a prefix writing to stdout.
func NewLogger(prefix string) *Logger {
	return New(prefix, os.Stdout)
}

func New(prefix string, out io.Writer) *Logger {
	return &Logger{
		prefix: prefix,
		logger: log.New(out, fmt.Sprintf("[%s] ", prefix), log.LstdFlags),
	}
}

// SetDebug toggles DEBUG output.
func (l *Logger) SetDebug(on bool) {
	l.debug.Store(on)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	l.logWithKV("INFO", msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	l.logWithKV("WARN", msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	l.logWithKV("ERROR", msg, keysAndValues...)
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if !l.debug.Load() {
		return
	}
	l.logWithKV("DEBUG", msg, keysAndValues...)
}

func (l *Logger) logWithKV(level, msg string, keysAndValues ...interface{}) {
	var kv strings.Builder
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&kv, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	l.logger.Printf("[%s] %s%s", level, msg, kv.String())
}
