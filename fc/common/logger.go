package common

import (
	"fmt"
	"log"
	"sync"
)

// Logger logs to the standard logger and keeps the request's messages so
// they can be returned to the client.
type Logger struct {
	mu      sync.Mutex
	Entries []*LogEntry
	// Debug enables Dbg output.
	Debug bool
}

// Dbg prints an informational message when debug output is enabled. Debug
// messages are not kept.
func (l *Logger) Dbg(format string, v ...interface{}) {
	if !l.Debug {
		return
	}
	log.Printf("%s\n", fmt.Sprintf(format, v...))
}

// Msg logs an informational message
func (l *Logger) Msg(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	log.Println(msg)
	l.add(&LogEntry{false, msg})
}

// Err logs an error message
func (l *Logger) Err(format string, v ...interface{}) {
	msg := fmt.Sprintf(format, v...)
	log.Printf("%s\n", fmt.Sprintf("Error: %s", msg))
	l.add(&LogEntry{true, msg})
}

// Fatal calls log.Fatalf
func (l *Logger) Fatal(format string, v ...interface{}) {
	log.Fatalf(format, v...)
}

// HasErrors reports whether any error was logged.
func (l *Logger) HasErrors() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.Entries {
		if e.IsError {
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the entries logged so far.
func (l *Logger) Snapshot() []*LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*LogEntry(nil), l.Entries...)
}

func (l *Logger) add(e *LogEntry) {
	l.mu.Lock()
	l.Entries = append(l.Entries, e)
	l.mu.Unlock()
}

// NewLog creates a new logger
func NewLog() *Logger {
	return new(Logger)
}

// LogEntry contains the message and metadata
type LogEntry struct {
	IsError bool   `json:"isError"`
	Msg     string `json:"msg"`
}
