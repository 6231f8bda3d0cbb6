package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Level is the severity of a log event.
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
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Event is one log line of a run.
type Event struct {
	Time    time.Time
	Level   Level
	Message string
}

// Log is the append-only event history of a single run. Appends come from
// the run goroutine; Entries may be called from any goroutine.
type Log struct {
	mu     sync.RWMutex
	events []Event
	logger *slog.Logger
	now    func() time.Time
}

// NewLog returns an empty log. Every appended event is mirrored to logger
// when it is non-nil.
func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger, now: time.Now}
}

// Append records an event and returns it.
func (l *Log) Append(level Level, message string) Event {
	ev := Event{Time: l.now(), Level: level, Message: message}

	l.mu.Lock()
	l.events = append(l.events, ev)
	l.mu.Unlock()

	if l.logger != nil {
		l.logger.Log(context.Background(), level.slog(), message)
	}
	return ev
}

// Entries returns every event so far, oldest first. The returned slice has
// its capacity clipped, so later appends never show through it.
func (l *Log) Entries() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	n := len(l.events)
	return l.events[:n:n]
}

// Len returns the number of events.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
