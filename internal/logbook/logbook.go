package logbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// Logbook appends session activity to a text file so a run can be inspected
// after the terminal UI exits. Entries are never shown on screen.
type Logbook struct {
	path    string
	session string
	mu      sync.Mutex
	file    *os.File
	now     func() time.Time
}

// New opens (or creates) the logbook at path. Each Logbook gets its own
// short session tag so successive runs appending to one file stay apart.
func New(path string) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("logbook: ensure log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logbook: open log file: %w", err)
	}
	return &Logbook{
		path:    path,
		session: uuid.NewString()[:8],
		file:    f,
		now:     time.Now,
	}, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Session returns the tag stamped on every entry written by this logbook.
func (l *Logbook) Session() string {
	if l == nil {
		return ""
	}
	return l.session
}

// Close releases the file handle.
func (l *Logbook) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// Append writes a single entry to the logbook.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return
	}
	line := fmt.Sprintf("%s %-5s [%s] %s\n",
		l.now().UTC().Format(time.RFC3339),
		string(level),
		l.session,
		strings.TrimSpace(message),
	)
	_, _ = l.file.WriteString(line)
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}
