// Package debuglog writes JSON-lines event logs for troubleshooting.
//
// A nil or disabled *Logger is valid and discards everything, so callers can
// log unconditionally.
package debuglog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultPath is the log file used when --debug is passed without a path.
const DefaultPath = "slate-debug.log"

// Logger logs structured events, one JSON object per line.
type Logger struct {
	mu  sync.Mutex
	w   io.Writer
	c   io.Closer
	seq int
	now func() time.Time
}

// New returns a logger writing to w.
func New(w io.Writer) *Logger {
	return &Logger{w: w, now: time.Now}
}

// Open creates (truncating) the file at path and returns a logger writing to it.
func Open(path string) (*Logger, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating debug log: %w", err)
	}
	l := New(f)
	l.c = f
	l.Event("DEBUG_START", map[string]any{
		"log_file": path,
		"time":     time.Now().Format(time.RFC3339),
	})
	return l, nil
}

// Enabled reports whether events are written anywhere.
func (l *Logger) Enabled() bool {
	return l != nil && l.w != nil
}

// Event writes an entry with the given name and fields.
func (l *Logger) Event(event string, data map[string]any) {
	if !l.Enabled() {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	entry := make(map[string]any, len(data)+3)
	for k, v := range data {
		entry[k] = v
	}
	entry["seq"] = l.seq
	entry["ts"] = l.now().Format("15:04:05.000")
	entry["event"] = event

	b, err := json.Marshal(entry)
	if err != nil {
		b, _ = json.Marshal(map[string]any{"seq": l.seq, "event": event, "marshal_error": err.Error()})
	}
	_, _ = fmt.Fprintf(l.w, "%s\n", b)
}

// Error logs err under the given context.
func (l *Logger) Error(context string, err error) {
	if err == nil {
		return
	}
	l.Event("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

// Close writes a final entry and closes the underlying file, if any.
func (l *Logger) Close() error {
	if !l.Enabled() {
		return nil
	}
	l.Event("DEBUG_END", map[string]any{"time": time.Now().Format(time.RFC3339)})
	if l.c == nil {
		return nil
	}
	return l.c.Close()
}

// Truncate shortens s to at most max bytes, marking the cut with "...".
func Truncate(s string, max int) string {
	if len(s) <= max || max < 4 {
		return s
	}
	return s[:max-3] + "..."
}
