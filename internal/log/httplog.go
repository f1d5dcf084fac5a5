package log

import (
	"net/http"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"go.uber.org/zap"
)

// HTTPLogEntry represents an HTTP request/response log entry
type HTTPLogEntry struct {
	Timestamp  time.Time     `json:"timestamp"`
	Method     string        `json:"method"`
	Path       string        `json:"path"`
	Status     int           `json:"status"`
	Duration   time.Duration `json:"duration"`
	Size       int64         `json:"size"`
	RemoteAddr string        `json:"remote_addr"`
	UserAgent  string        `json:"user_agent"`
}

// HTTPLogBuffer keeps the most recent access log entries in a ring
type HTTPLogBuffer struct {
	mu      sync.Mutex
	entries []HTTPLogEntry
	next    int
	full    bool
}

// NewHTTPLogBuffer creates a ring holding up to size entries
func NewHTTPLogBuffer(size int) *HTTPLogBuffer {
	if size < 1 {
		size = 1
	}
	return &HTTPLogBuffer{entries: make([]HTTPLogEntry, size)}
}

// Add appends an entry, overwriting the oldest once full
func (b *HTTPLogBuffer) Add(e HTTPLogEntry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[b.next] = e
	b.next = (b.next + 1) % len(b.entries)
	if b.next == 0 {
		b.full = true
	}
}

// Entries returns the buffered entries, oldest first
func (b *HTTPLogBuffer) Entries() []HTTPLogEntry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.full {
		out := make([]HTTPLogEntry, b.next)
		copy(out, b.entries[:b.next])
		return out
	}
	out := make([]HTTPLogEntry, 0, len(b.entries))
	out = append(out, b.entries[b.next:]...)
	return append(out, b.entries[:b.next]...)
}

// AccessLog wraps next so every request is logged with its status,
// duration and response size. Entries are also recorded in buf when it is
// non-nil.
func AccessLog(logger *zap.SugaredLogger, buf *HTTPLogBuffer, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)

		entry := HTTPLogEntry{
			Timestamp:  time.Now(),
			Method:     r.Method,
			Path:       r.URL.Path,
			Status:     m.Code,
			Duration:   m.Duration,
			Size:       m.Written,
			RemoteAddr: r.RemoteAddr,
			UserAgent:  r.UserAgent(),
		}
		if buf != nil {
			buf.Add(entry)
		}

		fields := []interface{}{
			"method", entry.Method,
			"path", entry.Path,
			"status", entry.Status,
			"duration_ms", entry.Duration.Milliseconds(),
			"size", entry.Size,
			"remote_addr", entry.RemoteAddr,
		}
		if entry.Status >= 500 {
			logger.Errorw("http request", fields...)
		} else {
			logger.Debugw("http request", fields...)
		}
	})
}
