// Package logbuf keeps a bounded in-memory buffer of recent log entries
// for display in the dashboard. It plugs into log/slog as a Handler that
// records every entry in the buffer and forwards it to a base handler.
package logbuf

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// MaxEntries is the number of log entries kept in memory.
const MaxEntries = 200

// Entry is one buffered log record in the shape the dashboard expects.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// Buffer is a fixed-capacity FIFO of log entries, newest last.
type Buffer struct {
	mu      sync.Mutex
	entries []Entry
	max     int
}

// NewBuffer creates a buffer holding up to max entries.
func NewBuffer(max int) *Buffer {
	return &Buffer{entries: make([]Entry, 0, max), max: max}
}

func (b *Buffer) add(e Entry) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) >= b.max {
		copy(b.entries, b.entries[1:])
		b.entries[len(b.entries)-1] = e
		return
	}
	b.entries = append(b.entries, e)
}

// Last returns up to n most recent entries, oldest first. n <= 0 returns
// everything buffered.
func (b *Buffer) Last(n int) []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 || n > len(b.entries) {
		n = len(b.entries)
	}
	out := make([]Entry, n)
	copy(out, b.entries[len(b.entries)-n:])
	return out
}

// Handler is a slog.Handler that appends every record to a Buffer and
// delegates to a base handler for normal output.
type Handler struct {
	buf   *Buffer
	base  slog.Handler
	attrs []slog.Attr
}

// NewHandler wraps base so every record also lands in buf.
func NewHandler(buf *Buffer, base slog.Handler) *Handler {
	return &Handler{buf: buf, base: base}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&sb, " %s=%v", a.Key, a.Value)
		return true
	})

	h.buf.add(Entry{
		Timestamp: r.Time.Format(time.DateTime),
		Level:     r.Level.String(),
		Message:   sb.String(),
	})
	return h.base.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &Handler{buf: h.buf, base: h.base.WithAttrs(attrs), attrs: merged}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{buf: h.buf, base: h.base.WithGroup(name), attrs: h.attrs}
}
