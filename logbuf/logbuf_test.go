package logbuf

import (
	"io"
	"log/slog"
	"strings"
	"testing"
)

func newTestLogger(buf *Buffer) *slog.Logger {
	base := slog.NewTextHandler(io.Discard, nil)
	return slog.New(NewHandler(buf, base))
}

func TestBufferEviction(t *testing.T) {
	buf := NewBuffer(3)
	log := newTestLogger(buf)

	log.Info("one")
	log.Info("two")
	log.Info("three")
	log.Info("four")

	entries := buf.Last(0)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Message != "two" || entries[2].Message != "four" {
		t.Errorf("unexpected order: %q .. %q", entries[0].Message, entries[2].Message)
	}
}

func TestLastLimit(t *testing.T) {
	buf := NewBuffer(10)
	log := newTestLogger(buf)

	log.Info("a")
	log.Warn("b")
	log.Error("c")

	entries := buf.Last(2)
	if len(entries) != 2 {
		t.Fatalf("Last(2): got %d entries", len(entries))
	}
	if entries[0].Message != "b" || entries[1].Message != "c" {
		t.Errorf("Last(2): got %q, %q; want b, c", entries[0].Message, entries[1].Message)
	}
	if entries[1].Level != "ERROR" {
		t.Errorf("level: got %q, want ERROR", entries[1].Level)
	}

	if got := buf.Last(50); len(got) != 3 {
		t.Errorf("Last(50): got %d entries, want 3", len(got))
	}
}

func TestAttrsRenderedIntoMessage(t *testing.T) {
	buf := NewBuffer(5)
	log := newTestLogger(buf)

	log.Warn("moisture below threshold", "sensor", "PlantA", "value", 300)

	entries := buf.Last(1)
	if len(entries) != 1 {
		t.Fatal("expected one entry")
	}
	msg := entries[0].Message
	if !strings.Contains(msg, "sensor=PlantA") || !strings.Contains(msg, "value=300") {
		t.Errorf("attrs missing from message: %q", msg)
	}
}
