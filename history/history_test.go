package history

import (
	"testing"
	"time"
)

func TestPushEvictsOldest(t *testing.T) {
	b := NewBuffer(5)
	now := time.Now()

	for i := 0; i < 7; i++ {
		b.Push(300+i, now.Add(time.Duration(i)*time.Second))
	}

	if b.Len() != 5 {
		t.Errorf("Len: got %d, want 5", b.Len())
	}

	last, ok := b.Last()
	if !ok || last.Value != 306 {
		t.Errorf("Last: got %v (%v), want 306", last.Value, ok)
	}

	snap := b.Snapshot()
	if snap[0].Value != 302 {
		t.Errorf("oldest after eviction: got %d, want 302", snap[0].Value)
	}
}

func TestLastOnEmpty(t *testing.T) {
	b := NewBuffer(3)
	if _, ok := b.Last(); ok {
		t.Error("Last on empty buffer: got ok=true, want false")
	}
	if b.Len() != 0 {
		t.Errorf("Len on empty buffer: got %d, want 0", b.Len())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	b := NewBuffer(3)
	b.Push(500, time.Now())

	snap := b.Snapshot()
	snap[0].Value = 0

	last, _ := b.Last()
	if last.Value != 500 {
		t.Errorf("mutating snapshot leaked into buffer: got %d, want 500", last.Value)
	}
}
