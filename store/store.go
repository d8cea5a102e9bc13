// Package store persists the externally-visible sensor state as a single
// JSON document (sensors.json). Writes replace the whole document
// atomically via a temp file and rename, and the read-modify-write path
// is serialized behind a mutex so concurrent updates cannot lose data.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const historyLimit = 50

// ErrMissing reports that no state file exists yet.
var ErrMissing = errors.New("sensor state file does not exist")

// ErrCorrupt reports that the state file exists but cannot be decoded.
var ErrCorrupt = errors.New("sensor state file is corrupt")

// HistoryEntry is one persisted reading, timestamped in UTC at second
// precision.
type HistoryEntry struct {
	Timestamp string `json:"timestamp"`
	Moisture  int    `json:"moisture"`
}

// SensorRecord is the persisted view of one sensor.
type SensorRecord struct {
	IP       string         `json:"ip"`
	Moisture int            `json:"moisture"`
	History  []HistoryEntry `json:"history"`
}

// Snapshot maps sensor name to its persisted record.
type Snapshot map[string]SensorRecord

// Store owns the state file.
type Store struct {
	mu   sync.Mutex
	path string
	log  *slog.Logger
	now  func() time.Time
}

// New creates a store backed by the file at path.
func New(path string, log *slog.Logger) *Store {
	return &Store{path: path, log: log, now: time.Now}
}

// Load reads the full snapshot. A missing file yields ErrMissing and a
// decode failure yields ErrCorrupt; callers decide how hard to fail.
func (s *Store) Load() (Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrMissing
		}
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return snap, nil
}

// Save writes the full snapshot atomically: the document is written to a
// temp file in the same directory and renamed over the target, so a
// reader never sees a truncated file.
func (s *Store) Save(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}

// ApplyUpdate records a reading for one sensor: load, update the entry,
// append a history record, write back. Unreadable current state degrades
// to an empty snapshot rather than failing the update.
func (s *Store) ApplyUpdate(name, ip string, moisture int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.Load()
	if err != nil {
		if !errors.Is(err, ErrMissing) {
			s.log.Warn("state file unreadable, starting from empty snapshot", "error", err)
		}
		snap = Snapshot{}
	}

	rec := snap[name]
	if ip != "" {
		rec.IP = ip
	}
	rec.Moisture = moisture

	ts := s.now().UTC().Format("2006-01-02T15:04:05Z")
	rec.History = append(rec.History, HistoryEntry{Timestamp: ts, Moisture: moisture})
	if len(rec.History) > historyLimit {
		rec.History = rec.History[len(rec.History)-historyLimit:]
	}
	snap[name] = rec

	return s.Save(snap)
}
