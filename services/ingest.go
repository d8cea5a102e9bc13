// Package services holds the background loops and coordination logic:
// reading ingestion, watering commands, the dry-plant alerter and the
// simulated reading generator.
package services

import (
	"log/slog"
	"strconv"
	"sync"

	"github.com/n0S3curity/AquaGrow/models"
	"github.com/n0S3curity/AquaGrow/registry"
	"github.com/n0S3curity/AquaGrow/store"
)

// Result classifies the outcome of an ingestion attempt.
type Result int

const (
	Accepted Result = iota
	UnknownSensor
	InvalidValue
)

func (r Result) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case UnknownSensor:
		return "unknown sensor"
	case InvalidValue:
		return "invalid value"
	default:
		return "unknown result"
	}
}

// Broadcaster pushes live events to connected dashboard clients.
type Broadcaster interface {
	BroadcastUpdate(snap models.SensorSnapshot)
	BroadcastAlert(event models.AlertEvent)
}

// Ingestor is the single entry point for new readings, whether they come
// from a reporting device or the simulator. The registry and store
// mutations for one reading happen under one mutex so a sensor's updates
// are applied in acceptance order everywhere.
type Ingestor struct {
	mu       sync.Mutex
	registry *registry.Registry
	store    *store.Store
	hub      Broadcaster
	log      *slog.Logger
}

// NewIngestor wires the ingestion service. hub may be nil.
func NewIngestor(reg *registry.Registry, st *store.Store, hub Broadcaster, log *slog.Logger) *Ingestor {
	return &Ingestor{registry: reg, store: st, hub: hub, log: log}
}

// Ingest validates and applies one reading. ip may be empty, in which
// case the sensor keeps its last known address.
func (i *Ingestor) Ingest(name, moisture, ip string) Result {
	value, err := strconv.Atoi(moisture)
	if err != nil {
		i.log.Warn("rejecting non-integer moisture value", "name", name, "moisture", moisture)
		return InvalidValue
	}

	i.mu.Lock()
	if !i.registry.ApplyReading(name, moisture, ip) {
		i.mu.Unlock()
		return UnknownSensor
	}
	if err := i.store.ApplyUpdate(name, ip, value); err != nil {
		// The live registry already has the reading; losing one snapshot
		// write is not a caller error.
		i.log.Error("persisting sensor update failed", "name", name, "error", err)
	}
	i.mu.Unlock()

	if i.hub != nil {
		if snap, ok := i.registry.Get(name); ok {
			i.hub.BroadcastUpdate(snap)
		}
	}
	return Accepted
}
