package services

import (
	"context"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/n0S3curity/AquaGrow/config"
)

// Simulator feeds randomized readings for every configured sensor
// through the normal ingestion path, standing in for real devices during
// development.
type Simulator struct {
	ingest   *Ingestor
	names    []string
	interval time.Duration
	min, max int
	log      *slog.Logger
	rng      *rand.Rand
}

// NewSimulator wires the reading generator from the simulator config.
func NewSimulator(ing *Ingestor, cfg *config.Config, log *slog.Logger) *Simulator {
	names := make([]string, 0, len(cfg.Sensors))
	for _, s := range cfg.Sensors {
		names = append(names, s.Name)
	}
	return &Simulator{
		ingest:   ing,
		names:    names,
		interval: time.Duration(cfg.Simulator.IntervalSeconds) * time.Second,
		min:      cfg.Simulator.MinMoisture,
		max:      cfg.Simulator.MaxMoisture,
		log:      log,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run emits one reading per sensor each interval until ctx is cancelled.
func (s *Simulator) Run(ctx context.Context) {
	s.log.Info("reading simulator started", "interval", s.interval, "sensors", len(s.names))
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("reading simulator stopping")
			return
		case <-ticker.C:
			for _, name := range s.names {
				value := s.min + s.rng.Intn(s.max-s.min+1)
				if res := s.ingest.Ingest(name, strconv.Itoa(value), ""); res != Accepted {
					s.log.Warn("simulated reading rejected", "name", name, "result", res.String())
				}
			}
		}
	}
}
