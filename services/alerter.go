package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/n0S3curity/AquaGrow/config"
	"github.com/n0S3curity/AquaGrow/models"
	"github.com/n0S3curity/AquaGrow/store"
)

const (
	corruptBackoff = 10 * time.Second
	missingBackoff = 30 * time.Second
	analogMax      = 1023
)

// Notifier delivers one chat message. A non-nil error means the message
// did not go out and may be retried.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// Alerter periodically scans the persisted sensor state and sends at
// most one dry-plant notification per sensor per cooldown window. The
// cooldown for a sensor is only reset by a successful send, never by
// moisture returning to normal, so a sensor oscillating around the
// threshold does not spam alerts.
type Alerter struct {
	store    *store.Store
	notifier Notifier
	hub      Broadcaster
	log      *slog.Logger

	interval     time.Duration
	cooldown     time.Duration
	dryThreshold int
	dryWhenAbove bool

	lastSent map[string]time.Time
	now      func() time.Time
}

// NewAlerter wires the dry-plant alert loop. hub may be nil.
func NewAlerter(st *store.Store, n Notifier, hub Broadcaster, cfg *config.Config, log *slog.Logger) *Alerter {
	return &Alerter{
		store:        st,
		notifier:     n,
		hub:          hub,
		log:          log,
		interval:     time.Duration(cfg.Alerting.ScanIntervalSeconds) * time.Second,
		cooldown:     time.Duration(cfg.Telegram.LowMoistureAlertIntervalMinutes) * time.Minute,
		dryThreshold: cfg.Alerting.DryThreshold,
		dryWhenAbove: cfg.Alerting.DryWhenAbove,
		lastSent:     make(map[string]time.Time),
		now:          time.Now,
	}
}

// Run scans until ctx is cancelled. Scan errors never terminate the
// loop; they log and back off.
func (a *Alerter) Run(ctx context.Context) {
	a.log.Info("dry-plant alerter started",
		"interval", a.interval, "cooldown", a.cooldown,
		"dry_threshold", a.dryThreshold, "dry_when_above", a.dryWhenAbove)

	for {
		wait := a.scanOnce(ctx)
		select {
		case <-ctx.Done():
			a.log.Info("dry-plant alerter stopping")
			return
		case <-time.After(wait):
		}
	}
}

// scanOnce checks every persisted sensor and returns how long to wait
// before the next scan.
func (a *Alerter) scanOnce(ctx context.Context) time.Duration {
	snap, err := a.store.Load()
	if err != nil {
		switch {
		case errors.Is(err, store.ErrMissing):
			a.log.Warn("sensor state file not found, waiting for first reading")
			return missingBackoff
		case errors.Is(err, store.ErrCorrupt):
			a.log.Error("sensor state file corrupt", "error", err)
			return corruptBackoff
		default:
			a.log.Error("reading sensor state failed", "error", err)
			return corruptBackoff
		}
	}

	// Stable order keeps logs and retry behavior deterministic.
	names := make([]string, 0, len(snap))
	for name := range snap {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a.checkSensor(ctx, name, snap[name].Moisture)
	}
	return a.interval
}

func (a *Alerter) checkSensor(ctx context.Context, name string, moisture int) {
	if !a.isDry(moisture) {
		a.log.Debug("sensor not dry", "name", name, "moisture", moisture)
		return
	}

	now := a.now()
	if last, ok := a.lastSent[name]; ok && now.Sub(last) <= a.cooldown {
		a.log.Info("skipping alert, sent recently", "name", name, "last_sent", last)
		return
	}

	percent := moisture * 100 / analogMax
	msg := fmt.Sprintf("Dry plant detected: %s with moisture level %d, %d%%", name, moisture, percent)
	a.log.Info("dry plant detected", "name", name, "moisture", moisture)

	if err := a.notifier.Send(ctx, msg); err != nil {
		// Leave lastSent untouched so the next scan retries immediately.
		a.log.Error("failed to send alert", "name", name, "error", err)
		return
	}

	a.lastSent[name] = now
	a.log.Info("alert sent", "name", name)

	if a.hub != nil {
		a.hub.BroadcastAlert(models.AlertEvent{
			Sensor:   name,
			Moisture: moisture,
			Percent:  percent,
			Message:  msg,
			SentAt:   now,
		})
	}
}

func (a *Alerter) isDry(moisture int) bool {
	if a.dryWhenAbove {
		return moisture >= a.dryThreshold
	}
	return moisture <= a.dryThreshold
}
