// Package registry holds the live in-memory state of every configured
// sensor. Membership is fixed at startup; only field values mutate as
// readings arrive.
package registry

import (
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/n0S3curity/AquaGrow/config"
	"github.com/n0S3curity/AquaGrow/history"
	"github.com/n0S3curity/AquaGrow/models"
)

const historyCapacity = 50

type sensor struct {
	name              string
	ipAddress         string
	moistureThreshold int
	wateringRelayPin  int
	currentMoisture   *int
	lastUpdated       *time.Time
	status            models.SensorStatus
	history           *history.Buffer
}

// Registry maps sensor names to live sensor state. All mutation goes
// through ApplyReading under the write lock; readers get snapshots.
type Registry struct {
	mu       sync.RWMutex
	sensors  map[string]*sensor
	order    []string
	lowIsDry bool
	log      *slog.Logger
	now      func() time.Time
}

// New builds the registry from the validated sensor configuration.
// Entries without a name were already dropped during config validation.
func New(configs []config.SensorConfig, lowIsDry bool, log *slog.Logger) *Registry {
	r := &Registry{
		sensors:  make(map[string]*sensor, len(configs)),
		lowIsDry: lowIsDry,
		log:      log,
		now:      time.Now,
	}
	for _, c := range configs {
		if c.Name == "" {
			log.Error("sensor configuration missing 'name', skipping", "ip", c.IPAddress)
			continue
		}
		r.sensors[c.Name] = &sensor{
			name:              c.Name,
			ipAddress:         c.IPAddress,
			moistureThreshold: c.MoistureThreshold,
			wateringRelayPin:  c.WateringRelayPin,
			status:            models.StatusInitializing,
			history:           history.NewBuffer(historyCapacity),
		}
		r.order = append(r.order, c.Name)
		log.Info("initialized sensor", "name", c.Name, "threshold", c.MoistureThreshold)
	}
	return r
}

// ApplyReading records a raw reading for a sensor. It returns false when
// the sensor is unknown; unknown sensors are never auto-created. A value
// that does not parse as an integer marks the sensor's data invalid and
// is kept out of the numeric history.
func (r *Registry) ApplyReading(name, rawValue, ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sensors[name]
	if !ok {
		r.log.Warn("attempted to update unknown sensor", "name", name)
		return false
	}

	now := r.now()
	s.lastUpdated = &now
	if ip != "" {
		s.ipAddress = ip
	}

	value, err := strconv.Atoi(rawValue)
	if err != nil {
		s.currentMoisture = nil
		s.status = models.StatusInvalidData
		r.log.Warn("invalid moisture value", "name", name, "value", rawValue)
		return true
	}

	s.currentMoisture = &value
	s.history.Push(value, now)

	if r.isDry(value, s.moistureThreshold) {
		s.status = models.StatusDry
		r.log.Warn("moisture level past threshold",
			"name", name, "value", value, "threshold", s.moistureThreshold)
	} else {
		s.status = models.StatusOptimal
	}
	return true
}

// isDry applies the configured sensor polarity.
func (r *Registry) isDry(value, threshold int) bool {
	if r.lowIsDry {
		return value < threshold
	}
	return value > threshold
}

// Get returns a snapshot of one sensor.
func (r *Registry) Get(name string) (models.SensorSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sensors[name]
	if !ok {
		return models.SensorSnapshot{}, false
	}
	return s.snapshot(), true
}

// GetAll returns snapshots of every sensor in registration order.
func (r *Registry) GetAll() []models.SensorSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.SensorSnapshot, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.sensors[name].snapshot())
	}
	return out
}

// IP returns the last known address of a sensor.
func (r *Registry) IP(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sensors[name]
	if !ok {
		return "", false
	}
	return s.ipAddress, true
}

// RelayPin returns the configured watering relay pin of a sensor.
func (r *Registry) RelayPin(name string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sensors[name]
	if !ok {
		return 0, false
	}
	return s.wateringRelayPin, true
}

func (s *sensor) snapshot() models.SensorSnapshot {
	snap := models.SensorSnapshot{
		Name:              s.name,
		Status:            s.status,
		MoistureThreshold: s.moistureThreshold,
		WateringRelayPin:  s.wateringRelayPin,
		IPAddress:         s.ipAddress,
		MoistureHistory:   s.history.Snapshot(),
	}
	if s.currentMoisture != nil {
		v := *s.currentMoisture
		snap.CurrentMoisture = &v
	}
	if s.lastUpdated != nil {
		t := *s.lastUpdated
		snap.LastUpdated = &t
	}
	return snap
}
