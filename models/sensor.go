package models

import "time"

// SensorStatus is the derived state of a sensor, recomputed on every
// reading from the current moisture and the configured threshold.
type SensorStatus string

const (
	StatusInitializing SensorStatus = "Initializing..."
	StatusOptimal      SensorStatus = "Optimal"
	StatusDry          SensorStatus = "DRY - Needs Water!"
	StatusInvalidData  SensorStatus = "Invalid Data"
)

// HistoryPoint is one past reading of a sensor.
type HistoryPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     int       `json:"value"`
}

// SensorSnapshot is a point-in-time copy of a sensor's live state as
// served by the status API. CurrentMoisture and LastUpdated are nil
// until the first reading arrives.
type SensorSnapshot struct {
	Name              string         `json:"name"`
	CurrentMoisture   *int           `json:"current_moisture"`
	LastUpdated       *time.Time     `json:"last_updated"`
	Status            SensorStatus   `json:"status"`
	MoistureThreshold int            `json:"moisture_threshold"`
	WateringRelayPin  int            `json:"watering_relay_pin"`
	IPAddress         string         `json:"ip_address"`
	MoistureHistory   []HistoryPoint `json:"moisture_history"`
}
