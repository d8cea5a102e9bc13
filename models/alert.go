package models

import "time"

// AlertEvent describes a dry-plant notification that was dispatched, as
// pushed to dashboard clients.
type AlertEvent struct {
	Sensor   string    `json:"sensor"`
	Moisture int       `json:"moisture"`
	Percent  int       `json:"percent"`
	Message  string    `json:"message"`
	SentAt   time.Time `json:"sent_at"`
}
