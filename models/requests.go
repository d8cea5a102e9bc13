package models

// ArduinoData is the body a reporting device posts to /arduino/data.
// Pointer fields distinguish missing from zero.
type ArduinoData struct {
	SensorName *string  `json:"sensor_name"`
	Moisture   *float64 `json:"moisture"`
}

// WaterRequest is the body of POST /api/water.
type WaterRequest struct {
	SensorNames []string `json:"sensor_names"`
}

// WaterResult is the per-sensor outcome of a watering request.
type WaterResult struct {
	Status  string `json:"status"` // "Success" or "Error"
	Message string `json:"message"`
}

const (
	WaterSuccess = "Success"
	WaterError   = "Error"
)
