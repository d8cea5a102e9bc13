package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/n0S3curity/AquaGrow/logbuf"
	"github.com/n0S3curity/AquaGrow/models"
	"github.com/n0S3curity/AquaGrow/registry"
	"github.com/n0S3curity/AquaGrow/services"
	"github.com/n0S3curity/AquaGrow/store"
)

// SensorController holds the dependencies of the HTTP handlers. Handlers
// only map requests and responses; the work happens in the services.
type SensorController struct {
	Registry *registry.Registry
	Store    *store.Store
	Ingest   *services.Ingestor
	Watering *services.Coordinator
	Logs     *logbuf.Buffer
	LogLimit int
	Log      *slog.Logger
}

// GetAllStatus returns the full persisted sensor-state mapping.
func (sc *SensorController) GetAllStatus(c *gin.Context) {
	snap, err := sc.Store.Load()
	if err != nil {
		if errors.Is(err, store.ErrMissing) {
			c.JSON(http.StatusOK, gin.H{})
			return
		}
		sc.Log.Error("loading sensor state failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Sensor state is unreadable"})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetSensorStatus returns one sensor's live registry snapshot.
func (sc *SensorController) GetSensorStatus(c *gin.Context) {
	name := c.Param("name")
	snap, ok := sc.Registry.Get(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Sensor '%s' not found", name)})
		return
	}
	c.JSON(http.StatusOK, snap)
}

// UpdateSensor ingests one reading reported via query parameters. A
// non-integer moisture value gets the same 400 as a missing parameter,
// matching what devices in the field already expect.
func (sc *SensorController) UpdateSensor(c *gin.Context) {
	name := c.Query("name")
	ip := c.Query("ip")
	moisture := c.Query("moisture")

	sc.Log.Info("received sensor update request", "name", name, "ip", ip, "moisture", moisture)

	if name == "" || ip == "" || moisture == "" {
		c.String(http.StatusBadRequest, "Missing parameters (name, ip, moisture)")
		return
	}

	switch sc.Ingest.Ingest(name, moisture, ip) {
	case services.InvalidValue:
		c.String(http.StatusBadRequest, "Missing parameters (name, ip, moisture)")
	case services.UnknownSensor:
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Sensor '%s' not found", name)})
	default:
		c.String(http.StatusOK, "OK")
	}
}

// ReceiveArduinoData ingests one reading posted by a device. The request
// source address becomes the sensor's last known address.
func (sc *SensorController) ReceiveArduinoData(c *gin.Context) {
	var data models.ArduinoData
	if err := c.ShouldBindJSON(&data); err != nil || data.SensorName == nil || data.Moisture == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or missing fields", "status": "error"})
		return
	}

	name := *data.SensorName
	moisture := strconv.Itoa(int(*data.Moisture))

	switch sc.Ingest.Ingest(name, moisture, c.ClientIP()) {
	case services.InvalidValue:
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid moisture value", "status": "error"})
	case services.UnknownSensor:
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Sensor '%s' not found", name), "status": "error"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Data received", "status": "success"})
	}
}

// Water triggers watering for the named sensors. The response is 200
// whenever any attempt was made; per-sensor success or failure lives in
// the payload.
func (sc *SensorController) Water(c *gin.Context) {
	var req models.WaterRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.SensorNames) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "sensor_names list is required"})
		return
	}

	results := sc.Watering.Water(c.Request.Context(), req.SensorNames)
	c.JSON(http.StatusOK, results)
}

// GetLogs returns the most recent buffered log entries.
func (sc *SensorController) GetLogs(c *gin.Context) {
	limit := sc.LogLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	c.JSON(http.StatusOK, sc.Logs.Last(limit))
}
