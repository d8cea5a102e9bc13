package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/n0S3curity/AquaGrow/models"
	"github.com/n0S3curity/AquaGrow/registry"
)

const commandTimeout = 5 * time.Second

// Commander issues a watering command to a device. Implementations talk
// to real hardware over the network or simulate the outcome in tests.
type Commander interface {
	SendCommand(ctx context.Context, ip string, durationSeconds, pin int) error
}

// Coordinator executes watering commands against one or more sensors and
// aggregates per-sensor outcomes. One sensor failing never aborts the
// remaining sensors.
type Coordinator struct {
	registry  *registry.Registry
	commander Commander
	duration  int
	log       *slog.Logger
}

// NewCoordinator wires the watering coordinator. durationSeconds comes
// from the irrigation configuration.
func NewCoordinator(reg *registry.Registry, cmd Commander, durationSeconds int, log *slog.Logger) *Coordinator {
	return &Coordinator{registry: reg, commander: cmd, duration: durationSeconds, log: log}
}

// Water issues a watering command to every named sensor and returns the
// per-sensor results keyed by name.
func (c *Coordinator) Water(ctx context.Context, names []string) map[string]models.WaterResult {
	results := make(map[string]models.WaterResult, len(names))
	for _, name := range names {
		results[name] = c.waterOne(ctx, name)
	}
	return results
}

func (c *Coordinator) waterOne(ctx context.Context, name string) models.WaterResult {
	ip, ok := c.registry.IP(name)
	if !ok {
		return models.WaterResult{
			Status:  models.WaterError,
			Message: fmt.Sprintf("Sensor '%s' not found", name),
		}
	}
	pin, _ := c.registry.RelayPin(name)

	cmdCtx, cancel := context.WithTimeout(ctx, commandTimeout)
	defer cancel()

	if err := c.commander.SendCommand(cmdCtx, ip, c.duration, pin); err != nil {
		c.log.Error("watering command failed", "name", name, "ip", ip, "error", err)
		return models.WaterResult{
			Status:  models.WaterError,
			Message: fmt.Sprintf("Watering command failed: %v", err),
		}
	}

	c.log.Info("watering command sent", "name", name, "ip", ip, "duration_seconds", c.duration, "pin", pin)
	return models.WaterResult{
		Status:  models.WaterSuccess,
		Message: fmt.Sprintf("Watering '%s' for %d seconds", name, c.duration),
	}
}
