package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/n0S3curity/AquaGrow/config"
	"github.com/n0S3curity/AquaGrow/models"
	"github.com/n0S3curity/AquaGrow/registry"
)

func testRegistry() *registry.Registry {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return registry.New([]config.SensorConfig{
		{Name: "A", MoistureThreshold: 400, WateringRelayPin: 27, IPAddress: "192.168.1.101"},
		{Name: "B", MoistureThreshold: 350, WateringRelayPin: 26, IPAddress: "192.168.1.102"},
	}, true, log)
}

func TestWaterKnownAndUnknownMix(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cmd := NewSimCommander()
	c := NewCoordinator(testRegistry(), cmd, 5, log)

	results := c.Water(context.Background(), []string{"A", "Ghost"})

	if len(results) != 2 {
		t.Fatalf("results: got %d entries, want 2", len(results))
	}
	if results["A"].Status != models.WaterSuccess {
		t.Errorf("A: got %+v, want Success", results["A"])
	}
	if results["Ghost"].Status != models.WaterError {
		t.Errorf("Ghost: got %+v, want Error", results["Ghost"])
	}
	if !strings.Contains(results["Ghost"].Message, "not found") {
		t.Errorf("Ghost message: got %q, want it to mention not found", results["Ghost"].Message)
	}
	if len(cmd.Calls) != 1 || cmd.Calls[0] != "192.168.1.101" {
		t.Errorf("commands issued: got %v, want only A's device", cmd.Calls)
	}
}

func TestWaterFailureDoesNotAbortOthers(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cmd := NewSimCommander()
	cmd.FailWith("192.168.1.101", errors.New("relay stuck"))
	c := NewCoordinator(testRegistry(), cmd, 5, log)

	results := c.Water(context.Background(), []string{"A", "B"})

	if results["A"].Status != models.WaterError {
		t.Errorf("A: got %+v, want Error", results["A"])
	}
	if results["B"].Status != models.WaterSuccess {
		t.Errorf("B after A failed: got %+v, want Success", results["B"])
	}
	if len(cmd.Calls) != 2 {
		t.Errorf("commands issued: got %d, want 2", len(cmd.Calls))
	}
}

func TestWaterEmptyNames(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	c := NewCoordinator(testRegistry(), NewSimCommander(), 5, log)

	results := c.Water(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("results for empty request: got %v, want none", results)
	}
}
