package config

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeConfig(t, `{
		"Server": {"host": "127.0.0.1", "port": 8123},
		"Sensors": [
			{"name": "PlantA", "moisture_threshold": 400, "watering_relay_pin": 27, "ip_address": "192.168.1.101"}
		],
		"Telegram": {"bot_token": "tok", "chat_id": "42"}
	}`)

	cfg, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 8123 {
		t.Errorf("server: %+v", cfg.Server)
	}
	if len(cfg.Sensors) != 1 || cfg.Sensors[0].Name != "PlantA" {
		t.Errorf("sensors: %+v", cfg.Sensors)
	}

	// Defaults fill everything the file left out.
	if cfg.Irrigation.WateringDurationSeconds != 5 {
		t.Errorf("watering duration default: got %d", cfg.Irrigation.WateringDurationSeconds)
	}
	if cfg.Alerting.DryThreshold != 700 || !cfg.Alerting.DryWhenAbove {
		t.Errorf("alerting defaults: %+v", cfg.Alerting)
	}
	if !cfg.Arduino.MoistureLowIsDry {
		t.Error("polarity default: want low-is-dry true")
	}
	if cfg.Telegram.LowMoistureAlertIntervalMinutes != 480 {
		t.Errorf("cooldown default: got %d", cfg.Telegram.LowMoistureAlertIntervalMinutes)
	}
}

func TestLoadMissingWritesSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	_, err := Load(path, testLogger())
	if !errors.Is(err, ErrCreatedSample) {
		t.Fatalf("Load on missing file: got %v, want ErrCreatedSample", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("sample not written: %v", err)
	}
	var sample Config
	if err := json.Unmarshal(data, &sample); err != nil {
		t.Fatalf("sample is not valid JSON: %v", err)
	}
	if len(sample.Sensors) == 0 {
		t.Error("sample has no example sensors")
	}

	// The written sample must itself load.
	if _, err := Load(path, testLogger()); err != nil {
		t.Errorf("reloading sample: %v", err)
	}
}

func TestLoadMalformedJSON(t *testing.T) {
	path := writeConfig(t, `{"Server": `)
	if _, err := Load(path, testLogger()); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestDuplicateSensorNamesRejected(t *testing.T) {
	path := writeConfig(t, `{
		"Sensors": [
			{"name": "PlantA", "moisture_threshold": 400},
			{"name": "PlantA", "moisture_threshold": 500}
		]
	}`)

	if _, err := Load(path, testLogger()); err == nil {
		t.Fatal("expected error for duplicate sensor names")
	}
}

func TestNamelessSensorSkipped(t *testing.T) {
	path := writeConfig(t, `{
		"Sensors": [
			{"moisture_threshold": 400, "ip_address": "192.168.1.50"},
			{"name": "PlantB", "moisture_threshold": 350}
		]
	}`)

	cfg, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Sensors) != 1 || cfg.Sensors[0].Name != "PlantB" {
		t.Errorf("sensors after skipping nameless entry: %+v", cfg.Sensors)
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `{"Telegram": {"bot_token": "from-file", "chat_id": "1"}}`)

	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")
	t.Setenv("PORT", "9999")

	cfg, err := Load(path, testLogger())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.BotToken != "from-env" {
		t.Errorf("bot token: got %q, want env override", cfg.Telegram.BotToken)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port: got %d, want 9999", cfg.Server.Port)
	}
}
