// Package config loads and validates the application configuration from
// config.json. A missing file is a fatal startup condition: a usable
// sample is written next to the binary so the operator can fill it in.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string `mapstructure:"host" json:"host"`
	Port int    `mapstructure:"port" json:"port"`
}

type ArduinoConfig struct {
	ExpectedDataFormat string `mapstructure:"expected_data_format" json:"expected_data_format"`
	MoistureUnit       string `mapstructure:"moisture_unit" json:"moisture_unit"`
	// MoistureLowIsDry selects the sensor polarity for status derivation:
	// true means a reading below the threshold marks the plant dry. Some
	// analog moisture sensors report inversely; flip this for those.
	MoistureLowIsDry bool `mapstructure:"moisture_low_is_dry" json:"moisture_low_is_dry"`
}

type GUIConfig struct {
	DataRefreshIntervalMS int `mapstructure:"data_refresh_interval_ms" json:"data_refresh_interval_ms"`
	LogDisplayLimit       int `mapstructure:"log_display_limit" json:"log_display_limit"`
}

type IrrigationConfig struct {
	WateringDurationSeconds int `mapstructure:"watering_duration_seconds" json:"watering_duration_seconds"`
}

type SensorConfig struct {
	Name              string `mapstructure:"name" json:"name"`
	MoistureThreshold int    `mapstructure:"moisture_threshold" json:"moisture_threshold"`
	WateringRelayPin  int    `mapstructure:"watering_relay_pin" json:"watering_relay_pin"`
	IPAddress         string `mapstructure:"ip_address" json:"ip_address"`
}

type TelegramConfig struct {
	BotToken                        string `mapstructure:"bot_token" json:"bot_token"`
	ChatID                          string `mapstructure:"chat_id" json:"chat_id"`
	LowMoistureAlertIntervalMinutes int    `mapstructure:"low_moisture_alert_interval_minutes" json:"low_moisture_alert_interval_minutes"`
}

type AlertingConfig struct {
	// DryThreshold is the raw reading at which the alert loop considers a
	// plant dry. DryWhenAbove keeps the original convention of a high
	// analog value meaning dry soil.
	DryThreshold        int  `mapstructure:"dry_threshold" json:"dry_threshold"`
	DryWhenAbove        bool `mapstructure:"dry_when_above" json:"dry_when_above"`
	ScanIntervalSeconds int  `mapstructure:"scan_interval_seconds" json:"scan_interval_seconds"`
}

type SimulatorConfig struct {
	Enabled         bool `mapstructure:"enabled" json:"enabled"`
	IntervalSeconds int  `mapstructure:"interval_seconds" json:"interval_seconds"`
	MinMoisture     int  `mapstructure:"min_moisture" json:"min_moisture"`
	MaxMoisture     int  `mapstructure:"max_moisture" json:"max_moisture"`
}

// Config is the single typed configuration structure, validated once at
// startup and passed by reference to the components that need it.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" json:"Server"`
	Arduino    ArduinoConfig    `mapstructure:"arduino" json:"Arduino"`
	GUI        GUIConfig        `mapstructure:"gui" json:"GUI"`
	Irrigation IrrigationConfig `mapstructure:"irrigation" json:"Irrigation"`
	Sensors    []SensorConfig   `mapstructure:"sensors" json:"Sensors"`
	Telegram   TelegramConfig   `mapstructure:"telegram" json:"Telegram"`
	Alerting   AlertingConfig   `mapstructure:"alerting" json:"Alerting"`
	Simulator  SimulatorConfig  `mapstructure:"simulator" json:"Simulator"`
}

// ErrCreatedSample reports that no config file existed and a sample was
// written for the operator to edit. The process should exit.
var ErrCreatedSample = errors.New("config file not found, sample created")

// Load reads the configuration file at path. On a missing file it writes
// a sample config and returns ErrCreatedSample.
func Load(path string, log *slog.Logger) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Error("config file not found, creating a sample", "path", path)
			if werr := writeSample(path); werr != nil {
				return nil, fmt.Errorf("could not create sample config: %w", werr)
			}
			log.Info("created a sample config, please review and update it", "path", path)
			return nil, ErrCreatedSample
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	if err := cfg.validate(log); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()

	log.Info("configuration loaded", "path", path, "sensors", len(cfg.Sensors))
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5000)
	v.SetDefault("arduino.expected_data_format", "JSON")
	v.SetDefault("arduino.moisture_unit", "Analog (0-1023)")
	v.SetDefault("arduino.moisture_low_is_dry", true)
	v.SetDefault("gui.data_refresh_interval_ms", 2000)
	v.SetDefault("gui.log_display_limit", 50)
	v.SetDefault("irrigation.watering_duration_seconds", 5)
	v.SetDefault("telegram.low_moisture_alert_interval_minutes", 480)
	v.SetDefault("alerting.dry_threshold", 700)
	v.SetDefault("alerting.dry_when_above", true)
	v.SetDefault("alerting.scan_interval_seconds", 5)
	v.SetDefault("simulator.enabled", false)
	v.SetDefault("simulator.interval_seconds", 10)
	v.SetDefault("simulator.min_moisture", 200)
	v.SetDefault("simulator.max_moisture", 900)
}

// validate drops sensor entries without a name and rejects duplicates.
func (c *Config) validate(log *slog.Logger) error {
	seen := make(map[string]bool, len(c.Sensors))
	kept := c.Sensors[:0]
	for _, s := range c.Sensors {
		if s.Name == "" {
			log.Error("sensor configuration missing 'name', skipping entry", "ip", s.IPAddress)
			continue
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate sensor name %q in configuration", s.Name)
		}
		seen[s.Name] = true
		kept = append(kept, s)
	}
	c.Sensors = kept
	return nil
}

// applyEnvOverrides lets deployment secrets come from the environment
// instead of the config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
}

func writeSample(path string) error {
	sample := Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 5000},
		Arduino: ArduinoConfig{
			ExpectedDataFormat: "JSON",
			MoistureUnit:       "Analog (0-1023)",
			MoistureLowIsDry:   true,
		},
		GUI:        GUIConfig{DataRefreshIntervalMS: 2000, LogDisplayLimit: 50},
		Irrigation: IrrigationConfig{WateringDurationSeconds: 5},
		Sensors: []SensorConfig{
			{Name: "PlantA", MoistureThreshold: 400, WateringRelayPin: 27, IPAddress: "192.168.1.101"},
			{Name: "PlantB", MoistureThreshold: 350, WateringRelayPin: 26, IPAddress: "192.168.1.102"},
		},
		Telegram: TelegramConfig{
			BotToken:                        "YOUR_TELEGRAM_BOT_TOKEN",
			ChatID:                          "YOUR_CHAT_ID",
			LowMoistureAlertIntervalMinutes: 480,
		},
		Alerting:  AlertingConfig{DryThreshold: 700, DryWhenAbove: true, ScanIntervalSeconds: 5},
		Simulator: SimulatorConfig{Enabled: false, IntervalSeconds: 10, MinMoisture: 200, MaxMoisture: 900},
	}

	data, err := json.MarshalIndent(sample, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
