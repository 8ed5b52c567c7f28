package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Geocoder GeocoderConfig
	Map      MapConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// GeocoderConfig holds reverse-geocoding settings.
type GeocoderConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// MapConfig holds map interaction settings.
type MapConfig struct {
	StepDegrees  float64 `mapstructure:"step_degrees"`  // cursor movement per key press
	RadiusMeters float64 `mapstructure:"radius_meters"` // geofence radius around a focus area
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string `mapstructure:"date_format"`
}

// Load reads configuration from file and env. Env var overrides use prefix HUSH_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "hush", "hush.db"))
	v.SetDefault("geocoder.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocoder.timeout_seconds", 10)
	v.SetDefault("map.step_degrees", 0.0005)
	v.SetDefault("map.radius_meters", 200.0)
	v.SetDefault("ui.date_format", "02 Jan 2006")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("HUSH_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "hush"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("HUSH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
