package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Default port names as the nanoKONTROL2 driver announces them
const (
	DefaultInputPort  = "nanoKONTROL2"
	DefaultOutputPort = "nanoKONTROL2"
)

// DeviceConfig selects the controller's MIDI ports
type DeviceConfig struct {
	InputPort     string `json:"inputPort"`  // substring match, case-insensitive
	OutputPort    string `json:"outputPort"` // substring match, case-insensitive
	GlobalChannel uint8  `json:"globalChannel"`
	ScanTimeoutMS int    `json:"scanTimeoutMs,omitempty"`
}

// UIConfig stores monitor preferences
type UIConfig struct {
	RequestSceneOnStart bool   `json:"requestSceneOnStart"`
	NativeMode          bool   `json:"nativeMode,omitempty"`
	Palette             string `json:"palette,omitempty"` // GIMP .gpl file, empty for the built-in one
}

// Config is the main configuration structure
type Config struct {
	Device DeviceConfig `json:"device"`
	UI     UIConfig     `json:"ui"`
	Debug  bool         `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			InputPort:     DefaultInputPort,
			OutputPort:    DefaultOutputPort,
			ScanTimeoutMS: 3000,
		},
		UI: UIConfig{
			RequestSceneOnStart: true,
		},
	}
}

// ScanTimeout returns how long a port scan may take before giving up
func (d DeviceConfig) ScanTimeout() time.Duration {
	if d.ScanTimeoutMS <= 0 {
		return 3 * time.Second
	}
	return time.Duration(d.ScanTimeoutMS) * time.Millisecond
}

// Validate checks values the protocol cannot carry
func (c *Config) Validate() error {
	if c.Device.GlobalChannel > 15 {
		return fmt.Errorf("device.globalChannel %d out of range 0-15", c.Device.GlobalChannel)
	}
	if c.Device.InputPort == "" || c.Device.OutputPort == "" {
		return fmt.Errorf("device.inputPort and device.outputPort must be set")
	}
	return nil
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "nanokontrol"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads a config file. Missing keys keep their default values.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
