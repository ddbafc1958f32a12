package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"

	"github.com/caarlos0/env/v11"
	"github.com/pleimann/camel-input/internal/logging"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the app config file looked up when no -config flag is given
const DefaultPath = "camel-input.yaml"

type Config struct {
	Gamepad  GamepadConfig  `yaml:"gamepad"`
	Evdev    EvdevConfig    `yaml:"evdev"`
	Engine   EngineConfig   `yaml:"engine"`
	Bindings BindingsConfig `yaml:"bindings"`
	Monitor  MonitorConfig  `yaml:"monitor"`
	Log      LogConfig      `yaml:"log"`
}

// GamepadConfig selects the HID gamepad adapter. A zero vendor id disables it.
// Deadzone is applied by the HID driver before events reach the engine and
// defaults to 0, which leaves stick values untouched.
type GamepadConfig struct {
	VendorID       uint16  `yaml:"vendor_id" env:"CAMEL_INPUT_GAMEPAD_VENDOR_ID"`
	ProductID      uint16  `yaml:"product_id" env:"CAMEL_INPUT_GAMEPAD_PRODUCT_ID"`
	PollIntervalMs int     `yaml:"poll_interval_ms" env:"CAMEL_INPUT_GAMEPAD_POLL_INTERVAL_MS"`
	Deadzone       float32 `yaml:"deadzone" env:"CAMEL_INPUT_GAMEPAD_DEADZONE"`
}

// EvdevConfig lists the keyboard and mouse device nodes to read
type EvdevConfig struct {
	Devices []string `yaml:"devices" env:"CAMEL_INPUT_EVDEV_DEVICES" envSeparator:","`
}

type EngineConfig struct {
	TickRateHz int `yaml:"tick_rate_hz" env:"CAMEL_INPUT_TICK_RATE_HZ"`
}

type BindingsConfig struct {
	Path         string `yaml:"path" env:"CAMEL_INPUT_BINDINGS_PATH"`
	DisableWatch bool   `yaml:"disable_watch" env:"CAMEL_INPUT_BINDINGS_DISABLE_WATCH"`
}

// MonitorConfig configures the WebSocket state monitor. An empty listen
// address disables it.
type MonitorConfig struct {
	Listen string `yaml:"listen" env:"CAMEL_INPUT_MONITOR_LISTEN"`
}

type LogConfig struct {
	Level string `yaml:"level" env:"CAMEL_INPUT_LOG_LEVEL"`
}

// Load reads the config file at path, applies environment overrides and
// fills in defaults
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return parse(data)
}

// LoadOrDefault behaves like Load but starts from an empty config when the
// file does not exist
func LoadOrDefault(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return parse(data)
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) validate() error {
	if (c.Gamepad.VendorID == 0) != (c.Gamepad.ProductID == 0) {
		return fmt.Errorf("gamepad.vendor_id and gamepad.product_id must be set together")
	}
	if c.Gamepad.Deadzone < 0 || c.Gamepad.Deadzone >= 1 {
		return fmt.Errorf("gamepad.deadzone must be in [0, 1): %v", c.Gamepad.Deadzone)
	}
	if c.Engine.TickRateHz < 0 || c.Engine.TickRateHz > 1000 {
		return fmt.Errorf("engine.tick_rate_hz must be in [1, 1000]: %d", c.Engine.TickRateHz)
	}

	// Validate evdev paths are unique
	seen := make(map[string]bool)
	for _, p := range c.Evdev.Devices {
		if seen[p] {
			return fmt.Errorf("duplicate evdev device: %s", p)
		}
		seen[p] = true
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("unknown log.level: %w", err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Gamepad.PollIntervalMs == 0 {
		c.Gamepad.PollIntervalMs = 1000
	}
	if c.Engine.TickRateHz == 0 {
		c.Engine.TickRateHz = 60
	}
	if c.Bindings.Path == "" {
		c.Bindings.Path = OverridePath
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// GamepadEnabled reports whether a HID gamepad adapter is configured
func (c *Config) GamepadEnabled() bool {
	return c.Gamepad.VendorID != 0
}

// UpdateDeviceIDs updates the vendor_id and product_id in a config file
// while preserving the rest of the file structure and comments
func UpdateDeviceIDs(path string, vendorID, productID uint16) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)

	// Update vendor_id (YAML format: vendor_id: 0x1234 or vendor_id: 1234)
	vendorRegex := regexp.MustCompile(`(?m)^(\s*vendor_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = vendorRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", vendorID))

	productRegex := regexp.MustCompile(`(?m)^(\s*product_id:\s*)(?:0x[0-9A-Fa-f]+|\d+)`)
	content = productRegex.ReplaceAllString(content, fmt.Sprintf("${1}0x%04X", productID))

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateDefaultConfig creates a new config file with default values and the specified gamepad
func CreateDefaultConfig(path string, vendorID, productID uint16) error {
	content := fmt.Sprintf(`# camel-input configuration

gamepad:
  vendor_id: 0x%04X
  product_id: 0x%04X
  poll_interval_ms: 1000
  # Driver-side stick deadzone, 0 passes raw values through
  deadzone: 0

# Keyboard and mouse nodes (Linux only)
evdev:
  devices: []

engine:
  tick_rate_hz: 60

bindings:
  path: %s
  disable_watch: false

monitor:
  listen: ""

log:
  level: info
`, vendorID, productID, OverridePath)

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
