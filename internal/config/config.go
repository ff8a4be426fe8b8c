package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MotorConfig holds the wiring of one H-bridge channel.
type MotorConfig struct {
	ID        string `yaml:"id"`          // motor identifier, e.g. "A"
	PWMPin    int    `yaml:"pwm_pin"`     // enable/PWM pin (BCM)
	In1Pin    int    `yaml:"in1_pin"`     // direction pin 1 (BCM)
	In2Pin    int    `yaml:"in2_pin"`     // direction pin 2 (BCM)
	PWMFreqHz int    `yaml:"pwm_freq_hz"` // PWM output frequency
}

// LEDConfig describes the status LED serviced by the same loop.
type LEDConfig struct {
	Pin       int  `yaml:"pin"`        // LED pin (BCM)
	PeriodMs  int  `yaml:"period_ms"`  // blink period
	PulseMs   int  `yaml:"pulse_ms"`   // lit time per period
	ActiveLow bool `yaml:"active_low"` // LED wired between Vcc and pin
}

// DefaultsConfig contains generic parameters.
type DefaultsConfig struct {
	DebugLevel int  `yaml:"debug_level"` // debug level 0-4 (0=off, 1=info, 2=live, 3=verbose, 4=trace)
	MockGPIO   bool `yaml:"mock_gpio"`   // use mock GPIO (true=dev/test, false=real Raspberry Pi)
	TickMs     int  `yaml:"tick_ms"`     // polling loop interval
}

// Config aggregates all application configuration.
type Config struct {
	PWMResolutionBits int            `yaml:"pwm_resolution_bits"` // shared by all motors
	Motors            []MotorConfig  `yaml:"motors"`
	LED               LEDConfig      `yaml:"led"`
	Defaults          DefaultsConfig `yaml:"defaults"`
}

// Load reads a YAML file and returns the configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml: %w", err)
	}

	// Basic validation; the motor constructor rechecks its own bindings.
	if cfg.PWMResolutionBits == 0 {
		cfg.PWMResolutionBits = 10 // reasonable default
	}
	if cfg.PWMResolutionBits < 1 || cfg.PWMResolutionBits > 12 {
		return nil, fmt.Errorf("pwm_resolution_bits must be between 1 and 12, got %d", cfg.PWMResolutionBits)
	}
	if len(cfg.Motors) == 0 {
		return nil, fmt.Errorf("at least one motor is required")
	}
	seen := make(map[string]bool)
	for i := range cfg.Motors {
		m := &cfg.Motors[i]
		if m.ID == "" {
			return nil, fmt.Errorf("motors[%d]: id is required", i)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("motors[%d]: duplicate id %q", i, m.ID)
		}
		seen[m.ID] = true
		if m.PWMFreqHz == 0 {
			m.PWMFreqHz = 100 // reasonable default for an L298N
		}
		if m.PWMFreqHz < 0 {
			return nil, fmt.Errorf("motor %s: pwm_freq_hz must be positive, got %d", m.ID, m.PWMFreqHz)
		}
	}
	if cfg.LED.PeriodMs <= 0 {
		cfg.LED.PeriodMs = 1000 // blink every second
	}
	if cfg.LED.PulseMs <= 0 {
		cfg.LED.PulseMs = 50 // for 50ms
	}
	if cfg.LED.PulseMs >= cfg.LED.PeriodMs {
		return nil, fmt.Errorf("led.pulse_ms (%d) must be shorter than led.period_ms (%d)", cfg.LED.PulseMs, cfg.LED.PeriodMs)
	}
	if cfg.Defaults.TickMs <= 0 {
		cfg.Defaults.TickMs = 5 // reasonable default
	}
	if cfg.Defaults.DebugLevel < 0 || cfg.Defaults.DebugLevel > 4 {
		return nil, fmt.Errorf("debug_level must be between 0 and 4, got %d", cfg.Defaults.DebugLevel)
	}

	return &cfg, nil
}

// ValidateConfigPath checks that a user-supplied config path is a .yaml
// file inside a configs/ directory and contains no traversal.
func ValidateConfigPath(path string) error {
	if path == "" {
		return fmt.Errorf("config path is empty")
	}
	if strings.Contains(path, "..") {
		return fmt.Errorf("config path %q must not contain '..'", path)
	}
	if filepath.Ext(path) != ".yaml" {
		return fmt.Errorf("config path %q must end in .yaml", path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}
	if filepath.Base(filepath.Dir(abs)) != "configs" {
		return fmt.Errorf("config path %q must live in a configs/ directory", path)
	}
	return nil
}

// Tick returns the polling loop interval.
func (c *Config) Tick() time.Duration {
	return time.Duration(c.Defaults.TickMs) * time.Millisecond
}

// LEDPeriod returns the blink period of the status LED.
func (c *Config) LEDPeriod() time.Duration {
	return time.Duration(c.LED.PeriodMs) * time.Millisecond
}

// LEDPulse returns the lit time per blink period.
func (c *Config) LEDPulse() time.Duration {
	return time.Duration(c.LED.PulseMs) * time.Millisecond
}
