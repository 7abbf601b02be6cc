package daemon

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML configs can use strings like "250ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DoorConfig holds the actuator's timing and clear-band parameters.
type DoorConfig struct {
	// SettleDelay is the lead/trail pause around each energized movement.
	SettleDelay Duration `yaml:"settle_delay"`
	// OpenDwell is how long the open output stays energized.
	OpenDwell Duration `yaml:"open_dwell"`
	// CloseDwell is how long the close output stays energized.
	CloseDwell Duration `yaml:"close_dwell"`
	// PollInterval is the obstruction sampling period before closing.
	PollInterval Duration `yaml:"poll_interval"`
	// ObstructionTimeout bounds the clearance wait; expiry aborts the close.
	ObstructionTimeout Duration `yaml:"obstruction_timeout"`
	// ClearMin and ClearMax bound the distance readings meaning "path clear".
	ClearMin float64 `yaml:"clear_min"`
	ClearMax float64 `yaml:"clear_max"`
}

// SafetyConfig holds the hazard monitor parameters.
type SafetyConfig struct {
	// GasThreshold is the sensor level above which the monitor trips.
	GasThreshold float64 `yaml:"gas_threshold"`
	// SampleCount is how many readings each poll takes.
	SampleCount int `yaml:"sample_count"`
}

// Config holds the daemon configuration.
type Config struct {
	// StorePath is the credential image file.
	StorePath string `yaml:"store_path"`
	// StoreCapacity is the image's slot capacity.
	StoreCapacity int `yaml:"store_capacity"`
	// AuditLogPath is the local SQLite audit database. Empty disables the
	// SQLite backend; console audit logging stays on regardless.
	AuditLogPath string `yaml:"audit_log_path"`

	// LoopInterval is the pause between control-loop iterations.
	LoopInterval Duration `yaml:"loop_interval"`
	// WipeConfirmWindow is the sustained hold required to confirm a wipe.
	WipeConfirmWindow Duration `yaml:"wipe_confirm_window"`
	// ProvisionPollInterval is the reader polling period during first boot.
	ProvisionPollInterval Duration `yaml:"provision_poll_interval"`

	Door   DoorConfig   `yaml:"door"`
	Safety SafetyConfig `yaml:"safety"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		StorePath:             "",
		StoreCapacity:         64,
		AuditLogPath:          "",
		LoopInterval:          Duration(50 * time.Millisecond),
		WipeConfirmWindow:     Duration(5 * time.Second),
		ProvisionPollInterval: Duration(100 * time.Millisecond),
		Door: DoorConfig{
			SettleDelay:        Duration(200 * time.Millisecond),
			OpenDwell:          Duration(3 * time.Second),
			CloseDwell:         Duration(3 * time.Second),
			PollInterval:       Duration(100 * time.Millisecond),
			ObstructionTimeout: Duration(30 * time.Second),
			ClearMin:           0,
			ClearMax:           20,
		},
		Safety: SafetyConfig{
			GasThreshold: 300,
			SampleCount:  3,
		},
	}
}

// LoadFile overlays the YAML file at path onto the config.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

// LoadFromEnv loads overrides from environment variables.
func (c *Config) LoadFromEnv() error {
	if path := os.Getenv("LATCH_STORE_PATH"); path != "" {
		c.StorePath = path
	}
	if path := os.Getenv("LATCH_AUDIT_LOG"); path != "" {
		c.AuditLogPath = path
	}
	if capStr := os.Getenv("LATCH_STORE_CAPACITY"); capStr != "" {
		n, err := strconv.Atoi(capStr)
		if err != nil {
			return fmt.Errorf("invalid LATCH_STORE_CAPACITY %q: %w", capStr, err)
		}
		c.StoreCapacity = n
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.StoreCapacity <= 0 {
		return fmt.Errorf("store capacity must be positive, got %d", c.StoreCapacity)
	}
	if c.LoopInterval <= 0 {
		return fmt.Errorf("loop interval must be positive")
	}
	if c.WipeConfirmWindow <= 0 {
		return fmt.Errorf("wipe confirm window must be positive")
	}
	if c.Door.OpenDwell <= 0 || c.Door.CloseDwell <= 0 {
		return fmt.Errorf("door dwell times must be positive")
	}
	if c.Door.PollInterval <= 0 {
		return fmt.Errorf("door poll interval must be positive")
	}
	if c.Door.ObstructionTimeout <= 0 {
		return fmt.Errorf("obstruction timeout must be positive")
	}
	if c.Door.ClearMax <= c.Door.ClearMin {
		return fmt.Errorf("clear band is empty: min %v, max %v", c.Door.ClearMin, c.Door.ClearMax)
	}
	if c.Safety.SampleCount < 1 {
		return fmt.Errorf("safety sample count must be at least 1, got %d", c.Safety.SampleCount)
	}
	return nil
}
