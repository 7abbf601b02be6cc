package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latchd.yaml")
	content := `
store_path: /var/lib/latch/latch.img
store_capacity: 128
audit_log_path: /var/lib/latch/audit.db
wipe_confirm_window: 10s
door:
  settle_delay: 150ms
  open_dwell: 2s
  close_dwell: 2500ms
  poll_interval: 50ms
  obstruction_timeout: 45s
  clear_min: 0
  clear_max: 35
safety:
  gas_threshold: 275
  sample_count: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFile(path))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/var/lib/latch/latch.img", cfg.StorePath)
	assert.Equal(t, 128, cfg.StoreCapacity)
	assert.Equal(t, 10*time.Second, cfg.WipeConfirmWindow.Std())
	assert.Equal(t, 2500*time.Millisecond, cfg.Door.CloseDwell.Std())
	assert.Equal(t, 45*time.Second, cfg.Door.ObstructionTimeout.Std())
	assert.Equal(t, 35.0, cfg.Door.ClearMax)
	assert.Equal(t, 275.0, cfg.Safety.GasThreshold)
	assert.Equal(t, 5, cfg.Safety.SampleCount)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, DefaultConfig().LoopInterval, cfg.LoopInterval)
}

func TestLoadFileRejectsBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latchd.yaml")
	require.NoError(t, os.WriteFile(path, []byte("loop_interval: fast\n"), 0600))

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFile(path))
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LATCH_STORE_PATH", "/tmp/override.img")
	t.Setenv("LATCH_STORE_CAPACITY", "32")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())
	assert.Equal(t, "/tmp/override.img", cfg.StorePath)
	assert.Equal(t, 32, cfg.StoreCapacity)
}

func TestLoadFromEnvRejectsBadCapacity(t *testing.T) {
	t.Setenv("LATCH_STORE_CAPACITY", "lots")

	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromEnv())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero capacity", func(c *Config) { c.StoreCapacity = 0 }},
		{"zero loop interval", func(c *Config) { c.LoopInterval = 0 }},
		{"zero wipe window", func(c *Config) { c.WipeConfirmWindow = 0 }},
		{"zero open dwell", func(c *Config) { c.Door.OpenDwell = 0 }},
		{"zero poll interval", func(c *Config) { c.Door.PollInterval = 0 }},
		{"zero obstruction timeout", func(c *Config) { c.Door.ObstructionTimeout = 0 }},
		{"empty clear band", func(c *Config) { c.Door.ClearMax = c.Door.ClearMin }},
		{"zero samples", func(c *Config) { c.Safety.SampleCount = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
