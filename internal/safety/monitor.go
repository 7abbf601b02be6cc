// Package safety polls the hazard sensor and forces the door open when a
// reading crosses the trip threshold. A trip is terminal: occupant safety
// outranks lock security, so there is no retry and no automatic recovery.
package safety

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrHazardDetected is returned by Check after a trip. The door has already
// been forced open; the controller must halt and stay halted until an
// external restart.
var ErrHazardDetected = errors.New("hazard level above threshold")

// GasSensor is the hazard input sampled by the monitor.
type GasSensor interface {
	ReadLevel() (float64, error)
}

// Opener is the forced-evacuation action taken on a trip.
type Opener interface {
	OpenCycle(ctx context.Context) error
}

// Monitor samples the gas sensor a fixed number of times per Check call.
type Monitor struct {
	sensor    GasSensor
	opener    Opener
	threshold float64
	samples   int
	logger    *slog.Logger
}

// NewMonitor creates a monitor taking `samples` readings per check. If
// logger is nil, slog.Default() is used.
func NewMonitor(sensor GasSensor, opener Opener, threshold float64, samples int, logger *slog.Logger) *Monitor {
	if samples < 1 {
		samples = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		sensor:    sensor,
		opener:    opener,
		threshold: threshold,
		samples:   samples,
		logger:    logger,
	}
}

// Threshold returns the configured trip level.
func (m *Monitor) Threshold() float64 {
	return m.threshold
}

// Check samples the sensor. Any sample above threshold forces the door open
// and returns ErrHazardDetected with the offending level attached via
// TripLevel. Read errors are treated as "no reading" and skipped.
func (m *Monitor) Check(ctx context.Context) (float64, error) {
	for i := 0; i < m.samples; i++ {
		level, err := m.sensor.ReadLevel()
		if err != nil {
			m.logger.Debug("gas read failed, skipping sample", "error", err)
			continue
		}
		if level > m.threshold {
			m.logger.Error("hazard detected, forcing door open",
				"level", level, "threshold", m.threshold)
			if err := m.opener.OpenCycle(ctx); err != nil {
				// The evacuation open failed; still halt, and say why.
				return level, fmt.Errorf("forced open failed after hazard trip: %w (%w)",
					err, ErrHazardDetected)
			}
			return level, ErrHazardDetected
		}
	}
	return 0, nil
}
