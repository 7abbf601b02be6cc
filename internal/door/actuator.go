// Package door drives the physical open/close motor through timed,
// mutually-exclusive cycles. Opening never checks the doorway; closing waits
// for the obstruction sensor to report a clear path first.
package door

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/juju/clock"

	"github.com/latchd/latch/pkg/hal"
)

// ErrObstructionTimeout is returned by CloseCycle when the doorway never
// cleared within the configured timeout. The close output was never
// energized; the door is left open and the caller decides what to report.
// The legacy controller waited forever here; the bounded wait keeps the
// "never close onto an obstruction" contract and adds an abort path.
var ErrObstructionTimeout = errors.New("doorway did not clear before timeout")

// Timing holds the actuator's cycle parameters.
type Timing struct {
	// SettleDelay is the lead/trail pause around each energized movement.
	SettleDelay time.Duration
	// OpenDwell is how long the open output stays energized.
	OpenDwell time.Duration
	// CloseDwell is how long the close output stays energized.
	CloseDwell time.Duration
	// PollInterval is the obstruction sensor sampling period before closing.
	PollInterval time.Duration
	// ObstructionTimeout bounds the clearance wait before CloseCycle gives up.
	ObstructionTimeout time.Duration
	// ClearMin and ClearMax bound the distance band meaning "path clear".
	ClearMin float64
	ClearMax float64
}

// Actuator owns the motor driver and the obstruction sensor. Its two cycles
// are the only code in the controller that touches the motor outputs, so the
// mutual-exclusion invariant lives entirely here.
type Actuator struct {
	motor    hal.MotorDriver
	distance hal.DistanceSensor
	clk      clock.Clock
	timing   Timing
	logger   *slog.Logger
}

// NewActuator creates an actuator. If logger is nil, slog.Default() is used.
func NewActuator(motor hal.MotorDriver, distance hal.DistanceSensor, clk clock.Clock, timing Timing, logger *slog.Logger) *Actuator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Actuator{
		motor:    motor,
		distance: distance,
		clk:      clk,
		timing:   timing,
		logger:   logger,
	}
}

// clearInterlock forces both outputs off. Every cycle starts and ends here,
// so no sequence of cycles can overlap the two drive directions.
func (a *Actuator) clearInterlock() error {
	if err := a.motor.SetOpenOutput(false); err != nil {
		return fmt.Errorf("failed to clear open output: %w", err)
	}
	if err := a.motor.SetCloseOutput(false); err != nil {
		return fmt.Errorf("failed to clear close output: %w", err)
	}
	return nil
}

// sleep waits for d or until ctx is cancelled.
func (a *Actuator) sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-a.clk.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// OpenCycle runs one timed opening: settle, energize open for the dwell,
// de-energize, settle. It performs no safety check of its own; opening is
// always allowed.
func (a *Actuator) OpenCycle(ctx context.Context) error {
	if err := a.clearInterlock(); err != nil {
		return err
	}
	if err := a.sleep(ctx, a.timing.SettleDelay); err != nil {
		return err
	}

	a.logger.Debug("energizing open output", "dwell", a.timing.OpenDwell)
	if err := a.motor.SetOpenOutput(true); err != nil {
		return fmt.Errorf("failed to energize open output: %w", err)
	}
	dwellErr := a.sleep(ctx, a.timing.OpenDwell)
	if err := a.motor.SetOpenOutput(false); err != nil {
		return fmt.Errorf("failed to de-energize open output: %w", err)
	}
	if dwellErr != nil {
		return dwellErr
	}

	return a.sleep(ctx, a.timing.SettleDelay)
}

// CloseCycle runs one timed closing. It first samples the distance sensor at
// PollInterval until the reading falls inside the clear band, bounded by
// ObstructionTimeout. Only a clear doorway ever energizes the close output.
func (a *Actuator) CloseCycle(ctx context.Context) error {
	if err := a.clearInterlock(); err != nil {
		return err
	}

	if err := a.waitForClearPath(ctx); err != nil {
		return err
	}

	if err := a.sleep(ctx, a.timing.SettleDelay); err != nil {
		return err
	}

	a.logger.Debug("energizing close output", "dwell", a.timing.CloseDwell)
	if err := a.motor.SetCloseOutput(true); err != nil {
		return fmt.Errorf("failed to energize close output: %w", err)
	}
	dwellErr := a.sleep(ctx, a.timing.CloseDwell)
	if err := a.motor.SetCloseOutput(false); err != nil {
		return fmt.Errorf("failed to de-energize close output: %w", err)
	}
	return dwellErr
}

// waitForClearPath polls the obstruction sensor until a reading lands inside
// the clear band. Sensor read errors count as "no reading" and are retried
// on the next sample.
func (a *Actuator) waitForClearPath(ctx context.Context) error {
	deadline := a.clk.Now().Add(a.timing.ObstructionTimeout)
	for {
		d, err := a.distance.ReadDistance()
		if err != nil {
			a.logger.Debug("distance read failed, retrying", "error", err)
		} else if d >= a.timing.ClearMin && d <= a.timing.ClearMax {
			return nil
		}

		if !a.clk.Now().Before(deadline) {
			return ErrObstructionTimeout
		}
		if err := a.sleep(ctx, a.timing.PollInterval); err != nil {
			return err
		}
	}
}
