// Package daemon wires the credential store, the hardware, the actuator,
// the safety monitor, and the controller into the latchd process: one
// single-threaded control loop, fatal-at-boot initialization errors, and
// explicit terminal states that require an external restart.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/juju/clock"

	"github.com/latchd/latch/internal/controller"
	"github.com/latchd/latch/internal/door"
	"github.com/latchd/latch/internal/safety"
	"github.com/latchd/latch/pkg/audit"
	"github.com/latchd/latch/pkg/hal"
	"github.com/latchd/latch/pkg/store"
)

// Exit codes for latchd terminal states.
const (
	ExitOK          = 0
	ExitInitFailure = 1 // store or hardware failed before the loop started
	ExitSafetyTrip  = 2 // hazard trip, door forced open
	ExitMasterWiped = 3 // confirmed wipe hold
)

// Hardware bundles the driver interfaces the daemon runs against. In --sim
// mode one hal.Sim value fills every field.
type Hardware struct {
	Reader   hal.CredentialReader
	Distance hal.DistanceSensor
	Gas      hal.GasSensor
	Motor    hal.MotorDriver
	Buttons  hal.Buttons
}

// Daemon is the latchd process core.
type Daemon struct {
	cfg    *Config
	hw     Hardware
	clk    clock.Clock
	logger *slog.Logger
}

// New creates a daemon. If logger is nil, slog.Default() is used.
func New(cfg *Config, hw Hardware, clk clock.Clock, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	return &Daemon{cfg: cfg, hw: hw, clk: clk, logger: logger}
}

// Run provisions if needed and drives the control loop until a terminal
// state or context cancellation. The returned exit code distinguishes the
// three terminal conditions; none of them auto-recover.
func (d *Daemon) Run(ctx context.Context) (int, error) {
	path := d.cfg.StorePath
	if path == "" {
		path = store.DefaultPath()
	}

	st, err := store.Open(path, d.cfg.StoreCapacity)
	if err != nil {
		return ExitInitFailure, fmt.Errorf("credential store init failed: %w", err)
	}
	defer st.Close()
	d.logger.Info("credential store opened",
		"path", path, "count", st.Count(), "capacity", st.Capacity())

	backends := []audit.EventEmitter{audit.NewLogEmitter(d.logger)}
	if d.cfg.AuditLogPath != "" {
		sqlog, err := audit.OpenSQLiteLog(d.cfg.AuditLogPath)
		if err != nil {
			return ExitInitFailure, fmt.Errorf("audit log init failed: %w", err)
		}
		defer sqlog.Close()
		backends = append(backends, sqlog)
	}
	recorder := audit.NewRecorder(d.logger, backends...)

	actuator := door.NewActuator(d.hw.Motor, d.hw.Distance, d.clk, door.Timing{
		SettleDelay:        d.cfg.Door.SettleDelay.Std(),
		OpenDwell:          d.cfg.Door.OpenDwell.Std(),
		CloseDwell:         d.cfg.Door.CloseDwell.Std(),
		PollInterval:       d.cfg.Door.PollInterval.Std(),
		ObstructionTimeout: d.cfg.Door.ObstructionTimeout.Std(),
		ClearMin:           d.cfg.Door.ClearMin,
		ClearMax:           d.cfg.Door.ClearMax,
	}, d.logger)

	monitor := safety.NewMonitor(d.hw.Gas, actuator,
		d.cfg.Safety.GasThreshold, d.cfg.Safety.SampleCount, d.logger)

	ctrl := controller.New(st, d.hw.Reader, d.hw.Buttons, actuator, monitor,
		recorder, d.clk, controller.Config{
			WipeConfirmWindow:     d.cfg.WipeConfirmWindow.Std(),
			ObstructionTimeout:    d.cfg.Door.ObstructionTimeout.Std(),
			ProvisionPollInterval: d.cfg.ProvisionPollInterval.Std(),
		}, d.logger)

	if err := ctrl.Provision(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			return ExitOK, nil
		}
		return ExitInitFailure, fmt.Errorf("provisioning failed: %w", err)
	}

	d.logger.Info("control loop starting", "state", ctrl.State().String())
	for {
		if err := ctrl.Step(ctx); err != nil {
			switch {
			case errors.Is(err, safety.ErrHazardDetected):
				d.logger.Error("terminal: safety trip, door forced open")
				return ExitSafetyTrip, err
			case errors.Is(err, controller.ErrMasterWiped):
				d.logger.Error("terminal: master credential wiped")
				return ExitMasterWiped, err
			case errors.Is(err, context.Canceled):
				d.logger.Info("control loop stopped")
				return ExitOK, nil
			default:
				return ExitInitFailure, err
			}
		}

		select {
		case <-d.clk.After(d.cfg.LoopInterval.Std()):
		case <-ctx.Done():
			d.logger.Info("control loop stopped")
			return ExitOK, nil
		}
	}
}
