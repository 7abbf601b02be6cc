// Package controller implements the access state machine at the top of the
// door controller: it consumes scans and button events, queries and mutates
// the credential store, and commands the door actuator, with the safety
// monitor checked ahead of everything else on every iteration.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/juju/clock"

	"github.com/latchd/latch/internal/door"
	"github.com/latchd/latch/internal/safety"
	"github.com/latchd/latch/pkg/audit"
	"github.com/latchd/latch/pkg/credential"
	"github.com/latchd/latch/pkg/hal"
	"github.com/latchd/latch/pkg/store"
)

// ErrMasterWiped is the terminal error returned once a sustained wipe hold
// has been confirmed. The master-defined marker is cleared, records are
// untouched, and the controller will not run again without a restart.
var ErrMasterWiped = errors.New("master credential wiped, restart required")

// DoorActuator is the door command surface the controller drives.
type DoorActuator interface {
	OpenCycle(ctx context.Context) error
	CloseCycle(ctx context.Context) error
}

// HazardMonitor is the safety check run at the top of every iteration.
type HazardMonitor interface {
	Check(ctx context.Context) (float64, error)
}

// Config holds the controller's timing parameters.
type Config struct {
	// WipeConfirmWindow is how long the wipe button must be held
	// continuously before the wipe is confirmed.
	WipeConfirmWindow time.Duration
	// ObstructionTimeout is the actuator's close-clearance bound, carried
	// here so close-timeout audit events can report it.
	ObstructionTimeout time.Duration
	// ProvisionPollInterval is the reader polling period during first-boot
	// provisioning.
	ProvisionPollInterval time.Duration
}

// Controller is the access state machine. It is single-threaded: every event
// is processed to completion before the next one is polled, so no internal
// locking is needed.
type Controller struct {
	store    *store.Store
	reader   hal.CredentialReader
	buttons  hal.Buttons
	actuator DoorActuator
	monitor  HazardMonitor
	recorder *audit.Recorder
	clk      clock.Clock
	cfg      Config
	logger   *slog.Logger

	state      State
	haltReason HaltReason

	wipeHolding   bool
	wipeHeldSince time.Time
}

// New creates a controller in normal mode. If logger is nil, slog.Default()
// is used.
func New(
	st *store.Store,
	reader hal.CredentialReader,
	buttons hal.Buttons,
	actuator DoorActuator,
	monitor HazardMonitor,
	recorder *audit.Recorder,
	clk clock.Clock,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:    st,
		reader:   reader,
		buttons:  buttons,
		actuator: actuator,
		monitor:  monitor,
		recorder: recorder,
		clk:      clk,
		cfg:      cfg,
		logger:   logger,
		state:    StateNormal,
	}
}

// State returns the current mode.
func (c *Controller) State() State {
	return c.state
}

// HaltReason returns why the controller halted, or HaltNone.
func (c *Controller) HaltReason() HaltReason {
	return c.haltReason
}

func (c *Controller) halt(reason HaltReason) {
	c.state = StateHalted
	c.haltReason = reason
	c.logger.Error("controller halted", "reason", reason.String())
}

// Step runs one control-loop iteration: safety check first, then the wipe
// hold, the manual-open button, and finally the reader. A terminal condition
// returns a non-nil error and leaves the controller in StateHalted;
// steady-state failures are reported and swallowed so the loop continues.
func (c *Controller) Step(ctx context.Context) error {
	if c.state == StateHalted {
		if c.haltReason == HaltMasterWiped {
			return ErrMasterWiped
		}
		return safety.ErrHazardDetected
	}

	// Safety short-circuits the whole iteration.
	level, err := c.monitor.Check(ctx)
	if errors.Is(err, safety.ErrHazardDetected) {
		c.record(audit.NewSafetyTrip(level, c.tripThreshold()))
		c.halt(HaltSafetyTrip)
		return err
	}
	if err != nil {
		return err
	}

	if confirmed, err := c.trackWipeHold(); err != nil {
		return err
	} else if confirmed {
		return ErrMasterWiped
	}

	if manual, err := c.buttons.IsManualOpenRequested(); err != nil {
		c.logger.Debug("manual-open read failed, retrying next cycle", "error", err)
	} else if manual {
		c.record(audit.NewManualOpen())
		c.logger.Info("manual open requested")
		return c.openThenClose(ctx)
	}

	id, ok, err := c.reader.TryReadID()
	if err != nil {
		c.logger.Debug("reader poll failed, retrying next cycle", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	return c.handleScan(ctx, id)
}

// tripThreshold pulls the threshold off the monitor when it exposes one;
// audit events fall back to zero otherwise.
func (c *Controller) tripThreshold() float64 {
	type thresholder interface{ Threshold() float64 }
	if t, ok := c.monitor.(thresholder); ok {
		return t.Threshold()
	}
	return 0
}

// trackWipeHold samples the level-triggered wipe button and confirms the
// wipe once it has been held continuously past the confirmation window.
// Confirmation clears only the master-defined marker and halts.
func (c *Controller) trackWipeHold() (bool, error) {
	held, err := c.buttons.IsWipeRequested()
	if err != nil {
		c.logger.Debug("wipe button read failed, retrying next cycle", "error", err)
		held = false
	}
	if !held {
		c.wipeHolding = false
		return false, nil
	}

	now := c.clk.Now()
	if !c.wipeHolding {
		c.wipeHolding = true
		c.wipeHeldSince = now
		c.logger.Info("wipe hold started", "confirm_window", c.cfg.WipeConfirmWindow)
		return false, nil
	}
	if now.Sub(c.wipeHeldSince) < c.cfg.WipeConfirmWindow {
		return false, nil
	}

	if err := c.store.WipeMaster(); err != nil {
		return false, err
	}
	c.record(audit.NewMasterWiped())
	c.halt(HaltMasterWiped)
	return true, nil
}

// handleScan applies the mode transition table to one scanned credential.
func (c *Controller) handleScan(ctx context.Context, id credential.ID) error {
	master, defined := c.store.Master()

	switch c.state {
	case StateNormal:
		if defined && id == master {
			c.record(audit.NewProgramEnter())
			c.logger.Info("entering program mode")
			c.state = StateProgram
			return nil
		}
		if _, ok := c.store.Lookup(id); ok {
			c.record(audit.NewAccessGranted(id))
			c.logger.Info("access granted", "credential", id)
			return c.openThenClose(ctx)
		}
		c.record(audit.NewAccessDenied(id))
		c.logger.Warn("access denied", "credential", id)
		return nil

	case StateProgram:
		if defined && id == master {
			c.record(audit.NewProgramExit())
			c.logger.Info("leaving program mode")
			c.state = StateNormal
			return nil
		}
		return c.programScan(id)
	}
	return nil
}

// programScan adds unknown credentials and removes known ones.
func (c *Controller) programScan(id credential.ID) error {
	if _, ok := c.store.Lookup(id); ok {
		if err := c.store.RemoveAt(id); err != nil {
			return err
		}
		c.record(audit.NewCredentialRemoved(id))
		c.logger.Info("credential removed", "credential", id, "count", c.store.Count())
		return nil
	}

	err := c.store.Append(id)
	switch {
	case errors.Is(err, store.ErrStorageFull):
		c.record(audit.NewStorageFull(id, c.store.Capacity()))
		c.logger.Warn("credential storage full, scan ignored", "credential", id)
		return nil
	case errors.Is(err, store.ErrDuplicateCredential):
		c.record(audit.NewCredentialDuplicate(id))
		return nil
	case err != nil:
		return err
	}
	slot, _ := c.store.Lookup(id)
	c.record(audit.NewCredentialAdded(id, slot))
	c.logger.Info("credential added", "credential", id, "count", c.store.Count())
	return nil
}

// openThenClose runs a full door cycle. An obstruction timeout leaves the
// door open, is reported, and the loop continues; only context cancellation
// propagates.
func (c *Controller) openThenClose(ctx context.Context) error {
	if err := c.actuator.OpenCycle(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		c.logger.Error("open cycle failed", "error", err)
		return nil
	}

	err := c.actuator.CloseCycle(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, door.ErrObstructionTimeout):
		c.record(audit.NewCloseTimeout(c.cfg.ObstructionTimeout))
		c.logger.Warn("doorway never cleared, door left open")
		return nil
	case ctx.Err() != nil:
		return err
	default:
		c.logger.Error("close cycle failed", "error", err)
		return nil
	}
}

func (c *Controller) record(ev audit.Event) {
	if c.recorder != nil {
		c.recorder.Record(ev)
	}
}
