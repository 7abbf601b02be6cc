package controller

import (
	"context"
	"fmt"

	"github.com/latchd/latch/pkg/audit"
)

// Provision blocks until a master credential exists. On a first boot (no
// master-defined marker in the image) it polls the reader and promotes the
// first scanned credential to master. Subsequent boots return immediately;
// the master is never auto-changed once set.
func (c *Controller) Provision(ctx context.Context) error {
	if _, defined := c.store.Master(); defined {
		return nil
	}

	c.logger.Info("no master credential provisioned, waiting for first scan")
	for {
		id, ok, err := c.reader.TryReadID()
		if err != nil {
			c.logger.Debug("reader poll failed during provisioning", "error", err)
		} else if ok {
			if err := c.store.SetMaster(id); err != nil {
				return fmt.Errorf("failed to persist master credential: %w", err)
			}
			c.record(audit.NewMasterProvisioned())
			c.logger.Info("master credential provisioned")
			return nil
		}

		select {
		case <-c.clk.After(c.cfg.ProvisionPollInterval):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
