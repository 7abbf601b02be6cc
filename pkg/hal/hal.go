// Package hal defines the hardware interfaces the controller core consumes:
// the credential reader, the door motor, the obstruction and gas sensors, and
// the panel buttons. Real drivers live outside this module; the package ships
// a simulator so the daemon and the tests can run without hardware.
package hal

import "github.com/latchd/latch/pkg/credential"

// CredentialReader polls the proximity reader. TryReadID is non-blocking:
// ok is false when no tag is present. A read error means "no reading this
// cycle" and is retried on the next loop iteration.
type CredentialReader interface {
	TryReadID() (id credential.ID, ok bool, err error)
}

// DistanceSensor reports the distance measured across the door's closing
// path, in the same units as the configured clear band.
type DistanceSensor interface {
	ReadDistance() (float64, error)
}

// GasSensor reports the hazard (smoke/gas) intensity level.
type GasSensor interface {
	ReadLevel() (float64, error)
}

// MotorDriver drives the door motor. The two outputs are mutually exclusive
// by contract; the actuator enforces this by clearing both at the top of
// every cycle.
type MotorDriver interface {
	SetOpenOutput(on bool) error
	SetCloseOutput(on bool) error
}

// Buttons exposes the panel inputs. Both are level-triggered: they report
// the current state of the button, not an edge.
type Buttons interface {
	IsWipeRequested() (bool, error)
	IsManualOpenRequested() (bool, error)
}
