package hal

import (
	"sync"

	"github.com/latchd/latch/pkg/credential"
)

// Sim is an in-memory hardware simulator implementing every interface in
// this package. The daemon uses it in --sim mode and the controller tests
// drive it directly. A mutex guards the state because the simulator may be
// poked from an input goroutine while the control loop polls it.
type Sim struct {
	mu sync.Mutex

	scans    []credential.ID
	distance float64
	gasLevel float64

	wipeHeld    bool
	manualHeld  bool
	manualLatch bool
	openOutput  bool
	closeOutput bool
	overlapSeen bool
	openCycles  int
	closeCycles int
}

// NewSim returns a simulator with an unobstructed doorway and no hazard.
func NewSim() *Sim {
	return &Sim{distance: 0}
}

// QueueScan enqueues a tag presentation; each TryReadID consumes one.
func (s *Sim) QueueScan(id credential.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scans = append(s.scans, id)
}

// TryReadID implements CredentialReader.
func (s *Sim) TryReadID() (credential.ID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.scans) == 0 {
		return credential.ID{}, false, nil
	}
	id := s.scans[0]
	s.scans = s.scans[1:]
	return id, true, nil
}

// SetDistance sets the reading returned by ReadDistance.
func (s *Sim) SetDistance(d float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.distance = d
}

// ReadDistance implements DistanceSensor.
func (s *Sim) ReadDistance() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.distance, nil
}

// SetGasLevel sets the reading returned by ReadLevel.
func (s *Sim) SetGasLevel(l float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gasLevel = l
}

// ReadLevel implements GasSensor.
func (s *Sim) ReadLevel() (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gasLevel, nil
}

// HoldWipe sets the level-triggered wipe button state.
func (s *Sim) HoldWipe(held bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wipeHeld = held
}

// PressManualOpen latches one manual-open press; the next poll reads it and
// clears the latch, approximating a short button push against a polled input.
func (s *Sim) PressManualOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manualLatch = true
}

// HoldManualOpen sets the level-triggered manual-open state.
func (s *Sim) HoldManualOpen(held bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.manualHeld = held
}

// IsWipeRequested implements Buttons.
func (s *Sim) IsWipeRequested() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wipeHeld, nil
}

// IsManualOpenRequested implements Buttons.
func (s *Sim) IsManualOpenRequested() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.manualLatch {
		s.manualLatch = false
		return true, nil
	}
	return s.manualHeld, nil
}

// SetOpenOutput implements MotorDriver.
func (s *Sim) SetOpenOutput(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on && s.closeOutput {
		s.overlapSeen = true
	}
	if on && !s.openOutput {
		s.openCycles++
	}
	s.openOutput = on
	return nil
}

// SetCloseOutput implements MotorDriver.
func (s *Sim) SetCloseOutput(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if on && s.openOutput {
		s.overlapSeen = true
	}
	if on && !s.closeOutput {
		s.closeCycles++
	}
	s.closeOutput = on
	return nil
}

// OpenCycles returns how many times the open output was energized.
func (s *Sim) OpenCycles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openCycles
}

// CloseCycles returns how many times the close output was energized.
func (s *Sim) CloseCycles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeCycles
}

// OverlapSeen reports whether both motor outputs were ever energized at
// once. It must stay false under any sequence of actuator cycles.
func (s *Sim) OverlapSeen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlapSeen
}

// Outputs returns the current motor output levels.
func (s *Sim) Outputs() (openOut, closeOut bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.openOutput, s.closeOutput
}
