package controller

// State is the controller's mode. It is an explicit tagged state owned by
// the controller value; there are no free-floating mode flags.
type State int

const (
	// StateNormal grants or denies door access on each scan.
	StateNormal State = iota
	// StateProgram adds or removes credentials on each scan instead of
	// granting access.
	StateProgram
	// StateHalted is terminal. Only an external restart leaves it.
	StateHalted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateProgram:
		return "program"
	case StateHalted:
		return "halted"
	default:
		return "unknown"
	}
}

// HaltReason records why the controller entered StateHalted.
type HaltReason int

const (
	HaltNone HaltReason = iota
	// HaltMasterWiped: a confirmed wipe hold cleared the master credential.
	HaltMasterWiped
	// HaltSafetyTrip: the hazard sensor tripped and the door was forced open.
	HaltSafetyTrip
)

// String returns the halt reason name.
func (r HaltReason) String() string {
	switch r {
	case HaltNone:
		return "none"
	case HaltMasterWiped:
		return "master_wiped"
	case HaltSafetyTrip:
		return "safety_trip"
	default:
		return "unknown"
	}
}
