// Package audit defines the controller's security-relevant events and the
// emitters that record them. Emission failures never block the control loop.
package audit

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/latchd/latch/pkg/credential"
)

// Severity represents syslog severity levels per RFC 5424.
type Severity int

const (
	SeverityCritical Severity = 2
	SeverityWarning  Severity = 4
	SeverityNotice   Severity = 5
	SeverityInfo     Severity = 6
)

// String returns the human-readable name for a severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityNotice:
		return "NOTICE"
	case SeverityWarning:
		return "WARNING"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// EventType identifies a security-relevant controller event.
type EventType string

const (
	EventAccessGranted       EventType = "access.granted"
	EventAccessDenied        EventType = "access.denied"
	EventProgramEnter        EventType = "mode.program_enter"
	EventProgramExit         EventType = "mode.program_exit"
	EventCredentialAdded     EventType = "credential.added"
	EventCredentialRemoved   EventType = "credential.removed"
	EventCredentialDuplicate EventType = "credential.duplicate"
	EventStorageFull         EventType = "credential.store_full"
	EventMasterProvisioned   EventType = "master.provisioned"
	EventMasterWiped         EventType = "master.wiped"
	EventManualOpen          EventType = "door.manual_open"
	EventCloseTimeout        EventType = "door.close_timeout"
	EventSafetyTrip          EventType = "safety.trip"
)

// AllEventTypes returns every defined event type for iteration and validation.
func AllEventTypes() []EventType {
	return []EventType{
		EventAccessGranted,
		EventAccessDenied,
		EventProgramEnter,
		EventProgramExit,
		EventCredentialAdded,
		EventCredentialRemoved,
		EventCredentialDuplicate,
		EventStorageFull,
		EventMasterProvisioned,
		EventMasterWiped,
		EventManualOpen,
		EventCloseTimeout,
		EventSafetyTrip,
	}
}

// severityMap maps each event type to its syslog severity.
var severityMap = map[EventType]Severity{
	EventAccessGranted:       SeverityInfo,
	EventAccessDenied:        SeverityWarning,
	EventProgramEnter:        SeverityNotice,
	EventProgramExit:         SeverityNotice,
	EventCredentialAdded:     SeverityNotice,
	EventCredentialRemoved:   SeverityNotice,
	EventCredentialDuplicate: SeverityInfo,
	EventStorageFull:         SeverityWarning,
	EventMasterProvisioned:   SeverityNotice,
	EventMasterWiped:         SeverityWarning,
	EventManualOpen:          SeverityNotice,
	EventCloseTimeout:        SeverityWarning,
	EventSafetyTrip:          SeverityCritical,
}

// SeverityFor returns the syslog severity for a given event type.
// Unknown event types return SeverityWarning (fail-secure: treat unknowns as
// concerning).
func SeverityFor(et EventType) Severity {
	if s, ok := severityMap[et]; ok {
		return s
	}
	return SeverityWarning
}

// Event is one security-relevant controller event.
type Event struct {
	ID         string
	Type       EventType
	Severity   Severity
	Timestamp  time.Time
	Credential string            // hex credential involved, empty when none
	Details    map[string]string // event-specific fields
}

func newEvent(et EventType, id credential.ID, details map[string]string) Event {
	cred := ""
	if !id.IsZero() {
		cred = id.String()
	}
	if details == nil {
		details = map[string]string{}
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       et,
		Severity:   SeverityFor(et),
		Timestamp:  time.Now(),
		Credential: cred,
		Details:    details,
	}
}

// NewAccessGranted creates an access.granted event for an accepted scan.
func NewAccessGranted(id credential.ID) Event {
	return newEvent(EventAccessGranted, id, nil)
}

// NewAccessDenied creates an access.denied event for a rejected scan.
func NewAccessDenied(id credential.ID) Event {
	return newEvent(EventAccessDenied, id, nil)
}

// NewProgramEnter creates a mode.program_enter event for a master scan in
// normal mode.
func NewProgramEnter() Event {
	return newEvent(EventProgramEnter, credential.ID{}, nil)
}

// NewProgramExit creates a mode.program_exit event for a master scan in
// program mode.
func NewProgramExit() Event {
	return newEvent(EventProgramExit, credential.ID{}, nil)
}

// NewCredentialAdded creates a credential.added event for a program-mode
// enrollment.
func NewCredentialAdded(id credential.ID, slot int) Event {
	return newEvent(EventCredentialAdded, id, map[string]string{
		"slot": strconv.Itoa(slot),
	})
}

// NewCredentialRemoved creates a credential.removed event for a program-mode
// removal.
func NewCredentialRemoved(id credential.ID) Event {
	return newEvent(EventCredentialRemoved, id, nil)
}

// NewCredentialDuplicate creates a credential.duplicate event for an
// enrollment scan of an already-stored credential.
func NewCredentialDuplicate(id credential.ID) Event {
	return newEvent(EventCredentialDuplicate, id, nil)
}

// NewStorageFull creates a credential.store_full event for an enrollment
// rejected at capacity.
func NewStorageFull(id credential.ID, capacity int) Event {
	return newEvent(EventStorageFull, id, map[string]string{
		"capacity": strconv.Itoa(capacity),
	})
}

// NewMasterProvisioned creates a master.provisioned event for first-boot
// provisioning or explicit redefinition.
func NewMasterProvisioned() Event {
	return newEvent(EventMasterProvisioned, credential.ID{}, nil)
}

// NewMasterWiped creates a master.wiped event for a confirmed wipe hold.
func NewMasterWiped() Event {
	return newEvent(EventMasterWiped, credential.ID{}, nil)
}

// NewManualOpen creates a door.manual_open event for the panel button path,
// which bypasses credential checks.
func NewManualOpen() Event {
	return newEvent(EventManualOpen, credential.ID{}, nil)
}

// NewCloseTimeout creates a door.close_timeout event for a close cycle
// abandoned because the doorway never cleared.
func NewCloseTimeout(timeout time.Duration) Event {
	return newEvent(EventCloseTimeout, credential.ID{}, map[string]string{
		"timeout": timeout.String(),
	})
}

// NewSafetyTrip creates a safety.trip event for a hazard reading above
// threshold. The controller halts after emitting this.
func NewSafetyTrip(level, threshold float64) Event {
	return newEvent(EventSafetyTrip, credential.ID{}, map[string]string{
		"level":     strconv.FormatFloat(level, 'f', -1, 64),
		"threshold": strconv.FormatFloat(threshold, 'f', -1, 64),
	})
}
