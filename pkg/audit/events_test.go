package audit

import (
	"testing"

	"github.com/latchd/latch/pkg/credential"
)

func TestSeverityForCoversAllEventTypes(t *testing.T) {
	for _, et := range AllEventTypes() {
		if _, ok := severityMap[et]; !ok {
			t.Errorf("event type %s has no severity mapping", et)
		}
	}
}

func TestSeverityForUnknownFailsSecure(t *testing.T) {
	if got := SeverityFor(EventType("made.up")); got != SeverityWarning {
		t.Errorf("unknown event type severity = %v, want SeverityWarning", got)
	}
}

func TestEventConstructors(t *testing.T) {
	id := credential.ID{0xDE, 0xAD, 0xBE, 0xEF}

	tests := []struct {
		name     string
		event    Event
		wantType EventType
		wantCred string
	}{
		{"granted", NewAccessGranted(id), EventAccessGranted, "deadbeef"},
		{"denied", NewAccessDenied(id), EventAccessDenied, "deadbeef"},
		{"program enter", NewProgramEnter(), EventProgramEnter, ""},
		{"added", NewCredentialAdded(id, 3), EventCredentialAdded, "deadbeef"},
		{"wiped", NewMasterWiped(), EventMasterWiped, ""},
		{"safety trip", NewSafetyTrip(412, 300), EventSafetyTrip, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.Type != tt.wantType {
				t.Errorf("Type = %s, want %s", tt.event.Type, tt.wantType)
			}
			if tt.event.Credential != tt.wantCred {
				t.Errorf("Credential = %q, want %q", tt.event.Credential, tt.wantCred)
			}
			if tt.event.ID == "" {
				t.Error("event has no ID")
			}
			if tt.event.Severity != SeverityFor(tt.event.Type) {
				t.Errorf("Severity = %v, want %v", tt.event.Severity, SeverityFor(tt.event.Type))
			}
			if tt.event.Timestamp.IsZero() {
				t.Error("event has no timestamp")
			}
		})
	}
}

func TestSafetyTripDetails(t *testing.T) {
	ev := NewSafetyTrip(412.5, 300)
	if ev.Details["level"] != "412.5" {
		t.Errorf("level = %q, want 412.5", ev.Details["level"])
	}
	if ev.Details["threshold"] != "300" {
		t.Errorf("threshold = %q, want 300", ev.Details["threshold"])
	}
	if ev.Severity != SeverityCritical {
		t.Errorf("safety trip severity = %v, want critical", ev.Severity)
	}
}
