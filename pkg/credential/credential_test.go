package credential

import "testing"

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ID
		wantErr bool
	}{
		{"valid", "deadbeef", ID{0xDE, 0xAD, 0xBE, 0xEF}, false},
		{"uppercase", "DEADBEEF", ID{0xDE, 0xAD, 0xBE, 0xEF}, false},
		{"leading zero byte", "00123456", ID{0x00, 0x12, 0x34, 0x56}, false},
		{"too short", "dead", ID{}, true},
		{"too long", "deadbeef00", ID{}, true},
		{"not hex", "zzzzzzzz", ID{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseID(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseID(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseID(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	id := ID{0x0A, 0x00, 0xFF, 0x42}
	got, err := ParseID(id.String())
	if err != nil {
		t.Fatalf("ParseID(String()) failed: %v", err)
	}
	if got != id {
		t.Errorf("round trip changed id: %v -> %v", id, got)
	}
}

func TestIsZero(t *testing.T) {
	if !(ID{}).IsZero() {
		t.Error("zero value should report IsZero")
	}
	if (ID{0, 0, 0, 1}).IsZero() {
		t.Error("non-zero id reported IsZero")
	}
}
