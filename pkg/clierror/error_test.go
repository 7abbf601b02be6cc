package clierror

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *CLIError
		wantCode string
		wantExit int
	}{
		{"not found", CredentialNotFound("deadbeef"), CodeCredentialNotFound, ExitNotFound},
		{"duplicate", DuplicateCredential("deadbeef"), CodeDuplicateCredential, ExitConflict},
		{"full", StorageFull(64), CodeStorageFull, ExitConflict},
		{"master undefined", MasterUndefined(), CodeMasterUndefined, ExitNotFound},
		{"invalid", InvalidCredential("nope"), CodeInvalidCredential, ExitGeneral},
		{"internal", InternalError(nil), CodeInternalError, ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.ExitCode != tt.wantExit {
				t.Errorf("ExitCode = %d, want %d", tt.err.ExitCode, tt.wantExit)
			}
			if tt.err.Message == "" {
				t.Error("empty message")
			}
		})
	}
}

func TestFormatErrorJSON(t *testing.T) {
	out := FormatError(StorageFull(64), "json")

	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["code"] != CodeStorageFull {
		t.Errorf("code = %v, want %s", decoded["code"], CodeStorageFull)
	}
	if _, ok := decoded["exitCode"]; ok {
		t.Error("exit code must not be serialized")
	}
}

func TestFormatErrorHuman(t *testing.T) {
	out := FormatError(CredentialNotFound("deadbeef"), "table")
	if !strings.Contains(out, "Error [CREDENTIAL_NOT_FOUND]") {
		t.Errorf("missing code header in %q", out)
	}
	if !strings.Contains(out, "Hint:") {
		t.Errorf("missing hint in %q", out)
	}
}
