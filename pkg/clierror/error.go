// Package clierror provides structured errors for latchctl output with
// codes, exit codes, and remediation hints.
package clierror

import (
	"encoding/json"
	"fmt"
	"os"
)

// Exit codes for latchctl.
const (
	ExitSuccess  = 0 // Operation completed successfully
	ExitGeneral  = 1 // Unknown/unhandled error
	ExitNotFound = 2 // Credential or resource doesn't exist
	ExitConflict = 3 // Duplicate credential or full storage
	ExitCorrupt  = 4 // Credential image failed validation
)

// Error codes (strings) for programmatic error handling.
const (
	CodeCredentialNotFound  = "CREDENTIAL_NOT_FOUND"
	CodeDuplicateCredential = "DUPLICATE_CREDENTIAL"
	CodeStorageFull         = "STORAGE_FULL"
	CodeMasterUndefined     = "MASTER_UNDEFINED"
	CodeStoreCorrupt        = "STORE_CORRUPT"
	CodeInvalidCredential   = "INVALID_CREDENTIAL"
	CodeInternalError       = "INTERNAL_ERROR"
)

// CLIError represents a structured error for CLI output.
type CLIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Hint      string `json:"hint,omitempty"`
	Retryable bool   `json:"retryable"`
	ExitCode  int    `json:"-"` // Not serialized, used for os.Exit
}

// Error implements the error interface.
func (e *CLIError) Error() string {
	return e.Message
}

// CredentialNotFound creates an error for a credential absent from the store.
func CredentialNotFound(id string) *CLIError {
	return &CLIError{
		Code:      CodeCredentialNotFound,
		Message:   fmt.Sprintf("credential '%s' not found", id),
		Hint:      "Check stored credentials with 'latchctl credential list'",
		Retryable: false,
		ExitCode:  ExitNotFound,
	}
}

// DuplicateCredential creates an error for adding an already-stored credential.
func DuplicateCredential(id string) *CLIError {
	return &CLIError{
		Code:      CodeDuplicateCredential,
		Message:   fmt.Sprintf("credential '%s' is already stored", id),
		Hint:      "Remove it first with 'latchctl credential remove' if you want to reorder",
		Retryable: false,
		ExitCode:  ExitConflict,
	}
}

// StorageFull creates an error for an add rejected at slot capacity.
func StorageFull(capacity int) *CLIError {
	return &CLIError{
		Code:      CodeStorageFull,
		Message:   fmt.Sprintf("credential storage is full (%d slots)", capacity),
		Hint:      "Remove an unused credential or provision a larger image",
		Retryable: false,
		ExitCode:  ExitConflict,
	}
}

// MasterUndefined creates an error for operations needing a provisioned master.
func MasterUndefined() *CLIError {
	return &CLIError{
		Code:      CodeMasterUndefined,
		Message:   "no master credential is provisioned",
		Hint:      "Set one with 'latchctl master set <id>' or boot the controller to provision",
		Retryable: false,
		ExitCode:  ExitNotFound,
	}
}

// StoreCorrupt creates an error for an image that failed validation.
func StoreCorrupt(err error) *CLIError {
	return &CLIError{
		Code:      CodeStoreCorrupt,
		Message:   fmt.Sprintf("credential image failed validation: %s", err),
		Hint:      "The image must be re-provisioned; records cannot be trusted",
		Retryable: false,
		ExitCode:  ExitCorrupt,
	}
}

// InvalidCredential creates an error for a malformed credential argument.
func InvalidCredential(arg string) *CLIError {
	return &CLIError{
		Code:      CodeInvalidCredential,
		Message:   fmt.Sprintf("invalid credential '%s'", arg),
		Hint:      "Credentials are 8 hex digits, e.g. 04a1b2c3",
		Retryable: false,
		ExitCode:  ExitGeneral,
	}
}

// InternalError creates an error for unexpected internal errors.
func InternalError(err error) *CLIError {
	msg := "an unexpected internal error occurred"
	if err != nil {
		msg = fmt.Sprintf("internal error: %s", err.Error())
	}
	return &CLIError{
		Code:      CodeInternalError,
		Message:   msg,
		Hint:      "",
		Retryable: false,
		ExitCode:  ExitGeneral,
	}
}

// FormatError returns the error formatted for the given output format.
// Supported formats: "json" for JSON output, anything else for human-readable
// format.
func FormatError(err *CLIError, outputFormat string) string {
	if outputFormat == "json" {
		data, jsonErr := json.MarshalIndent(err, "", "  ")
		if jsonErr != nil {
			return fmt.Sprintf(`{"code":"%s","message":"%s"}`, err.Code, err.Message)
		}
		return string(data)
	}

	output := fmt.Sprintf("Error [%s]: %s", err.Code, err.Message)
	if err.Hint != "" {
		output += fmt.Sprintf("\nHint: %s", err.Hint)
	}
	return output
}

// PrintError prints the error to stderr in the appropriate format.
func PrintError(err *CLIError, outputFormat string) {
	fmt.Fprintln(os.Stderr, FormatError(err, outputFormat))
}
