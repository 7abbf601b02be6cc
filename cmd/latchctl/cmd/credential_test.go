package cmd

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/latchd/latch/pkg/clierror"
	"github.com/latchd/latch/pkg/credential"
	"github.com/latchd/latch/pkg/store"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	// Flag values persist across Execute calls on the shared command tree.
	masterWipeCmd.Flags().Set("yes", "false")
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func imageArg(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "latch.img")
}

func TestCredentialAddAndRemove(t *testing.T) {
	img := imageArg(t)

	if err := run(t, "--store", img, "credential", "add", "deadbeef"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := run(t, "--store", img, "credential", "add", "00112233"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	s, err := store.Open(img, store.DefaultCapacity)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	id, _ := credential.ParseID("deadbeef")
	if _, ok := s.Lookup(id); !ok {
		t.Error("added credential missing from image")
	}
	if s.Count() != 2 {
		t.Errorf("count = %d, want 2", s.Count())
	}
	s.Close()

	if err := run(t, "--store", img, "credential", "remove", "deadbeef"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	s, err = store.Open(img, store.DefaultCapacity)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	if _, ok := s.Lookup(id); ok {
		t.Error("removed credential still in image")
	}
}

func TestCredentialAddDuplicateFailsWithCode(t *testing.T) {
	img := imageArg(t)

	if err := run(t, "--store", img, "credential", "add", "deadbeef"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	err := run(t, "--store", img, "credential", "add", "deadbeef")

	var cliErr *clierror.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected CLIError, got %v", err)
	}
	if cliErr.Code != clierror.CodeDuplicateCredential {
		t.Errorf("code = %s, want %s", cliErr.Code, clierror.CodeDuplicateCredential)
	}
}

func TestCredentialRemoveMissingFailsWithCode(t *testing.T) {
	err := run(t, "--store", imageArg(t), "credential", "remove", "deadbeef")

	var cliErr *clierror.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected CLIError, got %v", err)
	}
	if cliErr.Code != clierror.CodeCredentialNotFound {
		t.Errorf("code = %s, want %s", cliErr.Code, clierror.CodeCredentialNotFound)
	}
}

func TestCredentialAddRejectsMalformedID(t *testing.T) {
	err := run(t, "--store", imageArg(t), "credential", "add", "not-hex")

	var cliErr *clierror.CLIError
	if !errors.As(err, &cliErr) {
		t.Fatalf("expected CLIError, got %v", err)
	}
	if cliErr.Code != clierror.CodeInvalidCredential {
		t.Errorf("code = %s, want %s", cliErr.Code, clierror.CodeInvalidCredential)
	}
}

func TestMasterSetAndWipe(t *testing.T) {
	img := imageArg(t)

	if err := run(t, "--store", img, "master", "set", "cafef00d"); err != nil {
		t.Fatalf("master set failed: %v", err)
	}

	s, err := store.Open(img, store.DefaultCapacity)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if _, defined := s.Master(); !defined {
		t.Error("master not defined after set")
	}
	s.Close()

	if err := run(t, "--store", img, "master", "wipe", "--yes"); err != nil {
		t.Fatalf("master wipe failed: %v", err)
	}

	s, err = store.Open(img, store.DefaultCapacity)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer s.Close()
	if _, defined := s.Master(); defined {
		t.Error("master still defined after wipe")
	}
}

func TestMasterWipeRequiresConfirmation(t *testing.T) {
	img := imageArg(t)

	if err := run(t, "--store", img, "master", "set", "cafef00d"); err != nil {
		t.Fatalf("master set failed: %v", err)
	}
	if err := run(t, "--store", img, "master", "wipe"); err == nil {
		t.Fatal("wipe without --yes must fail")
	}
}
