// latchctl is the offline administration CLI for the latch door controller:
// it inspects and edits the credential image and reads the audit log while
// the daemon is stopped (or, for reads, while it runs).
package main

import (
	"os"

	"github.com/latchd/latch/cmd/latchctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(cmd.ExitCodeFor(err))
	}
}
