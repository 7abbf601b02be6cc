package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/latchd/latch/pkg/clierror"
	"github.com/latchd/latch/pkg/credential"
	"github.com/latchd/latch/pkg/store"
)

func init() {
	rootCmd.AddCommand(credentialCmd)
	credentialCmd.AddCommand(credentialListCmd)
	credentialCmd.AddCommand(credentialAddCmd)
	credentialCmd.AddCommand(credentialRemoveCmd)
}

var credentialCmd = &cobra.Command{
	Use:     "credential",
	Aliases: []string{"cred"},
	Short:   "Manage door credentials",
	Long:    `Commands to list, add, and remove the credentials allowed to open the door.`,
}

// credentialRow is the serializable view of one stored credential.
type credentialRow struct {
	Slot int    `json:"slot" yaml:"slot"`
	ID   string `json:"id" yaml:"id"`
}

var credentialListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored credentials in slot order",
	RunE: func(cmd *cobra.Command, args []string) error {
		records := credStore.Records()

		if outputFormat != "table" {
			rows := make([]credentialRow, len(records))
			for i, id := range records {
				rows[i] = credentialRow{Slot: i, ID: id.String()}
			}
			return formatOutput(rows)
		}

		if len(records) == 0 {
			fmt.Println("No credentials stored. Use 'latchctl credential add' to enroll one.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SLOT\tID")
		for i, id := range records {
			fmt.Fprintf(w, "%d\t%s\n", i, id)
		}
		w.Flush()
		fmt.Printf("\n%d of %d slots used\n", credStore.Count(), credStore.Capacity())
		return nil
	},
}

var credentialAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Append a credential to the allow-list",
	Long: `Append a credential to the end of the allow-list.

Examples:
  latchctl credential add 04a1b2c3
  latchctl credential add deadbeef -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := credential.ParseID(args[0])
		if err != nil {
			return clierror.InvalidCredential(args[0])
		}

		switch err := credStore.Append(id); {
		case errors.Is(err, store.ErrDuplicateCredential):
			return clierror.DuplicateCredential(id.String())
		case errors.Is(err, store.ErrStorageFull):
			return clierror.StorageFull(credStore.Capacity())
		case err != nil:
			return clierror.InternalError(err)
		}

		color.Green("✓ Credential %s added (slot %d)", id, credStore.Count()-1)
		return nil
	},
}

var credentialRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a credential from the allow-list",
	Long: `Remove a credential. Later slots shift down one position so the
list stays contiguous; relative order is preserved.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := credential.ParseID(args[0])
		if err != nil {
			return clierror.InvalidCredential(args[0])
		}

		switch err := credStore.RemoveAt(id); {
		case errors.Is(err, store.ErrCredentialNotFound):
			return clierror.CredentialNotFound(id.String())
		case err != nil:
			return clierror.InternalError(err)
		}

		color.Green("✓ Credential %s removed", id)
		return nil
	},
}
