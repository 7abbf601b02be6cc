package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/latchd/latch/pkg/clierror"
	"github.com/latchd/latch/pkg/credential"
)

func init() {
	rootCmd.AddCommand(masterCmd)
	masterCmd.AddCommand(masterShowCmd)
	masterCmd.AddCommand(masterSetCmd)
	masterCmd.AddCommand(masterWipeCmd)

	masterWipeCmd.Flags().Bool("yes", false, "Confirm the wipe without prompting")
}

var masterCmd = &cobra.Command{
	Use:   "master",
	Short: "Manage the master credential",
	Long: `The master credential toggles the controller's program mode. It is
stored separately from the allow-list and is never granted or removed by
ordinary scans.`,
}

// masterView is the serializable view of the master credential state.
type masterView struct {
	Defined bool   `json:"defined" yaml:"defined"`
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
}

var masterShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the master credential",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, defined := credStore.Master()

		if outputFormat != "table" {
			v := masterView{Defined: defined}
			if defined {
				v.ID = id.String()
			}
			return formatOutput(v)
		}

		if !defined {
			color.Yellow("No master credential provisioned.")
			fmt.Println("The controller will promote the first scan after boot, or set one now with 'latchctl master set'.")
			return nil
		}
		fmt.Printf("Master credential: %s\n", id)
		return nil
	},
}

var masterSetCmd = &cobra.Command{
	Use:   "set <id>",
	Short: "Provision or redefine the master credential",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := credential.ParseID(args[0])
		if err != nil {
			return clierror.InvalidCredential(args[0])
		}
		if err := credStore.SetMaster(id); err != nil {
			return clierror.InternalError(err)
		}
		color.Green("✓ Master credential set to %s", id)
		return nil
	},
}

var masterWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Clear the master-defined marker",
	Long: `Clear the master-defined marker. Stored credentials are untouched;
the controller re-enters provisioning on its next boot. This mirrors the
panel's sustained wipe hold.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, defined := credStore.Master(); !defined {
			return clierror.MasterUndefined()
		}

		yes, _ := cmd.Flags().GetBool("yes")
		if !yes {
			return fmt.Errorf("refusing to wipe without --yes")
		}
		if err := credStore.WipeMaster(); err != nil {
			return clierror.InternalError(err)
		}
		color.Yellow("Master credential wiped. The next controller boot will re-provision.")
		return nil
	},
}
