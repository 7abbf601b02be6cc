// Package cmd implements the latchctl CLI commands.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/latchd/latch/internal/version"
	"github.com/latchd/latch/pkg/clierror"
	"github.com/latchd/latch/pkg/store"
)

var (
	// Global flags
	outputFormat string
	imagePath    string
	capacity     int

	// Shared store instance
	credStore *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "latchctl",
	Short: "Administration CLI for the latch door controller",
	Long: `latchctl manages the latch controller's credential image offline.

It lists, adds, and removes door credentials, manages the master
credential, and reads the local audit log. Stop latchd before making
changes; the image has a single-writer discipline.`,
	Version:      version.String(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Commands that don't touch the credential image skip store setup.
		if cmd.Name() == "completion" || cmd.Name() == "help" {
			return nil
		}
		for p := cmd; p != nil; p = p.Parent() {
			if p.Name() == "audit" {
				return nil
			}
		}

		path := imagePath
		if path == "" {
			path = store.DefaultPath()
		}

		var err error
		credStore, err = store.Open(path, capacity)
		if err != nil {
			if errors.Is(err, store.ErrCorrupt) {
				return clierror.StoreCorrupt(err)
			}
			return fmt.Errorf("failed to open credential image: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if credStore != nil {
			credStore.Close()
		}
	},
}

var completionCmd = &cobra.Command{
	Use:       "completion [bash|zsh|fish]",
	Short:     "Generate shell completion scripts",
	ValidArgs: []string{"bash", "zsh", "fish"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		default:
			return fmt.Errorf("unknown shell: %s", args[0])
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&imagePath, "store", "", "Credential image path (default: ~/.local/share/latch/latch.img)")
	rootCmd.PersistentFlags().IntVar(&capacity, "capacity", store.DefaultCapacity, "Slot capacity of the credential image")
	rootCmd.AddCommand(completionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExitCodeFor maps an error to a process exit code, printing structured
// errors along the way.
func ExitCodeFor(err error) int {
	var cliErr *clierror.CLIError
	if errors.As(err, &cliErr) {
		clierror.PrintError(cliErr, outputFormat)
		return cliErr.ExitCode
	}
	return clierror.ExitGeneral
}

// formatOutput handles output formatting based on the --output flag.
func formatOutput(data interface{}) error {
	switch outputFormat {
	case "json":
		return outputJSON(data)
	case "yaml":
		return outputYAML(data)
	default:
		// Table format is handled by each command.
		return nil
	}
}

func outputJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func outputYAML(data interface{}) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
