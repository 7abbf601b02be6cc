package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/latchd/latch/pkg/store"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

// statusView is the serializable summary of the credential image.
type statusView struct {
	Path          string `json:"path" yaml:"path"`
	Count         int    `json:"count" yaml:"count"`
	Capacity      int    `json:"capacity" yaml:"capacity"`
	MasterDefined bool   `json:"masterDefined" yaml:"masterDefined"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize the credential image",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := imagePath
		if path == "" {
			path = store.DefaultPath()
		}
		_, defined := credStore.Master()
		v := statusView{
			Path:          path,
			Count:         credStore.Count(),
			Capacity:      credStore.Capacity(),
			MasterDefined: defined,
		}

		if outputFormat != "table" {
			return formatOutput(v)
		}

		fmt.Printf("Image:    %s\n", v.Path)
		fmt.Printf("Records:  %d / %d slots\n", v.Count, v.Capacity)
		if v.MasterDefined {
			color.Green("Master:   provisioned")
		} else {
			color.Yellow("Master:   not provisioned")
		}
		return nil
	},
}
