package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/latchd/latch/pkg/audit"
	"github.com/latchd/latch/pkg/store"
	"github.com/latchd/latch/pkg/timeutil"
)

var (
	auditLogPath string
	auditLimit   int
)

func init() {
	rootCmd.AddCommand(auditCmd)
	auditCmd.AddCommand(auditListCmd)

	auditCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "", "Audit database path (default: alongside the credential image)")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 50, "Maximum events to show (0 = all)")
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Read the controller's local audit log",
}

// auditRow is the serializable view of one audit event.
type auditRow struct {
	Time       string            `json:"time" yaml:"time"`
	Type       string            `json:"type" yaml:"type"`
	Severity   string            `json:"severity" yaml:"severity"`
	Credential string            `json:"credential,omitempty" yaml:"credential,omitempty"`
	Details    map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent events, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := auditLogPath
		if path == "" {
			path = filepath.Join(filepath.Dir(store.DefaultPath()), "audit.db")
		}

		log, err := audit.OpenSQLiteLog(path)
		if err != nil {
			return fmt.Errorf("failed to open audit log: %w", err)
		}
		defer log.Close()

		events, err := log.List(auditLimit)
		if err != nil {
			return err
		}

		if outputFormat != "table" {
			rows := make([]auditRow, len(events))
			for i, ev := range events {
				rows[i] = auditRow{
					Time:       ev.Timestamp.Format(time.RFC3339),
					Type:       string(ev.Type),
					Severity:   ev.Severity.String(),
					Credential: ev.Credential,
					Details:    ev.Details,
				}
			}
			if len(rows) == 0 {
				fmt.Println("[]")
				return nil
			}
			return formatOutput(rows)
		}

		if len(events) == 0 {
			fmt.Println("No audit events recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tAGE\tSEVERITY\tEVENT\tCREDENTIAL")
		for _, ev := range events {
			cred := ev.Credential
			if cred == "" {
				cred = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				ev.Timestamp.Format("2006-01-02 15:04:05"),
				timeutil.Relative(ev.Timestamp), ev.Severity, ev.Type, cred)
		}
		w.Flush()
		return nil
	},
}
