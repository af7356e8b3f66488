package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nlp2cmd/nlp2cmd/internal/app"
	"github.com/nlp2cmd/nlp2cmd/internal/domain"
)

const msgHistoryDisabled = "History is disabled in the configuration."

// NewHistoryCommand creates the history command with all subcommands.
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect past syntheses",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var (
		limit  int
		search string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent syntheses",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.History == nil {
				fmt.Fprintln(cmd.OutOrStdout(), msgHistoryDisabled)
				return nil
			}
			records, err := container.History.Records(limit, search)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No history records.")
				return nil
			}
			for _, rec := range records {
				status := "ok"
				if !rec.Succeeded {
					status = "failed"
				} else if rec.Degraded {
					status = "degraded"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-15s %-8s %-10s %q -> %s\n",
					humanize.Time(rec.Timestamp), status, rec.DSL, rec.Query, rec.Command)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", domain.DefaultHistoryLimit, "Maximum records to show")
	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by query or command substring")
	return cmd
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.History == nil {
				fmt.Fprintln(cmd.OutOrStdout(), msgHistoryDisabled)
				return nil
			}
			if err := container.History.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <dest>",
		Short: "Export history to a jsonl file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.History == nil {
				fmt.Fprintln(cmd.OutOrStdout(), msgHistoryDisabled)
				return nil
			}
			if err := container.History.ExportJSON(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported history to %s\n", args[0])
			return nil
		},
	}
}
