package commands

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nlp2cmd/nlp2cmd/internal/app"
)

const msgNoCachedSchemas = "No cached schemas."

// NewCacheCommand creates the cache command with all subcommands.
func NewCacheCommand(container *app.Container) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the schema cache",
	}

	cacheCmd.AddCommand(
		newCacheListCommand(container),
		newCacheInvalidateCommand(container),
		newCacheClearCommand(container),
	)

	return cacheCmd
}

func newCacheListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := container.Cache.Entries()
			if len(entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), msgNoCachedSchemas)
				return nil
			}
			for _, entry := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%-40s %-10s %d subcommands, stored %s\n",
					entry.Key,
					entry.Spec.DSL,
					len(entry.Spec.Subcommands),
					humanize.Time(entry.StoredAt),
				)
			}
			return nil
		},
	}
}

func newCacheInvalidateCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate <key>",
		Short: "Drop one cached schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Cache.Invalidate(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Invalidated %s\n", args[0])
			return nil
		},
	}
}

func newCacheClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached schemas",
		RunE: func(cmd *cobra.Command, args []string) error {
			container.Cache.Clear()
			fmt.Fprintln(cmd.OutOrStdout(), "Schema cache cleared.")
			return nil
		},
	}
}
