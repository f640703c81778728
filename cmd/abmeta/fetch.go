package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	domfetch "github.com/kailas-cloud/abmeta/internal/domain/fetch"
)

func newFetchCmd(c *cli) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fetch [item-id...]",
		Short: "Fetch AcousticBrainz attributes for library items",
		Long: `Fetch AcousticBrainz attributes for the given items, or for every
registered item when no IDs are given. Items without a MusicBrainz
recording ID are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			defer func() { _ = c.logger.Sync() }()

			a, err := newApp(ctx, c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer a.Close()

			results, err := a.fetch.FetchByIDs(ctx, args, write)
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}
			printResults(cmd.OutOrStdout(), results)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&write, "write", "w", false, "also write attributes to sidecar files")
	return cmd
}

// printResults writes one line per item followed by a status summary.
func printResults(w io.Writer, results []domfetch.Result) {
	counts := make(map[domfetch.ItemStatus]int)
	for _, r := range results {
		counts[r.Status()]++
		line := fmt.Sprintf("%s\t%s", r.ID(), r.Status())
		if r.Status() == domfetch.StatusOK {
			line += fmt.Sprintf("\t%d attributes", r.Attributes())
			if r.Written() {
				line += ", written"
			}
		}
		if r.Err() != nil {
			line += "\t" + r.Err().Error()
		}
		_, _ = fmt.Fprintln(w, line)
	}

	_, _ = fmt.Fprintf(w, "%d items: %d ok, %d skipped, %d not found, %d failed\n",
		len(results),
		counts[domfetch.StatusOK],
		counts[domfetch.StatusSkipped],
		counts[domfetch.StatusNotFound],
		counts[domfetch.StatusError],
	)
}
