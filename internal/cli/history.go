package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/matzehuels/algoreel/pkg/history"
)

const defaultHistoryLimit = 20

// historyCommand creates the history command.
func (c *CLI) historyCommand() *cobra.Command {
	var (
		limit int
		plot  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past render runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.newHistory(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list history: %w", err)
			}
			if len(records) == 0 {
				printInfo("No runs recorded yet")
				return nil
			}

			w := cmd.OutOrStdout()
			if plot {
				fmt.Fprintln(w, plotDurations(records))
			} else {
				writeHistoryTable(w, records)
			}
			printHistorySummary(w, history.Summarize(records))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", defaultHistoryLimit, "number of runs to show (0 for all)")
	cmd.Flags().BoolVar(&plot, "plot", false, "plot run durations instead of listing runs")

	return cmd
}

// writeHistoryTable prints records newest first.
func writeHistoryTable(w io.Writer, records []history.Record) {
	tbl := tablewriter.NewWriter(w)
	tbl.SetHeader([]string{"Started", "Scene", "Quality", "Format", "Frames", "Duration", "Status"})
	tbl.SetAutoWrapText(false)
	for _, r := range records {
		status := "ok"
		switch {
		case !r.OK():
			status = r.ErrorCode
			if status == "" {
				status = "failed"
			}
		case r.CacheHit:
			status = iconCached
		}
		frames := ""
		if r.Frames > 0 {
			frames = fmt.Sprintf("%d", r.Frames)
		}
		tbl.Append([]string{
			r.Started.Local().Format("2006-01-02 15:04:05"),
			r.Scene,
			r.Quality,
			r.Format,
			frames,
			r.Duration.Round(time.Millisecond).String(),
			status,
		})
	}
	tbl.Render()
}

// plotDurations charts run durations in seconds, oldest on the left.
func plotDurations(records []history.Record) string {
	durations := history.Durations(records)
	if len(durations) == 1 {
		// asciigraph needs two points to draw a line.
		durations = append(durations, durations[0])
	}
	return asciigraph.Plot(durations,
		asciigraph.Height(10),
		asciigraph.Caption(fmt.Sprintf("render time (s), last %d runs", len(records))))
}

func printHistorySummary(w io.Writer, s history.Summary) {
	parts := []string{fmt.Sprintf("%d runs", s.Runs)}
	if s.Failures > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.Failures))
	}
	if s.CacheHits > 0 {
		parts = append(parts, fmt.Sprintf("%d cached", s.CacheHits))
	}
	parts = append(parts, "total "+s.Total.Round(time.Millisecond).String())
	fmt.Fprintln(w, StyleDim.Render(strings.Join(parts, " · ")))
}
