package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/namelessknight/autostartstop/pkg/reconcile"
	"github.com/namelessknight/autostartstop/pkg/schedule"
)

// PrintReconcileTable prints a formatted table of per-instance outcomes
func PrintReconcileTable(out io.Writer, summary reconcile.Summary, scanTime time.Time, scanDuration time.Duration) {
	if len(summary.Results) == 0 {
		fmt.Fprintln(out, "No instances carry the scheduling tag.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	fmt.Fprintf(w, "Scan time: %s (completed in %.2f seconds)\n",
		scanTime.Format("2006-01-02 15:04:05"),
		scanDuration.Seconds())

	fmt.Fprintln(w, "INSTANCE ID\tNAME\tTAG VALUE\tACTION\tRESULT")

	for _, result := range summary.Results {
		name := result.Instance.Name()
		if name == "" {
			name = "-"
		}

		outcome := "ok"
		switch {
		case result.Err != nil:
			outcome = fmt.Sprintf("failed: %v", result.Err)
		case result.Action == schedule.ResolvedNone:
			outcome = "skipped"
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			result.Instance.ID,
			name,
			result.Instance.TagValue,
			result.Action.String(),
			outcome)
	}

	w.Flush()
}

// PrintReconcileSummary prints aggregate counts and the next window change
func PrintReconcileSummary(out io.Writer, summary reconcile.Summary, policy schedule.TimePolicy, now time.Time) {
	fmt.Fprintf(out, "\nDefault action: %s\n", summary.DefaultAction.String())
	fmt.Fprintf(out, "Started: %d, Stopped: %d, Skipped: %d, Failed: %d\n",
		summary.Started, summary.Stopped, summary.Skipped, summary.Failed)

	boundary := policy.NextBoundary(now)
	fmt.Fprintf(out, "Next window change at %s (%s)\n",
		boundary.Format("2006-01-02 15:04"),
		humanize.Time(boundary))
}
