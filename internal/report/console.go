package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/gremlins-go/gremlins/internal/aggregate"
)

// RenderConsole writes the summary table, per-file breakdown, and a
// Markdown top-survivors digest to w, matching the teacher's pattern of a
// tablewriter summary followed by a glamour-rendered Markdown section.
// Grounded on gooze's internal/controller/simple.go table construction
// (header/footer/column alignment), generalized from a single
// path/mutation-count table to gremlins' full score breakdown.
func RenderConsole(w io.Writer, score *aggregate.MutationScore) {
	fmt.Fprintln(w, summaryTable(score))
	if len(score.ByFile) > 0 {
		fmt.Fprintln(w, fileTable(score))
	}
	if elapsed := totalTestTime(score); elapsed > 0 {
		fmt.Fprintf(w, "total test time across all gremlins: %s\n", humanizeDuration(elapsed))
	}
	if len(score.Survivors) > 0 {
		if rendered, err := RenderSurvivorsMarkdown(score); err == nil {
			fmt.Fprintln(w, rendered)
		}
	}
}

func totalTestTime(score *aggregate.MutationScore) time.Duration {
	var total time.Duration
	for _, r := range score.Results {
		total += time.Duration(r.Duration)
	}
	return total
}

func summaryTable(score *aggregate.MutationScore) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Total", "Zapped", "Survived", "Timeout", "Error", "Score"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})
	table.Append([]string{
		fmt.Sprintf("%d", score.Total),
		fmt.Sprintf("%d", score.Zapped),
		fmt.Sprintf("%d", score.Survived),
		fmt.Sprintf("%d", score.Timeout),
		fmt.Sprintf("%d", score.Error),
		fmt.Sprintf("%.1f%%", score.Percentage),
	})
	table.Render()
	return buf.String()
}

func fileTable(score *aggregate.MutationScore) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"File", "Total", "Zapped", "Survived", "Score"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	var totalGremlins int
	for _, fb := range score.ByFile {
		table.Append([]string{
			fb.Path,
			fmt.Sprintf("%d", fb.Total),
			fmt.Sprintf("%d", fb.Zapped),
			fmt.Sprintf("%d", fb.Survived),
			fmt.Sprintf("%.1f%%", fb.Percentage),
		})
		totalGremlins += fb.Total
	}
	table.SetFooter([]string{
		fmt.Sprintf("%d files", len(score.ByFile)), fmt.Sprintf("%d", totalGremlins), "", "", "",
	})
	table.Render()
	return buf.String()
}

// humanizeDuration renders a nanosecond duration for the console summary:
// sub-second durations print exactly, longer ones go through go-humanize's
// approximate relative-time phrasing, so 3m12.4s reads "3 minutes".
func humanizeDuration(d time.Duration) string {
	if d < time.Second {
		return d.String()
	}
	return humanize.RelTime(time.Now(), time.Now().Add(d), "", "")
}
