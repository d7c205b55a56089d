package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/IshaanNene/bizgoat/internal/crawl"
	"github.com/IshaanNene/bizgoat/internal/observability"
)

// artifacts are the files a run leaves behind.
type artifacts struct {
	Spreadsheet string
	Rows        int
	Checkpoint  string
	JSONL       string
	Archive     string
}

// renderReport prints the end-of-run summary: counts first, then the
// artifact locations.
func renderReport(w io.Writer, s crawl.Summary, a artifacts, m *observability.Metrics) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("bizgoat run " + s.RunID)
	t.AppendHeader(table.Row{"Item", "Value"})

	t.AppendRow(table.Row{"Succeeded", s.Succeeded})
	t.AppendRow(table.Row{"Failed", s.Failed})
	t.AppendRow(table.Row{"Records in output", s.Total})
	if s.Retried > 0 {
		t.AppendRow(table.Row{"Retried from checkpoint", s.Retried})
	}
	if s.Pages > 0 {
		t.AppendRow(table.Row{"Listing pages", s.Pages})
	}
	if s.Reason != "" {
		t.AppendRow(table.Row{"Stopped because", string(s.Reason)})
	}
	t.AppendRow(table.Row{"Elapsed", s.Duration.Round(time.Millisecond).String()})

	snap := m.Snapshot()
	if hits := tierHits(snap); hits != "" {
		t.AppendRow(table.Row{"Pagination tier hits", hits})
	}
	if n := snap["drift_recoveries"]; n > 0 {
		t.AppendRow(table.Row{"Drift recoveries", n})
	}

	t.AppendSeparator()
	t.AppendRow(table.Row{"Spreadsheet", fmt.Sprintf("%s (%d rows)", a.Spreadsheet, a.Rows)})
	if a.Checkpoint != "" {
		t.AppendRow(table.Row{"Checkpoint", a.Checkpoint})
	}
	if a.JSONL != "" {
		t.AppendRow(table.Row{"JSONL", a.JSONL})
	}
	if a.Archive != "" {
		t.AppendRow(table.Row{"Page archive", a.Archive})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func tierHits(snap map[string]int64) string {
	out := ""
	for i := 1; i <= observability.TierCount; i++ {
		n := snap[fmt.Sprintf("tier%d_hits", i)]
		if n == 0 {
			continue
		}
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("T%d=%d", i, n)
	}
	return out
}
