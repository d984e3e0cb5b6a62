package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/specvital/metashift/pkg/history"
)

// WriteRuns renders recorded runs in the configured format.
func WriteRuns(w io.Writer, runs []history.Run, cfg Config) error {
	switch cfg.Format {
	case JSONOut:
		if runs == nil {
			runs = []history.Run{}
		}
		return writeJSON(w, runs)
	case CSVOut:
		header := []string{"id", "root", "started_at", "duration_ms", "recipes", "qualified"}
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for _, r := range runs {
				if err := cw.Write(runRow(r)); err != nil {
					return err
				}
			}
			return nil
		})
	}

	p := newPalette(cfg.UseColors)
	width := maxNameWidth(cfg)
	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Root", "Started", "Duration", "Recipes", "Status"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	var data [][]string
	for _, r := range runs {
		status := p.green("PASS")
		if !r.Qualified {
			status = p.red("FAIL")
		}
		data = append(data, []string{
			strconv.FormatInt(r.ID, 10),
			truncate(r.Root, width),
			r.StartedAt.Format(time.DateTime),
			r.Duration.String(),
			strconv.Itoa(r.Recipes),
			status,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func runRow(r history.Run) []string {
	return []string{
		strconv.FormatInt(r.ID, 10),
		r.Root,
		r.StartedAt.Format(time.RFC3339),
		strconv.FormatInt(r.Duration.Milliseconds(), 10),
		strconv.Itoa(r.Recipes),
		strconv.FormatBool(r.Qualified),
	}
}
