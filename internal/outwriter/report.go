package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/specvital/metashift/pkg/metrics"
)

// WriteReport renders an evaluation report in the configured format.
func WriteReport(w io.Writer, report metrics.Report, cfg Config) error {
	switch cfg.Format {
	case JSONOut:
		return writeJSON(w, report)
	case CSVOut:
		return writeReportCSV(w, report, cfg)
	default:
		return writeReportTable(w, report, cfg)
	}
}

func writeReportTable(w io.Writer, report metrics.Report, cfg Config) error {
	p := newPalette(cfg.UseColors)
	fmtFloat := formatFloat(cfg.Precision)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Metric", "Count", "Ratio", "Threshold", "Delta", "Recipes", "Status"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, e := range report.Summary.Evaluations {
		qualified := report.QualifiedRecipes[e.Metric]
		data = append(data, []string{
			string(e.Metric),
			fmt.Sprintf("%d/%d", e.Numerator, e.Denominator),
			fmtFloat(e.Ratio.Value),
			thresholdLabel(e, fmtFloat),
			deltaLabel(e, cfg.Precision, p),
			fmt.Sprintf("%d/%d", qualified.Numerator, qualified.Denominator),
			statusLabel(e, p),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if cfg.Recipes && len(report.Recipes) > 0 {
		if err := writeRecipeTable(w, report, cfg, p); err != nil {
			return err
		}
	}

	s := report.Size
	if _, err := fmt.Fprintf(w, "Recipes: %d, Files: %d, Lines: %d, Functions: %d, Classes: %d\n",
		s.Recipes, s.Files, s.Lines, s.Functions, s.Classes); err != nil {
		return err
	}
	c := report.Summary.Counter()
	verdict := p.green("QUALIFIED")
	if !report.Qualified {
		verdict = p.red("NOT QUALIFIED")
	}
	_, err := fmt.Fprintf(w, "Overall: %s (%d of %d available metrics qualified)\n", p.bold(verdict), c.Numerator, c.Denominator)
	return err
}

func writeRecipeTable(w io.Writer, report metrics.Report, cfg Config, p palette) error {
	width := maxNameWidth(cfg)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Recipe", "Metrics", "Status"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, rs := range report.Recipes {
		c := rs.Summary.Counter()
		status := p.green("PASS")
		if !rs.Qualified {
			status = p.red("FAIL")
		}
		data = append(data, []string{
			truncate(rs.Recipe, width),
			fmt.Sprintf("%d/%d", c.Numerator, c.Denominator),
			status,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func thresholdLabel(e metrics.Evaluation, fmtFloat func(float64) string) string {
	op := ">="
	if e.Polarity == metrics.Negative {
		op = "<="
	}
	return op + " " + fmtFloat(e.Threshold.Value)
}

// deltaLabel colours a ratio change green when it moves toward qualification.
func deltaLabel(e metrics.Evaluation, precision int, p palette) string {
	d := e.Ratio.Difference
	improved := d > 0
	if e.Polarity == metrics.Negative {
		improved = d < 0
	}
	switch {
	case d > 0 && improved:
		return p.green(fmt.Sprintf("+%.*f ▲", precision, d))
	case d > 0:
		return p.red(fmt.Sprintf("+%.*f ▲", precision, d))
	case d < 0 && improved:
		return p.green(fmt.Sprintf("%.*f ▼", precision, d))
	case d < 0:
		return p.red(fmt.Sprintf("%.*f ▼", precision, d))
	default:
		return p.yellow(fmt.Sprintf("%.*f", precision, 0.0))
	}
}

func statusLabel(e metrics.Evaluation, p palette) string {
	switch {
	case !e.Available:
		return p.yellow("N/A")
	case e.Qualified():
		return p.green("PASS")
	default:
		return p.red("FAIL")
	}
}

func writeReportCSV(w io.Writer, report metrics.Report, cfg Config) error {
	fmtFloat := formatFloat(cfg.Precision)
	header := []string{"recipe", "metric", "available", "denominator", "numerator", "ratio", "threshold", "delta", "qualified"}

	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		write := func(recipe string, s metrics.Summary) error {
			for _, e := range s.Evaluations {
				row := []string{
					recipe,
					string(e.Metric),
					strconv.FormatBool(e.Available),
					strconv.FormatInt(e.Denominator, 10),
					strconv.FormatInt(e.Numerator, 10),
					fmtFloat(e.Ratio.Value),
					fmtFloat(e.Threshold.Value),
					fmtFloat(e.Ratio.Difference),
					strconv.FormatBool(e.Qualified()),
				}
				if err := cw.Write(row); err != nil {
					return err
				}
			}
			return nil
		}
		if err := write("", report.Summary); err != nil {
			return err
		}
		if !cfg.Recipes {
			return nil
		}
		for _, rs := range report.Recipes {
			if err := write(rs.Recipe, rs.Summary); err != nil {
				return err
			}
		}
		return nil
	})
}
