// Package coverage parses the Cobertura-style coverage report (coverage/coverage.xml)
// into statement and branch coverage records.
package coverage

import (
	"context"
	"slices"
	"strconv"

	"github.com/specvital/metashift/pkg/domain"
	"github.com/specvital/metashift/pkg/parser/strategies"
	"github.com/specvital/metashift/pkg/parser/strategies/shared/reportfile"
)

const (
	ReportFile   = "coverage/coverage.xml"
	strategyName = "coverage"
)

func init() {
	strategies.Register(NewStrategy())
}

// Strategy parses coverage reports.
type Strategy struct{}

func NewStrategy() *Strategy {
	return &Strategy{}
}

func (s *Strategy) Name() string        { return strategyName }
func (s *Strategy) Priority() int       { return strategies.DefaultPriority }
func (s *Strategy) Family() domain.Type { return domain.TypeCoverage }

type class struct {
	Filename string  `xml:"filename,attr"`
	Lines    []lines `xml:"lines"`
}

type lines struct {
	Line []line `xml:"line"`
}

type line struct {
	Number     *string     `xml:"number,attr"`
	Hits       *string     `xml:"hits,attr"`
	Conditions []condition `xml:"cond"`
	Nested     []condition `xml:"conds>cond"`
}

// conditions returns the direct and <conds>-wrapped conditions of the line.
func (l line) conditions() []condition {
	return slices.Concat(l.Conditions, l.Nested)
}

type condition struct {
	BranchNumber *string `xml:"branch_number,attr"`
	Hit          *string `xml:"hit,attr"`
}

func (s *Strategy) Parse(ctx context.Context, src strategies.Source) ([]domain.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := reportfile.Read(src, ReportFile)
	if err != nil || r == nil {
		return nil, err
	}

	var records []domain.Data
	err = reportfile.Elements(r, "class", func(c *class) error {
		if domain.IsHiddenPath(c.Filename) || len(c.Lines) == 0 {
			return nil
		}
		for _, l := range c.Lines[len(c.Lines)-1].Line {
			records = append(records, lineRecords(src.Recipe, c.Filename, l)...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reportfile.WithMarkers(records, src.Recipe, domain.TypeStatementCoverage, domain.TypeBranchCoverage), nil
}

// lineRecords returns one branch record per condition, or a single statement
// record when the line has none. A line with any unparsable number is dropped.
func lineRecords(recipe, file string, l line) []domain.Data {
	number, ok := parseInt(l.Number)
	if !ok {
		return nil
	}
	hits, ok := parseInt(l.Hits)
	if !ok {
		return nil
	}
	conds := l.conditions()
	if len(conds) == 0 {
		return []domain.Data{domain.NewStatementCoverage(recipe, file, number, hits > 0)}
	}

	out := make([]domain.Data, 0, len(conds))
	for _, c := range conds {
		index, ok := parseInt(c.BranchNumber)
		if !ok {
			return nil
		}
		hit, ok := parseInt(c.Hit)
		if !ok {
			return nil
		}
		out = append(out, domain.NewBranchCoverage(recipe, file, number, index, hit > 0))
	}
	return out
}

// parseInt treats a missing attribute as zero.
func parseInt(v *string) (int64, bool) {
	if v == nil {
		return 0, true
	}
	n, err := strconv.ParseInt(*v, 10, 64)
	return n, err == nil
}
