// Package mutation parses the mutation testing report (checktest/mutations.xml).
package mutation

import (
	"context"
	"strconv"
	"strings"

	"github.com/specvital/metashift/pkg/domain"
	"github.com/specvital/metashift/pkg/parser/strategies"
	"github.com/specvital/metashift/pkg/parser/strategies/shared/reportfile"
)

const (
	ReportFile   = "checktest/mutations.xml"
	strategyName = "mutation-test"
)

func init() {
	strategies.Register(NewStrategy())
}

// Strategy parses mutation testing reports.
type Strategy struct{}

func NewStrategy() *Strategy {
	return &Strategy{}
}

func (s *Strategy) Name() string        { return strategyName }
func (s *Strategy) Priority() int       { return strategies.DefaultPriority }
func (s *Strategy) Family() domain.Type { return domain.TypeMutationTest }

type mutationElement struct {
	Detected       *string `xml:"detected,attr"`
	SourceFilePath *string `xml:"sourceFilePath"`
	MutatedClass   *string `xml:"mutatedClass"`
	MutatedMethod  *string `xml:"mutatedMethod"`
	LineNumber     *string `xml:"lineNumber"`
	Mutator        *string `xml:"mutator"`
	KillingTest    string  `xml:"killingTest"`
}

var statuses = map[string]domain.Type{
	"true":  domain.TypeKilledMutationTest,
	"false": domain.TypeSurvivedMutationTest,
	"skip":  domain.TypeSkippedMutationTest,
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
	i := 0
	err = reportfile.Elements(r, "mutation", func(m *mutationElement) error {
		defer func() { i++ }()
		d, hidden, err := newRecord(r, src.Recipe, i, m)
		if err != nil || hidden {
			return err
		}
		records = append(records, d)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return reportfile.WithMarkers(records, src.Recipe, domain.TypeMutationTest), nil
}

func newRecord(r *reportfile.Report, recipe string, i int, m *mutationElement) (domain.Data, bool, error) {
	const key = "mutation"
	file, err := reportfile.Require(r, key, i, "sourceFilePath", m.SourceFilePath)
	if err != nil {
		return nil, false, err
	}
	file = strings.TrimSpace(file)
	if domain.IsHiddenPath(file) {
		return nil, true, nil
	}

	detected, err := reportfile.Require(r, key, i, "detected", m.Detected)
	if err != nil {
		return nil, false, err
	}
	status, known := statuses[strings.ToLower(detected)]
	if !known {
		return nil, false, r.Malformed("%s[%d]: unknown detected value %q", key, i, detected)
	}

	mutatedClass, err := reportfile.Require(r, key, i, "mutatedClass", m.MutatedClass)
	if err != nil {
		return nil, false, err
	}
	mutatedMethod, err := reportfile.Require(r, key, i, "mutatedMethod", m.MutatedMethod)
	if err != nil {
		return nil, false, err
	}
	mutator, err := reportfile.Require(r, key, i, "mutator", m.Mutator)
	if err != nil {
		return nil, false, err
	}
	lineNumber, err := reportfile.Require(r, key, i, "lineNumber", m.LineNumber)
	if err != nil {
		return nil, false, err
	}
	line, err := strconv.ParseInt(strings.TrimSpace(lineNumber), 10, 64)
	if err != nil {
		return nil, false, r.Malformed("%s[%d]: lineNumber: %w", key, i, err)
	}

	return domain.NewMutationTest(status, recipe, file,
		strings.TrimSpace(mutatedClass), strings.TrimSpace(mutatedMethod), line,
		strings.TrimSpace(mutator), strings.TrimSpace(m.KillingTest)), false, nil
}
