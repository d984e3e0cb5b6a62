// Package unittest parses JUnit-style unit test reports found under test/**/*.xml.
package unittest

import (
	"context"
	"encoding/xml"
	"fmt"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/specvital/metashift/pkg/domain"
	"github.com/specvital/metashift/pkg/parser/strategies"
	"github.com/specvital/metashift/pkg/parser/strategies/shared/reportfile"
)

const (
	// ReportPattern selects the test reports inside a recipe directory.
	ReportPattern = "test/**/*.xml"
	strategyName  = "unit-test"
)

func init() {
	strategies.Register(NewStrategy())
}

// Strategy parses unit test reports.
type Strategy struct{}

func NewStrategy() *Strategy {
	return &Strategy{}
}

func (s *Strategy) Name() string        { return strategyName }
func (s *Strategy) Priority() int       { return strategies.DefaultPriority }
func (s *Strategy) Family() domain.Type { return domain.TypeTest }

type suiteElement struct {
	XMLName xml.Name
	Name    string         `xml:"name,attr"`
	Suites  []suiteElement `xml:"testsuite"`
	Cases   []caseElement  `xml:"testcase"`
}

type caseElement struct {
	Name     string         `xml:"name,attr"`
	Children []childElement `xml:",any"`
}

type childElement struct {
	XMLName xml.Name
	Message *string `xml:"message,attr"`
	Text    string  `xml:",chardata"`
}

var statuses = map[string]domain.Type{
	"failure": domain.TypeFailedTest,
	"error":   domain.TypeErrorTest,
	"skipped": domain.TypeSkippedTest,
}

// Parse reads every report matching ReportPattern. The category is absent when
// no report matches.
func (s *Strategy) Parse(ctx context.Context, src strategies.Source) ([]domain.Data, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	files, err := doublestar.Glob(src.FS, ReportPattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("unittest: glob %s: %w", ReportPattern, err)
	}
	if len(files) == 0 {
		return nil, nil
	}
	sort.Strings(files)

	var records []domain.Data
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, err := reportfile.Read(src, name)
		if err != nil {
			return nil, err
		}
		if r == nil || r.Blank() {
			continue
		}
		parsed, err := parseReport(r, src.Recipe)
		if err != nil {
			return nil, err
		}
		records = append(records, parsed...)
	}

	return reportfile.WithMarkers(records, src.Recipe, domain.TypeTest), nil
}

func parseReport(r *reportfile.Report, recipe string) ([]domain.Data, error) {
	var root suiteElement
	if err := r.Document(&root); err != nil {
		return nil, err
	}

	var suites []suiteElement
	switch root.XMLName.Local {
	case "testsuites":
		suites = root.Suites
	case "testsuite":
		suites = []suiteElement{root}
	default:
		return nil, r.Malformed("unexpected root element %q", root.XMLName.Local)
	}

	var records []domain.Data
	for _, suite := range suites {
		var err error
		if records, err = appendSuite(records, r, recipe, suite); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// appendSuite appends the cases of suite, then those of its nested suites,
// each under the name of its innermost suite.
func appendSuite(records []domain.Data, r *reportfile.Report, recipe string, suite suiteElement) ([]domain.Data, error) {
	for _, c := range suite.Cases {
		d, err := newRecord(r, recipe, suite.Name, c)
		if err != nil {
			return nil, err
		}
		records = append(records, d)
	}
	for _, nested := range suite.Suites {
		var err error
		if records, err = appendSuite(records, r, recipe, nested); err != nil {
			return nil, err
		}
	}
	return records, nil
}

// newRecord derives the test status from the first child element of the test case.
func newRecord(r *reportfile.Report, recipe, suite string, c caseElement) (domain.Data, error) {
	if len(c.Children) == 0 {
		return domain.NewTest(domain.TypePassedTest, recipe, suite, c.Name, ""), nil
	}

	child := c.Children[0]
	status, known := statuses[strings.ToLower(child.XMLName.Local)]
	if !known {
		return nil, r.Malformed("testcase %q: unknown status tag %q", c.Name, child.XMLName.Local)
	}
	message := strings.TrimSpace(child.Text)
	if child.Message != nil {
		message = *child.Message
	}
	return domain.NewTest(status, recipe, suite, c.Name, message), nil
}
