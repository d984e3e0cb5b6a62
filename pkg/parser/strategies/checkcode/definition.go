// Package checkcode parses the static-analysis report (checkcode/sage_report.json)
// into code size, comment, complexity, violation and duplication records.
package checkcode

import (
	"github.com/specvital/metashift/pkg/domain"
	"github.com/specvital/metashift/pkg/parser/strategies"
	"github.com/specvital/metashift/pkg/parser/strategies/shared/reportfile"
)

// ReportFile is the sage report location inside a recipe directory.
const ReportFile = "checkcode/sage_report.json"

// Strategy names.
const (
	CodeSizeName      = "code-size"
	CommentName       = "comment"
	ComplexityName    = "complexity"
	CodeViolationName = "code-violation"
	DuplicationName   = "duplication"
)

// priorityCodeSize schedules the code size parser ahead of the others.
const priorityCodeSize = strategies.DefaultPriority + 10

func init() {
	for _, s := range NewStrategies() {
		strategies.Register(s)
	}
}

// NewStrategies returns one strategy per record family carried by the sage report.
func NewStrategies() []strategies.Strategy {
	return []strategies.Strategy{
		reportfile.NewJSONStrategy(CodeSizeName, ReportFile, decodeCodeSize, domain.TypeCodeSize).
			WithPriority(priorityCodeSize),
		reportfile.NewJSONStrategy(CommentName, ReportFile, decodeComment, domain.TypeComment),
		reportfile.NewJSONStrategy(ComplexityName, ReportFile, decodeComplexity, domain.TypeComplexity),
		reportfile.NewJSONStrategy(CodeViolationName, ReportFile, decodeViolations, domain.TypeCodeViolation),
		reportfile.NewJSONStrategy(DuplicationName, ReportFile, decodeDuplications, domain.TypeDuplication),
	}
}
