package domain

import (
	"cmp"
	"strings"
)

// Data is one report record collected for a recipe.
// Implementations are plain values; equality is defined by Key alone.
type Data interface {
	// Type returns the concrete variant.
	Type() Type
	// RecipeName returns the owning recipe identifier.
	RecipeName() string
	// Key returns the identity fields used for equality and deduplication.
	Key() Key
}

// Key is the identity of a record. Fields a variant does not use stay zero.
// Keys are comparable and may be used as map keys.
type Key struct {
	Type   Type
	Recipe string
	File   string
	Line   int64
	Column int64
	Index  int64
	Start  int64
	End    int64
	Names  [4]string
}

// Equal reports whether a and b are interchangeable for membership purposes.
func Equal(a, b Data) bool {
	return a.Key() == b.Key()
}

// Compare orders keys lexicographically over their fields in declaration order.
func Compare(a, b Key) int {
	if c := cmp.Compare(a.Type, b.Type); c != 0 {
		return c
	}
	if c := strings.Compare(a.Recipe, b.Recipe); c != 0 {
		return c
	}
	if c := strings.Compare(a.File, b.File); c != 0 {
		return c
	}
	for _, pair := range [][2]int64{{a.Line, b.Line}, {a.Column, b.Column}, {a.Index, b.Index}, {a.Start, b.Start}, {a.End, b.End}} {
		if c := cmp.Compare(pair[0], pair[1]); c != 0 {
			return c
		}
	}
	for i := range a.Names {
		if c := strings.Compare(a.Names[i], b.Names[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Marker records that a category's report was present and parsed, regardless of
// how many records it produced. It is never returned by record queries.
type Marker struct {
	Family Type
	Recipe string
}

// NewMarker returns the category-present marker of family f for recipe.
func NewMarker(recipe string, f Type) Marker {
	return Marker{Family: f, Recipe: recipe}
}

func (m Marker) Type() Type         { return m.Family }
func (m Marker) RecipeName() string { return m.Recipe }
func (m Marker) Key() Key           { return Key{Type: m.Family, Recipe: m.Recipe, Names: [4]string{"marker"}} }

// CacheData is a premirror or shared-state cache lookup.
type CacheData struct {
	kind      Type
	Recipe    string
	Signature string
	Available bool
}

// NewPremirrorCache returns a premirror cache record.
func NewPremirrorCache(recipe, signature string, available bool) CacheData {
	return CacheData{kind: TypePremirrorCache, Recipe: recipe, Signature: signature, Available: available}
}

// NewSharedStateCache returns a shared-state cache record.
func NewSharedStateCache(recipe, signature string, available bool) CacheData {
	return CacheData{kind: TypeSharedStateCache, Recipe: recipe, Signature: signature, Available: available}
}

func (d CacheData) Type() Type         { return d.kind }
func (d CacheData) RecipeName() string { return d.Recipe }
func (d CacheData) Key() Key {
	return Key{Type: d.kind, Recipe: d.Recipe, Names: [4]string{d.Signature}}
}

// CodeViolationData is a static-analysis finding in a source file.
type CodeViolationData struct {
	kind        Type
	Recipe      string
	File        string
	Line        int64
	Column      int64
	Rule        string
	Message     string
	Description string
	Severity    string
	Tool        string
}

// NewCodeViolation returns a code violation of the given variant.
// level must be TypeMajorCodeViolation, TypeMinorCodeViolation or TypeInfoCodeViolation.
func NewCodeViolation(level Type, recipe, file string, line, column int64, rule, message, description, severity, tool string) CodeViolationData {
	return CodeViolationData{
		kind:        level,
		Recipe:      recipe,
		File:        file,
		Line:        line,
		Column:      column,
		Rule:        rule,
		Message:     message,
		Description: description,
		Severity:    severity,
		Tool:        tool,
	}
}

func (d CodeViolationData) Type() Type         { return d.kind }
func (d CodeViolationData) RecipeName() string { return d.Recipe }
func (d CodeViolationData) Key() Key {
	return Key{Type: d.kind, Recipe: d.Recipe, File: d.File, Line: d.Line, Column: d.Column, Names: [4]string{d.Rule, d.Tool}}
}

// Level returns the violation level label ("MAJOR", "MINOR" or "INFO").
func (d CodeViolationData) Level() string { return d.kind.Label() }

// RecipeViolationData is a finding reported against a recipe file.
type RecipeViolationData struct {
	kind        Type
	Recipe      string
	File        string
	Line        int64
	Rule        string
	Description string
	Severity    string
}

// NewRecipeViolation returns a recipe violation of the given variant.
func NewRecipeViolation(level Type, recipe, file string, line int64, rule, description, severity string) RecipeViolationData {
	return RecipeViolationData{
		kind:        level,
		Recipe:      recipe,
		File:        file,
		Line:        line,
		Rule:        rule,
		Description: description,
		Severity:    severity,
	}
}

func (d RecipeViolationData) Type() Type         { return d.kind }
func (d RecipeViolationData) RecipeName() string { return d.Recipe }
func (d RecipeViolationData) Key() Key {
	return Key{Type: d.kind, Recipe: d.Recipe, File: d.File, Line: d.Line, Names: [4]string{d.Rule}}
}

// Level returns the violation level label.
func (d RecipeViolationData) Level() string { return d.kind.Label() }

// CoverageData is one covered-or-not statement or branch.
type CoverageData struct {
	kind    Type
	Recipe  string
	File    string
	Line    int64
	Index   int64
	Covered bool
}

// NewStatementCoverage returns a statement coverage record.
func NewStatementCoverage(recipe, file string, line int64, covered bool) CoverageData {
	return CoverageData{kind: TypeStatementCoverage, Recipe: recipe, File: file, Line: line, Covered: covered}
}

// NewBranchCoverage returns a branch coverage record for branch index on line.
func NewBranchCoverage(recipe, file string, line, index int64, covered bool) CoverageData {
	return CoverageData{kind: TypeBranchCoverage, Recipe: recipe, File: file, Line: line, Index: index, Covered: covered}
}

func (d CoverageData) Type() Type         { return d.kind }
func (d CoverageData) RecipeName() string { return d.Recipe }
func (d CoverageData) Key() Key {
	return Key{Type: d.kind, Recipe: d.Recipe, File: d.File, Line: d.Line, Index: d.Index}
}

// MutationTestData is one mutant and its outcome.
type MutationTestData struct {
	kind          Type
	Recipe        string
	File          string
	MutatedClass  string
	MutatedMethod string
	Line          int64
	Mutator       string
	KillingTest   string
}

// NewMutationTest returns a mutation record of the given variant.
func NewMutationTest(status Type, recipe, file, mutatedClass, mutatedMethod string, line int64, mutator, killingTest string) MutationTestData {
	return MutationTestData{
		kind:          status,
		Recipe:        recipe,
		File:          file,
		MutatedClass:  mutatedClass,
		MutatedMethod: mutatedMethod,
		Line:          line,
		Mutator:       mutator,
		KillingTest:   killingTest,
	}
}

func (d MutationTestData) Type() Type         { return d.kind }
func (d MutationTestData) RecipeName() string { return d.Recipe }
func (d MutationTestData) Key() Key {
	return Key{
		Type:   d.kind,
		Recipe: d.Recipe,
		File:   d.File,
		Line:   d.Line,
		Names:  [4]string{d.MutatedClass, d.MutatedMethod, d.Mutator, d.KillingTest},
	}
}

// TestData is one unit test result.
type TestData struct {
	kind    Type
	Recipe  string
	Suite   string
	Name    string
	Message string
}

// NewTest returns a test result of the given variant.
func NewTest(status Type, recipe, suite, name, message string) TestData {
	return TestData{kind: status, Recipe: recipe, Suite: suite, Name: name, Message: message}
}

func (d TestData) Type() Type         { return d.kind }
func (d TestData) RecipeName() string { return d.Recipe }
func (d TestData) Key() Key {
	return Key{Type: d.kind, Recipe: d.Recipe, Names: [4]string{d.Suite, d.Name}}
}

// Status returns the test status label.
func (d TestData) Status() string { return d.kind.Label() }

// CodeSizeData is the size of one source file.
type CodeSizeData struct {
	Recipe    string
	File      string
	Lines     int64
	Functions int64
	Classes   int64
}

func (d CodeSizeData) Type() Type         { return TypeCodeSize }
func (d CodeSizeData) RecipeName() string { return d.Recipe }
func (d CodeSizeData) Key() Key           { return Key{Type: TypeCodeSize, Recipe: d.Recipe, File: d.File} }

// CommentData is the comment density of one source file.
type CommentData struct {
	Recipe       string
	File         string
	Lines        int64
	CommentLines int64
}

func (d CommentData) Type() Type         { return TypeComment }
func (d CommentData) RecipeName() string { return d.Recipe }
func (d CommentData) Key() Key           { return Key{Type: TypeComment, Recipe: d.Recipe, File: d.File} }

// ComplexityData is the cyclomatic complexity of one function.
type ComplexityData struct {
	Recipe   string
	File     string
	Function string
	Start    int64
	End      int64
	Value    int64
}

func (d ComplexityData) Type() Type         { return TypeComplexity }
func (d ComplexityData) RecipeName() string { return d.Recipe }
func (d ComplexityData) Key() Key {
	return Key{Type: TypeComplexity, Recipe: d.Recipe, File: d.File, Names: [4]string{d.Function}}
}

// DuplicationData is one duplicated block in a file of Lines total lines.
type DuplicationData struct {
	Recipe string
	File   string
	Lines  int64
	Start  int64
	End    int64
}

func (d DuplicationData) Type() Type         { return TypeDuplication }
func (d DuplicationData) RecipeName() string { return d.Recipe }
func (d DuplicationData) Key() Key {
	return Key{Type: TypeDuplication, Recipe: d.Recipe, File: d.File, Start: d.Start, End: d.End}
}

// DuplicatedLines returns the size of the duplicated block.
func (d DuplicationData) DuplicatedLines() int64 { return d.End - d.Start }

// RecipeSizeData is the size of one recipe file.
type RecipeSizeData struct {
	Recipe string
	File   string
	Lines  int64
}

func (d RecipeSizeData) Type() Type         { return TypeRecipeSize }
func (d RecipeSizeData) RecipeName() string { return d.Recipe }
func (d RecipeSizeData) Key() Key           { return Key{Type: TypeRecipeSize, Recipe: d.Recipe, File: d.File} }
