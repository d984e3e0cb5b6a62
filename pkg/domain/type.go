// Package domain defines the records parsed from build-quality reports, the
// per-recipe DataList that stores them and the recipe collection.
package domain

// Type tags a report record. Concrete variants and the abstract families they
// belong to share one enumeration so queries can name either.
type Type uint8

// Abstract families.
const (
	TypeUnknown Type = iota
	TypeCache
	TypeViolation
	TypeCodeViolation
	TypeRecipeViolation
	TypeCoverage
	TypeMutationTest
	TypeTest
	typeFamilyEnd
)

// Concrete variants.
const (
	TypePremirrorCache Type = iota + typeFamilyEnd + 1
	TypeSharedStateCache
	TypeMajorCodeViolation
	TypeMinorCodeViolation
	TypeInfoCodeViolation
	TypeMajorRecipeViolation
	TypeMinorRecipeViolation
	TypeInfoRecipeViolation
	TypeStatementCoverage
	TypeBranchCoverage
	TypeKilledMutationTest
	TypeSurvivedMutationTest
	TypeSkippedMutationTest
	TypePassedTest
	TypeFailedTest
	TypeErrorTest
	TypeSkippedTest
	TypeCodeSize
	TypeComment
	TypeComplexity
	TypeDuplication
	TypeRecipeSize
	typeEnd
)

type typeInfo struct {
	name   string
	label  string
	parent Type
}

var typeTable = [typeEnd]typeInfo{
	TypeUnknown:         {name: "Unknown", label: "UNKNOWN"},
	TypeCache:           {name: "Cache", label: "CACHE"},
	TypeViolation:       {name: "Violation", label: "VIOLATION"},
	TypeCodeViolation:   {name: "CodeViolation", label: "CODE_VIOLATION", parent: TypeViolation},
	TypeRecipeViolation: {name: "RecipeViolation", label: "RECIPE_VIOLATION", parent: TypeViolation},
	TypeCoverage:        {name: "Coverage", label: "COVERAGE"},
	TypeMutationTest:    {name: "MutationTest", label: "MUTATION_TEST"},
	TypeTest:            {name: "Test", label: "TEST"},

	TypePremirrorCache:       {name: "PremirrorCache", label: "PREMIRROR", parent: TypeCache},
	TypeSharedStateCache:     {name: "SharedStateCache", label: "SHARED_STATE", parent: TypeCache},
	TypeMajorCodeViolation:   {name: "MajorCodeViolation", label: "MAJOR", parent: TypeCodeViolation},
	TypeMinorCodeViolation:   {name: "MinorCodeViolation", label: "MINOR", parent: TypeCodeViolation},
	TypeInfoCodeViolation:    {name: "InfoCodeViolation", label: "INFO", parent: TypeCodeViolation},
	TypeMajorRecipeViolation: {name: "MajorRecipeViolation", label: "MAJOR", parent: TypeRecipeViolation},
	TypeMinorRecipeViolation: {name: "MinorRecipeViolation", label: "MINOR", parent: TypeRecipeViolation},
	TypeInfoRecipeViolation:  {name: "InfoRecipeViolation", label: "INFO", parent: TypeRecipeViolation},
	TypeStatementCoverage:    {name: "StatementCoverage", label: "STATEMENT", parent: TypeCoverage},
	TypeBranchCoverage:       {name: "BranchCoverage", label: "BRANCH", parent: TypeCoverage},
	TypeKilledMutationTest:   {name: "KilledMutationTest", label: "KILLED", parent: TypeMutationTest},
	TypeSurvivedMutationTest: {name: "SurvivedMutationTest", label: "SURVIVED", parent: TypeMutationTest},
	TypeSkippedMutationTest:  {name: "SkippedMutationTest", label: "SKIPPED", parent: TypeMutationTest},
	TypePassedTest:           {name: "PassedTest", label: "PASSED", parent: TypeTest},
	TypeFailedTest:           {name: "FailedTest", label: "FAILED", parent: TypeTest},
	TypeErrorTest:            {name: "ErrorTest", label: "ERROR", parent: TypeTest},
	TypeSkippedTest:          {name: "SkippedTest", label: "SKIPPED", parent: TypeTest},
	TypeCodeSize:             {name: "CodeSize", label: "CODE_SIZE"},
	TypeComment:              {name: "Comment", label: "COMMENT"},
	TypeComplexity:           {name: "Complexity", label: "COMPLEXITY"},
	TypeDuplication:          {name: "Duplication", label: "DUPLICATION"},
	TypeRecipeSize:           {name: "RecipeSize", label: "RECIPE_SIZE"},
}

func (t Type) info() typeInfo {
	if t >= typeEnd {
		return typeTable[TypeUnknown]
	}
	return typeTable[t]
}

// String returns the type name (e.g., "MajorCodeViolation").
func (t Type) String() string {
	return t.info().name
}

// Label returns the category label of the most specific family (e.g., "MAJOR", "PASSED").
func (t Type) Label() string {
	return t.info().label
}

// Parent returns the enclosing family, or TypeUnknown for a root.
func (t Type) Parent() Type {
	return t.info().parent
}

// IsVariant reports whether t is a concrete record type rather than a family.
func (t Type) IsVariant() bool {
	return t > typeFamilyEnd && t < typeEnd
}

// Is reports whether t equals f or belongs to family f at any depth.
// MajorCodeViolation is a CodeViolation, which is a Violation.
func (t Type) Is(f Type) bool {
	if f == TypeUnknown {
		return false
	}
	for cur := t; cur != TypeUnknown; cur = cur.Parent() {
		if cur == f {
			return true
		}
	}
	return false
}

// Related reports whether either type belongs to the other.
func (t Type) Related(other Type) bool {
	return t.Is(other) || other.Is(t)
}

// Variants returns every concrete variant belonging to t, in declaration order.
func (t Type) Variants() []Type {
	var out []Type
	for v := typeFamilyEnd + 1; v < typeEnd; v++ {
		if v.Is(t) {
			out = append(out, v)
		}
	}
	return out
}

// ParseType resolves a type name produced by String.
func ParseType(name string) (Type, bool) {
	for t := TypeUnknown + 1; t < typeEnd; t++ {
		if t == typeFamilyEnd {
			continue
		}
		if typeTable[t].name == name {
			return t, true
		}
	}
	return TypeUnknown, false
}
