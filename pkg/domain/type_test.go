package domain

import "testing"

func TestType_Is(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		typ    Type
		family Type
		want   bool
	}{
		{name: "should match itself", typ: TypeMajorCodeViolation, family: TypeMajorCodeViolation, want: true},
		{name: "should match direct family", typ: TypeMajorCodeViolation, family: TypeCodeViolation, want: true},
		{name: "should match grandparent family", typ: TypeMajorCodeViolation, family: TypeViolation, want: true},
		{name: "should not match sibling family", typ: TypeMajorCodeViolation, family: TypeRecipeViolation, want: false},
		{name: "should not match sibling variant", typ: TypeMajorCodeViolation, family: TypeMinorCodeViolation, want: false},
		{name: "should not match child", typ: TypeCodeViolation, family: TypeMajorCodeViolation, want: false},
		{name: "should never match unknown", typ: TypeCodeSize, family: TypeUnknown, want: false},
		{name: "should match cache variant", typ: TypeSharedStateCache, family: TypeCache, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.typ.Is(tt.family); got != tt.want {
				t.Errorf("%s.Is(%s) = %v, want %v", tt.typ, tt.family, got, tt.want)
			}
		})
	}
}

func TestType_Label(t *testing.T) {
	t.Parallel()

	tests := []struct {
		typ  Type
		want string
	}{
		{TypeMajorRecipeViolation, "MAJOR"},
		{TypeInfoCodeViolation, "INFO"},
		{TypePassedTest, "PASSED"},
		{TypeKilledMutationTest, "KILLED"},
		{TypeSkippedMutationTest, "SKIPPED"},
		{TypeBranchCoverage, "BRANCH"},
		{TypeSharedStateCache, "SHARED_STATE"},
		{Type(250), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.typ.Label(); got != tt.want {
			t.Errorf("%d.Label() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestType_Variants(t *testing.T) {
	t.Parallel()

	t.Run("should list the variants of a nested family", func(t *testing.T) {
		got := TypeViolation.Variants()
		if len(got) != 6 {
			t.Fatalf("Violation variants = %v, want 6 entries", got)
		}
		for _, v := range got {
			if !v.IsVariant() {
				t.Errorf("%s should be a variant", v)
			}
		}
	})

	t.Run("should list a single-variant type as itself", func(t *testing.T) {
		got := TypeCodeSize.Variants()
		if len(got) != 1 || got[0] != TypeCodeSize {
			t.Errorf("CodeSize variants = %v", got)
		}
	})

	t.Run("should report families as non-variants", func(t *testing.T) {
		for _, f := range []Type{TypeCache, TypeViolation, TypeTest, TypeUnknown} {
			if f.IsVariant() {
				t.Errorf("%s should not be a variant", f)
			}
		}
	})
}

func TestParseType(t *testing.T) {
	t.Parallel()

	for v := TypeCache; v < typeEnd; v++ {
		if v == typeFamilyEnd {
			continue
		}
		got, ok := ParseType(v.String())
		if !ok || got != v {
			t.Errorf("ParseType(%q) = %v, %v", v.String(), got, ok)
		}
	}

	if _, ok := ParseType("Nope"); ok {
		t.Error("ParseType should reject unknown names")
	}
}
