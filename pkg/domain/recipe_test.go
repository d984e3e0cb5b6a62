package domain

import (
	"errors"
	"testing"
)

func TestParseRecipeName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    [3]string
		wantErr bool
	}{
		{name: "should split simple triple", input: "cmake-native-3.16.5-r0", want: [3]string{"cmake-native", "3.16.5", "r0"}},
		{name: "should split plain triple", input: "A-B-C", want: [3]string{"A", "B", "C"}},
		{
			name:  "should keep hyphens in name",
			input: "A.B.C.qtbase+-native-5.15.2+gitAUTOINC+40143c189b-X-r+1.0-X",
			want:  [3]string{"A.B.C.qtbase+-native-5.15.2+gitAUTOINC+40143c189b-X", "r+1.0", "X"},
		},
		{name: "should reject single segment", input: "invalid_name", wantErr: true},
		{name: "should reject two segments", input: "name-1.0", wantErr: true},
		{name: "should reject empty release", input: "name-1.0-", wantErr: true},
		{name: "should reject empty version", input: "name--r0", wantErr: true},
		{name: "should reject empty name", input: "-1.0-r0", wantErr: true},
		{name: "should reject empty string", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			name, version, release, err := ParseRecipeName(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidRecipeName) {
					t.Errorf("ParseRecipeName(%q) error = %v, want ErrInvalidRecipeName", tt.input, err)
				}
				if IsRecipeName(tt.input) {
					t.Errorf("IsRecipeName(%q) = true", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRecipeName(%q) error = %v", tt.input, err)
			}
			if got := [3]string{name, version, release}; got != tt.want {
				t.Errorf("ParseRecipeName(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestRecipe(t *testing.T) {
	t.Parallel()

	t.Run("should expose triple and data", func(t *testing.T) {
		t.Parallel()

		r, err := NewRecipe("busybox-1.31.1-r0")
		if err != nil {
			t.Fatalf("NewRecipe() error = %v", err)
		}
		if r.ID() != "busybox-1.31.1-r0" || r.Name != "busybox" || r.Version != "1.31.1" || r.Release != "r0" {
			t.Errorf("unexpected recipe %+v", r)
		}
		if r.Data() == nil || r.Data().Len() != 0 {
			t.Error("new recipe should hold an empty list")
		}
	})

	t.Run("should replace data with Set", func(t *testing.T) {
		t.Parallel()

		r, _ := NewRecipe("busybox-1.31.1-r0")
		l := NewDataList()
		l.Add(CodeSizeData{Recipe: r.ID(), File: "a.file"})
		l.Add(NewMarker(r.ID(), TypeCodeSize))
		r.Set(l)

		if !r.Contains(TypeCodeSize) || !r.IsAvailable(TypeCodeSize) {
			t.Error("replaced data should be queryable")
		}
		r.Set(nil)
		if r.Data() == nil || r.Contains(TypeCodeSize) {
			t.Error("Set(nil) should reset to an empty list")
		}
	})

	t.Run("should reject invalid name", func(t *testing.T) {
		t.Parallel()

		if _, err := NewRecipe("invalid_name"); err == nil {
			t.Error("NewRecipe() should fail")
		}
	})
}

func TestRecipeCollection(t *testing.T) {
	t.Parallel()

	newRecipe := func(id string, files ...string) *Recipe {
		r, err := NewRecipe(id)
		if err != nil {
			t.Fatalf("NewRecipe(%q) error = %v", id, err)
		}
		for _, f := range files {
			r.Data().Add(CodeSizeData{Recipe: id, File: f})
		}
		if len(files) > 0 {
			r.Data().Add(NewMarker(id, TypeCodeSize))
		}
		return r
	}

	t.Run("should be unique by triple", func(t *testing.T) {
		c := NewRecipeCollection(newRecipe("A-1-r0"), newRecipe("A-1-r0"), newRecipe("B-1-r0"))
		if c.Len() != 2 {
			t.Errorf("Len() = %d, want 2", c.Len())
		}
		if _, ok := c.Get("B-1-r0"); !ok {
			t.Error("Get(B-1-r0) should succeed")
		}
	})

	t.Run("should delegate queries across recipes", func(t *testing.T) {
		c := NewRecipeCollection(newRecipe("A-1-r0", "a.file"), newRecipe("B-1-r0", "a.file", "b.file"), newRecipe("C-1-r0"))

		n := 0
		for range c.Objects(TypeCodeSize) {
			n++
		}
		if n != 3 {
			t.Errorf("Objects(CodeSize) yielded %d, want 3", n)
		}
		if !c.Contains(TypeCodeSize) || c.Contains(TypeTest) {
			t.Error("Contains() mismatch")
		}
		if !c.IsAvailable(TypeCodeSize) || c.IsAvailable(TypeTest) {
			t.Error("IsAvailable() mismatch")
		}
	})

	t.Run("should remove and sort", func(t *testing.T) {
		c := NewRecipeCollection(newRecipe("C-1-r0", "a.file"), newRecipe("B-1-r0"), newRecipe("A-1-r0", "a.file"))

		removed := c.RemoveIf(func(r *Recipe) bool { return !r.Contains(TypeCodeSize) })
		c.Sort()

		if removed != 1 {
			t.Errorf("RemoveIf() = %d, want 1", removed)
		}
		got := c.Recipes()
		if len(got) != 2 || got[0].ID() != "A-1-r0" || got[1].ID() != "C-1-r0" {
			t.Errorf("Recipes() = %v", got)
		}
		if _, ok := c.Get("B-1-r0"); ok {
			t.Error("removed recipe should not be found")
		}
		if r, ok := c.Get("C-1-r0"); !ok || r.ID() != "C-1-r0" {
			t.Error("index should follow the sort")
		}
	})
}
