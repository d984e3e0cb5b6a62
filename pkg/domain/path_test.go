package domain

import "testing"

func TestIsHiddenPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want bool
	}{
		{".hidden/a.file", true},
		{"path/.hidden.file", true},
		{"path/.hidden/a.file", true},
		{"..a.file", true},
		{".a.file", true},
		{"a.file", false},
		{"path/to/a.file", false},
		{"../path/to/a.file", false},
		{"./path/to/a.file", false},
		{"x/../y", false},
		{"/abs/path/a.file", false},
		{"a.b.c", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := IsHiddenPath(tt.path); got != tt.want {
				t.Errorf("IsHiddenPath(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}
