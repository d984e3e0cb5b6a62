package checkcode

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specvital/metashift/pkg/domain"
	"github.com/specvital/metashift/pkg/parser/strategies"
)

const recipe = "A-1.0.0-r0"

func parse(t *testing.T, name, content string) ([]domain.Data, error) {
	t.Helper()

	var fsys fstest.MapFS
	if content != "" {
		fsys = fstest.MapFS{ReportFile: &fstest.MapFile{Data: []byte(content)}}
	}
	var s strategies.Strategy
	for _, candidate := range NewStrategies() {
		if candidate.Name() == name {
			s = candidate
		}
	}
	require.NotNil(t, s, "strategy %q", name)

	return s.Parse(context.Background(), strategies.Source{FS: fsys, Recipe: recipe, Root: "/report/" + recipe})
}

func list(t *testing.T, records []domain.Data) *domain.DataList {
	t.Helper()
	l := domain.NewDataList()
	l.AddAll(records...)
	return l
}

func TestNewStrategies(t *testing.T) {
	t.Parallel()

	got := NewStrategies()
	require.Len(t, got, 5)
	assert.Equal(t, CodeSizeName, got[0].Name())
	assert.Greater(t, got[0].Priority(), got[1].Priority())
	assert.Equal(t, domain.TypeCodeViolation, got[3].Family())
}

func TestCodeSize(t *testing.T) {
	t.Parallel()

	t.Run("should be absent without report", func(t *testing.T) {
		t.Parallel()

		records, err := parse(t, CodeSizeName, "")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("should be absent without size member", func(t *testing.T) {
		t.Parallel()

		records, err := parse(t, CodeSizeName, "{ }")
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("should mark blank report as present", func(t *testing.T) {
		t.Parallel()

		records, err := parse(t, CodeSizeName, "  \n")
		require.NoError(t, err)
		l := list(t, records)
		assert.Equal(t, 0, l.Len())
		assert.True(t, l.IsAvailable(domain.TypeCodeSize))
	})

	t.Run("should mark empty array as present", func(t *testing.T) {
		t.Parallel()

		records, err := parse(t, CodeSizeName, `{"size": []}`)
		require.NoError(t, err)
		assert.True(t, list(t, records).IsAvailable(domain.TypeCodeSize))
	})

	t.Run("should create size and comment records", func(t *testing.T) {
		t.Parallel()

		content := `{"size": [
			{"file": "a.file", "total_lines": 20, "code_lines": 10, "comment_lines": 5, "functions": 2, "classes": 1},
			{"file": ".hidden/b.file", "total_lines": 20, "code_lines": 10},
			{"file": "c.file", "total_lines": 3}
		]}`

		sizeRecords, err := parse(t, CodeSizeName, content)
		require.NoError(t, err)
		sizes := list(t, sizeRecords)
		require.Equal(t, 2, sizes.Len())
		assert.Equal(t, domain.CodeSizeData{Recipe: recipe, File: "a.file", Lines: 10, Functions: 2, Classes: 1}, sizes.All()[0])
		assert.True(t, sizes.IsAvailable(domain.TypeCodeSize))
		assert.False(t, sizes.IsAvailable(domain.TypeComment))

		commentRecords, err := parse(t, CommentName, content)
		require.NoError(t, err)
		comments := list(t, commentRecords)
		require.Equal(t, 2, comments.Len())
		assert.Equal(t, domain.CommentData{Recipe: recipe, File: "a.file", Lines: 20, CommentLines: 5}, comments.All()[0])
		assert.True(t, comments.IsAvailable(domain.TypeComment))
	})

	t.Run("should reject entry without file", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, CodeSizeName, `{"size": [{"code_lines": 10}]}`)
		assert.ErrorIs(t, err, domain.ErrMalformedReport)
	})

	t.Run("should reject invalid syntax", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, CommentName, `{"size": [`)
		assert.ErrorIs(t, err, domain.ErrMalformedReport)
	})
}

func TestComplexity(t *testing.T) {
	t.Parallel()

	t.Run("should keep last value per function", func(t *testing.T) {
		t.Parallel()

		records, err := parse(t, ComplexityName, `{"complexity": [
			{"file": "a.file", "function": "f", "start": 1, "end": 10, "value": 5},
			{"file": "a.file", "function": "g", "start": 11, "end": 20, "value": 1},
			{"file": "a.file", "function": "f", "start": 1, "end": 10, "value": 15}
		]}`)
		require.NoError(t, err)

		l := list(t, records)
		require.Equal(t, 2, l.Len())
		assert.Equal(t, int64(15), l.All()[0].(domain.ComplexityData).Value)
		assert.True(t, l.IsAvailable(domain.TypeComplexity))
	})

	t.Run("should reject missing value", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, ComplexityName, `{"complexity": [{"file": "a.file", "function": "f", "start": 1, "end": 10}]}`)
		assert.ErrorIs(t, err, domain.ErrMalformedReport)
	})
}

func TestCodeViolations(t *testing.T) {
	t.Parallel()

	t.Run("should map levels case-insensitively", func(t *testing.T) {
		t.Parallel()

		records, err := parse(t, CodeViolationName, `{"violations": [
			{"file": "a.file", "line": 1, "column": 2, "rule": "r", "level": "MAJOR", "tool": "cppcheck"},
			{"file": "a.file", "line": 2, "column": 2, "rule": "r", "level": "minor"},
			{"file": "a.file", "line": 3, "column": 2, "rule": "r", "level": "Info"},
			{"file": ".git/x", "line": 3, "column": 2, "rule": "r", "level": "info"}
		]}`)
		require.NoError(t, err)

		l := list(t, records)
		assert.Equal(t, 3, l.Count(domain.TypeCodeViolation))
		assert.Equal(t, 1, l.Count(domain.TypeMajorCodeViolation))
		assert.Equal(t, 1, l.Count(domain.TypeMinorCodeViolation))
		assert.Equal(t, 1, l.Count(domain.TypeInfoCodeViolation))
		assert.True(t, l.IsAvailable(domain.TypeMajorCodeViolation))
		assert.Equal(t, "cppcheck", l.All()[0].(domain.CodeViolationData).Tool)
	})

	t.Run("should reject unknown level", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, CodeViolationName, `{"violations": [{"file": "a.file", "line": 1, "rule": "r", "level": "???"}]}`)
		assert.ErrorIs(t, err, domain.ErrMalformedReport)
	})
}

func TestDuplications(t *testing.T) {
	t.Parallel()

	t.Run("should create one record per block", func(t *testing.T) {
		t.Parallel()

		records, err := parse(t, DuplicationName, `{
			"size": [{"file": "a.file", "total_lines": 100}, {"file": "b.file", "total_lines": 50}],
			"duplications": [
				[{"file": "a.file", "start": 1, "end": 11}, {"file": "b.file", "start": 5, "end": 15}],
				[{"file": "a.file", "start": 20, "end": 30}]
			]
		}`)
		require.NoError(t, err)

		l := list(t, records)
		require.Equal(t, 2, l.Len())
		first := l.All()[0].(domain.DuplicationData)
		assert.Equal(t, int64(100), first.Lines)
		assert.Equal(t, int64(10), first.DuplicatedLines())
		assert.True(t, l.IsAvailable(domain.TypeDuplication))
	})

	t.Run("should skip groups that are not pairs", func(t *testing.T) {
		t.Parallel()

		records, err := parse(t, DuplicationName, `{
			"size": [{"file": "a.file", "total_lines": 100}, {"file": "b.file", "total_lines": 50}],
			"duplications": [
				[],
				[{"file": "a.file", "start": 1, "end": 11}],
				[{"file": "a.file", "start": 20, "end": 30}, {"file": "b.file", "start": 5, "end": 15}, {"file": "b.file", "start": 30, "end": 40}],
				[{"file": "a.file", "start": 40, "end": 45}, {"file": "b.file", "start": 1, "end": 6}]
			]
		}`)
		require.NoError(t, err)

		l := list(t, records)
		require.Equal(t, 2, l.Len())
		for d := range domain.ObjectsOf[domain.DuplicationData](l, domain.TypeDuplication) {
			assert.Equal(t, int64(5), d.DuplicatedLines())
		}
	})

	t.Run("should skip group touching hidden file", func(t *testing.T) {
		t.Parallel()

		records, err := parse(t, DuplicationName, `{
			"size": [{"file": "a.file", "total_lines": 100}, {"file": ".b.file", "total_lines": 50}],
			"duplications": [[{"file": "a.file", "start": 1, "end": 11}, {"file": ".b.file", "start": 5, "end": 15}]]
		}`)
		require.NoError(t, err)

		l := list(t, records)
		assert.Equal(t, 0, l.Len())
		assert.True(t, l.IsAvailable(domain.TypeDuplication))
	})

	t.Run("should be absent without size member", func(t *testing.T) {
		t.Parallel()

		records, err := parse(t, DuplicationName, `{"duplications": []}`)
		require.NoError(t, err)
		assert.Empty(t, records)
	})

	t.Run("should reject block of unlisted file", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, DuplicationName, `{
			"size": [{"file": "a.file", "total_lines": 100}],
			"duplications": [[{"file": "a.file", "start": 1, "end": 11}, {"file": "z.file", "start": 5, "end": 15}]]
		}`)
		assert.ErrorIs(t, err, domain.ErrMalformedReport)
	})
}
