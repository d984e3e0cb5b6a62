package coverage

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

func parse(t *testing.T, fsys fstest.MapFS) (*domain.DataList, error) {
	t.Helper()

	records, err := NewStrategy().Parse(context.Background(), strategies.Source{FS: fsys, Recipe: recipe, Root: recipe})
	l := domain.NewDataList()
	l.AddAll(records...)
	return l, err
}

func report(content string) fstest.MapFS {
	return fstest.MapFS{ReportFile: &fstest.MapFile{Data: []byte(content)}}
}

func TestStrategy(t *testing.T) {
	t.Parallel()

	t.Run("should describe itself", func(t *testing.T) {
		t.Parallel()

		s := NewStrategy()
		assert.Equal(t, "coverage", s.Name())
		assert.Equal(t, domain.TypeCoverage, s.Family())
	})

	t.Run("should be absent without report", func(t *testing.T) {
		t.Parallel()

		l, err := parse(t, fstest.MapFS{})
		require.NoError(t, err)
		assert.False(t, l.IsAvailable(domain.TypeCoverage))
	})

	t.Run("should create statement and branch records", func(t *testing.T) {
		t.Parallel()

		// Given
		fsys := report(`<?xml version="1.0"?>
<coverage>
  <packages><package><classes>
    <class filename="a.file">
      <methods><method><lines><line number="99" hits="1"/></lines></method></methods>
      <lines>
        <line number="1" hits="1"/>
        <line number="2" hits="0"/>
        <line number="3" hits="1" branch="true" condition-coverage="50% (1/2)">
          <conds>
            <cond branch_number="0" hit="1"/>
            <cond branch_number="1" hit="0"/>
          </conds>
        </line>
        <line number="x" hits="1"/>
      </lines>
    </class>
    <class filename=".hidden/b.file">
      <lines><line number="1" hits="1"/></lines>
    </class>
  </classes></package></packages>
</coverage>`)

		// When
		l, err := parse(t, fsys)

		// Then
		require.NoError(t, err)
		assert.Equal(t, 2, l.Count(domain.TypeStatementCoverage))
		assert.Equal(t, 2, l.Count(domain.TypeBranchCoverage))
		assert.True(t, l.IsAvailable(domain.TypeStatementCoverage))
		assert.True(t, l.IsAvailable(domain.TypeBranchCoverage))

		covered := 0
		for d := range domain.ObjectsOf[domain.CoverageData](l, domain.TypeCoverage) {
			assert.Equal(t, "a.file", d.File)
			if d.Covered {
				covered++
			}
		}
		assert.Equal(t, 2, covered)
	})

	t.Run("should read conditions nested under conds and directly under line", func(t *testing.T) {
		t.Parallel()

		// Given
		fsys := report(`<coverage><packages><package><classes>
  <class filename="a.cpp">
    <lines>
      <line number="30" hits="1" branch="true" condition-coverage="50% (1/2)">
        <conds><cond branch_number="0" hit="1"/><cond branch_number="1" hit="0"/></conds>
      </line>
      <line number="31" hits="1"><cond branch_number="0" hit="1"/></line>
    </lines>
  </class>
</classes></package></packages></coverage>`)

		// When
		l, err := parse(t, fsys)

		// Then
		require.NoError(t, err)
		assert.Equal(t, 0, l.Count(domain.TypeStatementCoverage))
		assert.Equal(t, 3, l.Count(domain.TypeBranchCoverage))

		var lines []int64
		for d := range domain.ObjectsOf[domain.CoverageData](l, domain.TypeBranchCoverage) {
			lines = append(lines, d.Line)
		}
		assert.Equal(t, []int64{30, 30, 31}, lines)
	})

	t.Run("should mark blank report as present", func(t *testing.T) {
		t.Parallel()

		l, err := parse(t, report(" "))
		require.NoError(t, err)
		assert.Equal(t, 0, l.Len())
		assert.True(t, l.IsAvailable(domain.TypeCoverage))
	})

	t.Run("should reject invalid document", func(t *testing.T) {
		t.Parallel()

		_, err := parse(t, report(`<coverage><class filename="a.file"></coverage>`))
		assert.ErrorIs(t, err, domain.ErrMalformedReport)
	})
}
