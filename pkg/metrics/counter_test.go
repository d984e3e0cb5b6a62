package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounter_Ratio(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		counter Counter
		want    float64
	}{
		{name: "should be zero without denominator", counter: NewCounter(0, 0), want: 0},
		{name: "should be zero without denominator even with numerator", counter: NewCounter(0, 7), want: 0},
		{name: "should divide numerator by denominator", counter: NewCounter(3, 2), want: 2.0 / 3.0},
		{name: "should allow ratio above one", counter: NewCounter(2, 5), want: 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, tt.counter.Ratio(), 1e-9)
		})
	}
}

func TestCounter_Add(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NewCounter(5, 3), NewCounter(2, 1).Add(NewCounter(3, 2)))
}

func TestValue_Against(t *testing.T) {
	t.Parallel()

	v := Value{Value: 0.5}.Against(Value{Value: 0.75})
	assert.Equal(t, 0.5, v.Value)
	assert.InDelta(t, -0.25, v.Difference, 1e-9)
}
