package simd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestLanes2Arithmetic(t *testing.T) {
	a := NewLanes2(1, 2)
	b := NewLanes2(3, 4)

	assert.Equal(t, []float64{4, 6}, a.Add(b).ToSlice())
	assert.Equal(t, []float64{-2, -2}, a.Sub(b).ToSlice())
	assert.Equal(t, []float64{3, 8}, a.Mul(b).ToSlice())
}

func TestLanes2PairwiseHorizontalSum(t *testing.T) {
	p := NewLanes2(1, 3)
	assert.Equal(t, []float64{4, 4}, p.PairwiseHorizontalSum().ToSlice())
}

func TestLanes4Arithmetic(t *testing.T) {
	a := NewLanes4(1, 2, 10, 20)
	b := NewLanes4(3, 4, 30, 40)

	assert.Equal(t, []float64{4, 6, 40, 60}, a.Add(b).ToSlice())
	assert.Equal(t, []float64{-2, -2, -20, -20}, a.Sub(b).ToSlice())
	assert.Equal(t, []float64{3, 8, 300, 800}, a.Mul(b).ToSlice())
}

func TestLanes4PairwiseHorizontalSum(t *testing.T) {
	p := NewLanes4(1, 3, 5, 7)
	assert.Equal(t, []float64{4, 4, 12, 12}, p.PairwiseHorizontalSum().ToSlice())
}

func TestWaveShapesAtKeyAngles(t *testing.T) {
	assert.InDelta(t, 0, fastSin(0), 1e-3)
	assert.InDelta(t, 1, fastSin(math.Pi/2), 1e-3)

	assert.Equal(t, 1.0, square(0))
	assert.Equal(t, -1.0, square(math.Pi*1.5))

	assert.InDelta(t, -1, triangle(0), 1e-9)
	assert.InDelta(t, 1, triangle(math.Pi), 1e-9)

	assert.InDelta(t, -1, saw(0), 1e-9)
}

func TestNewSelectsWidth(t *testing.T) {
	assert.Equal(t, 2, New(2).Width())
	assert.Equal(t, 4, New(4).Width())
	assert.Equal(t, 2, SelectWidth(false))
	assert.Equal(t, 4, SelectWidth(true))
}

// TestWaveShapesStayInUnitRange checks every wave shape helper stays within
// [-1, 1] for any angle, the bound the generator's clipping stage assumes.
func TestWaveShapesStayInUnitRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		angle := rapid.Float64Range(-1000, 1000).Draw(rt, "angle")

		assert.GreaterOrEqual(rt, square(angle), -1.0)
		assert.LessOrEqual(rt, square(angle), 1.0)
		assert.GreaterOrEqual(rt, triangle(angle), -1.0)
		assert.LessOrEqual(rt, triangle(angle), 1.0)
		assert.GreaterOrEqual(rt, saw(angle), -1.0)
		assert.LessOrEqual(rt, saw(angle), 1.0)
	})
}
