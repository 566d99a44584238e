package simd

// Lanes2 packs a single stereo frame: lane 0 is left, lane 1 is right. This
// is the fallback width used on non-amd64 targets and mirrors the original
// engine's FallbackPackedDouble (SAMPLES=1).
type Lanes2 [2]float64

// NewLanes2 builds a Lanes2 from an explicit left/right pair.
func NewLanes2(l, r float64) Lanes2 {
	return Lanes2{l, r}
}

func (p Lanes2) Width() int { return 2 }

func (p Lanes2) Add(other Packed) Packed {
	o := other.(Lanes2)
	return Lanes2{p[0] + o[0], p[1] + o[1]}
}

func (p Lanes2) Sub(other Packed) Packed {
	o := other.(Lanes2)
	return Lanes2{p[0] - o[0], p[1] - o[1]}
}

func (p Lanes2) Mul(other Packed) Packed {
	o := other.(Lanes2)
	return Lanes2{p[0] * o[0], p[1] * o[1]}
}

// PairwiseHorizontalSum sums left and right into both lanes, the mono-fold
// shape the original engine's horizontal-add step produces.
func (p Lanes2) PairwiseHorizontalSum() Packed {
	sum := p[0] + p[1]
	return Lanes2{sum, sum}
}

func (p Lanes2) ToSlice() []float64 {
	return []float64{p[0], p[1]}
}
