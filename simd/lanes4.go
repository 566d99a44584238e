package simd

// Lanes4 packs two stereo frames: [l0, r0, l1, r1]. This is the width
// selected on amd64, standing in for the original engine's AVX backend
// (AvxPackedDouble, SAMPLES=2) without any real intrinsics behind it.
type Lanes4 [4]float64

// NewLanes4 builds a Lanes4 from two explicit stereo frames.
func NewLanes4(l0, r0, l1, r1 float64) Lanes4 {
	return Lanes4{l0, r0, l1, r1}
}

func (p Lanes4) Width() int { return 4 }

func (p Lanes4) Add(other Packed) Packed {
	o := other.(Lanes4)
	return Lanes4{p[0] + o[0], p[1] + o[1], p[2] + o[2], p[3] + o[3]}
}

func (p Lanes4) Sub(other Packed) Packed {
	o := other.(Lanes4)
	return Lanes4{p[0] - o[0], p[1] - o[1], p[2] - o[2], p[3] - o[3]}
}

func (p Lanes4) Mul(other Packed) Packed {
	o := other.(Lanes4)
	return Lanes4{p[0] * o[0], p[1] * o[1], p[2] * o[2], p[3] * o[3]}
}

// PairwiseHorizontalSum folds left+right within each stereo frame
// independently, mirroring the AVX backend's permute-then-add (0b0101).
func (p Lanes4) PairwiseHorizontalSum() Packed {
	sum0 := p[0] + p[1]
	sum1 := p[2] + p[3]
	return Lanes4{sum0, sum0, sum1, sum1}
}

func (p Lanes4) ToSlice() []float64 {
	return []float64{p[0], p[1], p[2], p[3]}
}
