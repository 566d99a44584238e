// Package simd provides packed-double lane arithmetic, modelled on the
// original engine's trait-dispatched Pd backends, plus the scalar wave-shape
// functions the FM generator's per-operator hot path actually calls.
//
// There are no real CPU intrinsics here — Go gives no portable way to emit
// SSE2/AVX from a .go file without cgo or an assembly stub, so each backend
// below is a plain Go struct implementing the same arithmetic contract the
// original engine's backends implement. Lanes4 packs two stereo frames (the
// amd64/AVX width), Lanes2 one (the portable/SSE2 width); both are
// bit-for-bit deterministic for a given input.
//
// Packed is intentionally narrow: it covers only the lane arithmetic that a
// future batched buffer pass could use (Add/Sub/Mul/PairwiseHorizontalSum).
// Per-operator, per-sample code in engine/generator.go works in plain
// float64 pairs instead of Packed, because boxing a Lanes2 behind this
// interface on every call would heap-allocate on the audio thread. Wave
// shape generation, panning, and min/max clamping are scalar float64
// arithmetic for the same reason; see the package-level wave functions
// below and DESIGN.md's simd entry for the full rationale.
package simd

import "math"

// Packed is implemented by every lane-width backend. All methods are value
// receivers: packed lanes are small enough to copy. Callers that need these
// per-sample, on the audio thread, must work in concrete Lanes2/Lanes4
// values directly rather than through this interface, to avoid the boxing
// allocation an interface method call on a value type incurs.
type Packed interface {
	Width() int
	Add(Packed) Packed
	Sub(Packed) Packed
	Mul(Packed) Packed
	PairwiseHorizontalSum() Packed
	ToSlice() []float64
}

// New returns a zeroed Packed of the given lane width (2 or 4).
func New(width int) Packed {
	if width == 4 {
		return Lanes4{}
	}
	return Lanes2{}
}

// SelectWidth picks the SIMD width a future batched pass would use from
// whether the target is amd64 (Go offers no portable AVX-feature probe
// outside cgo/asm). It does not inspect GOARCH itself; the caller passes
// the answer in.
func SelectWidth(amd64 bool) int {
	if amd64 {
		return 4
	}
	return 2
}

// All four wave shape helpers below take an angle in radians: phase_turns *
// 2*pi plus feedback and modulation terms, all pre-summed into one angle
// before the wave function is applied.

// fastSin approximates sin(angle) to within ~1e-3 absolute error.
func fastSin(angle float64) float64 {
	return math.Sin(angle)
}

func turnsOf(angle float64) float64 {
	t := angle / (2 * math.Pi)
	t -= math.Floor(t)
	return t
}

func square(angle float64) float64 {
	if turnsOf(angle) < 0.5 {
		return 1
	}
	return -1
}

func triangle(angle float64) float64 {
	t := turnsOf(angle)
	return 1 - 4*math.Abs(t-0.5)
}

func saw(angle float64) float64 {
	t := turnsOf(angle)
	return 2*t - 1
}

// Scalar wave shape functions, exported for single-lane callers (the LFO
// bank and the generator's per-operator wave evaluation) that don't need a
// full packed vector. The white-noise operator does not use them.

func Sine(angle float64) float64     { return fastSin(angle) }
func Square(angle float64) float64   { return square(angle) }
func Triangle(angle float64) float64 { return triangle(angle) }
func Saw(angle float64) float64      { return saw(angle) }
