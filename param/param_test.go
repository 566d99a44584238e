package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSteppedBucketing(t *testing.T) {
	k := Stepped{N: 3, Names: portamentoNames}

	assert.Equal(t, 0.0, k.FromPatch(0))
	assert.Equal(t, 1.0, k.FromPatch(0.5))
	assert.Equal(t, 2.0, k.FromPatch(0.999))
	assert.Equal(t, "AUTO", k.Format(1))
}

func TestSteppedAliases(t *testing.T) {
	k := KindOf(MasterPortamentoMode)

	v, ok := k.FromText("Always")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)

	_, ok = k.FromText("nonsense")
	assert.False(t, ok)
}

func TestPiecewiseInterpolatesBetweenSteps(t *testing.T) {
	k := Piecewise{Steps: operatorFreeSteps, DefaultVal: 1.0}

	assert.InDelta(t, operatorFreeSteps[0], k.FromPatch(0), 1e-9)
	assert.InDelta(t, operatorFreeSteps[len(operatorFreeSteps)-1], k.FromPatch(1), 1e-9)
	assert.InDelta(t, 1.0, k.FromPatch(float32(k.ToPatch(1.0))), 1e-6)
}

func TestBankDefaultsRoundTrip(t *testing.T) {
	b := NewBank()

	assert.InDelta(t, 1.0, b.AudioValue(MasterVolume), 1e-6)
	assert.InDelta(t, 0.5, b.AudioValue(Operator(0, OpPanning)), 1e-6)
}

func TestBankSetFromPatchMarksChanged(t *testing.T) {
	b := NewBank()
	b.DrainChangedToAudio() // clear whatever NewBank's own stores marked

	b.SetFromPatch(MasterVolume, 0.25)

	changed := b.DrainChangedToAudio()
	assert.Contains(t, changed, MasterVolume)
	assert.Empty(t, b.DrainChangedToAudio(), "a second drain with no intervening write should be empty")
}

func TestBankParseAndSet(t *testing.T) {
	b := NewBank()

	ok := b.ParseAndSet(Operator(0, OpWaveType), "square")
	assert.True(t, ok)
	assert.Equal(t, "SQUARE", b.Format(Operator(0, OpWaveType)))

	ok = b.ParseAndSet(Operator(0, OpWaveType), "not-a-wave")
	assert.False(t, ok)
}

// TestPatchRoundTripStaysInBucket is the patch-round-trip invariant from the
// testable properties: for every parameter and every patch value, to_patch
// (from_patch(f)) lands in the same bucket as f for stepped parameters, and
// within 1/13 of f (one segment of the operator free-frequency table) for
// continuous and piecewise ones.
func TestPatchRoundTripStaysInBucket(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		id := ID(rapid.IntRange(0, int(Count)-1).Draw(rt, "id"))
		f := float32(rapid.Float64Range(0, 1).Draw(rt, "patch"))

		k := KindOf(id)
		roundTripped := k.ToPatch(k.FromPatch(f))

		switch k.(type) {
		case Stepped:
			s := k.(Stepped)
			assert.Equal(rt, s.FromPatch(f), s.FromPatch(roundTripped))
		default:
			assert.InDelta(rt, float64(f), float64(roundTripped), 1.0/float64(len(operatorFreeSteps)))
		}
	})
}
