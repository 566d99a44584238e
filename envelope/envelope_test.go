package envelope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func defaultParams() Params {
	return Params{
		AttackDuration:  10,
		AttackEndValue:  1.0,
		DecayDuration:   10,
		DecayEndValue:   0.5,
		ReleaseDuration: 10,
	}
}

func TestEnvelopeADSRProgression(t *testing.T) {
	t.Log("demonstrating a full attack-decay-sustain-release cycle")

	var e Evaluator
	p := defaultParams()
	e.Press()

	for i := 0; i < p.AttackDuration; i++ {
		e.AdvanceOneSample(true, p)
	}
	assert.Equal(t, Decay, e.State())
	assert.InDelta(t, p.AttackEndValue, e.RawValue(), 1e-9)

	for i := 0; i < p.DecayDuration; i++ {
		e.AdvanceOneSample(true, p)
	}
	assert.Equal(t, Sustain, e.State())
	assert.InDelta(t, p.DecayEndValue, e.RawValue(), 1e-9)

	e.AdvanceOneSample(false, p)
	assert.Equal(t, Release, e.State())

	for i := 0; i < p.ReleaseDuration; i++ {
		e.AdvanceOneSample(false, p)
	}
	assert.True(t, e.IsEnded())
	assert.Equal(t, 0.0, e.RawValue())
}

func TestClickFreeRetriggerFromDecay(t *testing.T) {
	t.Log("re-pressing mid-decay should restart attack from the current volume, not zero")

	var e Evaluator
	p := defaultParams()
	e.Press()
	for i := 0; i < p.AttackDuration+3; i++ {
		e.AdvanceOneSample(true, p)
	}
	assert.Equal(t, Decay, e.State())
	midVolume := e.RawValue()

	e.Press()
	assert.Equal(t, Attack, e.State())
	assert.InDelta(t, midVolume, e.RawValue(), 1e-9)
}

func TestEndedWatchesGateForAutoAttack(t *testing.T) {
	var e Evaluator
	p := defaultParams()
	e.Press()
	for i := 0; i < p.AttackDuration+p.DecayDuration; i++ {
		e.AdvanceOneSample(true, p)
	}
	for i := 0; i < 1+p.ReleaseDuration; i++ {
		e.AdvanceOneSample(false, p)
	}
	assert.True(t, e.IsEnded(), "a fully released Evaluator is Ended")

	e.AdvanceOneSample(true, p)
	assert.Equal(t, Attack, e.State())
}

func TestGetVolumePassesThroughLog10Table(t *testing.T) {
	var e Evaluator
	p := defaultParams()
	e.Press()
	for i := 0; i < p.AttackDuration; i++ {
		e.AdvanceOneSample(true, p)
	}

	table := SharedLog10Table()
	assert.InDelta(t, table.Lookup(1.0), e.GetVolume(table), 1e-9)
}

// TestEnvelopeAlwaysTerminates is the envelope-termination invariant: from
// any reachable state, holding the gate low for long enough always reaches
// Ended.
func TestEnvelopeAlwaysTerminates(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		p := Params{
			AttackDuration:  rapid.IntRange(0, 50).Draw(rt, "attack"),
			AttackEndValue:  1.0,
			DecayDuration:   rapid.IntRange(0, 50).Draw(rt, "decay"),
			DecayEndValue:   rapid.Float64Range(0, 1).Draw(rt, "sustainLevel"),
			ReleaseDuration: rapid.IntRange(0, 50).Draw(rt, "release"),
		}
		pressSamples := rapid.IntRange(0, 20).Draw(rt, "pressSamples")

		var e Evaluator
		e.Press()
		for i := 0; i < pressSamples; i++ {
			e.AdvanceOneSample(true, p)
		}

		const maxReleaseSamples = 1000
		for i := 0; i < maxReleaseSamples && !e.IsEnded(); i++ {
			e.AdvanceOneSample(false, p)
		}

		assert.True(rt, e.IsEnded())
	})
}
