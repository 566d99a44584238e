package voice

import (
	"testing"

	"github.com/fourop/fmcore/envelope"
	"github.com/fourop/fmcore/param"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

const sr = 48000.0

func TestMidiKeyToFrequency(t *testing.T) {
	assert.InDelta(t, 440.0, MidiKeyToFrequency(69), 1e-9)
	assert.InDelta(t, 880.0, MidiKeyToFrequency(81), 1e-9)
	assert.InDelta(t, 220.0, MidiKeyToFrequency(57), 1e-9)
}

func TestPressSnapsWithoutGlideSource(t *testing.T) {
	var v Voice
	v.Press(60, 0.8, 60, nil, 0, false, sr)

	assert.True(t, v.KeyPressed)
	assert.True(t, v.Active)
	assert.InDelta(t, MidiKeyToFrequency(60), v.Pitch.GetValue(), 1e-9)
	assert.True(t, v.Pitch.Settled(), "snap means no ramp in progress")
}

func TestPressGlidesFromSourceKey(t *testing.T) {
	var v Voice
	target := byte(64)
	v.Press(64, 0.8, 60, &target, 0, false, sr)

	assert.InDelta(t, MidiKeyToFrequency(60), v.Pitch.GetValue(), 1e-9, "glide starts at the source key's frequency")
	assert.False(t, v.Pitch.Settled())
	assert.InDelta(t, MidiKeyToFrequency(64), v.Pitch.Target(), 1e-9)
}

func TestPressRestartsEnvelopesFromCurrentVolume(t *testing.T) {
	var v Voice
	v.Press(60, 1.0, 60, nil, 0, false, sr)
	for i := range v.Operators {
		assert.Equal(t, 0, int(v.Operators[i].Envelope.State()))
	}
}

func TestReleaseClearsGateOnly(t *testing.T) {
	var v Voice
	v.Press(60, 1.0, 60, nil, 0, false, sr)
	v.Release()
	assert.False(t, v.KeyPressed)
	assert.True(t, v.Active, "release doesn't deactivate until envelopes end")
}

func TestDeactivateIfEnvelopesEndedRequiresAllFour(t *testing.T) {
	var v Voice
	v.Press(60, 1.0, 60, nil, 0, false, sr)
	assert.False(t, v.DeactivateIfEnvelopesEnded())

	for i := range v.Operators {
		for n := 0; n < 8; n++ {
			v.Operators[i].Envelope.AdvanceOneSample(envelope.Gate(false), envelope.Params{})
		}
	}
	assert.True(t, v.DeactivateIfEnvelopesEnded())
	assert.False(t, v.Active)
	assert.False(t, v.DeactivateIfEnvelopesEnded(), "already deactivated: no repeated transition")
}

func TestPolyphonicRetriggerReusesVoiceNotCount(t *testing.T) {
	a := NewAllocator()
	a.KeyOn(60, 1.0, 0, false, param.VoicePolyphonic, param.PortamentoOff, sr)
	a.KeyOn(60, 1.0, 0, false, param.VoicePolyphonic, param.PortamentoOff, sr)
	assert.Equal(t, 1, a.VoiceCount())
}

func TestPolyphonicAutoPortamentoGlidesFromPressedVoiceOnly(t *testing.T) {
	a := NewAllocator()
	a.KeyOn(60, 1.0, 0, false, param.VoicePolyphonic, param.PortamentoAuto, sr)
	a.KeyOff(60, param.VoicePolyphonic, param.PortamentoAuto, sr)
	a.KeyOn(64, 1.0, 0, false, param.VoicePolyphonic, param.PortamentoAuto, sr)

	v, ok := a.voices.Get(64)
	assert.True(t, ok)
	assert.True(t, v.Pitch.Settled(), "auto portamento ignores a released voice as a glide source")
}

func TestPolyphonicAlwaysPortamentoGlidesFromReleasedVoiceToo(t *testing.T) {
	a := NewAllocator()
	a.KeyOn(60, 1.0, 0, false, param.VoicePolyphonic, param.PortamentoAlways, sr)
	a.KeyOff(60, param.VoicePolyphonic, param.PortamentoAlways, sr)
	a.KeyOn(64, 1.0, 0, false, param.VoicePolyphonic, param.PortamentoAlways, sr)

	v, ok := a.voices.Get(64)
	assert.True(t, ok)
	assert.False(t, v.Pitch.Settled(), "always portamento glides even from a released voice")
	assert.InDelta(t, MidiKeyToFrequency(60), v.Pitch.GetValue(), 1e-9)
}

func TestPolyphonicReapEvictsOnlyDeactivatedVoices(t *testing.T) {
	a := NewAllocator()
	a.KeyOn(60, 1.0, 0, false, param.VoicePolyphonic, param.PortamentoOff, sr)
	a.KeyOn(64, 1.0, 0, false, param.VoicePolyphonic, param.PortamentoOff, sr)

	v, _ := a.voices.Get(60)
	v.Active = false

	a.Reap()
	assert.Equal(t, 1, a.VoiceCount())
	_, stillThere := a.voices.Get(64)
	assert.True(t, stillThere)
}

func TestMonophonicReplacesSlotKey(t *testing.T) {
	a := NewAllocator()
	a.KeyOn(60, 1.0, 0, false, param.VoiceMonophonic, param.PortamentoOff, sr)
	a.KeyOn(64, 1.0, 0, false, param.VoiceMonophonic, param.PortamentoOff, sr)
	assert.Equal(t, byte(64), a.mono.Key)
	assert.Equal(t, 1, a.VoiceCount())
}

func TestMonophonicAlwaysGlidesAcrossThreeKeys(t *testing.T) {
	a := NewAllocator()
	a.KeyOn(60, 1.0, 0, false, param.VoiceMonophonic, param.PortamentoAlways, sr)
	assert.True(t, a.mono.Pitch.Settled(), "first note in a fresh sequence has no prior key to glide from")

	a.KeyOn(64, 1.0, 0, false, param.VoiceMonophonic, param.PortamentoAlways, sr)
	assert.InDelta(t, MidiKeyToFrequency(60), a.mono.Pitch.GetValue(), 1e-9)
	assert.InDelta(t, MidiKeyToFrequency(64), a.mono.Pitch.Target(), 1e-9)

	a.KeyOn(67, 1.0, 0, false, param.VoiceMonophonic, param.PortamentoAlways, sr)
	assert.InDelta(t, MidiKeyToFrequency(67), a.mono.Pitch.Target(), 1e-9)
}

func TestMonophonicKeyOffRetargetsToRemainingPressedKey(t *testing.T) {
	a := NewAllocator()
	a.KeyOn(60, 1.0, 0, false, param.VoiceMonophonic, param.PortamentoAlways, sr)
	a.KeyOn(64, 1.0, 0, false, param.VoiceMonophonic, param.PortamentoAlways, sr)

	a.KeyOff(64, param.VoiceMonophonic, param.PortamentoAlways, sr)
	assert.InDelta(t, MidiKeyToFrequency(60), a.mono.Pitch.Target(), 1e-9, "releasing the sounding key falls back to the still-held key")
}

func TestMonophonicKeyOffReleasesWhenNothingElseHeld(t *testing.T) {
	a := NewAllocator()
	a.KeyOn(60, 1.0, 0, false, param.VoiceMonophonic, param.PortamentoOff, sr)
	a.KeyOff(60, param.VoiceMonophonic, param.PortamentoOff, sr)
	assert.False(t, a.mono.KeyPressed)
}

// TestVoiceCountNeverExceedsKeysPressed is a bounded-allocation invariant:
// polyphonic key-on/key-off sequences never grow the voice table past the
// number of distinct keys ever pressed.
func TestVoiceCountNeverExceedsKeysPressed(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := NewAllocator()
		seen := map[byte]bool{}
		steps := rapid.IntRange(0, 64).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			key := byte(rapid.IntRange(0, 127).Draw(rt, "key"))
			if rapid.Bool().Draw(rt, "isOn") {
				a.KeyOn(key, 1.0, 0, false, param.VoicePolyphonic, param.PortamentoOff, sr)
				seen[key] = true
			} else {
				a.KeyOff(key, param.VoicePolyphonic, param.PortamentoOff, sr)
			}
			assert.LessOrEqual(rt, a.VoiceCount(), len(seen))
		}
	})
}
