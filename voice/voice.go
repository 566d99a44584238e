// Package voice implements per-note state (pitch, envelopes, LFOs) and the
// polyphonic/monophonic allocator that maps incoming key-on/key-off events
// onto a bounded set of voices.
package voice

import (
	"math"

	"github.com/fourop/fmcore/envelope"
	"github.com/fourop/fmcore/interp"
	"github.com/fourop/fmcore/lfo"
	"github.com/fourop/fmcore/param"
)

// MaxVoices is the largest legal polyphonic voice count; the monophonic
// slot is one additional voice on top of this.
const MaxVoices = 128

// MidiKeyToFrequency converts a MIDI key number to Hz using equal
// temperament with A4 (key 69) at 440Hz.
func MidiKeyToFrequency(key byte) float64 {
	return 440.0 * math.Pow(2, (float64(key)-69.0)/12.0)
}

// Operator is one of a voice's four FM operators: its running phase and its
// volume envelope.
type Operator struct {
	Phase    float64 // turns, [0,1)
	Envelope envelope.Evaluator
}

// Voice is a single note: MIDI key, a portamento-capable pitch
// interpolator, gate state, velocity, four operators, four LFOs, and an
// optional host note id for CLAP note-ended reporting.
type Voice struct {
	Key        byte
	Pitch      interp.Value
	KeyPressed bool
	Velocity   float32
	NoteID     int32
	HasNoteID  bool
	Monophonic bool
	Active     bool
	Operators  [param.NumOperators]Operator
	LFOs       lfo.Bank
}

// Press (re-)triggers the voice. If retargetTo is non-nil, the pitch
// interpolator starts at glideFromKey's frequency and glides toward
// retargetTo's frequency; otherwise it snaps directly to glideFromKey's
// frequency. Every operator's envelope restarts Attack from its current
// volume (click-free retrigger), and every LFO's phase resets.
func (v *Voice) Press(newKey byte, velocity float32, glideFromKey byte, retargetTo *byte, noteID int32, hasNoteID bool, sampleRate float64) {
	v.Key = newKey
	v.Velocity = velocity
	v.NoteID = noteID
	v.HasNoteID = hasNoteID
	v.KeyPressed = true
	v.Active = true

	startFreq := MidiKeyToFrequency(glideFromKey)
	if retargetTo != nil {
		v.Pitch = interp.New(startFreq)
		v.Pitch.SetTarget(MidiKeyToFrequency(*retargetTo), sampleRate)
	} else {
		v.Pitch = interp.New(startFreq)
	}

	for i := range v.Operators {
		v.Operators[i].Envelope.Press()
	}
	for i := range v.LFOs {
		v.LFOs[i].Reset()
	}
}

// Release clears the gate. Envelopes flow through Release on their next
// tick, driven by the generator loop reading KeyPressed, not by this call.
func (v *Voice) Release() {
	v.KeyPressed = false
}

// ChangePitch retargets the voice to a new key without retriggering
// envelopes or LFOs — the monophonic portamento path. If glide is false the
// pitch snaps immediately.
func (v *Voice) ChangePitch(newKey byte, glide bool, sampleRate float64) {
	v.Key = newKey
	freq := MidiKeyToFrequency(newKey)
	if glide {
		v.Pitch.SetTarget(freq, sampleRate)
	} else {
		v.Pitch = interp.New(freq)
	}
}

// DeactivateIfEnvelopesEnded marks the voice inactive once all four
// operator envelopes have reached Ended, and reports whether that
// transition happened on this call.
func (v *Voice) DeactivateIfEnvelopesEnded() bool {
	for i := range v.Operators {
		if !v.Operators[i].Envelope.IsEnded() {
			return false
		}
	}
	if !v.Active {
		return false
	}
	v.Active = false
	return true
}
