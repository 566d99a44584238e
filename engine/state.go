// Package engine owns the audio state singleton: parameters, voices, event
// queues, RNG and per-parameter interpolators, and implements the
// sample-block generator that turns note events and a parameter set into
// stereo audio written to separate left and right buffers.
package engine

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/fourop/fmcore/envelope"
	"github.com/fourop/fmcore/interp"
	"github.com/fourop/fmcore/midi"
	"github.com/fourop/fmcore/param"
	"github.com/fourop/fmcore/voice"
)

const (
	ingressCapacity = 1024
	egressCapacity  = 256
)

// NoteEndedEvent reports that a voice carrying a host note id has fully
// released, for hosts (CLAP) that track note lifetime explicitly.
type NoteEndedEvent struct {
	Key       byte
	NoteID    int32
	HasNoteID bool
}

// AudioState is the single owner of everything the generator touches:
// sample rate, BPM, pitch bend, sustain, the parameter bank, the voice
// allocator, per-parameter interpolators, the RNG, and the event queues.
// Every field is touched exclusively by the audio thread except Params,
// whose Bank is lock-free by construction.
type AudioState struct {
	Params *param.Bank
	Voices *voice.Allocator

	// Logger receives non-fatal diagnostics (dropped events, invalid patch
	// text). Never touched from the audio thread's steady-state path, only
	// from the rare branches that already drop work on the floor. Defaults
	// to a discard sink so an unconfigured host never blocks on logging.
	Logger *log.Logger

	sampleRate    float64
	timePerSample float64
	bpm           float64

	pitchBend    midi.GlobalPitchBend
	sustainOn    bool
	sustainQueue []byte // keys released while the pedal was held, pre-sized

	rng *rand.Rand

	interpolators [param.Count]interp.Value

	ingress *midi.Queue[midi.Timed]
	egress  *midi.Queue[NoteEndedEvent]

	log10 *envelope.Log10Table
}

// NewAudioState returns an AudioState with every parameter at its default
// and sample rate set to sampleRate.
func NewAudioState(sampleRate float64) *AudioState {
	a := &AudioState{
		Params:       param.NewBank(),
		Voices:       voice.NewAllocator(),
		Logger:       log.New(io.Discard),
		bpm:          120,
		sustainQueue: make([]byte, 0, voice.MaxVoices),
		rng:          rand.New(rand.NewPCG(0x9e3779b97f4a7c15, 0xbf58476d1ce4e5b9)),
		ingress:      midi.NewQueue[midi.Timed](ingressCapacity),
		egress:       midi.NewQueue[NoteEndedEvent](egressCapacity),
		log10:        envelope.SharedLog10Table(),
	}
	a.SetSampleRate(sampleRate)
	for id := param.ID(0); id < param.Count; id++ {
		a.interpolators[id] = interp.New(a.Params.AudioValue(id))
	}
	return a
}

// SetSampleRate updates the sample rate and its reciprocal. Existing
// interpolators keep their current/target values; only the step size of
// their next retarget changes.
func (a *AudioState) SetSampleRate(sr float64) {
	a.sampleRate = sr
	a.timePerSample = 1.0 / sr
}

// SetBPM updates the master tempo BPM-synced LFOs read.
func (a *AudioState) SetBPM(bpm float64) { a.bpm = bpm }

// EnqueueNoteEvent pushes a host event onto the ingress ring buffer.
// Returns false if the buffer is full; the event is dropped and logged.
func (a *AudioState) EnqueueNoteEvent(t midi.Timed) bool {
	if a.ingress.Push(t) {
		return true
	}
	a.Logger.Error("ingress queue full, dropping event", "frameOffset", t.FrameOffset)
	return false
}

// SetParameterFromPatch stores a new normalized value for id.
func (a *AudioState) SetParameterFromPatch(id param.ID, v float32) {
	a.Params.SetFromPatch(id, v)
}

// GetParameterValue returns id's current semantic audio value.
func (a *AudioState) GetParameterValue(id param.ID) float64 {
	return a.Params.AudioValue(id)
}

// FormatParameterValue returns id's current value as host-facing text.
func (a *AudioState) FormatParameterValue(id param.ID) string {
	return a.Params.Format(id)
}

// ParseParameterText parses text for id and stores it if valid.
func (a *AudioState) ParseParameterText(id param.ID, text string) bool {
	if a.Params.ParseAndSet(id, text) {
		return true
	}
	a.Logger.Warn("invalid parameter text, ignoring", "param", param.NameOf(id), "text", text)
	return false
}

// DrainEndedNotes calls fn once per CLAP note-ended event queued since the
// last drain.
func (a *AudioState) DrainEndedNotes(fn func(NoteEndedEvent)) {
	for {
		e, ok := a.egress.Pop()
		if !ok {
			return
		}
		fn(e)
	}
}
