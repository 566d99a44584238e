package engine

import (
	"github.com/fourop/fmcore/midi"
	"github.com/fourop/fmcore/param"
)

func (a *AudioState) voiceModeAndPortamento() (param.VoiceMode, param.PortamentoMode) {
	mode := param.VoiceMode(int(a.GetParameterValue(param.MasterVoiceMode)))
	port := param.PortamentoMode(int(a.GetParameterValue(param.MasterPortamentoMode)))
	return mode, port
}

// applyEventsAt pops and dispatches every queued event whose frame offset
// matches frame, in FIFO order (the host guarantees delta-frames are
// sorted within one buffer; VST hosts sort before enqueueing).
func (a *AudioState) applyEventsAt(frame uint64) {
	for {
		t, ok := a.ingress.Peek()
		if !ok || t.FrameOffset != frame {
			return
		}
		a.ingress.Pop()
		a.dispatch(t.Event)
	}
}

func (a *AudioState) dispatch(e midi.Event) {
	d := midi.Decode(e)
	mode, port := a.voiceModeAndPortamento()

	switch d.Action {
	case midi.ActionKeyOn:
		a.Voices.KeyOn(d.Key, d.Velocity, d.ClapNoteID, d.HasClapNoteID, mode, port, a.sampleRate)

	case midi.ActionKeyOff:
		if a.sustainOn {
			a.sustainQueue = append(a.sustainQueue, d.Key)
			return
		}
		a.Voices.KeyOff(d.Key, mode, port, a.sampleRate)

	case midi.ActionSustainPedal:
		wasOn := a.sustainOn
		a.sustainOn = d.SustainOn
		if wasOn && !d.SustainOn {
			for _, key := range a.sustainQueue {
				a.Voices.KeyOff(key, mode, port, a.sampleRate)
			}
			a.sustainQueue = a.sustainQueue[:0]
		}

	case midi.ActionPitchBend:
		a.pitchBend.UpdateFromMIDI(d.PitchBendLSB, d.PitchBendMSB)

	case midi.ActionBpm:
		a.bpm = d.BPM

	case midi.ActionAftertouch:
		// Decoded but not yet routed anywhere; no parameter currently
		// listens for channel or poly pressure.
	}
}
