package voice

import "github.com/fourop/fmcore/param"

// Allocator maps incoming key-on/key-off events onto voices, in either
// Polyphonic (one Voice per held key, insertion-ordered) or Monophonic
// (single slot plus a pressed-keys stack) mode. Mode switches never clear
// sound already playing: a polyphonic voice left active when the mode
// flips to Monophonic keeps ringing until its envelopes end naturally.
type Allocator struct {
	voices      *OrderedMap[byte, *Voice]
	mono        *Voice
	pressedKeys *OrderedSet[byte]
}

// NewAllocator returns an empty Allocator.
func NewAllocator() *Allocator {
	return &Allocator{
		voices:      NewOrderedMap[byte, *Voice](),
		pressedKeys: NewOrderedSet[byte](),
	}
}

// KeyOn presses key, dispatching to the polyphonic or monophonic path.
func (a *Allocator) KeyOn(key byte, velocity float32, noteID int32, hasNoteID bool, mode param.VoiceMode, portamento param.PortamentoMode, sampleRate float64) {
	if mode == param.VoiceMonophonic {
		a.monoKeyOn(key, velocity, noteID, hasNoteID, portamento, sampleRate)
		return
	}
	a.polyKeyOn(key, velocity, noteID, hasNoteID, portamento, sampleRate)
}

// KeyOff releases key, dispatching to the polyphonic or monophonic path.
func (a *Allocator) KeyOff(key byte, mode param.VoiceMode, portamento param.PortamentoMode, sampleRate float64) {
	if mode == param.VoiceMonophonic {
		a.monoKeyOff(key, portamento, sampleRate)
		return
	}
	a.polyKeyOff(key)
}

// polyKeyOn removes any existing entry for key and re-inserts it at the
// most-recently-pressed position, creating a new voice if none existed. The
// portamento source is chosen by mode: Off never glides; Auto glides from
// the most recently pressed other voice still gated on; Always glides from
// the most recently pressed other voice regardless of gate state.
func (a *Allocator) polyKeyOn(key byte, velocity float32, noteID int32, hasNoteID bool, portamento param.PortamentoMode, sampleRate float64) {
	glideFromKey := key
	var retargetTo *byte

	switch portamento {
	case param.PortamentoAuto:
		if other, ok := a.voices.MostRecentOtherWhere(key, func(v *Voice) bool { return v.KeyPressed }); ok {
			glideFromKey = other
			target := key
			retargetTo = &target
		}
	case param.PortamentoAlways:
		if other, ok := a.voices.MostRecentOtherWhere(key, nil); ok {
			glideFromKey = other
			target := key
			retargetTo = &target
		}
	}

	v := a.voices.MoveToEndOrInsert(key, func() *Voice { return &Voice{} })
	v.Press(key, velocity, glideFromKey, retargetTo, noteID, hasNoteID, sampleRate)
}

func (a *Allocator) polyKeyOff(key byte) {
	if v, ok := a.voices.Get(key); ok {
		v.Release()
	}
}

// Reap evicts deactivated polyphonic voices from the table. Called once per
// buffer, not inline with key-off, so a released voice's tail (decay of the
// release segment) keeps sounding until it genuinely ends.
func (a *Allocator) Reap() {
	for _, k := range append([]byte(nil), a.voices.Keys()...) {
		if v, ok := a.voices.Get(k); ok && !v.Active {
			a.voices.Remove(k)
		}
	}
}

// monoKeyOn replaces the single slot's key. The portamento source is the
// most recent other key still on the pressed-keys stack; in Always mode,
// if the stack holds no other key (this is the first note in a fresh
// sequence), it falls back to the slot's previous key so a portamento
// setting never silently degrades to a snap. Any leftover polyphonic voices
// from an earlier Polyphonic session are released, since Monophonic mode
// now owns sound production.
func (a *Allocator) monoKeyOn(key byte, velocity float32, noteID int32, hasNoteID bool, portamento param.PortamentoMode, sampleRate float64) {
	var previousSlotKey byte
	hadSlot := a.mono != nil && a.mono.Active
	if hadSlot {
		previousSlotKey = a.mono.Key
	}

	glideFromKey := key
	var retargetTo *byte

	switch portamento {
	case param.PortamentoAuto:
		if other, ok := a.pressedKeys.MostRecentOther(key); ok {
			glideFromKey = other
			target := key
			retargetTo = &target
		}
	case param.PortamentoAlways:
		if other, ok := a.pressedKeys.MostRecentOther(key); ok {
			glideFromKey = other
			target := key
			retargetTo = &target
		} else if hadSlot {
			glideFromKey = previousSlotKey
			target := key
			retargetTo = &target
		}
	}

	a.pressedKeys.Insert(key)

	if a.mono == nil {
		a.mono = &Voice{Monophonic: true}
	}
	a.mono.Press(key, velocity, glideFromKey, retargetTo, noteID, hasNoteID, sampleRate)

	for _, k := range a.voices.Keys() {
		if v, ok := a.voices.Get(k); ok && v.KeyPressed {
			v.Release()
		}
	}
}

// monoKeyOff removes key from the pressed-keys stack. If another key is
// still held, the slot retargets to the most recently pressed of those,
// gliding unless portamento is Off; otherwise the slot releases.
func (a *Allocator) monoKeyOff(key byte, portamento param.PortamentoMode, sampleRate float64) {
	a.pressedKeys.Remove(key)
	if a.mono == nil {
		return
	}

	if other, ok := a.pressedKeys.MostRecent(); ok {
		a.mono.ChangePitch(other, portamento != param.PortamentoOff, sampleRate)
		return
	}
	a.mono.Release()
}

// ForEachVoice calls fn once per voice currently in the table (polyphonic
// entries, then the monophonic slot if occupied), in pressed order.
func (a *Allocator) ForEachVoice(fn func(*Voice)) {
	for _, k := range a.voices.Keys() {
		if v, ok := a.voices.Get(k); ok {
			fn(v)
		}
	}
	if a.mono != nil {
		fn(a.mono)
	}
}

// VoiceCount returns the number of voices currently in the table,
// including the monophonic slot if occupied.
func (a *Allocator) VoiceCount() int {
	n := a.voices.Len()
	if a.mono != nil {
		n++
	}
	return n
}
