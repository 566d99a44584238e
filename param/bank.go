package param

import (
	"math"
	"math/bits"
	"sync/atomic"
)

// wordCount is the number of uint64 words needed to hold one changed-bit
// per parameter.
const wordCount = (int(Count) + 63) / 64

// Bank holds the current patch value for every parameter as an atomic f32
// (bit-cast into a uint32), plus mark-changed bitmaps in both directions so
// the audio thread and the GUI/host thread can each lazily drain what the
// other side touched, without a lock. This is the cross-thread parameter
// patch storage spec's concurrency model requires.
type Bank struct {
	patch        [Count]atomic.Uint32
	changedToGUI [wordCount]atomic.Uint64
	changedToAud [wordCount]atomic.Uint64
}

// NewBank returns a Bank with every parameter set to its Kind's default,
// expressed back through ToPatch.
func NewBank() *Bank {
	b := &Bank{}
	for id := ID(0); id < Count; id++ {
		k := KindOf(id)
		patch := k.ToPatch(k.Default())
		b.patch[id].Store(math.Float32bits(patch))
	}
	return b
}

// SetFromPatch stores a new normalized patch value for id, as the host (or
// a GUI) would when the user moves a control. Marks the change for the
// audio thread to observe.
func (b *Bank) SetFromPatch(id ID, v float32) {
	v = clamp01(v)
	b.patch[id].Store(math.Float32bits(v))
	b.markChanged(&b.changedToAud, id)
}

// SetFromAudioValue stores the patch value corresponding to an already
// semantic audio value, as the audio thread would after applying an
// internal automation. Marks the change for the GUI to observe.
func (b *Bank) SetFromAudioValue(id ID, value float64) {
	patch := KindOf(id).ToPatch(value)
	b.patch[id].Store(math.Float32bits(patch))
	b.markChanged(&b.changedToGUI, id)
}

// PatchValue returns the raw normalized patch value for id.
func (b *Bank) PatchValue(id ID) float32 {
	return math.Float32frombits(b.patch[id].Load())
}

// AudioValue returns id's current patch value mapped through its Kind.
func (b *Bank) AudioValue(id ID) float64 {
	return KindOf(id).FromPatch(b.PatchValue(id))
}

// Format returns the host-facing text for id's current value.
func (b *Bank) Format(id ID) string {
	return KindOf(id).Format(b.AudioValue(id))
}

// ParseAndSet parses text for id and, if valid, stores it as a patch value.
// Returns false (no change made) if the text doesn't parse for this Kind.
func (b *Bank) ParseAndSet(id ID, text string) bool {
	k := KindOf(id)
	v, ok := k.FromText(text)
	if !ok {
		return false
	}
	b.SetFromAudioValue(id, v)
	return true
}

func (b *Bank) markChanged(bitmap *[wordCount]atomic.Uint64, id ID) {
	word, bit := id/64, id%64
	bitmap[word].Or(1 << bit)
}

// DrainChangedToGUI returns the set of parameter IDs the audio thread has
// modified since the last drain, clearing the bitmap.
func (b *Bank) DrainChangedToGUI() []ID {
	return drain(&b.changedToGUI)
}

// DrainChangedToAudio returns the set of parameter IDs the GUI/host thread
// has modified since the last drain, clearing the bitmap.
func (b *Bank) DrainChangedToAudio() []ID {
	return drain(&b.changedToAud)
}

func drain(bitmap *[wordCount]atomic.Uint64) []ID {
	var out []ID
	for w := 0; w < wordCount; w++ {
		word := bitmap[w].Swap(0)
		for word != 0 {
			bit := bits.TrailingZeros64(word)
			out = append(out, ID(w*64+bit))
			word &^= 1 << bit
		}
	}
	return out
}
