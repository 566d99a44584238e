// Package lfo implements the per-voice LFO bank: up to four low-frequency
// oscillators per voice, each modulating one parameter by summing into a
// target-value table that parameters consume through
// interp.Value.GetValueWithLFOAddition.
package lfo

import (
	"math"

	"github.com/fourop/fmcore/param"
	"github.com/fourop/fmcore/simd"
)

const twoPi = 2 * math.Pi

// Oscillator is the running state of one voice's single LFO: its phase and
// whether a Once-mode cycle has finished. Shape, mode, sync, target and
// amount are not stored here: shape/mode/sync/target are read live from
// patch parameters (they are discrete, not interpolated), and amount and
// frequency ride the same interpolators every other automatable parameter
// uses, owned by engine.AudioState and passed in to Tick already resolved.
type Oscillator struct {
	phase   float64 // turns, [0,1)
	stopped bool    // true once a Once-mode LFO completes its single cycle
}

// Reset restarts the oscillator's phase and run state. voice.Press calls it
// for every LFO of the voice on each key press.
func (o *Oscillator) Reset() {
	o.phase = 0
	o.stopped = false
}

// Tick advances the oscillator by one sample and returns shape(phase) *
// amount, or 0 once a Once-mode oscillator has completed its single cycle.
func (o *Oscillator) Tick(shape param.LFOShape, mode param.LFOMode, effectiveHz, amount, timePerSample float64) float64 {
	if o.stopped {
		return 0
	}

	value := evalShape(shape, o.phase) * amount

	o.phase += effectiveHz * timePerSample
	if o.phase >= 1.0 {
		if mode == param.LFOOnce {
			o.phase = 1.0
			o.stopped = true
		} else {
			o.phase -= math.Floor(o.phase)
		}
	}

	return value
}

func evalShape(shape param.LFOShape, phaseTurns float64) float64 {
	angle := phaseTurns * twoPi
	switch shape {
	case param.LFOSine:
		return simd.Sine(angle)
	case param.LFOTriangle:
		return simd.Triangle(angle)
	case param.LFOSaw:
		return simd.Saw(angle)
	case param.LFOSquare:
		return simd.Square(angle)
	case param.LFOReverseSaw:
		return -simd.Saw(angle)
	default:
		return simd.Sine(angle)
	}
}

// EffectiveHz computes an LFO's rate in Hz, either free-running (ratio *
// free, both dimensionless multipliers of a 1Hz reference) or locked to the
// host tempo when BPM-sync is enabled (ratio/free is then read as a beat
// fraction of the master BPM in quarter notes per minute).
func EffectiveHz(bpmSync bool, ratio, free, bpm float64) float64 {
	if bpmSync {
		beatsPerSecond := bpm / 60.0
		return beatsPerSecond * ratio * free
	}
	return ratio * free
}

// Bank holds the four LFOs of one voice.
type Bank [param.NumLFOs]Oscillator

// TargetValues accumulates, per parameter ID, the summed output of every
// LFO targeting it this sample. A fixed-size array indexed directly by ID,
// not a map, to keep the hot path allocation-free. Reset to zero before
// each frame's LFOs run.
type TargetValues struct {
	values  [param.Count]float64
	touched [param.Count]bool
}

// Reset clears all accumulated contributions for the next frame.
func (t *TargetValues) Reset() {
	for id := range t.values {
		t.values[id] = 0
		t.touched[id] = false
	}
}

// Add accumulates an LFO's contribution toward target id.
func (t *TargetValues) Add(id param.ID, value float64) {
	t.values[id] += value
	t.touched[id] = true
}

// Get returns the accumulated LFO offset for id, and whether any LFO
// targets it this frame.
func (t *TargetValues) Get(id param.ID) (float64, bool) {
	return t.values[id], t.touched[id]
}
