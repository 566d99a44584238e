// Package interp implements the one-pole linear interpolator every
// automatable parameter rides on: changes to a target value are smoothed
// toward over a fixed duration instead of jumping, avoiding zipper noise.
package interp

import "math"

// DefaultDurationMS is the interpolation duration used by every parameter
// unless stated otherwise.
const DefaultDurationMS = 50.0

// Value holds a current and target audio value and advances the current
// value linearly toward the target, one sample at a time, over a fixed
// number of steps recomputed whenever the target changes.
type Value struct {
	current    float64
	target     float64
	stepSize   float64
	stepsLeft  int
	numSteps   int
	durationMS float64
}

// New returns a Value initialized to v with the default 50ms duration.
func New(v float64) Value {
	return NewWithDuration(v, DefaultDurationMS)
}

// NewWithDuration returns a Value initialized to v with an explicit
// interpolation duration in milliseconds.
func NewWithDuration(v float64, durationMS float64) Value {
	return Value{current: v, target: v, durationMS: durationMS}
}

// SetTarget retargets toward v. If numSteps is zero (sample rate not yet
// known), the value jumps immediately; otherwise it restarts the ramp from
// the current value with a step size recomputed for the new distance.
func (p *Value) SetTarget(v float64, sampleRate float64) {
	p.target = v
	p.numSteps = int(durationSteps(p.durationMS, sampleRate))

	if p.numSteps <= 0 {
		p.current = v
		p.stepsLeft = 0
		return
	}
	if v == p.current {
		p.stepsLeft = 0
		return
	}
	p.stepSize = (v - p.current) / float64(p.numSteps)
	p.stepsLeft = p.numSteps
}

func durationSteps(durationMS, sampleRate float64) float64 {
	return math.Round(durationMS / 1000.0 * sampleRate)
}

// AdvanceOneSample moves current one step closer to target.
func (p *Value) AdvanceOneSample() {
	if p.stepsLeft == 0 {
		return
	}
	p.current += p.stepSize
	p.stepsLeft--
	if p.stepsLeft == 0 {
		p.current = p.target
	}
}

// GetValue returns the current (possibly still-interpolating) value.
func (p *Value) GetValue() float64 { return p.current }

// GetValueWithLFOAddition returns the current value plus an optional LFO
// offset, clamped to [lo, hi] when the range is non-empty (hi > lo).
func (p *Value) GetValueWithLFOAddition(lfoOffset float64, hasOffset bool, lo, hi float64) float64 {
	v := p.current
	if hasOffset {
		v += lfoOffset
	}
	if hi > lo {
		if v < lo {
			v = lo
		} else if v > hi {
			v = hi
		}
	}
	return v
}

// Target returns the value currently being interpolated toward.
func (p *Value) Target() float64 { return p.target }

// Settled reports whether the interpolator has reached its target.
func (p *Value) Settled() bool { return p.stepsLeft == 0 }
