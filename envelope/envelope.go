// Package envelope implements the four-segment volume envelope (attack,
// decay, sustain, release) each operator carries, with click-free
// retrigger: re-pressing a key restarts Attack from whatever volume the
// envelope currently holds rather than snapping back to zero.
package envelope

// State is one stage of the envelope state machine.
type State int

const (
	Attack State = iota
	Decay
	Sustain
	Release
	Ended
)

// Params carries the segment durations and target levels an Evaluator
// advances through. Durations are in samples; EndValue fields are in
// [0,1] raw envelope units (before the log10 perceptual lookup).
type Params struct {
	AttackDuration  int
	AttackEndValue  float64
	DecayDuration   int
	DecayEndValue   float64 // also the sustain level
	ReleaseDuration int
}

// Evaluator advances one operator's envelope one sample at a time.
type Evaluator struct {
	state        State
	startVolume  float64
	current      float64
	elapsed      int
	releaseStart float64
}

// Gate reports whether the key is held or sustain pedal holds the note on.
type Gate bool

// Press starts (or restarts) the envelope. If called while not Ended, the
// envelope re-enters Attack from its current volume instead of zero — the
// click-free retrigger spec requires.
func (e *Evaluator) Press() {
	e.startVolume = e.current
	e.state = Attack
	e.elapsed = 0
}

// release switches the envelope into its Release segment immediately,
// fading from the current volume. AdvanceOneSample calls it from Sustain
// once the caller's gate goes false.
func (e *Evaluator) release() {
	e.state = Release
	e.elapsed = 0
	e.releaseStart = e.current
}

// AdvanceOneSample steps the envelope by one sample given the current gate
// state and segment parameters.
func (e *Evaluator) AdvanceOneSample(gate Gate, p Params) {
	switch e.state {
	case Attack:
		if p.AttackDuration <= 0 {
			e.current = p.AttackEndValue
			e.state = Decay
			e.elapsed = 0
			return
		}
		frac := float64(e.elapsed) / float64(p.AttackDuration)
		e.current = e.startVolume + (p.AttackEndValue-e.startVolume)*frac
		e.elapsed++
		if e.elapsed >= p.AttackDuration {
			e.current = p.AttackEndValue
			e.state = Decay
			e.elapsed = 0
		}

	case Decay:
		if p.DecayDuration <= 0 {
			e.current = p.DecayEndValue
			e.state = Sustain
			e.elapsed = 0
			return
		}
		frac := float64(e.elapsed) / float64(p.DecayDuration)
		e.current = p.AttackEndValue + (p.DecayEndValue-p.AttackEndValue)*frac
		e.elapsed++
		if e.elapsed >= p.DecayDuration {
			e.current = p.DecayEndValue
			e.state = Sustain
			e.elapsed = 0
		}

	case Sustain:
		e.current = p.DecayEndValue
		if !bool(gate) {
			e.release()
		}

	case Release:
		if p.ReleaseDuration <= 0 {
			e.current = 0
			e.state = Ended
			e.elapsed = 0
			return
		}
		frac := float64(e.elapsed) / float64(p.ReleaseDuration)
		e.current = e.releaseStart * (1 - frac)
		e.elapsed++
		if e.elapsed >= p.ReleaseDuration {
			e.current = 0
			e.state = Ended
			e.elapsed = 0
		}

	case Ended:
		if bool(gate) {
			e.Press()
		}
	}
}

// State returns the evaluator's current stage.
func (e *Evaluator) State() State { return e.state }

// IsEnded reports whether the envelope has fully released.
func (e *Evaluator) IsEnded() bool { return e.state == Ended }

// GetVolume returns the envelope's current value run through the log10
// perceptual lookup table, yielding approximately equal-loudness steps.
func (e *Evaluator) GetVolume(table *Log10Table) float64 {
	return table.Lookup(e.current)
}

// RawValue returns the envelope's current value before the log10 lookup,
// primarily for tests.
func (e *Evaluator) RawValue() float64 { return e.current }
