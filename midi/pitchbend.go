package midi

import "math"

// GlobalPitchBend tracks the host's 14-bit pitch wheel position as a
// bipolar factor in [-1, 1]. The divisor is asymmetric (8191 for the
// positive half, 8192 for the negative half) so that the wheel's extreme
// low position maps to exactly -1 without ever dividing by zero.
type GlobalPitchBend struct {
	factor float32
}

// UpdateFromMIDI recomputes the bend factor from a 14-bit pitch-bend
// message's LSB/MSB pair (center = 0x2000, i.e. lsb=0, msb=64).
func (g *GlobalPitchBend) UpdateFromMIDI(lsb, msb byte) {
	amount := uint16(msb)<<7 | uint16(lsb)

	x := float32(amount) - 8192.0

	if x > 0 {
		x *= 1.0 / 8191.0
	}
	if x < 0 {
		x *= 1.0 / 8192.0
	}

	g.factor = x
}

// Factor returns the current bipolar bend factor in [-1, 1].
func (g *GlobalPitchBend) Factor() float32 { return g.factor }

// AsFrequencyMultiplier converts the bend factor into a frequency ratio,
// using rangeUp semitones for upward bend and rangeDown for downward bend.
func (g *GlobalPitchBend) AsFrequencyMultiplier(rangeUp, rangeDown float32) float64 {
	semitoneRange := rangeUp
	if g.factor < 0 {
		semitoneRange = -rangeDown
	}

	return math.Exp2(float64(g.factor) * float64(semitoneRange) * (1.0 / 12.0))
}
