package envelope

import "math"

// log10TableSize is the number of precomputed entries in Log10Table. Go has
// no const array-of-computed-floats, so this is built once in init() and
// never mutated afterward — the nearest idiomatic equivalent to "pure data,
// compile-time constants".
const log10TableSize = 1024

// Log10Table maps a raw envelope value in [0,1] to a perceptually-linear
// volume by passing it through a base-10-logarithm curve, giving roughly
// equal-loudness steps across the envelope's range.
type Log10Table struct {
	entries [log10TableSize]float64
}

// floorDB is the level, in decibels, at the bottom of the curve: raw values
// just above 0 map to about floorDB dB, raw 1 maps to 0 dB, and a raw value
// of 0 or less maps to exact silence (0) rather than to floorDB.
const floorDB = -60.0

var sharedLog10Table Log10Table

func init() {
	for i := 0; i < log10TableSize; i++ {
		x := float64(i) / float64(log10TableSize-1)
		sharedLog10Table.entries[i] = log10Volume(x)
	}
}

func log10Volume(x float64) float64 {
	if x <= 0 {
		return 0
	}
	db := floorDB * (1 - x)
	return math.Pow(10, db/20)
}

// SharedLog10Table returns the package-level shared table; every envelope
// evaluator in a process can use the same table since it holds no mutable
// state after init().
func SharedLog10Table() *Log10Table { return &sharedLog10Table }

// Lookup maps a raw [0,1] envelope value to its perceptually-linear volume
// by nearest-index lookup into the precomputed table.
func (t *Log10Table) Lookup(raw float64) float64 {
	if raw <= 0 {
		return 0
	}
	if raw >= 1 {
		return t.entries[log10TableSize-1]
	}
	idx := int(math.Round(raw * float64(log10TableSize-1)))
	return t.entries[idx]
}
