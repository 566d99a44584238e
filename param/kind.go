// Package param implements the parameter value model: normalized patch
// values in [0,1] mapped to semantic audio values, with text round-trips.
// Every parameter kind (continuous, stepped, piecewise) implements Kind.
package param

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind maps a parameter's normalized patch value ([0,1]) to and from its
// semantic audio value, and to and from host-facing text. Audio values are
// represented uniformly as float64: continuous parameters store the real
// value, stepped parameters store the bucket index, piecewise parameters
// store the interpolated table value.
type Kind interface {
	FromPatch(patch float32) float64
	ToPatch(value float64) float32
	FromText(text string) (float64, bool)
	Format(value float64) string
	Default() float64
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Continuous maps the patch value through an analytic function in both
// directions, e.g. operator volume's `patch * 2.0`.
type Continuous struct {
	ToAudio    func(patch float32) float64
	ToPatchFn  func(value float64) float32
	Min, Max   float64
	DefaultVal float64
}

func (c Continuous) FromPatch(patch float32) float64 { return c.ToAudio(clamp01(patch)) }
func (c Continuous) ToPatch(value float64) float32   { return clamp01(c.ToPatchFn(value)) }

func (c Continuous) FromText(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	if v < c.Min || v > c.Max {
		return 0, false
	}
	return v, true
}

func (c Continuous) Format(value float64) string { return fmt.Sprintf("%.04f", value) }
func (c Continuous) Default() float64            { return c.DefaultVal }

// Stepped selects one of N buckets from the patch value; the inverse
// mapping returns the bucket's center. Names, when present, back Format and
// FromText; Aliases adds extra accepted spellings (e.g. "always" for "on").
type Stepped struct {
	N          int
	Names      []string
	Aliases    map[string]int
	DefaultIdx int
}

func (s Stepped) FromPatch(patch float32) float64 {
	idx := int(clamp01(patch) * float32(s.N))
	if idx >= s.N {
		idx = s.N - 1
	}
	if idx < 0 {
		idx = 0
	}
	return float64(idx)
}

func (s Stepped) ToPatch(value float64) float32 {
	idx := int(value)
	if idx < 0 {
		idx = 0
	}
	if idx >= s.N {
		idx = s.N - 1
	}
	return (float32(idx) + 0.5) / float32(s.N)
}

func (s Stepped) FromText(text string) (float64, bool) {
	t := strings.ToLower(strings.TrimSpace(text))
	if s.Aliases != nil {
		if idx, ok := s.Aliases[t]; ok {
			return float64(idx), true
		}
	}
	for i, name := range s.Names {
		if strings.ToLower(name) == t {
			return float64(i), true
		}
	}
	if n, err := strconv.Atoi(t); err == nil && n >= 0 && n < s.N {
		return float64(n), true
	}
	return 0, false
}

func (s Stepped) Format(value float64) string {
	idx := int(value)
	if idx >= 0 && idx < len(s.Names) {
		return s.Names[idx]
	}
	return strconv.Itoa(idx)
}

func (s Stepped) Default() float64 { return float64(s.DefaultIdx) }

// Piecewise linearly interpolates between consecutive entries of Steps as
// the patch value sweeps [0,1], e.g. operator free frequency's
// {1/1024, 1/64, 1/16, 1/4, 1/2, 3/4, 1, 3/2, 2, 4, 16, 64, 1024} table.
type Piecewise struct {
	Steps      []float64
	DefaultVal float64
}

func (p Piecewise) FromPatch(patch float32) float64 {
	n := len(p.Steps)
	pos := float64(clamp01(patch)) * float64(n-1)
	i := int(math.Floor(pos))
	if i >= n-1 {
		return p.Steps[n-1]
	}
	if i < 0 {
		i = 0
	}
	frac := pos - float64(i)
	return p.Steps[i] + frac*(p.Steps[i+1]-p.Steps[i])
}

func (p Piecewise) ToPatch(value float64) float32 {
	n := len(p.Steps)
	if value <= p.Steps[0] {
		return 0
	}
	if value >= p.Steps[n-1] {
		return 1
	}
	for i := 0; i < n-1; i++ {
		lo, hi := p.Steps[i], p.Steps[i+1]
		if value >= lo && value <= hi {
			frac := (value - lo) / (hi - lo)
			return float32((float64(i) + frac) / float64(n-1))
		}
	}
	return 1
}

func (p Piecewise) FromText(text string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, false
	}
	n := len(p.Steps)
	if v < p.Steps[0] || v > p.Steps[n-1] {
		return 0, false
	}
	return v, true
}

func (p Piecewise) Format(value float64) string { return fmt.Sprintf("%.04f", value) }
func (p Piecewise) Default() float64            { return p.DefaultVal }
