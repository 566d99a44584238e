package param

// WaveType selects an operator's oscillator shape.
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveTriangle
	WaveSaw
	WaveWhiteNoise
)

// VoiceMode selects polyphonic or monophonic voice allocation.
type VoiceMode int

const (
	VoicePolyphonic VoiceMode = iota
	VoiceMonophonic
)

// PortamentoMode selects when glide applies on a new key-on.
type PortamentoMode int

const (
	PortamentoOff PortamentoMode = iota
	PortamentoAuto
	PortamentoAlways
)

// LFOShape selects an LFO's waveform.
type LFOShape int

const (
	LFOSine LFOShape = iota
	LFOTriangle
	LFOSaw
	LFOSquare
	LFOReverseSaw
)

// LFOMode selects whether an LFO free-runs or plays once per key-on.
type LFOMode int

const (
	LFOForever LFOMode = iota
	LFOOnce
)
