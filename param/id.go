package param

// ID identifies a single parameter slot: one of the master parameters, one
// field of one of the four operators, or one field of one of the four LFOs.
type ID uint16

const (
	numMasterParams   = 7
	NumOperators      = 4
	numOperatorFields = 18
	NumLFOs           = 4
	numLFOFields      = 8
)

const (
	MasterFrequency ID = iota
	MasterVolume
	MasterPitchBendRangeUp
	MasterPitchBendRangeDown
	MasterVoiceMode
	MasterPortamentoMode
	MasterVelocitySensitivity
)

const operatorBase ID = numMasterParams
const lfoBase ID = operatorBase + ID(NumOperators*numOperatorFields)

// Count is the total number of parameter slots in a patch.
const Count ID = lfoBase + ID(NumLFOs*numLFOFields)

// OperatorField enumerates the fields of a single operator.
type OperatorField int

const (
	OpVolume OperatorField = iota
	OpActive
	OpMixOut
	OpModOut
	OpModTargets
	OpFeedback
	OpFeedbackVelocitySensitivity
	OpModVelocitySensitivity
	OpPanning
	OpWaveType
	OpFreqRatio
	OpFreqFree
	OpFreqFine
	OpAttackDuration
	OpAttackEndValue
	OpDecayDuration
	OpDecayEndValue
	OpReleaseDuration
)

// Operator returns the ID of the given field on operator index op (0..3).
func Operator(op int, field OperatorField) ID {
	return operatorBase + ID(op)*numOperatorFields + ID(field)
}

// LFOField enumerates the fields of a single LFO.
type LFOField int

const (
	LfoTarget LFOField = iota
	LfoShape
	LfoMode
	LfoBpmSync
	LfoFreqRatio
	LfoFreqFree
	LfoAmount
	LfoActive
)

// LFO returns the ID of the given field on LFO index lfo (0..3).
func LFO(lfo int, field LFOField) ID {
	return lfoBase + ID(lfo)*numLFOFields + ID(field)
}
