package param

// operatorFreeSteps is the canonical operator free-frequency table, taken
// verbatim from the piecewise table this parameter uses upstream.
var operatorFreeSteps = []float64{
	1.0 / 1024.0, 1.0 / 64.0, 1.0 / 16.0, 0.25, 0.5, 0.75,
	1.0, 1.5, 2.0, 4.0, 16.0, 64.0, 1024.0,
}

// lfoFreeSteps mirrors the LFO's own free-frequency table.
var lfoFreeSteps = []float64{1.0 / 16.0, 0.5, 0.9, 1.0, 1.1, 2.0, 16.0}

// operatorRatioSteps: the harmonic-series ratio table. The upstream source
// kept in this tree doesn't carry the original ratio step table, so this
// uses the standard FM harmonic series (1..16); LFO frequency ratio reuses
// the same table.
var operatorRatioSteps = []float64{
	1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16,
}

var waveTypeNames = []string{"SINE", "SQUARE", "TRIANGLE", "SAW", "NOISE"}
var voiceModeNames = []string{"POLY", "MONO"}
var portamentoNames = []string{"OFF", "AUTO", "ON"}
var lfoShapeNames = []string{"SINE", "TRIANGLE", "SAW", "SQUARE", "REVSAW"}
var lfoModeNames = []string{"FOREVER", "ONCE"}
var boolNames = []string{"OFF", "ON"}

var registry [Count]Kind
var names [Count]string

func unit(def float64) Continuous {
	return Continuous{
		ToAudio:    func(patch float32) float64 { return float64(patch) },
		ToPatchFn:  func(value float64) float32 { return float32(value) },
		Min:        0,
		Max:        1,
		DefaultVal: def,
	}
}

func gain(def float64) Continuous {
	return Continuous{
		ToAudio:    func(patch float32) float64 { return float64(patch) * 2.0 },
		ToPatchFn:  func(value float64) float32 { return float32(value / 2.0) },
		Min:        0,
		Max:        2,
		DefaultVal: def,
	}
}

func seconds(max, def float64) Continuous {
	return Continuous{
		ToAudio:    func(patch float32) float64 { return float64(patch) * max },
		ToPatchFn:  func(value float64) float32 { return float32(value / max) },
		Min:        0,
		Max:        max,
		DefaultVal: def,
	}
}

func semitoneRange(def float64) Continuous {
	return Continuous{
		ToAudio:    func(patch float32) float64 { return float64(patch) * 36.0 },
		ToPatchFn:  func(value float64) float32 { return float32(value / 36.0) },
		Min:        0,
		Max:        36,
		DefaultVal: def,
	}
}

func boolKind(def int) Stepped {
	return Stepped{N: 2, Names: boolNames, DefaultIdx: def}
}

func register(id ID, name string, k Kind) {
	names[id] = name
	registry[id] = k
}

func init() {
	register(MasterFrequency, "master.frequency", gain(1.0))
	register(MasterVolume, "master.volume", gain(1.0))
	register(MasterPitchBendRangeUp, "master.pitch_bend_range_up", semitoneRange(2.0))
	register(MasterPitchBendRangeDown, "master.pitch_bend_range_down", semitoneRange(2.0))
	register(MasterVoiceMode, "master.voice_mode", Stepped{N: 2, Names: voiceModeNames})
	register(MasterPortamentoMode, "master.portamento_mode", Stepped{
		N:     3,
		Names: portamentoNames,
		Aliases: map[string]int{
			"off": 0, "auto": 1, "always": 2, "on": 2,
		},
	})
	register(MasterVelocitySensitivity, "master.velocity_sensitivity", unit(0.0))

	opFieldName := [numOperatorFields]string{
		"volume", "active", "mix_out", "mod_out", "mod_targets", "feedback",
		"feedback_velocity_sensitivity", "mod_velocity_sensitivity", "panning",
		"wave_type", "frequency_ratio", "frequency_free", "frequency_fine",
		"attack_duration", "attack_end_value", "decay_duration", "decay_end_value",
		"release_duration",
	}

	for op := 0; op < NumOperators; op++ {
		nameFor := func(field OperatorField) string {
			return "operator[" + itoa(op) + "]." + opFieldName[field]
		}

		register(Operator(op, OpVolume), nameFor(OpVolume), gain(1.0))
		register(Operator(op, OpActive), nameFor(OpActive), boolKind(1))
		register(Operator(op, OpMixOut), nameFor(OpMixOut), unit(boolToFloat(op == 0)))
		register(Operator(op, OpModOut), nameFor(OpModOut), unit(0.0))
		register(Operator(op, OpModTargets), nameFor(OpModTargets), Stepped{N: 16, DefaultIdx: 0})
		register(Operator(op, OpFeedback), nameFor(OpFeedback), unit(0.0))
		register(Operator(op, OpFeedbackVelocitySensitivity), nameFor(OpFeedbackVelocitySensitivity), unit(0.0))
		register(Operator(op, OpModVelocitySensitivity), nameFor(OpModVelocitySensitivity), unit(0.0))
		register(Operator(op, OpPanning), nameFor(OpPanning), unit(0.5))
		register(Operator(op, OpWaveType), nameFor(OpWaveType), Stepped{N: 5, Names: waveTypeNames})
		register(Operator(op, OpFreqRatio), nameFor(OpFreqRatio), Piecewise{Steps: operatorRatioSteps, DefaultVal: 1.0})
		register(Operator(op, OpFreqFree), nameFor(OpFreqFree), Piecewise{Steps: operatorFreeSteps, DefaultVal: 1.0})
		register(Operator(op, OpFreqFine), nameFor(OpFreqFine), Continuous{
			ToAudio:    func(patch float32) float64 { return sqrt(float64(patch) + 0.5) },
			ToPatchFn:  func(value float64) float32 { return float32(value*value - 0.5) },
			Min:        0.707,
			Max:        1.225,
			DefaultVal: 1.0,
		})
		register(Operator(op, OpAttackDuration), nameFor(OpAttackDuration), seconds(10.0, 0.01))
		register(Operator(op, OpAttackEndValue), nameFor(OpAttackEndValue), unit(1.0))
		register(Operator(op, OpDecayDuration), nameFor(OpDecayDuration), seconds(10.0, 0.1))
		register(Operator(op, OpDecayEndValue), nameFor(OpDecayEndValue), unit(0.7))
		register(Operator(op, OpReleaseDuration), nameFor(OpReleaseDuration), seconds(10.0, 0.3))
	}

	lfoFieldName := [numLFOFields]string{
		"target", "shape", "mode", "bpm_sync", "frequency_ratio", "frequency_free",
		"amount", "active",
	}

	for lfo := 0; lfo < NumLFOs; lfo++ {
		nameFor := func(field LFOField) string {
			return "lfo[" + itoa(lfo) + "]." + lfoFieldName[field]
		}

		register(LFO(lfo, LfoTarget), nameFor(LfoTarget), Stepped{N: int(Count), DefaultIdx: int(MasterVolume)})
		register(LFO(lfo, LfoShape), nameFor(LfoShape), Stepped{N: 5, Names: lfoShapeNames})
		register(LFO(lfo, LfoMode), nameFor(LfoMode), Stepped{N: 2, Names: lfoModeNames})
		register(LFO(lfo, LfoBpmSync), nameFor(LfoBpmSync), boolKind(0))
		register(LFO(lfo, LfoFreqRatio), nameFor(LfoFreqRatio), Piecewise{Steps: operatorRatioSteps, DefaultVal: 1.0})
		register(LFO(lfo, LfoFreqFree), nameFor(LfoFreqFree), Piecewise{Steps: lfoFreeSteps, DefaultVal: 1.0})
		register(LFO(lfo, LfoAmount), nameFor(LfoAmount), unit(0.0))
		register(LFO(lfo, LfoActive), nameFor(LfoActive), boolKind(0))
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// KindOf returns the Kind implementing the patch mapping for id.
func KindOf(id ID) Kind { return registry[id] }

// NameOf returns the dotted diagnostic name for id (e.g. "operator[0].volume").
func NameOf(id ID) string { return names[id] }
