package engine

import (
	"math"

	"github.com/fourop/fmcore/envelope"
	"github.com/fourop/fmcore/lfo"
	"github.com/fourop/fmcore/param"
	"github.com/fourop/fmcore/simd"
	"github.com/fourop/fmcore/voice"
)

// masterScale is the fixed post-clip attenuation every buffer's total is
// scaled by, giving the bounded-output invariant |sample| <= 10 * 0.2 = 2.0.
const masterScale = 0.2

// ProcessBuffer fills left and right with one buffer's worth of audio.
// frameOffset is the absolute sample position of the buffer's first frame;
// it is not used for event matching. A queued event's FrameOffset is read as
// an offset within this buffer (0 = first frame) and the event is applied
// when the buffer reaches that frame.
func (a *AudioState) ProcessBuffer(left, right []float32, frameOffset uint64) {
	n := len(left)

	if a.ingress.Len() == 0 && !a.anyVoiceActive() {
		for i := 0; i < n; i++ {
			left[i] = 0
			right[i] = 0
		}
		return
	}

	for _, id := range a.Params.DrainChangedToAudio() {
		if _, stepped := param.KindOf(id).(param.Stepped); stepped {
			continue
		}
		a.interpolators[id].SetTarget(a.Params.AudioValue(id), a.sampleRate)
	}

	_ = frameOffset // events are queued with buffer-relative offsets already
	for frame := 0; frame < n; frame++ {
		a.applyEventsAt(uint64(frame))

		for id := param.ID(0); id < param.Count; id++ {
			a.interpolators[id].AdvanceOneSample()
		}

		l, r := a.tickFrame()
		left[frame] = float32(l)
		right[frame] = float32(r)
	}

	a.Voices.Reap()
}

func (a *AudioState) anyVoiceActive() bool {
	active := false
	a.Voices.ForEachVoice(func(v *voice.Voice) {
		if v.Active {
			active = true
		}
	})
	return active
}

// resolvedValue returns id's per-frame value: for stepped (discrete) kinds,
// the bank's current bucket directly; for continuous/piecewise kinds, the
// interpolator's smoothed value plus this frame's summed LFO contribution,
// clamped to the parameter's semantic range when it has one. targets may be
// nil for master-level parameters, which aren't addressable by any single
// voice's LFO bank.
func (a *AudioState) resolvedValue(id param.ID, targets *lfo.TargetValues) float64 {
	if _, stepped := param.KindOf(id).(param.Stepped); stepped {
		return a.Params.AudioValue(id)
	}
	lo, hi := 0.0, 0.0
	if c, ok := param.KindOf(id).(param.Continuous); ok {
		lo, hi = c.Min, c.Max
	}
	var offset float64
	var has bool
	if targets != nil {
		offset, has = targets.Get(id)
	}
	return a.interpolators[id].GetValueWithLFOAddition(offset, has, lo, hi)
}

func velocityFactor(sensitivity, velocity float64) float64 {
	return sensitivity*velocity + (1 - sensitivity)
}

// tickFrame advances every active voice by one sample and returns the
// buffer's next stereo output sample.
func (a *AudioState) tickFrame() (float64, float64) {
	masterFrequency := a.resolvedValue(param.MasterFrequency, nil)
	masterVolume := a.resolvedValue(param.MasterVolume, nil)
	bendUp := a.resolvedValue(param.MasterPitchBendRangeUp, nil)
	bendDown := a.resolvedValue(param.MasterPitchBendRangeDown, nil)
	velocitySensitivity := a.resolvedValue(param.MasterVelocitySensitivity, nil)
	bendMultiplier := a.pitchBend.AsFrequencyMultiplier(float32(bendUp), float32(bendDown))

	var totalL, totalR float64

	a.Voices.ForEachVoice(func(v *voice.Voice) {
		if !v.Active {
			return
		}
		mixL, mixR := a.tickVoice(v, masterFrequency, bendMultiplier)
		voiceScale := masterVolume * velocityFactor(velocitySensitivity, float64(v.Velocity))
		totalL += mixL * voiceScale
		totalR += mixR * voiceScale

		if v.DeactivateIfEnvelopesEnded() && v.HasNoteID {
			a.egress.Push(NoteEndedEvent{Key: v.Key, NoteID: v.NoteID, HasNoteID: true})
		}
	})

	totalL = clip(totalL, -10, 10)
	totalR = clip(totalR, -10, 10)

	return totalL * masterScale, totalR * masterScale
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// operatorValues is one operator's fully-resolved per-frame parameter
// snapshot, computed once and reused across the dependency-analysis and
// generation passes.
type operatorValues struct {
	active                                 bool
	volume, mixOut, modOut                 float64
	feedback, feedbackVelSens, modVelSens  float64
	panning                                float64
	waveType                               param.WaveType
	freqRatio, freqFree, freqFine          float64
	modTargetsMask                         int
	attackDur, decayDur, releaseDur        int
	attackEnd, decayEnd                    float64
}

func (a *AudioState) resolveOperator(op int, targets *lfo.TargetValues) operatorValues {
	field := func(f param.OperatorField) float64 {
		return a.resolvedValue(param.Operator(op, f), targets)
	}
	return operatorValues{
		active:          field(param.OpActive) != 0,
		volume:          field(param.OpVolume),
		mixOut:          field(param.OpMixOut),
		modOut:          field(param.OpModOut),
		feedback:        field(param.OpFeedback),
		feedbackVelSens: field(param.OpFeedbackVelocitySensitivity),
		modVelSens:      field(param.OpModVelocitySensitivity),
		panning:         field(param.OpPanning),
		waveType:        param.WaveType(int(field(param.OpWaveType))),
		freqRatio:       field(param.OpFreqRatio),
		freqFree:        field(param.OpFreqFree),
		freqFine:        field(param.OpFreqFine),
		modTargetsMask:  int(field(param.OpModTargets)),
		attackDur:       int(math.Round(field(param.OpAttackDuration) * a.sampleRate)),
		decayDur:        int(math.Round(field(param.OpDecayDuration) * a.sampleRate)),
		releaseDur:      int(math.Round(field(param.OpReleaseDuration) * a.sampleRate)),
		attackEnd:       field(param.OpAttackEndValue),
		decayEnd:        field(param.OpDecayEndValue),
	}
}

// dependencyAnalysis computes which operators need a wave evaluated this
// frame. An operator starts live iff it's active, has nonzero volume, and
// contributes to either the mix or a modulation target. Operators 1..3 are
// then pruned if every one of their modulation targets is itself pruned and
// their own mix_out is zero — the common "this modulator feeds a silent
// chain" routing.
func dependencyAnalysis(ops [param.NumOperators]operatorValues) [param.NumOperators]bool {
	var live [param.NumOperators]bool
	for i, ov := range ops {
		live[i] = ov.active && ov.volume > 0 && (ov.mixOut > 0 || ov.modOut > 0)
	}
	for i := 1; i < param.NumOperators; i++ {
		hasLiveTarget := false
		for j := 0; j < i; j++ {
			if ops[i].modTargetsMask&(1<<uint(j)) != 0 && live[j] {
				hasLiveTarget = true
				break
			}
		}
		if !hasLiveTarget && ops[i].mixOut == 0 {
			live[i] = false
		}
	}
	return live
}

// tickVoice advances one voice's LFOs, envelopes, pitch and phases by one
// sample and returns its stereo mix contribution (not yet scaled by master
// volume or velocity).
func (a *AudioState) tickVoice(v *voice.Voice, masterFrequency, bendMultiplier float64) (float64, float64) {
	v.Pitch.AdvanceOneSample()
	voiceBaseFreq := v.Pitch.GetValue() * masterFrequency * bendMultiplier

	var targets lfo.TargetValues
	a.tickVoiceLFOs(v, &targets)

	var ops [param.NumOperators]operatorValues
	for i := 0; i < param.NumOperators; i++ {
		ops[i] = a.resolveOperator(i, &targets)
	}
	live := dependencyAnalysis(ops)

	velocityNorm := float64(v.Velocity)
	gate := envelope.Gate(v.KeyPressed)

	var modIn [param.NumOperators]float64
	var mixL, mixR float64

	for i := param.NumOperators - 1; i >= 0; i-- {
		op := &v.Operators[i]
		ov := ops[i]

		op.Envelope.AdvanceOneSample(gate, envelope.Params{
			AttackDuration:  ov.attackDur,
			AttackEndValue:  ov.attackEnd,
			DecayDuration:   ov.decayDur,
			DecayEndValue:   ov.decayEnd,
			ReleaseDuration: ov.releaseDur,
		})
		envVolume := op.Envelope.GetVolume(a.log10)

		freq := voiceBaseFreq * ov.freqRatio * ov.freqFree * ov.freqFine
		phase := op.Phase
		op.Phase += freq * a.timePerSample
		op.Phase -= math.Floor(op.Phase)

		if !live[i] {
			continue
		}

		l, r := a.operatorSample(ov, phase, modIn[i], velocityNorm, envVolume)
		mixL += l
		mixR += r

		for j := 0; j < i; j++ {
			if ov.modTargetsMask&(1<<uint(j)) != 0 {
				modIn[j] += a.modContributionScalar(ov, phase, modIn[i], velocityNorm, envVolume)
			}
		}
	}

	return mixL, mixR
}

func (a *AudioState) tickVoiceLFOs(v *voice.Voice, targets *lfo.TargetValues) {
	targets.Reset()
	for i := range v.LFOs {
		active := a.resolvedValue(param.LFO(i, param.LfoActive), targets) != 0
		if !active {
			continue
		}
		shape := param.LFOShape(int(a.resolvedValue(param.LFO(i, param.LfoShape), targets)))
		mode := param.LFOMode(int(a.resolvedValue(param.LFO(i, param.LfoMode), targets)))
		bpmSync := a.resolvedValue(param.LFO(i, param.LfoBpmSync), targets) != 0
		ratio := a.resolvedValue(param.LFO(i, param.LfoFreqRatio), targets)
		free := a.resolvedValue(param.LFO(i, param.LfoFreqFree), targets)
		amount := a.resolvedValue(param.LFO(i, param.LfoAmount), targets)

		hz := lfo.EffectiveHz(bpmSync, ratio, free, a.bpm)
		value := v.LFOs[i].Tick(shape, mode, hz, amount, a.timePerSample)

		targetID := param.ID(a.resolvedValue(param.LFO(i, param.LfoTarget), targets))
		targets.Add(targetID, value)
	}
}

// operatorSample computes one operator's stereo mix contribution for the
// current sample (§4.8.1). modInput is the sum of all higher-index
// operators' modulation output targeting this one. Left and right are
// carried as plain float64 pairs rather than a simd.Packed value: boxing a
// Lanes2 behind the Packed interface for this per-operator, per-sample call
// would heap-allocate on every call, which the audio thread may never do.
func (a *AudioState) operatorSample(ov operatorValues, phase, modInput, velocityNorm, envVolume float64) (float64, float64) {
	panL, panR := a.pannedOperatorSignal(ov, phase, modInput, velocityNorm, envVolume)

	cpCos := math.Cos(ov.panning * math.Pi / 2)
	cpSin := math.Sin(ov.panning * math.Pi / 2)

	return panL * cpCos * ov.mixOut, panR * cpSin * ov.mixOut
}

// modContributionScalar mirrors operatorSample's panning chain but for the
// linear-panning modulation path, collapsing the stereo result to a single
// scalar (the modulation-input accumulator is one lane per target operator,
// not per channel, so the two panned channels are averaged).
func (a *AudioState) modContributionScalar(ov operatorValues, phase, modInput, velocityNorm, envVolume float64) float64 {
	panL, panR := a.pannedOperatorSignal(ov, phase, modInput, velocityNorm, envVolume)

	linPanL := math.Min(2*(1-ov.panning), 1)
	linPanR := math.Min(2*ov.panning, 1)

	modVelFactor := velocityFactor(ov.modVelSens, velocityNorm)
	l := panL * linPanL * modVelFactor * ov.modOut
	r := panR * linPanR * modVelFactor * ov.modOut
	return (l + r) * 0.5
}

// pannedOperatorSignal applies the mono-mix blend of §4.8.1 step 3 to the
// operator's scaled signal. Left and right start out equal (the operator
// signal is mono here), so the horizontal-sum-then-halve returns the scaled
// signal itself and both returned channels equal it for every panning
// value; panning takes effect only through the constant-power and linear
// factors that operatorSample and modContributionScalar apply afterwards.
func (a *AudioState) pannedOperatorSignal(ov operatorValues, phase, modInput, velocityNorm, envVolume float64) (float64, float64) {
	base := a.waveValue(ov, phase, modInput, velocityNorm)
	scaled := base * ov.volume * envVolume
	mono := (scaled + scaled) * 0.5

	panBipolar := 2*ov.panning - 1
	monoMixL := math.Max(-panBipolar, 0)
	monoMixR := math.Max(panBipolar, 0)

	l := monoMixL*mono + (1-monoMixL)*scaled
	r := monoMixR*mono + (1-monoMixR)*scaled
	return l, r
}

func (a *AudioState) waveValue(ov operatorValues, phase, modInput, velocityNorm float64) float64 {
	if ov.waveType == param.WaveWhiteNoise {
		return a.rng.Float64()*2 - 1
	}

	shape := waveFunc(ov.waveType)
	angle := phase * 2 * math.Pi
	feedbackTerm := velocityFactor(ov.feedbackVelSens, velocityNorm) * ov.feedback * shape(angle)
	return shape(angle + feedbackTerm + modInput)
}

func waveFunc(w param.WaveType) func(float64) float64 {
	switch w {
	case param.WaveSquare:
		return simd.Square
	case param.WaveTriangle:
		return simd.Triangle
	case param.WaveSaw:
		return simd.Saw
	default:
		return simd.Sine
	}
}
