//go:build !headless

package backend

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer drives an oto.Context from a Source, pulling stereo float32
// frames and interleaving them into the byte stream oto expects.
type OtoPlayer struct {
	ctx    *oto.Context
	player *oto.Player

	source atomic.Pointer[Source] // lock-free Read() path

	frame uint64 // running sample position handed to ProcessBuffer

	left, right []float32 // pre-allocated scratch, sized to the largest Read() seen

	started bool
	mutex   sync.Mutex // guards setup/control only, never the Read() hot path
}

// NewOtoPlayer opens the default output device at sampleRate, stereo float32.
func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   0, // let oto pick a sane default
	})
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoPlayer{ctx: ctx}, nil
}

// SetupPlayer attaches the audio source and creates the underlying oto
// player. Safe to call again to swap sources.
func (op *OtoPlayer) SetupPlayer(source Source) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.source.Store(&source)
	if op.player == nil {
		op.player = op.ctx.NewPlayer(op)
	}
}

// Read implements io.Reader for oto.Player. p holds interleaved stereo
// float32 samples, little-endian.
func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	sourcePtr := op.source.Load()
	if sourcePtr == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	source := *sourcePtr

	numFrames := len(p) / 8 // 2 channels * 4 bytes
	if numFrames == 0 {
		return 0, nil
	}
	if cap(op.left) < numFrames {
		op.left = make([]float32, numFrames)
		op.right = make([]float32, numFrames)
	}
	left := op.left[:numFrames]
	right := op.right[:numFrames]

	source.ProcessBuffer(left, right, op.frame)
	op.frame += uint64(numFrames)

	out := (*[1 << 30]float32)(unsafe.Pointer(&p[0]))[: numFrames*2 : numFrames*2]
	for i := 0; i < numFrames; i++ {
		out[2*i] = left[i]
		out[2*i+1] = right[i]
	}
	return numFrames * 8, nil
}

func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		op.player.Pause()
		op.started = false
	}
}

func (op *OtoPlayer) Close() {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Close()
		op.player = nil
	}
}

func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
