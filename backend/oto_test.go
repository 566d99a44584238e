//go:build !headless

package backend

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func decodeFloat32LE(b []byte, frameIndex int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b[frameIndex*4:]))
}

type fakeSource struct {
	lastOffset uint64
}

func (f *fakeSource) ProcessBuffer(left, right []float32, frameOffset uint64) {
	f.lastOffset = frameOffset
	for i := range left {
		left[i] = float32(i) + 1
		right[i] = -(float32(i) + 1)
	}
}

func TestReadInterleavesLeftAndRight(t *testing.T) {
	op := &OtoPlayer{}
	var src Source = &fakeSource{}
	op.source.Store(&src)

	buf := make([]byte, 8*4) // 4 stereo frames
	n, err := op.Read(buf)

	assert.NoError(t, err)
	assert.Equal(t, len(buf), n)

	assert.Equal(t, float32(1), decodeFloat32LE(buf, 0))
	assert.Equal(t, float32(-1), decodeFloat32LE(buf, 1))
	assert.Equal(t, float32(4), decodeFloat32LE(buf, 6))
	assert.Equal(t, float32(-4), decodeFloat32LE(buf, 7))
}

func TestReadAdvancesFrameCounter(t *testing.T) {
	op := &OtoPlayer{}
	fs := &fakeSource{}
	var src Source = fs
	op.source.Store(&src)

	buf := make([]byte, 8*2)
	op.Read(buf)
	assert.Equal(t, uint64(0), fs.lastOffset)

	op.Read(buf)
	assert.Equal(t, uint64(2), fs.lastOffset)
}

func TestReadWithNoSourceProducesSilence(t *testing.T) {
	op := &OtoPlayer{}
	buf := make([]byte, 16)
	for i := range buf {
		buf[i] = 0xFF
	}

	n, err := op.Read(buf)

	assert.NoError(t, err)
	assert.Equal(t, len(buf), n)
	for _, b := range buf {
		assert.Equal(t, byte(0), b)
	}
}

func TestStartStopCloseWithoutPlayerIsSafe(t *testing.T) {
	op := &OtoPlayer{}
	assert.False(t, op.IsStarted())
	op.Start() // no player attached, must not panic
	assert.False(t, op.IsStarted())
	op.Stop()
	op.Close()
}
