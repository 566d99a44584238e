// Package backend adapts engine.AudioState to a live PCM output device.
// It is demo plumbing, not part of the synthesis core: a plugin host
// calls AudioState.ProcessBuffer directly and never touches this package.
package backend

// Player is the common control surface across output backends.
type Player interface {
	Start()
	Stop()
	Close()
	IsStarted() bool
}

// Source supplies interleaved-ready stereo blocks on demand. engine.AudioState
// satisfies this directly.
type Source interface {
	ProcessBuffer(left, right []float32, frameOffset uint64)
}
