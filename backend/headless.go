//go:build headless

package backend

// OtoPlayer is a no-op stand-in used for headless builds (CI, fuzzing,
// plugin hosts that never want a live device opened).
type OtoPlayer struct {
	started bool
	source  Source
}

func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	return &OtoPlayer{}, nil
}

func (op *OtoPlayer) SetupPlayer(source Source) {
	op.source = source
}

func (op *OtoPlayer) Start() { op.started = true }
func (op *OtoPlayer) Stop()  { op.started = false }
func (op *OtoPlayer) Close() { op.started = false }

func (op *OtoPlayer) IsStarted() bool {
	return op.started
}
