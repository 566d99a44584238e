// fmcore-demo drives the synthesis core with a scripted note sequence and
// plays it through the default audio device (or silently, under the
// headless build tag). It exists to exercise engine.AudioState end to end;
// hosts embed the engine package directly and never need this binary.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/fourop/fmcore/backend"
	"github.com/fourop/fmcore/engine"
	"github.com/fourop/fmcore/midi"
)

// majorScale is semitone offsets from the root, one octave.
var majorScale = []int{0, 2, 4, 5, 7, 9, 11, 12}

func main() {
	var (
		sampleRate  = pflag.IntP("sample-rate", "r", 48000, "Output sample rate in Hz.")
		rootNote    = pflag.IntP("root", "n", 60, "MIDI key number of the scale root (60 = middle C).")
		noteSeconds = pflag.Float64P("note-duration", "d", 0.35, "Seconds each note is held before key-off.")
		velocity    = pflag.IntP("velocity", "v", 100, "Note-on velocity, 1-127.")
		help        = pflag.BoolP("help", "h", false, "Display help text.")
	)

	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s - plays a major scale through the fmcore synthesis engine.\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nUsage: %s [options]\n\n", os.Args[0])
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "fmcore-demo",
	})

	state := engine.NewAudioState(float64(*sampleRate))
	state.Logger = logger

	player, err := backend.NewOtoPlayer(*sampleRate)
	if err != nil {
		logger.Fatal("failed to open audio device", "err", err)
	}
	player.SetupPlayer(state)
	player.Start()
	defer player.Close()

	logger.Info("playing scale", "root", *rootNote, "sampleRate", *sampleRate, "noteDuration", *noteSeconds)

	for _, offset := range majorScale {
		key := byte(*rootNote + offset)
		logger.Info("note on", "key", key)
		state.EnqueueNoteEvent(midi.Timed{Event: midi.Event{
			Kind: midi.KindMidiRaw, Status: 0x90, Data1: key, Data2: byte(*velocity),
		}})

		time.Sleep(time.Duration(*noteSeconds * float64(time.Second)))

		state.EnqueueNoteEvent(midi.Timed{Event: midi.Event{
			Kind: midi.KindMidiRaw, Status: 0x80, Data1: key,
		}})
	}

	// let the last note's release tail play out before closing the device
	time.Sleep(400 * time.Millisecond)
}
