package tahti

import (
	"io"

	"gitlab.com/gomidi/midi/v2"
)

type (
	// AudioBuffer is a buffer of stereo audio samples of the format [][2]float32,
	// where [0] is the left channel and [1] is the right channel.
	AudioBuffer [][2]float32

	// AudioContext represents the low-level audio drivers. There should be at
	// most one AudioContext at a time.
	AudioContext interface {
		// Play continuously plays the audio by calling the callback to fill the
		// buffer with samples. The returned io.Closer stops the playback when
		// closed.
		Play(callback func(buf AudioBuffer) error) io.Closer
		Close() error
	}

	// Synthesizer is something capable of consuming MIDI messages and making
	// sound out of them: either a hardware/OS MIDI output port, or the built-in
	// software synth. A Synthesizer is not assumed to be safe for concurrent
	// use; the sequencer goroutine owns the handle it is given.
	Synthesizer interface {
		// Send sends a single channel message (note on/off, program change,
		// control change etc.) to the synthesizer.
		Send(msg midi.Message) error

		// Silence releases all sounding notes, on every channel.
		Silence()

		// String returns a human-readable name for the synthesizer, shown in
		// the device selector.
		String() string

		Close() error
	}
)
