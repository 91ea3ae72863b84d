package synth

import (
	"fmt"
	"io"

	tahti "github.com/jkataja/tahti"
	"gitlab.com/gomidi/midi/v2"
)

// Device makes the built-in synthesizer selectable alongside the MIDI output
// ports. Opening it starts pulling audio from a new Synth through the audio
// context; closing the returned synthesizer stops the audio again.
type Device struct {
	Audio      tahti.AudioContext
	SampleRate int
}

func (d Device) Open() (tahti.Synthesizer, error) {
	if d.Audio == nil {
		return nil, fmt.Errorf("no audio context")
	}
	s := New(d.SampleRate)
	closer := d.Audio.Play(s.Render)
	return &playingSynth{synth: s, closer: closer}, nil
}

func (d Device) String() string { return "Built-in synthesizer" }

type playingSynth struct {
	synth  *Synth
	closer io.Closer
}

func (p *playingSynth) Send(msg midi.Message) error { return p.synth.Send(msg) }
func (p *playingSynth) Silence()                    { p.synth.Silence() }
func (p *playingSynth) String() string              { return p.synth.String() }

func (p *playingSynth) Close() error {
	p.synth.Silence()
	return p.closer.Close()
}
