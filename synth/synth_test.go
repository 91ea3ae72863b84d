package synth

import (
	"testing"

	tahti "github.com/jkataja/tahti"
	"gitlab.com/gomidi/midi/v2"
)

func render(t *testing.T, s *Synth, frames int) tahti.AudioBuffer {
	t.Helper()
	buf := make(tahti.AudioBuffer, frames)
	if err := s.Render(buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	return buf
}

func peak(buf tahti.AudioBuffer) float32 {
	var p float32
	for _, frame := range buf {
		for _, sample := range frame {
			if sample > p {
				p = sample
			}
			if -sample > p {
				p = -sample
			}
		}
	}
	return p
}

func TestNoteOnProducesSound(t *testing.T) {
	s := New(44100)
	if p := peak(render(t, s, 512)); p != 0 {
		t.Fatalf("silent synth produced output, peak %v", p)
	}
	s.Send(midi.NoteOn(0, 69, 127))
	if p := peak(render(t, s, 512)); p == 0 {
		t.Fatal("note on produced no output")
	}
	s.Silence()
	if p := peak(render(t, s, 512)); p != 0 {
		t.Fatalf("output after silence, peak %v", p)
	}
}

func TestNoteOffReleasesVoice(t *testing.T) {
	s := New(44100)
	s.Send(midi.NoteOn(0, 60, 100))
	render(t, s, 512)
	s.Send(midi.NoteOff(0, 60))
	// after a couple of release time constants the voice should have decayed
	// to inaudible and stopped rendering
	for i := 0; i < 100; i++ {
		render(t, s, 512)
	}
	if p := peak(render(t, s, 512)); p > 1e-3 {
		t.Fatalf("voice still sounding %v after release", p)
	}
}

func TestVoiceStealingPrefersReleasedVoices(t *testing.T) {
	s := New(44100)
	for key := byte(0); key < numVoices; key++ {
		s.Send(midi.NoteOn(0, key, 100))
	}
	s.Send(midi.NoteOff(0, 3))
	s.Send(midi.NoteOn(0, 100, 100))
	sounding := 0
	for i := range s.voices {
		if s.voices[i].key == 3 && s.voices[i].sustain {
			t.Error("released voice was not stolen")
		}
		if s.voices[i].key == 100 && s.voices[i].sustain {
			sounding++
		}
	}
	if sounding != 1 {
		t.Errorf("found %d voices for the new note, expected 1", sounding)
	}
}

func TestVoiceStealingStealsOldest(t *testing.T) {
	s := New(44100)
	for key := byte(0); key < numVoices; key++ {
		s.Send(midi.NoteOn(0, key, 100))
		render(t, s, 16) // age the voice
	}
	s.Send(midi.NoteOn(0, 100, 100))
	for i := range s.voices {
		if s.voices[i].key == 0 && s.voices[i].channel == 0 && s.voices[i].sustain {
			t.Error("the oldest voice was not the one stolen")
		}
	}
}

func TestChannelVolume(t *testing.T) {
	s := New(44100)
	s.Send(midi.NoteOn(0, 69, 127))
	loud := peak(render(t, s, 2048))
	s.Send(midi.ControlChange(0, 7, 16))
	quiet := peak(render(t, s, 2048))
	if quiet >= loud {
		t.Errorf("volume control had no effect: %v >= %v", quiet, loud)
	}
}

func TestPercussionChannelRendersNoise(t *testing.T) {
	s := New(44100)
	s.Send(midi.NoteOn(9, 35, 127))
	for i := range s.voices {
		if s.voices[i].sustain && s.voices[i].waveform != waveNoise {
			t.Errorf("percussion voice waveform = %v, expected noise", s.voices[i].waveform)
		}
	}
}
