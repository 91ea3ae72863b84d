// Package synth implements the built-in software synthesizer: a small
// polyphonic subtractive synth, good enough to audition a MIDI file when no
// hardware synthesizer is connected.
package synth

import (
	"math"
	"sync"

	tahti "github.com/jkataja/tahti"
	"github.com/viterin/vek/vek32"
	"gitlab.com/gomidi/midi/v2"
)

const (
	numVoices   = 32
	numChannels = 16

	attackTime  = 0.005 // seconds
	releaseTime = 0.2   // seconds
)

type (
	// Synth renders audio for the channel messages sent to it. Send is called
	// by the sequencer goroutine and Render by the audio goroutine, so all the
	// state is guarded by a mutex.
	Synth struct {
		mu         sync.Mutex
		sampleRate float32
		voices     [numVoices]voice
		channels   [numChannels]channel

		tmp []float32
		mix []float32
	}

	voice struct {
		channel byte
		key     byte
		sustain bool
		age     int // samples since the last trigger or release

		phase    float32
		level    float32
		gain     float32
		waveform waveform
	}

	channel struct {
		program byte
		volume  float32 // CC 7, scaled to 0..1
		bend    float32 // pitch bend in semitones
	}

	waveform int
)

const (
	waveSine waveform = iota
	waveTriangle
	waveSawtooth
	waveSquare
	waveNoise
)

func New(sampleRate int) *Synth {
	s := &Synth{sampleRate: float32(sampleRate)}
	for c := range s.channels {
		s.channels[c].volume = 100.0 / 127
	}
	return s
}

// Send implements the handling of a single channel message. Unsupported
// messages are ignored without error.
func (s *Synth) Send(msg midi.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ch, key, velocity, controller, value, program uint8
	var bendRel int16
	var bendAbs uint16
	switch {
	case msg.GetNoteStart(&ch, &key, &velocity):
		s.trigger(ch, key, velocity)
	case msg.GetNoteEnd(&ch, &key):
		s.release(ch, key)
	case msg.GetProgramChange(&ch, &program):
		s.channels[ch].program = program
	case msg.GetControlChange(&ch, &controller, &value):
		switch controller {
		case 7:
			s.channels[ch].volume = float32(value) / 127
		case 120, 123: // all sound off, all notes off
			s.silence()
		}
	case msg.GetPitchBend(&ch, &bendRel, &bendAbs):
		s.channels[ch].bend = 2 * float32(bendRel) / 8192
	}
	return nil
}

// Silence cuts all the voices, bypassing their release envelopes.
func (s *Synth) Silence() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.silence()
}

func (s *Synth) silence() {
	for i := range s.voices {
		s.voices[i].sustain = false
		s.voices[i].level = 0
	}
}

func (s *Synth) String() string { return "Built-in synthesizer" }

func (s *Synth) Close() error {
	s.Silence()
	return nil
}

// trigger starts a voice for the note. If the voice has been released, then
// we prefer to trigger that over a voice that is still playing; in case two
// voices are both playing or both are released, we prefer the older one.
func (s *Synth) trigger(ch, key, velocity byte) {
	var age int = 0
	oldestReleased := false
	oldestVoice := 0
	for i := range s.voices {
		if (!s.voices[i].sustain && !oldestReleased) ||
			(!s.voices[i].sustain == oldestReleased && s.voices[i].age >= age) {
			oldestVoice = i
			oldestReleased = !s.voices[i].sustain
			age = s.voices[i].age
		}
	}
	s.voices[oldestVoice] = voice{
		channel:  ch,
		key:      key,
		sustain:  true,
		gain:     float32(velocity) / 127,
		waveform: waveformFor(ch, s.channels[ch].program),
	}
}

func (s *Synth) release(ch, key byte) {
	for i := range s.voices {
		if s.voices[i].channel == ch && s.voices[i].key == key && s.voices[i].sustain {
			s.voices[i].sustain = false
			s.voices[i].age = 0
			return
		}
	}
}

// waveformFor maps a General MIDI program to one of the basic waveforms.
// Channel 10 is percussion and always renders noise.
func waveformFor(ch, program byte) waveform {
	if ch == 9 {
		return waveNoise
	}
	switch {
	case program < 32: // pianos, chromatic percussion, organs, guitars
		return waveTriangle
	case program < 40: // basses
		return waveSquare
	case program < 80: // strings, ensembles, brass, reeds, pipes
		return waveSawtooth
	default:
		return waveSine
	}
}

// Render fills buf with the mix of all sounding voices. It is the audio
// callback, so it must not block for long; the mutex is only ever held for
// short stretches.
func (s *Synth) Render(buf tahti.AudioBuffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.mix) < len(buf) {
		s.mix = make([]float32, len(buf))
		s.tmp = make([]float32, len(buf))
	}
	mix := vek32.Zeros_Into(s.mix, len(buf))
	attack := 1 / (attackTime * s.sampleRate)
	release := float32(math.Exp(-1 / float64(releaseTime*s.sampleRate)))
	for i := range s.voices {
		v := &s.voices[i]
		if !v.sustain && v.level < 1e-4 {
			v.age += len(buf)
			continue
		}
		step := noteFreq(float32(v.key)+s.channels[v.channel].bend) / s.sampleRate
		tmp := s.tmp[:len(buf)]
		for j := range tmp {
			tmp[j] = v.waveform.sample(v.phase) * v.level
			v.phase += step
			if v.phase >= 1 {
				v.phase -= 1
			}
			if v.sustain {
				v.level = min(v.level+attack, 1)
			} else {
				v.level *= release
			}
		}
		vek32.MulNumber_Inplace(tmp, v.gain*s.channels[v.channel].volume*0.1)
		vek32.Add_Inplace(mix, tmp)
		v.age += len(buf)
	}
	for i := range buf {
		buf[i][0] = mix[i]
		buf[i][1] = mix[i]
	}
	return nil
}

func (w waveform) sample(phase float32) float32 {
	switch w {
	case waveSine:
		return float32(math.Sin(2 * math.Pi * float64(phase)))
	case waveTriangle:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	case waveSawtooth:
		return 2*phase - 1
	case waveSquare:
		if phase < 0.5 {
			return 1
		}
		return -1
	case waveNoise:
		return noise()
	}
	return 0
}

var noiseState uint32 = 1

// xorshift, fine for percussion noise
func noise() float32 {
	noiseState ^= noiseState << 13
	noiseState ^= noiseState >> 17
	noiseState ^= noiseState << 5
	return float32(int32(noiseState)) / math.MaxInt32 * 0.5
}

// noteFreq returns the frequency of a MIDI key number, A4 (key 69) = 440 Hz.
func noteFreq(key float32) float32 {
	return 440 * float32(math.Exp2(float64(key-69)/12))
}
