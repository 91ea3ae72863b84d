// Package oto implements the audio context of the player on top of the oto
// library, which talks to the platform audio APIs.
package oto

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ebitengine/oto/v3"
	tahti "github.com/jkataja/tahti"
)

const SampleRate = 44100

type OtoContext struct {
	context *oto.Context
}

// NewContext opens the audio device of the OS, waiting until it is ready. The
// whole process has only one audio context, so this is called once at
// startup; if it fails, there is no way to hear the built-in synthesizer and
// the caller should treat the error as fatal.
func NewContext() (*OtoContext, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	return &OtoContext{context: context}, nil
}

// Play starts pulling audio from the callback. The callback is called from
// the audio goroutine. Closing the returned closer stops the playback.
func (c *OtoContext) Play(callback func(buf tahti.AudioBuffer) error) io.Closer {
	player := c.context.NewPlayer(&callbackReader{callback: callback})
	player.Play()
	return player
}

func (c *OtoContext) Close() error {
	// oto contexts cannot be closed, only suspended
	return c.context.Suspend()
}

// callbackReader adapts the float32 frame callback into the io.Reader oto
// pulls from. oto may read any number of bytes, so partial frames are kept
// around for the next read.
type callbackReader struct {
	callback func(buf tahti.AudioBuffer) error
	frames   tahti.AudioBuffer
	encoded  []byte
	leftover []byte
}

const bytesPerFrame = 8 // two channels, four bytes each

func (r *callbackReader) Read(p []byte) (int, error) {
	total := copy(p, r.leftover)
	r.leftover = r.leftover[total:]
	p = p[total:]
	if len(p) == 0 {
		return total, nil
	}
	numFrames := (len(p) + bytesPerFrame - 1) / bytesPerFrame
	if len(r.frames) < numFrames {
		r.frames = make(tahti.AudioBuffer, numFrames)
		r.encoded = make([]byte, numFrames*bytesPerFrame)
	}
	frames := r.frames[:numFrames]
	for i := range frames {
		frames[i] = [2]float32{}
	}
	if err := r.callback(frames); err != nil {
		return total, err
	}
	encoded := r.encoded[:numFrames*bytesPerFrame]
	for i, frame := range frames {
		binary.LittleEndian.PutUint32(encoded[i*bytesPerFrame:], math.Float32bits(frame[0]))
		binary.LittleEndian.PutUint32(encoded[i*bytesPerFrame+4:], math.Float32bits(frame[1]))
	}
	n := copy(p, encoded)
	r.leftover = append(r.leftover[:0], encoded[n:]...)
	return total + n, nil
}
