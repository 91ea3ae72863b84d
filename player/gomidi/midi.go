// Package gomidi exposes the MIDI output ports of the OS as synthesizer
// devices, using the rtmidi driver.
package gomidi

import (
	"errors"
	"fmt"

	tahti "github.com/jkataja/tahti"
	"github.com/jkataja/tahti/player"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
	"go.uber.org/zap"
)

type (
	RTMIDIContext struct {
		driver             *rtmididrv.Driver
		currentOut         drivers.Out
		outputDevices      []RTMIDIDevice
		devicesInitialized bool
		logger             *zap.Logger
	}

	RTMIDIDevice struct {
		context *RTMIDIContext
		out     drivers.Out
	}

	// RTMIDISynth is the open handle to an output port, returned by
	// RTMIDIDevice.Open. It forwards channel messages to the port.
	RTMIDISynth struct {
		device RTMIDIDevice
		send   func(msg midi.Message) error
	}
)

func NewContext(logger *zap.Logger) *RTMIDIContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := RTMIDIContext{logger: logger}
	// there's not much we can do if this fails, so just use m.driver = nil to
	// indicate no driver available
	m.driver, _ = rtmididrv.New()
	if m.driver == nil {
		m.logger.Warn("rtmidi driver unavailable")
	}
	return &m
}

func (m *RTMIDIContext) Outputs(yield func(device player.SynthDevice) bool) {
	if m.devicesInitialized {
		m.yieldCachedOutputDevices(yield)
	} else {
		m.initOutputDevices(yield)
	}
}

func (m *RTMIDIContext) yieldCachedOutputDevices(yield func(device player.SynthDevice) bool) {
	for _, device := range m.outputDevices {
		if !yield(device) {
			break
		}
	}
}

func (m *RTMIDIContext) initOutputDevices(yield func(device player.SynthDevice) bool) {
	if m.driver == nil {
		return
	}
	outs, err := m.driver.Outs()
	if err != nil {
		m.logger.Warn("enumerating MIDI outputs failed", zap.Error(err))
		return
	}
	for i := 0; i < len(outs); i++ {
		device := RTMIDIDevice{context: m, out: outs[i]}
		m.outputDevices = append(m.outputDevices, device)
		if !yield(device) {
			break
		}
	}
	m.devicesInitialized = true
}

// Refresh drops the cached port list, so the next Outputs call re-enumerates
// the ports from the OS.
func (m *RTMIDIContext) Refresh() {
	m.outputDevices = m.outputDevices[:0]
	m.devicesInitialized = false
}

// Open an output port, closing the currently open one if necessary, so the
// context has at most one port open at a time.
func (d RTMIDIDevice) Open() (tahti.Synthesizer, error) {
	if d.context.driver == nil {
		return nil, errors.New("no driver available")
	}
	if c := d.context.currentOut; c != nil && c != d.out && c.IsOpen() {
		c.Close()
		d.context.logger.Info("closed MIDI output", zap.String("port", c.String()))
	}
	d.context.currentOut = d.out
	if err := d.out.Open(); err != nil {
		d.context.currentOut = nil
		return nil, fmt.Errorf("opening MIDI output failed: %w", err)
	}
	send, err := midi.SendTo(d.out)
	if err != nil {
		d.out.Close()
		d.context.currentOut = nil
		return nil, fmt.Errorf("creating MIDI sender failed: %w", err)
	}
	d.context.logger.Info("opened MIDI output", zap.String("port", d.out.String()))
	return &RTMIDISynth{device: d, send: send}, nil
}

func (d RTMIDIDevice) String() string {
	return d.out.String()
}

func (s *RTMIDISynth) Send(msg midi.Message) error {
	return s.send(msg)
}

// Silence sends an all-notes-off control change on every channel.
func (s *RTMIDISynth) Silence() {
	for ch := uint8(0); ch < 16; ch++ {
		if err := s.send(midi.ControlChange(ch, 123, 0)); err != nil { // CC 123 = all notes off
			return
		}
	}
}

func (s *RTMIDISynth) String() string { return s.device.out.String() }

func (s *RTMIDISynth) Close() error {
	if s.device.context.currentOut == s.device.out {
		s.device.context.currentOut = nil
	}
	if !s.device.out.IsOpen() {
		return nil
	}
	s.device.context.logger.Info("closed MIDI output", zap.String("port", s.device.out.String()))
	return s.device.out.Close()
}

func (c *RTMIDIContext) Close() {
	if c.driver == nil {
		return
	}
	if c.currentOut != nil && c.currentOut.IsOpen() {
		c.currentOut.Close()
	}
	c.driver.Close()
}

func (c *RTMIDIContext) Support() player.MIDISupport {
	if c.driver == nil {
		return player.MIDISupportNoDriver
	}
	return player.MIDISupported
}
