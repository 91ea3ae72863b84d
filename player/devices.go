package player

import (
	"fmt"

	tahti "github.com/jkataja/tahti"
)

type DevicesModel Model

func (m *Model) Devices() *DevicesModel { return (*DevicesModel)(m) }

type (
	// SynthDevice is something that can be opened into a Synthesizer: the
	// built-in softsynth, or a MIDI output port.
	SynthDevice interface {
		Open() (tahti.Synthesizer, error)
		String() string
	}

	// MIDIContext enumerates the MIDI output ports of the OS as SynthDevices.
	// Refresh invalidates any cached port list, so the next Outputs call
	// re-enumerates the ports.
	MIDIContext interface {
		Outputs(yield func(device SynthDevice) bool)
		Refresh()
		Close()
		Support() MIDISupport
	}

	MIDISupport int
)

const (
	MIDISupportNotCompiled MIDISupport = iota
	MIDISupportNoDriver
	MIDISupported
)

// Select returns an Int for the index of the selected synthesizer device, or
// -1 when none has been selected yet. At most one device is open at a time:
// setting the value closes the current device before opening the new one. If
// opening fails, no device is left open and the transport stays gated.
func (m *DevicesModel) Select() Int { return MakeInt((*deviceSelect)(m)) }

type deviceSelect DevicesModel

func (m *deviceSelect) Value() int            { return m.synthIndex }
func (m *deviceSelect) Range() RangeInclusive { return RangeInclusive{0, len(m.devices) - 1} }
func (m *deviceSelect) SetValue(val int) bool {
	if val < 0 || val >= len(m.devices) {
		return false
	}
	if m.synth != nil {
		if err := m.synth.Close(); err != nil {
			(*Model)(m).Alerts().Add(fmt.Sprintf("Failed to close synthesizer: %s", err.Error()), Error)
		}
		m.synth = nil
	}
	synth, err := m.devices[val].Open()
	if err != nil {
		// back to "nothing selected" so selecting this device again retries
		// the open
		m.synthIndex = -1
		TrySend(m.broker.ToSequencer, any(SetSynthMsg{}))
		(*Model)(m).Alerts().Add(fmt.Sprintf("Failed to open synthesizer: %s", err.Error()), Error)
		return false
	}
	m.synthIndex = val
	m.synth = synth
	TrySend(m.broker.ToSequencer, any(SetSynthMsg{Synth: synth}))
	(*Model)(m).Alerts().Add(fmt.Sprintf("Opened synthesizer: %s", synth.String()), Info)
	return true
}
func (m *deviceSelect) StringOf(val int) string {
	if val < 0 || val >= len(m.devices) {
		return ""
	}
	return m.devices[val].String()
}

// Current returns the name of the open synthesizer, or an explanation why
// none is open.
func (m *DevicesModel) Current() string {
	if m.synth != nil {
		return m.synth.String()
	}
	switch m.midi.Support() {
	case MIDISupportNotCompiled:
		return "No synthesizer (MIDI not compiled)"
	case MIDISupportNoDriver:
		return "No synthesizer (no MIDI driver)"
	}
	return "No synthesizer"
}

// Refresh returns an Action to re-enumerate the MIDI output ports. Built-in
// devices stay; if the open device disappeared from the OS, it is closed.
func (m *DevicesModel) Refresh() Action { return MakeAction((*devicesRefresh)(m)) }

type devicesRefresh DevicesModel

func (m *devicesRefresh) Do() {
	m.midi.Refresh()
	m.devices = m.devices[:m.numBuiltin]
	found := -1
	for d := range m.midi.Outputs {
		m.devices = append(m.devices, d)
		if m.synth != nil && found < 0 && d.String() == m.synth.String() {
			found = len(m.devices) - 1
		}
	}
	if m.synth != nil && m.synthIndex >= m.numBuiltin {
		if found < 0 {
			m.synth.Close()
			m.synth = nil
			m.synthIndex = -1
			TrySend(m.broker.ToSequencer, any(SetSynthMsg{}))
			(*Model)(m).Alerts().Add("Synthesizer device disappeared", Warning)
		} else {
			// the port may have moved in the enumeration order, so the
			// selection has to follow it
			m.synthIndex = found
		}
	}
	if m.synthIndex >= len(m.devices) {
		m.synthIndex = -1
	}
}

// NullMIDIContext is a mockup MIDIContext if you don't want to create a real
// one.
type NullMIDIContext struct{}

func (m NullMIDIContext) Outputs(yield func(device SynthDevice) bool) {}
func (m NullMIDIContext) Refresh()                                    {}
func (m NullMIDIContext) Close()                                      {}
func (m NullMIDIContext) Support() MIDISupport                        { return MIDISupportNotCompiled }
