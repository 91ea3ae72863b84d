package player

import (
	tahti "github.com/jkataja/tahti"
)

// Model implements the mutable state for the player GUI. It is owned by the
// GUI goroutine, while the sequencer goroutine owns the playback clock; they
// communicate through the broker channels.
type (
	// modelData is the part of the model that is just plain data, without any
	// bookkeeping attached to changing it.
	modelData struct {
		FilePath string
	}

	Model struct {
		d modelData

		sequence *tahti.Sequence
		status   SequencerStatus
		playing  bool

		synth      tahti.Synthesizer
		synthIndex int
		devices    []SynthDevice
		numBuiltin int
		midi       MIDIContext

		alerts  []Alert
		dialog  Dialog
		quitted bool

		broker *Broker
	}

	Dialog int
)

const (
	NoDialog Dialog = iota
	OpenSequenceExplorer
)

// NewModel creates a model with the given synthesizer devices available. The
// builtin devices are listed before the MIDI output ports of the midiContext.
// No device is opened yet; the selection index is -1 so that opening the
// first device with Devices().Select().SetValue(0) is seen as a change.
func NewModel(broker *Broker, midiContext MIDIContext, builtin ...SynthDevice) *Model {
	m := &Model{
		broker:     broker,
		midi:       midiContext,
		synthIndex: -1,
	}
	m.devices = append(m.devices, builtin...)
	m.numBuiltin = len(m.devices)
	for d := range midiContext.Outputs {
		m.devices = append(m.devices, d)
	}
	return m
}

func (m *Model) Broker() *Broker { return m.broker }
func (m *Model) Dialog() Dialog  { return m.dialog }
func (m *Model) Quitted() bool   { return m.quitted }

// ProcessMsg processes a message received from the broker, in the GUI
// goroutine.
func (m *Model) ProcessMsg(msg MsgToModel) {
	if msg.HasStatus {
		m.status = msg.Status
		m.playing = msg.Status.Playing
	}
	switch e := msg.Data.(type) {
	case func():
		e()
	case Alert:
		m.Alerts().AddAlert(e)
	}
}

// Ready returns whether transport operations are allowed: a synthesizer
// device must be open and a sequence loaded.
func (m *Model) Ready() bool {
	return m.synth != nil && m.sequence != nil
}

// FilePath returns the path of the last successfully loaded file.
func (m *Model) FilePath() String { return MakeString((*filePath)(m)) }

type filePath Model

func (v *filePath) Value() string { return v.d.FilePath }
func (v *filePath) SetValue(value string) bool {
	v.d.FilePath = value
	return true
}

// requestQuit
type requestQuit Model

func (m *Model) RequestQuit() Action { return MakeAction((*requestQuit)(m)) }
func (m *requestQuit) Do() {
	// there is nothing to save, so requesting a quit always goes through
	m.quitted = true
}

// cancel
type cancel Model

func (m *Model) Cancel() Action { return MakeAction((*cancel)(m)) }
func (m *cancel) Do()           { m.dialog = NoDialog }

// Close closes the currently open synthesizer device and the MIDI context.
// Called by the main function after the GUI loop has exited.
func (m *Model) Close() {
	if m.synth != nil {
		m.synth.Close()
		m.synth = nil
	}
	m.midi.Close()
}
