package player

import (
	"fmt"
	"io"
	"os"

	tahti "github.com/jkataja/tahti"
)

// OpenSequence returns an Action that asks the GUI to show the file chooser
// for standard MIDI files.
func (m *Model) OpenSequence() Action { return MakeAction((*openSequence)(m)) }

type openSequence Model

func (m *openSequence) Do() { m.dialog = OpenSequenceExplorer }

// ReadSequence decodes a MIDI file from r and makes it the current sequence.
// Loading never requires a device: the sequence is simply stored and playback
// stays gated until a synthesizer is open. On a decode error the previous
// sequence is kept.
func (m *Model) ReadSequence(r io.ReadCloser) {
	seq, err := tahti.ReadSequence(r)
	r.Close() // if we can't close the file, it's not a big deal, so ignore the error
	if err != nil {
		m.Alerts().Add(fmt.Sprintf("Error reading a MIDI file: %v", err), Error)
		return
	}
	if f, ok := r.(*os.File); ok {
		m.d.FilePath = f.Name()
	}
	m.sequence = seq
	m.playing = false
	m.status = SequencerStatus{Duration: seq.Duration()}
	TrySend(m.broker.ToSequencer, any(seq))
	m.Alerts().Add(fmt.Sprintf("Loaded %d events, %s", len(seq.Events), formatDuration(seq.Duration())), Info)
	m.dialog = NoDialog
}

// ReloadSequence returns an Action that re-reads the last loaded file path.
// Useful after switching synthesizer devices, or when the file has been
// re-exported by another program.
func (m *Model) ReloadSequence() Action { return MakeAction((*reloadSequence)(m)) }

type reloadSequence Model

func (m *reloadSequence) Enabled() bool { return m.d.FilePath != "" }
func (m *reloadSequence) Do() {
	f, err := os.Open(m.d.FilePath)
	if err != nil {
		(*Model)(m).Alerts().Add(fmt.Sprintf("Error reopening a MIDI file: %v", err), Error)
		return
	}
	(*Model)(m).ReadSequence(f)
}
