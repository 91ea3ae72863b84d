package player

import (
	"bytes"
	"testing"
	"time"

	tahti "github.com/jkataja/tahti"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type recorderSynth struct {
	msgs     []midi.Message
	silenced int
	closed   bool
}

func (r *recorderSynth) Send(msg midi.Message) error { r.msgs = append(r.msgs, msg); return nil }
func (r *recorderSynth) Silence()                    { r.silenced++ }
func (r *recorderSynth) String() string              { return "recorder" }
func (r *recorderSynth) Close() error                { r.closed = true; return nil }

func (r *recorderSynth) countNoteOns() (count int) {
	var channel, key, velocity uint8
	for _, msg := range r.msgs {
		if msg.GetNoteStart(&channel, &key, &velocity) {
			count++
		}
	}
	return
}

func (r *recorderSynth) countNoteOffs() (count int) {
	var channel, key uint8
	for _, msg := range r.msgs {
		if msg.GetNoteEnd(&channel, &key) {
			count++
		}
	}
	return
}

// testSequence builds a one second sequence at 120 BPM: a program change and
// two consecutive half second notes.
func testSequence(t *testing.T) *tahti.Sequence {
	t.Helper()
	sm := smf.New()
	var track smf.Track
	track.Add(0, smf.MetaTempo(120))
	track.Add(0, midi.ProgramChange(0, 42))
	track.Add(0, midi.NoteOn(0, 60, 100))
	track.Add(960, midi.NoteOff(0, 60))
	track.Add(0, midi.NoteOn(0, 62, 100))
	track.Add(960, midi.NoteOff(0, 62))
	track.Close(0)
	sm.Add(track)
	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		t.Fatalf("writing test sequence: %v", err)
	}
	seq, err := tahti.ReadSequence(&buf)
	if err != nil {
		t.Fatalf("reading test sequence: %v", err)
	}
	if seq.Duration() != time.Second {
		t.Fatalf("test sequence duration = %v, expected 1s", seq.Duration())
	}
	return seq
}

func newTestSequencer(now *time.Time) (*Sequencer, *recorderSynth) {
	s := NewSequencer(NewBroker())
	s.now = func() time.Time { return *now }
	synth := &recorderSynth{}
	s.ProcessMsg(SetSynthMsg{Synth: synth})
	return s, synth
}

func TestPlayRequiresSynthAndSequence(t *testing.T) {
	now := time.Now()
	s := NewSequencer(NewBroker())
	s.now = func() time.Time { return now }
	s.ProcessMsg(StartPlayMsg{})
	if s.playing {
		t.Fatal("sequencer started playing without a synth or a sequence")
	}
	s.ProcessMsg(testSequence(t))
	s.ProcessMsg(StartPlayMsg{})
	if s.playing {
		t.Fatal("sequencer started playing without a synth")
	}
	s.ProcessMsg(SetSynthMsg{Synth: &recorderSynth{}})
	s.ProcessMsg(StartPlayMsg{})
	if !s.playing {
		t.Fatal("sequencer did not start playing with a synth and a sequence")
	}
}

func TestTickDispatchesDueEvents(t *testing.T) {
	now := time.Now()
	s, synth := newTestSequencer(&now)
	s.ProcessMsg(testSequence(t))
	s.ProcessMsg(StartPlayMsg{})

	now = now.Add(100 * time.Millisecond)
	s.Tick(now)
	if s.position != 100*time.Millisecond {
		t.Errorf("position = %v, expected 100ms", s.position)
	}
	if got := synth.countNoteOns(); got != 1 {
		t.Errorf("note ons = %d, expected 1", got)
	}

	now = now.Add(500 * time.Millisecond)
	s.Tick(now)
	if got := synth.countNoteOns(); got != 2 {
		t.Errorf("note ons = %d, expected 2", got)
	}
	if got := synth.countNoteOffs(); got != 1 {
		t.Errorf("note offs = %d, expected 1", got)
	}
}

func TestPauseKeepsPositionAndStopRewinds(t *testing.T) {
	now := time.Now()
	s, synth := newTestSequencer(&now)
	s.ProcessMsg(testSequence(t))
	s.ProcessMsg(StartPlayMsg{})
	now = now.Add(300 * time.Millisecond)
	s.Tick(now)

	s.ProcessMsg(PausePlayMsg{})
	if s.playing {
		t.Fatal("still playing after pause")
	}
	if s.position != 300*time.Millisecond {
		t.Errorf("pause moved the position to %v", s.position)
	}
	if synth.countNoteOffs() == 0 {
		t.Error("pause did not release the held note")
	}
	if synth.silenced == 0 {
		t.Error("pause did not silence the synth")
	}

	// stopping while paused still rewinds
	s.ProcessMsg(StopPlayMsg{})
	if s.playing {
		t.Fatal("playing after stop")
	}
	if s.position != 0 {
		t.Errorf("position = %v after stop, expected 0", s.position)
	}
}

func TestPlaybackStopsAtEndAndRestartsFromBeginning(t *testing.T) {
	now := time.Now()
	s, synth := newTestSequencer(&now)
	s.ProcessMsg(testSequence(t))
	s.ProcessMsg(StartPlayMsg{})
	now = now.Add(1500 * time.Millisecond)
	s.Tick(now)
	if s.playing {
		t.Fatal("still playing after the end of the sequence")
	}
	if s.position != time.Second {
		t.Errorf("position = %v, expected to park at 1s", s.position)
	}
	if got := synth.countNoteOns(); got != 2 {
		t.Errorf("note ons = %d, expected 2", got)
	}

	s.ProcessMsg(StartPlayMsg{})
	if s.position != 0 {
		t.Errorf("position = %v, expected to restart from 0", s.position)
	}
	if !s.playing {
		t.Fatal("did not restart playing from the end")
	}
}

func TestSeekChasesNonNoteState(t *testing.T) {
	now := time.Now()
	s, synth := newTestSequencer(&now)
	s.ProcessMsg(testSequence(t))
	s.ProcessMsg(SeekMsg{Position: 700 * time.Millisecond})
	if s.position != 700*time.Millisecond {
		t.Errorf("position = %v, expected 700ms", s.position)
	}
	var channel, program uint8
	found := false
	for _, msg := range synth.msgs {
		if msg.GetProgramChange(&channel, &program) {
			found = true
		}
	}
	if !found {
		t.Error("seek did not chase the program change")
	}
	if got := synth.countNoteOns(); got != 0 {
		t.Errorf("seek sent %d note ons", got)
	}

	// seeking past the end clamps to the duration
	s.ProcessMsg(SeekMsg{Position: time.Hour})
	if s.position != time.Second {
		t.Errorf("position = %v, expected to clamp to 1s", s.position)
	}
}

func TestUnbindingSynthHaltsPlayback(t *testing.T) {
	now := time.Now()
	s, _ := newTestSequencer(&now)
	s.ProcessMsg(testSequence(t))
	s.ProcessMsg(StartPlayMsg{})
	s.ProcessMsg(SetSynthMsg{})
	if s.playing {
		t.Fatal("still playing after the synth was unbound")
	}
	now = now.Add(100 * time.Millisecond)
	s.Tick(now) // must not panic with a nil synth
}

func TestStatusIsReportedToModel(t *testing.T) {
	now := time.Now()
	s, _ := newTestSequencer(&now)
	s.ProcessMsg(testSequence(t))
	s.ProcessMsg(StartPlayMsg{})
	now = now.Add(250 * time.Millisecond)
	s.Tick(now)
	var last SequencerStatus
	for {
		msg, ok := TimeoutReceive(s.broker.ToModel, 10*time.Millisecond)
		if !ok {
			break
		}
		if msg.HasStatus {
			last = msg.Status
		}
	}
	if !last.Playing {
		t.Error("status does not report playing")
	}
	if last.Position != 250*time.Millisecond {
		t.Errorf("status position = %v, expected 250ms", last.Position)
	}
	if last.Duration != time.Second {
		t.Errorf("status duration = %v, expected 1s", last.Duration)
	}
}
