package player

import (
	"fmt"
	"time"

	tahti "github.com/jkataja/tahti"
	"gitlab.com/gomidi/midi/v2"
)

type (
	// Sequencer is the playback engine of the player, run in a separate
	// goroutine. It is controlled by messages from the model through the
	// broker; a 100 ms ticker advances the playback clock, dispatches the due
	// events of the sequence to the synthesizer and reports the position back
	// to the model.
	Sequencer struct {
		synth    tahti.Synthesizer
		sequence *tahti.Sequence
		playing  bool
		position time.Duration
		index    int // index of the next event to dispatch
		lastTick time.Time
		held     map[heldNote]bool

		now    func() time.Time // replaceable for tests
		broker *Broker
	}

	// SequencerStatus is the status report pushed to the model on every tick.
	SequencerStatus struct {
		Playing  bool
		Position time.Duration
		Duration time.Duration
	}

	// StartPlayMsg starts or resumes playback from the current position. If
	// the position is at the end of the sequence, playback restarts from the
	// beginning.
	StartPlayMsg struct{}

	// PausePlayMsg halts playback, keeping the position.
	PausePlayMsg struct{}

	// StopPlayMsg halts playback and resets the position to zero.
	StopPlayMsg struct{}

	// SeekMsg moves the playback position. The zero value seeks to the start.
	SeekMsg struct{ Position time.Duration }

	// SetSynthMsg rebinds the sequencer to a new synthesizer handle. The zero
	// value unbinds, gating playback until the next device is opened.
	SetSynthMsg struct{ Synth tahti.Synthesizer }

	heldNote struct{ channel, key uint8 }
)

const statusTickInterval = 100 * time.Millisecond

func NewSequencer(broker *Broker) *Sequencer {
	return &Sequencer{
		held:   make(map[heldNote]bool),
		now:    time.Now,
		broker: broker,
	}
}

// Run processes messages and ticks until the broker asks the sequencer to
// close. Run never returns on its own; it is the main loop of the sequencer
// goroutine.
func (s *Sequencer) Run() {
	ticker := time.NewTicker(statusTickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.broker.CloseSequencer:
			s.silence()
			close(s.broker.FinishedSequencer)
			return
		case msg := <-s.broker.ToSequencer:
			s.ProcessMsg(msg)
		case <-ticker.C:
			s.Tick(s.now())
		}
	}
}

// ProcessMsg handles a single message from the model.
func (s *Sequencer) ProcessMsg(msg any) {
	switch m := msg.(type) {
	case StartPlayMsg:
		if s.synth == nil || s.sequence == nil {
			return
		}
		if s.position >= s.sequence.Duration() {
			s.position = 0
			s.index = 0
		}
		s.playing = true
		s.lastTick = s.now()
	case PausePlayMsg:
		s.playing = false
		s.silence()
	case StopPlayMsg:
		s.playing = false
		s.silence()
		s.position = 0
		s.index = 0
	case SeekMsg:
		s.seek(m.Position)
	case SetSynthMsg:
		if s.synth != nil {
			s.silence()
		}
		s.synth = m.Synth
		if s.synth == nil {
			s.playing = false
		}
	case *tahti.Sequence:
		s.silence()
		s.sequence = m
		s.playing = false
		s.position = 0
		s.index = 0
	default:
		// ignore unknown messages
	}
	s.sendStatus()
}

// Tick advances the playback clock to t and dispatches all events that became
// due. Called by Run every 100 ms; tests call it directly with a fake clock.
func (s *Sequencer) Tick(t time.Time) {
	if s.playing && s.synth != nil && s.sequence != nil {
		s.position += t.Sub(s.lastTick)
		s.dispatch()
		if s.position >= s.sequence.Duration() {
			s.position = s.sequence.Duration()
			s.playing = false
			s.silence()
		}
	}
	s.lastTick = t
	s.sendStatus()
}

// dispatch sends all events up to the current position to the synthesizer.
func (s *Sequencer) dispatch() {
	for s.index < len(s.sequence.Events) && s.sequence.Events[s.index].When <= s.position {
		msg := s.sequence.Events[s.index].Msg
		s.index++
		var channel, key, velocity uint8
		if msg.GetNoteStart(&channel, &key, &velocity) {
			s.held[heldNote{channel, key}] = true
		} else if msg.GetNoteEnd(&channel, &key) {
			delete(s.held, heldNote{channel, key})
		}
		if err := s.synth.Send(msg); err != nil {
			s.sendAlert("SequencerSend", fmt.Sprintf("synth.Send: %v", err), Error)
		}
	}
}

// seek moves the position, releasing held notes and chasing the non-note
// state (program changes, control changes, pitch bends) from the start of the
// sequence so the instruments sound right after the jump.
func (s *Sequencer) seek(to time.Duration) {
	if s.sequence == nil {
		return
	}
	if to < 0 {
		to = 0
	}
	if d := s.sequence.Duration(); to > d {
		to = d
	}
	s.silence()
	s.position = to
	s.index = s.sequence.IndexAt(to)
	if s.synth == nil {
		return
	}
	for _, ev := range s.sequence.Events[:s.index] {
		var channel, program, controller, value uint8
		var bendRel int16
		var bendAbs uint16
		chase := ev.Msg.GetProgramChange(&channel, &program) ||
			ev.Msg.GetControlChange(&channel, &controller, &value) ||
			ev.Msg.GetPitchBend(&channel, &bendRel, &bendAbs)
		if !chase {
			continue
		}
		if err := s.synth.Send(ev.Msg); err != nil {
			s.sendAlert("SequencerSend", fmt.Sprintf("synth.Send: %v", err), Error)
			return
		}
	}
}

// silence releases all notes the sequencer has triggered and tells the synth
// to quiet down everything else, too.
func (s *Sequencer) silence() {
	if s.synth == nil {
		clear(s.held)
		return
	}
	for n := range s.held {
		if err := s.synth.Send(midi.NoteOff(n.channel, n.key)); err != nil {
			break
		}
	}
	clear(s.held)
	s.synth.Silence()
}

func (s *Sequencer) sendAlert(name, message string, priority AlertPriority) {
	TrySend(s.broker.ToModel, MsgToModel{Data: Alert{
		Name:     name,
		Priority: priority,
		Message:  message,
		Duration: defaultAlertDuration,
	}})
}

// all sends from the sequencer are non-blocking, so the sequencer goroutine
// can never deadlock with the GUI
func (s *Sequencer) sendStatus() {
	TrySend(s.broker.ToModel, MsgToModel{
		HasStatus: true,
		Status: SequencerStatus{
			Playing:  s.playing,
			Position: s.position,
			Duration: s.sequence.Duration(),
		},
	})
}
