package player

import (
	"fmt"
	"time"
)

// Playing returns a Bool to toggle playback. Setting it to true starts or
// resumes playback from the current position; setting it to false pauses,
// keeping the position. The toggle is a no-op until a device is open and a
// sequence is loaded.
func (m *Model) Playing() Bool { return MakeBool((*playing)(m)) }

type playing Model

func (m *playing) Value() bool   { return m.playing }
func (m *playing) Enabled() bool { return (*Model)(m).Ready() }
func (m *playing) SetValue(val bool) {
	m.playing = val
	if val {
		TrySend(m.broker.ToSequencer, any(StartPlayMsg{}))
	} else {
		TrySend(m.broker.ToSequencer, any(PausePlayMsg{}))
	}
}

// StopPlaying returns an Action to halt playback and reset the position to
// zero. Stopping also rewinds when playback is already paused.
func (m *Model) StopPlaying() Action { return MakeAction((*stopPlaying)(m)) }

type stopPlaying Model

func (m *stopPlaying) Enabled() bool { return (*Model)(m).Ready() }
func (m *stopPlaying) Do() {
	m.playing = false
	TrySend(m.broker.ToSequencer, any(StopPlayMsg{}))
}

// Rewind returns an Action to seek back to the start of the sequence, without
// changing whether playback is running.
func (m *Model) Rewind() Action { return MakeAction((*rewind)(m)) }

type rewind Model

func (m *rewind) Enabled() bool { return (*Model)(m).Ready() }
func (m *rewind) Do() {
	TrySend(m.broker.ToSequencer, any(SeekMsg{}))
}

// Position returns an Int for the playback position, in milliseconds. Setting
// the value seeks; the slider in the GUI is bound to this.
func (m *Model) Position() Int { return MakeInt((*position)(m)) }

type position Model

func (m *position) Value() int    { return int(m.status.Position / time.Millisecond) }
func (m *position) Enabled() bool { return (*Model)(m).Ready() }
func (m *position) Range() RangeInclusive {
	return RangeInclusive{0, int(m.sequence.Duration() / time.Millisecond)}
}
func (m *position) SetValue(val int) bool {
	m.status.Position = time.Duration(val) * time.Millisecond
	TrySend(m.broker.ToSequencer, any(SeekMsg{Position: m.status.Position}))
	return true
}
func (m *position) StringOf(val int) string {
	return formatDuration(time.Duration(val) * time.Millisecond)
}

// PositionLabel returns the "position / duration" text shown next to the
// slider, e.g. "01:23 / 04:56".
func (m *Model) PositionLabel() string {
	if m.sequence == nil {
		return "--:-- / --:--"
	}
	return fmt.Sprintf("%s / %s", formatDuration(m.status.Position), formatDuration(m.sequence.Duration()))
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	mins := int(d / time.Minute)
	secs := int(d/time.Second) % 60
	return fmt.Sprintf("%02d:%02d", mins, secs)
}
