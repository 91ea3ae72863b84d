package tahti

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

type (
	// Event is a single playable MIDI message, timestamped with its absolute
	// time from the start of the sequence. The tempo map of the file has
	// already been applied, so When is wall-clock time.
	Event struct {
		When time.Duration
		Msg  midi.Message
	}

	// Sequence is a decoded standard MIDI file, with the events of all tracks
	// merged into a single list, sorted by time.
	Sequence struct {
		Events   []Event
		duration time.Duration
	}
)

// SequenceExtensions lists the file extensions recognized as standard MIDI
// files, in lowercase.
var SequenceExtensions = []string{".mid", ".midi", ".smf"}

// IsSequencePath returns whether the path has a standard MIDI file extension.
func IsSequencePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SequenceExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// ReadSequence decodes a standard MIDI file. The events of all tracks are
// merged and sorted; meta events are dropped, but they still contribute to the
// duration, so a trailing end-of-track silence is kept.
func ReadSequence(r io.Reader) (*Sequence, error) {
	var (
		seq      Sequence
		duration time.Duration
	)
	tracks := smf.ReadTracksFrom(r)
	tracks.Do(func(ev smf.TrackEvent) {
		when := time.Duration(ev.AbsMicroSeconds) * time.Microsecond
		if when > duration {
			duration = when
		}
		if !ev.Message.IsPlayable() {
			return
		}
		seq.Events = append(seq.Events, Event{When: when, Msg: midi.Message(ev.Message.Bytes())})
	})
	if err := tracks.Error(); err != nil {
		return nil, fmt.Errorf("reading tracks: %w", err)
	}
	if len(seq.Events) == 0 {
		return nil, fmt.Errorf("the file contains no playable events")
	}
	sort.SliceStable(seq.Events, func(i, j int) bool {
		return seq.Events[i].When < seq.Events[j].When
	})
	seq.duration = duration
	return &seq, nil
}

// Duration returns the total length of the sequence.
func (s *Sequence) Duration() time.Duration {
	if s == nil {
		return 0
	}
	return s.duration
}

// IndexAt returns the index of the first event at or after time t.
func (s *Sequence) IndexAt(t time.Duration) int {
	return sort.Search(len(s.Events), func(i int) bool {
		return s.Events[i].When >= t
	})
}
