package tahti_test

import (
	"bytes"
	"testing"
	"time"

	tahti "github.com/jkataja/tahti"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

func TestIsSequencePath(t *testing.T) {
	for _, path := range []string{"song.mid", "song.midi", "song.smf", "SONG.MID", "dir/song.mid"} {
		if !tahti.IsSequencePath(path) {
			t.Errorf("IsSequencePath(%q) = false", path)
		}
	}
	for _, path := range []string{"song.wav", "song.mid.bak", "song", "midi"} {
		if tahti.IsSequencePath(path) {
			t.Errorf("IsSequencePath(%q) = true", path)
		}
	}
}

func TestReadSequenceMergesAndSortsTracks(t *testing.T) {
	sm := smf.New()
	var track1 smf.Track
	track1.Add(0, smf.MetaTempo(120))
	track1.Add(960, midi.NoteOn(0, 60, 100)) // 0.5s
	track1.Add(960, midi.NoteOff(0, 60))     // 1.0s
	track1.Close(0)
	sm.Add(track1)
	var track2 smf.Track
	track2.Add(0, midi.NoteOn(1, 64, 100))  // 0s
	track2.Add(480, midi.NoteOff(1, 64))    // 0.25s
	track2.Add(0, smf.MetaText("a marker")) // not playable
	track2.Close(0)
	sm.Add(track2)
	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	seq, err := tahti.ReadSequence(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(seq.Events) != 4 {
		t.Fatalf("len(events) = %d, expected 4 playable events", len(seq.Events))
	}
	for i := 1; i < len(seq.Events); i++ {
		if seq.Events[i-1].When > seq.Events[i].When {
			t.Fatalf("events not sorted: event %d at %v after event %d at %v", i-1, seq.Events[i-1].When, i, seq.Events[i].When)
		}
	}
	if seq.Events[0].When != 0 {
		t.Errorf("first event at %v, expected 0", seq.Events[0].When)
	}
	if seq.Duration() != time.Second {
		t.Errorf("duration = %v, expected 1s", seq.Duration())
	}
}

func TestReadSequenceErrors(t *testing.T) {
	if _, err := tahti.ReadSequence(bytes.NewReader([]byte("not a midi file"))); err == nil {
		t.Error("expected an error for garbage data")
	}

	// a file with only meta events has nothing to play
	sm := smf.New()
	var track smf.Track
	track.Add(0, smf.MetaTempo(120))
	track.Add(0, smf.MetaText("nothing here"))
	track.Close(960)
	sm.Add(track)
	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	if _, err := tahti.ReadSequence(&buf); err == nil {
		t.Error("expected an error for a file with no playable events")
	}
}

func TestIndexAt(t *testing.T) {
	sm := smf.New()
	var track smf.Track
	track.Add(0, smf.MetaTempo(120))
	track.Add(0, midi.NoteOn(0, 60, 100))
	track.Add(960, midi.NoteOff(0, 60)) // 0.5s
	track.Add(960, midi.NoteOn(0, 62, 100))
	track.Add(960, midi.NoteOff(0, 62)) // 1.5s
	track.Close(0)
	sm.Add(track)
	var buf bytes.Buffer
	if _, err := sm.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	seq, err := tahti.ReadSequence(&buf)
	if err != nil {
		t.Fatal(err)
	}

	for _, c := range []struct {
		t     time.Duration
		index int
	}{
		{0, 0},
		{250 * time.Millisecond, 1},
		{500 * time.Millisecond, 1},
		{750 * time.Millisecond, 2},
		{2 * time.Second, 4},
	} {
		if got := seq.IndexAt(c.t); got != c.index {
			t.Errorf("IndexAt(%v) = %d, expected %d", c.t, got, c.index)
		}
	}
}
