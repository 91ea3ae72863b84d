package player

import (
	"time"
)

type (
	// Broker is the centralized message broker for the player. It is just
	// many-to-one communication, implemented with one channel for each
	// recipient: the model (owned by the GUI goroutine) and the sequencer
	// goroutine.
	//
	// For closing the sequencer goroutine, the broker has two channels:
	// CloseSequencer and FinishedSequencer. The CloseSequencer channel has a
	// capacity of 1, so you can always send an empty message (struct{}{}) to
	// it without blocking. If the channel is already full, someone else has
	// already requested the closure and the goroutine is already closing, so
	// dropping the message is fine. FinishedSequencer signals that the
	// goroutine has cleaned up; nothing is ever sent to it, it is only closed.
	// Waiting for it can be combined with a timeout to avoid deadlocks:
	//    select {
	//      case <-FinishedSequencer:
	//      case <-time.After(3 * time.Second):
	//    }
	Broker struct {
		ToModel     chan MsgToModel
		ToSequencer chan any

		CloseSequencer    chan struct{}
		FinishedSequencer chan struct{}
	}

	// MsgToModel is a message sent to the model. The frequently sent status
	// reports are not boxed to avoid allocations; everything infrequent goes
	// through the Data field. In particular, Data can contain a func() which
	// the model executes in the GUI goroutine.
	MsgToModel struct {
		HasStatus bool
		Status    SequencerStatus

		Data any
	}
)

func NewBroker() *Broker {
	return &Broker{
		ToModel:           make(chan MsgToModel, 1024),
		ToSequencer:       make(chan any, 1024),
		CloseSequencer:    make(chan struct{}, 1),
		FinishedSequencer: make(chan struct{}),
	}
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Returns true if the value was sent,
// false otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
