package election

import (
	"context"

	"go.dedis.ch/suffrage/contracts/election/types"
)

// Event is the type of the notifications emitted by the contract. An event
// fires only after the command has been committed to the snapshot.
type Event interface{}

// VoterRegistered is the event emitted when a caller has been added to the
// voter roll.
type VoterRegistered struct {
	Voter string
}

// StatusChanged is the event emitted when the workflow has moved to a new
// phase.
type StatusChanged struct {
	Previous types.Phase
	New      types.Phase
}

// ProposalRegistered is the event emitted when a proposal has been stored.
type ProposalRegistered struct {
	ID uint64
}

// Voted is the event emitted when a ballot has been recorded.
type Voted struct {
	Voter      string
	ProposalID uint64
}

// Watch returns a channel populated with the events emitted by the contract.
// The channel is closed when the context is done.
func (c Contract) Watch(ctx context.Context) <-chan Event {
	ch := make(chan Event, 100)

	obs := observer{ch: ch}
	c.watcher.Add(obs)

	go func() {
		<-ctx.Done()
		c.watcher.Remove(obs)
		close(ch)
	}()

	return ch
}

// observer forwards the notifications to a channel.
//
// - implements core.Observer
type observer struct {
	ch chan Event
}

// NotifyCallback implements core.Observer. It drops the event if the channel
// is full.
func (obs observer) NotifyCallback(event interface{}) {
	select {
	case obs.ch <- event:
	default:
	}
}
