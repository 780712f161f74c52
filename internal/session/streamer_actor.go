package session

import (
	"context"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/eventstream"
)

// streamingActor hands session events to a Streamer on its own goroutine so
// a slow observer never holds up the session actor.
type streamingActor struct {
	streamer eventstream.Streamer
	mailbox  chan eventstream.Event
}

func newStreamingActor(streamer eventstream.Streamer, mailboxSize int) *streamingActor {
	return &streamingActor{
		streamer: streamer,
		mailbox:  make(chan eventstream.Event, mailboxSize),
	}
}

func (a *streamingActor) Receive(ctx context.Context) {
	for {
		select {
		case ev := <-a.mailbox:
			a.streamer.Stream(ev)
		case <-ctx.Done():
			// drain what the session actor queued before it stopped
			for {
				select {
				case ev := <-a.mailbox:
					a.streamer.Stream(ev)
				default:
					return
				}
			}
		}
	}
}
