// Package eventstream carries session events to observers outside the
// session: a log, a terminal UI or a remote replica.
package eventstream

import (
	"fmt"
	"time"
)

// EventType identifies what happened in the session.
type EventType byte

const (
	EventSelectionChanged EventType = iota + 1
	EventGenerated
	EventGenerationFailed
)

var eventNames = map[EventType]string{
	EventSelectionChanged: "selection_changed",
	EventGenerated:        "generated",
	EventGenerationFailed: "generation_failed",
}

func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return fmt.Sprintf("event(%d)", byte(t))
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Event is a snapshot of the session right after a state change.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	// Version is the selection set version the event refers to.
	Version  uint64    `json:"version"`
	Op       string    `json:"op,omitempty"`
	Selected int       `json:"selected"`
	Total    int       `json:"total"`
	Error    string    `json:"error,omitempty"`
	At       time.Time `json:"at"`
}

// Streamer receives session events.
type Streamer interface {
	// Stream handles one event. It's called from a single goroutine and
	// should not block for long.
	Stream(ev Event)
}
