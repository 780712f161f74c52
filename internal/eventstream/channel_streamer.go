package eventstream

// ChannelStreamer forwards events to a channel, dropping them while the
// channel is full.
type ChannelStreamer struct {
	Ch chan<- Event
}

func (s *ChannelStreamer) Stream(ev Event) {
	select {
	case s.Ch <- ev:
	default:
	}
}

// NoOpStreamer discards events.
type NoOpStreamer struct{}

func (NoOpStreamer) Stream(Event) {}

// Multi fans every event out to all streamers in order.
type Multi []Streamer

func (m Multi) Stream(ev Event) {
	for _, s := range m {
		s.Stream(ev)
	}
}
