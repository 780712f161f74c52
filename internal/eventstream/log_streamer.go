package eventstream

import (
	"encoding/json"
	"log/slog"
)

// LogStreamer writes every event to a logger.
type LogStreamer struct {
	logger *slog.Logger
}

func NewLogStreamer(logger *slog.Logger) *LogStreamer {
	return &LogStreamer{logger: logger}
}

func (s *LogStreamer) Stream(ev Event) {
	if s.logger == nil {
		return
	}
	b, err := json.Marshal(ev)
	if err != nil {
		s.logger.Error("failed to marshal session event", "error", err)
		return
	}
	s.logger.Info("session event", "event", string(b))
}
