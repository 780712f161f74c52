package tui

import (
	"strings"

	bubbletea "github.com/charmbracelet/bubbletea"
)

// ChannelWriter implements io.Writer and sends each written line to a
// channel. Lines are dropped while the channel is full so a slow screen never
// blocks the session.
type ChannelWriter struct {
	Ch chan<- string
}

// Write sends the byte slice as a string to the channel.
func (w *ChannelWriter) Write(p []byte) (n int, err error) {
	select {
	case w.Ch <- strings.TrimRight(string(p), "\n"):
	default:
	}
	return len(p), nil
}

type logMsg string

// waitForLog delivers the next line written to a ChannelWriter.
func waitForLog(ch <-chan string) bubbletea.Cmd {
	return func() bubbletea.Msg {
		line, ok := <-ch
		if !ok {
			return nil
		}
		return logMsg(line)
	}
}
