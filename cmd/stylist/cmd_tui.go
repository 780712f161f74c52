package main

import (
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/cmd/stylist/tui"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/eventstream"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/session"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Interactive selection and browsing of combinations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cfg)
		if err != nil {
			return err
		}

		logCh := make(chan string, 100)
		eventCh := make(chan eventstream.Event, 100)
		sess, _, err := openSession(cfg, &tui.ChannelWriter{Ch: logCh}, nil, func(o *session.SessionOptional, _ types.Utils) {
			o.Streamer = &eventstream.ChannelStreamer{Ch: eventCh}
		})
		if err != nil {
			return err
		}
		defer sess.Stop()

		p := bubbletea.NewProgram(tui.NewModel(sess, cat, logCh, eventCh), bubbletea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}
