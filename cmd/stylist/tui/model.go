package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/eventstream"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/session"
	"github.com/tinnguyenhuuletrong/my-small-app-playground/outfit-engine-go/internal/types"
)

var (
	cmdStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ff66ff"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f87"))
	logStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))
)

const helpText = `/add <id>...  /add <category> <id>  /remove [category] <id>
/clear  /generate  /next  /prev  /goto <n>  /state  /help`

// Session is the part of session.Session the TUI drives.
type Session interface {
	Add(g types.Garment) (*types.Selection, error)
	AddToCategory(c types.Category, g types.Garment) (bool, *types.Selection, error)
	Remove(garmentID string) bool
	RemoveFromCategory(c types.Category, garmentID string) bool
	Clear()
	Generate() <-chan session.GenerateResult
	Next() session.Navigation
	Previous() session.Navigation
	GoTo(index int) session.Navigation
	Navigation() session.Navigation
	Status() session.Status
	Selections() []types.Selection
}

type generatedMsg session.GenerateResult

type Model struct {
	system    Session
	catalog   types.Catalog
	logs      <-chan string
	events    <-chan eventstream.Event
	viewport  viewport.Model
	textInput textinput.Model
	history   []string
	ready     bool
}

// NewModel creates the TUI model. logs is the channel of the ChannelWriter
// the session logger writes to and events the channel of the session's
// eventstream.ChannelStreamer. Either may be nil.
func NewModel(system Session, catalog types.Catalog, logs <-chan string, events <-chan eventstream.Event) Model {
	ti := textinput.New()
	ti.Placeholder = "Enter command... (/help)"
	ti.Focus()
	ti.Width = 80

	return Model{
		system:    system,
		catalog:   catalog,
		logs:      logs,
		events:    events,
		textInput: ti,
		history:   []string{},
	}
}

func (m Model) Init() bubbletea.Cmd {
	cmds := []bubbletea.Cmd{textinput.Blink}
	if m.logs != nil {
		cmds = append(cmds, waitForLog(m.logs))
	}
	if m.events != nil {
		cmds = append(cmds, waitForEvent(m.events))
	}
	return bubbletea.Batch(cmds...)
}

func (m Model) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	var (
		cmd  bubbletea.Cmd
		cmds []bubbletea.Cmd
	)

	m.textInput, cmd = m.textInput.Update(msg)
	cmds = append(cmds, cmd)

	switch msg := msg.(type) {
	case bubbletea.KeyMsg:
		switch msg.Type {
		case bubbletea.KeyEnter:
			input := m.textInput.Value()
			m.textInput.Reset()
			cmds = append(cmds, m.Execute(input))
		case bubbletea.KeyCtrlC, bubbletea.KeyEsc:
			return m, bubbletea.Quit
		}
	case generatedMsg:
		m.print(describeGenerate(session.GenerateResult(msg)))
		m.print(describeNavigation(m.system.Navigation()))
	case logMsg:
		m.print(logStyle.Render(string(msg)))
		if m.logs != nil {
			cmds = append(cmds, waitForLog(m.logs))
		}
	case eventMsg:
		// explicit /generate already reports its own result
		if msg.Type != eventstream.EventSelectionChanged {
			m.print(describeEvent(eventstream.Event(msg)))
		}
		if m.events != nil {
			cmds = append(cmds, waitForEvent(m.events))
		}
	case bubbletea.WindowSizeMsg:
		headerHeight := lipgloss.Height(m.headerView())
		viewportHeight := max(msg.Height-headerHeight-3, 10)

		if !m.ready {
			m.viewport = viewport.New(msg.Width-2, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 2
			m.viewport.Height = viewportHeight
		}
		m.textInput.Width = msg.Width - 4
		m.refresh()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, bubbletea.Batch(cmds...)
}

// Execute runs one command line and prints its output. Slow work, like a
// generation, is returned as a command.
func (m *Model) Execute(input string) bubbletea.Cmd {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return nil
	}
	command, args := parts[0], parts[1:]
	m.print(cmdStyle.Render(input))

	switch command {
	case "/add":
		if len(args) == 0 {
			m.fail(fmt.Errorf("usage: /add <id>... or /add <category> <id>"))
			return nil
		}
		if c, err := types.ParseCategory(args[0]); err == nil && len(args) == 2 {
			m.addToCategory(c, args[1])
			return nil
		}
		for _, id := range args {
			g, err := m.catalog.GetGarment(context.Background(), id)
			if err != nil {
				m.fail(err)
				continue
			}
			evicted, err := m.system.Add(g)
			switch {
			case err != nil:
				m.fail(err)
			case evicted != nil:
				m.print(fmt.Sprintf("added %s (%s), replaced %s", g.ID, g.Category, evicted.GarmentID))
			default:
				m.print(fmt.Sprintf("added %s (%s)", g.ID, g.Category))
			}
		}
	case "/remove":
		var removed bool
		switch len(args) {
		case 1:
			removed = m.system.Remove(args[0])
		case 2:
			c, err := types.ParseCategory(args[0])
			if err != nil {
				m.fail(err)
				return nil
			}
			removed = m.system.RemoveFromCategory(c, args[1])
		default:
			m.fail(fmt.Errorf("usage: /remove [category] <id>"))
			return nil
		}
		id := args[len(args)-1]
		if removed {
			m.print("removed " + id)
		} else {
			m.print(id + " was not selected")
		}
	case "/clear":
		m.system.Clear()
		m.print("selection cleared")
	case "/generate":
		system := m.system
		return func() bubbletea.Msg {
			return generatedMsg(<-system.Generate())
		}
	case "/next":
		m.print(describeNavigation(m.system.Next()))
	case "/prev":
		m.print(describeNavigation(m.system.Previous()))
	case "/goto":
		if len(args) != 1 {
			m.fail(fmt.Errorf("usage: /goto <n>"))
			return nil
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			m.fail(err)
			return nil
		}
		m.print(describeNavigation(m.system.GoTo(n - 1)))
	case "/state":
		m.print(describeState(m.system.Status(), m.system.Selections()))
	case "/help":
		m.print(helpText)
	default:
		m.fail(fmt.Errorf("unknown command %s", command))
	}
	return nil
}

func (m *Model) addToCategory(c types.Category, id string) {
	g, err := m.catalog.GetGarment(context.Background(), id)
	if err != nil {
		m.fail(err)
		return
	}
	added, evicted, err := m.system.AddToCategory(c, g)
	switch {
	case err != nil:
		m.fail(err)
	case !added:
		m.fail(fmt.Errorf("%s is %s, not %s", g.ID, g.Category, c))
	case evicted != nil:
		m.print(fmt.Sprintf("added %s (%s), replaced %s", g.ID, g.Category, evicted.GarmentID))
	default:
		m.print(fmt.Sprintf("added %s (%s)", g.ID, g.Category))
	}
}

// History returns the printed lines.
func (m Model) History() []string {
	return m.history
}

func (m *Model) print(line string) {
	m.history = append(m.history, line)
	m.refresh()
}

func (m *Model) fail(err error) {
	m.print(errStyle.Render("error: " + err.Error()))
}

func (m *Model) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

func (m Model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.headerView(),
		m.viewport.View(),
		m.footerView(),
	)
}

func (m Model) headerView() string {
	return titleStyle.Render("Outfit Stylist TUI")
}

func (m Model) footerView() string {
	return m.textInput.View()
}

type eventMsg eventstream.Event

func waitForEvent(ch <-chan eventstream.Event) bubbletea.Cmd {
	return func() bubbletea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func describeEvent(ev eventstream.Event) string {
	switch ev.Type {
	case eventstream.EventGenerated:
		return logStyle.Render(fmt.Sprintf("~ %d combinations ready for %d garments", ev.Total, ev.Selected))
	case eventstream.EventGenerationFailed:
		return errStyle.Render("~ generation failed: " + ev.Error)
	}
	return logStyle.Render(fmt.Sprintf("~ %s %s", ev.Type, ev.Op))
}

func describeGenerate(res session.GenerateResult) string {
	switch {
	case res.Err != nil:
		return errStyle.Render("generation failed: " + res.Err.Error())
	case res.Skipped:
		return "not enough garments selected to generate"
	}
	return fmt.Sprintf("%d combinations generated", len(res.Combinations))
}

func describeNavigation(nav session.Navigation) string {
	if nav.Current == nil {
		return "no combinations"
	}
	c := nav.Current
	var b strings.Builder
	fmt.Fprintf(&b, "[%d/%d] %s  score %.2f  %s", nav.Index+1, nav.Total, c.Name, c.Score, c.Style)
	if c.Season != "" {
		fmt.Fprintf(&b, "  season %s", c.Season)
	}
	for _, item := range c.Items {
		fmt.Fprintf(&b, "\n  %-12s %-10s %s", item.Position, item.Garment.Category, item.Garment.Name)
	}
	return b.String()
}

func describeState(st session.Status, sels []types.Selection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "session %s  state %s  selected %d  can generate %t  generating %t",
		st.ID, st.State, st.Selected, st.CanGenerate, st.Generating)
	for _, sel := range sels {
		fmt.Fprintf(&b, "\n  %-10s %-10s %s", sel.Category, sel.GarmentID, sel.Garment.Name)
	}
	if st.LastError != nil {
		b.WriteString("\n" + errStyle.Render("last error: "+st.LastError.Error()))
	}
	return b.String()
}
