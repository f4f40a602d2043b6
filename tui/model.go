package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"nanokontrol/korg"
	"nanokontrol/midi"
	"nanokontrol/surface"
	"nanokontrol/theme"
	"nanokontrol/widgets"
)

type Model struct {
	Session  *surface.Session
	DeviceID string
	Theme    *theme.Theme
	runDone  <-chan error
	native   bool
	showHelp bool
	status   string
	quitting bool
	lost     error // set when the controller goes away
}

type UpdateMsg struct{}

// RunDoneMsg reports that the session stopped reading the controller
type RunDoneMsg struct{ Err error }

// NewModel builds the monitor. runDone receives the result of Session.Run.
func NewModel(session *surface.Session, deviceID string, th *theme.Theme, runDone <-chan error, native bool) Model {
	return Model{
		Session:  session,
		DeviceID: deviceID,
		Theme:    th,
		runDone:  runDone,
		native:   native,
	}
}

func ListenForUpdates(session *surface.Session) tea.Cmd {
	return func() tea.Msg {
		<-session.UpdateChan
		return UpdateMsg{}
	}
}

func WaitForRun(done <-chan error) tea.Cmd {
	return func() tea.Msg {
		return RunDoneMsg{Err: <-done}
	}
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{ListenForUpdates(m.Session)}
	if m.runDone != nil {
		cmds = append(cmds, WaitForRun(m.runDone))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "?":
			m.showHelp = !m.showHelp

		case "r":
			m.status = result("scene requested", m.Session.RequestScene())

		case "m":
			m.status = result("mode requested", m.Session.RequestMode())

		case "n":
			m.native = !m.native
			state := "native mode out"
			if m.native {
				state = "native mode in"
			}
			m.status = result(state, m.Session.SetNativeMode(m.native))

		case "l":
			p := m.Session.Snapshot().Scene
			if p.LedMode == korg.LedExternal {
				p.LedMode = korg.LedInternal
			} else {
				p.LedMode = korg.LedExternal
			}
			m.status = result("writing scene with "+p.LedMode.String()+" LEDs", m.Session.WriteScene(p))

		case "f":
			p := korg.DefaultParameters()
			p.GlobalChannel = m.Session.Snapshot().GlobalChannel
			m.status = result("writing factory scene", m.Session.WriteScene(p))
		}

	case UpdateMsg:
		m.lightLastButton()
		return m, ListenForUpdates(m.Session)

	case RunDoneMsg:
		m.lost = msg.Err
		if m.lost == nil {
			m.lost = midi.ErrClosed
		}
	}

	return m, nil
}

// lightLastButton echoes button presses to the LEDs; SetLED is a no-op
// unless the scene is in external LED mode.
func (m Model) lightLastButton() {
	snap := m.Session.Snapshot()
	if !snap.HasControl || !snap.LastControl.IsButton() {
		return
	}
	m.Session.SetLED(snap.LastControl, snap.Controls.Value(snap.LastControl) > 0)
}

func result(ok string, err error) string {
	if err != nil {
		return "error: " + err.Error()
	}
	return ok
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.Session.Snapshot()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent())
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	errStyle := lipgloss.NewStyle().Foreground(m.Theme.Danger())
	okStyle := lipgloss.NewStyle().Foreground(m.Theme.Success())

	sceneState := "factory scene (not read from device)"
	if snap.HasScene {
		sceneState = "scene loaded"
	}
	header := headerStyle.Render(fmt.Sprintf("nanokontrol  %s  %s", m.DeviceID, sceneState))

	highlight := -1
	last := dimStyle.Render("last: -")
	if snap.HasControl {
		if snap.LastControl.Kind != korg.KindTransport {
			highlight = snap.LastControl.Group
		}
		last = dimStyle.Render(fmt.Sprintf("last: %s = %d", snap.LastControl, snap.Controls.Value(snap.LastControl)))
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(widgets.RenderSceneSummary(m.Theme, &snap.Scene))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderStrips(m.Theme, &snap.Scene, &snap.Controls, highlight))
	out.WriteString("\n\n")
	out.WriteString(widgets.RenderTransport(m.Theme, &snap.Scene, &snap.Controls))
	out.WriteString("\n\n")
	out.WriteString(last)
	out.WriteString("\n")

	if snap.Write != surface.WriteIdle {
		style := lipgloss.NewStyle().Foreground(m.Theme.Warning())
		switch snap.Write {
		case surface.WriteDone:
			style = okStyle
		case surface.WriteFailed:
			style = errStyle
		}
		out.WriteString(style.Render("write: " + snap.Write.String()))
		out.WriteString("\n")
	}
	if snap.HasReply {
		out.WriteString(dimStyle.Render(fmt.Sprintf("reply: %s (%d)", snap.LastReply.Function, snap.LastReply.Data)))
		out.WriteString("\n")
	}
	if snap.Err != nil {
		out.WriteString(errStyle.Render(describe(snap.Err)))
		out.WriteString("\n")
	}
	if m.lost != nil {
		out.WriteString(errStyle.Render("controller disconnected: " + m.lost.Error()))
		out.WriteString("\n")
	}
	if m.status != "" {
		out.WriteString(headerStyle.Render(m.status))
		out.WriteString("\n")
	}

	out.WriteString("\n")
	if m.showHelp {
		out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(helpSections)))
	} else {
		out.WriteString(dimStyle.Render("r:scene  m:mode  n:native  l:led mode  f:factory  ?:help  q:quit"))
	}

	return out.String()
}

func describe(err error) string {
	var chErr *korg.InvalidGlobalChannelError
	if errors.As(err, &chErr) {
		return fmt.Sprintf("scene rejected: global channel %d out of range", chErr.Value)
	}
	return "error: " + err.Error()
}

var helpSections = []widgets.KeySection{
	{Title: "Device", Keys: []widgets.KeyBinding{
		{Key: "r", Desc: "request the current scene"},
		{Key: "m", Desc: "request the controller mode"},
		{Key: "n", Desc: "toggle native mode"},
	}},
	{Title: "Scene", Keys: []widgets.KeyBinding{
		{Key: "l", Desc: "write the scene with LED mode flipped"},
		{Key: "f", Desc: "write the factory scene"},
	}},
	{Keys: []widgets.KeyBinding{
		{Key: "?", Desc: "toggle this help"},
		{Key: "q", Desc: "quit"},
	}},
}
