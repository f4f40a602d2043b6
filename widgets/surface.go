package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nanokontrol/korg"
	"nanokontrol/theme"
)

// FaderHeight is the number of cells a fader is drawn with
const FaderHeight = 8

// RenderFader renders a vertical bar for a 7-bit value, top row first
func RenderFader(th *theme.Theme, v uint8, height int) string {
	filled := FilledCells(v, height)
	style := lipgloss.NewStyle().Foreground(th.Level(v))
	dim := lipgloss.NewStyle().Foreground(th.Muted())

	lines := make([]string, height)
	for row := 0; row < height; row++ {
		cell := string(th.Symbols.BarEmpty)
		st := dim
		if height-row <= filled {
			cell = string(th.Symbols.BarFull)
			st = style
		}
		lines[row] = st.Render(strings.Repeat(cell, 2))
	}
	return strings.Join(lines, "\n")
}

// FilledCells maps a 7-bit value onto 0..height cells. Any non-zero value
// lights at least one cell.
func FilledCells(v uint8, height int) int {
	v &= 0x7F
	if v == 0 || height <= 0 {
		return 0
	}
	n := int(v) * height / 127
	if n == 0 {
		n = 1
	}
	return n
}

// RenderKnob renders the knob position as a quadrant mark and its value
func RenderKnob(th *theme.Theme, v uint8) string {
	marks := th.Symbols.Knob
	i := int(v&0x7F) * len(marks) / 128
	style := lipgloss.NewStyle().Foreground(th.Level(v))
	return style.Render(fmt.Sprintf("%c%3d", marks[i], v))
}

// RenderButton renders one button: label plus its on/off mark
func RenderButton(th *theme.Theme, label string, b korg.ButtonParameters, v uint8) string {
	if b.AssignType == korg.ButtonNoAssign {
		return lipgloss.NewStyle().Foreground(th.Muted()).Render(fmt.Sprintf("%s%c", label, th.Symbols.Unused))
	}
	if v != b.OffValue {
		return lipgloss.NewStyle().Foreground(th.Active()).Render(fmt.Sprintf("%s%c", label, th.Symbols.ButtonOn))
	}
	return lipgloss.NewStyle().Foreground(th.FG()).Render(fmt.Sprintf("%s%c", label, th.Symbols.ButtonOff))
}

// RenderStrip renders one controller group: number, knob, S/M/R and fader
func RenderStrip(th *theme.Theme, idx int, g korg.ControllerGroupParameters, v korg.GroupValues, highlight bool) string {
	head := lipgloss.NewStyle().Foreground(th.FG())
	if highlight {
		head = head.Foreground(th.Accent()).Bold(true)
	}

	rows := []string{
		head.Render(fmt.Sprintf("%d %s", idx+1, g.Channel)),
		RenderKnob(th, v.Knob),
		RenderButton(th, "S", g.Solo, v.Solo),
		RenderButton(th, "M", g.Mute, v.Mute),
		RenderButton(th, "R", g.Record, v.Record),
		RenderFader(th, v.Slider, FaderHeight),
		lipgloss.NewStyle().Foreground(th.Muted()).Render(fmt.Sprintf("%3d", v.Slider)),
	}
	return lipgloss.NewStyle().Width(10).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// RenderStrips renders all eight groups side by side. highlight is the
// group to emphasize, or -1.
func RenderStrips(th *theme.Theme, p *korg.Parameters, s *korg.ControlState, highlight int) string {
	strips := make([]string, korg.NumGroups)
	for i := range strips {
		strips[i] = RenderStrip(th, i, p.Groups[i], s.Groups[i], i == highlight)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, strips...)
}

// RenderTransport renders the transport buttons on one line
func RenderTransport(th *theme.Theme, p *korg.Parameters, s *korg.ControlState) string {
	parts := make([]string, 0, korg.NumTransportButtons)
	for _, b := range korg.TransportButtons() {
		parts = append(parts, RenderButton(th, b.String()+" ", *p.Transport(b), s.TransportValue(b)))
	}
	return strings.Join(parts, "  ")
}

// RenderSceneSummary renders the scene's global settings
func RenderSceneSummary(th *theme.Theme, p *korg.Parameters) string {
	label := lipgloss.NewStyle().Foreground(th.Muted())
	value := lipgloss.NewStyle().Foreground(th.FG())
	field := func(k, v string) string {
		return label.Render(k+" ") + value.Render(v)
	}
	return strings.Join([]string{
		field("global", fmt.Sprintf("ch%d", p.GlobalChannel+1)),
		field("mode", p.ControlMode.String()),
		field("led", p.LedMode.String()),
		field("transport", p.TransportChannel.String()),
	}, "   ")
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}
