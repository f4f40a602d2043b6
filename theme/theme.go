package theme

import (
	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	// Faders and knobs
	BarFull  rune // █ filled cell
	BarEmpty rune // ░ empty cell
	Knob     []rune

	// Buttons
	ButtonOn  rune // ● pressed / lit
	ButtonOff rune // ○ released
	Unused    rune // · not assigned
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			BarFull:  '█',
			BarEmpty: '░',
			Knob:     []rune{'◜', '◝', '◞', '◟'},

			ButtonOn:  '●',
			ButtonOff: '○',
			Unused:    '·',
		},
	}
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.25
	RoleFG      = 0.4
	RoleAccent  = 0.5
	RoleActive  = 0.65
	RoleWarning = 0.8
	RoleDanger  = 0.875
	RoleSuccess = 1.0
)

// Style helpers

func (t *Theme) FG() lipgloss.Color {
	return t.Color(RoleFG)
}

func (t *Theme) Accent() lipgloss.Color {
	return t.Color(RoleAccent)
}

func (t *Theme) Muted() lipgloss.Color {
	return t.Color(RoleMuted)
}

func (t *Theme) Active() lipgloss.Color {
	return t.Color(RoleActive)
}

func (t *Theme) Warning() lipgloss.Color {
	return t.Color(RoleWarning)
}

func (t *Theme) Danger() lipgloss.Color {
	return t.Color(RoleDanger)
}

func (t *Theme) Success() lipgloss.Color {
	return t.Color(RoleSuccess)
}

// Color returns lipgloss color for any normalized value 0-1
func (t *Theme) Color(norm float64) lipgloss.Color {
	return lipgloss.Color(t.Palette.Lookup(norm).Hex())
}

// Level colors a 7-bit control value along the palette from muted to success
func (t *Theme) Level(v uint8) lipgloss.Color {
	return t.Color(RoleMuted + (RoleSuccess-RoleMuted)*float64(v&0x7F)/127)
}
