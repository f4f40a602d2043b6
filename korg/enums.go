package korg

import "fmt"

// ButtonAssignType selects what a button sends
type ButtonAssignType uint8

const (
	ButtonNoAssign      ButtonAssignType = 0
	ButtonControlChange ButtonAssignType = 1
	ButtonNote          ButtonAssignType = 2
)

// ParseButtonAssignType maps unknown values to ButtonNoAssign
func ParseButtonAssignType(b byte) ButtonAssignType {
	switch b {
	case 1:
		return ButtonControlChange
	case 2:
		return ButtonNote
	default:
		return ButtonNoAssign
	}
}

func (t ButtonAssignType) Byte() byte {
	switch t {
	case ButtonControlChange:
		return 1
	case ButtonNote:
		return 2
	default:
		return 0
	}
}

func (t ButtonAssignType) String() string {
	switch t {
	case ButtonControlChange:
		return "cc"
	case ButtonNote:
		return "note"
	default:
		return "none"
	}
}

// ButtonBehavior is momentary or toggle
type ButtonBehavior uint8

const (
	Momentary ButtonBehavior = 0
	Toggle    ButtonBehavior = 1
)

// ParseButtonBehavior maps everything except 1 to Momentary
func ParseButtonBehavior(b byte) ButtonBehavior {
	if b == 1 {
		return Toggle
	}
	return Momentary
}

func (b ButtonBehavior) Byte() byte {
	if b == Toggle {
		return 1
	}
	return 0
}

func (b ButtonBehavior) String() string {
	if b == Toggle {
		return "toggle"
	}
	return "momentary"
}

// SliderAssignType enables or disables a slider or knob. The zero value
// is SliderEnable; use Byte for the wire value (disable 0, enable 1).
type SliderAssignType uint8

const (
	SliderEnable SliderAssignType = iota
	SliderDisable
)

func ParseSliderAssignType(b byte) SliderAssignType {
	if b == 1 {
		return SliderEnable
	}
	return SliderDisable
}

func (t SliderAssignType) Byte() byte {
	if t == SliderEnable {
		return 1
	}
	return 0
}

func (t SliderAssignType) String() string {
	if t == SliderEnable {
		return "enable"
	}
	return "disable"
}

// ControlMode is the DAW mode the controller runs in
type ControlMode uint8

const (
	ModeCC ControlMode = iota
	ModeCubase
	ModeDP
	ModeLive
	ModeProTools
	ModeSonar
)

var controlModeNames = [...]string{"cc", "cubase", "dp", "live", "protools", "sonar"}

// ParseControlMode falls back to ModeCC for values above 5
func ParseControlMode(b byte) ControlMode {
	if int(b) < len(controlModeNames) {
		return ControlMode(b)
	}
	return ModeCC
}

func (m ControlMode) Byte() byte {
	if int(m) < len(controlModeNames) {
		return byte(m)
	}
	return byte(ModeCC)
}

func (m ControlMode) String() string {
	if int(m) < len(controlModeNames) {
		return controlModeNames[m]
	}
	return fmt.Sprintf("ControlMode(%d)", uint8(m))
}

// LedMode decides whether the controller or the host drives button LEDs
type LedMode uint8

const (
	LedInternal LedMode = 0
	LedExternal LedMode = 1
)

func ParseLedMode(b byte) LedMode {
	if b == 1 {
		return LedExternal
	}
	return LedInternal
}

func (m LedMode) Byte() byte {
	if m == LedExternal {
		return 1
	}
	return 0
}

func (m LedMode) String() string {
	if m == LedExternal {
		return "external"
	}
	return "internal"
}

// GlobalChannelWire is the wire value that selects the global MIDI channel
const GlobalChannelWire = 16

// MidiChannel is either a specific channel 0-15 or the global channel.
// The zero value is the global channel.
type MidiChannel struct {
	number   uint8
	specific bool
}

// GlobalChannel follows the scene's global channel
var GlobalChannel = MidiChannel{}

// Channel returns a specific channel; n is masked to 0-15
func Channel(n uint8) MidiChannel {
	return MidiChannel{number: n & 0x0F, specific: true}
}

// ParseMidiChannel maps 0-15 to that channel and anything else to GlobalChannel
func ParseMidiChannel(b byte) MidiChannel {
	if b < GlobalChannelWire {
		return Channel(b)
	}
	return GlobalChannel
}

func (c MidiChannel) IsGlobal() bool {
	return !c.specific
}

// Number returns the channel and false for the global channel
func (c MidiChannel) Number() (uint8, bool) {
	return c.number, c.specific
}

// Resolve returns the effective channel given the scene's global channel
func (c MidiChannel) Resolve(global uint8) uint8 {
	if c.specific {
		return c.number
	}
	return global
}

func (c MidiChannel) Byte() byte {
	if c.specific {
		return c.number
	}
	return GlobalChannelWire
}

func (c MidiChannel) String() string {
	if c.specific {
		return fmt.Sprintf("ch%d", c.number+1)
	}
	return "global"
}

// TransportButton names one of the eleven transport controls
type TransportButton int

const (
	TrackRewind TransportButton = iota
	TrackFastForward
	Cycle
	MarkerSet
	MarkerRewind
	MarkerFastForward
	Rewind
	FastForward
	Stop
	Play
	Record
)

// NumTransportButtons is the number of transport controls
const NumTransportButtons = 11

var transportNames = [NumTransportButtons]string{
	"track<", "track>", "cycle", "set", "marker<", "marker>",
	"rew", "ff", "stop", "play", "rec",
}

func (b TransportButton) String() string {
	if b >= 0 && int(b) < NumTransportButtons {
		return transportNames[b]
	}
	return fmt.Sprintf("TransportButton(%d)", int(b))
}

// TransportButtons lists every transport control in wire order
func TransportButtons() [NumTransportButtons]TransportButton {
	var out [NumTransportButtons]TransportButton
	for i := range out {
		out[i] = TransportButton(i)
	}
	return out
}
