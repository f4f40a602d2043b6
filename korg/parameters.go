package korg

// NumGroups is the number of slider/knob/button strips
const NumGroups = 8

// ButtonParameters configures one button
type ButtonParameters struct {
	AssignType ButtonAssignType
	Behavior   ButtonBehavior
	NoteNumber uint8
	OffValue   uint8
	OnValue    uint8
}

// SliderParameters configures one slider or knob
type SliderParameters struct {
	AssignType SliderAssignType
	NoteNumber uint8
	MinValue   uint8
	MaxValue   uint8
}

// ControllerGroupParameters configures one of the eight strips
type ControllerGroupParameters struct {
	Channel MidiChannel
	Slider  SliderParameters
	Knob    SliderParameters
	Solo    ButtonParameters
	Mute    ButtonParameters
	Record  ButtonParameters
}

// Parameters is a complete scene. The zero value is the default scene:
// global channel 0, CC mode, internal LEDs, sliders and knobs enabled on
// CC 0 and every button unassigned.
type Parameters struct {
	GlobalChannel    uint8
	ControlMode      ControlMode
	LedMode          LedMode
	Groups           [NumGroups]ControllerGroupParameters
	TransportChannel MidiChannel

	TrackRewind       ButtonParameters
	TrackFastForward  ButtonParameters
	Cycle             ButtonParameters
	MarkerSet         ButtonParameters
	MarkerRewind      ButtonParameters
	MarkerFastForward ButtonParameters
	Rewind            ButtonParameters
	FastForward       ButtonParameters
	Stop              ButtonParameters
	Play              ButtonParameters
	Record            ButtonParameters

	CustomDAWAssign [5]uint8
}

// Transport returns the parameters of a transport button, or nil for an
// unknown button.
func (p *Parameters) Transport(b TransportButton) *ButtonParameters {
	switch b {
	case TrackRewind:
		return &p.TrackRewind
	case TrackFastForward:
		return &p.TrackFastForward
	case Cycle:
		return &p.Cycle
	case MarkerSet:
		return &p.MarkerSet
	case MarkerRewind:
		return &p.MarkerRewind
	case MarkerFastForward:
		return &p.MarkerFastForward
	case Rewind:
		return &p.Rewind
	case FastForward:
		return &p.FastForward
	case Stop:
		return &p.Stop
	case Play:
		return &p.Play
	case Record:
		return &p.Record
	}
	return nil
}

// factory CC numbers for the transport section, in TransportButton order
var factoryTransportCC = [NumTransportButtons]uint8{58, 59, 46, 60, 61, 62, 43, 44, 42, 41, 45}

// DefaultParameters returns the scene the controller ships with
func DefaultParameters() Parameters {
	var p Parameters
	for i := range p.Groups {
		n := uint8(i)
		p.Groups[i] = ControllerGroupParameters{
			Channel: GlobalChannel,
			Slider:  SliderParameters{AssignType: SliderEnable, NoteNumber: n, MinValue: 0, MaxValue: 127},
			Knob:    SliderParameters{AssignType: SliderEnable, NoteNumber: 16 + n, MinValue: 0, MaxValue: 127},
			Solo:    factoryButton(32 + n),
			Mute:    factoryButton(48 + n),
			Record:  factoryButton(64 + n),
		}
	}
	for _, b := range TransportButtons() {
		*p.Transport(b) = factoryButton(factoryTransportCC[b])
	}
	return p
}

func factoryButton(cc uint8) ButtonParameters {
	return ButtonParameters{
		AssignType: ButtonControlChange,
		Behavior:   Momentary,
		NoteNumber: cc,
		OffValue:   0,
		OnValue:    127,
	}
}
