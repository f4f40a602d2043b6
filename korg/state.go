package korg

import "fmt"

// ControlKind identifies the physical control type
type ControlKind int

const (
	KindSlider ControlKind = iota
	KindKnob
	KindSolo
	KindMute
	KindRecord
	KindTransport
)

// Control names one physical control on the surface
type Control struct {
	Kind      ControlKind
	Group     int             // 0-7, unused for transport
	Transport TransportButton // only for KindTransport
}

func (c Control) String() string {
	switch c.Kind {
	case KindSlider:
		return fmt.Sprintf("slider%d", c.Group+1)
	case KindKnob:
		return fmt.Sprintf("knob%d", c.Group+1)
	case KindSolo:
		return fmt.Sprintf("solo%d", c.Group+1)
	case KindMute:
		return fmt.Sprintf("mute%d", c.Group+1)
	case KindRecord:
		return fmt.Sprintf("rec%d", c.Group+1)
	case KindTransport:
		return c.Transport.String()
	}
	return "unknown"
}

// IsButton reports whether the control is a button
func (c Control) IsButton() bool {
	return c.Kind != KindSlider && c.Kind != KindKnob
}

// Button returns the parameters of a button control
func (p *Parameters) Button(c Control) (*ButtonParameters, bool) {
	if c.Kind == KindTransport {
		b := p.Transport(c.Transport)
		return b, b != nil
	}
	if c.Group < 0 || c.Group >= NumGroups {
		return nil, false
	}
	g := &p.Groups[c.Group]
	switch c.Kind {
	case KindSolo:
		return &g.Solo, true
	case KindMute:
		return &g.Mute, true
	case KindRecord:
		return &g.Record, true
	}
	return nil, false
}

// Lookup finds the control that sends the given CC under this scene
func (p *Parameters) Lookup(channel, controller uint8) (Control, bool) {
	for i := range p.Groups {
		g := &p.Groups[i]
		if g.Channel.Resolve(p.GlobalChannel) != channel {
			continue
		}
		switch {
		case sendsCC(g.Slider, controller):
			return Control{Kind: KindSlider, Group: i}, true
		case sendsCC(g.Knob, controller):
			return Control{Kind: KindKnob, Group: i}, true
		case buttonSendsCC(g.Solo, controller):
			return Control{Kind: KindSolo, Group: i}, true
		case buttonSendsCC(g.Mute, controller):
			return Control{Kind: KindMute, Group: i}, true
		case buttonSendsCC(g.Record, controller):
			return Control{Kind: KindRecord, Group: i}, true
		}
	}

	if p.TransportChannel.Resolve(p.GlobalChannel) != channel {
		return Control{}, false
	}
	for _, b := range TransportButtons() {
		if buttonSendsCC(*p.Transport(b), controller) {
			return Control{Kind: KindTransport, Transport: b}, true
		}
	}
	return Control{}, false
}

// LEDMessage returns the CC that lights (or clears) a button when the
// scene uses external LED mode.
func (p *Parameters) LEDMessage(c Control, on bool) (ControlChange, bool) {
	if p.LedMode != LedExternal {
		return ControlChange{}, false
	}
	b, ok := p.Button(c)
	if !ok || b.AssignType != ButtonControlChange {
		return ControlChange{}, false
	}

	channel := p.TransportChannel
	if c.Kind != KindTransport {
		channel = p.Groups[c.Group].Channel
	}
	value := b.OffValue
	if on {
		value = b.OnValue
	}
	return ControlChange{
		Channel:    channel.Resolve(p.GlobalChannel),
		Controller: b.NoteNumber,
		Value:      value,
	}, true
}

func sendsCC(s SliderParameters, controller uint8) bool {
	return s.AssignType == SliderEnable && s.NoteNumber == controller
}

func buttonSendsCC(b ButtonParameters, controller uint8) bool {
	return b.AssignType == ButtonControlChange && b.NoteNumber == controller
}

// GroupValues holds the last value seen from each control of a strip
type GroupValues struct {
	Slider uint8
	Knob   uint8
	Solo   uint8
	Mute   uint8
	Record uint8
}

// ControlState tracks live control values
type ControlState struct {
	Groups    [NumGroups]GroupValues
	Transport [NumTransportButtons]uint8
}

// Apply records a CC event and returns the control it came from
func (s *ControlState) Apply(p *Parameters, ev ControlChange) (Control, bool) {
	c, ok := p.Lookup(ev.Channel, ev.Controller)
	if !ok {
		return Control{}, false
	}
	*s.slot(c) = ev.Value
	return c, true
}

// Value returns the last value seen from a control
func (s *ControlState) Value(c Control) uint8 {
	if v := s.slot(c); v != nil {
		return *v
	}
	return 0
}

// TransportValue returns the last value of a transport button
func (s *ControlState) TransportValue(b TransportButton) uint8 {
	return s.Value(Control{Kind: KindTransport, Transport: b})
}

func (s *ControlState) slot(c Control) *uint8 {
	if c.Kind == KindTransport {
		if c.Transport < 0 || int(c.Transport) >= NumTransportButtons {
			return nil
		}
		return &s.Transport[c.Transport]
	}
	if c.Group < 0 || c.Group >= NumGroups {
		return nil
	}
	g := &s.Groups[c.Group]
	switch c.Kind {
	case KindSlider:
		return &g.Slider
	case KindKnob:
		return &g.Knob
	case KindSolo:
		return &g.Solo
	case KindMute:
		return &g.Mute
	case KindRecord:
		return &g.Record
	}
	return nil
}
