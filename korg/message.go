package korg

// MIDI status and framing bytes
const (
	StatusControlChange uint8 = 0xB0
	StatusMask          uint8 = 0xF0
	ChannelMask         uint8 = 0x0F

	SysExStart     uint8 = 0xF0
	SysExEnd       uint8 = 0xF7
	ManufacturerID uint8 = 0x42 // KORG
	DeviceStatus   uint8 = 0x40 // 0x4g, g = global channel

	variableFormatBit uint8 = 0x20
	extendedLength    uint8 = 0x7F
	extendedMarker    uint8 = 0x02
)

// HeaderSize is the number of bytes before the command byte:
// F0, 42, 4g and the 4-byte software project / sub id block.
const HeaderSize = 7

// nanoKONTROL2 software project id (00 01 13) and sub id (00)
const (
	projectSize = 4
	projectHigh = 0x01
	projectLow  = 0x13
)

// Event is a classified incoming message: ControlChange or SystemExclusive
type Event interface {
	event()
}

// ControlChange is a CC message from a slider, knob or button
type ControlChange struct {
	Timestamp  uint64
	Channel    uint8
	Controller uint8
	Value      uint8
}

// SystemExclusive is a KORG SysEx frame with its length encoding removed
type SystemExclusive struct {
	Timestamp uint64
	Channel   uint8
	Command   uint8
	Payload   []byte
}

func (ControlChange) event()   {}
func (SystemExclusive) event() {}

// Classify turns one raw MIDI message into an Event. Malformed or
// unrecognized messages return false; they are never an error.
func Classify(raw []byte, timestamp uint64) (Event, bool) {
	c := &cursor{buf: raw}
	first, ok := c.next()
	if !ok {
		return nil, false
	}

	switch {
	case first&StatusMask == StatusControlChange:
		return classifyControlChange(c, first, timestamp)
	case first == SysExStart:
		return classifySysEx(c, timestamp)
	}
	return nil, false
}

func classifyControlChange(c *cursor, status uint8, timestamp uint64) (Event, bool) {
	data, ok := c.take(2)
	if !ok {
		return nil, false
	}
	return ControlChange{
		Timestamp:  timestamp,
		Channel:    status & ChannelMask,
		Controller: data[0],
		Value:      data[1],
	}, true
}

func classifySysEx(c *cursor, timestamp uint64) (Event, bool) {
	if !c.expect(ManufacturerID) {
		return nil, false
	}

	device, ok := c.next()
	if !ok || device&StatusMask != DeviceStatus {
		return nil, false
	}

	// software project and sub id, not validated
	if !c.skip(projectSize) {
		return nil, false
	}

	command, ok := c.next()
	if !ok {
		return nil, false
	}

	n, ok := payloadLength(c, command)
	if !ok {
		return nil, false
	}

	payload, ok := c.take(n)
	if !ok {
		return nil, false
	}

	if !c.expect(SysExEnd) {
		return nil, false
	}

	return SystemExclusive{
		Timestamp: timestamp,
		Channel:   device & ChannelMask,
		Command:   command,
		Payload:   append([]byte(nil), payload...),
	}, true
}

// payloadLength reads the length encoding selected by the command byte
// and leaves the cursor on the first payload byte.
func payloadLength(c *cursor, command uint8) (int, bool) {
	if command&variableFormatBit == 0 {
		return 2, true
	}

	n, ok := c.next()
	if !ok {
		return 0, false
	}
	if n != extendedLength {
		return int(n), true
	}

	if !c.expect(extendedMarker) {
		return 0, false
	}
	length, ok := c.take(2)
	if !ok {
		return 0, false
	}
	return int(length[0])<<7 | int(length[1]), true
}

type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) next() (byte, bool) {
	if c.pos >= len(c.buf) {
		return 0, false
	}
	b := c.buf[c.pos]
	c.pos++
	return b, true
}

func (c *cursor) expect(want byte) bool {
	b, ok := c.next()
	return ok && b == want
}

func (c *cursor) skip(n int) bool {
	_, ok := c.take(n)
	return ok
}

func (c *cursor) take(n int) ([]byte, bool) {
	if n < 0 || len(c.buf)-c.pos < n {
		return nil, false
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, true
}
