package korg

import "fmt"

const (
	// SceneDataSize is the size of the packed scene block carried by a dump
	SceneDataSize = 389

	// DumpHeaderSize covers F0 42 4g 00 01 13 00 7F 7F 02 msb lsb 40
	DumpHeaderSize = 13

	// DumpFrameSize is header + scene block + F7
	DumpFrameSize = DumpHeaderSize + SceneDataSize + 1
)

// Logical scene layout
const (
	indexGlobalChannel    = 0
	indexControlMode      = 1
	indexLedMode          = 2
	indexGroups           = 3
	groupStride           = 31
	indexTransportChannel = 251
	indexTransport        = 252
	buttonStride          = 6
	indexCustomDAWAssign  = 318

	lastLogicalIndex = indexCustomDAWAssign + 4
)

// offsets inside a group
const (
	groupChannel = 0
	groupSlider  = 1
	groupKnob    = 7
	groupSolo    = 13
	groupMute    = 19
	groupRecord  = 25
)

// MinSceneDataSize is the shortest scene block Decode accepts
const MinSceneDataSize = (lastLogicalIndex/7)*8 + lastLogicalIndex%7 + 2

// IndexToDataDumpIndex maps a logical scene index to its position in the
// packed block. Every group of 8 packed bytes starts with a reserved byte
// followed by 7 data bytes.
func IndexToDataDumpIndex(i int) int {
	return (i/7)*8 + i%7 + 1
}

type sceneReader []byte

func (r sceneReader) at(i int) uint8 {
	return r[IndexToDataDumpIndex(i)]
}

func (r sceneReader) slider(i int) SliderParameters {
	return SliderParameters{
		AssignType: ParseSliderAssignType(r.at(i)),
		NoteNumber: r.at(i + 2),
		MinValue:   r.at(i + 3),
		MaxValue:   r.at(i + 4),
	}
}

func (r sceneReader) button(i int) ButtonParameters {
	return ButtonParameters{
		AssignType: ParseButtonAssignType(r.at(i)),
		Behavior:   ParseButtonBehavior(r.at(i + 1)),
		NoteNumber: r.at(i + 2),
		OffValue:   r.at(i + 3),
		OnValue:    r.at(i + 4),
	}
}

func (r sceneReader) group(i int) ControllerGroupParameters {
	return ControllerGroupParameters{
		Channel: ParseMidiChannel(r.at(i + groupChannel)),
		Slider:  r.slider(i + groupSlider),
		Knob:    r.slider(i + groupKnob),
		Solo:    r.button(i + groupSolo),
		Mute:    r.button(i + groupMute),
		Record:  r.button(i + groupRecord),
	}
}

// Decode parses the packed scene block that follows the dump header.
// The global channel must be 0-15; every other field decodes to a
// default variant when the byte is out of range.
func Decode(data []byte) (Parameters, error) {
	if len(data) < MinSceneDataSize {
		return Parameters{}, fmt.Errorf("%w: %d bytes, need %d", ErrShortSceneData, len(data), MinSceneDataSize)
	}
	r := sceneReader(data)

	global := r.at(indexGlobalChannel)
	if global >= GlobalChannelWire {
		return Parameters{}, &InvalidGlobalChannelError{Value: global}
	}

	p := Parameters{
		GlobalChannel:    global,
		ControlMode:      ParseControlMode(r.at(indexControlMode)),
		LedMode:          ParseLedMode(r.at(indexLedMode)),
		TransportChannel: ParseMidiChannel(r.at(indexTransportChannel)),
	}
	for i := range p.Groups {
		p.Groups[i] = r.group(indexGroups + i*groupStride)
	}
	for i, b := range TransportButtons() {
		*p.Transport(b) = r.button(indexTransport + i*buttonStride)
	}
	for i := range p.CustomDAWAssign {
		p.CustomDAWAssign[i] = r.at(indexCustomDAWAssign + i)
	}
	return p, nil
}

// DecodeFrame parses a complete data dump frame (F0 ... F7)
func DecodeFrame(frame []byte) (Parameters, error) {
	if len(frame) < DumpHeaderSize+MinSceneDataSize {
		return Parameters{}, fmt.Errorf("%w: frame is %d bytes", ErrShortSceneData, len(frame))
	}
	if frame[0] != SysExStart || frame[1] != ManufacturerID ||
		frame[2]&StatusMask != DeviceStatus ||
		Command(frame[HeaderSize]) != CommandDataDump ||
		Function(frame[DumpHeaderSize-1]) != FunctionSceneDataDump {
		return Parameters{}, ErrBadFrameHeader
	}
	return Decode(frame[DumpHeaderSize:])
}

// DecodeDump parses a classified data dump event. Its payload starts
// with the scene dump function byte.
func DecodeDump(ev SystemExclusive) (Parameters, error) {
	if Command(ev.Command) != CommandDataDump || len(ev.Payload) == 0 ||
		Function(ev.Payload[0]) != FunctionSceneDataDump {
		return Parameters{}, ErrNotSceneDump
	}
	return Decode(ev.Payload[1:])
}

type sceneWriter []byte

func (w sceneWriter) set(i int, v uint8) {
	w[IndexToDataDumpIndex(i)] = v & 0x7F
}

func (w sceneWriter) slider(i int, s SliderParameters) {
	w.set(i, s.AssignType.Byte())
	w.set(i+2, s.NoteNumber)
	w.set(i+3, s.MinValue)
	w.set(i+4, s.MaxValue)
}

func (w sceneWriter) button(i int, b ButtonParameters) {
	w.set(i, b.AssignType.Byte())
	w.set(i+1, b.Behavior.Byte())
	w.set(i+2, b.NoteNumber)
	w.set(i+3, b.OffValue)
	w.set(i+4, b.OnValue)
}

func (w sceneWriter) group(i int, g ControllerGroupParameters) {
	w.set(i+groupChannel, g.Channel.Byte())
	w.slider(i+groupSlider, g.Slider)
	w.slider(i+groupKnob, g.Knob)
	w.button(i+groupSolo, g.Solo)
	w.button(i+groupMute, g.Mute)
	w.button(i+groupRecord, g.Record)
}

// Encode packs a scene. Reserved and unused bytes are zero and every
// value is masked to 7 bits.
func Encode(p *Parameters) [SceneDataSize]byte {
	var out [SceneDataSize]byte
	w := sceneWriter(out[:])

	w.set(indexGlobalChannel, p.GlobalChannel&ChannelMask)
	w.set(indexControlMode, p.ControlMode.Byte())
	w.set(indexLedMode, p.LedMode.Byte())
	for i, g := range p.Groups {
		w.group(indexGroups+i*groupStride, g)
	}
	w.set(indexTransportChannel, p.TransportChannel.Byte())
	for i, b := range TransportButtons() {
		w.button(indexTransport+i*buttonStride, *p.Transport(b))
	}
	for i, v := range p.CustomDAWAssign {
		w.set(indexCustomDAWAssign+i, v)
	}
	return out
}

// EncodeFrame builds the outbound scene dump:
// F0 42 4g 00 01 13 00 7F 7F 02 03 05 40 <scene> F7
func EncodeFrame(globalChannel uint8, p *Parameters) []byte {
	frame := make([]byte, 0, DumpFrameSize)
	frame = append(frame, header(globalChannel)...)
	frame = append(frame,
		byte(CommandDataDump),
		extendedLength,
		extendedMarker,
		byte(SceneDataSize>>7),
		byte(SceneDataSize&0x7F),
		byte(FunctionSceneDataDump),
	)
	data := Encode(p)
	frame = append(frame, data[:]...)
	return append(frame, SysExEnd)
}
