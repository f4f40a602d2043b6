package korg

import "fmt"

// Command is the byte after the header: 0dvmmmmm, d = direction,
// v = data format, mmmmm = command number.
type Command uint8

const (
	CommandNativeModeInOutRequest Command = 0x00
	CommandDataDumpRequest        Command = 0x1F
	CommandNativeModeInOut        Command = 0x40
	CommandPacketCommunication    Command = 0x5F
	CommandDataDump               Command = 0x7F
)

func (c Command) String() string {
	switch c {
	case CommandNativeModeInOutRequest:
		return "native-mode-request"
	case CommandDataDumpRequest:
		return "data-dump-request"
	case CommandNativeModeInOut:
		return "native-mode"
	case CommandPacketCommunication:
		return "packet"
	case CommandDataDump:
		return "data-dump"
	}
	return fmt.Sprintf("Command(0x%02X)", uint8(c))
}

// DataFormat is the payload length encoding selected by a command
type DataFormat int

const (
	FormatTwoBytes DataFormat = iota
	FormatVariable
)

func (c Command) Format() DataFormat {
	if uint8(c)&variableFormatBit != 0 {
		return FormatVariable
	}
	return FormatTwoBytes
}

// Function is the first payload byte of a command
type Function uint8

// Host to controller
const (
	FunctionCurrentSceneDataDumpRequest Function = 0x10
	FunctionSceneWriteRequest           Function = 0x11
	FunctionModeRequest                 Function = 0x12
)

// Controller to host (and the data dump in both directions)
const (
	FunctionWriteCompleted    Function = 0x21
	FunctionWriteError        Function = 0x22
	FunctionDataLoadCompleted Function = 0x23
	FunctionDataLoadError     Function = 0x24
	FunctionSceneDataDump     Function = 0x40
	FunctionModeData          Function = 0x42
)

func (f Function) String() string {
	switch f {
	case FunctionCurrentSceneDataDumpRequest:
		return "scene-dump-request"
	case FunctionSceneWriteRequest:
		return "scene-write-request"
	case FunctionModeRequest:
		return "mode-request"
	case FunctionWriteCompleted:
		return "write-completed"
	case FunctionWriteError:
		return "write-error"
	case FunctionDataLoadCompleted:
		return "data-load-completed"
	case FunctionDataLoadError:
		return "data-load-error"
	case FunctionSceneDataDump:
		return "scene-dump"
	case FunctionModeData:
		return "mode-data"
	}
	return fmt.Sprintf("Function(0x%02X)", uint8(f))
}

// IOType is the argument of a native mode request
type IOType uint8

const (
	NativeModeOut IOType = 0x00
	NativeModeIn  IOType = 0x01
)

// Reply is a 2-byte format message such as a write or load acknowledgement
type Reply struct {
	Channel  uint8
	Command  Command
	Function Function
	Data     uint8
}

// ParseReply interprets a 2-byte format SysEx event
func ParseReply(ev SystemExclusive) (Reply, bool) {
	cmd := Command(ev.Command)
	if cmd.Format() != FormatTwoBytes || len(ev.Payload) != 2 {
		return Reply{}, false
	}
	return Reply{
		Channel:  ev.Channel,
		Command:  cmd,
		Function: Function(ev.Payload[0]),
		Data:     ev.Payload[1],
	}, true
}

// OK reports whether the reply acknowledges success
func (r Reply) OK() bool {
	return r.Function != FunctionWriteError && r.Function != FunctionDataLoadError
}

func header(globalChannel uint8) []byte {
	return []byte{
		SysExStart,
		ManufacturerID,
		DeviceStatus | globalChannel&ChannelMask,
		0x00, projectHigh, projectLow, 0x00,
	}
}

func twoByteMessage(globalChannel uint8, cmd Command, fn Function, data uint8) []byte {
	msg := header(globalChannel)
	return append(msg, byte(cmd), byte(fn), data, SysExEnd)
}

// CurrentSceneDataDumpRequest asks the controller to send its scene:
// F0 42 4g 00 01 13 00 1F 10 00 F7
func CurrentSceneDataDumpRequest(globalChannel uint8) []byte {
	return twoByteMessage(globalChannel, CommandDataDumpRequest, FunctionCurrentSceneDataDumpRequest, 0x00)
}

// SceneWriteRequest asks the controller to store the current scene
func SceneWriteRequest(globalChannel uint8) []byte {
	return twoByteMessage(globalChannel, CommandDataDumpRequest, FunctionSceneWriteRequest, 0x00)
}

// ModeRequest asks the controller for its current mode
func ModeRequest(globalChannel uint8) []byte {
	return twoByteMessage(globalChannel, CommandDataDumpRequest, FunctionModeRequest, 0x00)
}

// NativeModeRequest switches native mode in or out
func NativeModeRequest(globalChannel uint8, io IOType) []byte {
	return twoByteMessage(globalChannel, CommandNativeModeInOutRequest, 0x00, byte(io))
}
