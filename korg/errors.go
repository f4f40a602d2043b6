package korg

import (
	"errors"
	"fmt"
)

var (
	ErrShortSceneData = errors.New("scene data too short")
	ErrBadFrameHeader = errors.New("not a scene data dump frame")
	ErrNotSceneDump   = errors.New("sysex event is not a scene data dump")
)

// InvalidGlobalChannelError is returned when a dump carries a global
// channel outside 0-15.
type InvalidGlobalChannelError struct {
	Value uint8
}

func (e *InvalidGlobalChannelError) Error() string {
	return fmt.Sprintf("invalid global channel %d, expected 0-15", e.Value)
}
