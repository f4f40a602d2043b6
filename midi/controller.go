package midi

import (
	"errors"

	"nanokontrol/korg"
)

var (
	ErrClosed   = errors.New("controller closed")
	ErrNoOutput = errors.New("controller has no output port")
)

// Sender is the only thing the session needs from a transport to talk
// to the controller.
type Sender interface {
	Send(raw []byte) error
}

// Controller is a connected nanoKONTROL2
type Controller interface {
	Sender

	ID() string

	// Classified input from the controller. Messages the classifier
	// ignores never show up here.
	ControlChanges() <-chan korg.ControlChange
	SysEx() <-chan korg.SystemExclusive

	// Lifecycle
	Close() error
}
