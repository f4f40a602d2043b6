package midi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"nanokontrol/debug"
	"nanokontrol/korg"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// NanoKontrol handles a KORG nanoKONTROL2 on a pair of MIDI ports
type NanoKontrol struct {
	id       string
	inPort   drivers.In
	outPort  drivers.Out
	send     func(msg gomidi.Message) error
	stopFunc func()

	mu     sync.Mutex // guards closed and the channel sends
	closed bool

	ccChan    chan korg.ControlChange
	sysexChan chan korg.SystemExclusive

	dropped atomic.Uint64
}

// NewNanoKontrol opens the given ports. Either port may be nil.
func NewNanoKontrol(id string, inPort drivers.In, outPort drivers.Out) (*NanoKontrol, error) {
	nk := &NanoKontrol{
		id:        id,
		inPort:    inPort,
		outPort:   outPort,
		ccChan:    make(chan korg.ControlChange, 64),
		sysexChan: make(chan korg.SystemExclusive, 8),
	}

	// Open output
	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output %s: %w", outPort, err)
		}
		nk.send = send
	}

	// Open input; scene dumps are SysEx so they have to be enabled
	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			nk.receive(msg.Bytes(), timestampms)
		}, gomidi.UseSysEx())
		if err != nil {
			return nil, fmt.Errorf("open input %s: %w", inPort, err)
		}
		nk.stopFunc = stop
	}

	return nk, nil
}

// receive classifies a raw message and hands it to the matching channel.
// It runs on the driver's goroutine and never blocks: when a reader falls
// behind, events are dropped.
func (nk *NanoKontrol) receive(raw []byte, timestampms int32) {
	ts := uint64(0)
	if timestampms > 0 {
		ts = uint64(timestampms)
	}

	ev, ok := korg.Classify(raw, ts)
	if !ok {
		debug.Bytes("rx-ignore", "", raw)
		return
	}

	nk.mu.Lock()
	defer nk.mu.Unlock()
	if nk.closed {
		return
	}

	switch ev := ev.(type) {
	case korg.ControlChange:
		debug.LogEvery(50, "rx-cc", "ch=%d cc=%d", ev.Channel, ev.Controller)
		select {
		case nk.ccChan <- ev:
		default:
			nk.dropped.Add(1)
		}
	case korg.SystemExclusive:
		debug.Bytes("rx-sysex", korg.Command(ev.Command).String(), raw)
		select {
		case nk.sysexChan <- ev:
		default:
			nk.dropped.Add(1)
			debug.Log("rx-sysex", "dropped %s, reader is behind", korg.Command(ev.Command))
		}
	}
}

func (nk *NanoKontrol) ID() string {
	return nk.id
}

func (nk *NanoKontrol) ControlChanges() <-chan korg.ControlChange {
	return nk.ccChan
}

func (nk *NanoKontrol) SysEx() <-chan korg.SystemExclusive {
	return nk.sysexChan
}

// Dropped returns how many events were discarded because a channel was full
func (nk *NanoKontrol) Dropped() uint64 {
	return nk.dropped.Load()
}

// Send writes a raw message to the controller
func (nk *NanoKontrol) Send(raw []byte) error {
	nk.mu.Lock()
	closed := nk.closed
	nk.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if nk.send == nil {
		return ErrNoOutput
	}

	debug.Bytes("tx", "", raw)
	if err := nk.send(gomidi.Message(raw)); err != nil {
		return fmt.Errorf("send to %s: %w", nk.id, err)
	}
	return nil
}

// SetLED sends a CC to light a button in external LED mode
func (nk *NanoKontrol) SetLED(cc korg.ControlChange) error {
	return nk.Send(gomidi.ControlChange(cc.Channel, cc.Controller, cc.Value).Bytes())
}

func (nk *NanoKontrol) Close() error {
	nk.mu.Lock()
	if nk.closed {
		nk.mu.Unlock()
		return nil
	}
	nk.closed = true
	close(nk.ccChan)
	close(nk.sysexChan)
	nk.mu.Unlock()

	if nk.stopFunc != nil {
		nk.stopFunc()
	}
	return nil
}
