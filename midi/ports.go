package midi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nanokontrol/config"
	"nanokontrol/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

var (
	ErrPortNotFound = errors.New("midi port not found")
	ErrScanTimeout  = errors.New("midi port scan timed out")
)

// Ports is a snapshot of the system's MIDI ports
type Ports struct {
	In  []drivers.In
	Out []drivers.Out
}

// ScanPorts lists MIDI ports. The driver call runs in its own goroutine
// because CoreMIDI can hang; the scan gives up after timeout.
func ScanPorts(ctx context.Context, timeout time.Duration) (Ports, error) {
	ch := make(chan Ports, 1)
	go func() {
		ch <- Ports{In: gomidi.GetInPorts(), Out: gomidi.GetOutPorts()}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case ports := <-ch:
		return ports, nil
	case <-timer.C:
		// CoreMIDI is hung, fix: sudo killall coreaudiod midiserver
		return Ports{}, ErrScanTimeout
	case <-ctx.Done():
		return Ports{}, ctx.Err()
	}
}

// InNames returns the input port names
func (p Ports) InNames() []string {
	names := make([]string, len(p.In))
	for i, in := range p.In {
		names[i] = in.String()
	}
	return names
}

// OutNames returns the output port names
func (p Ports) OutNames() []string {
	names := make([]string, len(p.Out))
	for i, out := range p.Out {
		names[i] = out.String()
	}
	return names
}

// FindIn returns the input port matching name
func (p Ports) FindIn(name string) (drivers.In, error) {
	i := pickPort(p.InNames(), name)
	if i < 0 {
		return nil, fmt.Errorf("%w: input %q", ErrPortNotFound, name)
	}
	return p.In[i], nil
}

// FindOut returns the output port matching name
func (p Ports) FindOut(name string) (drivers.Out, error) {
	i := pickPort(p.OutNames(), name)
	if i < 0 {
		return nil, fmt.Errorf("%w: output %q", ErrPortNotFound, name)
	}
	return p.Out[i], nil
}

// pickPort prefers an exact (case-insensitive) name and falls back to the
// first name containing want.
func pickPort(names []string, want string) int {
	want = strings.ToLower(strings.TrimSpace(want))
	if want == "" {
		return -1
	}
	for i, n := range names {
		if strings.ToLower(n) == want {
			return i
		}
	}
	for i, n := range names {
		if strings.Contains(strings.ToLower(n), want) {
			return i
		}
	}
	return -1
}

// Open scans for the configured ports and connects to the controller.
// There is no reconnect: if the device goes away, open it again.
func Open(ctx context.Context, cfg config.DeviceConfig) (*NanoKontrol, error) {
	ports, err := ScanPorts(ctx, cfg.ScanTimeout())
	if err != nil {
		return nil, err
	}

	in, err := ports.FindIn(cfg.InputPort)
	if err != nil {
		return nil, err
	}
	out, err := ports.FindOut(cfg.OutputPort)
	if err != nil {
		return nil, err
	}

	debug.Log("ports", "in=%q out=%q", in.String(), out.String())
	return NewNanoKontrol(in.String(), in, out)
}

// CloseDriver releases the MIDI driver; call once on exit
func CloseDriver() {
	gomidi.CloseDriver()
}
