package surface

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"nanokontrol/debug"
	"nanokontrol/korg"
	"nanokontrol/midi"

	gomidi "gitlab.com/gomidi/midi/v2"
)

var (
	ErrWriteBusy    = errors.New("a scene write is already in progress")
	ErrWriteTimeout = errors.New("controller did not acknowledge the scene write")
)

// DefaultWriteTimeout is how long each step of a scene write may wait for
// the controller's reply
const DefaultWriteTimeout = 3 * time.Second

// WriteState tracks the two-step scene write: the dump is loaded into the
// controller's edit buffer, then a write request stores it.
type WriteState int

const (
	WriteIdle WriteState = iota
	WriteLoading
	WriteStoring
	WriteDone
	WriteFailed
)

func (w WriteState) String() string {
	switch w {
	case WriteLoading:
		return "loading"
	case WriteStoring:
		return "storing"
	case WriteDone:
		return "written"
	case WriteFailed:
		return "failed"
	}
	return "idle"
}

// Session keeps the host-side view of one controller
type Session struct {
	sender midi.Sender

	mu            sync.RWMutex
	globalChannel uint8
	scene         korg.Parameters
	hasScene      bool
	controls      korg.ControlState
	lastControl   korg.Control
	hasControl    bool
	lastReply     korg.Reply
	hasReply      bool
	lastErr       error

	write         WriteState
	pending       korg.Parameters
	writeDeadline time.Time

	// WriteTimeout bounds each write step; zero means DefaultWriteTimeout
	WriteTimeout time.Duration
	now          func() time.Time

	// Notify TUI of updates
	UpdateChan chan struct{}
}

// NewSession creates a session. Until a scene is received the factory
// scene is used to map control changes.
func NewSession(sender midi.Sender, globalChannel uint8) *Session {
	return &Session{
		sender:        sender,
		globalChannel: globalChannel & korg.ChannelMask,
		scene:         korg.DefaultParameters(),
		now:           time.Now,
		UpdateChan:    make(chan struct{}, 1),
	}
}

func (s *Session) notify() {
	select {
	case s.UpdateChan <- struct{}{}:
	default:
	}
}

func (s *Session) writeInFlight() bool {
	return s.write == WriteLoading || s.write == WriteStoring
}

// armWrite starts the deadline for the current write step. Caller holds mu.
func (s *Session) armWrite() {
	timeout := s.WriteTimeout
	if timeout <= 0 {
		timeout = DefaultWriteTimeout
	}
	s.writeDeadline = s.now().Add(timeout)
}

// writeExpired reports an in-flight write whose reply never came. Caller
// holds mu (read or write).
func (s *Session) writeExpired() bool {
	return s.writeInFlight() && !s.now().Before(s.writeDeadline)
}

// expireWrite fails a write that ran past its deadline. Caller holds mu.
func (s *Session) expireWrite() {
	if s.writeExpired() {
		debug.Log("session", "scene write timed out while %s", s.write)
		s.write = WriteFailed
		s.lastErr = ErrWriteTimeout
	}
}

func (s *Session) channel() uint8 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.globalChannel
}

func (s *Session) send(what string, raw []byte) error {
	if err := s.sender.Send(raw); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	debug.Log("session", "sent %s", what)
	return nil
}

// RequestScene asks the controller for its current scene
func (s *Session) RequestScene() error {
	return s.send("scene dump request", korg.CurrentSceneDataDumpRequest(s.channel()))
}

// RequestMode asks the controller which mode it is in
func (s *Session) RequestMode() error {
	return s.send("mode request", korg.ModeRequest(s.channel()))
}

// SetNativeMode switches the controller's native mode in or out
func (s *Session) SetNativeMode(on bool) error {
	io := korg.NativeModeOut
	if on {
		io = korg.NativeModeIn
	}
	return s.send("native mode request", korg.NativeModeRequest(s.channel(), io))
}

// WriteScene uploads p and, once the controller confirms the load, asks
// it to store the scene. A write that got no reply within WriteTimeout
// no longer blocks a new one.
func (s *Session) WriteScene(p korg.Parameters) error {
	s.mu.Lock()
	s.expireWrite()
	if s.writeInFlight() {
		s.mu.Unlock()
		return ErrWriteBusy
	}
	s.write = WriteLoading
	s.pending = p
	s.armWrite()
	ch := s.globalChannel
	s.mu.Unlock()

	if err := s.send("scene dump", korg.EncodeFrame(ch, &p)); err != nil {
		s.mu.Lock()
		s.write = WriteFailed
		s.lastErr = err
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.notify()
	return nil
}

// SetLED lights or clears a button. It only has an effect when the
// current scene uses external LED mode.
func (s *Session) SetLED(c korg.Control, on bool) error {
	s.mu.RLock()
	cc, ok := s.scene.LEDMessage(c, on)
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	return s.send("led "+c.String(), gomidi.ControlChange(cc.Channel, cc.Controller, cc.Value).Bytes())
}

// HandleControlChange updates the live control values
func (s *Session) HandleControlChange(ev korg.ControlChange) (korg.Control, bool) {
	s.mu.Lock()
	c, ok := s.controls.Apply(&s.scene, ev)
	if ok {
		s.lastControl = c
		s.hasControl = true
	}
	s.mu.Unlock()

	if ok {
		s.notify()
	}
	return c, ok
}

// HandleSysEx applies a scene dump or a reply. A dump that fails to
// decode leaves the current scene untouched and is returned as an error.
func (s *Session) HandleSysEx(ev korg.SystemExclusive) error {
	defer s.notify()

	if korg.Command(ev.Command) == korg.CommandDataDump {
		p, err := korg.DecodeDump(ev)
		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			s.lastErr = err
			debug.Log("session", "scene dump rejected: %v", err)
			return err
		}
		s.scene = p
		s.hasScene = true
		s.globalChannel = p.GlobalChannel
		s.lastErr = nil
		debug.Log("session", "scene received, global channel %d, mode %s", p.GlobalChannel, p.ControlMode)
		return nil
	}

	r, ok := korg.ParseReply(ev)
	if !ok {
		debug.Log("session", "unhandled sysex command %s", korg.Command(ev.Command))
		return nil
	}
	return s.handleReply(r)
}

func (s *Session) handleReply(r korg.Reply) error {
	s.mu.Lock()
	s.expireWrite()
	s.lastReply = r
	s.hasReply = true
	debug.Log("session", "reply %s data=%d", r.Function, r.Data)

	var next []byte
	switch r.Function {
	case korg.FunctionDataLoadCompleted:
		if s.write == WriteLoading {
			s.write = WriteStoring
			s.armWrite()
			next = korg.SceneWriteRequest(s.globalChannel)
		}
	case korg.FunctionWriteCompleted:
		if s.write == WriteStoring {
			s.write = WriteDone
			s.scene = s.pending
			s.hasScene = true
			s.globalChannel = s.pending.GlobalChannel
		}
	case korg.FunctionDataLoadError, korg.FunctionWriteError:
		if s.writeInFlight() {
			s.write = WriteFailed
			s.lastErr = fmt.Errorf("controller replied %s", r.Function)
		}
	}
	s.mu.Unlock()

	if next == nil {
		return nil
	}
	if err := s.send("scene write request", next); err != nil {
		s.mu.Lock()
		s.write = WriteFailed
		s.lastErr = err
		s.mu.Unlock()
		return err
	}
	return nil
}

// Run feeds controller input into the session until ctx is done or the
// controller is closed.
func (s *Session) Run(ctx context.Context, ctrl midi.Controller) error {
	ccs := ctrl.ControlChanges()
	sysex := ctrl.SysEx()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cc, ok := <-ccs:
			if !ok {
				return midi.ErrClosed
			}
			s.HandleControlChange(cc)
		case ev, ok := <-sysex:
			if !ok {
				return midi.ErrClosed
			}
			// decode errors are kept in Err() for the UI
			s.HandleSysEx(ev)
		}
	}
}

// Snapshot is a consistent copy of the session state
type Snapshot struct {
	GlobalChannel uint8
	Scene         korg.Parameters
	HasScene      bool
	Controls      korg.ControlState
	LastControl   korg.Control
	HasControl    bool
	LastReply     korg.Reply
	HasReply      bool
	Write         WriteState
	Err           error
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	write, err := s.write, s.lastErr
	if s.writeExpired() {
		write, err = WriteFailed, ErrWriteTimeout
	}
	return Snapshot{
		GlobalChannel: s.globalChannel,
		Scene:         s.scene,
		HasScene:      s.hasScene,
		Controls:      s.controls,
		LastControl:   s.lastControl,
		HasControl:    s.hasControl,
		LastReply:     s.lastReply,
		HasReply:      s.hasReply,
		Write:         write,
		Err:           err,
	}
}

// Scene returns the last received scene, and false if none arrived yet
func (s *Session) Scene() (korg.Parameters, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene, s.hasScene
}
