package tui

import (
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"nanokontrol/korg"
	"nanokontrol/midi"
	"nanokontrol/surface"
	"nanokontrol/theme"
)

type recorder struct {
	mu   sync.Mutex
	sent [][]byte
}

func (r *recorder) Send(raw []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, append([]byte(nil), raw...))
	return nil
}

func newTestModel() (Model, *recorder, *surface.Session) {
	rec := &recorder{}
	s := surface.NewSession(rec, 0)
	return NewModel(s, "test", theme.New(theme.Default()), nil, false), rec, s
}

func press(m Model, key string) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return next.(Model)
}

func TestModel_Keys(t *testing.T) {
	m, rec, _ := newTestModel()

	m = press(m, "r")
	m = press(m, "m")
	m = press(m, "n")

	want := [][]byte{
		korg.CurrentSceneDataDumpRequest(0),
		korg.ModeRequest(0),
		korg.NativeModeRequest(0, korg.NativeModeIn),
	}
	if diff := cmp.Diff(want, rec.sent); diff != "" {
		t.Errorf("sent mismatch (-want +got):\n%s", diff)
	}
	if m.status != "native mode in" {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_WriteFactoryScene(t *testing.T) {
	m, rec, s := newTestModel()
	m = press(m, "f")

	p := korg.DefaultParameters()
	if diff := cmp.Diff(korg.EncodeFrame(0, &p), rec.sent[len(rec.sent)-1]); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
	if s.Snapshot().Write != surface.WriteLoading {
		t.Errorf("write state = %v", s.Snapshot().Write)
	}

	m = press(m, "f")
	if !strings.Contains(m.status, surface.ErrWriteBusy.Error()) {
		t.Errorf("status = %q, expected busy error", m.status)
	}
}

func TestModel_Disconnect(t *testing.T) {
	m, _, _ := newTestModel()
	next, _ := m.Update(RunDoneMsg{Err: midi.ErrClosed})
	m = next.(Model)

	if !errors.Is(m.lost, midi.ErrClosed) {
		t.Errorf("lost = %v", m.lost)
	}
	if !strings.Contains(m.View(), "controller disconnected") {
		t.Error("view does not report the disconnect")
	}
}

func TestModel_View(t *testing.T) {
	m, _, s := newTestModel()
	s.HandleControlChange(korg.ControlChange{Channel: 0, Controller: 17, Value: 90})

	view := m.View()
	for _, want := range []string{"nanokontrol  test", "factory scene", "last: knob2 = 90", "q:quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}

	m = press(m, "q")
	if m.View() != "" {
		t.Error("view not empty after quit")
	}
}
