package midi

import (
	"errors"
	"testing"

	"nanokontrol/korg"
)

func TestNanoKontrol_Receive(t *testing.T) {
	nk, err := NewNanoKontrol("test", nil, nil)
	if err != nil {
		t.Fatalf("NewNanoKontrol: %v", err)
	}
	defer nk.Close()

	nk.receive([]byte{0xB0, 0x10, 0x40}, 5)
	nk.receive([]byte{0x90, 0x40, 0x7F}, 6) // note on, ignored
	nk.receive([]byte{0xF0, 0x42, 0x40, 0x00, 0x01, 0x13, 0x00, 0x5F, 0x23, 0x00, 0xF7}, 7)

	select {
	case cc := <-nk.ControlChanges():
		if cc != (korg.ControlChange{Timestamp: 5, Channel: 0, Controller: 0x10, Value: 0x40}) {
			t.Errorf("cc = %+v", cc)
		}
	default:
		t.Fatal("no control change delivered")
	}

	select {
	case sx := <-nk.SysEx():
		if sx.Command != 0x5F || sx.Timestamp != 7 {
			t.Errorf("sysex = %+v", sx)
		}
	default:
		t.Fatal("no sysex delivered")
	}

	if len(nk.ControlChanges()) != 0 || len(nk.SysEx()) != 0 {
		t.Error("ignored message was delivered")
	}
}

func TestNanoKontrol_DropsWhenFull(t *testing.T) {
	nk, _ := NewNanoKontrol("test", nil, nil)
	defer nk.Close()

	for i := 0; i < cap(nk.ccChan)+3; i++ {
		nk.receive([]byte{0xB0, 0x00, byte(i & 0x7F)}, 0)
	}
	if got := nk.Dropped(); got != 3 {
		t.Errorf("Dropped() = %d, expected 3", got)
	}
}

func TestNanoKontrol_SendAndClose(t *testing.T) {
	nk, _ := NewNanoKontrol("test", nil, nil)

	if err := nk.Send(korg.ModeRequest(0)); !errors.Is(err, ErrNoOutput) {
		t.Errorf("Send without output: err = %v, expected ErrNoOutput", err)
	}

	if err := nk.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := nk.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := nk.Send(korg.ModeRequest(0)); !errors.Is(err, ErrClosed) {
		t.Errorf("Send after close: err = %v, expected ErrClosed", err)
	}

	// late driver callbacks must not panic on the closed channels
	nk.receive([]byte{0xB0, 0x00, 0x01}, 0)

	if _, ok := <-nk.ControlChanges(); ok {
		t.Error("control change channel still open")
	}
}

func TestPickPort(t *testing.T) {
	names := []string{
		"Midi Through Port-0",
		"nanoKONTROL2:nanoKONTROL2 MIDI 1 20:0",
		"nanoKONTROL2 CTRL",
	}
	testCases := []struct {
		want     string
		expected int
	}{
		{"nanoKONTROL2 CTRL", 2},
		{"nanokontrol2 ctrl", 2},
		{"nanoKONTROL2", 1},
		{"midi through", 0},
		{"launchpad", -1},
		{"", -1},
	}
	for _, tc := range testCases {
		if got := pickPort(names, tc.want); got != tc.expected {
			t.Errorf("pickPort(%q) = %d, expected %d", tc.want, got, tc.expected)
		}
	}
}
