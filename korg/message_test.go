package korg

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestClassify_ControlChange(t *testing.T) {
	ev, ok := Classify([]byte{0xB3, 0x07, 0x40}, 42)
	if !ok {
		t.Fatal("expected event, got ignored")
	}
	want := ControlChange{Timestamp: 42, Channel: 3, Controller: 7, Value: 0x40}
	if diff := cmp.Diff(want, ev); diff != "" {
		t.Errorf("Classify mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_TwoByteSysEx(t *testing.T) {
	raw := []byte{0xF0, 0x42, 0x40, 0, 0, 0, 0, 0x1F, 0x10, 0x05, 0xF7}
	ev, ok := Classify(raw, 7)
	if !ok {
		t.Fatal("expected event, got ignored")
	}
	want := SystemExclusive{Timestamp: 7, Channel: 0, Command: 0x1F, Payload: []byte{0x10, 0x05}}
	if diff := cmp.Diff(want, ev); diff != "" {
		t.Errorf("Classify mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_VariableLength(t *testing.T) {
	raw := []byte{0xF0, 0x42, 0x45, 0x00, 0x01, 0x13, 0x00, 0x7F, 0x03, 0x01, 0x02, 0x03, 0xF7}
	ev, ok := Classify(raw, 0)
	if !ok {
		t.Fatal("expected event, got ignored")
	}
	sx := ev.(SystemExclusive)
	if sx.Channel != 5 {
		t.Errorf("channel = %d, expected 5", sx.Channel)
	}
	if diff := cmp.Diff([]byte{0x01, 0x02, 0x03}, sx.Payload); diff != "" {
		t.Errorf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_ExtendedLength(t *testing.T) {
	const n = 200 // (1<<7)|72
	raw := []byte{0xF0, 0x42, 0x40, 0x00, 0x01, 0x13, 0x00, 0x7F, 0x7F, 0x02, 0x01, 0x48}
	for i := 0; i < n; i++ {
		raw = append(raw, byte(i&0x7F))
	}
	raw = append(raw, 0xF7)

	ev, ok := Classify(raw, 0)
	if !ok {
		t.Fatal("expected event, got ignored")
	}
	sx := ev.(SystemExclusive)
	if len(sx.Payload) != n {
		t.Fatalf("payload length = %d, expected %d", len(sx.Payload), n)
	}
	if sx.Payload[0] != 0 || sx.Payload[n-1] != byte((n-1)&0x7F) {
		t.Errorf("payload not taken from the right offset: first=%#x last=%#x", sx.Payload[0], sx.Payload[n-1])
	}
}

func TestClassify_DeviceSceneDump(t *testing.T) {
	p := DefaultParameters()
	data := Encode(&p)

	// the controller counts the function byte in the length: 1 + 388
	raw := []byte{0xF0, 0x42, 0x40, 0x00, 0x01, 0x13, 0x00, 0x7F, 0x7F, 0x02, 0x03, 0x05, 0x40}
	raw = append(raw, data[:388]...)
	raw = append(raw, 0xF7)

	ev, ok := Classify(raw, 0)
	if !ok {
		t.Fatal("expected event, got ignored")
	}
	got, err := DecodeDump(ev.(SystemExclusive))
	if err != nil {
		t.Fatalf("DecodeDump: %v", err)
	}
	if diff := cmp.Diff(p, got, cmp.AllowUnexported(MidiChannel{})); diff != "" {
		t.Errorf("scene mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_Ignored(t *testing.T) {
	testCases := []struct {
		name string
		raw  []byte
	}{
		{"Empty", nil},
		{"Truncated CC", []byte{0xB3, 0x07}},
		{"Note on", []byte{0x90, 0x40, 0x7F}},
		{"Wrong manufacturer", []byte{0xF0, 0x41, 0x40, 0, 0, 0, 0, 0x1F, 0x10, 0x05, 0xF7}},
		{"Bad device byte", []byte{0xF0, 0x42, 0x30, 0, 0, 0, 0, 0x1F, 0x10, 0x05, 0xF7}},
		{"Short header", []byte{0xF0, 0x42, 0x40, 0, 0}},
		{"No command", []byte{0xF0, 0x42, 0x40, 0, 0, 0, 0}},
		{"Two-byte truncated", []byte{0xF0, 0x42, 0x40, 0, 0, 0, 0, 0x1F, 0x10}},
		{"Missing terminator", []byte{0xF0, 0x42, 0x40, 0, 0, 0, 0, 0x1F, 0x10, 0x05}},
		{"Wrong terminator", []byte{0xF0, 0x42, 0x40, 0, 0, 0, 0, 0x1F, 0x10, 0x05, 0x00}},
		{"Variable no length", []byte{0xF0, 0x42, 0x40, 0, 0, 0, 0, 0x7F}},
		{"Variable short payload", []byte{0xF0, 0x42, 0x40, 0, 0, 0, 0, 0x7F, 0x05, 0x01, 0xF7}},
		{"Extended bad marker", []byte{0xF0, 0x42, 0x40, 0, 0, 0, 0, 0x7F, 0x7F, 0x03, 0x00, 0x01, 0x01, 0xF7}},
		{"Extended missing lsb", []byte{0xF0, 0x42, 0x40, 0, 0, 0, 0, 0x7F, 0x7F, 0x02, 0x00}},
		{"Extended terminator misplaced", []byte{0xF0, 0x42, 0x40, 0, 0, 0, 0, 0x7F, 0x7F, 0x02, 0x00, 0x01, 0x01, 0x02, 0xF7}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if ev, ok := Classify(tc.raw, 0); ok {
				t.Errorf("Classify(% X) = %#v, expected ignored", tc.raw, ev)
			}
		})
	}
}

func TestClassify_PayloadIsCopied(t *testing.T) {
	raw := []byte{0xF0, 0x42, 0x40, 0, 0, 0, 0, 0x1F, 0x10, 0x05, 0xF7}
	ev, _ := Classify(raw, 0)
	raw[8] = 0x00
	if got := ev.(SystemExclusive).Payload[0]; got != 0x10 {
		t.Errorf("payload aliases input buffer: got %#x", got)
	}
}
