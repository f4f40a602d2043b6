package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLog(t *testing.T) {
	dir := t.TempDir()
	if err := Enable(dir); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	defer Disable()

	Log("sysex", "dump %d", 1)
	Bytes("rx", "cc", []byte{0xB0, 0x01, 0x7F})
	for i := 0; i < 4; i++ {
		LogEvery(2, "cc", "slider")
	}

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	for _, want := range []string{"dump 1", "cc B0 01 7F (3 bytes)", "slider (every 2, count=2)", "slider (every 2, count=4)"} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestLog_Disabled(t *testing.T) {
	Disable()
	if Enabled() {
		t.Fatal("still enabled")
	}
	Log("x", "ignored") // must not panic
}

func TestLogEvery_NonPositive(t *testing.T) {
	dir := t.TempDir()
	if err := Enable(dir); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	defer Disable()

	for _, n := range []int{0, -3} {
		LogEvery(n, "knob", "turn")
	}

	data, err := os.ReadFile(filepath.Join(dir, "debug.log"))
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), "turn (every 1"); got != 2 {
		t.Errorf("logged %d lines, expected 2:\n%s", got, data)
	}
}
