package widgets

import (
	"strings"
	"testing"

	"nanokontrol/korg"
	"nanokontrol/theme"
)

func TestFilledCells(t *testing.T) {
	testCases := []struct {
		v        uint8
		height   int
		expected int
	}{
		{0, 8, 0},
		{1, 8, 1},
		{15, 8, 1},
		{16, 8, 1},
		{64, 8, 4},
		{127, 8, 8},
		{0xFF, 8, 8},
		{100, 0, 0},
	}
	for _, tc := range testCases {
		if got := FilledCells(tc.v, tc.height); got != tc.expected {
			t.Errorf("FilledCells(%d, %d) = %d, expected %d", tc.v, tc.height, got, tc.expected)
		}
	}
}

func TestRenderFader(t *testing.T) {
	th := theme.New(theme.Default())
	out := RenderFader(th, 64, FaderHeight)
	lines := strings.Split(out, "\n")
	if len(lines) != FaderHeight {
		t.Fatalf("fader has %d lines, expected %d", len(lines), FaderHeight)
	}
	if !strings.Contains(lines[0], "░") || !strings.Contains(lines[FaderHeight-1], "█") {
		t.Errorf("fader not filled from the bottom:\n%s", out)
	}
}

func TestRenderButton(t *testing.T) {
	th := theme.New(theme.Default())
	b := korg.ButtonParameters{AssignType: korg.ButtonControlChange, OnValue: 127}

	if got := RenderButton(th, "S", b, 127); !strings.Contains(got, "●") {
		t.Errorf("pressed button = %q", got)
	}
	if got := RenderButton(th, "S", b, 0); !strings.Contains(got, "○") {
		t.Errorf("released button = %q", got)
	}
	b.AssignType = korg.ButtonNoAssign
	if got := RenderButton(th, "S", b, 127); !strings.Contains(got, "·") {
		t.Errorf("unassigned button = %q", got)
	}
}

func TestRenderSurface(t *testing.T) {
	th := theme.New(theme.Default())
	p := korg.DefaultParameters()
	var s korg.ControlState
	s.Transport[korg.Play] = 127

	transport := RenderTransport(th, &p, &s)
	for _, b := range korg.TransportButtons() {
		if !strings.Contains(transport, b.String()) {
			t.Errorf("transport line missing %s: %q", b, transport)
		}
	}
	if !strings.Contains(transport, "play ●") {
		t.Errorf("play not shown pressed: %q", transport)
	}

	strips := RenderStrips(th, &p, &s, 2)
	for _, label := range []string{"1 global", "8 global"} {
		if !strings.Contains(strips, label) {
			t.Errorf("strips missing %q", label)
		}
	}

	summary := RenderSceneSummary(th, &p)
	if !strings.Contains(summary, "mode cc") || !strings.Contains(summary, "led internal") {
		t.Errorf("summary = %q", summary)
	}
}
