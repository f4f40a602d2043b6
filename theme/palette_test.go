package theme

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const testGPL = `GIMP Palette
Name: Mono
Columns: 2
# black to white
  0   0   0	Black
255 255 255	White
300 -4 12	Out of range
`

func TestReadGPL(t *testing.T) {
	p, err := ReadGPL(strings.NewReader(testGPL))
	if err != nil {
		t.Fatalf("ReadGPL: %v", err)
	}
	want := &Palette{
		Name:   "Mono",
		Colors: []RGB{{0, 0, 0}, {255, 255, 255}, {255, 0, 12}},
	}
	if diff := cmp.Diff(want, p); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestReadGPL_Empty(t *testing.T) {
	if _, err := ReadGPL(strings.NewReader("GIMP Palette\nName: none\n")); err == nil {
		t.Error("expected error for palette without colors")
	}
}

func TestLookup(t *testing.T) {
	p := &Palette{Colors: []RGB{{0, 0, 0}, {255, 255, 255}}}

	if got := p.Lookup(-1); got != (RGB{0, 0, 0}) {
		t.Errorf("Lookup(-1) = %v", got)
	}
	if got := p.Lookup(2); got != (RGB{255, 255, 255}) {
		t.Errorf("Lookup(2) = %v", got)
	}

	// Lab blending of greys stays grey and moves monotonically
	prev := -1
	for _, n := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		c := p.Lookup(n)
		if absDiff(c[0], c[1]) > 1 || absDiff(c[1], c[2]) > 1 {
			t.Errorf("Lookup(%v) = %v, expected a grey", n, c)
		}
		if int(c[0]) <= prev {
			t.Errorf("Lookup(%v) = %v, not brighter than previous", n, c)
		}
		prev = int(c[0])
	}
}

func TestIndexAndHex(t *testing.T) {
	p := Default()
	if p.Index(-3) != p.Colors[0] || p.Index(99) != p.Colors[len(p.Colors)-1] {
		t.Error("Index does not clamp")
	}
	if got := (RGB{0x1a, 0x1b, 0x2e}).Hex(); got != "#1a1b2e" {
		t.Errorf("Hex = %q", got)
	}
}

func TestLoadOrDefault(t *testing.T) {
	p, err := LoadOrDefault("")
	if err != nil || p.Name != "dusk" {
		t.Fatalf("LoadOrDefault(\"\") = %v, %v", p, err)
	}
	if _, err := LoadOrDefault("/nonexistent/palette.gpl"); err == nil {
		t.Error("expected error for missing file")
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
