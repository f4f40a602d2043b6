// Package korg decodes and encodes the KORG nanoKONTROL2 MIDI protocol:
// it classifies incoming Control Change and System Exclusive messages and
// converts scene data dumps to and from Parameters.
//
// Everything here is a pure function of its input; the package keeps no
// state between calls and is safe to use from any goroutine.
package korg
