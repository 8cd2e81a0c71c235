// Package display encodes the countdown digit for a single seven-segment
// display. Segment order follows the usual wiring convention: top,
// top-right, bottom-right, bottom, bottom-left, top-left, middle.
package display

import "github.com/sweeney/signal-sequencer/internal/logic"

// Pattern is the on/off state of the seven segments.
type Pattern [7]bool

// Blank is the all-off pattern.
var Blank Pattern

// digits maps each decimal digit to its segment pattern.
var digits = [10]Pattern{
	{true, true, true, true, true, true, false},
	{false, true, true, false, false, false, false},
	{true, true, false, true, true, false, true},
	{true, true, true, true, false, false, true},
	{false, true, true, false, false, true, true},
	{true, false, true, true, false, true, true},
	{true, false, true, true, true, true, true},
	{true, true, true, false, false, false, false},
	{true, true, true, true, true, true, true},
	{true, true, true, false, false, true, true},
}

// Encode returns the segment pattern for a digit. Values outside 0..9
// return the blank pattern.
func Encode(digit int) Pattern {
	if digit < 0 || digit > 9 {
		return Blank
	}
	return digits[digit]
}

// ForOutput renders the controller output to a segment pattern, blanking
// the display whenever the digit is not visible.
func ForOutput(out logic.Output) Pattern {
	if !out.DigitVisible {
		return Blank
	}
	return Encode(out.Digit)
}
