// Package gpio provides GPIO access for the operator panel and the signal
// head, with hardware abstraction. The real implementations use the Linux
// GPIO character device; the fakes allow testing without hardware.
package gpio

import (
	"github.com/sweeney/signal-sequencer/internal/display"
	"github.com/sweeney/signal-sequencer/internal/logic"
)

// Sample is one raw reading of the operator input lines.
type Sample struct {
	Enable     bool
	ModeManual bool // true = manual, false = automatic
	Pause      bool
	Step       bool
	Reset      bool
}

// Reader reads the operator input lines.
type Reader interface {
	// Read returns the current levels of the five input lines.
	Read() (Sample, error)

	// Close releases GPIO resources.
	Close() error
}

// Frame is one rendered output state for the signal head.
type Frame struct {
	NS       logic.Light
	EW       logic.Light
	Segments display.Pattern
}

// Panel drives the signal head: two light groups and the countdown digit.
type Panel interface {
	// Render applies the frame to the output lines.
	Render(Frame) error

	// Close blanks the head and releases GPIO resources.
	Close() error
}

// Input pin definitions (BCM numbering).
const (
	PinEnable = 23 // enable switch
	PinMode   = 24 // mode switch, high = manual
	PinPause  = 18 // pause button
	PinStep   = 15 // step button
	PinReset  = 14 // reset button
)

// Output pin definitions (BCM numbering), each group ordered
// red, yellow, green.
var (
	PinsNS = [3]int{17, 27, 22}
	PinsEW = [3]int{5, 6, 13}

	// Segment pins in display.Pattern order.
	PinsSegments = [7]int{12, 16, 20, 21, 26, 19, 25}
)
