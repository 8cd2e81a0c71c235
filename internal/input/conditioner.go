// Package input conditions raw sampled switch and button levels into the
// clean level/edge signals the controller consumes. Debouncing counts
// consecutive agreeing samples rather than wall-clock time, so the package
// stays pure and quantum-driven like the controller itself.
package input

import (
	"time"

	"github.com/sweeney/signal-sequencer/internal/logic"
)

// Raw is one unconditioned reading of the operator controls.
type Raw struct {
	Enable     bool
	ModeManual bool // true = manual, false = automatic
	Pause      bool
	Step       bool
	Reset      bool
}

// Debouncer tracks one input line and suppresses glitches shorter than the
// configured number of consecutive samples.
type Debouncer struct {
	threshold  int
	stable     bool
	pending    bool
	pendingFor int
	primed     bool
}

// NewDebouncer creates a debouncer that adopts a new level only after it has
// been observed on threshold consecutive samples.
func NewDebouncer(threshold int) *Debouncer {
	if threshold < 1 {
		threshold = 1
	}
	return &Debouncer{threshold: threshold}
}

// Sample feeds one raw level and returns the debounced stable level.
// The very first sample establishes the baseline directly.
func (d *Debouncer) Sample(level bool) bool {
	if !d.primed {
		d.primed = true
		d.stable = level
		d.pending = level
		return d.stable
	}

	if level == d.stable {
		// Glitch returned to the stable level before qualifying.
		d.pending = level
		d.pendingFor = 0
		return d.stable
	}

	if level != d.pending {
		d.pending = level
		d.pendingFor = 0
	}
	d.pendingFor++
	if d.pendingFor >= d.threshold {
		d.stable = level
		d.pendingFor = 0
	}
	return d.stable
}

// EdgeDetector turns a debounced level into one-quantum pulses.
type EdgeDetector struct {
	last bool
}

// Rising returns true exactly once per inactive-to-active transition.
func (e *EdgeDetector) Rising(level bool) bool {
	edge := level && !e.last
	e.last = level
	return edge
}

// Conditioner combines per-line debouncers, edge detection for the two
// momentary buttons, and the divider that derives the once-per-second tick
// from the scheduling quantum.
type Conditioner struct {
	ticksPerSecond int

	enable *Debouncer
	mode   *Debouncer
	pause  *Debouncer
	step   *Debouncer
	reset  *Debouncer

	pauseEdge EdgeDetector
	stepEdge  EdgeDetector

	divider int
}

// NewConditioner creates a conditioner. debounceTicks is the number of
// consecutive agreeing samples a line needs before a new level is accepted;
// ticksPerSecond is the number of scheduling quanta per second.
func NewConditioner(debounceTicks, ticksPerSecond int) *Conditioner {
	if ticksPerSecond < 1 {
		ticksPerSecond = 1
	}
	return &Conditioner{
		ticksPerSecond: ticksPerSecond,
		enable:         NewDebouncer(debounceTicks),
		mode:           NewDebouncer(debounceTicks),
		pause:          NewDebouncer(debounceTicks),
		step:           NewDebouncer(debounceTicks),
		reset:          NewDebouncer(debounceTicks),
	}
}

// Process conditions one raw sample into a controller input for this
// quantum. Called exactly once per quantum.
func (c *Conditioner) Process(raw Raw, now time.Time) logic.Input {
	enabled := c.enable.Sample(raw.Enable)
	manual := c.mode.Sample(raw.ModeManual)
	pause := c.pause.Sample(raw.Pause)
	step := c.step.Sample(raw.Step)
	reset := c.reset.Sample(raw.Reset)

	mode := logic.ModeAutomatic
	if manual {
		mode = logic.ModeManual
	}

	in := logic.Input{
		Time:      now,
		Reset:     reset,
		Enabled:   enabled,
		Mode:      mode,
		PauseEdge: c.pauseEdge.Rising(pause),
		StepEdge:  c.stepEdge.Rising(step),
	}

	// The second divider runs only while automatic timing can run. Held at
	// zero otherwise so a mode or enable flip starts a fresh second.
	if reset || !enabled || mode == logic.ModeManual {
		c.divider = 0
		return in
	}
	c.divider++
	if c.divider >= c.ticksPerSecond {
		in.SecondTick = true
		c.divider = 0
	}
	return in
}

// RestartSecond realigns the divider with the start of a phase. The run
// loop calls this on every phase transition so each phase gets whole
// seconds from its entry.
func (c *Conditioner) RestartSecond() {
	c.divider = 0
}
