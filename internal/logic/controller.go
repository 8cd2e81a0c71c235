package logic

// Controller is the phase state machine. It owns the single mutable state
// record of the sequencer and advances it exactly once per call to Tick.
// Not safe for concurrent use — there is one writer, the run loop.
type Controller struct {
	ticksPerSecond int
	phase          Phase
	elapsed        int // quanta since entering the current phase
	countdown      int // seconds remaining, inclusive of the held zero
	paused         bool
	resetHeld      bool
	counts         EventCounts
}

// NewController creates a controller in the initial state: all-red Start
// phase with the countdown showing the red duration. ticksPerSecond is the
// number of scheduling quanta per second.
func NewController(ticksPerSecond int) *Controller {
	if ticksPerSecond < 1 {
		ticksPerSecond = 1
	}
	return &Controller{
		ticksPerSecond: ticksPerSecond,
		phase:          PhaseStart,
		countdown:      Duration(PhaseStart),
	}
}

// Tick advances the state machine by one scheduling quantum and returns the
// rendered output plus any events that occurred. Input precedence: reset
// dominates everything, then the enable level, then the sampled mode.
func (c *Controller) Tick(in Input) (Output, []Event) {
	c.normalize()

	var events []Event

	if !in.Reset {
		c.resetHeld = false
	}

	switch {
	case in.Reset:
		c.phase = PhaseStart
		c.elapsed = 0
		c.countdown = Duration(PhaseStart)
		c.paused = false
		// Reset is a level: report it once per assertion, not per quantum.
		if !c.resetHeld {
			c.resetHeld = true
			c.counts.Resets++
			events = append(events, c.event(in, EventReset, c.phase, c.phase))
		}

	case !in.Enabled:
		// Off is distinct from holding at red: the countdown reads 0,
		// not the red duration, and no timers run.
		c.phase = PhaseStart
		c.elapsed = 0
		c.countdown = 0
		c.paused = false

	case in.Mode == ModeManual:
		// Timers are suppressed; only step edges move the cycle.
		c.elapsed = 0
		if in.StepEdge {
			from := c.phase
			c.advance()
			c.counts.ManualSteps++
			c.counts.PhaseChanges++
			events = append(events, c.event(in, EventManualStep, from, c.phase))
		}

	default: // Automatic
		if in.PauseEdge {
			c.paused = !c.paused
			c.counts.PauseToggles++
			typ := EventResumed
			if c.paused {
				typ = EventPaused
			}
			events = append(events, c.event(in, typ, c.phase, c.phase))
		}
		if !c.paused {
			c.elapsed++
			if in.SecondTick && c.countdown > 0 {
				c.countdown--
			}
			// The "+1" holds the terminal zero visibly for one full
			// second before the phase advances.
			if c.elapsed >= (Duration(c.phase)+1)*c.ticksPerSecond-1 {
				from := c.phase
				c.advance()
				c.counts.PhaseChanges++
				events = append(events, c.event(in, EventPhaseChange, from, c.phase))
			}
		}
	}

	return c.render(in), events
}

// advance moves to the successor phase and restarts its bookkeeping.
func (c *Controller) advance() {
	c.phase = Next(c.phase)
	c.elapsed = 0
	c.countdown = Duration(c.phase)
}

// normalize self-corrects corrupted internal state to the safe all-red
// default instead of letting it persist or propagate.
func (c *Controller) normalize() {
	if !ValidPhase(c.phase) || c.countdown < 0 || c.countdown > MaxDuration {
		c.phase = PhaseStart
		c.elapsed = 0
		c.countdown = 0
	}
}

func (c *Controller) render(in Input) Output {
	ns, ew := Lights(c.phase, in.Enabled)
	digit, visible := Digit(c.countdown, in.Enabled, in.Mode)
	return Output{
		Phase:        c.phase,
		NS:           ns,
		EW:           ew,
		Countdown:    c.countdown,
		Digit:        digit,
		DigitVisible: visible,
		Paused:       c.paused,
		Enabled:      in.Enabled,
		Mode:         in.Mode,
	}
}

func (c *Controller) event(in Input, typ EventType, from, to Phase) Event {
	ns, ew := Lights(c.phase, in.Enabled)
	return Event{
		Timestamp: in.Time,
		Type:      typ,
		From:      from,
		To:        to,
		NS:        ns,
		EW:        ew,
		Countdown: c.countdown,
		Mode:      in.Mode,
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Countdown returns the seconds remaining in the current phase.
func (c *Controller) Countdown() int {
	return c.countdown
}

// Paused reports whether automatic cycling is frozen.
func (c *Controller) Paused() bool {
	return c.paused
}

// Counts returns a snapshot of the event counters.
func (c *Controller) Counts() EventCounts {
	return c.counts
}
