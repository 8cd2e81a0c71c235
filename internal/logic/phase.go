package logic

// MaxDuration is the longest phase duration in seconds. The countdown
// display is a single digit, so this must stay in 0..9.
const MaxDuration = 5

// transition holds the successor of a phase and the phase's own
// duration in whole seconds.
type transition struct {
	next     Phase
	duration int
}

// transitions is the sole source of sequencing truth. Phases absent from
// the table (a corrupted value) normalize to PhaseStart.
var transitions = map[Phase]transition{
	PhaseStart:         {next: PhaseNsGreenEwRed, duration: 1},
	PhaseNsGreenEwRed:  {next: PhaseNsYellowEwRed, duration: 5},
	PhaseNsYellowEwRed: {next: PhaseNsRedEwGreen, duration: 1},
	PhaseNsRedEwGreen:  {next: PhaseNsRedEwYellow, duration: 5},
	PhaseNsRedEwYellow: {next: PhaseStart, duration: 1},
}

// Next returns the successor phase. Unknown phases map to PhaseStart.
func Next(p Phase) Phase {
	if t, ok := transitions[p]; ok {
		return t.next
	}
	return PhaseStart
}

// Duration returns the phase duration in seconds. Unknown phases report
// the all-red duration.
func Duration(p Phase) int {
	if t, ok := transitions[p]; ok {
		return t.duration
	}
	return transitions[PhaseStart].duration
}

// ValidPhase reports whether p is one of the five defined phases.
func ValidPhase(p Phase) bool {
	_, ok := transitions[p]
	return ok
}

// Lights maps a phase to the color pair shown by the signal head.
// A disabled system always shows all-red, as does any phase outside the
// defined set. At most one direction is ever non-red.
func Lights(p Phase, enabled bool) (ns, ew Light) {
	if !enabled {
		return LightRed, LightRed
	}
	switch p {
	case PhaseNsGreenEwRed:
		return LightGreen, LightRed
	case PhaseNsYellowEwRed:
		return LightYellow, LightRed
	case PhaseNsRedEwGreen:
		return LightRed, LightGreen
	case PhaseNsRedEwYellow:
		return LightRed, LightYellow
	default:
		return LightRed, LightRed
	}
}

// Digit maps the countdown to its displayable value. The digit is lit only
// when the system is enabled and cycling automatically; out-of-range
// countdowns render blank rather than garbage.
func Digit(countdown int, enabled bool, mode Mode) (int, bool) {
	if !enabled || mode != ModeAutomatic {
		return 0, false
	}
	if countdown < 0 || countdown > MaxDuration {
		return 0, false
	}
	return countdown, true
}
