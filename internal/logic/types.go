// Package logic contains the pure phase state machine for the signal
// sequencer. This package has NO external dependencies (no GPIO, MQTT, OS,
// or time.Sleep). Time enters only as data: one Tick call per scheduling
// quantum, with the wall-clock timestamp carried in the Input.
package logic

import "time"

// Phase is one discrete light configuration in the cycle.
type Phase string

const (
	PhaseStart         Phase = "START"
	PhaseNsGreenEwRed  Phase = "NS_GREEN_EW_RED"
	PhaseNsYellowEwRed Phase = "NS_YELLOW_EW_RED"
	PhaseNsRedEwGreen  Phase = "NS_RED_EW_GREEN"
	PhaseNsRedEwYellow Phase = "NS_RED_EW_YELLOW"
)

// Light is the color shown by one direction of the signal head.
type Light string

const (
	LightRed    Light = "RED"
	LightYellow Light = "YELLOW"
	LightGreen  Light = "GREEN"
)

// Mode selects between timed cycling and operator-stepped cycling.
// It is sampled continuously from the mode switch, never latched.
type Mode string

const (
	ModeAutomatic Mode = "AUTOMATIC"
	ModeManual    Mode = "MANUAL"
)

// EventType identifies a controller event to be published.
type EventType string

const (
	EventPhaseChange EventType = "PHASE_CHANGE"
	EventManualStep  EventType = "MANUAL_STEP"
	EventPaused      EventType = "PAUSED"
	EventResumed     EventType = "RESUMED"
	EventReset       EventType = "RESET"
)

// Input is a single conditioned sample of the operator controls,
// taken once per scheduling quantum.
type Input struct {
	Time       time.Time
	SecondTick bool // pulses once per elapsed second
	PauseEdge  bool // one-quantum pulse per pause press
	StepEdge   bool // one-quantum pulse per step press
	Reset      bool // level, dominates all other inputs
	Enabled    bool
	Mode       Mode
}

// Output is the rendered state after one quantum: what the signal head
// and countdown display should show.
type Output struct {
	Phase        Phase
	NS           Light
	EW           Light
	Countdown    int
	Digit        int
	DigitVisible bool
	Paused       bool
	Enabled      bool
	Mode         Mode
}

// Event records a controller state change for publishing.
type Event struct {
	Timestamp time.Time
	Type      EventType
	From      Phase
	To        Phase
	NS        Light
	EW        Light
	Countdown int
	Mode      Mode
}

// EventCounts tracks the number of each controller event since startup.
type EventCounts struct {
	PhaseChanges int
	ManualSteps  int
	PauseToggles int
	Resets       int
}
