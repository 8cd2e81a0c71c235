// Package status provides a thread-safe status tracker for the
// signal-sequencer daemon. It is read by the HTTP handlers and feeds the
// MQTT lifecycle payloads.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/signal-sequencer/internal/logic"
)

// NetworkInfo contains network state as reported by the host helper.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	PollMs         int64
	DebounceTicks  int
	TicksPerSecond int
	HeartbeatMs    int64
	Broker         string
	HTTPAddr       string
	WSBroker       string // Websocket broker URL for browser MQTT (empty = disabled)
	Headless       bool
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Phase         logic.Phase
	NS            logic.Light
	EW            logic.Light
	Countdown     int
	DigitVisible  bool
	Mode          logic.Mode
	Paused        bool
	Enabled       bool
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu            sync.RWMutex
	snap          Snapshot
	lastHeartbeat time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		lastHeartbeat: startTime,
	}
}

// Update sets the controller output and counters.
// Called from runLoop on every quantum.
func (t *Tracker) Update(out logic.Output, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.Phase = out.Phase
	t.snap.NS = out.NS
	t.snap.EW = out.EW
	t.snap.Countdown = out.Countdown
	t.snap.DigitVisible = out.DigitVisible
	t.snap.Mode = out.Mode
	t.snap.Paused = out.Paused
	t.snap.Enabled = out.Enabled
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}

// snapshotAt is Snapshot with an injected clock, for the formatters and tests.
func (t *Tracker) snapshotAt(now time.Time) Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = now
	return s
}

// CheckHeartbeat reports whether a heartbeat is due and, if so, advances the
// heartbeat schedule. An interval <= 0 disables heartbeats.
func (t *Tracker) CheckHeartbeat(now time.Time, interval time.Duration) bool {
	if interval <= 0 {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if now.Sub(t.lastHeartbeat) < interval {
		return false
	}
	t.lastHeartbeat = now
	return true
}
