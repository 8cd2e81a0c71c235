package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Phase         string       `json:"phase"`
	NS            string       `json:"ns"`
	EW            string       `json:"ew"`
	Countdown     int          `json:"countdown"`
	DigitLit      bool         `json:"digit_lit"`
	Mode          string       `json:"mode"`
	Paused        bool         `json:"paused"`
	Enabled       bool         `json:"enabled"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	PhaseChanges int `json:"phase_changes"`
	ManualSteps  int `json:"manual_steps"`
	PauseToggles int `json:"pause_toggles"`
	Resets       int `json:"resets"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs         int64  `json:"poll_ms"`
	DebounceTicks  int    `json:"debounce_ticks"`
	TicksPerSecond int    `json:"ticks_per_second"`
	HeartbeatMs    int64  `json:"heartbeat_ms"`
	Broker         string `json:"broker"`
	HTTPAddr       string `json:"http_addr"`
	WSBroker       string `json:"ws_broker,omitempty"`
	Headless       bool   `json:"headless,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	phase := string(snap.Phase)
	if phase == "" {
		phase = "UNKNOWN"
	}
	ns := string(snap.NS)
	if ns == "" {
		ns = "UNKNOWN"
	}
	ew := string(snap.EW)
	if ew == "" {
		ew = "UNKNOWN"
	}
	mode := string(snap.Mode)
	if mode == "" {
		mode = "UNKNOWN"
	}

	return StatusInner{
		Phase:         phase,
		NS:            ns,
		EW:            ew,
		Countdown:     snap.Countdown,
		DigitLit:      snap.DigitVisible,
		Mode:          mode,
		Paused:        snap.Paused,
		Enabled:       snap.Enabled,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			PhaseChanges: snap.Counts.PhaseChanges,
			ManualSteps:  snap.Counts.ManualSteps,
			PauseToggles: snap.Counts.PauseToggles,
			Resets:       snap.Counts.Resets,
		},
		Config: ConfigJSON{
			PollMs:         snap.Config.PollMs,
			DebounceTicks:  snap.Config.DebounceTicks,
			TicksPerSecond: snap.Config.TicksPerSecond,
			HeartbeatMs:    snap.Config.HeartbeatMs,
			Broker:         snap.Config.Broker,
			HTTPAddr:       snap.Config.HTTPAddr,
			WSBroker:       snap.Config.WSBroker,
			Headless:       snap.Config.Headless,
		},
	}
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
