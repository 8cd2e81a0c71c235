package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/signal-sequencer/internal/logic"
	"github.com/sweeney/signal-sequencer/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		PollMs:         100,
		DebounceTicks:  3,
		TicksPerSecond: 10,
		HeartbeatMs:    900000,
		Broker:         "tcp://192.168.1.200:1883",
		HTTPAddr:       ":80",
	}
	tr := status.NewTracker(start, cfg)
	srv := New(":0", tr)
	ts := httptest.NewServer(srv.httpServer.Handler)
	t.Cleanup(ts.Close)
	return ts, tr
}

func greenOutput() logic.Output {
	return logic.Output{
		Phase:        logic.PhaseNsGreenEwRed,
		NS:           logic.LightGreen,
		EW:           logic.LightRed,
		Countdown:    5,
		Digit:        5,
		DigitVisible: true,
		Enabled:      true,
		Mode:         logic.ModeAutomatic,
	}
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(greenOutput(), logic.EventCounts{PhaseChanges: 5, Resets: 2})
	tr.SetMQTTConnected(true)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want application/json", ct)
	}

	var sj status.StatusJSON
	if err := json.NewDecoder(resp.Body).Decode(&sj); err != nil {
		t.Fatalf("decode JSON: %v", err)
	}

	if sj.Status.Phase != "NS_GREEN_EW_RED" {
		t.Errorf("phase: got %q", sj.Status.Phase)
	}
	if sj.Status.NS != "GREEN" || sj.Status.EW != "RED" {
		t.Errorf("lights: got %q/%q", sj.Status.NS, sj.Status.EW)
	}
	if sj.Status.Countdown != 5 {
		t.Errorf("countdown: got %d, want 5", sj.Status.Countdown)
	}
	if !sj.Status.MQTT.Connected {
		t.Error("expected MQTT.Connected=true")
	}
	if sj.Status.MQTT.Broker != "tcp://192.168.1.200:1883" {
		t.Errorf("MQTT.Broker: got %q", sj.Status.MQTT.Broker)
	}
	if sj.Status.Counts.PhaseChanges != 5 {
		t.Errorf("Counts.PhaseChanges: got %d, want 5", sj.Status.Counts.PhaseChanges)
	}
	if sj.Status.Counts.Resets != 2 {
		t.Errorf("Counts.Resets: got %d, want 2", sj.Status.Counts.Resets)
	}
	if sj.Status.Config.PollMs != 100 {
		t.Errorf("Config.PollMs: got %d, want 100", sj.Status.Config.PollMs)
	}
}

func TestJSONUnknownStateBeforeFirstUpdate(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.json")
	if err != nil {
		t.Fatalf("GET /index.json: %v", err)
	}
	defer resp.Body.Close()

	var sj status.StatusJSON
	json.NewDecoder(resp.Body).Decode(&sj)

	if sj.Status.Phase != "UNKNOWN" {
		t.Errorf("phase before first update: got %q, want UNKNOWN", sj.Status.Phase)
	}
	if sj.Status.NS != "UNKNOWN" || sj.Status.EW != "UNKNOWN" {
		t.Errorf("lights before first update: got %q/%q", sj.Status.NS, sj.Status.EW)
	}
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr := newTestServer(t)
	tr.Update(greenOutput(), logic.EventCounts{})

	resp, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	ct := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type: got %q, want text/html", ct)
	}

	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "GREEN") {
		t.Error("expected NS light color in HTML")
	}
	if !strings.Contains(string(body), "NS_GREEN_EW_RED") {
		t.Error("expected phase name in HTML")
	}
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/index.html")
	if err != nil {
		t.Fatalf("GET /index.html: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/nonexistent")
	if err != nil {
		t.Fatalf("GET /nonexistent: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status: got %d, want 404", resp.StatusCode)
	}
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr := newTestServer(t)

	resp1, _ := http.Get(ts.URL + "/index.json")
	var sj1 status.StatusJSON
	json.NewDecoder(resp1.Body).Decode(&sj1)
	resp1.Body.Close()
	if sj1.Status.Enabled {
		t.Error("expected Enabled=false initially")
	}

	tr.Update(greenOutput(), logic.EventCounts{ManualSteps: 1})
	tr.SetMQTTConnected(true)

	resp2, _ := http.Get(ts.URL + "/index.json")
	var sj2 status.StatusJSON
	json.NewDecoder(resp2.Body).Decode(&sj2)
	resp2.Body.Close()

	if !sj2.Status.Enabled {
		t.Error("expected Enabled=true after update")
	}
	if sj2.Status.NS != "GREEN" {
		t.Errorf("NS: got %q, want GREEN", sj2.Status.NS)
	}
	if !sj2.Status.MQTT.Connected {
		t.Error("expected MQTT connected after update")
	}
}
