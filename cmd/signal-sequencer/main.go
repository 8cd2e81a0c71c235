// Command signal-sequencer drives a two-road traffic signal head from GPIO,
// publishes phase changes to MQTT and serves a status page over HTTP.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/signal-sequencer/internal/display"
	"github.com/sweeney/signal-sequencer/internal/gpio"
	"github.com/sweeney/signal-sequencer/internal/input"
	"github.com/sweeney/signal-sequencer/internal/logic"
	"github.com/sweeney/signal-sequencer/internal/mqtt"
	"github.com/sweeney/signal-sequencer/internal/status"
	"github.com/sweeney/signal-sequencer/internal/web"
)

func main() {
	poll := flag.Duration("poll", 100*time.Millisecond, "GPIO polling interval (one quantum)")
	debounce := flag.Int("debounce", 3, "Debounce threshold in consecutive samples")
	tps := flag.Int("ticks-per-second", 10, "Polling quanta per countdown second")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	printState := flag.Bool("print-state", false, "Print current input levels and exit")
	headless := flag.Bool("headless", false, "Do not drive the signal head outputs")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	wsBroker := flag.String("ws-broker", "=broker", `MQTT websocket URL for live UI ("=broker" derives from --broker, "off" disables)`)

	flag.Parse()

	ws := resolveWSBroker(*wsBroker, *broker)
	if err := run(*poll, *debounce, *tps, *broker, *heartbeat, *printState, *headless, *httpAddr, ws); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(poll time.Duration, debounce, tps int, broker string, heartbeat time.Duration, printState, headless bool, httpAddr, wsBroker string) error {
	// Initialize GPIO inputs
	reader, err := gpio.NewRealReader()
	if err != nil {
		return fmt.Errorf("init gpio inputs: %w", err)
	}
	defer reader.Close()

	// Print state mode
	if printState {
		s, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read gpio: %w", err)
		}
		fmt.Printf("ENABLE: %s, MODE: %s, PAUSE: %s, STEP: %s, RESET: %s\n",
			levelString(s.Enable), modeString(s.ModeManual),
			levelString(s.Pause), levelString(s.Step), levelString(s.Reset))
		return nil
	}

	// Initialize the signal head outputs
	var panel gpio.Panel
	if !headless {
		realPanel, err := gpio.NewRealPanel()
		if err != nil {
			return fmt.Errorf("init signal head: %w", err)
		}
		defer realPanel.Close()
		panel = realPanel
	}

	// Initialize MQTT
	publisher, err := mqtt.NewRealPublisher(broker)
	if err != nil {
		return fmt.Errorf("init mqtt: %w", err)
	}
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:         poll.Milliseconds(),
		DebounceTicks:  debounce,
		TicksPerSecond: tps,
		HeartbeatMs:    heartbeat.Milliseconds(),
		Broker:         broker,
		HTTPAddr:       httpAddr,
		WSBroker:       wsBroker,
		Headless:       headless,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: poll=%v debounce=%d tps=%d broker=%s heartbeat=%v headless=%v",
		poll, debounce, tps, broker, heartbeat, headless)

	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	cond := input.NewConditioner(debounce, tps)
	ctrl := logic.NewController(tps)

	return runLoop(reader, panel, publisher, publisher, tracker, cond, ctrl, heartbeat, time.Now, ticker.C, sigCh)
}

func runLoop(reader gpio.Reader, panel gpio.Panel, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, cond *input.Conditioner, ctrl *logic.Controller, heartbeat time.Duration, now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}
			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			sample, err := reader.Read()
			if err != nil {
				log.Printf("gpio read error: %v", err)
				continue
			}

			in := cond.Process(input.Raw{
				Enable:     sample.Enable,
				ModeManual: sample.ModeManual,
				Pause:      sample.Pause,
				Step:       sample.Step,
				Reset:      sample.Reset,
			}, t)

			out, events := ctrl.Tick(in)

			for _, event := range events {
				log.Printf("event: %s (%s -> %s, NS=%s EW=%s countdown=%d)",
					event.Type, event.From, event.To, event.NS, event.EW, event.Countdown)
				switch event.Type {
				case logic.EventPhaseChange, logic.EventManualStep, logic.EventReset:
					// Each phase gets whole seconds measured from its entry.
					cond.RestartSecond()
				}
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			if panel != nil {
				frame := gpio.Frame{
					NS:       out.NS,
					EW:       out.EW,
					Segments: display.ForOutput(out),
				}
				if err := panel.Render(frame); err != nil {
					log.Printf("panel render error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				tracker.Update(out, ctrl.Counts())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}

				if tracker.CheckHeartbeat(t, heartbeat) {
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					snap := tracker.Snapshot()
					log.Printf("heartbeat: uptime=%v phase=%s phase_changes=%d",
						snap.Uptime(), snap.Phase, snap.Counts.PhaseChanges)

					hbEvent := mqtt.SystemEvent{
						Timestamp:  t,
						Event:      "HEARTBEAT",
						RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
					}
					if err := publisher.PublishSystem(hbEvent); err != nil {
						log.Printf("heartbeat publish error: %v", err)
					}
				}
			}
		}
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func levelString(high bool) string {
	if high {
		return "HIGH"
	}
	return "LOW"
}

func modeString(manual bool) string {
	if manual {
		return "MANUAL"
	}
	return "AUTOMATIC"
}

// resolveWSBroker converts the --ws-broker flag value into a concrete URL.
// "=broker" derives ws://host:9001 from the TCP broker address; empty disables.
func resolveWSBroker(ws, broker string) string {
	if ws == "off" {
		return ""
	}
	if ws != "=broker" {
		return ws
	}
	u, err := url.Parse(broker)
	if err != nil {
		log.Printf("ws-broker: cannot parse --broker %q: %v", broker, err)
		return ""
	}
	u.Scheme = "ws"
	u.Host = u.Hostname() + ":9001"
	return u.String()
}
