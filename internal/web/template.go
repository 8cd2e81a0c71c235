package web

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/sweeney/signal-sequencer/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"orUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"lightClass": func(s string) string {
		switch s {
		case "RED", "YELLOW", "GREEN":
			return strings.ToLower(s)
		}
		return "unknown"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Signal Sequencer</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.red { color: #c00; font-weight: bold; }
.yellow { color: #b80; font-weight: bold; }
.green { color: green; font-weight: bold; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
.live-dot { display: inline-block; width: 8px; height: 8px; border-radius: 50%; margin-left: 6px; vertical-align: middle; }
.live-dot.ok { background: green; }
.live-dot.err { background: red; }
.live-dot.pending { background: orange; }
</style>
</head>
<body>
<h1>Signal Sequencer{{if .Config.WSBroker}}<span id="live-dot" class="live-dot pending" title="connecting"></span>{{end}}</h1>

<h2>Signal Head</h2>
<table>
<tr><th>North-South</th><td id="ns-light" class="{{lightClass (orUnknown (printf "%s" .NS))}}">{{orUnknown (printf "%s" .NS)}}</td></tr>
<tr><th>East-West</th><td id="ew-light" class="{{lightClass (orUnknown (printf "%s" .EW))}}">{{orUnknown (printf "%s" .EW)}}</td></tr>
<tr><th>Countdown</th><td id="countdown">{{if .DigitVisible}}{{.Countdown}}{{else}}&mdash;{{end}}</td></tr>
<tr><th>Phase</th><td id="phase">{{orUnknown (printf "%s" .Phase)}}</td></tr>
<tr><th>Mode</th><td id="mode">{{orUnknown (printf "%s" .Mode)}}</td></tr>
<tr><th>Paused</th><td>{{if .Paused}}yes{{else}}no{{end}}</td></tr>
<tr><th>Enabled</th><td>{{if .Enabled}}yes{{else}}no{{end}}</td></tr>
</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}} / {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Event Counts</h2>
<table>
<tr><th>Phase changes</th><td>{{.Counts.PhaseChanges}}</td></tr>
<tr><th>Manual steps</th><td>{{.Counts.ManualSteps}}</td></tr>
<tr><th>Pause toggles</th><td>{{.Counts.PauseToggles}}</td></tr>
<tr><th>Resets</th><td>{{.Counts.Resets}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Ticks/second</th><td>{{.Config.TicksPerSecond}}</td></tr>
<tr><th>Debounce</th><td>{{.Config.DebounceTicks}} samples</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
{{if .Config.Headless}}<tr><th>Head</th><td>headless (no GPIO outputs)</td></tr>{{end}}
</table>

<p><a href="/index.json">JSON</a></p>
{{if .Config.WSBroker}}
<script src="/mqtt.min.js"></script>
<script>
(function() {
  var broker = "{{.Config.WSBroker}}";
  var topic = "traffic/signal/sequencer/events";
  var dot = document.getElementById("live-dot");
  var nsEl = document.getElementById("ns-light");
  var ewEl = document.getElementById("ew-light");
  var cdEl = document.getElementById("countdown");
  var phEl = document.getElementById("phase");
  var mdEl = document.getElementById("mode");

  function setLight(el, color) {
    el.textContent = color;
    el.className = color === "RED" ? "red" : color === "YELLOW" ? "yellow" : color === "GREEN" ? "green" : "unknown";
  }

  function setDot(cls, title) {
    dot.className = "live-dot " + cls;
    dot.title = title;
  }

  var client = mqtt.connect(broker, { reconnectPeriod: 5000 });

  client.on("connect", function() {
    setDot("ok", "live");
    client.subscribe(topic);
  });

  client.on("reconnect", function() {
    setDot("pending", "reconnecting");
  });

  client.on("offline", function() {
    setDot("err", "offline");
  });

  client.on("error", function() {
    setDot("err", "error");
  });

  client.on("message", function(t, payload) {
    try {
      var msg = JSON.parse(payload.toString());
      if (msg.signal) {
        setLight(nsEl, msg.signal.ns);
        setLight(ewEl, msg.signal.ew);
        cdEl.textContent = msg.signal.mode === "AUTOMATIC" ? msg.signal.countdown : "—";
        phEl.textContent = msg.signal.to;
        mdEl.textContent = msg.signal.mode;
      }
    } catch (e) {}
  });
})();
</script>
{{end}}
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime time.Duration
	}{
		Snapshot: snap,
		Uptime:   snap.Uptime(),
	}
	indexTmpl.Execute(w, data)
}
