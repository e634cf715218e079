package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestFormatTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{
		"env":        "prod",
		" service ":  " monitor ",
	}
	local := map[string]string{
		"result": " success ",
		"":       "ignored",
		"env":    "stage",
	}

	got := formatTags(global, local)
	want := "|#env:stage,result:success,service:monitor"
	if got != want {
		t.Fatalf("formatTags() = %q, want %q", got, want)
	}

	if formatTags(nil, nil) != "" {
		t.Fatal("expected empty tag string for no tags")
	}
}

func TestMetricName(t *testing.T) {
	t.Parallel()

	c := &Client{prefix: "climatewatch"}
	tests := map[string]string{
		"session.started": "climatewatch.session.started",
		" poll/attempt ":  "climatewatch.poll_attempt",
		"":                "climatewatch",
	}
	for input, want := range tests {
		if got := c.metricName(input); got != want {
			t.Fatalf("metricName(%q) = %q, want %q", input, got, want)
		}
	}

	bare := &Client{}
	if got := bare.metricName("x"); got != "x" {
		t.Fatalf("metricName without prefix = %q, want %q", got, "x")
	}
}

func TestClientEmitsOverUDP(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatal("listen udp:", err)
	}
	defer pc.Close()

	client, err := NewClient(Config{
		Enabled: true,
		Address: pc.LocalAddr().String(),
		Prefix:  "climatewatch",
	})
	if err != nil {
		t.Fatal("new client:", err)
	}
	defer client.Close()

	if !client.Enabled() {
		t.Fatal("expected client to be enabled")
	}

	client.Count("session.started", 1, map[string]string{"result": "success"})

	buf := make([]byte, 512)
	if derr := pc.SetReadDeadline(time.Now().Add(2 * time.Second)); derr != nil {
		t.Fatal("set deadline:", derr)
	}
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatal("read udp:", err)
	}

	line := string(buf[:n])
	if !strings.HasPrefix(line, "climatewatch.session.started:1|c") {
		t.Fatalf("unexpected metric line %q", line)
	}
	if !strings.Contains(line, "result:success") {
		t.Fatalf("missing tags in %q", line)
	}
}

func TestDisabledClientIsNoop(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: false})
	if err != nil {
		t.Fatal("new client:", err)
	}
	if client.Enabled() {
		t.Fatal("expected disabled client")
	}

	// Must not panic without a connection.
	client.Count("x", 1, nil)
	client.Gauge("y", 2.5, nil)
	client.Timing("z", time.Second, nil)
	if cerr := client.Close(); cerr != nil {
		t.Fatal("close:", cerr)
	}

	var nilClient *Client
	nilClient.Count("x", 1, nil)
	if nilClient.Enabled() {
		t.Fatal("nil client must report disabled")
	}
}
