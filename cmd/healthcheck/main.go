package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/goccy/go-json"
)

func main() {
	addr := normalizeAddr(os.Getenv("DBSESSION_LISTEN_ADDR"))
	os.Exit(check(fmt.Sprintf("http://%s/api/v1/health", addr)))
}

// healthBody mirrors the fields of the health response the probe cares about.
type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// check returns 0 when the endpoint at url reports a live database, 1 otherwise.
func check(url string) int {
	client := &http.Client{Timeout: 3 * time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck:", err)
		return 1
	}

	resp, err := client.Do(req)
	if err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck:", err)
		return 1
	}
	defer resp.Body.Close()

	var body healthBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck: decode response:", err)
		return 1
	}

	if resp.StatusCode != http.StatusOK || body.Database != "connected" {
		fmt.Fprintf(os.Stderr, "healthcheck: status %d, database %s\n", resp.StatusCode, body.Database)
		return 1
	}

	return 0
}

// normalizeAddr ensures the healthcheck connects to loopback rather than the
// bind-all address. Docker containers bind 0.0.0.0 but the healthcheck runs
// inside the same container, so loopback is reachable and more correct.
func normalizeAddr(raw string) string {
	if raw == "" {
		return "127.0.0.1:8080"
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return "127.0.0.1:8080"
	}

	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
