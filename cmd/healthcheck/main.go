// Command healthcheck probes the local server's liveness endpoint.
// Used as the container HEALTHCHECK; exits non-zero when the server
// is unreachable or unhealthy.
package main

import (
	"net/http"
	"os"
	"time"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "10000"
	}

	client := &http.Client{Timeout: 8 * time.Second}

	resp, err := client.Get("http://localhost:" + port + "/healthz")
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
