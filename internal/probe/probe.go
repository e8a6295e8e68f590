// Package probe sends a single ICMP echo request and classifies the outcome.
package probe

import (
	"context"
	"fmt"
	"time"
)

// Prober sends one echo request to host and waits for a reply or timeout.
// Network failures are reported as a Status; an error means the request
// could not be attempted at all (bad host, socket permission).
type Prober interface {
	Probe(ctx context.Context, host string) (Reply, error)
}

// Config selects and tunes a Prober.
type Config struct {
	Method     string
	Timeout    time.Duration
	Privileged bool
}

// New returns the Prober for the configured method.
func New(cfg Config) (Prober, error) {
	switch cfg.Method {
	case "", "icmp":
		return newICMPProber(cfg), nil
	case "exec":
		return newPingProber(cfg), nil
	default:
		return nil, fmt.Errorf("unknown probe method %q", cfg.Method)
	}
}
