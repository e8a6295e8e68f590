package probe_test

import (
	"context"
	"errors"
	"strings"
	"syscall"
	"testing"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/hazz-dev/pinglog/internal/probe"
)

func TestReplyFromStats(t *testing.T) {
	tests := []struct {
		name  string
		stats *probing.Statistics
		want  probe.Reply
	}{
		{
			name:  "no statistics",
			stats: nil,
			want:  probe.Reply{Status: probe.StatusTimedOut},
		},
		{
			name:  "sent without reply",
			stats: &probing.Statistics{PacketsSent: 1, PacketsRecv: 0, PacketLoss: 100},
			want:  probe.Reply{Status: probe.StatusTimedOut},
		},
		{
			name:  "nothing sent",
			stats: &probing.Statistics{},
			want:  probe.Reply{Status: probe.StatusTimedOut},
		},
		{
			name:  "reply received",
			stats: &probing.Statistics{PacketsSent: 1, PacketsRecv: 1, AvgRtt: 7 * time.Millisecond},
			want:  probe.Reply{Status: probe.StatusSuccess, RTT: 7 * time.Millisecond},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := probe.ReplyFromStats(tc.stats); got != tc.want {
				t.Errorf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}

func newICMP(t *testing.T, timeout time.Duration) probe.Prober {
	t.Helper()
	p, err := probe.New(probe.Config{Method: "icmp", Timeout: timeout})
	if err != nil {
		t.Fatalf("creating icmp prober: %v", err)
	}
	return p
}

func TestICMPProber_BadHostIsError(t *testing.T) {
	for _, host := range []string{"no.such.host.invalid", "999.1.1.1", "bad host name"} {
		t.Run(host, func(t *testing.T) {
			reply, err := newICMP(t, time.Second).Probe(context.Background(), host)
			if err == nil {
				t.Fatalf("expected error for %q, got reply %+v", host, reply)
			}
			if !strings.Contains(err.Error(), "resolving "+host) {
				t.Errorf("expected resolve error for %q, got %v", host, err)
			}
		})
	}
}

func TestICMPProber_Loopback(t *testing.T) {
	reply, err := newICMP(t, 2*time.Second).Probe(context.Background(), "127.0.0.1")
	if errors.Is(err, syscall.EPERM) || errors.Is(err, syscall.EACCES) {
		t.Skipf("ICMP sockets not permitted here: %v", err)
	}
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Status != probe.StatusSuccess {
		t.Errorf("expected Success from loopback, got %q", reply.Status)
	}
}
