package probe

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"time"

	probing "github.com/prometheus-community/pro-bing"
)

type icmpProber struct {
	timeout    time.Duration
	privileged bool
}

func newICMPProber(cfg Config) *icmpProber {
	return &icmpProber{timeout: cfg.Timeout, privileged: cfg.Privileged}
}

func (p *icmpProber) Probe(ctx context.Context, host string) (Reply, error) {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return Reply{}, fmt.Errorf("resolving %s: %w", host, err)
	}
	pinger.Count = 1
	pinger.Timeout = p.timeout
	pinger.SetPrivileged(p.privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		if status, ok := classifySendError(err); ok {
			return Reply{Status: status}, nil
		}
		return Reply{}, fmt.Errorf("ping %s: %w", host, err)
	}

	return replyFromStats(pinger.Statistics()), nil
}

// replyFromStats turns the statistics of a finished single-echo run into a
// Reply. No reply before the deadline is a timeout, not an error.
func replyFromStats(stats *probing.Statistics) Reply {
	if stats == nil || stats.PacketsRecv == 0 {
		return Reply{Status: StatusTimedOut}
	}
	return Reply{Status: StatusSuccess, RTT: stats.AvgRtt}
}

// classifySendError maps routing failures reported by sendto to a Status.
// Unprivileged datagram sockets do not surface ICMP destination-unreachable
// replies this way, so an unreachable host there usually ends as TimedOut.
func classifySendError(err error) (Status, bool) {
	switch {
	case errors.Is(err, syscall.EHOSTUNREACH):
		return StatusHostUnreachable, true
	case errors.Is(err, syscall.ENETUNREACH):
		return StatusNetworkUnreachable, true
	case errors.Is(err, syscall.EHOSTDOWN):
		return StatusHostUnreachable, true
	default:
		return "", false
	}
}
