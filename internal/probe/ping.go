package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"runtime"
	"strconv"
	"time"
)

// CommandExecutor abstracts os/exec for testability.
type CommandExecutor interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// pingProber runs the system ping binary for hosts where the process may
// not open ICMP sockets itself.
type pingProber struct {
	timeout  time.Duration
	executor CommandExecutor
}

func newPingProber(cfg Config) *pingProber {
	return &pingProber{timeout: cfg.Timeout, executor: &osExecutor{}}
}

// NewPingProberWithExecutor creates an exec-based prober with a custom executor (for testing).
func NewPingProberWithExecutor(timeout time.Duration, exec CommandExecutor) Prober {
	return &pingProber{timeout: timeout, executor: exec}
}

var (
	rttRegex         = regexp.MustCompile(`time[=<](\d+\.?\d*)\s*ms`)
	hostUnreachRegex = regexp.MustCompile(`(?i)(destination )?host unreachable`)
	netUnreachRegex  = regexp.MustCompile(`(?i)(destination )?net(work)? (is )?unreachable`)
	badHostRegex     = regexp.MustCompile(`(?i)unknown host|name or service not known|cannot resolve|could not find host|temporary failure in name resolution`)
)

func (p *pingProber) Probe(ctx context.Context, host string) (Reply, error) {
	timeoutSec := int(math.Ceil(p.timeout.Seconds()))
	if timeoutSec < 1 {
		timeoutSec = 1
	}

	var args []string
	switch runtime.GOOS {
	case "darwin":
		args = []string{"-c", "1", "-t", strconv.Itoa(timeoutSec), host}
	case "windows":
		args = []string{"-n", "1", "-w", strconv.Itoa(timeoutSec * 1000), host}
	default:
		args = []string{"-c", "1", "-W", strconv.Itoa(timeoutSec), host}
	}

	stdout, stderr, err := p.executor.Run(ctx, "ping", args...)
	output := append(append([]byte{}, stdout...), stderr...)

	if badHostRegex.Match(output) {
		return Reply{}, fmt.Errorf("ping %s: %s", host, firstLine(output))
	}
	if m := rttRegex.FindSubmatch(stdout); m != nil && err == nil {
		ms, _ := strconv.ParseFloat(string(m[1]), 64)
		return Reply{Status: StatusSuccess, RTT: time.Duration(ms * float64(time.Millisecond))}, nil
	}

	switch {
	case hostUnreachRegex.Match(output):
		return Reply{Status: StatusHostUnreachable}, nil
	case netUnreachRegex.Match(output):
		return Reply{Status: StatusNetworkUnreachable}, nil
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return Reply{Status: StatusUnknown}, nil
	case errors.Is(err, context.DeadlineExceeded):
		return Reply{Status: StatusTimedOut}, nil
	case errors.As(err, &exitErr) && exitErr.ExitCode() == 1:
		// ping exits 1 when no reply arrived before the deadline.
		return Reply{Status: StatusTimedOut}, nil
	case errors.As(err, &exitErr):
		return Reply{Status: StatusUnknown}, nil
	default:
		return Reply{}, fmt.Errorf("running ping: %w", err)
	}
}

func firstLine(b []byte) string {
	b = bytes.TrimSpace(b)
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[:i]
	}
	return string(bytes.TrimSpace(b))
}
