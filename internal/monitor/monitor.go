// Package monitor runs the probe cycle: inspect interface, probe the host,
// format the line, append it to the success or error log, wait, repeat.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hazz-dev/pinglog/internal/config"
	"github.com/hazz-dev/pinglog/internal/logline"
	"github.com/hazz-dev/pinglog/internal/netif"
	"github.com/hazz-dev/pinglog/internal/probe"
	"github.com/hazz-dev/pinglog/internal/sink"
)

// Inspector finds the interface reported in each line.
type Inspector interface {
	FirstUp() (netif.Interface, error)
}

// Emitter delivers a formatted line to path.
type Emitter interface {
	Emit(path, message string, sev sink.Severity) error
}

// Stage names the step of a cycle that failed.
type Stage string

const (
	StageInterface Stage = "interface"
	StageProbe     Stage = "probe"
	StageWrite     Stage = "write"
)

// CycleError is a fatal failure that stops the loop.
type CycleError struct {
	Stage Stage
	Err   error
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *CycleError) Unwrap() error {
	return e.Err
}

// Monitor probes one host on a fixed interval. Cycles never overlap.
type Monitor struct {
	opts      config.Options
	interval  time.Duration
	inspector Inspector
	prober    probe.Prober
	emitter   Emitter
	onResult  func(probe.Result, *probe.Status)
	logger    *slog.Logger
	now       func() time.Time

	mu       sync.Mutex
	last     *probe.Result
	cycles   int
	failures int
}

// New creates a Monitor. Pass nil logger to use the default logger.
func New(opts config.Options, inspector Inspector, prober probe.Prober, emitter Emitter, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		opts:      opts,
		interval:  opts.IntervalDuration(),
		inspector: inspector,
		prober:    prober,
		emitter:   emitter,
		logger:    logger,
		now:       time.Now,
	}
}

// SetOnResult sets the callback invoked after each logged cycle.
// result is the current cycle; prev is the previous status (nil on the first cycle).
func (m *Monitor) SetOnResult(fn func(probe.Result, *probe.Status)) {
	m.onResult = fn
}

// Run executes cycles until ctx is cancelled, waiting the configured
// interval after each one. It returns nil on cancellation and a
// *CycleError when a cycle fails fatally.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started",
		"host", m.opts.HostName,
		"path", m.opts.Path,
		"error_path", m.opts.ErrorPath,
		"interval", m.interval,
	)
	for {
		if _, err := m.RunOnce(ctx); err != nil {
			if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
				m.logger.Info("monitor stopped")
				return nil
			}
			return err
		}

		timer := time.NewTimer(m.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			m.logger.Info("monitor stopped")
			return nil
		case <-timer.C:
		}
	}
}

// RunOnce performs a single cycle and returns its result. If ctx is
// cancelled while probing, nothing is written and ctx.Err() is returned.
func (m *Monitor) RunOnce(ctx context.Context) (probe.Result, error) {
	iface, err := m.inspector.FirstUp()
	if err != nil {
		return probe.Result{}, &CycleError{Stage: StageInterface, Err: err}
	}

	reply, err := m.prober.Probe(ctx, m.opts.HostName)
	if ctx.Err() != nil {
		return probe.Result{}, ctx.Err()
	}
	if err != nil {
		return probe.Result{}, &CycleError{Stage: StageProbe, Err: err}
	}

	result := probe.Result{
		Host:                 m.opts.HostName,
		Status:               reply.Status,
		RTT:                  reply.RTT,
		InterfaceName:        iface.Name,
		InterfaceDescription: iface.Description,
		CheckedAt:            m.now(),
	}

	path, sev := m.opts.Path, sink.SeverityInfo
	if !result.Status.OK() {
		path, sev = m.opts.ErrorPath, sink.SeverityFailure
	}
	if err := m.emitter.Emit(path, logline.FromResult(result), sev); err != nil {
		return result, &CycleError{Stage: StageWrite, Err: err}
	}

	m.logger.Debug("cycle complete",
		"host", result.Host,
		"status", result.Status,
		"rtt", result.RTT,
		"interface", result.InterfaceName,
		"path", path,
	)

	prev := m.record(result)
	if m.onResult != nil {
		m.onResult(result, prev)
	}
	return result, nil
}

func (m *Monitor) record(r probe.Result) *probe.Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	var prev *probe.Status
	if m.last != nil {
		st := m.last.Status
		prev = &st
	}
	m.last = &r
	m.cycles++
	if !r.Status.OK() {
		m.failures++
	}
	return prev
}

// Latest returns the most recent logged result, if any.
func (m *Monitor) Latest() (probe.Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return probe.Result{}, false
	}
	return *m.last, true
}

// Counts returns the number of logged cycles and how many of them failed.
func (m *Monitor) Counts() (cycles, failures int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cycles, m.failures
}
