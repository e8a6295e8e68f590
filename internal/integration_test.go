package integration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/hazz-dev/pinglog/internal/config"
	"github.com/hazz-dev/pinglog/internal/monitor"
	"github.com/hazz-dev/pinglog/internal/netif"
	"github.com/hazz-dev/pinglog/internal/probe"
	"github.com/hazz-dev/pinglog/internal/server"
	"github.com/hazz-dev/pinglog/internal/sink"
)

type staticLister struct{}

func (staticLister) Links() ([]netif.Link, error) {
	return []netif.Link{
		{Name: "lo", Type: "device"},
		{Name: "eth0", Type: "device", Up: true},
	}, nil
}

// scriptedExecutor answers the exec prober like the system ping binary:
// loopback replies, everything else times out.
type scriptedExecutor struct{}

func (scriptedExecutor) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	host := args[len(args)-1]
	if host == "127.0.0.1" {
		return []byte("64 bytes from 127.0.0.1: icmp_seq=1 ttl=64 time=0.042 ms\n"), nil, nil
	}
	return nil, nil, context.DeadlineExceeded
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func resolve(t *testing.T, args ...string) *config.Options {
	t.Helper()
	fs := pflag.NewFlagSet("pinglog", pflag.ContinueOnError)
	flags := config.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	opts, err := config.Resolve(flags, "")
	if err != nil {
		t.Fatalf("resolving options: %v", err)
	}
	return opts
}

// runCycles drives the monitor for n cycles through Run and returns it.
func runCycles(t *testing.T, opts *config.Options, n int) *monitor.Monitor {
	t.Helper()
	var console bytes.Buffer
	mon := monitor.New(*opts,
		netif.NewWithLister(staticLister{}),
		probe.NewPingProberWithExecutor(opts.Timeout.Duration, scriptedExecutor{}),
		sink.New(sink.NewConsoleWriter(&console, false)),
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(n+2)*time.Duration(opts.Interval)*time.Second)
	defer cancel()
	count := 0
	mon.SetOnResult(func(probe.Result, *probe.Status) {
		count++
		if count == n {
			cancel()
		}
	})
	if err := mon.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if count != n {
		t.Fatalf("expected %d cycles, got %d", n, count)
	}
	return mon
}

// TestIntegration_ReachableHost verifies flags → monitor → log files → API
// for a host that always answers.
func TestIntegration_ReachableHost(t *testing.T) {
	dir := t.TempDir()
	opts := resolve(t, "--hostname", "127.0.0.1", "--path", filepath.Join(dir, "ok.log"), "--interval", "1", "--method", "exec")

	mon := runCycles(t, opts, 2)

	ok := readLines(t, opts.Path)
	if len(ok) != 2 {
		t.Fatalf("expected 2 lines in %s, got %d", opts.Path, len(ok))
	}
	for _, l := range ok {
		if !strings.HasSuffix(l, " eth0(device) Success") {
			t.Errorf("unexpected line %q", l)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "ok_error.log")); !os.IsNotExist(err) {
		t.Errorf("error log should not exist, stat err: %v", err)
	}

	srv := server.New(mon, *opts, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 from /api/status, got %d", w.Code)
	}
	var resp struct {
		Data struct {
			Status string `json:"status"`
			Cycles int    `json:"cycles"`
			Line   string `json:"line"`
		} `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Status != "Success" || resp.Data.Cycles != 2 {
		t.Errorf("unexpected status response %+v", resp.Data)
	}
	if resp.Data.Line != ok[1] {
		t.Errorf("expected API line %q to match last logged line %q", resp.Data.Line, ok[1])
	}
}

// TestIntegration_UnreachableHost verifies that failures land only in the
// derived error log.
func TestIntegration_UnreachableHost(t *testing.T) {
	dir := t.TempDir()
	opts := resolve(t, "--hostname", "10.255.255.1", "--path", filepath.Join(dir, "ok.log"), "--interval", "1", "--method", "exec")

	runCycles(t, opts, 2)

	if opts.ErrorPath != filepath.Join(dir, "ok_error.log") {
		t.Fatalf("unexpected derived error path %q", opts.ErrorPath)
	}
	failed := readLines(t, opts.ErrorPath)
	if len(failed) != 2 {
		t.Fatalf("expected 2 lines in %s, got %d", opts.ErrorPath, len(failed))
	}
	for _, l := range failed {
		if !strings.HasSuffix(l, " eth0(device) TimedOut") {
			t.Errorf("unexpected line %q", l)
		}
	}
	if lines := readLines(t, opts.Path); len(lines) != 0 {
		t.Errorf("success log should stay empty, got %v", lines)
	}
}
