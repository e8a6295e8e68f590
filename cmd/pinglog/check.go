package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/hazz-dev/pinglog/internal/config"
	"github.com/hazz-dev/pinglog/internal/probe"
)

type cycleRunner interface {
	RunOnce(ctx context.Context) (probe.Result, error)
}

func executeCheck(ctx context.Context, out io.Writer, r cycleRunner, opts *config.Options) error {
	result, err := r.RunOnce(ctx)
	if err != nil {
		return fmt.Errorf("checking %s: %w", opts.HostName, err)
	}

	path := opts.Path
	if !result.Status.OK() {
		path = opts.ErrorPath
	}
	rtt := "—"
	if result.RTT > 0 {
		rtt = result.RTT.Round(time.Microsecond).String()
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "HOST\tSTATUS\tRTT\tINTERFACE\tLOG")
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		result.Host,
		result.Status,
		rtt,
		result.InterfaceName,
		path,
	)
	w.Flush()

	if !result.Status.OK() {
		return fmt.Errorf("host %s: %s", result.Host, result.Status)
	}
	return nil
}
