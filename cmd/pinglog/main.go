package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hazz-dev/pinglog/internal/alert"
	"github.com/hazz-dev/pinglog/internal/config"
	"github.com/hazz-dev/pinglog/internal/monitor"
	"github.com/hazz-dev/pinglog/internal/netif"
	"github.com/hazz-dev/pinglog/internal/probe"
	"github.com/hazz-dev/pinglog/internal/server"
	"github.com/hazz-dev/pinglog/internal/sink"
	"github.com/hazz-dev/pinglog/internal/version"
)

var cfgFile string

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pinglog --hostname <host> --path <file> --interval <seconds>",
		Short: "Ping a host on an interval and log each result",
		Long: "pinglog sends one ICMP echo request per interval and appends a line per\n" +
			"probe to --path on success or to --errorpath on failure.",
		Args: cobra.NoArgs,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "optional YAML config file")
	flags := config.BindFlags(root.PersistentFlags())
	root.RunE = func(cmd *cobra.Command, _ []string) error {
		return runMonitor(cmd, flags)
	}

	root.AddCommand(versionCmd())
	root.AddCommand(checkCmd(flags))

	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pinglog %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}

func checkCmd(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run a single probe cycle and exit non-zero unless it succeeded",
		Long: "check runs one cycle against --hostname, logs the line like the monitor\n" +
			"does and exits. --interval is accepted but not required.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.DefaultInterval(1)
			return runCheck(cmd, flags)
		},
	}
}

// setup resolves the configuration and builds the monitor. Usage is printed
// only for configuration errors.
func setup(cmd *cobra.Command, flags *config.Flags) (*config.Options, *monitor.Monitor, *slog.Logger, error) {
	opts, err := config.Resolve(flags, cfgFile)
	if err != nil {
		return nil, nil, nil, err
	}
	cmd.SilenceUsage = true

	logger := newLogger(cmd.ErrOrStderr(), opts.LogLevel)
	slog.SetDefault(logger)

	prober, err := probe.New(probe.Config{
		Method:     opts.Method,
		Timeout:    opts.Timeout.Duration,
		Privileged: opts.Privileged,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating prober: %w", err)
	}

	em := sink.New(newConsole(cmd.OutOrStdout()))
	mon := monitor.New(*opts, netif.New(), prober, em, logger)
	return opts, mon, logger, nil
}

func runMonitor(cmd *cobra.Command, flags *config.Flags) error {
	opts, mon, logger, err := setup(cmd, flags)
	if err != nil {
		return err
	}

	var alerter *alert.Alerter
	if opts.Webhook.URL != "" {
		alerter = alert.New(opts.Webhook.URL, opts.Webhook.Cooldown.Duration, logger)
		mon.SetOnResult(alerter.Notify)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var httpServer *http.Server
	serverErr := make(chan error, 1)
	if opts.Listen != "" {
		httpServer = &http.Server{
			Addr:    opts.Listen,
			Handler: server.New(mon, *opts, logger).Router(),
		}
		go func() {
			logger.Info("listening", "address", opts.Listen)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
				cancel()
			}
		}()
	}

	runErr := mon.Run(ctx)

	if httpServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown", "error", err)
		}
	}
	if alerter != nil {
		alerter.Wait()
	}

	if runErr != nil {
		return fmt.Errorf("monitoring %s: %w", opts.HostName, runErr)
	}
	select {
	case err := <-serverErr:
		return fmt.Errorf("HTTP server: %w", err)
	default:
	}
	logger.Info("shutdown complete")
	return nil
}

func runCheck(cmd *cobra.Command, flags *config.Flags) error {
	opts, mon, _, err := setup(cmd, flags)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	return executeCheck(ctx, cmd.OutOrStdout(), mon, opts)
}

func newConsole(w io.Writer) *sink.Console {
	if f, ok := w.(*os.File); ok {
		return sink.NewConsole(f)
	}
	return sink.NewConsoleWriter(w, false)
}

// newLogger returns a text logger on w. stdout carries the probe lines, so
// diagnostics go to stderr.
func newLogger(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
