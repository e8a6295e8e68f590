package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Probe methods.
const (
	MethodICMP = "icmp"
	MethodExec = "exec"
)

const (
	DefaultTimeout  = 5 * time.Second
	DefaultCooldown = 5 * time.Minute
)

// Duration is a time.Duration that unmarshals from a YAML string like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	dur, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dur
	return nil
}

// WebhookConfig holds alert webhook settings.
type WebhookConfig struct {
	URL      string   `yaml:"url"`
	Cooldown Duration `yaml:"cooldown"`
}

// Options is the validated runtime configuration of the monitor.
type Options struct {
	HostName   string        `yaml:"hostname"`
	Path       string        `yaml:"path"`
	ErrorPath  string        `yaml:"errorpath"`
	Interval   int           `yaml:"interval"`
	Timeout    Duration      `yaml:"timeout"`
	Method     string        `yaml:"method"`
	Privileged bool          `yaml:"privileged"`
	Listen     string        `yaml:"listen"`
	Webhook    WebhookConfig `yaml:"webhook"`
	LogLevel   string        `yaml:"log_level"`
}

// IntervalDuration returns the delay between cycles.
func (o *Options) IntervalDuration() time.Duration {
	return time.Duration(o.Interval) * time.Second
}

// Flags holds the values bound to a flag set by BindFlags.
type Flags struct {
	fs              *pflag.FlagSet
	hostName        string
	path            string
	errorPath       string
	interval        int
	timeout         time.Duration
	method          string
	privileged      bool
	listen          string
	webhook         string
	webhookCooldown time.Duration
	logLevel        string
}

// BindFlags registers the monitor flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	fs.StringVar(&f.hostName, "hostname", "", "host name or IP address to probe")
	fs.StringVar(&f.path, "path", "", "log file for successful probes")
	fs.StringVar(&f.errorPath, "errorpath", "", "log file for failed probes (default <path stem>_error<ext>)")
	fs.IntVar(&f.interval, "interval", 0, "seconds to wait between probes")
	fs.DurationVar(&f.timeout, "timeout", DefaultTimeout, "time to wait for an echo reply")
	fs.StringVar(&f.method, "method", MethodICMP, "probe method: icmp or exec")
	fs.BoolVar(&f.privileged, "privileged", false, "use raw ICMP sockets")
	fs.StringVar(&f.listen, "listen", "", "address for the status API (disabled when empty)")
	fs.StringVar(&f.webhook, "webhook", "", "URL notified when the probe status changes")
	fs.DurationVar(&f.webhookCooldown, "webhook-cooldown", DefaultCooldown, "minimum time between webhook notifications")
	fs.StringVar(&f.logLevel, "log-level", "info", "diagnostic log level: debug, info, warn or error")
	return f
}

// DefaultInterval makes seconds the interval used when neither the flag nor
// the config file sets one. Commands that never wait between cycles use it
// so --interval stays optional for them.
func (f *Flags) DefaultInterval(seconds int) {
	if !f.fs.Changed("interval") {
		f.interval = seconds
	}
}

// Resolve builds Options from the optional YAML file at file and the flags,
// explicit flags taking precedence, then validates the result.
func Resolve(f *Flags, file string) (*Options, error) {
	opts := &Options{}
	if file != "" {
		loaded, err := Load(file)
		if err != nil {
			return nil, err
		}
		opts = loaded
	}

	set := func(name string) bool {
		return f.fs.Changed(name)
	}
	if set("hostname") || opts.HostName == "" {
		opts.HostName = f.hostName
	}
	if set("path") || opts.Path == "" {
		opts.Path = f.path
	}
	if set("errorpath") || opts.ErrorPath == "" {
		opts.ErrorPath = f.errorPath
	}
	if set("interval") || opts.Interval == 0 {
		opts.Interval = f.interval
	}
	if set("timeout") || opts.Timeout.Duration == 0 {
		opts.Timeout = Duration{f.timeout}
	}
	if set("method") || opts.Method == "" {
		opts.Method = f.method
	}
	if set("privileged") {
		opts.Privileged = f.privileged
	}
	if set("listen") || opts.Listen == "" {
		opts.Listen = f.listen
	}
	if set("webhook") || opts.Webhook.URL == "" {
		opts.Webhook.URL = f.webhook
	}
	if set("webhook-cooldown") || opts.Webhook.Cooldown.Duration == 0 {
		opts.Webhook.Cooldown = Duration{f.webhookCooldown}
	}
	if set("log-level") || opts.LogLevel == "" {
		opts.LogLevel = f.logLevel
	}

	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return opts, nil
}

// Load reads and parses the YAML file at path without validating it.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var opts Options
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &opts, nil
}

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks required fields and fills in derived values.
func (o *Options) Validate() error {
	o.HostName = strings.TrimSpace(o.HostName)
	if o.HostName == "" {
		return invalid("hostname is required")
	}
	if o.Path == "" {
		return invalid("path is required")
	}
	if err := checkFilePath("path", o.Path); err != nil {
		return err
	}
	if o.Interval <= 0 {
		return invalid("interval is required and must be a positive number of seconds, got %d", o.Interval)
	}
	if o.ErrorPath == "" {
		o.ErrorPath = ErrorPathFor(o.Path)
	}
	if err := checkFilePath("errorpath", o.ErrorPath); err != nil {
		return err
	}
	if o.Timeout.Duration <= 0 {
		o.Timeout = Duration{DefaultTimeout}
	}
	switch o.Method {
	case "":
		o.Method = MethodICMP
	case MethodICMP, MethodExec:
	default:
		return invalid("method %q must be %s or %s", o.Method, MethodICMP, MethodExec)
	}
	if o.Webhook.URL != "" && o.Webhook.Cooldown.Duration < 0 {
		return invalid("webhook cooldown must not be negative")
	}
	return nil
}

func checkFilePath(field, path string) error {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return invalid("%s %q is a directory", field, path)
	}
	return nil
}

// ErrorPathFor derives the failure log path from path: the stem gets an
// "_error" suffix and the extension is kept, e.g. /var/log/ping.log becomes
// /var/log/ping_error.log.
func ErrorPathFor(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_error" + ext
}
