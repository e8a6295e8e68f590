package alert

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hazz-dev/pinglog/internal/probe"
)

// Alerter posts a webhook when the probed host goes down or comes back up.
type Alerter struct {
	webhookURL string
	cooldown   time.Duration
	client     *http.Client
	lastAlert  time.Time
	mu         sync.Mutex
	wg         sync.WaitGroup
	logger     *slog.Logger
}

// New creates a new Alerter. Pass nil logger to use the default logger.
func New(webhookURL string, cooldown time.Duration, logger *slog.Logger) *Alerter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Alerter{
		webhookURL: webhookURL,
		cooldown:   cooldown,
		client:     &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

type webhookPayload struct {
	Host           string `json:"host"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previous_status"`
	Interface      string `json:"interface"`
	RTTMs          int64  `json:"rtt_ms"`
	CheckedAt      string `json:"checked_at"`
	Source         string `json:"source"`
}

// Notify sends a webhook if the host changed between reachable and
// unreachable and the cooldown has elapsed. Changes between two failure
// statuses are not reported.
func (a *Alerter) Notify(result probe.Result, previousStatus *probe.Status) {
	// First cycle.
	if previousStatus == nil {
		return
	}
	if result.Status.OK() == previousStatus.OK() {
		return
	}

	a.mu.Lock()
	if !a.lastAlert.IsZero() && time.Since(a.lastAlert) < a.cooldown {
		a.mu.Unlock()
		a.logger.Info("alert suppressed by cooldown", "host", result.Host, "status", result.Status)
		return
	}
	a.lastAlert = time.Now()
	a.mu.Unlock()

	// Send asynchronously so Notify doesn't delay the next cycle.
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.send(result, string(*previousStatus))
	}()
}

// Wait blocks until in-flight webhooks have finished.
func (a *Alerter) Wait() {
	a.wg.Wait()
}

func (a *Alerter) send(result probe.Result, prevStatus string) {
	payload := webhookPayload{
		Host:           result.Host,
		Status:         string(result.Status),
		PreviousStatus: prevStatus,
		Interface:      result.InterfaceName,
		RTTMs:          result.RTT.Milliseconds(),
		CheckedAt:      result.CheckedAt.UTC().Format(time.RFC3339),
		Source:         "pinglog",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		a.logger.Error("marshaling webhook payload", "host", result.Host, "error", err)
		return
	}

	resp, err := a.client.Post(a.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		a.logger.Error("sending webhook", "host", result.Host, "url", a.webhookURL, "error", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		a.logger.Warn("webhook returned non-2xx status",
			"host", result.Host,
			"status", resp.StatusCode,
		)
	}
}
