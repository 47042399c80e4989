package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/hamed0406/aiprobe/internal/logging"
)

// HealthInfo is read from the health payload; absent keys stay empty.
type HealthInfo struct {
	Status            string `json:"status,omitempty"`
	Service           string `json:"service,omitempty"`
	RoboflowAvailable bool   `json:"roboflow_available"`
}

type HealthChecker struct {
	Client  *http.Client
	Timeout time.Duration
	RunID   string

	// Resolver is consulted only after a transport failure. Nil uses the
	// system resolver.
	Resolver Resolver
}

func NewHealthChecker(client *http.Client, timeout time.Duration, runID string) *HealthChecker {
	return &HealthChecker{Client: client, Timeout: timeout, RunID: runID}
}

// Check passes only on HTTP 200 with a JSON object body. There is no retry.
func (h *HealthChecker) Check(ctx context.Context, target string) CheckResult {
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(target, HealthPath), nil)
	if err != nil {
		err = logging.NewOperationError("probe.health", h.RunID, err)
		return CheckResult{Name: NameHealth, Success: false, Message: err.Error(), Err: err}
	}
	if h.RunID != "" {
		req.Header.Set(RequestIDHeader, h.RunID)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.Client.Do(req)
	latency := time.Since(start).Seconds() * 1000 // ms
	if err != nil {
		err = logging.NewOperationError("probe.health", h.RunID, err)
		dns := CheckDNS(context.WithoutCancel(ctx), h.Resolver, extractHost(target))
		return CheckResult{
			Name:      NameHealth,
			Success:   false,
			Message:   err.Error(),
			LatencyMS: latency,
			Err:       err,
			DNS:       &dns,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return CheckResult{
			Name:       NameHealth,
			Success:    false,
			Message:    fmt.Sprintf("server returned status %d", resp.StatusCode),
			StatusCode: resp.StatusCode,
			LatencyMS:  latency,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		err = logging.NewOperationError("probe.health.read_body", h.RunID, err)
		return CheckResult{Name: NameHealth, Success: false, Message: err.Error(),
			StatusCode: resp.StatusCode, LatencyMS: latency, Err: err}
	}
	doc := gjson.ParseBytes(body)
	if !gjson.ValidBytes(body) || !doc.IsObject() {
		return CheckResult{
			Name:       NameHealth,
			Success:    false,
			Message:    "health payload is not a JSON object",
			StatusCode: resp.StatusCode,
			LatencyMS:  latency,
		}
	}

	return CheckResult{
		Name:       NameHealth,
		Success:    true,
		Message:    resp.Status,
		StatusCode: resp.StatusCode,
		LatencyMS:  latency,
		Health: &HealthInfo{
			Status:            doc.Get("status").String(),
			Service:           doc.Get("service").String(),
			RoboflowAvailable: truthy(doc.Get("roboflow_available")),
		},
	}
}
