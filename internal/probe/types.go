package probe

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Check names, in the order the runner executes them.
const (
	NameHealth = "health"
	NameFile   = "file"
	NameBase64 = "base64"
)

// Backend routes, relative to the configured base URL.
const (
	HealthPath = "/core/ai/health/"
	DetectPath = "/core/ai/detect/"
)

// RequestIDHeader carries the run id on every probe request.
const RequestIDHeader = "X-Request-ID"

// CheckResult holds the outcome of a single probe.
//
// Success is what the summary records. Health, Detect and DNS carry what was
// read along the way so the report can print it.
type CheckResult struct {
	Name       string          `json:"name"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	StatusCode int             `json:"status_code,omitempty"`
	LatencyMS  float64         `json:"latency_ms,omitempty"`
	Err        error           `json:"-"`
	Health     *HealthInfo     `json:"health,omitempty"`
	Detect     *Interpretation `json:"detect,omitempty"`
	DNS        *DNSStatus      `json:"dns,omitempty"`
}

// Checker is implemented by every probe (health, multipart upload, base64 upload).
// target is the backend base URL.
type Checker interface {
	Check(ctx context.Context, target string) CheckResult
}

// NewClient returns the http.Client shared by all probes of a run. Deadlines
// are set per request through the context.
func NewClient() *http.Client {
	return &http.Client{
		Transport: http.DefaultTransport.(*http.Transport).Clone(),
	}
}

func endpoint(base, path string) string {
	return strings.TrimRight(base, "/") + path
}

func extractHost(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return u.Hostname()
}
