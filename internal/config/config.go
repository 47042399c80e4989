package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBackendURL    = "http://192.168.54.8:8000/api"
	DefaultTestImagePath = "test_waste_image.jpg"
)

type Config struct {
	BackendURL    string        // base URL of the classification backend, e.g., "http://host:8000/api"
	TestImagePath string        // local image used by the upload checks
	LogDir        string        // logs directory
	HealthTimeout time.Duration // deadline for the health request
	DetectTimeout time.Duration // deadline for each detect request
	Strict        bool          // image checks pass only on a successful classification
	SlackWebhook  string        // empty disables the summary notification
	StubAddr      string        // listen address for cmd/stubbackend
	StubOutcome   string        // "classified" | "no_detection" | "error"
}

func FromEnv() Config {
	backend := strings.TrimSpace(os.Getenv("AIPROBE_BACKEND_URL"))
	if backend == "" {
		backend = DefaultBackendURL
	}
	backend = strings.TrimRight(backend, "/")

	image := strings.TrimSpace(os.Getenv("AIPROBE_TEST_IMAGE"))
	if image == "" {
		image = DefaultTestImagePath
	}

	// Logs
	logDir := os.Getenv("LOG_DIR")
	if logDir == "" {
		logDir = "logs"
	}

	healthTimeout := msFromEnv("HEALTH_TIMEOUT_MS", 10*time.Second)
	detectTimeout := msFromEnv("DETECT_TIMEOUT_MS", 120*time.Second)

	strict := false
	if v := os.Getenv("AIPROBE_STRICT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			strict = b
		}
	}

	stubAddr := os.Getenv("STUB_ADDR")
	if stubAddr == "" {
		stubAddr = "127.0.0.1:8000"
	}
	stubOutcome := os.Getenv("STUB_OUTCOME")
	if stubOutcome == "" {
		stubOutcome = "classified"
	}

	return Config{
		BackendURL:    backend,
		TestImagePath: image,
		LogDir:        logDir,
		HealthTimeout: healthTimeout,
		DetectTimeout: detectTimeout,
		Strict:        strict,
		SlackWebhook:  strings.TrimSpace(os.Getenv("SLACK_WEBHOOK_URL")),
		StubAddr:      stubAddr,
		StubOutcome:   stubOutcome,
	}
}

// msFromEnv reads a positive millisecond count; anything else keeps def.
func msFromEnv(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	ms, err := strconv.Atoi(v)
	if err != nil || ms <= 0 {
		return def
	}
	return time.Duration(ms) * time.Millisecond
}
