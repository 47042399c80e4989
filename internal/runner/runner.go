package runner

import (
	"context"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/aiprobe/internal/config"
	"github.com/hamed0406/aiprobe/internal/logging"
	"github.com/hamed0406/aiprobe/internal/notify"
	"github.com/hamed0406/aiprobe/internal/probe"
)

// Reporter receives progress as the run goes. Implementations print; they
// never influence outcomes.
type Reporter interface {
	Start(backend, runID string)
	CheckStarted(name string)
	CheckFinished(res probe.CheckResult)
	ImageMissing(path string)
	Finish(sum *probe.Summary)
}

type Runner struct {
	Logger   *zap.Logger
	Reporter Reporter
	Notifier notify.Notifier // optional

	BackendURL string
	ImagePath  string
	RunID      string

	Health probe.Checker
	File   probe.Checker
	Base64 probe.Checker
}

// New wires the three probes around one shared HTTP client.
func New(cfg config.Config, logger *zap.Logger, rep Reporter, n notify.Notifier) *Runner {
	runID := uuid.NewString()
	client := probe.NewClient()

	file := probe.NewDetectChecker(client, probe.UploadMultipart, cfg.TestImagePath, cfg.DetectTimeout, runID)
	file.Strict = cfg.Strict
	b64 := probe.NewDetectChecker(client, probe.UploadBase64, cfg.TestImagePath, cfg.DetectTimeout, runID)
	b64.Strict = cfg.Strict

	return &Runner{
		Logger:     logging.WithRun(logger, runID),
		Reporter:   rep,
		Notifier:   n,
		BackendURL: cfg.BackendURL,
		ImagePath:  cfg.TestImagePath,
		RunID:      runID,
		Health:     probe.NewHealthChecker(client, cfg.HealthTimeout, runID),
		File:       file,
		Base64:     b64,
	}
}

// Run executes health, then the two image checks when the image exists, and
// returns the recorded summary. Use Summary.ExitCode for the process status.
func (r *Runner) Run(ctx context.Context) *probe.Summary {
	sum := &probe.Summary{RunID: r.RunID, Backend: r.BackendURL}
	r.Logger.Info("run_started",
		zap.String("backend", r.BackendURL),
		zap.String("image", r.ImagePath),
	)
	r.Reporter.Start(r.BackendURL, r.RunID)

	r.runCheck(ctx, sum, probe.NameHealth, r.Health)

	if imageExists(r.ImagePath) {
		r.runCheck(ctx, sum, probe.NameFile, r.File)
		r.runCheck(ctx, sum, probe.NameBase64, r.Base64)
	} else {
		r.Logger.Info("image_checks_skipped", zap.String("image", r.ImagePath))
		r.Reporter.ImageMissing(r.ImagePath)
	}

	r.Reporter.Finish(sum)
	r.Logger.Info("run_finished",
		zap.Bool("passed", sum.Passed()),
		zap.Int("checks", len(sum.Results)),
		zap.Int("failed", sum.Failed()),
	)

	if r.Notifier != nil {
		if err := r.Notifier.Send(ctx, sum.Headline(), sum.Text()); err != nil {
			r.Logger.Warn("notify_error", zap.Error(err))
		}
	}
	return sum
}

func (r *Runner) runCheck(ctx context.Context, sum *probe.Summary, name string, c probe.Checker) {
	r.Reporter.CheckStarted(name)
	res := c.Check(ctx, r.BackendURL)
	res.Name = name

	fields := []zap.Field{
		zap.String("check", name),
		zap.Bool("success", res.Success),
		zap.Int("status", res.StatusCode),
		zap.Float64("latency_ms", res.LatencyMS),
		zap.String("message", res.Message),
	}
	if res.Detect != nil {
		fields = append(fields, zap.String("outcome", string(res.Detect.Kind)))
	}
	if res.Err != nil {
		r.Logger.Warn("check_failed", append(fields, zap.Error(res.Err))...)
	} else {
		r.Logger.Info("check_done", fields...)
	}

	r.Reporter.CheckFinished(res)
	if err := sum.Record(res); err != nil {
		r.Logger.Error("record_error", zap.Error(err))
	}
}

// imageExists mirrors a plain existence test: a directory counts, and then
// fails at upload time.
func imageExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
