package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger writes JSON logs to <logDir>/aiprobe.log. The console belongs to
// the report, so nothing is logged to stdout.
func NewLogger(logDir string) (*zap.Logger, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}
	w := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logDir, "aiprobe.log"),
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	})
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), w, zap.DebugLevel)
	return zap.New(core), nil
}

// WithRun tags every entry with the probe run id.
func WithRun(logger *zap.Logger, runID string) *zap.Logger {
	if runID == "" {
		return logger
	}
	return logger.With(zap.String("run_id", runID))
}
