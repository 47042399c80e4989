// Package cli holds the aiprobe root command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/aiprobe/internal/config"
	"github.com/hamed0406/aiprobe/internal/logging"
	"github.com/hamed0406/aiprobe/internal/notify"
	"github.com/hamed0406/aiprobe/internal/report"
	"github.com/hamed0406/aiprobe/internal/runner"
)

// ErrChecksFailed is returned by the root command when any recorded check
// failed. The report has already been printed.
var ErrChecksFailed = errors.New("one or more checks failed")

// NewRootCmd creates the root cobra command.
func NewRootCmd() *cobra.Command {
	var (
		asJSON bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "aiprobe",
		Short: "Smoke-test the AI waste classification backend",
		Long: `Run the integration checks against the classification backend:

  1. GET  <base>/core/ai/health/   (must answer 200 with JSON)
  2. POST <base>/core/ai/detect/   multipart upload of the test image
  3. POST <base>/core/ai/detect/   base64 JSON upload of the test image

Checks 2 and 3 run only when the test image exists.

Environment:
  AIPROBE_BACKEND_URL   backend base URL (default ` + config.DefaultBackendURL + `)
  AIPROBE_TEST_IMAGE    test image path (default ` + config.DefaultTestImagePath + `)
  AIPROBE_STRICT        fail image checks unless the image is classified
  SLACK_WEBHOOK_URL     post the summary to Slack
  LOG_DIR               log directory (default logs)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			if cmd.Flags().Changed("strict") {
				cfg.Strict = strict
			}

			logger, err := logging.NewLogger(cfg.LogDir)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: file logging disabled: %v\n", err)
				logger = zap.NewNop()
			}
			defer func() { _ = logger.Sync() }()

			var rep runner.Reporter
			if asJSON {
				rep = report.NewJSON(cmd.OutOrStdout())
			} else {
				rep = report.NewConsole(cmd.OutOrStdout())
			}

			r := runner.New(cfg, logger, rep, notifierFor(cfg, logger))
			if sum := r.Run(cmd.Context()); sum.ExitCode() != 0 {
				return ErrChecksFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as a single JSON document")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail image checks unless the backend classified the image")

	return cmd
}

func notifierFor(cfg config.Config, logger *zap.Logger) notify.Notifier {
	m := notify.Multi{notify.Log{Logger: logger}}
	if s := notify.NewSlack(cfg.SlackWebhook); s != nil {
		m = append(m, s)
	}
	return m
}

// Execute runs the root command against os.Args and returns the exit code.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(cmd *cobra.Command, args []string, stdout, stderr io.Writer) int {
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, ErrChecksFailed) {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}
