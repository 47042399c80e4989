package notify

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

// Multi fans out to every notifier and returns all of their errors combined.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var err error
	for _, n := range m {
		if n == nil {
			continue
		}
		err = multierr.Append(err, n.Send(ctx, title, text))
	}
	return err
}

// Log records the notification in the run log. It never fails.
type Log struct {
	Logger *zap.Logger
}

func (l Log) Send(_ context.Context, title, text string) error {
	if l.Logger == nil {
		return nil
	}
	l.Logger.Info("run_summary", zap.String("title", title), zap.String("text", text))
	return nil
}
