package reminder

import (
	"context"

	"github.com/dtroode/pauselab/internal/logger"
)

// Notifier delivers reminders to the user.
type Notifier interface {
	// Authorize asks for permission to deliver; false means denied.
	Authorize(ctx context.Context) (bool, error)
	Notify(ctx context.Context, r Reminder) error
}

var _ Notifier = (*LogNotifier)(nil)

// LogNotifier writes reminders to the application log.
type LogNotifier struct {
	logger *logger.Logger
}

func NewLogNotifier(logger *logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Authorize(context.Context) (bool, error) {
	return true, nil
}

func (n *LogNotifier) Notify(_ context.Context, r Reminder) error {
	n.logger.Info("Reminder", "title", r.Title, "body", r.Body)
	return nil
}
