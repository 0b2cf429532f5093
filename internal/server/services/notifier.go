package services

import (
	"context"

	"github.com/mlukyanov/userd/internal/logging"
	"github.com/mlukyanov/userd/internal/server/models"
)

// LogNotifier publishes account lifecycle events to the structured log. It
// stands in for the broker the other services of the platform subscribe
// through; swapping it out does not touch the registration path.
type LogNotifier struct {
	logger logging.Logger
}

func NewLogNotifier(l logging.Logger) *LogNotifier {
	return &LogNotifier{logger: l.With("module", "notifier")}
}

func (n *LogNotifier) AccountCreated(ctx context.Context, user *models.User) {
	n.logger.Info(ctx, "account created", "user_id", user.ID, "username", user.Username)
}
