package noop

import (
	"context"

	"go.uber.org/zap"

	"taxfiling/internal/email"
	"taxfiling/internal/port"
)

type noopSender struct {
	portalURL string
	log       *zap.Logger
}

// NewNoopSender creates a no-op EmailSender that logs reminders instead of sending them.
func NewNoopSender(portalURL string, log *zap.Logger) port.EmailSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &noopSender{portalURL: portalURL, log: log.Named("email.noop")}
}

func (s *noopSender) SendW9Reminder(_ context.Context, reminder port.W9Reminder) error {
	msg := email.BuildW9Reminder(reminder, s.portalURL)
	s.log.Info("W-9 reminder not sent",
		zap.String("to", reminder.ToEmail),
		zap.String("stage", string(reminder.Stage)),
		zap.String("subject", msg.Subject),
		zap.String("link", email.PortalLink(s.portalURL, reminder.PayeeType)))
	return nil
}
