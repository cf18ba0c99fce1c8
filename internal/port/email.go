package port

import (
	"context"

	"taxfiling/internal/domain"
)

// W9Reminder is the content of one W-9 collection email.
type W9Reminder struct {
	ToEmail   string
	ToName    string
	PayeeType domain.PayeeType
	Stage     domain.W9ReminderStage
	TaxYear   int
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendW9Reminder(ctx context.Context, reminder W9Reminder) error
}
