package service

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"

	"taxfiling/internal/domain"
)

// newAuditEntry builds an entry for form with the given change set.
func newAuditEntry(form *domain.TaxForm, action domain.AuditAction, actor string, changes map[string]interface{}) *domain.TaxFormAuditEntry {
	raw := json.RawMessage("{}")
	if len(changes) > 0 {
		if b, err := json.Marshal(changes); err == nil {
			raw = b
		}
	}
	entry := &domain.TaxFormAuditEntry{
		ID:        uuid.New(),
		TenantID:  form.TenantID,
		PayeeID:   form.PayeeID,
		PayeeType: form.PayeeType,
		Action:    action,
		Actor:     actor,
		Changes:   raw,
	}
	if form.ID != uuid.Nil {
		id := form.ID
		entry.FormID = &id
	}
	return entry
}

func requireActor(actor string) error {
	if strings.TrimSpace(actor) == "" {
		return domain.ErrActorRequired
	}
	return nil
}
