package port

import (
	"context"

	"github.com/google/uuid"

	"taxfiling/internal/domain"
)

// DecryptContext identifies what a TIN is being decrypted for.
type DecryptContext struct {
	TenantID  uuid.UUID
	PayeeID   string
	PayeeType domain.PayeeType
	FormID    *uuid.UUID
}

// TINVault encrypts taxpayer identification numbers at rest. Every Decrypt
// appends exactly one audit entry attributed to actor.
type TINVault interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ctx context.Context, ciphertext, actor, reason string, dc DecryptContext) (string, error)
}
