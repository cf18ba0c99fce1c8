// Package tin encrypts taxpayer identification numbers at rest.
//
// Ciphertexts are "v1:" followed by base64(nonce || XChaCha20-Poly1305 sealed box).
// Decryption is always attributed: the audit entry is written before the
// plaintext leaves the vault, and a failed audit write withholds it.
package tin

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"

	"taxfiling/internal/domain"
	"taxfiling/internal/port"
)

const versionPrefix = "v1:"

// ErrMalformedCiphertext is returned for values not produced by Encrypt.
var ErrMalformedCiphertext = errors.New("malformed TIN ciphertext")

// Vault implements port.TINVault.
type Vault struct {
	aead  cipher.AEAD
	audit port.TaxAuditRepository
}

// NewVault creates a vault from a 32-byte key.
func NewVault(key []byte, audit port.TaxAuditRepository) (*Vault, error) {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("tin.NewVault: %w", err)
	}
	return &Vault{aead: aead, audit: audit}, nil
}

// Encrypt normalizes and seals a TIN.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	normalized, err := Normalize(plaintext)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, v.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("tin.Encrypt nonce: %w", err)
	}
	sealed := v.aead.Seal(nonce, nonce, []byte(normalized), nil)
	return versionPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt records a tin_decrypted audit entry for actor and then opens ciphertext.
func (v *Vault) Decrypt(ctx context.Context, ciphertext, actor, reason string, dc port.DecryptContext) (string, error) {
	if strings.TrimSpace(actor) == "" {
		return "", domain.ErrActorRequired
	}
	if strings.TrimSpace(reason) == "" {
		return "", domain.ErrReasonRequired
	}
	if ciphertext == "" {
		return "", domain.ErrTINUnavailable
	}

	changes, err := json.Marshal(map[string]interface{}{"reason": reason})
	if err != nil {
		return "", fmt.Errorf("tin.Decrypt: %w", err)
	}
	entry := &domain.TaxFormAuditEntry{
		TenantID:  dc.TenantID,
		FormID:    dc.FormID,
		PayeeID:   dc.PayeeID,
		PayeeType: dc.PayeeType,
		Action:    domain.AuditTINDecrypted,
		Actor:     actor,
		Changes:   changes,
	}
	if err := v.audit.Create(ctx, entry); err != nil {
		return "", fmt.Errorf("tin.Decrypt audit: %w", err)
	}

	return v.open(ciphertext)
}

func (v *Vault) open(ciphertext string) (string, error) {
	if !strings.HasPrefix(ciphertext, versionPrefix) {
		return "", ErrMalformedCiphertext
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ciphertext, versionPrefix))
	if err != nil {
		return "", ErrMalformedCiphertext
	}
	ns := v.aead.NonceSize()
	if len(raw) <= ns {
		return "", ErrMalformedCiphertext
	}
	plain, err := v.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", fmt.Errorf("tin.Decrypt: %w", err)
	}
	return string(plain), nil
}

// Normalize strips separators and requires exactly nine digits.
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == ' ':
		default:
			return "", domain.ErrInvalidTIN
		}
	}
	if b.Len() != 9 {
		return "", domain.ErrInvalidTIN
	}
	return b.String(), nil
}

// LastFour returns the last four digits of a normalized TIN.
func LastFour(normalized string) string {
	if len(normalized) < 4 {
		return normalized
	}
	return normalized[len(normalized)-4:]
}

// Mask renders a TIN from its last four digits in the display shape of its type.
func Mask(lastFour string, t domain.TINType) string {
	if lastFour == "" {
		return ""
	}
	if t == domain.TINTypeEIN {
		return "**-***" + lastFour
	}
	return "***-**-" + lastFour
}

// Format renders a normalized TIN with the dashes of its type.
func Format(normalized string, t domain.TINType) string {
	if len(normalized) != 9 {
		return normalized
	}
	if t == domain.TINTypeEIN {
		return normalized[:2] + "-" + normalized[2:]
	}
	return normalized[:3] + "-" + normalized[3:5] + "-" + normalized[5:]
}
