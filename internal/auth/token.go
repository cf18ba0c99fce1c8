// Package auth validates bearer tokens issued by the identity service.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"taxfiling/internal/config"
	"taxfiling/internal/domain"
)

// accessAudience is the audience carried by access tokens.
const accessAudience = "access"

// Claims represents the JWT claims with tenant context.
type Claims struct {
	jwt.RegisteredClaims
	TenantID uuid.UUID       `json:"tenant_id"`
	UserID   uuid.UUID       `json:"user_id"`
	Email    string          `json:"email"`
	Role     domain.UserRole `json:"role"`
}

// Actor is the identity recorded in audit entries for this caller.
func (c *Claims) Actor() string {
	return "user:" + c.UserID.String()
}

// TokenValidator checks an access token and returns its claims.
type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

// Validator verifies HS256 access tokens. This service never issues tokens.
type Validator struct {
	secret []byte
	issuer string
}

// NewValidator creates a Validator for the configured secret and issuer.
func NewValidator(cfg config.JWTConfig) *Validator {
	return &Validator{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

// Validate parses token, checking signature, expiry, issuer and audience.
func (v *Validator) Validate(token string) (*Claims, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(accessAudience),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !parsed.Valid || claims.TenantID == uuid.Nil || claims.UserID == uuid.Nil {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}
