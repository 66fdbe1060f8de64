// Package token decodes bearer credentials issued by the accounts
// backend. Decoding is claim extraction only: the portal never holds
// the signing key, so claims are advisory and the authoritative
// profile endpoint always wins when reachable.
package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/otocare/booking-portal/internal/core/domain"
)

// DecodeError reports a structurally malformed credential (wrong
// segment count, undecodable payload). It is never returned for
// business reasons: expired tokens decode fine.
type DecodeError struct {
	cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode credential: %v", e.cause)
}

func (e *DecodeError) Unwrap() error { return e.cause }

// Claims are the fields embedded in a credential.
type Claims struct {
	Subject   string
	UserID    string
	Username  string
	Email     string
	FullName  string
	Role      string
	ExpiresAt int64 // epoch seconds; zero when the claim is absent
}

// Decode extracts the claims from credential without verifying the
// signature.
func Decode(credential string) (*Claims, error) {
	payload := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(credential, payload); err != nil {
		return nil, &DecodeError{cause: err}
	}

	c := &Claims{
		Subject:  stringClaim(payload, "sub"),
		UserID:   stringClaim(payload, "user_id"),
		Username: stringClaim(payload, "username"),
		Email:    stringClaim(payload, "email"),
		FullName: stringClaim(payload, "full_name"),
		Role:     stringClaim(payload, "role"),
	}
	if exp, err := payload.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Unix()
	}
	return c, nil
}

// Expired reports whether the credential is past its expiry. A missing
// exp claim counts as expired: without it there is no way to trust the
// credential's lifetime.
func (c *Claims) Expired(now time.Time) bool {
	return c.ExpiresAt <= now.Unix()
}

// Identity synthesizes a degraded identity from the claims, applying
// the same fallbacks the product has always used: id falls back
// user_id→sub, username defaults to "user", an unknown role defaults
// to customer, and the display name falls back to the username.
func (c *Claims) Identity() domain.Identity {
	id := c.UserID
	if id == "" {
		id = c.Subject
	}

	username := c.Username
	if username == "" {
		username = "user"
	}

	role := domain.Role(c.Role)
	if !role.Valid() {
		role = domain.RoleCustomer
	}

	fullName := c.FullName
	if fullName == "" {
		fullName = username
	}

	return domain.Identity{
		ID:       id,
		Username: username,
		Email:    c.Email,
		Role:     role,
		FullName: fullName,
	}
}

func stringClaim(payload jwt.MapClaims, key string) string {
	s, _ := payload[key].(string)
	return s
}
