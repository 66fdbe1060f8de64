package ports

import (
	"context"

	"github.com/otocare/booking-portal/internal/core/domain"
)

// AccountsGateway is the remote accounts backend the portal
// authenticates against. Implementations return *domain.RemoteError
// for non-2xx responses and plain errors for transport failures.
type AccountsGateway interface {
	// Login exchanges credentials for a token grant.
	Login(ctx context.Context, email, password string) (*domain.TokenGrant, error)
	// Profile fetches the authoritative identity for a credential.
	Profile(ctx context.Context, credential string) (*domain.Identity, error)
	// Register submits a new customer profile. The gateway attaches
	// role "customer" unconditionally.
	Register(ctx context.Context, reg domain.Registration) error
}
