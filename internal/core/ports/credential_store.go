package ports

import "context"

// CredentialStore persists the bearer credential under a fixed key.
// It survives process restarts and is cleared by logout.
type CredentialStore interface {
	// Load returns the persisted credential, or domain.ErrNoCredential
	// when none is stored.
	Load(ctx context.Context) (string, error)
	Store(ctx context.Context, credential string) error
	// Clear removes the credential. Idempotent.
	Clear(ctx context.Context) error
}
