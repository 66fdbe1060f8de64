package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/otocare/booking-portal/internal/core/domain"
	"github.com/otocare/booking-portal/internal/core/ports"
)

// credentialKey is the fixed storage key the bearer credential lives
// under. Kept stable across releases: the bootstrapper reads whatever
// the previous process persisted.
const credentialKey = "token"

// CredentialStore persists the bearer credential in Redis. No TTL is
// applied; the credential carries its own expiry and the bootstrapper
// clears it when stale.
type CredentialStore struct {
	client *redis.Client
}

var _ ports.CredentialStore = (*CredentialStore)(nil)

func NewCredentialStore(client *redis.Client) *CredentialStore {
	return &CredentialStore{client: client}
}

func (s *CredentialStore) Load(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, credentialKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrNoCredential
	}
	if err != nil {
		return "", fmt.Errorf("load credential: %w", err)
	}
	return val, nil
}

func (s *CredentialStore) Store(ctx context.Context, credential string) error {
	if err := s.client.Set(ctx, credentialKey, credential, 0).Err(); err != nil {
		return fmt.Errorf("store credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, credentialKey).Err(); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}
