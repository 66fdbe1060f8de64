package ports

import (
	"context"

	"github.com/otocare/booking-portal/internal/core/domain"
)

// ProfileCache is the legacy cached profile snapshot. It is written
// after an authoritative fetch and removed on logout; the core never
// reads it back.
type ProfileCache interface {
	Put(ctx context.Context, id domain.Identity) error
	// Remove drops the snapshot. Idempotent.
	Remove(ctx context.Context) error
}
