package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/otocare/booking-portal/internal/core/domain"
	"github.com/otocare/booking-portal/internal/core/ports"
	"github.com/otocare/booking-portal/internal/core/session"
	"github.com/otocare/booking-portal/internal/core/token"
)

// BootstrapState is the terminal state of the one-shot session
// bootstrap.
type BootstrapState string

const (
	BootstrapAnonymous     BootstrapState = "anonymous"
	BootstrapAuthoritative BootstrapState = "authoritative"
	BootstrapDegraded      BootstrapState = "degraded"
)

// Bootstrapper reconciles a persisted credential into a live session
// exactly once per process lifetime.
type Bootstrapper struct {
	writer  *session.Writer
	creds   ports.CredentialStore
	gateway ports.AccountsGateway
	log     zerolog.Logger

	once  sync.Once
	state BootstrapState
}

func NewBootstrapper(writer *session.Writer, creds ports.CredentialStore, gateway ports.AccountsGateway, log zerolog.Logger) *Bootstrapper {
	return &Bootstrapper{
		writer:  writer,
		creds:   creds,
		gateway: gateway,
		log:     log,
	}
}

// Run performs the bootstrap. Subsequent calls return the first run's
// terminal state without re-executing.
func (b *Bootstrapper) Run(ctx context.Context) BootstrapState {
	b.once.Do(func() {
		b.state = b.run(ctx)
		b.log.Info().Str("state", string(b.state)).Msg("session bootstrap complete")
	})
	return b.state
}

func (b *Bootstrapper) run(ctx context.Context) BootstrapState {
	// The loading flag must drop on every exit path, panics included:
	// guards suspend on it and would otherwise never settle.
	defer b.writer.FinishLoading()

	credential, err := b.creds.Load(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrNoCredential) {
			b.log.Warn().Err(err).Msg("credential store unreadable, starting anonymous")
		}
		b.writer.ClearIdentity()
		return BootstrapAnonymous
	}

	claims, err := token.Decode(credential)
	if err != nil || claims.Expired(time.Now()) {
		if err != nil {
			b.log.Warn().Err(err).Msg("persisted credential malformed, clearing")
		}
		if cerr := b.creds.Clear(ctx); cerr != nil {
			b.log.Error().Err(cerr).Msg("failed to clear stale credential")
		}
		b.writer.ClearIdentity()
		return BootstrapAnonymous
	}

	identity, err := b.gateway.Profile(ctx, credential)
	if err != nil {
		// The backend being down is not a reason to log the user out:
		// fall back to the claims and keep the credential.
		degraded := claims.Identity()
		b.writer.SetIdentity(degraded)
		b.log.Warn().Err(err).
			Str("role", string(degraded.Role)).
			Msg("profile fetch failed, using claims-derived identity")
		return BootstrapDegraded
	}

	// Server data wins over claims, role included.
	b.writer.SetIdentity(*identity)
	return BootstrapAuthoritative
}
