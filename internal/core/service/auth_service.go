package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/otocare/booking-portal/internal/core/domain"
	"github.com/otocare/booking-portal/internal/core/ports"
	"github.com/otocare/booking-portal/internal/core/session"
	"github.com/otocare/booking-portal/internal/core/token"
)

// DefaultLoginTimeout bounds how long a login waits for the backend
// before giving up.
const DefaultLoginTimeout = 10 * time.Second

// IdentitySource records which path populated the identity after a
// successful login.
type IdentitySource string

const (
	SourceAuthoritative IdentitySource = "authoritative"
	SourceDegraded      IdentitySource = "degraded"
)

// LoginResult is the outcome of a login attempt. On failure, Message
// carries the user-facing explanation.
type LoginResult struct {
	OK      bool
	Role    domain.Role
	Source  IdentitySource
	Message string
}

// User-facing messages, as shipped in the product.
const (
	msgLoginFailed      = "Đăng nhập thất bại"
	msgLoginUnreachable = "Không thể kết nối đến máy chủ. Vui lòng kiểm tra backend (http://localhost:8000)"
	msgLoginBadStatus   = "Không thể xử lý yêu cầu."

	msgRegisterFailed      = "Đăng ký thất bại"
	msgRegisterUnreachable = "Không thể kết nối đến máy chủ. Vui lòng kiểm tra:\n" +
		"1. Backend service đã chạy chưa? (port 8000)\n" +
		"2. CORS đã được cấu hình đúng chưa?\n" +
		"3. Kết nối mạng có ổn định không?"
	msgRegisterInvalid     = "Dữ liệu không hợp lệ. Vui lòng kiểm tra lại thông tin."
	msgRegisterDuplicate   = "Email này đã được đăng ký. Vui lòng sử dụng email khác hoặc đăng nhập."
	msgRegisterBadFormat   = "Dữ liệu không đúng định dạng. Vui lòng kiểm tra lại."
	msgRegisterServerError = "Lỗi hệ thống. Vui lòng thử lại sau hoặc liên hệ hỗ trợ."
)

// Authenticator owns every session mutation triggered by user action:
// login, logout, and in-place identity updates. Together with the
// Bootstrapper it is the only holder of the session Writer.
type Authenticator struct {
	writer  *session.Writer
	creds   ports.CredentialStore
	cache   ports.ProfileCache
	gateway ports.AccountsGateway
	timeout time.Duration
	log     zerolog.Logger
}

func NewAuthenticator(writer *session.Writer, creds ports.CredentialStore, cache ports.ProfileCache, gateway ports.AccountsGateway, log zerolog.Logger) *Authenticator {
	return &Authenticator{
		writer:  writer,
		creds:   creds,
		cache:   cache,
		gateway: gateway,
		timeout: DefaultLoginTimeout,
		log:     log,
	}
}

// WithLoginTimeout overrides the login race bound. Intended for tests.
func (a *Authenticator) WithLoginTimeout(d time.Duration) *Authenticator {
	if d > 0 {
		a.timeout = d
	}
	return a
}

// Login races the backend call against the configured timer; whichever
// settles first decides the outcome. On success the credential is
// persisted immediately, then the identity is resolved as an explicit
// degrade-if-absent step: authoritative profile first, claims second.
// If both identity paths fail the persisted credential is rolled back
// and the login fails as a whole (see DESIGN.md).
func (a *Authenticator) Login(ctx context.Context, email, password string) LoginResult {
	type outcome struct {
		grant *domain.TokenGrant
		err   error
	}

	// Buffered so the loser of the race can settle without a reader;
	// its result is discarded, not cancelled.
	settled := make(chan outcome, 1)
	go func() {
		grant, err := a.gateway.Login(ctx, email, password)
		settled <- outcome{grant: grant, err: err}
	}()

	timer := time.NewTimer(a.timeout)
	defer timer.Stop()

	var grant *domain.TokenGrant
	select {
	case out := <-settled:
		if out.err != nil {
			a.log.Warn().Err(out.err).Msg("login rejected by backend")
			return LoginResult{Message: a.loginFailureMessage(out.err)}
		}
		grant = out.grant
	case <-timer.C:
		a.log.Warn().Dur("timeout", a.timeout).Msg("login timed out")
		return LoginResult{Message: fmt.Sprintf(
			"Không phản hồi từ máy chủ sau %ds. Vui lòng kiểm tra backend.",
			int(a.timeout.Seconds()))}
	}

	if err := a.creds.Store(ctx, grant.AccessToken); err != nil {
		a.log.Error().Err(err).Msg("failed to persist credential")
		return LoginResult{Message: msgLoginFailed}
	}

	if identity, err := a.gateway.Profile(ctx, grant.AccessToken); err == nil {
		a.writer.SetIdentity(*identity)
		if cerr := a.cache.Put(ctx, *identity); cerr != nil {
			a.log.Warn().Err(cerr).Msg("failed to cache profile snapshot")
		}
		return LoginResult{OK: true, Role: grant.Role, Source: SourceAuthoritative}
	} else {
		a.log.Warn().Err(err).Msg("profile fetch failed after login, falling back to claims")
	}

	claims, err := token.Decode(grant.AccessToken)
	if err != nil {
		// A credential the process cannot attach an identity to is
		// useless; roll it back so login stays atomic.
		a.log.Error().Err(err).Msg("issued credential undecodable, rolling back login")
		if cerr := a.creds.Clear(ctx); cerr != nil {
			a.log.Error().Err(cerr).Msg("failed to roll back credential")
		}
		return LoginResult{Message: msgLoginFailed}
	}

	a.writer.SetIdentity(claims.Identity())
	return LoginResult{OK: true, Role: grant.Role, Source: SourceDegraded}
}

func (a *Authenticator) loginFailureMessage(err error) string {
	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		// No response at all.
		return msgLoginUnreachable
	}
	if remote.Status == 0 {
		return msgLoginFailed
	}
	if remote.Detail != "" {
		return fmt.Sprintf("(%d) %s", remote.Status, remote.Detail)
	}
	return fmt.Sprintf("(%d) %s", remote.Status, msgLoginBadStatus)
}

// Register forwards the profile to the registration endpoint. It never
// mutates the session; on failure the returned error's message is the
// user-facing text.
func (a *Authenticator) Register(ctx context.Context, reg domain.Registration) error {
	err := a.gateway.Register(ctx, reg)
	if err == nil {
		return nil
	}
	a.log.Warn().Err(err).Str("email", reg.Email).Msg("registration failed")
	return errors.New(registerFailureMessage(err))
}

func registerFailureMessage(err error) string {
	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		return msgRegisterUnreachable
	}
	switch remote.Status {
	case 400:
		if remote.Detail != "" {
			return remote.Detail
		}
		return msgRegisterInvalid
	case 409:
		return msgRegisterDuplicate
	case 422:
		return msgRegisterBadFormat
	case 500:
		return msgRegisterServerError
	}
	if remote.Detail != "" {
		return remote.Detail
	}
	return msgRegisterFailed
}

// Logout synchronously clears the persisted credential, the legacy
// profile snapshot, and the in-memory identity. Safe to call when
// already logged out. The identity is dropped even when a store fails,
// so the process never keeps serving an identity the user asked to
// discard.
func (a *Authenticator) Logout(ctx context.Context) error {
	var errs []error
	if err := a.creds.Clear(ctx); err != nil {
		a.log.Error().Err(err).Msg("failed to clear credential on logout")
		errs = append(errs, err)
	}
	if err := a.cache.Remove(ctx); err != nil {
		a.log.Warn().Err(err).Msg("failed to remove profile snapshot on logout")
		errs = append(errs, err)
	}
	a.writer.ClearIdentity()
	return errors.Join(errs...)
}

// UpdateIdentity shallow-merges patch into the current identity after
// an in-place profile edit. No network call is made.
func (a *Authenticator) UpdateIdentity(patch domain.IdentityPatch) {
	a.writer.MergeIdentity(patch)
}
