package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/otocare/booking-portal/internal/core/domain"
)

// stubCredentialStore keeps the credential in memory and counts calls.
type stubCredentialStore struct {
	token   string
	loadErr error
	stores  int
	clears  int
}

func (s *stubCredentialStore) Load(_ context.Context) (string, error) {
	if s.loadErr != nil {
		return "", s.loadErr
	}
	if s.token == "" {
		return "", domain.ErrNoCredential
	}
	return s.token, nil
}

func (s *stubCredentialStore) Store(_ context.Context, credential string) error {
	s.token = credential
	s.stores++
	return nil
}

func (s *stubCredentialStore) Clear(_ context.Context) error {
	s.token = ""
	s.clears++
	return nil
}

type stubProfileCache struct {
	snapshot *domain.Identity
	puts     int
	removes  int
}

func (s *stubProfileCache) Put(_ context.Context, id domain.Identity) error {
	s.snapshot = &id
	s.puts++
	return nil
}

func (s *stubProfileCache) Remove(_ context.Context) error {
	s.snapshot = nil
	s.removes++
	return nil
}

// stubGateway scripts the accounts backend's behavior.
type stubGateway struct {
	grant      *domain.TokenGrant
	loginErr   error
	loginDelay time.Duration

	identity   *domain.Identity
	profileErr error

	registerErr error

	logins   int
	profiles int
}

func (g *stubGateway) Login(_ context.Context, _, _ string) (*domain.TokenGrant, error) {
	g.logins++
	if g.loginDelay > 0 {
		time.Sleep(g.loginDelay)
	}
	if g.loginErr != nil {
		return nil, g.loginErr
	}
	return g.grant, nil
}

func (g *stubGateway) Profile(_ context.Context, _ string) (*domain.Identity, error) {
	g.profiles++
	if g.profileErr != nil {
		return nil, g.profileErr
	}
	id := *g.identity
	return &id, nil
}

func (g *stubGateway) Register(_ context.Context, _ domain.Registration) error {
	return g.registerErr
}

// mintCredential signs a token carrying claims. The signature is never
// verified by the portal; signing just produces a structurally valid
// credential.
func mintCredential(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("mint credential: %v", err)
	}
	return signed
}
