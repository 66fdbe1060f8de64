package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/otocare/booking-portal/internal/core/domain"
	"github.com/otocare/booking-portal/internal/core/service"
	"github.com/otocare/booking-portal/internal/core/session"
)

type stubCreds struct {
	token  string
	clears int
}

func (s *stubCreds) Load(_ context.Context) (string, error) {
	if s.token == "" {
		return "", domain.ErrNoCredential
	}
	return s.token, nil
}

func (s *stubCreds) Store(_ context.Context, credential string) error {
	s.token = credential
	return nil
}

func (s *stubCreds) Clear(_ context.Context) error {
	s.token = ""
	s.clears++
	return nil
}

type stubCache struct{ removes int }

func (s *stubCache) Put(_ context.Context, _ domain.Identity) error { return nil }
func (s *stubCache) Remove(_ context.Context) error {
	s.removes++
	return nil
}

type stubGateway struct {
	grant       *domain.TokenGrant
	loginErr    error
	identity    *domain.Identity
	registerErr error
}

func (g *stubGateway) Login(_ context.Context, _, _ string) (*domain.TokenGrant, error) {
	if g.loginErr != nil {
		return nil, g.loginErr
	}
	return g.grant, nil
}

func (g *stubGateway) Profile(_ context.Context, _ string) (*domain.Identity, error) {
	id := *g.identity
	return &id, nil
}

func (g *stubGateway) Register(_ context.Context, _ domain.Registration) error {
	return g.registerErr
}

type fixture struct {
	handler *SessionHandler
	store   *session.Store
	writer  *session.Writer
	creds   *stubCreds
	cache   *stubCache
}

func newFixture(gateway *stubGateway) *fixture {
	store, writer := session.NewStore()
	writer.FinishLoading()
	creds := &stubCreds{}
	cache := &stubCache{}
	auth := service.NewAuthenticator(writer, creds, cache, gateway, zerolog.Nop())
	return &fixture{
		handler: NewSessionHandler(auth, store),
		store:   store,
		writer:  writer,
		creds:   creds,
		cache:   cache,
	}
}

func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestLoginEndpointSuccess(t *testing.T) {
	f := newFixture(&stubGateway{
		grant:    &domain.TokenGrant{AccessToken: "tok", Role: domain.RoleCustomer},
		identity: &domain.Identity{ID: "u-1", Username: "hoa", Role: domain.RoleCustomer},
	})

	rec := doJSON(t, f.handler.Login, http.MethodPost, "/session/login",
		`{"email":"hoa@example.com","password":"secret"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var res loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !res.Success || res.Role != "customer" || res.Source != "authoritative" {
		t.Fatalf("unexpected response: %+v", res)
	}
	if !f.store.Snapshot().Authenticated() {
		t.Fatal("session must be authenticated after login")
	}
}

func TestLoginEndpointRejected(t *testing.T) {
	f := newFixture(&stubGateway{
		loginErr: &domain.RemoteError{Status: 401, Detail: "Sai mật khẩu"},
	})

	rec := doJSON(t, f.handler.Login, http.MethodPost, "/session/login",
		`{"email":"hoa@example.com","password":"wrong"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "(401) Sai mật khẩu") {
		t.Fatalf("message missing from body: %s", rec.Body.String())
	}
}

func TestLoginEndpointValidation(t *testing.T) {
	f := newFixture(&stubGateway{})

	rec := doJSON(t, f.handler.Login, http.MethodPost, "/session/login",
		`{"email":"not-an-email","password":""}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestRegisterEndpoint(t *testing.T) {
	f := newFixture(&stubGateway{})

	rec := doJSON(t, f.handler.Register, http.MethodPost, "/session/register",
		`{"username":"newbie","email":"new@example.com","password":"secret1","full_name":"New User"}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if f.store.Snapshot().Authenticated() {
		t.Fatal("registration must not log the visitor in")
	}
}

func TestRegisterEndpointDuplicate(t *testing.T) {
	f := newFixture(&stubGateway{
		registerErr: &domain.RemoteError{Status: 409},
	})

	rec := doJSON(t, f.handler.Register, http.MethodPost, "/session/register",
		`{"username":"newbie","email":"new@example.com","password":"secret1","full_name":"New User"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "đã được đăng ký") {
		t.Fatalf("expected duplicate message, got %s", rec.Body.String())
	}
}

func TestLogoutEndpoint(t *testing.T) {
	f := newFixture(&stubGateway{})
	f.writer.SetIdentity(domain.Identity{ID: "u-1", Role: domain.RoleStaff})
	f.creds.token = "tok"

	rec := doJSON(t, f.handler.Logout, http.MethodPost, "/session/logout", "")

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if f.creds.token != "" || f.cache.removes != 1 {
		t.Fatal("logout must clear credential and snapshot")
	}
	if f.store.Snapshot().Authenticated() {
		t.Fatal("session must be anonymous after logout")
	}
}

func TestCurrentEndpoint(t *testing.T) {
	f := newFixture(&stubGateway{})
	f.writer.SetIdentity(domain.Identity{ID: "u-1", Username: "hoa", Role: domain.RoleCustomer})

	rec := doJSON(t, f.handler.Current, http.MethodGet, "/session", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var snap session.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Loading || snap.Identity == nil || snap.Identity.Username != "hoa" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestUpdateIdentityEndpoint(t *testing.T) {
	f := newFixture(&stubGateway{})
	f.writer.SetIdentity(domain.Identity{ID: "u-1", Username: "hoa", Role: domain.RoleCustomer})

	rec := doJSON(t, f.handler.UpdateIdentity, http.MethodPatch, "/session/identity",
		`{"full_name":"Hoa Thi Tran"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if f.store.Snapshot().Identity.FullName != "Hoa Thi Tran" {
		t.Fatal("patch must be merged into the session")
	}
}

func TestUpdateIdentityRequiresSession(t *testing.T) {
	f := newFixture(&stubGateway{})

	rec := doJSON(t, f.handler.UpdateIdentity, http.MethodPatch, "/session/identity",
		`{"full_name":"Nobody"}`)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
