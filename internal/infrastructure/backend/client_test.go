package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/otocare/booking-portal/internal/core/domain"
)

func TestLoginParsesGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/auth/login-json" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "hoa@example.com" {
			t.Errorf("email not forwarded: %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-1","role":"staff"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	grant, err := c.Login(context.Background(), "hoa@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if grant.AccessToken != "tok-1" || grant.Role != domain.RoleStaff {
		t.Fatalf("unexpected grant: %+v", grant)
	}
}

func TestLoginRejectionCarriesDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Sai tên đăng nhập hoặc mật khẩu"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	_, err := c.Login(context.Background(), "hoa@example.com", "wrong")

	var remote *domain.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("expected *domain.RemoteError, got %T (%v)", err, err)
	}
	if remote.Status != 401 || remote.Detail != "Sai tên đăng nhập hoặc mật khẩu" {
		t.Fatalf("unexpected remote error: %+v", remote)
	}
}

func TestLoginTransportFailureIsNotRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	_, err := c.Login(context.Background(), "x@example.com", "secret")
	if err == nil {
		t.Fatal("expected error")
	}
	var remote *domain.RemoteError
	if errors.As(err, &remote) {
		t.Fatalf("transport failure must not be a RemoteError: %+v", remote)
	}
}

func TestProfileSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Errorf("authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"u-1","username":"hoa","email":"hoa@example.com","role":"customer","full_name":"Hoa Tran"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	identity, err := c.Profile(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if identity.Username != "hoa" || identity.Role != domain.RoleCustomer {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestRegisterAttachesCustomerRole(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/register" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["role"] != "customer" {
			t.Errorf("role must always be customer, got %v", body["role"])
		}
		if body["username"] != "newbie" {
			t.Errorf("username not forwarded: %v", body)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	err := c.Register(context.Background(), domain.Registration{
		Username: "newbie",
		Email:    "new@example.com",
		Password: "secret1",
		FullName: "New User",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
}

func TestRegisterConflict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail":"email taken"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	err := c.Register(context.Background(), domain.Registration{Email: "dup@example.com"})

	var remote *domain.RemoteError
	if !errors.As(err, &remote) || remote.Status != 409 {
		t.Fatalf("expected 409 RemoteError, got %v", err)
	}
}

func TestServiceHealthPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/health" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL}, zerolog.Nop())
	if err := c.ServiceHealth(context.Background(), ServiceChat); err != nil {
		t.Fatalf("service health: %v", err)
	}
}
