// Package backend is the HTTP client for the remote maintenance
// booking backend. The portal consumes its auth contract only; the
// business endpoints stay behind other services.
package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/otocare/booking-portal/internal/core/domain"
	"github.com/otocare/booking-portal/internal/core/ports"
)

const defaultTimeout = 30 * time.Second

// Config captures the settings for reaching the backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the accounts backend over REST.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

var _ ports.AccountsGateway = (*Client)(nil)

func NewClient(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "booking-portal/1.0")

	return &Client{http: rc, log: log}
}

// errorBody is the structured error payload the backend returns on
// non-2xx responses.
type errorBody struct {
	Detail string `json:"detail"`
}

// Login exchanges credentials for a token grant via POST
// /auth/login-json.
func (c *Client) Login(ctx context.Context, email, password string) (*domain.TokenGrant, error) {
	var grant domain.TokenGrant
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&grant).
		SetError(&errorBody{}).
		Post("/auth/login-json")
	if err != nil {
		return nil, fmt.Errorf("login request: %w", err)
	}
	if resp.IsError() {
		return nil, remoteError(resp)
	}
	return &grant, nil
}

// Profile fetches the authoritative identity via GET /auth/me.
func (c *Client) Profile(ctx context.Context, credential string) (*domain.Identity, error) {
	var identity domain.Identity
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(credential).
		SetResult(&identity).
		SetError(&errorBody{}).
		Get("/auth/me")
	if err != nil {
		return nil, fmt.Errorf("profile request: %w", err)
	}
	if resp.IsError() {
		return nil, remoteError(resp)
	}
	return &identity, nil
}

// Register submits a new profile via POST /auth/register. The role is
// always customer; the portal never forwards a caller-chosen role.
func (c *Client) Register(ctx context.Context, reg domain.Registration) error {
	body := struct {
		domain.Registration
		Role string `json:"role"`
	}{Registration: reg, Role: string(domain.RoleCustomer)}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetError(&errorBody{}).
		Post("/auth/register")
	if err != nil {
		return fmt.Errorf("register request: %w", err)
	}
	if resp.IsError() {
		return remoteError(resp)
	}
	return nil
}

// Ping checks the backend's own health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("backend ping: %w", err)
	}
	if resp.IsError() {
		return &domain.RemoteError{Status: resp.StatusCode()}
	}
	return nil
}

// ServiceHealth probes the health endpoint of one of the optional
// backend microservices (customer, notification, chat), mounted under
// a per-service path prefix on the gateway.
func (c *Client) ServiceHealth(ctx context.Context, service string) error {
	resp, err := c.http.R().SetContext(ctx).Get("/" + service + "/health")
	if err != nil {
		return fmt.Errorf("%s health: %w", service, err)
	}
	if resp.IsError() {
		return &domain.RemoteError{Status: resp.StatusCode()}
	}
	return nil
}

func remoteError(resp *resty.Response) *domain.RemoteError {
	remote := &domain.RemoteError{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		remote.Detail = body.Detail
	}
	return remote
}
