package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/otocare/booking-portal/internal/api/metrics"
	"github.com/otocare/booking-portal/internal/core/domain"
	"github.com/otocare/booking-portal/internal/core/service"
	"github.com/otocare/booking-portal/internal/core/session"
)

// SessionHandler exposes the portal's own session endpoints. It only
// reads the session store; all mutation goes through the
// Authenticator.
type SessionHandler struct {
	auth  *service.Authenticator
	store *session.Store
}

func NewSessionHandler(auth *service.Authenticator, store *session.Store) *SessionHandler {
	return &SessionHandler{auth: auth, store: store}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Role    string `json:"role,omitempty"`
	Source  string `json:"source,omitempty"`
	Message string `json:"message,omitempty"`
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,min=8"`
}

type registerResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Login authenticates against the accounts backend.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  loginResponse
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if !res.OK {
		metrics.LoginsTotal.WithLabelValues("failure", "").Inc()
		return c.JSON(http.StatusUnauthorized, loginResponse{Message: res.Message})
	}

	metrics.LoginsTotal.WithLabelValues("success", string(res.Source)).Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Success: true,
		Role:    string(res.Role),
		Source:  string(res.Source),
	})
}

// Register forwards a new customer profile to the accounts backend.
//
// @Summary      Register a new customer
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Profile"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  registerResponse
// @Router       /session/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err := h.auth.Register(c.Request().Context(), domain.Registration{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("failure").Inc()
		return c.JSON(http.StatusBadRequest, registerResponse{Message: err.Error()})
	}

	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusCreated, registerResponse{Success: true})
}

// Logout clears the session and the persisted credential.
//
// @Summary      Logout
// @Tags         session
// @Success      204  "logged out"
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context()); err != nil {
		// The in-memory identity is already gone; stale storage keys
		// get cleaned up by the next bootstrap.
		return c.NoContent(http.StatusNoContent)
	}
	return c.NoContent(http.StatusNoContent)
}

// Current returns the session snapshot.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  session.Snapshot
// @Router       /session [get]
func (h *SessionHandler) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.Snapshot())
}

// UpdateIdentity shallow-merges profile edits into the session.
//
// @Summary      Update session identity
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      domain.IdentityPatch  true  "Fields to merge"
// @Success      200   {object}  session.Snapshot
// @Failure      401   {object}  map[string]string
// @Router       /session/identity [patch]
func (h *SessionHandler) UpdateIdentity(c echo.Context) error {
	if !h.store.Snapshot().Authenticated() {
		return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrNotAuthenticated.Error())
	}

	var patch domain.IdentityPatch
	if err := c.Bind(&patch); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	h.auth.UpdateIdentity(patch)
	return c.JSON(http.StatusOK, h.store.Snapshot())
}
