package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/otocare/booking-portal/docs"
	"github.com/otocare/booking-portal/internal/api/handler"
	"github.com/otocare/booking-portal/internal/api/middleware"
	"github.com/otocare/booking-portal/internal/core/domain"
	"github.com/otocare/booking-portal/internal/core/routing"
	"github.com/otocare/booking-portal/internal/core/service"
	"github.com/otocare/booking-portal/internal/core/session"
	"github.com/otocare/booking-portal/internal/infrastructure/backend"
)

// Deps carries everything the router wires together.
type Deps struct {
	Log          zerolog.Logger
	Store        *session.Store
	Auth         *service.Authenticator
	Resolver     *routing.Resolver
	Mongo        *mongo.Database
	Redis        *redis.Client
	Backend      *backend.Client
	Availability *backend.AvailabilityChecker
}

// NewRouter builds the Echo instance with every page route mounted
// behind its guards. The containment guard wraps every page; route
// guards run inside it, so an outer redirect always preempts the
// inner ones.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Guards ---
	contain := middleware.Guard(d.Store, d.Resolver, routing.Contain())
	public := middleware.Guard(d.Store, d.Resolver, routing.Public())
	adminOnly := middleware.Guard(d.Store, d.Resolver, routing.Admin())
	protected := func(roles ...domain.Role) echo.MiddlewareFunc {
		return middleware.Guard(d.Store, d.Resolver, routing.Protected(roles...))
	}

	// --- Session endpoints ---
	sessions := handler.NewSessionHandler(d.Auth, d.Store)
	e.POST("/session/login", sessions.Login)
	e.POST("/session/register", sessions.Register)
	e.POST("/session/logout", sessions.Logout)
	e.GET("/session", sessions.Current)
	e.PATCH("/session/identity", sessions.UpdateIdentity)

	// --- Public pages ---
	for _, p := range []struct{ path, name string }{
		{"/", "home"},
		{"/services", "services"},
		{"/about", "about"},
		{"/contact", "contact"},
		{routing.LoginPath, "login"},
		{routing.RegisterPath, "register"},
	} {
		e.GET(p.path, handler.Page(p.name), contain, public)
	}

	// --- Generic protected pages ---
	e.GET("/invoices", handler.Page("invoices"), contain, protected())
	e.GET("/invoice/:invoiceId", handler.Page("invoice-detail"), contain, protected())
	e.GET("/payment/success", handler.Page("payment-success"), contain, protected())
	e.GET("/payment/failed", handler.Page("payment-failed"), contain, protected())
	// Payment gateway return URL: reached before the gateway redirects
	// the visitor back into a session, so it stays unauthenticated.
	e.GET("/payment/return", handler.Page("payment-return"), contain)
	e.GET("/payment/:invoiceId", handler.Page("payment"), contain, protected())

	// --- Customer area ---
	for _, p := range []struct{ path, name string }{
		{"/customer/dashboard", "customer-dashboard"},
		{"/customer/vehicles", "customer-vehicles"},
		{"/customer/appointments", "customer-appointments"},
		{"/customer/service-history", "customer-service-history"},
		{"/customer/profile", "customer-profile"},
		{"/customer/booking", "customer-booking"},
		{"/customer/payment", "customer-payment"},
		{"/customer/invoice/:invoiceId", "customer-invoice-detail"},
		{"/customer/chat", "customer-chat"},
	} {
		e.GET(p.path, handler.Page(p.name), contain, protected(domain.RoleCustomer))
	}

	// --- Staff area (admins may enter) ---
	for _, p := range []struct{ path, name string }{
		{"/staff/dashboard", "staff-dashboard"},
		{"/staff/appointments", "staff-appointments"},
		{"/staff/appointments/:appointmentId", "staff-appointment-form"},
		{"/staff/parts", "staff-parts"},
		{"/staff/customers", "staff-customers"},
		{"/staff/chat", "staff-chat"},
		{"/staff/reports", "staff-reports"},
		{"/staff/services", "staff-services"},
		{"/staff/invoices", "staff-invoices"},
		{"/staff/invoices/:invoiceId", "staff-invoice-detail"},
	} {
		e.GET(p.path, handler.Page(p.name), contain, protected(domain.RoleStaff, domain.RoleAdmin))
	}
	// Shared checklist page: the one staff route technicians also work in.
	e.GET("/staff/appointments/:appointmentId/checklist", handler.Page("staff-checklist"),
		contain, protected(domain.RoleStaff, domain.RoleTechnician, domain.RoleAdmin))
	// Invoice creation: reachable by technicians via cross-role allowance.
	e.GET("/staff/invoices/create", handler.Page("staff-invoice-create"),
		contain, protected(domain.RoleStaff, domain.RoleAdmin, domain.RoleTechnician))

	// --- Technician area ---
	for _, p := range []struct{ path, name string }{
		{"/technician/dashboard", "technician-dashboard"},
		{"/technician/tasks", "technician-tasks"},
		{"/technician/tasks/:taskId", "technician-task-details"},
		{"/technician/tasks/:taskId/checklist", "technician-task-checklist"},
		{"/technician/schedule", "technician-schedule"},
		{"/technician/parts", "technician-parts"},
		{"/technician/progress", "technician-progress"},
		{"/technician/progress/:taskId", "technician-progress-detail"},
	} {
		e.GET(p.path, handler.Page(p.name), contain, protected(domain.RoleTechnician, domain.RoleAdmin))
	}

	// --- Admin area: allow-list gate outside, admin gate inside ---
	for _, p := range []struct{ path, name string }{
		{"/admin/dashboard", "admin-dashboard"},
		{"/admin/users", "admin-users"},
		{"/admin/branches", "admin-branches"},
		{"/admin/staff", "admin-staff"},
		{"/admin/inventory", "admin-inventory"},
		{"/admin/finance", "admin-finance"},
		{"/admin/ai-suggestions", "admin-ai-suggestions"},
		{"/admin/shifts", "admin-shifts"},
	} {
		e.GET(p.path, handler.Page(p.name), contain, protected(domain.RoleAdmin), adminOnly)
	}

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(d.Mongo, d.Redis, d.Backend).Readiness)
	e.GET("/health/services", handler.NewServicesHandler(d.Availability, d.Backend).Services)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
