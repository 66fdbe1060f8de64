package backend

import (
	"context"
	"sync"
	"time"
)

// cacheDuration is how long a probe result stays trusted before the
// next check re-probes the service.
const cacheDuration = 5 * time.Minute

// Optional backend microservices whose reachability the portal tracks.
const (
	ServiceCustomer     = "customer"
	ServiceNotification = "notification"
	ServiceChat         = "chat"
)

// KnownServices lists every probed service.
var KnownServices = []string{ServiceCustomer, ServiceNotification, ServiceChat}

// HealthProber checks whether a named service answers its health
// endpoint.
type HealthProber interface {
	ServiceHealth(ctx context.Context, service string) error
}

// AvailabilityChecker caches per-service reachability so the portal
// does not hammer services that are known to be down.
type AvailabilityChecker struct {
	mu        sync.Mutex
	status    map[string]bool
	lastCheck map[string]time.Time
	ttl       time.Duration
	now       func() time.Time
}

func NewAvailabilityChecker() *AvailabilityChecker {
	return &AvailabilityChecker{
		status:    make(map[string]bool),
		lastCheck: make(map[string]time.Time),
		ttl:       cacheDuration,
		now:       time.Now,
	}
}

// Status returns the cached availability of service. known is false
// when the service has never been probed or the cache has expired.
func (a *AvailabilityChecker) Status(service string) (available, known bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	checked, ok := a.lastCheck[service]
	if !ok || a.now().Sub(checked) > a.ttl {
		return false, false
	}
	return a.status[service], true
}

// MarkAvailable records a successful interaction with service.
func (a *AvailabilityChecker) MarkAvailable(service string) {
	a.mark(service, true)
}

// MarkUnavailable records a failed interaction with service.
func (a *AvailabilityChecker) MarkUnavailable(service string) {
	a.mark(service, false)
}

func (a *AvailabilityChecker) mark(service string, available bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status[service] = available
	a.lastCheck[service] = a.now()
}

// Reset forgets the cached state of service, forcing a re-probe.
func (a *AvailabilityChecker) Reset(service string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.status, service)
	delete(a.lastCheck, service)
}

// ResetAll forgets everything.
func (a *AvailabilityChecker) ResetAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = make(map[string]bool)
	a.lastCheck = make(map[string]time.Time)
}

// Check returns the availability of service, probing it when the cache
// has nothing fresh.
func (a *AvailabilityChecker) Check(ctx context.Context, prober HealthProber, service string) bool {
	if available, known := a.Status(service); known {
		return available
	}
	if err := prober.ServiceHealth(ctx, service); err != nil {
		a.MarkUnavailable(service)
		return false
	}
	a.MarkAvailable(service)
	return true
}
