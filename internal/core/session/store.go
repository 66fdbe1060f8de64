// Package session holds the process-wide authentication session: the
// current identity (if any) plus a loading flag that is true only
// while the bootstrapper is reconciling a persisted credential.
//
// Mutation is split off at the type level: NewStore returns the
// read-only Store alongside a single Writer. Only the authenticator
// and the bootstrapper hold the Writer; guards, handlers, and pages
// only ever see the Store. Nothing else in the process can write.
package session

import (
	"sync"

	"github.com/otocare/booking-portal/internal/core/domain"
)

// Snapshot is a point-in-time copy of the session handed to readers.
// Identity is nil for an anonymous session.
type Snapshot struct {
	Identity *domain.Identity `json:"identity,omitempty"`
	Loading  bool             `json:"loading"`
}

// Authenticated reports whether the snapshot carries an identity.
func (s Snapshot) Authenticated() bool { return s.Identity != nil }

// Store is the read side of the session.
type Store struct {
	mu       sync.RWMutex
	identity *domain.Identity
	loading  bool
}

// Writer is the write side. It exists exactly once per Store.
type Writer struct {
	store *Store
}

// NewStore creates a session in its initial state: loading, anonymous.
func NewStore() (*Store, *Writer) {
	s := &Store{loading: true}
	return s, &Writer{store: s}
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{Loading: s.loading}
	if s.identity != nil {
		id := *s.identity
		snap.Identity = &id
	}
	return snap
}

// SetIdentity replaces the current identity.
func (w *Writer) SetIdentity(id domain.Identity) {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	w.store.identity = &id
}

// ClearIdentity drops the current identity. Safe to call when the
// session is already anonymous.
func (w *Writer) ClearIdentity() {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	w.store.identity = nil
}

// MergeIdentity shallow-merges the non-nil fields of patch into the
// current identity. A no-op on an anonymous session.
func (w *Writer) MergeIdentity(patch domain.IdentityPatch) {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()

	if w.store.identity == nil {
		return
	}
	if patch.Username != nil {
		w.store.identity.Username = *patch.Username
	}
	if patch.Email != nil {
		w.store.identity.Email = *patch.Email
	}
	if patch.FullName != nil {
		w.store.identity.FullName = *patch.FullName
	}
}

// FinishLoading marks bootstrap as complete. The flag only ever
// transitions true→false; repeated calls are harmless.
func (w *Writer) FinishLoading() {
	w.store.mu.Lock()
	defer w.store.mu.Unlock()
	w.store.loading = false
}
