// Package session owns the authenticated-identity state. Storage is the
// authority: every state change is persisted before the in-memory view
// updates, and Initialize re-derives the in-memory view from storage.
package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/atulkamble/ecommerce-devops-project/internal/commerce"
	"github.com/atulkamble/ecommerce-devops-project/internal/domain"
	"github.com/atulkamble/ecommerce-devops-project/internal/storage"
)

const (
	keyToken    = "storefront_token"
	keyIdentity = "storefront_identity"
)

// Authenticator is the slice of the commerce client the session store needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*commerce.Session, error)
	Register(ctx context.Context, name, email, password string) (*commerce.Session, error)
}

// Store is the single source of truth for the current user.
type Store struct {
	mu            sync.RWMutex
	kv            storage.KV
	auth          Authenticator
	log           logrus.FieldLogger
	token         string
	identity      domain.Identity
	authenticated bool
}

func NewStore(kv storage.KV, auth Authenticator, log logrus.FieldLogger) *Store {
	return &Store{
		kv:   kv,
		auth: auth,
		log:  log,
	}
}

// Initialize loads the persisted credential and identity. Anything missing or
// malformed purges both entries and leaves the store anonymous; startup never
// fails on corrupt state.
func (s *Store) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, haveToken := s.kv.Get(keyToken)
	raw, haveIdentity := s.kv.Get(keyIdentity)
	if !haveToken || !haveIdentity || token == "" {
		s.purgeLocked()
		return
	}

	var identity domain.Identity
	if err := json.Unmarshal([]byte(raw), &identity); err != nil || identity.ID == 0 {
		s.log.Warn("discarding malformed persisted identity")
		s.purgeLocked()
		return
	}

	s.token = token
	s.identity = identity
	s.authenticated = true
}

// Login authenticates against the backend. On failure the store is unchanged
// and the returned error message is safe to show the user.
func (s *Store) Login(ctx context.Context, email, password string) error {
	sess, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.establish(sess)
	s.log.WithField("email", email).Info("user logged in")
	return nil
}

// Register creates an account. The backend returns a usable credential, so a
// successful registration leaves the store authenticated.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	sess, err := s.auth.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	s.establish(sess)
	s.log.WithField("email", email).Info("user registered")
	return nil
}

// establish persists the credential and identity, then flips the in-memory
// state. Persist-first means a crash in between re-derives as authenticated,
// never the other way around.
func (s *Store) establish(sess *commerce.Session) {
	raw, _ := json.Marshal(sess.User)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv.Set(keyToken, sess.AccessToken)
	s.kv.Set(keyIdentity, string(raw))
	s.token = sess.AccessToken
	s.identity = sess.User
	s.authenticated = true
}

// Logout clears the persisted credential and identity and resets to
// anonymous. Local-only, infallible, idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purgeLocked()
}

func (s *Store) purgeLocked() {
	s.kv.Remove(keyToken)
	s.kv.Remove(keyIdentity)
	s.token = ""
	s.identity = domain.Identity{}
	s.authenticated = false
}

// IsAuthenticated reports whether a user is logged in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// Current returns the logged-in identity, if any.
func (s *Store) Current() (domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity, s.authenticated
}

// Token returns the bearer credential, empty when anonymous.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
