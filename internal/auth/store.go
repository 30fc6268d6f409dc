// Package auth holds the signed-in session and inspects access tokens.
package auth

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/planit-ai/planit/internal/storage"
	"github.com/planit-ai/planit/pkg/domain"
)

// StorageKey is the key the session is persisted under.
const StorageKey = "auth"

// Session is a snapshot of the auth state. Either field may be nil.
type Session struct {
	User        *domain.UserProfile `json:"user"`
	AccessToken *string             `json:"accessToken"`
}

// LoggedIn reports whether the session holds a non-empty token.
func (s Session) LoggedIn() bool {
	return s.AccessToken != nil && *s.AccessToken != ""
}

// Token returns the access token or "".
func (s Session) Token() string {
	if s.AccessToken == nil {
		return ""
	}
	return *s.AccessToken
}

// Store is the single source of truth for the signed-in user and token.
// It is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	session Session
	storage storage.Storage
	logger  *slog.Logger

	subMu sync.Mutex
	subs  map[int]chan struct{}
	next  int
}

// NewStore returns a logged-out Store persisting to st.
func NewStore(st storage.Storage, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		storage: st,
		logger:  logger,
		subs:    make(map[int]chan struct{}),
	}
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.session)
}

// User returns the current user or nil.
func (s *Store) User() *domain.UserProfile {
	return s.Snapshot().User
}

// AccessToken returns the current token or "".
func (s *Store) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token()
}

// SetAuth replaces the session, persists it and notifies subscribers.
// A nil user or empty token is stored as null.
func (s *Store) SetAuth(user *domain.UserProfile, token string) {
	next := Session{}
	if user != nil {
		u := *user
		next.User = &u
	}
	if token != "" {
		next.AccessToken = &token
	}

	s.mu.Lock()
	s.session = next
	s.persist(next)
	s.mu.Unlock()

	s.notify()
}

// SetUser replaces the user and keeps the token.
func (s *Store) SetUser(user domain.UserProfile) {
	s.mu.Lock()
	next := copySession(s.session)
	next.User = &user
	s.session = next
	s.persist(next)
	s.mu.Unlock()

	s.notify()
}

// ClearAuth logs out: in-memory state is nulled and the persisted entry removed.
func (s *Store) ClearAuth() {
	s.mu.Lock()
	s.clearLocked()
	s.mu.Unlock()

	s.notify()
}

// ClearAuthIf logs out only while the session still holds token. A
// rejection of a token that has since been replaced by a new sign-in
// leaves the new session alone. It reports whether the session was cleared.
func (s *Store) ClearAuthIf(token string) bool {
	s.mu.Lock()
	if token == "" || s.session.Token() != token {
		s.mu.Unlock()
		return false
	}
	s.clearLocked()
	s.mu.Unlock()

	s.notify()
	return true
}

func (s *Store) clearLocked() {
	s.session = Session{}
	if s.storage != nil {
		if err := s.storage.Remove(StorageKey); err != nil {
			s.logger.Warn("auth: remove persisted session", "error", err)
		}
	}
}

// Hydrate restores the session from storage. Missing or malformed data
// leaves the store logged out.
func (s *Store) Hydrate() {
	if s.storage == nil {
		return
	}
	raw, ok, err := s.storage.Get(StorageKey)
	if err != nil {
		s.logger.Warn("auth: read persisted session", "error", err)
		return
	}
	if !ok || raw == "" {
		return
	}

	var restored Session
	if err := json.Unmarshal([]byte(raw), &restored); err != nil {
		s.logger.Warn("auth: ignoring malformed persisted session", "error", err)
		return
	}

	s.mu.Lock()
	s.session = restored
	s.mu.Unlock()

	s.notify()
}

// Subscribe registers for change signals. The channel carries no data;
// receivers re-read the store. Signals coalesce while unread. The returned
// func unsubscribes and must be called once.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	s.subMu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.subMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// persist must be called with s.mu held.
func (s *Store) persist(sess Session) {
	if s.storage == nil {
		return
	}
	data, err := json.Marshal(sess)
	if err != nil {
		s.logger.Warn("auth: marshal session", "error", err)
		return
	}
	if err := s.storage.Set(StorageKey, string(data)); err != nil {
		s.logger.Warn("auth: persist session", "error", err)
	}
}

func copySession(in Session) Session {
	var out Session
	if in.User != nil {
		u := *in.User
		out.User = &u
	}
	if in.AccessToken != nil {
		t := *in.AccessToken
		out.AccessToken = &t
	}
	return out
}
