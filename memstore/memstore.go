// Package memstore is an in-memory gorilla/sessions store. The cookie only
// carries a signed session id; values live in process memory and expire a
// fixed time after they were last saved.
package memstore

import (
	"encoding/base32"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

type record struct {
	values  map[any]any
	expires time.Time
}

// Store keeps session values in memory keyed by an opaque id.
type Store struct {
	Codecs  []securecookie.Codec
	Options *sessions.Options

	ttl time.Duration
	now func() time.Time

	mu       sync.RWMutex
	sessions map[string]record
}

// New returns a Store whose sessions live for ttl after each save. keyPairs
// are passed to securecookie.CodecsFromPairs to sign the id cookie.
func New(ttl time.Duration, keyPairs ...[]byte) *Store {
	s := &Store{
		Codecs: securecookie.CodecsFromPairs(keyPairs...),
		Options: &sessions.Options{
			Path:     "/",
			MaxAge:   int(ttl / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		},
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]record),
	}
	for _, c := range s.Codecs {
		if sc, ok := c.(*securecookie.SecureCookie); ok {
			sc.MaxAge(s.Options.MaxAge)
		}
	}
	return s
}

// Get returns the session for name, using the per-request registry.
func (s *Store) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(s, name)
}

// New returns the session referenced by the request cookie, or a fresh session
// when the cookie is missing, fails verification or names an expired record.
func (s *Store) New(r *http.Request, name string) (*sessions.Session, error) {
	session := sessions.NewSession(s, name)
	opts := *s.Options
	session.Options = &opts
	session.IsNew = true

	c, err := r.Cookie(name)
	if err != nil {
		return session, nil
	}
	var id string
	if err := securecookie.DecodeMulti(name, c.Value, &id, s.Codecs...); err != nil {
		return session, nil
	}
	values, ok := s.Lookup(id)
	if !ok {
		return session, nil
	}
	session.ID = id
	session.Values = values
	session.IsNew = false
	return session, nil
}

// Save writes session values to memory and sets the id cookie. A negative
// MaxAge destroys the record and expires the cookie.
func (s *Store) Save(r *http.Request, w http.ResponseWriter, session *sessions.Session) error {
	if session.Options.MaxAge < 0 {
		if session.ID != "" {
			s.Destroy(session.ID)
		}
		http.SetCookie(w, sessions.NewCookie(session.Name(), "", session.Options))
		return nil
	}

	if session.ID == "" {
		session.ID = s.Create(session.Values)
	} else {
		s.put(session.ID, session.Values)
	}

	encoded, err := securecookie.EncodeMulti(session.Name(), session.ID, s.Codecs...)
	if err != nil {
		return err
	}
	http.SetCookie(w, sessions.NewCookie(session.Name(), encoded, session.Options))
	return nil
}

// Create stores values under a new random id and returns the id.
func (s *Store) Create(values map[any]any) string {
	id := strings.TrimRight(base32.StdEncoding.EncodeToString(securecookie.GenerateRandomKey(32)), "=")
	s.put(id, values)
	return id
}

func (s *Store) put(id string, values map[any]any) {
	rec := record{values: copyValues(values), expires: s.now().Add(s.ttl)}
	s.mu.Lock()
	s.sessions[id] = rec
	s.mu.Unlock()
}

// Lookup returns a copy of the values stored for id. Expired records are
// reported as missing even before Prune removes them.
func (s *Store) Lookup(id string) (map[any]any, bool) {
	s.mu.RLock()
	rec, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok || !s.now().Before(rec.expires) {
		return nil, false
	}
	return copyValues(rec.values), true
}

// Destroy removes the record for id.
func (s *Store) Destroy(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Prune deletes expired records and returns how many were removed.
func (s *Store) Prune() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, rec := range s.sessions {
		if !now.Before(rec.expires) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored records, expired ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartPruner runs Prune every interval until the returned stop function is called.
func (s *Store) StartPruner(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		for {
			select {
			case <-ticker.C:
				s.Prune()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { once.Do(func() { close(done) }) }
}

func copyValues(src map[any]any) map[any]any {
	dst := make(map[any]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
