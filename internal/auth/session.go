package auth

import (
	"encoding/gob"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"

	"ordercrm/internal/domain"
)

const (
	SessionName = "ordercrm-session"

	keyUserID     = "user_id"
	keyUsername   = "username"
	keyRole       = "role"
	keyCustomerID = "customer_id"
)

func init() {
	gob.Register(Flash{})
}

type Flash struct {
	Type    string
	Message string
}

const (
	FlashSuccess = "success"
	FlashInfo    = "info"
)

// SessionManager stores the principal and flash messages in a cookie session.
type SessionManager struct {
	store sessions.Store
}

func NewSessionManager(store sessions.Store) *SessionManager {
	return &SessionManager{store: store}
}

// NewCookieStore returns the cookie store used in production.
func NewCookieStore(key []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(key)
	store.Options.HttpOnly = true
	store.Options.Secure = secure
	store.Options.SameSite = http.SameSiteLaxMode
	store.Options.Path = "/"
	store.Options.MaxAge = 14 * 24 * 3600
	return store
}

func (m *SessionManager) session(r *http.Request) *sessions.Session {
	// A decode error (tampered or stale cookie) still yields a fresh session.
	s, _ := m.store.Get(r, SessionName)
	return s
}

func (m *SessionManager) Login(w http.ResponseWriter, r *http.Request, p Principal) error {
	s := m.session(r)
	s.Values[keyUserID] = p.UserID
	s.Values[keyUsername] = p.Username
	s.Values[keyRole] = string(p.Role)
	s.Values[keyCustomerID] = p.CustomerID
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

func (m *SessionManager) Logout(w http.ResponseWriter, r *http.Request) error {
	s := m.session(r)
	for k := range s.Values {
		delete(s.Values, k)
	}
	s.Options.MaxAge = -1
	if err := s.Save(r, w); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Principal returns the logged-in user, if the session carries one.
func (m *SessionManager) Principal(r *http.Request) (Principal, bool) {
	s := m.session(r)
	userID, ok := s.Values[keyUserID].(int)
	if !ok || userID <= 0 {
		return Principal{}, false
	}
	role, _ := s.Values[keyRole].(string)
	if !domain.Role(role).IsValid() {
		return Principal{}, false
	}
	username, _ := s.Values[keyUsername].(string)
	customerID, _ := s.Values[keyCustomerID].(int)
	return Principal{
		UserID:     userID,
		Username:   username,
		Role:       domain.Role(role),
		CustomerID: customerID,
	}, true
}

// AddFlash queues a message for the next rendered page.
func (m *SessionManager) AddFlash(w http.ResponseWriter, r *http.Request, f Flash) error {
	s := m.session(r)
	s.AddFlash(f)
	return s.Save(r, w)
}

// Flashes pops the queued messages. It writes the session cookie, so it must
// run before the response status is written.
func (m *SessionManager) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	s := m.session(r)
	raw := s.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = s.Save(r, w)

	out := make([]Flash, 0, len(raw))
	for _, f := range raw {
		if fm, ok := f.(Flash); ok {
			out = append(out, fm)
		}
	}
	return out
}
