// Package auth keeps browser sessions in a signed cookie. A session either
// carries an authenticated user id, an email that is pending verification,
// or both. Handlers read the session from the request context and write a
// modified copy back with Manager.Save.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionCookieName = "session"

type ctxKey struct{}

// Session is the per-browser state.
type Session struct {
	UserID       uint
	PendingEmail string
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s Session) Authenticated() bool { return s.UserID != 0 }

// Empty reports whether there is nothing worth persisting.
func (s Session) Empty() bool { return s.UserID == 0 && s.PendingEmail == "" }

type claims struct {
	PendingEmail string `json:"pending_email,omitempty"`
	jwt.RegisteredClaims
}

// Manager signs and parses session cookies.
type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, secure bool) *Manager {
	if ttl <= 0 {
		ttl = 14 * 24 * time.Hour
	}
	return &Manager{secret: []byte(secret), ttl: ttl, secure: secure, now: time.Now}
}

func (m *Manager) encode(s Session) (string, error) {
	now := m.now()
	c := claims{
		PendingEmail: s.PendingEmail,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	if s.UserID != 0 {
		c.Subject = strconv.FormatUint(uint64(s.UserID), 10)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
}

func (m *Manager) decode(raw string) (Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		return Session{}, err
	}
	s := Session{PendingEmail: c.PendingEmail}
	if c.Subject != "" {
		id, err := strconv.ParseUint(c.Subject, 10, 64)
		if err != nil || id == 0 {
			return Session{}, fmt.Errorf("bad session subject %q", c.Subject)
		}
		s.UserID = uint(id)
	}
	return s, nil
}

// Load parses the session cookie. A missing or invalid cookie yields an
// empty session.
func (m *Manager) Load(r *http.Request) Session {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return Session{}
	}
	s, err := m.decode(c.Value)
	if err != nil {
		return Session{}
	}
	return s
}

// Save writes s to the response. An empty session clears the cookie.
func (m *Manager) Save(w http.ResponseWriter, s Session) error {
	if s.Empty() {
		m.Clear(w)
		return nil
	}
	value, err := m.encode(s)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  m.now().Add(m.ttl),
	})
	return nil
}

// Clear deletes the session cookie.
func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Middleware attaches the parsed session to the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), m.Load(r))))
	})
}

// WithSession stores s in ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the request session, empty if none was attached.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(ctxKey{}).(Session)
	return s
}

// UserIDFromContext extracts the authenticated user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	s := FromContext(ctx)
	return s.UserID, s.Authenticated()
}
