// internal/httpserver/session.go
//
// Tab sessions. A session ID travels in an HS256-signed JWT, either in
// the session cookie or an Authorization: Bearer header. A request
// without a valid token, or whose session is gone (restart, pruning),
// gets a fresh session and a new cookie.

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/manasvi/internal/session"
)

const (
	DefaultCookieName = "manasvi_session"
	DefaultSessionTTL = 14 * 24 * time.Hour
)

// CookieConfig controls how session tokens are signed and stored.
type CookieConfig struct {
	Name   string
	Secret []byte
	TTL    time.Duration
	// Secure marks the cookie Secure and SameSite=None.
	Secure bool
}

var errBadToken = errors.New("invalid session token")

type ctxSessionKey struct{}

// withSession resolves or creates the tab session and puts it in the context.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.ensureSession(w, r)
		if err != nil {
			log.Error().Err(err).Msg("ensure session")
			writeError(w, http.StatusInternalServerError, "session_failed")
			return
		}
		sess.Touch(s.deps.Now())
		ctx := context.WithValue(r.Context(), ctxSessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentSession returns the session installed by withSession.
func currentSession(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(ctxSessionKey{}).(*session.Session)
	return sess
}

func (s *Server) ensureSession(w http.ResponseWriter, r *http.Request) (*session.Session, error) {
	if tok := s.bearerOrCookie(r); tok != "" {
		id, err := s.parseToken(tok)
		if err == nil {
			sess, err := s.deps.Sessions.Get(r.Context(), id)
			if err == nil {
				return sess, nil
			}
			if !errors.Is(err, session.ErrNotFound) {
				return nil, err
			}
			log.Debug().Str("session", id).Msg("session expired; starting a new one")
		} else {
			log.Debug().Err(err).Msg("discarding session token")
		}
	}

	sess, err := s.deps.Factory.New()
	if err != nil {
		return nil, err
	}
	if err := s.deps.Sessions.Save(r.Context(), sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	tok, exp, err := s.signToken(sess.ID)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	s.setSessionCookie(w, tok, exp)
	w.Header().Set("X-Session-Token", tok)
	log.Info().Str("session", sess.ID).Msg("session started")
	return sess, nil
}

// signToken creates an HS256 JWT whose subject is the session ID.
func (s *Server) signToken(id string) (string, time.Time, error) {
	now := s.deps.Now()
	exp := now.Add(s.deps.Cookie.TTL)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(s.deps.Cookie.Secret)
	return ss, exp, err
}

// parseToken validates a token and returns the session ID it carries.
func (s *Server) parseToken(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) {
		return s.deps.Cookie.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.deps.Now))
	if err != nil {
		return "", fmt.Errorf("%w: %w", errBadToken, err)
	}
	if !t.Valid || claims.Subject == "" {
		return "", errBadToken
	}
	return claims.Subject, nil
}

// setSessionCookie writes the session cookie with appropriate security attributes.
func (s *Server) setSessionCookie(w http.ResponseWriter, token string, exp time.Time) {
	sameSite := http.SameSiteLaxMode
	if s.deps.Cookie.Secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.deps.Cookie.Name,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.deps.Cookie.Secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// bearerOrCookie extracts a token from the Authorization header or the session cookie.
func (s *Server) bearerOrCookie(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(s.deps.Cookie.Name); err == nil {
		return c.Value
	}
	return ""
}
