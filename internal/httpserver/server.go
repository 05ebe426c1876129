// internal/httpserver/server.go
//
// HTTP shell for the Manasvi companion.
// Responsibilities:
//   - Router + middleware (request IDs, panic recovery, request logging,
//     JSON, CORS).
//   - Per-tab sessions identified by a signed cookie (session.go).
//   - Game, mood, assistant and resources endpoints (routes_*.go).
//   - Listen/serve and graceful shutdown.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled so the session cookie
//     reaches the dev client.
//   - Game and mood routes run under a handler timeout; assistant routes
//     do not, since the outbound model call is unbounded.

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/manasvi/internal/assistant"
	"github.com/robalobadob/manasvi/internal/mood"
	"github.com/robalobadob/manasvi/internal/phrases"
	"github.com/robalobadob/manasvi/internal/resources"
	"github.com/robalobadob/manasvi/internal/session"
)

const (
	// HandlerTimeout bounds game and mood handlers.
	HandlerTimeout = 10 * time.Second
	// DefaultClientOrigin is the dev client allowed by CORS and websockets.
	DefaultClientOrigin = "http://localhost:5173"
)

// Pinger is a dependency the health check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators the routes need.
type Deps struct {
	Sessions  session.Store
	Factory   session.Factory
	Mood      *mood.Log
	Gateway   *assistant.Gateway
	Resources *resources.Toolkit
	Catalog   *phrases.Catalog
	// Storage is pinged by /health; nil skips the check.
	Storage Pinger

	Cookie       CookieConfig
	ClientOrigin string
	// Now defaults to time.Now. Dates without an explicit key use it.
	Now func() time.Time
}

// Server bundles the router and the http.Server around it.
type Server struct {
	r        *chi.Mux
	srv      *http.Server
	deps     Deps
	upgrader websocket.Upgrader
}

// New constructs a Server, installs middleware, and registers routes.
func New(addr string, deps Deps) *Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Cookie.Name == "" {
		deps.Cookie.Name = DefaultCookieName
	}
	if deps.Cookie.TTL <= 0 {
		deps.Cookie.TTL = DefaultSessionTTL
	}
	if deps.ClientOrigin == "" {
		deps.ClientOrigin = DefaultClientOrigin
	}
	s := &Server{r: chi.NewRouter(), deps: deps}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     allowOrigin(deps.ClientOrigin),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(requestLogger)
	s.r.Use(chimw.Recoverer)
	s.r.Use(jsonContentType)
	s.r.Use(cors(deps.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"service":   "manasvi",
			"endpoints": []string{"/health", "/content", "/sequence", "/puzzle", "/mood", "/chat", "/journal", "/resources"},
		})
	})
	s.r.Get("/health", s.handleHealth)
	s.r.Get("/content", s.handleContent)

	// --- per-tab state ---
	s.r.Group(func(r chi.Router) {
		r.Use(s.withSession)
		r.Group(func(r chi.Router) {
			r.Use(chimw.Timeout(HandlerTimeout))
			s.mountSequence(r)
			s.mountPuzzle(r)
		})
		// The event stream is long-lived; no handler timeout.
		r.Get("/sequence/events", s.handleSequenceEvents)
		s.mountAssistant(r)
	})

	// --- shared state ---
	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(HandlerTimeout))
		s.mountMood(r)
		s.mountResources(r)
	})

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// Run listens on the configured address and serves until Shutdown.
func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	log.Info().Str("addr", ln.Addr().String()).Msg("http server listening")

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests, then closes every session.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	err := s.srv.Shutdown(ctx)
	if c, ok := s.deps.Sessions.(interface{ CloseAll() }); ok {
		c.CloseAll()
	}
	return err
}

// handleHealth reports liveness and, when configured, storage reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.Storage != nil {
		if err := s.deps.Storage.Ping(r.Context()); err != nil {
			log.Warn().Err(err).Msg("health: storage ping")
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"ok": false, "storage": err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleContent serves the static Home/About copy.
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	c := s.deps.Catalog
	if c == nil {
		writeError(w, http.StatusServiceUnavailable, "content_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"quotes":   c.Quotes,
		"features": c.Features,
		"values":   c.Values,
	})
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = DefaultClientOrigin
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// allowOrigin accepts websocket handshakes without an Origin header, from
// the serving host itself, or from the configured client origin.
func allowOrigin(clientOrigin string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || strings.EqualFold(strings.TrimSuffix(origin, "/"), strings.TrimSuffix(clientOrigin, "/")) {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		if strings.EqualFold(u.Host, r.Host) {
			return true
		}
		log.Warn().Str("origin", origin).Msg("websocket origin rejected")
		return false
	}
}

// requestLogger logs one line per request through the global zerolog logger.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Int64("duration_ms", time.Since(start).Milliseconds()).
				Str("request_id", chimw.GetReqID(r.Context())).
				Msg("http request")
		}()

		next.ServeHTTP(ww, r)
	})
}
