// internal/httpserver/routes_resources.go
//
// Resources page: static copy plus spoken affirmations and the guided
// breathing script. Speech is fire-and-forget; these handlers return as
// soon as playback has been started.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/manasvi/internal/daily"
	"github.com/robalobadob/manasvi/internal/mood"
)

func (s *Server) mountResources(r chi.Router) {
	r.Get("/resources", s.handleResources)
	r.Post("/resources/affirmation", s.handleSpeakAffirmation)
	r.Post("/resources/breathing", s.handleSpeakBreathing)
	r.Post("/resources/stop", func(w http.ResponseWriter, r *http.Request) {
		s.deps.Resources.Stop()
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
}

func (s *Server) handleResources(w http.ResponseWriter, r *http.Request) {
	t := s.deps.Resources
	c := t.Catalog()
	today := s.deps.Now()
	writeJSON(w, http.StatusOK, map[string]any{
		"affirmations":     c.Affirmations,
		"tips":             c.Tips,
		"articles":         c.Articles,
		"moods":            mood.Moods,
		"date":             daily.DateKey(today),
		"dailyAffirmation": t.DailyAffirmation(today),
		"tip":              t.Tip(),
	})
}

func (s *Server) handleSpeakAffirmation(w http.ResponseWriter, r *http.Request) {
	text, err := s.deps.Resources.SpeakAffirmation(r.Context())
	if err != nil {
		log.Warn().Err(err).Msg("speak affirmation")
		writeError(w, http.StatusServiceUnavailable, "speech_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": text})
}

func (s *Server) handleSpeakBreathing(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Resources.SpeakBreathing(r.Context()); err != nil {
		log.Warn().Err(err).Msg("speak breathing")
		writeError(w, http.StatusServiceUnavailable, "speech_unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
