// internal/httpserver/routes_mood.go
//
// Mood log endpoints. The log is shared by every tab of the single local
// user, so these routes do not need a session.
//   - GET /mood?date=YYYY-MM-DD        → mood for a day (default today)
//   - PUT /mood {date, mood}           → record a day's mood
//   - GET /mood/month?year=&month=     → entries of one calendar month
//   - GET /mood/options                → selectable moods

package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/manasvi/internal/daily"
	"github.com/robalobadob/manasvi/internal/mood"
)

type moodRes struct {
	Date string    `json:"date"`
	Mood mood.Mood `json:"mood"`
}

type moodReq struct {
	Date string `json:"date"`
	Mood string `json:"mood"`
}

type monthRes struct {
	Year    int          `json:"year"`
	Month   int          `json:"month"`
	Entries []mood.Entry `json:"entries"`
}

func (s *Server) mountMood(r chi.Router) {
	r.Get("/mood", s.handleMoodGet)
	r.Put("/mood", s.handleMoodPut)
	r.Get("/mood/month", s.handleMoodMonth)
	r.Get("/mood/options", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, mood.Moods)
	})
}

// dateParam parses a date key, defaulting to today.
func (s *Server) dateParam(key string) (time.Time, error) {
	if key == "" {
		return s.deps.Now(), nil
	}
	return daily.ParseKey(key)
}

func (s *Server) handleMoodGet(w http.ResponseWriter, r *http.Request) {
	d, err := s.dateParam(r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	writeJSON(w, http.StatusOK, moodRes{Date: daily.DateKey(d), Mood: s.deps.Mood.MoodFor(d)})
}

func (s *Server) handleMoodPut(w http.ResponseWriter, r *http.Request) {
	var req moodReq
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	d, err := s.dateParam(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_date")
		return
	}
	m, err := s.deps.Mood.Select(r.Context(), d, req.Mood)
	if errors.Is(err, mood.ErrUnknownMood) {
		writeError(w, http.StatusBadRequest, "unknown_mood")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("date", daily.DateKey(d)).Msg("persist mood")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	writeJSON(w, http.StatusOK, moodRes{Date: daily.DateKey(d), Mood: m})
}

func (s *Server) handleMoodMonth(w http.ResponseWriter, r *http.Request) {
	now := s.deps.Now()
	year, month := now.Year(), int(now.Month())
	q := r.URL.Query()
	if v := q.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 9999 {
			writeError(w, http.StatusBadRequest, "bad_year")
			return
		}
		year = n
	}
	if v := q.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 12 {
			writeError(w, http.StatusBadRequest, "bad_month")
			return
		}
		month = n
	}
	writeJSON(w, http.StatusOK, monthRes{
		Year:    year,
		Month:   month,
		Entries: s.deps.Mood.Month(year, time.Month(month)),
	})
}
