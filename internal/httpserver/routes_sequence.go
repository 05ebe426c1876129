// internal/httpserver/routes_sequence.go
//
// Color-sequence memory game:
//   - GET  /sequence        → snapshot
//   - POST /sequence/start  → start or restart
//   - POST /sequence/press  → press one color
//   - GET  /sequence/events → websocket stream of highlight/phase/message events
//
// Timing runs server-side; the view renders snapshots and the event stream.

package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/manasvi/internal/sequence"
)

const (
	eventBuffer  = 64
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
)

func (s *Server) mountSequence(r chi.Router) {
	r.Get("/sequence", s.handleSequenceSnapshot)
	r.Post("/sequence/start", s.handleSequenceStart)
	r.Post("/sequence/press", s.handleSequencePress)
}

func (s *Server) handleSequenceSnapshot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, currentSession(r).Sequence.Snapshot())
}

type startRes struct {
	Started  bool              `json:"started"`
	Snapshot sequence.Snapshot `json:"snapshot"`
}

// handleSequenceStart starts a new game. Ignored (started=false) while a
// sequence is being shown.
func (s *Server) handleSequenceStart(w http.ResponseWriter, r *http.Request) {
	g := currentSession(r).Sequence
	started := g.Start()
	writeJSON(w, http.StatusOK, startRes{Started: started, Snapshot: g.Snapshot()})
}

type pressReq struct {
	Color string `json:"color"`
}

type pressRes struct {
	Outcome  sequence.Outcome  `json:"outcome"`
	Snapshot sequence.Snapshot `json:"snapshot"`
}

func (s *Server) handleSequencePress(w http.ResponseWriter, r *http.Request) {
	var req pressReq
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	g := currentSession(r).Sequence
	c, err := sequence.ParseColor(req.Color, g.Snapshot().Palette)
	if err != nil {
		if errors.Is(err, sequence.ErrUnknownColor) {
			writeError(w, http.StatusBadRequest, "unknown_color")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	out := g.Press(c)
	writeJSON(w, http.StatusOK, pressRes{Outcome: out, Snapshot: g.Snapshot()})
}

// handleSequenceEvents upgrades to a websocket and forwards game events
// until the client goes away. The first frame is a snapshot.
func (s *Server) handleSequenceEvents(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(r)
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		log.Debug().Err(err).Msg("sequence events: upgrade")
		return
	}
	defer ws.Close()

	// Observers run under the game lock; never block there.
	events := make(chan sequence.Event, eventBuffer)
	cancel := sess.Sequence.Observe(func(e sequence.Event) {
		select {
		case events <- e:
		default:
			log.Warn().Str("session", sess.ID).Msg("sequence events: client too slow, dropping event")
		}
	})
	defer cancel()

	// Reader: the client sends nothing meaningful; reading detects close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := writeFrame(ws, map[string]any{"kind": "snapshot", "snapshot": sess.Sequence.Snapshot()}); err != nil {
		return
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()
	for {
		select {
		case e := <-events:
			if err := writeFrame(ws, e); err != nil {
				log.Debug().Err(err).Msg("sequence events: write")
				return
			}
		case <-ping.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func writeFrame(ws *websocket.Conn, v any) error {
	_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return ws.WriteJSON(v)
}
