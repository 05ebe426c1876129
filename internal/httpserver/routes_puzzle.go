// internal/httpserver/routes_puzzle.go
//
// Word puzzle endpoints. Every operation replies with the resulting
// board snapshot plus whether the operation changed anything.

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/manasvi/internal/puzzle"
)

type wordReq struct {
	Word string `json:"word"`
}

type puzzleRes struct {
	OK       bool            `json:"ok"`
	Snapshot puzzle.Snapshot `json:"snapshot"`
}

func (s *Server) mountPuzzle(r chi.Router) {
	r.Get("/puzzle", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentSession(r).Puzzle.Snapshot())
	})
	r.Post("/puzzle/pick", s.puzzleWordOp((*puzzle.Game).Pick))
	r.Post("/puzzle/unpick", s.puzzleWordOp((*puzzle.Game).Unpick))
	r.Post("/puzzle/unpick-last", s.puzzleOp((*puzzle.Game).UnpickLast))
	r.Post("/puzzle/check", s.puzzleOp((*puzzle.Game).Check))
	r.Post("/puzzle/next", s.puzzleOp(func(g *puzzle.Game) bool {
		g.Next()
		return true
	}))
}

func (s *Server) puzzleOp(op func(*puzzle.Game) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		g := currentSession(r).Puzzle
		ok := op(g)
		writeJSON(w, http.StatusOK, puzzleRes{OK: ok, Snapshot: g.Snapshot()})
	}
}

func (s *Server) puzzleWordOp(op func(*puzzle.Game, string) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req wordReq
		if err := readJSON(w, r, &req); err != nil || req.Word == "" {
			writeError(w, http.StatusBadRequest, "word_required")
			return
		}
		g := currentSession(r).Puzzle
		ok := op(g, req.Word)
		writeJSON(w, http.StatusOK, puzzleRes{OK: ok, Snapshot: g.Snapshot()})
	}
}
