// internal/httpserver/routes_assistant.go
//
// Chat and journal endpoints. Replies always arrive: generation failures
// degrade to the template fallback inside the gateway.
//   - GET  /chat             → transcript of this tab
//   - POST /chat {text}      → send a message, reply appended
//   - GET  /journal/prompts  → reflection prompts
//   - POST /journal {entry}  → one-shot reflection on a diary entry

package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/manasvi/internal/assistant"
)

type chatReq struct {
	Text string `json:"text"`
}

type chatRes struct {
	Reply    assistant.Message   `json:"reply"`
	Messages []assistant.Message `json:"messages"`
}

type journalReq struct {
	Entry string `json:"entry"`
}

func (s *Server) mountAssistant(r chi.Router) {
	r.Get("/chat", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"messages": currentSession(r).Conversation.Messages()})
	})
	r.Post("/chat", s.handleChat)
	r.Get("/journal/prompts", func(w http.ResponseWriter, r *http.Request) {
		var prompts []string
		if s.deps.Catalog != nil {
			prompts = s.deps.Catalog.Prompts
		}
		writeJSON(w, http.StatusOK, map[string]any{"prompts": prompts})
	})
	r.Post("/journal", s.handleJournal)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatReq
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	conv := currentSession(r).Conversation
	reply, ok := conv.Send(r.Context(), req.Text)
	if !ok {
		writeError(w, http.StatusBadRequest, "empty_message")
		return
	}
	writeJSON(w, http.StatusOK, chatRes{Reply: reply, Messages: conv.Messages()})
}

func (s *Server) handleJournal(w http.ResponseWriter, r *http.Request) {
	var req journalReq
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json")
		return
	}
	if strings.TrimSpace(req.Entry) == "" {
		writeError(w, http.StatusBadRequest, "empty_entry")
		return
	}
	reply := s.deps.Gateway.Respond(r.Context(), assistant.Journal, req.Entry)
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
