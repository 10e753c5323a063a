package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dgallion1/newsdesk/internal/completion"
	"github.com/dgallion1/newsdesk/internal/newsdesk"
)

// handleFetchTopics walks the Notion tree and returns headline candidates.
func (s *Server) handleFetchTopics(w http.ResponseWriter, r *http.Request) {
	pageID := r.URL.Query().Get("pageId")

	topics, err := s.desk.Topics(r.Context(), pageID)
	if err != nil {
		var nErr *newsdesk.NotionError
		var cErr *newsdesk.CompletionError
		switch {
		case errors.As(err, &nErr):
			jsonError(w, newsdesk.MsgNotionFailed, http.StatusInternalServerError)
		case errors.As(err, &cErr):
			jsonError(w, cErr.Public, http.StatusInternalServerError)
		default:
			jsonError(w, newsdesk.MsgCompletionFailed, http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, topics)
}

type evaluateRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleEvaluateTitle(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	evaluation, err := s.desk.EvaluateTitle(r.Context(), req.Title)
	if err != nil {
		var cErr *newsdesk.CompletionError
		switch {
		case errors.Is(err, newsdesk.ErrTitleMissing):
			jsonError(w, newsdesk.MsgTitleMissing, http.StatusBadRequest)
		case errors.As(err, &cErr):
			jsonError(w, cErr.Public, http.StatusInternalServerError)
		default:
			jsonError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"evaluation": evaluation})
}

type chatRequest struct {
	Messages []completion.Message `json:"messages"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	messages, err := s.desk.Chat(r.Context(), req.Messages)
	if err != nil {
		var invalid *newsdesk.InvalidMessageError
		var cErr *newsdesk.CompletionError
		switch {
		case errors.Is(err, newsdesk.ErrNoMessages):
			jsonError(w, newsdesk.MsgNoMessages, http.StatusBadRequest)
		case errors.As(err, &invalid):
			jsonError(w, invalid.Error(), http.StatusBadRequest)
		case errors.As(err, &cErr):
			jsonError(w, cErr.Public, http.StatusInternalServerError)
		default:
			jsonError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// decodeBody reads a size-limited JSON body into v. It writes a 400 and
// returns false on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
			return false
		}
		s.log.Debug("invalid request body", "path", r.URL.Path, "error", err)
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
