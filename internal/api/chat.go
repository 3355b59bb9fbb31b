package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/coachr/internal/coach"
	"github.com/MikeSquared-Agency/coachr/internal/llm"
)

// ChatRequest is a turn for a client that keeps its own history.
type ChatRequest struct {
	UserMessage    string        `json:"user_message"`
	InitialContext string        `json:"initial_context"`
	DebateTopic    string        `json:"debate_topic"`
	ChatHistory    []HistoryItem `json:"chat_history"`
}

type HistoryItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Response string          `json:"response"`
	Fallback bool            `json:"fallback"`
	Failure  llm.FailureKind `json:"failure_kind,omitempty"`
	Index    *int            `json:"index,omitempty"`
}

// statelessChat handles POST /api/v1/chat
func (s *Server) statelessChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindInvalidRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if strings.TrimSpace(req.UserMessage) == "" {
		writeError(w, http.StatusBadRequest, kindInvalidRequest, "user_message is required")
		return
	}

	history := req.ChatHistory
	// Clients often send the current message as the last history entry.
	if n := len(history); n > 0 && coach.ParseRole(history[n-1].Role) == coach.RoleUser && history[n-1].Content == req.UserMessage {
		history = history[:n-1]
	}
	prior := make([]coach.ChatMessage, 0, len(history))
	for _, h := range history {
		prior = append(prior, coach.ChatMessage{Role: coach.ParseRole(h.Role), Content: h.Content})
	}

	sess := coach.NewSessionFromContext(req.DebateTopic, req.InitialContext, prior)
	reply, err := s.coach.Turn(r.Context(), sess, req.UserMessage)
	if err != nil {
		s.logger.Error("chat turn failed", "error", err)
		writeError(w, http.StatusInternalServerError, kindInternal, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Response: reply.Message.Content,
		Fallback: reply.Fallback,
		Failure:  reply.Failure,
	})
}

// suggestions handles GET /api/v1/chat/suggestions
func (s *Server) suggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"suggestions": coach.Suggestions()})
}

func sessionID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, kindInvalidRequest, "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

// getSession handles GET /api/v1/sessions/{id}
func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

// deleteSession handles DELETE /api/v1/sessions/{id}
func (s *Server) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.sessions.Delete(r.Context(), id); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type postMessageRequest struct {
	Message string `json:"message"`
}

// postMessage handles POST /api/v1/sessions/{id}/messages
func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, kindInvalidRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, kindInvalidRequest, "message is required")
		return
	}

	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	reply, err := s.coach.Turn(r.Context(), sess, req.Message)
	if err != nil {
		s.logger.Error("chat turn failed", "session_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, kindInternal, "internal error")
		return
	}
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		// The reply is still returned; only the history is lost.
		s.logger.Error("failed to save session", "session_id", id, "error", err)
	}

	index := reply.Message.Index
	writeJSON(w, http.StatusOK, chatResponse{
		Response: reply.Message.Content,
		Fallback: reply.Fallback,
		Failure:  reply.Failure,
		Index:    &index,
	})
}

// resetSession handles DELETE /api/v1/sessions/{id}/messages
func (s *Server) resetSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	unlock := s.locks.lock(id)
	defer unlock()

	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	s.coach.Reset(sess, "user_cleared")
	if err := s.sessions.Save(r.Context(), sess); err != nil {
		s.logger.Error("failed to save session", "session_id", id, "error", err)
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"state": string(sess.State())})
}

// exportSession handles GET /api/v1/sessions/{id}/export
func (s *Server) exportSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	now := time.Now()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="debate_chat_%s.txt"`, now.Format("20060102_150405")))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(coach.Export(sess, now)))
}

// sessionStats handles GET /api/v1/sessions/{id}/stats
func (s *Server) sessionStats(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}
	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coach.Stats(sess))
}
