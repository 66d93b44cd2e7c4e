package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"

	"github.com/codebharat/mailtriage/internal/triage"
)

// ErrorResponse is the API error shape.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// EscalationRequest is the body of POST /escalate/{id}.
type EscalationRequest struct {
	EmailID  int64  `json:"email_id"`
	UserRole string `json:"user_role"`
}

// EscalationResponse confirms an escalation action.
type EscalationResponse struct {
	Msg string `json:"msg"`
}

// SyncResponse acknowledges a sync trigger.
type SyncResponse struct {
	Message string `json:"message"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the {"detail": ...} shape.
func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, ErrorResponse{Detail: detail})
}

// handleListEmails returns the directory, newest-first. filter_priority
// narrows by urgency score and filter_sentiment by sentiment; intent-level
// filtering stays client-side.
func (s *Server) handleListEmails(w http.ResponseWriter, r *http.Request) {
	priority := r.URL.Query().Get("filter_priority")
	sentiment := r.URL.Query().Get("filter_sentiment")

	emails := s.store.List(priority, sentiment)
	writeJSON(w, http.StatusOK, emails)
}

// handleSync kicks off an ingest in the background and returns immediately,
// mirroring how a real mailbox sync would behave.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	go func() {
		added := s.store.Ingest(syncBatchSize)
		s.logger.Info("background sync finished", "added", added, "total", s.store.Count())
	}()

	writeJSON(w, http.StatusOK, SyncResponse{
		Message: "Sync started in background. Check dashboard in a moment.",
	})
}

// handleEscalate applies the role-specific escalation action to one email.
func (s *Server) handleEscalate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid email id.")
		return
	}

	var req EscalationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	msg, err := s.store.Escalate(id, triage.Role(req.UserRole))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, EscalationResponse{Msg: msg})
	case eris.Is(err, ErrEmailNotFound):
		writeError(w, http.StatusNotFound, "Email not found.")
	case eris.Is(err, ErrInvalidRole):
		writeError(w, http.StatusBadRequest, "Invalid Role specified.")
	default:
		s.logger.Error("escalation failed", "email_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Database Update Failed during action execution.")
	}
}
