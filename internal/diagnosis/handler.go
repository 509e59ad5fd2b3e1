package diagnosis

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"diagnostic-ai-agent/internal/session"
)

// ReportRenderer turns a completed session into a downloadable document.
type ReportRenderer interface {
	Render(s *session.Session) ([]byte, error)
}

type Handler struct {
	svc      *Service
	renderer ReportRenderer
}

func NewHandler(svc *Service, renderer ReportRenderer) *Handler {
	return &Handler{svc: svc, renderer: renderer}
}

type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if req.Message == "" {
		http.Error(w, "Message must not be empty", http.StatusBadRequest)
		return
	}

	result, err := h.svc.Chat(r.Context(), req.SessionID, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			http.Error(w, fmt.Sprintf("Session %s not found", req.SessionID), http.StatusNotFound)
		case errors.Is(err, ErrAgentUnavailable):
			http.Error(w, "Medical agent not initialized. Please check API keys.", http.StatusServiceUnavailable)
		default:
			http.Error(w, "Processing failed: "+err.Error(), http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func (h *Handler) HandleListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.Sessions(r.Context())
	if err != nil {
		http.Error(w, "Failed to list sessions", http.StatusInternalServerError)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{"sessions": ids})
}

func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, fmt.Sprintf("Session %s not found", id), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to delete session", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Session %s deleted", id),
	})
}

func (h *Handler) HandleReportPDF(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	s, err := h.svc.Session(r.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, fmt.Sprintf("Session %s not found", id), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to load session", http.StatusInternalServerError)
		return
	}
	if s.Stage != session.StageComplete || s.ReportContent() == "" {
		http.Error(w, "Report not available yet", http.StatusConflict)
		return
	}

	pdfBytes, err := h.renderer.Render(s)
	if err != nil {
		http.Error(w, "Report rendering failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="report_%s.pdf"`, s.ID))
	w.Write(pdfBytes)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/chat", h.HandleChat)
	r.Get("/chat/sessions", h.HandleListSessions)
	r.Delete("/chat/{sessionID}", h.HandleDeleteSession)
	r.Get("/chat/{sessionID}/report.pdf", h.HandleReportPDF)
}
