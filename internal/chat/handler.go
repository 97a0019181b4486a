package chat

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/therabot-ai/therabot-platform/internal/safety"
	"github.com/therabot-ai/therabot-platform/internal/session"
	"github.com/therabot-ai/therabot-platform/internal/therapist"
	"github.com/therabot-ai/therabot-platform/pkg/logging"
)

// MaxMessageLen bounds inbound message length in runes.
const MaxMessageLen = 2000

// Handler exposes the pipeline over HTTP.
type Handler struct {
	service       *Service
	classifier    Classifier
	store         session.Store
	logger        *logging.Logger
	maxMessageLen int
}

// HandlerOption customizes a Handler.
type HandlerOption func(*Handler)

// WithMaxMessageLen overrides the inbound message length bound.
func WithMaxMessageLen(n int) HandlerOption {
	return func(h *Handler) {
		if n > 0 {
			h.maxMessageLen = n
		}
	}
}

// NewHandler creates the HTTP surface for the chat pipeline.
func NewHandler(service *Service, classifier Classifier, store session.Store, logger *logging.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	h := &Handler{
		service:       service,
		classifier:    classifier,
		store:         store,
		logger:        logger,
		maxMessageLen: MaxMessageLen,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// chatRequest is what clients send to POST /chat.
type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
}

// crisisResources carries hotline details on the crisis branch.
type crisisResources struct {
	Resources         []string `json:"resources"`
	EmergencyContacts []string `json:"emergency_contacts"`
}

// chatResponse is the reply for both pipeline branches.
type chatResponse struct {
	Message         string           `json:"message"`
	SessionID       string           `json:"session_id"`
	Timestamp       string           `json:"timestamp"`
	IsCrisis        bool             `json:"is_crisis"`
	SafetyLevel     string           `json:"safety_level"`
	TherapyStyle    string           `json:"therapy_style,omitempty"`
	CrisisResources *crisisResources `json:"crisis_resources,omitempty"`
}

// safetyLevelLabel maps the crisis branch to its public label.
func safetyLevelLabel(level safety.Level, isCrisis bool) string {
	if isCrisis {
		return "critical"
	}
	return string(level)
}

// validateMessage enforces the inbound length bounds.
func (h *Handler) validateMessage(message string) (string, bool) {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" || utf8.RuneCountInString(trimmed) > h.maxMessageLen {
		return "", false
	}
	return trimmed, true
}

// HandleChat runs one message through the pipeline.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	message, ok := h.validateMessage(req.Message)
	if !ok {
		http.Error(w, "message must be between 1 and 2000 characters", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}

	result, err := h.service.ProcessMessage(r.Context(), req.SessionID, req.UserID, message)
	if err != nil {
		h.logger.Error("chat pipeline failed", "session_id", req.SessionID, "error", err)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	resp := chatResponse{
		Message:      result.Message,
		SessionID:    result.SessionID,
		Timestamp:    result.Timestamp.Format(time.RFC3339),
		IsCrisis:     result.IsCrisis,
		SafetyLevel:  safetyLevelLabel(result.Level, result.IsCrisis),
		TherapyStyle: string(result.Style),
	}
	if result.IsCrisis {
		resp.CrisisResources = &crisisResources{
			Resources:         result.Resources,
			EmergencyContacts: result.EmergencyContacts,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGetSession returns session metadata with its message history.
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess, err := h.store.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load session", "session_id", sessionID, "error", err)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	history, err := h.store.History(r.Context(), sessionID, int(session.DefaultMaxMessages))
	if err != nil {
		h.logger.Error("failed to load history", "session_id", sessionID, "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session":  sess,
		"messages": history,
	})
}

// HandleDeleteSession removes a session and its message log.
func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	deleted, err := h.store.Delete(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("failed to delete session", "session_id", sessionID, "error", err)
		http.Error(w, "failed to delete session", http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "deleted",
		"session_id": sessionID,
	})
}

// HandleAnalyze classifies a message without touching any session.
func (h *Handler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	message, ok := h.validateMessage(req.Message)
	if !ok {
		http.Error(w, "message must be between 1 and 2000 characters", http.StatusBadRequest)
		return
	}

	verdict := h.classifier.Classify(r.Context(), message)
	writeJSON(w, http.StatusOK, verdict)
}

// HandleInsights returns aggregate pattern analysis for a session.
func (h *Handler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if _, err := h.store.Get(r.Context(), sessionID); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to load session", "session_id", sessionID, "error", err)
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	history, err := h.store.History(r.Context(), sessionID, int(session.DefaultMaxMessages))
	if err != nil {
		h.logger.Error("failed to load history", "session_id", sessionID, "error", err)
		http.Error(w, "failed to load history", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"insights":   therapist.AnalyzeConversation(history),
	})
}

// HandleStyles lists available therapy styles with their techniques.
func (h *Handler) HandleStyles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"styles": therapist.Styles(),
	})
}

// HandleHealth reports per-service readiness plus storage stats.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	services := map[string]string{
		"safety":    "operational",
		"therapist": "operational",
		"memory":    "operational",
	}

	if err := h.store.Ping(r.Context()); err != nil {
		services["memory"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	body := map[string]any{
		"status":    "healthy",
		"services":  services,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if stats, err := h.store.Stats(r.Context()); err == nil {
		body["storage"] = stats
	}

	writeJSON(w, status, body)
}

// HandleRoot serves the service banner.
func (h *Handler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service":    "therabot-platform",
		"status":     "running",
		"message":    "مرحباً بك في المعالج النفسي الآلي",
		"disclaimer": safety.LegalDisclaimer("general"),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
