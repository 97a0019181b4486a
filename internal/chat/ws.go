package chat

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/net/websocket"
)

// wsInbound is what clients send over the socket.
type wsInbound struct {
	Message string `json:"message"`
	UserID  string `json:"user_id,omitempty"`
}

// wsOutbound is what the pipeline pushes back.
type wsOutbound struct {
	Type              string   `json:"type"` // "response", "crisis_response", "error"
	Message           string   `json:"message"`
	SafetyLevel       string   `json:"safety_level,omitempty"`
	TherapyStyle      string   `json:"therapy_style,omitempty"`
	Resources         []string `json:"resources,omitempty"`
	EmergencyContacts []string `json:"emergency_contacts,omitempty"`
	Timestamp         string   `json:"timestamp"`
}

// HandleWebSocket upgrades the connection and streams pipeline replies.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveWS(conn, r, sessionID)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveWS(conn *websocket.Conn, r *http.Request, sessionID string) {
	h.logger.Info("ws: connection opened", "session_id", sessionID)

	for {
		var raw string
		if err := websocket.Message.Receive(conn, &raw); err != nil {
			h.logger.Debug("ws: connection closed", "session_id", sessionID, "error", err)
			return
		}

		var msg wsInbound
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			h.sendWS(conn, sessionID, wsOutbound{
				Type:      "error",
				Message:   "invalid message format",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			continue
		}

		message, ok := h.validateMessage(msg.Message)
		if !ok {
			h.sendWS(conn, sessionID, wsOutbound{
				Type:      "error",
				Message:   "message must be between 1 and 2000 characters",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			continue
		}

		result, err := h.service.ProcessMessage(r.Context(), sessionID, msg.UserID, message)
		if err != nil {
			h.logger.Error("ws: pipeline failed", "session_id", sessionID, "error", err)
			h.sendWS(conn, sessionID, wsOutbound{
				Type:      "error",
				Message:   "failed to process message",
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
			continue
		}

		out := wsOutbound{
			Type:         "response",
			Message:      result.Message,
			SafetyLevel:  safetyLevelLabel(result.Level, result.IsCrisis),
			TherapyStyle: string(result.Style),
			Timestamp:    result.Timestamp.Format(time.RFC3339),
		}
		if result.IsCrisis {
			out.Type = "crisis_response"
			out.TherapyStyle = ""
			out.Resources = result.Resources
			out.EmergencyContacts = result.EmergencyContacts
		}
		h.sendWS(conn, sessionID, out)
	}
}

func (h *Handler) sendWS(conn *websocket.Conn, sessionID string, msg wsOutbound) {
	if err := websocket.JSON.Send(conn, msg); err != nil {
		h.logger.Debug("ws: send failed", "session_id", sessionID, "error", err)
	}
}
