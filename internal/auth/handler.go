package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type tokenResponse struct {
	SessionID string `json:"sessionId"`
	Token     string `json:"token"`
}

// Refresh issues a fresh token for the session of the presented one. It must
// run behind AuthMiddleware.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	sessionID := SessionIDFromContext(r.Context())
	if sessionID == "" {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing session"})
		return
	}

	token, err := h.service.IssueToken(sessionID)
	if err != nil {
		slog.Error("refresh token failed", "session", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{SessionID: sessionID, Token: token})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
