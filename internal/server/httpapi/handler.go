package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mbaumgart/identity-server/internal/common"
)

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type messageResponse struct {
	Message string             `json:"message"`
	Tokens  *tokenPairResponse `json:"tokens,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeRefreshTokenRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req refreshTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "refreshToken is required"})
		return "", false
	}
	return req.RefreshToken, true
}

// handleRefreshToken rotates a refresh token and returns the new pair.
func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := decodeRefreshTokenRequest(w, r)
	if !ok {
		return
	}

	pair, err := s.tokens.Refresh(r.Context(), refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenInvalid) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid or expired refresh token"})
			return
		}
		s.logger.Error(r.Context(), "token renewal failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Token renewal failed"})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: "Token successfully renewed",
		Tokens: &tokenPairResponse{
			AccessToken:  pair.AccessToken,
			RefreshToken: pair.RefreshToken,
			ExpiresIn:    pair.ExpiresIn,
		},
	})
}

// handleRevokeToken revokes a single refresh token (logout). Revoking an
// unknown token reports success, so the endpoint leaks nothing about which
// tokens exist.
func (s *Server) handleRevokeToken(w http.ResponseWriter, r *http.Request) {
	refreshToken, ok := decodeRefreshTokenRequest(w, r)
	if !ok {
		return
	}

	if err := s.tokens.Revoke(r.Context(), refreshToken); err != nil {
		s.logger.Error(r.Context(), "token revocation failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Token revocation failed"})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Token successfully revoked"})
}

// handleRevokeAll revokes every refresh token of the authenticated user
// (logout everywhere).
func (s *Server) handleRevokeAll(w http.ResponseWriter, r *http.Request) {
	payload, ok := PayloadFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Authentication required"})
		return
	}

	if err := s.tokens.RevokeAllForUser(r.Context(), payload.UserID); err != nil {
		s.logger.Error(r.Context(), "token revocation failed", "error", err, "user_id", payload.UserID)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Token revocation failed"})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "All tokens successfully revoked"})
}

// handleProfile returns the live-reconciled identity of the caller.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	payload, ok := PayloadFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Authentication required"})
		return
	}

	writeJSON(w, http.StatusOK, payload)
}
