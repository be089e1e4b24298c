package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/mbaumgart/identity-server/internal/common"
	"github.com/mbaumgart/identity-server/internal/server/auth"
)

type ctxKey string

const payloadKey ctxKey = "payload"

// Authenticator guards protected routes. It extracts the bearer token, runs
// the live-state authentication, and stores the reconciled payload in the
// request context. Every failure gets the same 401 body, regardless of cause.
func (s *Server) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeaderName)
		if !strings.HasPrefix(header, common.BearerPrefix) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Authorization header missing or invalid"})
			return
		}

		token := strings.TrimPrefix(header, common.BearerPrefix)

		payload, err := s.tokens.Authenticate(r.Context(), token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "User not found or token is invalid"})
			return
		}

		ctx := context.WithValue(r.Context(), payloadKey, payload)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PayloadFromContext returns the authenticated identity stored by the
// Authenticator middleware.
func PayloadFromContext(ctx context.Context) (*auth.Payload, bool) {
	payload, ok := ctx.Value(payloadKey).(*auth.Payload)
	return payload, ok
}
