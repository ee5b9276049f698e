package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/modelmeter/modelmeter/internal/audit"
	"github.com/modelmeter/modelmeter/internal/auth"
	apperrors "github.com/modelmeter/modelmeter/internal/errors"
	"github.com/modelmeter/modelmeter/internal/httputil"
)

type contextKey string

const IdentityContextKey contextKey = "identity"

// GetIdentity returns the authenticated account email, or "" when the
// request was not authenticated.
func GetIdentity(ctx context.Context) string {
	if email, ok := ctx.Value(IdentityContextKey).(string); ok {
		return email
	}
	return ""
}

type AuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handler verifies the bearer token and puts the account identity into
// the request context. Expired and forged tokens are logged distinctly
// but the response is the same generic 401 for both, so callers cannot
// probe token state.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			httputil.WriteError(w, apperrors.Unauthorized("Missing authentication token"))
			return
		}

		email, err := m.tokens.Verify(token)
		if err != nil {
			if apperrors.IsCode(err, apperrors.ErrCodeTokenExpired) {
				audit.Log(r.Context(), audit.Event{Type: audit.EventTokenExpired, IP: r.RemoteAddr})
			} else {
				audit.Log(r.Context(), audit.Event{Type: audit.EventAuthFailure, IP: r.RemoteAddr})
			}
			httputil.WriteError(w, apperrors.Unauthorized("Invalid or expired token"))
			return
		}

		ctx := context.WithValue(r.Context(), IdentityContextKey, email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
