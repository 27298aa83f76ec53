package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"taskboard/logging"
	"taskboard/models"
)

type contextKey string

const claimsKey contextKey = "claims"

// SessionResolver turns a bearer token into verified claims.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*models.Claims, error)
}

// ClaimsFromContext returns the claims stored by JWTAuth, or nil.
func ClaimsFromContext(ctx context.Context) *models.Claims {
	claims, _ := ctx.Value(claimsKey).(*models.Claims)
	return claims
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *models.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// JWTAuth rejects requests without a valid bearer token with 401. The token
// is read from "Authorization: Bearer <token>" or the legacy x-auth-token
// header.
func JWTAuth(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				logging.Logger.Warnf("Event ID: JWT_AUTH_MISSING_HEADER, Description: Authorization header missing for request to %s %s", r.Method, r.URL.Path)
				writeJSONError(w, http.StatusUnauthorized, "No token, authorization denied", "UNAUTHENTICATED")
				return
			}

			claims, err := resolver.ResolveSession(r.Context(), token)
			if err != nil {
				logging.Logger.Warnf("Event ID: JWT_AUTH_INVALID_TOKEN, Description: Invalid token provided for request to %s %s: %v", r.Method, r.URL.Path, err)
				writeJSONError(w, http.StatusUnauthorized, "Token is not valid", "UNAUTHENTICATED")
				return
			}

			logging.Logger.Debugf("Event ID: JWT_AUTH_SUCCESS, Description: Token validated for member %s", claims.MemberID)
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func bearerToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(r.Header.Get("x-auth-token"))
}

// RequireRole must run after JWTAuth. A valid identity without one of roles
// gets 403; no identity at all still gets 401.
func RequireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeJSONError(w, http.StatusUnauthorized, "No token, authorization denied", "UNAUTHENTICATED")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			logging.Logger.Warnf("Event ID: ACCESS_FORBIDDEN, Description: Member %s with role %q denied %s %s", claims.MemberID, claims.Role, r.Method, r.URL.Path)
			message := "Access denied"
			if len(roles) == 1 && roles[0] == models.RoleAdmin {
				message = "Access denied. Admin only."
			}
			writeJSONError(w, http.StatusForbidden, message, "FORBIDDEN")
		})
	}
}

// CORS answers preflight requests and sets the allow headers on every response.
func CORS(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, x-auth-token")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func writeJSONError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Message: message, Code: code})
}
