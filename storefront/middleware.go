package storefront

import (
	"context"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	apperrors "github.com/ebikepoint/erp/internal/errors"
	"github.com/ebikepoint/erp/users"
)

type contextKey string

const userContextKey contextKey = "storefront.user"

// ChainMiddleware wraps a handler in the given middleware.
func ChainMiddleware(routeFunction http.HandlerFunc, mw ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	chainedHandler := routeFunction
	// Apply middleware in reverse order
	for i := len(mw) - 1; i >= 0; i-- {
		chainedHandler = mw[i](chainedHandler)
	}
	return chainedHandler
}

func (s *Server) APIMiddleware() []func(http.HandlerFunc) http.HandlerFunc {
	return []func(http.HandlerFunc) http.HandlerFunc{
		s.RecoverMiddleware,
		s.CORSMiddleware,
		s.LoggingMiddleware,
	}
}

// RecoverMiddleware guarantees a 500 response instead of a dropped
// connection when a handler panics.
func (s *Server) RecoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error().
					Any("panic", rec).
					Str("path", r.URL.Path).
					Str("stack", string(debug.Stack())).
					Msg("recovered from handler panic")
				writeError(w, http.StatusInternalServerError, "Something went wrong")
			}
		}()
		next(w, r)
	}
}

// CORSMiddleware answers preflight requests and reflects allowed origins.
func (s *Server) CORSMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && s.originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

func (s *Server) originAllowed(origin string) bool {
	for _, allowed := range s.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (s *Server) LoggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("http")
	}
}

// RequireAuth verifies the bearer token and loads the account behind it
// into the request context. An expired token is a 401 so authenticated
// clients know to refresh and retry.
func (s *Server) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			writeError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := s.deps.Tokens.VerifyAccessToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			if apperrors.Is(err, apperrors.ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "Token expired")
				return
			}
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		user, err := s.deps.UserRepo.GetByID(claims.UserID)
		if err != nil || user == nil {
			writeError(w, http.StatusUnauthorized, "Account no longer exists")
			return
		}
		if user.Blocked {
			writeError(w, http.StatusForbidden, "Account is blocked")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	}
}

// RequireRoles allows only the listed roles past. Must run after
// RequireAuth.
func (s *Server) RequireRoles(roles ...users.Role) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			user := s.currentUser(r)
			if user == nil {
				writeError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next(w, r)
					return
				}
			}
			writeError(w, http.StatusForbidden, "Not permitted for your role")
		}
	}
}

// currentUser returns the authenticated account, or nil outside RequireAuth.
func (s *Server) currentUser(r *http.Request) *users.User {
	user, _ := r.Context().Value(userContextKey).(*users.User)
	return user
}
