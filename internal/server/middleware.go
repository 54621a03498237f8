package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lexdesk/internal/tenant"
	"lexdesk/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const contextKeyPrincipal contextKey = "principal"

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// RequireSession decodes the session cookie into a Principal and puts
// it on the request context. No or invalid cookie means 401.
func (s *Service) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(s.config.CookieName)
		if err != nil {
			s.logger.WithError(err).Debug("no session cookie found")
			s.respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		var principal tenant.Principal
		err = s.cookie.Decode(s.config.CookieName, cookie.Value, &principal)
		if err != nil {
			s.logger.WithError(err).Warn("failed to decode session cookie")
			s.respondError(w, http.StatusUnauthorized, "invalid session")
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyPrincipal, principal)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route group to principals holding at least one of
// the given roles.
func (s *Service) RequireRole(roles ...types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := s.principalFromContext(r.Context())
			if err != nil {
				s.respondError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !principal.HasAnyRole(roles...) {
				s.logger.WithFields(logrus.Fields{
					"user_id": principal.ID,
					"path":    r.URL.Path,
				}).Warn("role gate rejected request")
				s.respondError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path != "/" && strings.HasSuffix(path, "/") {
			newPath := strings.TrimSuffix(path, "/")
			newURL := *r.URL
			newURL.Path = newPath

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Service) principalFromContext(ctx context.Context) (tenant.Principal, error) {
	principal, ok := ctx.Value(contextKeyPrincipal).(tenant.Principal)
	if !ok {
		return tenant.Principal{}, fmt.Errorf("principal not found in context")
	}
	return principal, nil
}

// tenantFromRequest resolves the caller's tenant scope, the value every
// query below must be filtered by.
func (s *Service) tenantFromRequest(w http.ResponseWriter, r *http.Request) (tenant.Principal, string, bool) {
	principal, err := s.principalFromContext(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("principal not found in context")
		s.respondError(w, http.StatusUnauthorized, "authentication required")
		return tenant.Principal{}, "", false
	}

	tenantID, err := tenant.Resolve(principal)
	if err != nil {
		s.logger.WithField("user_id", principal.ID).Warn("principal has no derivable tenant scope")
		s.respondError(w, http.StatusBadRequest, "invalid tenant configuration")
		return tenant.Principal{}, "", false
	}

	return principal, tenantID, true
}
