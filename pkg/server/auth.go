package server

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/peakguard/peakguard/pkg/log"
	"github.com/peakguard/peakguard/pkg/session"
)

const (
	sessionCookie = "peakguard_session"
	sessionHeader = "X-Session-ID"
)

type contextKey string

const (
	subjectContextKey contextKey = "subject"
	sessionContextKey contextKey = "session"
)

// authMiddleware requires a bearer ID token on every API request when a
// verifier is configured. The token subject identifies the session.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = log.With(ctx, log.Ctx(ctx).With(slog.String("reqPath", r.URL.Path)))

		if s.verifier == nil {
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Ctx(ctx).WarnContext(ctx, "no auth header found")
			writeJSONError(w, "missing auth token", http.StatusUnauthorized)
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			log.Ctx(ctx).WarnContext(ctx, "invalid auth header")
			writeJSONError(w, "invalid auth header", http.StatusBadRequest)
			return
		}
		idToken, err := s.verifier(ctx, strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "auth token validation failed", slog.Any("error", err))
			writeJSONError(w, "invalid auth token", http.StatusUnauthorized)
			return
		}

		ctx = context.WithValue(ctx, subjectContextKey, idToken.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// sessionMiddleware binds the request to a session. Authenticated operators
// get one session per subject, everyone else is identified by the session
// header or cookie and is issued a new session when neither is present.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var id string
		if subject, ok := ctx.Value(subjectContextKey).(string); ok && subject != "" {
			id = "sub:" + subject
		} else {
			id = requestSessionID(r)
			if id == "" {
				id = uuid.New().String()
				http.SetCookie(w, &http.Cookie{
					Name:     sessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   s.secure,
					SameSite: http.SameSiteStrictMode,
				})
				log.Ctx(ctx).DebugContext(ctx, "issued new session", slog.String("sessionID", id))
			}
		}
		w.Header().Set(sessionHeader, id)

		sess := s.sessions.GetOrCreate(id)
		ctx = log.WithAttrs(ctx, slog.String("sessionID", id))
		ctx = context.WithValue(ctx, sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestSessionID returns the session the request claims, or "" when it
// doesn't carry a well-formed one.
func requestSessionID(r *http.Request) string {
	id := r.Header.Get(sessionHeader)
	if id == "" {
		if c, err := r.Cookie(sessionCookie); err == nil {
			id = c.Value
		}
	}
	if id == "" {
		return ""
	}
	if _, err := uuid.Parse(id); err != nil {
		return ""
	}
	return id
}

func (s *Server) getSession(r *http.Request) *session.Session {
	if sess, ok := r.Context().Value(sessionContextKey).(*session.Session); ok {
		return sess
	}
	// we want to have a stack trace when this happens
	panic("no session in context")
}
