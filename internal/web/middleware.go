package web

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/erazemk/rfidash/internal/auth"
)

type webContextKey string

const (
	webSessionKey   webContextKey = "session"
	webRequestIDKey webContextKey = "requestid"
)

const sessionCookie = "session"

// SessionMiddleware verifies the session cookie and adds the session to the
// context. Requests without a valid session are sent to the sign-in page.
func SessionMiddleware(m *auth.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookie)
			if err != nil || cookie.Value == "" {
				http.Redirect(w, r, "/signin", http.StatusSeeOther)
				return
			}

			session, err := m.Verify(cookie.Value)
			if err != nil {
				clearSessionCookie(w)
				http.Redirect(w, r, "/signin", http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), webSessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clearSessionCookie clears the session cookie with consistent attributes.
func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetSession retrieves the operator session from the context.
func GetSession(ctx context.Context) *auth.Session {
	s, _ := ctx.Value(webSessionKey).(*auth.Session)
	return s
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(webRequestIDKey).(string)
	return id
}

// requestLogger returns the default logger tagged with the request ID.
func requestLogger(r *http.Request) *slog.Logger {
	if id := GetRequestID(r.Context()); id != "" {
		return slog.With("request_id", id)
	}
	return slog.Default()
}

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// LoggingMiddleware assigns a request ID and logs HTTP requests with method,
// path, status, and duration. An incoming X-Request-ID is kept.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get("X-Request-ID")
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), webRequestIDKey, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))

		slog.Info("request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.RequestURI(),
			"status", rec.status,
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}
