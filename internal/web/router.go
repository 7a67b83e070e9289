// Package web serves the operator dashboard: sign-in, the inventory table,
// item forms with the Julian date picker, reader controls and tag previews.
package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/erazemk/rfidash/internal/auth"
	"github.com/erazemk/rfidash/internal/metrics"
	"github.com/erazemk/rfidash/internal/reader"
	webembed "github.com/erazemk/rfidash/web"
)

// Options configures the dashboard router.
type Options struct {
	API      Inventory
	Reader   *reader.Controller
	Sessions *auth.Manager
	// Metrics defaults to a fresh registry.
	Metrics *metrics.Metrics

	LegacyDeleteReenters bool
	SecureCookies        bool

	// RFIDRateLimit limits reader actions per client, in limiter format
	// ("30-M" is 30 per minute).
	RFIDRateLimit string

	Now func() time.Time
}

var readerStatuses = []string{
	string(reader.StatusIdle),
	string(reader.StatusReading),
	string(reader.StatusWriting),
}

// NewRouter creates the dashboard router with all page routes registered.
func NewRouter(opts Options) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}

	s := &Server{
		API:                  opts.API,
		Reader:               opts.Reader,
		Sessions:             opts.Sessions,
		Templates:            templates,
		Metrics:              m,
		LegacyDeleteReenters: opts.LegacyDeleteReenters,
		SecureCookies:        opts.SecureCookies,
		Now:                  opts.Now,
	}

	m.ReaderStatus(readerStatuses, string(s.Reader.State().Status))
	s.Reader.OnChange(func(_, status reader.Status) {
		m.ReaderStatus(readerStatuses, string(status))
	})

	rateLimit, err := rfidLimiter(opts.RFIDRateLimit)
	if err != nil {
		return nil, err
	}

	if opts.LegacyDeleteReenters {
		slog.Warn("legacy_delete_reenters is enabled: the delete action re-enters items")
	}

	mux := http.NewServeMux()
	session := SessionMiddleware(s.Sessions)
	page := func(h http.HandlerFunc) http.Handler { return session(h) }
	rfid := func(h http.HandlerFunc) http.Handler { return session(rateLimit(h)) }

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))

	// Public routes.
	mux.HandleFunc("GET /signin", s.SignInPage)
	mux.HandleFunc("POST /signin", s.SignInSubmit)
	mux.HandleFunc("POST /signout", s.SignOut)
	mux.HandleFunc("GET /healthz", s.Healthz)
	mux.Handle("GET /metrics", m.Handler())

	// Signed-in routes.
	mux.Handle("GET /{$}", page(s.Dashboard))

	mux.Handle("GET /items/new", page(s.NewItemPage))
	mux.Handle("POST /items", page(s.ItemCreateSubmit))
	mux.Handle("GET /items/{uid}/edit", page(s.EditItemPage))
	mux.Handle("POST /items/{uid}", page(s.ItemUpdateSubmit))
	mux.Handle("POST /items/{uid}/exit", page(s.ItemExit))
	mux.Handle("POST /items/{uid}/reenter", page(s.ItemReenter))
	mux.Handle("POST /items/{uid}/delete", page(s.ItemDelete))

	mux.Handle("POST /rfid/start", rfid(s.RFIDStart))
	mux.Handle("POST /rfid/start-exits", rfid(s.RFIDStartExits))
	mux.Handle("POST /rfid/stop", rfid(s.RFIDStop))
	mux.Handle("POST /rfid/write", rfid(s.RFIDWrite))
	mux.Handle("POST /rfid/write-item/{uid}", rfid(s.RFIDWriteItem))

	mux.Handle("GET /tags/preview", page(s.TagPreview))
	mux.Handle("GET /tags/label.png", page(s.TagLabel))

	return LoggingMiddleware(m.Middleware(mux)), nil
}

// rfidLimiter returns middleware limiting reader actions per client IP. Over
// the limit the operator is sent back to the dashboard with a notification.
func rfidLimiter(formatted string) (func(http.Handler) http.Handler, error) {
	if formatted == "" {
		formatted = "30-M"
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, fmt.Errorf("parsing rfid rate limit %q: %w", formatted, err)
	}

	instance := limiter.New(memory.NewStore(), rate)
	mw := stdlib.NewMiddleware(instance, stdlib.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
		requestLogger(r).Warn("reader rate limit reached", "remote", r.RemoteAddr, "path", r.URL.Path)
		redirectFlash(w, r, "/", FlashError, "Too many reader actions, wait a moment and try again.")
	}))
	return mw.Handler, nil
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"reader": string(s.Reader.State().Status),
	})
}
