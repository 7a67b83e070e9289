package web

import (
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/erazemk/rfidash/internal/model"
	"github.com/erazemk/rfidash/internal/rfidapi"
)

type dashboardData struct {
	PageData
	Query    string
	Items    []model.Item
	Summary  model.Summary
	Health   *rfidapi.Health
	Error    string
	Legacy   bool
	Filtered bool
}

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := dashboardData{
		PageData: s.page(w, r, "Inventory"),
		Query:    strings.TrimSpace(r.URL.Query().Get("q")),
		Legacy:   s.LegacyDeleteReenters,
	}

	var items []model.Item
	var health rfidapi.Health
	var healthErr error

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		items, err = s.API.Items(ctx)
		return err
	})
	g.Go(func() error {
		// A failed health check only dims the status card.
		health, healthErr = s.API.Health(ctx)
		return nil
	})

	if err := g.Wait(); err != nil {
		requestLogger(r).Error("failed to list items", "error", err)
		data.Error = describe(err)
	}
	if healthErr == nil {
		data.Health = &health
	}

	data.Summary = model.Summarize(items)
	data.Items = model.Filter(items, data.Query)
	data.Filtered = data.Query != ""

	s.Templates.Render(w, "dashboard.html", &data)
}
