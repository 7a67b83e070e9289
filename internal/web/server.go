package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/erazemk/rfidash/internal/auth"
	"github.com/erazemk/rfidash/internal/metrics"
	"github.com/erazemk/rfidash/internal/model"
	"github.com/erazemk/rfidash/internal/reader"
	"github.com/erazemk/rfidash/internal/rfidapi"
	"github.com/erazemk/rfidash/internal/tagdata"
)

// Inventory is the item surface of the remote service used by the pages.
type Inventory interface {
	Health(ctx context.Context) (rfidapi.Health, error)
	Items(ctx context.Context) ([]model.Item, error)
	Item(ctx context.Context, uid string) (model.Item, error)
	AddItem(ctx context.Context, it model.Item) (rfidapi.Result, error)
	ExitItem(ctx context.Context, uid string) (rfidapi.Result, error)
	UpdateItem(ctx context.Context, uid string, it model.Item) (rfidapi.Result, error)
	DeleteItem(ctx context.Context, uid string) (rfidapi.Result, error)
}

// Server holds all dependencies for page handlers.
type Server struct {
	API       Inventory
	Reader    *reader.Controller
	Sessions  *auth.Manager
	Templates *Templates
	Metrics   *metrics.Metrics

	// LegacyDeleteReenters makes the delete action re-enter the item instead
	// of deleting it, as older dashboards did.
	LegacyDeleteReenters bool

	// SecureCookies marks cookies Secure.
	SecureCookies bool

	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// page returns the base page data for r.
func (s *Server) page(w http.ResponseWriter, r *http.Request, title string) PageData {
	return PageData{
		Title:   title,
		Session: GetSession(r.Context()),
		Flash:   popFlash(w, r),
		Reader:  s.Reader.State(),
	}
}

// describe turns an error into a message for the operator.
func describe(err error) string {
	var se *rfidapi.ServiceError
	var ve *model.ValidationError
	switch {
	case errors.As(err, &se):
		return se.Detail
	case errors.Is(err, rfidapi.ErrNetwork):
		return "Cannot reach the inventory service."
	case errors.Is(err, rfidapi.ErrNotFound):
		return "Item not found."
	case errors.Is(err, context.DeadlineExceeded):
		return "The inventory service did not answer in time."
	case errors.Is(err, reader.ErrBusy):
		return "The reader is busy, try again."
	case errors.Is(err, reader.ErrInvalidTransition):
		return "That reader action is not available right now (" + err.Error() + ")."
	case errors.As(err, &ve):
		return "Invalid " + ve.Field + ": " + ve.Message + "."
	case errors.Is(err, tagdata.ErrEmptyPayload),
		errors.Is(err, tagdata.ErrPayloadTooLong),
		errors.Is(err, tagdata.ErrNotASCII):
		return err.Error()
	default:
		return "Unexpected error: " + err.Error()
	}
}
