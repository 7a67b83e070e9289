package web

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/erazemk/rfidash/internal/julian"
	"github.com/erazemk/rfidash/internal/model"
	"github.com/erazemk/rfidash/internal/rfidapi"
)

type itemFormData struct {
	PageData
	Edit   bool
	Action string
	Self   string
	Input  model.ItemInput
	Picker julian.Grid
	// DateLabel is the decoded date field, empty while the code is invalid.
	DateLabel string
	Error     string
}

func inputFromForm(v url.Values) model.ItemInput {
	return model.ItemInput{
		SKU:        v.Get("sku"),
		Lot:        v.Get("lot"),
		UID:        v.Get("uid"),
		ReceivedBy: v.Get("received_by"),
		Date:       v.Get("date"),
		Price:      v.Get("price"),
		Status:     v.Get("status"),
	}
}

// pickerState applies the date picker controls in q to the input and returns
// the month grid to show. The picker is driven by GET submissions of the form
// itself, so every field survives navigation.
func (s *Server) pickerState(q url.Values, in *model.ItemInput) julian.Grid {
	now := s.now()

	cursor := julian.CursorOf(now)
	if d, err := julian.Decode(in.Date); err == nil {
		cursor = julian.CursorOf(d)
	}
	if c, err := julian.ParseCursor(q.Get("cal")); err == nil {
		cursor = c
	}

	switch {
	case q.Get("today") != "":
		cursor, in.Date = julian.SetToday(s.now)
	case q.Get("pick") != "":
		if err := julian.Validate(q.Get("pick")); err == nil {
			in.Date = q.Get("pick")
		}
	}

	return cursor.Grid(in.Date, now)
}

func (s *Server) renderItemForm(w http.ResponseWriter, r *http.Request, status int, data itemFormData) {
	data.PageData = s.page(w, r, data.Title)
	data.Picker = s.pickerState(r.URL.Query(), &data.Input)
	if d, err := julian.Decode(data.Input.Date); err == nil {
		data.DateLabel = julian.Long(d)
	}
	s.Templates.RenderStatus(w, status, "item_form.html", &data)
}

// formStatus picks the status code of a form re-rendered after err.
func formStatus(err error) int {
	var ve *model.ValidationError
	var se *rfidapi.ServiceError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.As(err, &se) && se.StatusCode >= 400 && se.StatusCode < 500:
		return se.StatusCode
	default:
		return http.StatusBadGateway
	}
}

// NewItemPage handles GET /items/new.
func (s *Server) NewItemPage(w http.ResponseWriter, r *http.Request) {
	s.renderItemForm(w, r, http.StatusOK, itemFormData{
		PageData: PageData{Title: "Add item"},
		Action:   "/items",
		Self:     "/items/new",
		Input:    inputFromForm(r.URL.Query()),
	})
}

// ItemCreateSubmit handles POST /items. An empty date means today.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	in := inputFromForm(parseForm(r))
	data := itemFormData{
		PageData: PageData{Title: "Add item"},
		Action:   "/items",
		Self:     "/items/new",
		Input:    in,
	}

	it, err := in.Item(s.now)
	if err == nil {
		var res rfidapi.Result
		res, err = s.API.AddItem(r.Context(), it)
		if err == nil {
			requestLogger(r).Info("item added", "operator", operator(r), "uid", it.UID)
			redirectFlash(w, r, "/", FlashSuccess, orDefault(res.Message, "Item added"))
			return
		}
		requestLogger(r).Warn("failed to add item", "uid", it.UID, "error", err)
	}

	data.Error = describe(err)
	s.renderItemForm(w, r, formStatus(err), data)
}

// EditItemPage handles GET /items/{uid}/edit.
func (s *Server) EditItemPage(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	q := r.URL.Query()

	var in model.ItemInput
	if q.Has("sku") {
		in = inputFromForm(q)
	} else {
		it, err := s.API.Item(r.Context(), uid)
		if err != nil {
			requestLogger(r).Warn("failed to load item", "uid", uid, "error", err)
			redirectFlash(w, r, "/", FlashError, describe(err))
			return
		}
		in = model.InputOf(it)
	}
	in.UID = uid

	s.renderItemForm(w, r, http.StatusOK, itemFormData{
		PageData: PageData{Title: "Edit item " + uid},
		Edit:     true,
		Action:   "/items/" + url.PathEscape(uid),
		Self:     "/items/" + url.PathEscape(uid) + "/edit",
		Input:    in,
	})
}

// ItemUpdateSubmit handles POST /items/{uid}. The UID cannot be changed.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	in := inputFromForm(parseForm(r))
	in.UID = uid
	data := itemFormData{
		PageData: PageData{Title: "Edit item " + uid},
		Edit:     true,
		Action:   "/items/" + url.PathEscape(uid),
		Self:     "/items/" + url.PathEscape(uid) + "/edit",
		Input:    in,
	}

	it, err := in.Item(s.now)
	if err == nil {
		var res rfidapi.Result
		res, err = s.API.UpdateItem(r.Context(), uid, it)
		if err == nil {
			requestLogger(r).Info("item updated", "operator", operator(r), "uid", uid, "status", it.Status)
			redirectFlash(w, r, "/", FlashSuccess, orDefault(res.Message, "Item updated"))
			return
		}
		requestLogger(r).Warn("failed to update item", "uid", uid, "error", err)
	}

	data.Error = describe(err)
	s.renderItemForm(w, r, formStatus(err), data)
}

// ItemExit handles POST /items/{uid}/exit.
func (s *Server) ItemExit(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	res, err := s.API.ExitItem(r.Context(), uid)
	if err != nil {
		requestLogger(r).Warn("failed to exit item", "uid", uid, "error", err)
		redirectFlash(w, r, "/", FlashError, describe(err))
		return
	}
	requestLogger(r).Info("item exited", "operator", operator(r), "uid", uid)
	redirectFlash(w, r, "/", FlashSuccess, orDefault(res.Message, "Item exited"))
}

// ItemReenter handles POST /items/{uid}/reenter.
func (s *Server) ItemReenter(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	if err := s.reenter(r.Context(), uid); err != nil {
		requestLogger(r).Warn("failed to re-enter item", "uid", uid, "error", err)
		redirectFlash(w, r, "/", FlashError, describe(err))
		return
	}
	requestLogger(r).Info("item re-entered", "operator", operator(r), "uid", uid)
	redirectFlash(w, r, "/", FlashSuccess, "Item "+uid+" re-entered.")
}

// ItemDelete handles POST /items/{uid}/delete.
func (s *Server) ItemDelete(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")

	if s.LegacyDeleteReenters {
		requestLogger(r).Warn("legacy_delete_reenters is set: delete re-enters the item instead", "uid", uid)
		s.ItemReenter(w, r)
		return
	}

	res, err := s.API.DeleteItem(r.Context(), uid)
	if rfidapi.IsStatus(err, http.StatusNotFound) {
		redirectFlash(w, r, "/", FlashSuccess, "Item "+uid+" was already removed.")
		return
	}
	if err != nil {
		requestLogger(r).Warn("failed to delete item", "uid", uid, "error", err)
		redirectFlash(w, r, "/", FlashError, describe(err))
		return
	}
	requestLogger(r).Info("item deleted", "operator", operator(r), "uid", uid)
	redirectFlash(w, r, "/", FlashSuccess, orDefault(res.Message, "Item deleted"))
}

// reenter marks an exited item active again. The service has no dedicated
// call, so the stored record is written back with status "1".
func (s *Server) reenter(ctx context.Context, uid string) error {
	it, err := s.API.Item(ctx, uid)
	if err != nil {
		return err
	}
	it.Status = model.StatusActive
	_, err = s.API.UpdateItem(ctx, uid, it)
	return err
}

func parseForm(r *http.Request) url.Values {
	if err := r.ParseForm(); err != nil {
		requestLogger(r).Warn("failed to parse form", "error", err)
	}
	return r.PostForm
}

func operator(r *http.Request) string {
	if s := GetSession(r.Context()); s != nil {
		return s.Email
	}
	return ""
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
