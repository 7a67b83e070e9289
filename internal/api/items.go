package api

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/rfidash/internal/model"
	"github.com/erazemk/rfidash/internal/store"
	"github.com/erazemk/rfidash/internal/tagdata"
)

// ItemsHandler handles the inventory endpoints.
type ItemsHandler struct {
	DB *sql.DB
}

// List handles GET /get_all_items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := store.ListItems(r.Context(), h.DB)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{"items": items})
}

// Find handles GET /find_item_by_uid/{uid}. A missing item is reported in
// the body, not by status code.
func (h *ItemsHandler) Find(w http.ResponseWriter, r *http.Request) {
	item, err := store.FindItem(r.Context(), h.DB, r.PathValue("uid"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if item == nil {
		jsonResponse(w, http.StatusOK, map[string]string{"item": "Item not found"})
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"item": item})
}

// Add handles POST /add_manually.
func (h *ItemsHandler) Add(w http.ResponseWriter, r *http.Request) {
	var item model.Item
	if err := decodeJSON(r, &item); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	h.add(r.Context(), w, item, "Item added")
}

// AddFromTag handles POST /add_from_tag/{epc}.
func (h *ItemsHandler) AddFromTag(w http.ResponseWriter, r *http.Request) {
	item, err := tagdata.ParseFixed(r.PathValue("epc"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.add(r.Context(), w, item, "Item added from tag")
}

func (h *ItemsHandler) add(ctx context.Context, w http.ResponseWriter, item model.Item, msg string) {
	item.Normalize()
	if err := item.Validate(); err != nil {
		validationError(w, err)
		return
	}

	added, err := store.AddItem(ctx, h.DB, item)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !added {
		jsonError(w, http.StatusBadRequest, "Item already exists")
		return
	}

	slog.Info("item added", "uid", item.UID, "sku", item.SKU, "lot", item.Lot)
	jsonResponse(w, http.StatusOK, message{Message: msg, Data: &item})
}

// Exit handles POST /exit_item/{uid}.
func (h *ItemsHandler) Exit(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	ok, err := store.ExitItem(r.Context(), h.DB, uid)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "Item not found")
		return
	}
	jsonResponse(w, http.StatusOK, message{Message: fmt.Sprintf("Item with UID '%s' marked as exited", uid)})
}

// Update handles POST /update_item/{uid}. The UID of the stored item never
// changes.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")

	var item model.Item
	if err := decodeJSON(r, &item); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	item.UID = uid
	item.Normalize()
	if err := item.Validate(); err != nil {
		validationError(w, err)
		return
	}

	ok, err := store.UpdateItem(r.Context(), h.DB, uid, item)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "Item not found")
		return
	}
	jsonResponse(w, http.StatusOK, message{Message: "Item updated", Data: &item})
}

// Delete handles DELETE /delete_item/{uid}.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ok, err := store.DeleteItem(r.Context(), h.DB, r.PathValue("uid"))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		jsonError(w, http.StatusNotFound, "Item not found")
		return
	}
	jsonResponse(w, http.StatusOK, message{Message: "Item deleted"})
}

// CountBySKU handles GET /count_by_sku/{sku}.
func (h *ItemsHandler) CountBySKU(w http.ResponseWriter, r *http.Request) {
	sku := r.PathValue("sku")
	n, err := store.CountBySKU(r.Context(), h.DB, sku)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"sku": sku, "count": n})
}

// CountByLot handles GET /count_by_lot/{lot}.
func (h *ItemsHandler) CountByLot(w http.ResponseWriter, r *http.Request) {
	lot := r.PathValue("lot")
	n, err := store.CountByLot(r.Context(), h.DB, lot)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{"lot": lot, "count": n})
}
