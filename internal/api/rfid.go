package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/rfidash/internal/model"
	"github.com/erazemk/rfidash/internal/simreader"
	"github.com/erazemk/rfidash/internal/store"
	"github.com/erazemk/rfidash/internal/tagdata"
)

// RFIDHandler handles the reader and writer endpoints.
type RFIDHandler struct {
	DB     *sql.DB
	Reader *simreader.Reader
}

// StartReading handles GET /start_reading. Tags read are added to the
// inventory.
func (h *RFIDHandler) StartReading(w http.ResponseWriter, r *http.Request) {
	h.start(w, h.enter)
}

// StartReadingExits handles GET /start_reading_exits. Tags read are marked
// as exited.
func (h *RFIDHandler) StartReadingExits(w http.ResponseWriter, r *http.Request) {
	h.start(w, h.exit)
}

// start (re)starts the read loop: a reader already reading switches to the
// requested handling.
func (h *RFIDHandler) start(w http.ResponseWriter, onTag simreader.TagFunc) {
	if err := h.Reader.Stop(); err != nil && !errors.Is(err, simreader.ErrNotReading) {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.Reader.Start(onTag); err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, message{Message: "RFID reading started"})
}

// StopReading handles POST /stop_reading. Stopping an idle reader succeeds.
func (h *RFIDHandler) StopReading(w http.ResponseWriter, r *http.Request) {
	if err := h.Reader.Stop(); err != nil && !errors.Is(err, simreader.ErrNotReading) {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, message{Message: "RFID reading stopped"})
}

// WriteTag handles POST /write_tag?data=.
func (h *RFIDHandler) WriteTag(w http.ResponseWriter, r *http.Request) {
	data := r.URL.Query().Get("data")
	if err := h.Reader.Write(data); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, tagdata.ErrEmptyPayload) || errors.Is(err, tagdata.ErrPayloadTooLong) || errors.Is(err, tagdata.ErrNotASCII) {
			status = http.StatusBadRequest
		}
		jsonError(w, status, err.Error())
		return
	}
	if err := store.RecordTagWrite(r.Context(), h.DB, data); err != nil {
		slog.Error("recording tag write", "error", err)
	}
	jsonResponse(w, http.StatusOK, message{Message: "Data written to RFID tag"})
}

// Scan handles POST /simulate/scan/{epc}: the tag enters the reader's field.
// With ?encoding=hex the EPC is given as hex, the way readers report it.
func (h *RFIDHandler) Scan(w http.ResponseWriter, r *http.Request) {
	epc := r.PathValue("epc")
	if r.URL.Query().Get("encoding") == "hex" {
		if epc = tagdata.FromHex(epc); epc == "" {
			jsonError(w, http.StatusBadRequest, "epc is not hex encoded ASCII")
			return
		}
	}
	if err := h.Reader.Place(epc); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Tag placed in reader field",
		"reading": h.Reader.Reading(),
	})
}

// Writes handles GET /simulate/writes.
func (h *RFIDHandler) Writes(w http.ResponseWriter, r *http.Request) {
	writes, err := store.ListTagWrites(r.Context(), h.DB, 50)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if writes == nil {
		writes = []model.TagWrite{}
	}
	jsonResponse(w, http.StatusOK, map[string]any{
		"writes": writes,
		"tag":    h.Reader.LastWritten(),
	})
}

func (h *RFIDHandler) enter(ctx context.Context, epc string) {
	item, err := tagdata.ParseFixed(epc)
	if err == nil {
		item.Normalize()
		err = item.Validate()
	}
	if err != nil {
		slog.Warn("unreadable tag", "epc", epc, "error", err)
		return
	}

	added, err := store.AddItem(ctx, h.DB, item)
	switch {
	case err != nil:
		slog.Error("adding item from tag", "epc", epc, "error", err)
	case !added:
		slog.Info("tag already in inventory", "uid", item.UID)
	default:
		slog.Info("item added from tag", "uid", item.UID, "epc", epc)
	}
}

func (h *RFIDHandler) exit(ctx context.Context, epc string) {
	item, err := tagdata.ParseFixed(epc)
	if err != nil {
		slog.Warn("unreadable tag", "epc", epc, "error", err)
		return
	}

	ok, err := store.ExitItem(ctx, h.DB, item.UID)
	switch {
	case err != nil:
		slog.Error("exiting item from tag", "epc", epc, "error", err)
	case !ok:
		slog.Warn("exit tag not in inventory", "uid", item.UID)
	default:
		slog.Info("item exited by tag", "uid", item.UID)
	}
}
