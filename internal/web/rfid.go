package web

import (
	"net/http"
	"strings"

	"github.com/erazemk/rfidash/internal/reader"
	"github.com/erazemk/rfidash/internal/tagdata"
)

// RFIDStart handles POST /rfid/start.
func (s *Server) RFIDStart(w http.ResponseWriter, r *http.Request) {
	s.startReading(w, r, reader.ModeEntries)
}

// RFIDStartExits handles POST /rfid/start-exits.
func (s *Server) RFIDStartExits(w http.ResponseWriter, r *http.Request) {
	s.startReading(w, r, reader.ModeExits)
}

func (s *Server) startReading(w http.ResponseWriter, r *http.Request, mode reader.Mode) {
	msg, err := s.Reader.StartReading(r.Context(), mode)
	if err != nil {
		requestLogger(r).Warn("failed to start reading", "mode", mode, "error", err)
		redirectFlash(w, r, "/", FlashError, describe(err))
		return
	}
	requestLogger(r).Info("reading started", "operator", operator(r), "mode", mode)
	redirectFlash(w, r, "/", FlashSuccess, orDefault(msg, "RFID reading started"))
}

// RFIDStop handles POST /rfid/stop.
func (s *Server) RFIDStop(w http.ResponseWriter, r *http.Request) {
	msg, err := s.Reader.StopReading(r.Context())
	if err != nil {
		requestLogger(r).Warn("failed to stop reading", "error", err)
		redirectFlash(w, r, "/", FlashError, describe(err))
		return
	}
	requestLogger(r).Info("reading stopped", "operator", operator(r))
	redirectFlash(w, r, "/", FlashSuccess, orDefault(msg, "RFID reading stopped"))
}

// RFIDWrite handles POST /rfid/write with manually entered tag data.
func (s *Server) RFIDWrite(w http.ResponseWriter, r *http.Request) {
	s.writeTag(w, r, strings.TrimSpace(r.FormValue("data")))
}

// RFIDWriteItem handles POST /rfid/write-item/{uid}: the item's fields are
// composed into the payload.
func (s *Server) RFIDWriteItem(w http.ResponseWriter, r *http.Request) {
	uid := r.PathValue("uid")
	it, err := s.API.Item(r.Context(), uid)
	if err != nil {
		requestLogger(r).Warn("failed to load item for tag write", "uid", uid, "error", err)
		redirectFlash(w, r, "/", FlashError, describe(err))
		return
	}
	payload, err := tagdata.Compose(it)
	if err != nil {
		redirectFlash(w, r, "/", FlashError, describe(err))
		return
	}
	s.writeTag(w, r, payload)
}

func (s *Server) writeTag(w http.ResponseWriter, r *http.Request, payload string) {
	msg, err := s.Reader.WriteTag(r.Context(), payload)
	if s.Metrics != nil {
		s.Metrics.TagWrite(err == nil)
	}
	if err != nil {
		requestLogger(r).Warn("failed to write tag", "payload", payload, "error", err)
		redirectFlash(w, r, "/", FlashError, describe(err))
		return
	}
	requestLogger(r).Info("tag written", "operator", operator(r), "payload", payload, "hex", tagdata.ToHex(payload))
	redirectFlash(w, r, "/", FlashSuccess, orDefault(msg, "Data written to RFID tag")+": "+payload)
}
