package web

import (
	"net/http"
	"strings"

	"github.com/erazemk/rfidash/internal/imaging"
	"github.com/erazemk/rfidash/internal/model"
	"github.com/erazemk/rfidash/internal/tagdata"
)

type tagPreviewData struct {
	PageData
	Payload string
	Hex     string
	Fixed   *model.Item
	Error   string
}

// payloadFor returns the payload named by the request: the composed payload
// of item ?uid=, or the literal ?data=.
func (s *Server) payloadFor(r *http.Request) (string, error) {
	if uid := r.URL.Query().Get("uid"); uid != "" {
		it, err := s.API.Item(r.Context(), uid)
		if err != nil {
			return "", err
		}
		return tagdata.Compose(it)
	}
	payload := strings.TrimSpace(r.URL.Query().Get("data"))
	return payload, tagdata.Validate(payload)
}

// TagPreview handles GET /tags/preview.
func (s *Server) TagPreview(w http.ResponseWriter, r *http.Request) {
	data := tagPreviewData{PageData: s.page(w, r, "Tag preview")}

	payload, err := s.payloadFor(r)
	data.Payload = payload
	if err != nil {
		data.Error = describe(err)
		s.Templates.RenderStatus(w, http.StatusBadRequest, "tag_preview.html", &data)
		return
	}

	data.Hex = tagdata.ToHex(payload)
	if it, err := tagdata.ParseFixed(payload); err == nil {
		data.Fixed = &it
	}
	s.Templates.Render(w, "tag_preview.html", &data)
}

// TagLabel handles GET /tags/label.png.
func (s *Server) TagLabel(w http.ResponseWriter, r *http.Request) {
	payload, err := s.payloadFor(r)
	if err != nil {
		http.Error(w, describe(err), http.StatusBadRequest)
		return
	}

	png, err := imaging.Label(payload)
	if err != nil {
		requestLogger(r).Error("failed to render label", "payload", payload, "error", err)
		http.Error(w, "failed to render label", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", "inline")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "private, max-age=300")
	if _, err := w.Write(png); err != nil {
		requestLogger(r).Error("failed to write label response", "error", err)
	}
}
