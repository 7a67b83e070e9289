package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/rfidash/internal/model"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes an error response in the {"detail": ...} envelope.
func jsonError(w http.ResponseWriter, status int, detail string) {
	jsonResponse(w, status, map[string]string{"detail": detail})
}

type fieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// validationError writes a 422 response listing the invalid field, or a plain
// 400 for errors that are not field errors.
func validationError(w http.ResponseWriter, err error) {
	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	jsonResponse(w, http.StatusUnprocessableEntity, map[string]any{
		"detail": []fieldError{{Loc: []string{"body", ve.Field}, Msg: ve.Message, Type: "value_error"}},
	})
}

type message struct {
	Message string      `json:"message"`
	Data    *model.Item `json:"data,omitempty"`
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
