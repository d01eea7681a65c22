package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"elecdesign/internal/calc"
	"elecdesign/internal/norms"
	"elecdesign/internal/services"

	"go.uber.org/zap"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(data)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   msg,
	})
}

// decodeBody reads a JSON request body into dst. Unknown fields are rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps a service error onto a status code. Validation
// messages are returned to the caller; anything else is logged and hidden.
func writeServiceError(w http.ResponseWriter, logr *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, calc.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrNormsUnavailable):
		logr.Error("norm parameters unavailable", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "norm parameters unavailable")
	case errors.Is(err, norms.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		logr.Error("request failed", zap.String("op", op), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to "+op)
	}
}
