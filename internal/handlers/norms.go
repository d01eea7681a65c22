package handlers

import (
	"errors"
	"io"
	"net/http"

	"elecdesign/internal/services"
	"elecdesign/internal/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type NormsHandler struct {
	service *services.NormsService
	logr    *zap.Logger
}

func NewNormsHandler(svc *services.NormsService, logr *zap.Logger) *NormsHandler {
	return &NormsHandler{service: svc, logr: logr}
}

type preloadRequest struct {
	Keys []string `json:"keys"`
}

// ClearCache handles POST /api/v1/norms/cache/clear
func (h *NormsHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	n := h.service.ClearCache()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"cleared":  n,
		"rule_set": h.service.Version(),
	})
}

// Preload handles POST /api/v1/norms/cache/preload
// The body is optional; without keys the whole rule set is loaded.
func (h *NormsHandler) Preload(w http.ResponseWriter, r *http.Request) {
	var req preloadRequest
	if err := decodeBody(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	n, err := h.service.Preload(r.Context(), req.Keys)
	if err != nil {
		writeServiceError(w, h.logr, "preload norm parameters", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"loaded":   n,
		"rule_set": h.service.Version(),
	})
}

// Tables handles GET /api/v1/norms/tables
// Supports ?table=breakers,ampacity or repeated table params.
func (h *NormsHandler) Tables(w http.ResponseWriter, r *http.Request) {
	names := utils.ParseQueryList(r.URL.Query(), "table")

	tables, err := h.service.ListTables(names)
	if err != nil {
		writeServiceError(w, h.logr, "list reference tables", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"data":     tables,
		"rule_set": h.service.Version(),
	})
}

// Param handles GET /api/v1/norms/params/{key}
func (h *NormsHandler) Param(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	p, err := h.service.Param(r.Context(), key)
	if err != nil {
		writeServiceError(w, h.logr, "fetch norm parameter", err)
		return
	}

	writeData(w, p)
}
