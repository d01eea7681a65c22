package handlers

import (
	"context"
	"net/http"

	"elecdesign/internal/services"

	"go.uber.org/zap"
)

type DesignHandler struct {
	service *services.DesignService
	logr    *zap.Logger
}

func NewDesignHandler(svc *services.DesignService, logr *zap.Logger) *DesignHandler {
	return &DesignHandler{service: svc, logr: logr}
}

// stage decodes a request body of type Req, runs fn and writes its result.
func stage[Req any, Resp any](h *DesignHandler, op string, fn func(context.Context, *Req) (*Resp, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Req
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		resp, err := fn(r.Context(), &req)
		if err != nil {
			writeServiceError(w, h.logr, op, err)
			return
		}

		writeData(w, resp)
	}
}

// Rooms handles POST /api/v1/design/rooms
// Returns the connected load per room and per category.
func (h *DesignHandler) Rooms(w http.ResponseWriter, r *http.Request) {
	stage(h, "aggregate room loads", h.service.AggregateRooms)(w, r)
}

// Demand handles POST /api/v1/design/demand
func (h *DesignHandler) Demand(w http.ResponseWriter, r *http.Request) {
	stage(h, "apply demand factors", h.service.Diversify)(w, r)
}

// Circuits handles POST /api/v1/design/circuits
// Groups loads into branch circuits and sizes breakers and conductors.
func (h *DesignHandler) Circuits(w http.ResponseWriter, r *http.Request) {
	stage(h, "synthesize circuits", h.service.SynthesizeCircuits)(w, r)
}

// VoltageDrop handles POST /api/v1/design/voltage-drop
func (h *DesignHandler) VoltageDrop(w http.ResponseWriter, r *http.Request) {
	stage(h, "analyze voltage drop", h.service.AnalyzeVoltageDrop)(w, r)
}

// Grounding handles POST /api/v1/design/grounding
func (h *DesignHandler) Grounding(w http.ResponseWriter, r *http.Request) {
	stage(h, "size grounding", h.service.SizeGrounding)(w, r)
}

// Pipeline handles POST /api/v1/design/pipeline
// Runs every stage in order on one project description.
func (h *DesignHandler) Pipeline(w http.ResponseWriter, r *http.Request) {
	stage(h, "run design pipeline", h.service.RunPipeline)(w, r)
}
