package services

import (
	"context"
	"errors"
	"time"

	"elecdesign/internal/calc"
	"elecdesign/internal/metrics"
	"elecdesign/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stage names used in metadata, logs and metrics.
const (
	StageRooms       = "rooms"
	StageDemand      = "demand"
	StageCircuits    = "circuits"
	StageVoltageDrop = "voltage_drop"
	StageGrounding   = "grounding"
	StagePipeline    = "pipeline"
)

// DesignService runs the calculation stages against the active rule set.
// Requests are never modified.
type DesignService struct {
	norms   *NormsService
	logr    *zap.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

func NewDesignService(normsSvc *NormsService, logr *zap.Logger, rec *metrics.Recorder) *DesignService {
	return &DesignService{norms: normsSvc, logr: logr, metrics: rec, now: time.Now}
}

func (s *DesignService) metadata(stage string) models.Metadata {
	return models.Metadata{
		CalculationID:  uuid.NewString(),
		Stage:          stage,
		RuleSetVersion: s.norms.Version(),
		CalculatedAt:   s.now().UTC().Format(time.RFC3339),
	}
}

// finish records a stage run and logs its outcome.
func (s *DesignService) finish(stage string, started time.Time, observations int, err error) {
	s.metrics.ObserveStage(stage, started, observations, err)
	switch {
	case err == nil:
		s.logr.Debug("stage completed",
			zap.String("stage", stage),
			zap.Int("observations", observations),
			zap.Duration("took", time.Since(started)))
	case errors.Is(err, calc.ErrInvalidInput):
		s.logr.Warn("stage rejected input", zap.String("stage", stage), zap.Error(err))
	default:
		s.logr.Error("stage failed", zap.String("stage", stage), zap.Error(err))
	}
}

// AggregateRooms computes the connected load of every room.
func (s *DesignService) AggregateRooms(ctx context.Context, req *models.RoomsRequest) (resp *models.RoomsResponse, err error) {
	started := time.Now()
	defer func() { s.finish(StageRooms, started, 0, err) }()

	p, err := s.norms.resolve(ctx)
	if err != nil {
		return nil, err
	}

	res, err := calc.AggregateRooms(req.System, req.Surfaces, req.Consumptions, p.rooms)
	if err != nil {
		return nil, err
	}

	return &models.RoomsResponse{
		Rooms:         res.Rooms,
		CategoryLoads: res.CategoryLoads,
		Totals:        res.Totals,
		Metadata:      s.metadata(StageRooms),
	}, nil
}

// Diversify applies demand factors to category loads.
func (s *DesignService) Diversify(ctx context.Context, req *models.DemandRequest) (resp *models.DemandResponse, err error) {
	started := time.Now()
	var observations int
	defer func() { s.finish(StageDemand, started, observations, err) }()

	if err = calc.ValidateCategoryLoads(req.CategoryLoads, req.Totals); err != nil {
		return nil, err
	}

	res := calc.Diversify(req.CategoryLoads, req.Totals, s.norms.Tables())
	observations = len(res.Observations)

	return &models.DemandResponse{
		Loads:        res.Loads,
		Totals:       res.Totals,
		Observations: nonNil(res.Observations),
		Metadata:     s.metadata(StageDemand),
	}, nil
}

// SynthesizeCircuits groups loads into branch circuits.
func (s *DesignService) SynthesizeCircuits(ctx context.Context, req *models.CircuitsRequest) (resp *models.CircuitsResponse, err error) {
	started := time.Now()
	var observations int
	defer func() { s.finish(StageCircuits, started, observations, err) }()

	if err = calc.ValidateLoadItems(req.Loads, req.System, req.Options); err != nil {
		return nil, err
	}
	p, err := s.norms.resolve(ctx)
	if err != nil {
		return nil, err
	}

	cp := calc.CircuitParams{
		MaxUtilization:    p.maxUtilization,
		ContinuousFactor:  p.continuous,
		Material:          p.material,
		SeparateByRoom:    req.Options.SeparateByRoom,
		PreferSinglePhase: req.Options.PreferSinglePhase,
	}
	if req.Options.MaxUtilization > 0 {
		cp.MaxUtilization = req.Options.MaxUtilization
	}
	if req.Options.ConductorMaterial != "" {
		cp.Material = req.Options.ConductorMaterial
	}

	res := calc.SynthesizeCircuits(req.Loads, req.System, cp, s.norms.Tables())
	observations = len(res.Observations)

	return &models.CircuitsResponse{
		Circuits:     res.Circuits,
		Summary:      res.Summary,
		Observations: nonNil(res.Observations),
		Metadata:     s.metadata(StageCircuits),
	}, nil
}

// AnalyzeVoltageDrop checks branch drops and sizes the feeder.
func (s *DesignService) AnalyzeVoltageDrop(ctx context.Context, req *models.VoltageDropRequest) (resp *models.VoltageDropResponse, err error) {
	started := time.Now()
	var observations int
	defer func() { s.finish(StageVoltageDrop, started, observations, err) }()

	if err = calc.ValidateDropRequest(req.Circuits, req.System, req.Feeder); err != nil {
		return nil, err
	}
	p, err := s.norms.resolve(ctx)
	if err != nil {
		return nil, err
	}

	dp := calc.DropParams{
		BranchLimitPct: p.branchLimit,
		TotalLimitPct:  p.totalLimit,
		WarningBandPct: p.warningBand,
		DefaultLengthM: p.defaultLength,
		FeederLengthM:  req.Feeder.LengthM,
		FeederMaterial: p.material,
		FeederCurrentA: req.Feeder.DesignCurrentA,
	}
	if req.Feeder.BranchLimitPct > 0 {
		dp.BranchLimitPct = req.Feeder.BranchLimitPct
	}
	if req.Feeder.TotalLimitPct > 0 {
		dp.TotalLimitPct = req.Feeder.TotalLimitPct
	}
	if req.Feeder.Material != "" {
		dp.FeederMaterial = req.Feeder.Material
	}

	res := calc.AnalyzeVoltageDrop(req.Circuits, req.System, dp, s.norms.Tables())
	observations = len(res.Observations)
	s.metrics.ObserveStatus(StageVoltageDrop, string(res.Summary.Status))

	return &models.VoltageDropResponse{
		Circuits:     res.Circuits,
		Feeder:       res.Feeder,
		Summary:      res.Summary,
		Observations: nonNil(res.Observations),
		Metadata:     s.metadata(StageVoltageDrop),
	}, nil
}

// SizeGrounding sizes the grounding conductors and electrode system.
func (s *DesignService) SizeGrounding(ctx context.Context, req *models.GroundingRequest) (resp *models.GroundingResponse, err error) {
	started := time.Now()
	var observations int
	defer func() { s.finish(StageGrounding, started, observations, err) }()

	if err = calc.ValidateGrounding(req.Params); err != nil {
		return nil, err
	}

	res := calc.SizeGrounding(req.Params, req.Totals, req.Feeder, s.norms.Tables())
	observations = len(res.Observations)
	s.metrics.ObserveStatus(StageGrounding, string(res.System.Status))

	return &models.GroundingResponse{
		GroundingSpec: res.GroundingSpec,
		Observations:  nonNil(res.Observations),
		Metadata:      s.metadata(StageGrounding),
	}, nil
}

// RunPipeline chains the five stages: room loads feed diversification, the
// diversified per-room items feed circuit synthesis, the circuits feed the
// voltage-drop analysis and the selected feeder feeds grounding.
func (s *DesignService) RunPipeline(ctx context.Context, req *models.PipelineRequest) (resp *models.PipelineResponse, err error) {
	started := time.Now()
	defer func() { s.finish(StagePipeline, started, 0, err) }()

	if err = calc.ValidatePipeline(req); err != nil {
		return nil, err
	}
	p, err := s.norms.resolve(ctx)
	if err != nil {
		return nil, err
	}

	rooms, err := s.AggregateRooms(ctx, &models.RoomsRequest{
		System:       req.System,
		Surfaces:     req.Surfaces,
		Consumptions: req.Consumptions,
	})
	if err != nil {
		return nil, err
	}

	demand, err := s.Diversify(ctx, &models.DemandRequest{
		CategoryLoads: rooms.CategoryLoads,
		Totals:        rooms.Totals,
	})
	if err != nil {
		return nil, err
	}

	items := calc.ExpandLoadItems(req.Surfaces, req.Consumptions, demand.Loads, p.rooms)
	circuits, err := s.SynthesizeCircuits(ctx, &models.CircuitsRequest{
		Loads:   items,
		System:  req.System,
		Options: req.Grouping,
	})
	if err != nil {
		return nil, err
	}

	drop, err := s.AnalyzeVoltageDrop(ctx, &models.VoltageDropRequest{
		Circuits: circuits.Circuits,
		System:   req.System,
		Feeder:   req.Feeder,
	})
	if err != nil {
		return nil, err
	}

	grounding, err := s.SizeGrounding(ctx, &models.GroundingRequest{
		Totals: models.SystemTotals{
			TotalVA:  demand.Totals.DiversifiedVA,
			CurrentA: demand.Totals.DiversifiedCurrentA,
			VoltageV: req.System.VoltageV,
			Phases:   req.System.Phases,
		},
		Feeder: drop.Feeder,
		Params: req.Grounding,
	})
	if err != nil {
		return nil, err
	}

	return &models.PipelineResponse{
		Rooms:       *rooms,
		Demand:      *demand,
		Circuits:    *circuits,
		VoltageDrop: *drop,
		Grounding:   *grounding,
		Status:      drop.Summary.Status.Worse(grounding.System.Status),
	}, nil
}

func nonNil(obs []string) []string {
	if obs == nil {
		return []string{}
	}
	return obs
}
