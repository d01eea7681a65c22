package services

import (
	"context"
	"testing"
	"time"

	"elecdesign/internal/calc"
	"elecdesign/internal/metrics"
	"elecdesign/internal/models"
	"elecdesign/internal/norms"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServices(t *testing.T) (*DesignService, *NormsService, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	rec := metrics.New(reg)
	normsSvc, err := NewStaticNormsService("", "test", zap.NewNop(), rec)
	require.NoError(t, err)
	design := NewDesignService(normsSvc, zap.NewNop(), rec)
	design.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return design, normsSvc, reg
}

func unity() *float64 {
	v := 1.0
	return &v
}

func houseRequest() *models.PipelineRequest {
	return &models.PipelineRequest{
		System: models.SystemConfig{VoltageV: 220, Phases: 1, FrequencyHz: 60},
		Surfaces: []models.Surface{
			{Room: "Kitchen", AreaM2: 10, PanelDistanceM: 12},
			{Room: "Bedroom", AreaM2: 12, PanelDistanceM: 18},
			{Room: "Hall", AreaM2: 6},
		},
		Consumptions: []models.Consumption{
			{Name: "Fridge", Room: "Kitchen", PowerW: 900, Category: models.CategoryAppliance},
			{Name: "Oven", Room: "Kitchen", PowerW: 1800, PowerFactor: unity(), Category: models.CategoryAppliance},
			{Name: "Outlets", Room: "Bedroom", PowerW: 1080, Category: models.CategoryGeneralOutlet},
			{Name: "AC", Room: "Bedroom", PowerW: 1800, Category: models.CategoryHVAC},
		},
		Grouping: models.GroupingOptions{SeparateByRoom: true},
		Feeder:   models.FeederParams{LengthM: 20},
		Grounding: models.GroundingParams{
			InstallationClass: models.InstallationResidential,
			SystemType:        models.GroundingTNS,
		},
	}
}

func TestRunPipeline(t *testing.T) {
	design, _, reg := newTestServices(t)
	req := houseRequest()

	resp, err := design.RunPipeline(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, resp.Rooms.Rooms, 3)
	assert.Equal(t, "Kitchen", resp.Rooms.Rooms[0].Room)
	assert.Equal(t, []models.LoadCategory{
		models.CategoryLighting, models.CategoryGeneralOutlet, models.CategoryAppliance, models.CategoryHVAC,
	}, categories(resp.Demand.Loads))
	assert.LessOrEqual(t, resp.Demand.Totals.DiversifiedVA, resp.Demand.Totals.RawVA)

	require.NotEmpty(t, resp.Circuits.Circuits)
	for _, c := range resp.Circuits.Circuits {
		assert.NotZero(t, c.Breaker.AmperageA, c.ID)
		assert.NotEmpty(t, c.Conductor.Calibre, c.ID)
	}
	assert.Len(t, resp.VoltageDrop.Circuits, len(resp.Circuits.Circuits))

	// the hall has no panel distance, so its lighting circuit runs at the default length
	assert.Contains(t, resp.VoltageDrop.Observations, "C-06: run length unknown; 15 m assumed")
	assert.Contains(t, resp.Grounding.Observations[0], "main breaker not supplied")
	assert.Positive(t, resp.VoltageDrop.Feeder.SectionMM2)
	assert.NotEmpty(t, resp.Status)

	ids := map[string]bool{}
	for _, md := range []models.Metadata{resp.Rooms.Metadata, resp.Demand.Metadata, resp.Circuits.Metadata, resp.VoltageDrop.Metadata, resp.Grounding.Metadata} {
		assert.Equal(t, "test", md.RuleSetVersion)
		assert.Equal(t, "2025-03-01T12:00:00Z", md.CalculatedAt)
		ids[md.CalculationID] = true
	}
	assert.Len(t, ids, 5)

	assert.Equal(t, houseRequest(), req, "request must not be modified")
	runs, err := testutil.GatherAndCount(reg, "elecdesign_stage_runs_total")
	require.NoError(t, err)
	assert.Equal(t, 6, runs)
}

func TestRunPipelineIsDeterministic(t *testing.T) {
	design, _, _ := newTestServices(t)

	first, err := design.RunPipeline(context.Background(), houseRequest())
	require.NoError(t, err)
	second, err := design.RunPipeline(context.Background(), houseRequest())
	require.NoError(t, err)

	assert.Equal(t, first.Circuits.Circuits, second.Circuits.Circuits)
	assert.Equal(t, first.VoltageDrop.Feeder, second.VoltageDrop.Feeder)
	assert.Equal(t, first.Grounding.EGC, second.Grounding.EGC)
}

func TestRunPipelineRejectsInvalidInput(t *testing.T) {
	design, _, _ := newTestServices(t)

	req := houseRequest()
	req.Consumptions[0].Room = "Garage"
	_, err := design.RunPipeline(context.Background(), req)
	assert.ErrorIs(t, err, calc.ErrInvalidInput)

	req = houseRequest()
	req.Grounding.SystemType = "TN-X"
	_, err = design.RunPipeline(context.Background(), req)
	assert.ErrorIs(t, err, calc.ErrInvalidInput)
	assert.ErrorContains(t, err, "TN-X")
}

func TestRunPipelineValidatesBeforeAnyStage(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.PipelineRequest)
		want   string
	}{
		{"negative feeder length", func(r *models.PipelineRequest) { r.Feeder.LengthM = -5 }, "feeder length must not be negative"},
		{"utilization above one", func(r *models.PipelineRequest) { r.Grouping.MaxUtilization = 1.5 }, "max utilization"},
		{"negative soil resistivity", func(r *models.PipelineRequest) { r.Grounding.SoilResistivityOhmM = -1 }, "soil resistivity"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			design, _, reg := newTestServices(t)
			req := houseRequest()
			tc.mutate(req)

			_, err := design.RunPipeline(context.Background(), req)
			assert.ErrorIs(t, err, calc.ErrInvalidInput)
			assert.ErrorContains(t, err, tc.want)
			assert.Equal(t, []string{StagePipeline}, stagesRecorded(t, reg))
		})
	}
}

func TestSynthesizeCircuitsOptions(t *testing.T) {
	design, _, _ := newTestServices(t)
	loads := []models.LoadItem{
		{Name: "a", Category: models.CategoryGeneralOutlet, VA: 1100},
		{Name: "b", Category: models.CategoryGeneralOutlet, VA: 1100},
		{Name: "c", Category: models.CategoryGeneralOutlet, VA: 1100},
	}
	sys := models.SystemConfig{VoltageV: 220, Phases: 1}

	resp, err := design.SynthesizeCircuits(context.Background(), &models.CircuitsRequest{Loads: loads, System: sys})
	require.NoError(t, err)
	assert.Len(t, resp.Circuits, 1)
	assert.Equal(t, norms.Copper, resp.Circuits[0].Conductor.Material)
	assert.NotNil(t, resp.Observations)

	resp, err = design.SynthesizeCircuits(context.Background(), &models.CircuitsRequest{
		Loads:   loads,
		System:  sys,
		Options: models.GroupingOptions{MaxUtilization: 0.5, ConductorMaterial: norms.Aluminum},
	})
	require.NoError(t, err)
	for _, c := range resp.Circuits {
		assert.LessOrEqual(t, c.CurrentA/float64(c.Breaker.AmperageA), 0.5)
		assert.Equal(t, norms.Aluminum, c.Conductor.Material)
	}

	_, err = design.SynthesizeCircuits(context.Background(), &models.CircuitsRequest{
		Loads: loads, System: sys, Options: models.GroupingOptions{MaxUtilization: 1.5},
	})
	assert.ErrorIs(t, err, calc.ErrInvalidInput)
}

func TestAnalyzeVoltageDropLimitOverrides(t *testing.T) {
	design, _, _ := newTestServices(t)
	circuits := []models.Circuit{{
		ID: "C-01", VA: 2200, CurrentA: 10, LengthM: 20,
		Conductor: models.ConductorSpec{Material: norms.Copper, SectionMM2: 5.26},
	}}
	sys := models.SystemConfig{VoltageV: 220, Phases: 1}

	resp, err := design.AnalyzeVoltageDrop(context.Background(), &models.VoltageDropRequest{
		Circuits: circuits, System: sys, Feeder: models.FeederParams{LengthM: 30},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusOK, resp.Circuits[0].Status)

	resp, err = design.AnalyzeVoltageDrop(context.Background(), &models.VoltageDropRequest{
		Circuits: circuits, System: sys, Feeder: models.FeederParams{LengthM: 30, BranchLimitPct: 0.5},
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusError, resp.Circuits[0].Status)
}

func TestNormsUnavailable(t *testing.T) {
	normsSvc := NewNormsService(norms.NewProvider(norms.StaticSource{}, "empty"), norms.DefaultTables(), nil, zap.NewNop(), nil)
	design := NewDesignService(normsSvc, zap.NewNop(), nil)

	_, err := design.RunPipeline(context.Background(), houseRequest())
	assert.ErrorIs(t, err, ErrNormsUnavailable)
	assert.ErrorIs(t, err, norms.ErrNotFound)
}

func stagesRecorded(t *testing.T, reg *prometheus.Registry) []string {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)

	var stages []string
	for _, mf := range families {
		if mf.GetName() != "elecdesign_stage_runs_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "stage" {
					stages = append(stages, lp.GetValue())
				}
			}
		}
	}
	return stages
}

func categories(loads []models.DiversifiedLoad) []models.LoadCategory {
	out := make([]models.LoadCategory, len(loads))
	for i, l := range loads {
		out[i] = l.Category
	}
	return out
}
