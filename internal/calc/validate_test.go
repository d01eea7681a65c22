package calc

import (
	"errors"
	"testing"

	"elecdesign/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePipelineCollectsEveryProblem(t *testing.T) {
	req := &models.PipelineRequest{
		System:       singlePhase,
		Surfaces:     []models.Surface{{Room: "Kitchen", AreaM2: 10}},
		Consumptions: []models.Consumption{{Name: "Oven", Room: "Garage", PowerW: 1800, Category: models.CategoryAppliance}},
		Grouping:     models.GroupingOptions{MaxUtilization: 2},
		Feeder:       models.FeederParams{LengthM: -5},
		Grounding:    models.GroundingParams{InstallationClass: models.InstallationResidential, SystemType: "TN-X"},
	}

	err := ValidatePipeline(req)
	require.ErrorIs(t, err, ErrInvalidInput)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Problems, 4)
	assert.ErrorContains(t, err, `unknown room "Garage"`)
	assert.ErrorContains(t, err, "max utilization must be within [0, 1]")
	assert.ErrorContains(t, err, "feeder length")
	assert.ErrorContains(t, err, "TN-X")
}

func TestValidatePipelineAcceptsDefaults(t *testing.T) {
	req := &models.PipelineRequest{
		System:    singlePhase,
		Surfaces:  []models.Surface{{Room: "Kitchen", AreaM2: 10}},
		Grounding: models.GroundingParams{InstallationClass: models.InstallationResidential, SystemType: models.GroundingTNS},
	}
	assert.NoError(t, ValidatePipeline(req))

	// zero utilization keeps the norm value
	assert.NoError(t, ValidateLoadItems(nil, singlePhase, models.GroupingOptions{}))
	assert.NoError(t, ValidateLoadItems(nil, singlePhase, models.GroupingOptions{MaxUtilization: 1}))
}
