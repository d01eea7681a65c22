package calc

import (
	"testing"

	"elecdesign/internal/models"
	"elecdesign/internal/norms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groundingParams(mainA int, class models.InstallationClass, sys models.GroundingSystemType) models.GroundingParams {
	return models.GroundingParams{MainBreakerA: mainA, InstallationClass: class, SystemType: sys}
}

func TestSizeGroundingResidentialTNS(t *testing.T) {
	res := SizeGrounding(groundingParams(100, models.InstallationResidential, models.GroundingTNS),
		models.SystemTotals{}, models.FeederSpec{}, norms.DefaultTables())

	assert.Equal(t, models.ConductorSpec{Calibre: "8 AWG", SectionMM2: 10, Material: norms.Copper}, res.EGC)
	assert.Equal(t, models.ConductorSpec{Calibre: "6 AWG", SectionMM2: 16, Material: norms.Copper}, res.GEC)

	s := res.System
	assert.Equal(t, 1, s.ElectrodeCount)
	assert.Equal(t, 0.0, s.SpacingM)
	assert.Equal(t, 25.0, s.MaxResistanceOhm)
	assert.Equal(t, models.GroundingStandard, s.Level)
	assert.Equal(t, models.StatusOK, s.Status)
	assert.Nil(t, s.EstimatedResistance)

	require.Len(t, res.Observations, 1)
	assert.Contains(t, res.Observations[0], "field measurement")
	assert.Contains(t, res.Summary, "Main breaker 100 A")
}

func TestSizeGroundingElectrodeLayouts(t *testing.T) {
	tables := norms.DefaultTables()

	tt := SizeGrounding(groundingParams(60, models.InstallationCommercial, models.GroundingTT), models.SystemTotals{}, models.FeederSpec{}, tables)
	assert.Equal(t, 2, tt.System.ElectrodeCount)
	assert.Equal(t, 3.0, tt.System.SpacingM)
	assert.Equal(t, 10.0, tt.System.MaxResistanceOhm)
	assert.Equal(t, models.GroundingStrict, tt.System.Level)

	it := SizeGrounding(groundingParams(60, models.InstallationCommercial, models.GroundingIT), models.SystemTotals{}, models.FeederSpec{}, tables)
	assert.Equal(t, 3, it.System.ElectrodeCount)
	assert.Equal(t, 6.0, it.System.SpacingM)
	assert.Contains(t, it.Observations[0], "IT systems are normally reserved")

	industrial := SizeGrounding(groundingParams(60, models.InstallationIndustrial, models.GroundingIT), models.SystemTotals{}, models.FeederSpec{}, tables)
	assert.Equal(t, 5.0, industrial.System.MaxResistanceOhm)
	assert.Equal(t, models.GroundingCritical, industrial.System.Level)
	for _, o := range industrial.Observations {
		assert.NotContains(t, o, "IT systems")
	}
}

func TestSizeGroundingBeyondTable(t *testing.T) {
	res := SizeGrounding(groundingParams(1000, models.InstallationResidential, models.GroundingTNS),
		models.SystemTotals{}, models.FeederSpec{}, norms.DefaultTables())

	assert.Equal(t, "1/0 AWG", res.EGC.Calibre)
	assert.Equal(t, "3/0 AWG", res.GEC.Calibre)
	assert.Contains(t, res.Observations[0], "exceeds the grounding table")
	assert.Equal(t, 5.0, res.System.MaxResistanceOhm)
	assert.Equal(t, models.GroundingCritical, res.System.Level)
}

func TestSizeGroundingBreakerTightensClass(t *testing.T) {
	res := SizeGrounding(groundingParams(300, models.InstallationResidential, models.GroundingTNCS),
		models.SystemTotals{}, models.FeederSpec{}, norms.DefaultTables())

	assert.Equal(t, 25.0, res.EGC.SectionMM2)
	assert.Equal(t, 10.0, res.System.MaxResistanceOhm)
	assert.Equal(t, models.GroundingStrict, res.System.Level)
}

func TestSizeGroundingCapsEGCAtFeeder(t *testing.T) {
	feeder := models.FeederSpec{SectionMM2: 8.37, Calibre: "8 AWG", Material: norms.Copper}
	res := SizeGrounding(groundingParams(100, models.InstallationResidential, models.GroundingTNS),
		models.SystemTotals{}, feeder, norms.DefaultTables())

	assert.Equal(t, 8.37, res.EGC.SectionMM2)
	assert.Equal(t, "8 AWG", res.EGC.Calibre)
	assert.Equal(t, 16.0, res.GEC.SectionMM2)
	assert.Contains(t, res.Observations[0], "capped at feeder section")
}

func TestSizeGroundingFeederMaterialMismatch(t *testing.T) {
	feeder := models.FeederSpec{SectionMM2: 53.5, Calibre: "1/0 AWG", Material: norms.Aluminum}
	res := SizeGrounding(groundingParams(100, models.InstallationResidential, models.GroundingTNS),
		models.SystemTotals{}, feeder, norms.DefaultTables())

	assert.Contains(t, res.Observations[0], "feeder is aluminum")
}

func TestSizeGroundingDerivesMainBreaker(t *testing.T) {
	res := SizeGrounding(groundingParams(0, models.InstallationResidential, models.GroundingTNS),
		models.SystemTotals{CurrentA: 12}, models.FeederSpec{CurrentA: 50}, norms.DefaultTables())

	assert.Contains(t, res.Observations[0], "80 A derived from 50.00 A")
	assert.Equal(t, "8 AWG", res.EGC.Calibre)

	fromTotals := SizeGrounding(groundingParams(0, models.InstallationResidential, models.GroundingTNS),
		models.SystemTotals{CurrentA: 12}, models.FeederSpec{}, norms.DefaultTables())
	assert.Contains(t, fromTotals.Observations[0], "15 A derived from 12.00 A")
}

func TestMainBreakerFor(t *testing.T) {
	tables := norms.DefaultTables()

	a, ok := MainBreakerFor(50, tables)
	assert.True(t, ok)
	assert.Equal(t, 80, a)

	a, ok = MainBreakerFor(1000, tables)
	assert.False(t, ok)
	assert.Equal(t, 200, a)
}

func TestSizeGroundingSoilEstimate(t *testing.T) {
	tables := norms.DefaultTables()

	p := groundingParams(100, models.InstallationResidential, models.GroundingTNS)
	p.SoilResistivityOhmM = 100
	res := SizeGrounding(p, models.SystemTotals{}, models.FeederSpec{}, tables)
	require.NotNil(t, res.System.EstimatedResistance)
	assert.Equal(t, 40.39, *res.System.EstimatedResistance)
	assert.Equal(t, models.StatusError, res.System.Status)
	assert.Contains(t, res.Summary, "estimated 40.39 Ω")

	p = groundingParams(100, models.InstallationResidential, models.GroundingTT)
	p.SoilResistivityOhmM = 50
	res = SizeGrounding(p, models.SystemTotals{}, models.FeederSpec{}, tables)
	assert.Equal(t, 11.71, *res.System.EstimatedResistance)
	assert.Equal(t, models.StatusOK, res.System.Status)
	assert.Empty(t, res.Observations)
}

func TestEstimateRodResistanceDecreasesWithRods(t *testing.T) {
	one := EstimateRodResistance(80, 1)
	two := EstimateRodResistance(80, 2)
	three := EstimateRodResistance(80, 3)
	assert.Greater(t, one, two)
	assert.Greater(t, two, three)
}
