package calc

import (
	"math"
	"testing"

	"elecdesign/internal/models"
	"elecdesign/internal/norms"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var singleTotals = models.SystemTotals{VoltageV: 220, Phases: 1}

func TestDiversifyThreePhaseLineCurrent(t *testing.T) {
	totals := models.SystemTotals{VoltageV: 380, Phases: 3}
	res := Diversify([]models.CategoryLoad{{Category: models.CategoryAppliance, RawVA: 2000}}, totals, norms.DefaultTables())

	// 1700 VA over √3 × 380 V, not 1700 / 380
	assert.Equal(t, 2.58, res.Totals.DiversifiedCurrentA)
}

func TestDiversifyApplianceFactor(t *testing.T) {
	res := Diversify([]models.CategoryLoad{{Category: models.CategoryAppliance, RawVA: 2000}}, singleTotals, norms.DefaultTables())

	require.Len(t, res.Loads, 1)
	d := res.Loads[0]
	assert.True(t, d.FactorFound)
	assert.Equal(t, 0.85, d.DemandFactor)
	assert.Equal(t, 1700.0, d.DiversifiedVA)
	require.NotNil(t, d.Range)
	assert.Equal(t, 0.0, d.Range.MinVA)

	assert.Equal(t, 2000.0, res.Totals.RawVA)
	assert.Equal(t, 1700.0, res.Totals.DiversifiedVA)
	assert.Equal(t, 300.0, res.Totals.SavingsVA)
	assert.Equal(t, 15.0, res.Totals.SavingsPct)
	assert.Equal(t, 7.73, res.Totals.DiversifiedCurrentA)
	assert.Empty(t, res.Observations)
}

func TestDiversifyMissingFactorFallsBack(t *testing.T) {
	res := Diversify([]models.CategoryLoad{{Category: models.CategorySpecial, RawVA: 7400}}, singleTotals, norms.DefaultTables())

	d := res.Loads[0]
	assert.False(t, d.FactorFound)
	assert.Equal(t, 1.0, d.DemandFactor)
	assert.Equal(t, 7400.0, d.DiversifiedVA)
	assert.Nil(t, d.Range)
	assert.Contains(t, d.Note, "no demand factor defined")
	assert.Contains(t, d.Note, "approximation")
	assert.Equal(t, []string{d.Note}, res.Observations)
	assert.Equal(t, 0.0, res.Totals.SavingsPct)
}

func TestDiversifyRangeSelection(t *testing.T) {
	tables := norms.DefaultTables()
	cases := []struct {
		raw    float64
		factor float64
		want   float64
	}{
		{2500, 1.0, 2500},
		{3000, 1.0, 3000},
		{5000, 0.35, 1750},
		{200000, 0.25, 50000},
	}
	for _, tc := range cases {
		res := Diversify([]models.CategoryLoad{{Category: models.CategoryLighting, RawVA: tc.raw}}, singleTotals, tables)
		assert.Equal(t, tc.factor, res.Loads[0].DemandFactor, "raw %.0f", tc.raw)
		assert.Equal(t, tc.want, res.Loads[0].DiversifiedVA, "raw %.0f", tc.raw)
	}
}

func TestDiversifyNeverExceedsRaw(t *testing.T) {
	tables := norms.DefaultTables()
	for _, cat := range models.Categories {
		for _, raw := range []float64{0, 1, 999.99, 3000.01, 10000, 50000, 1e6} {
			res := Diversify([]models.CategoryLoad{{Category: cat, RawVA: raw}}, singleTotals, tables)
			d := res.Loads[0]
			if d.DemandFactor <= 1.0 {
				assert.LessOrEqual(t, d.DiversifiedVA, d.RawVA, "%s %.2f", cat, raw)
			}
			if !d.FactorFound {
				assert.Equal(t, d.RawVA, d.DiversifiedVA)
			}
		}
	}
}

func TestDiversifyEmptyAndZero(t *testing.T) {
	res := Diversify(nil, singleTotals, norms.DefaultTables())
	assert.Empty(t, res.Loads)
	assert.Equal(t, models.DemandTotals{}, res.Totals)

	res = Diversify([]models.CategoryLoad{{Category: models.CategoryHVAC, RawVA: 0}}, singleTotals, norms.DefaultTables())
	assert.Equal(t, 0.0, res.Totals.SavingsPct)
}

func TestDiversifyMergesDuplicates(t *testing.T) {
	loads := []models.CategoryLoad{
		{Category: models.CategoryAppliance, RawVA: 1000},
		{Category: models.CategoryHVAC, RawVA: 500},
		{Category: models.CategoryAppliance, RawVA: 1000},
	}
	res := Diversify(loads, singleTotals, norms.DefaultTables())

	require.Len(t, res.Loads, 2)
	assert.Equal(t, models.CategoryAppliance, res.Loads[0].Category)
	assert.Equal(t, 2000.0, res.Loads[0].RawVA)
	assert.Contains(t, res.Observations[0], "1 duplicate")
}

func TestDiversifyZeroVoltageYieldsInfinity(t *testing.T) {
	res := Diversify([]models.CategoryLoad{{Category: models.CategoryHVAC, RawVA: 1000}}, models.SystemTotals{Phases: 1}, norms.DefaultTables())
	assert.True(t, math.IsInf(res.Totals.DiversifiedCurrentA, 1))
}

func TestExpandLoadItems(t *testing.T) {
	surfaces := []models.Surface{{Room: "Kitchen", AreaM2: 10, PanelDistanceM: 12}}
	loads := []models.Consumption{
		{Name: "Oven", Room: "Kitchen", PowerW: 1800, PowerFactor: pf(1), Category: models.CategoryAppliance},
		{Name: "Charger", Room: "Kitchen", PowerW: 900, Category: models.CategorySpecial},
	}
	diversified := []models.DiversifiedLoad{
		{Category: models.CategoryLighting, DemandFactor: 1.0},
		{Category: models.CategoryAppliance, DemandFactor: 0.85},
	}

	items := ExpandLoadItems(surfaces, loads, diversified, roomParams)
	require.Len(t, items, 3)

	assert.Equal(t, models.LoadItem{Name: "Lighting Kitchen", Category: models.CategoryLighting, VA: 323, Room: "Kitchen", LengthM: 12}, items[0])
	assert.Equal(t, 1530.0, items[1].VA)
	// special has no diversified entry and keeps its full load
	assert.Equal(t, 1000.0, items[2].VA)
}
