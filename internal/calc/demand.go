package calc

import (
	"fmt"

	"elecdesign/internal/models"
	"elecdesign/internal/norms"
)

// DemandResult is the output of Diversify.
type DemandResult struct {
	Loads        []models.DiversifiedLoad
	Totals       models.DemandTotals
	Observations []string
}

// Diversify applies range-based demand factors per category. Duplicate
// categories are merged in first-seen order. A category without a matching
// range keeps factor 1.0 and carries a note.
func Diversify(loads []models.CategoryLoad, totals models.SystemTotals, tables *norms.Tables) DemandResult {
	merged, order := mergeCategories(loads)

	res := DemandResult{Loads: make([]models.DiversifiedLoad, 0, len(order))}
	if len(order) < len(loads) {
		res.Observations = append(res.Observations,
			fmt.Sprintf("%d duplicate category entries merged", len(loads)-len(order)))
	}

	var rawSum, divSum float64
	for _, cat := range order {
		raw := Round2(merged[cat])
		d := models.DiversifiedLoad{Category: cat, RawVA: raw}

		if row, ok := tables.DemandFactor(cat, raw); ok {
			d.DemandFactor = row.Factor
			d.DiversifiedVA = Round2(raw * row.Factor)
			d.FactorFound = true
			d.Range = &models.DemandRange{MinVA: row.MinVA, MaxVA: row.MaxVA, Factor: row.Factor}
		} else {
			d.DemandFactor = 1.0
			d.DiversifiedVA = raw
			d.Note = fmt.Sprintf("no demand factor defined for %s at %.2f VA; factor 1.0 applied"+approximate, cat, raw)
			res.Observations = append(res.Observations, d.Note)
		}

		rawSum += d.RawVA
		divSum += d.DiversifiedVA
		res.Loads = append(res.Loads, d)
	}

	rawSum = Round2(rawSum)
	divSum = Round2(divSum)
	savings := Round2(rawSum - divSum)
	var pct float64
	if rawSum != 0 {
		pct = Round2(savings / rawSum * 100)
	}

	phases := totals.Phases
	if phases == 0 {
		phases = 1
	}
	res.Totals = models.DemandTotals{
		RawVA:               rawSum,
		DiversifiedVA:       divSum,
		DiversifiedCurrentA: Round2(LineCurrent(divSum, totals.VoltageV, phases)),
		SavingsVA:           savings,
		SavingsPct:          pct,
	}
	return res
}

func mergeCategories(loads []models.CategoryLoad) (map[models.LoadCategory]float64, []models.LoadCategory) {
	merged := make(map[models.LoadCategory]float64, len(loads))
	var order []models.LoadCategory
	for _, l := range loads {
		if _, seen := merged[l.Category]; !seen {
			order = append(order, l.Category)
		}
		merged[l.Category] += l.RawVA
	}
	return merged, order
}

// ExpandLoadItems spreads each category's demand factor over the individual
// room loads, producing the item list circuit synthesis packs. Lighting gives
// one item per room; every consumption gives one item. Items keep their room
// tag and the room's panel distance.
func ExpandLoadItems(surfaces []models.Surface, consumptions []models.Consumption, diversified []models.DiversifiedLoad, p RoomParams) []models.LoadItem {
	factors := make(map[models.LoadCategory]float64, len(diversified))
	for _, d := range diversified {
		factors[d.Category] = d.DemandFactor
	}
	factor := func(cat models.LoadCategory) float64 {
		if f, ok := factors[cat]; ok {
			return f
		}
		return 1.0
	}

	byRoom := make(map[string][]models.Consumption, len(surfaces))
	for _, c := range consumptions {
		byRoom[c.Room] = append(byRoom[c.Room], c)
	}

	var items []models.LoadItem
	for _, s := range surfaces {
		if lighting := s.AreaM2 * p.LightingVAPerM2; lighting > 0 {
			items = append(items, models.LoadItem{
				Name:     "Lighting " + s.Room,
				Category: models.CategoryLighting,
				VA:       Round2(lighting * factor(models.CategoryLighting)),
				Room:     s.Room,
				LengthM:  s.PanelDistanceM,
			})
		}
		for _, c := range byRoom[s.Room] {
			apparent := c.PowerW / powerFactorOf(c, p.DefaultPowerFactor)
			items = append(items, models.LoadItem{
				Name:     c.Name,
				Category: c.Category,
				VA:       Round2(apparent * factor(c.Category)),
				Room:     s.Room,
				LengthM:  s.PanelDistanceM,
			})
		}
	}
	return items
}
