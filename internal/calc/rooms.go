package calc

import (
	"fmt"
	"math"

	"elecdesign/internal/models"
)

// RoomParams are the normative constants of room aggregation.
type RoomParams struct {
	LightingVAPerM2    float64
	DefaultPowerFactor float64
}

// RoomsResult is the output of AggregateRooms.
type RoomsResult struct {
	Rooms         []models.RoomResult
	CategoryLoads []models.CategoryLoad
	Totals        models.SystemTotals
}

func powerFactorOf(c models.Consumption, fallback float64) float64 {
	if c.PowerFactor != nil {
		return *c.PowerFactor
	}
	return fallback
}

// AggregateRooms computes the connected load of every surface, in input order.
func AggregateRooms(sys models.SystemConfig, surfaces []models.Surface, consumptions []models.Consumption, p RoomParams) (RoomsResult, error) {
	if err := ValidateRooms(sys, surfaces, consumptions); err != nil {
		return RoomsResult{}, err
	}

	byRoom := make(map[string][]models.Consumption, len(surfaces))
	for _, c := range consumptions {
		byRoom[c.Room] = append(byRoom[c.Room], c)
	}

	rooms := make([]models.RoomResult, 0, len(surfaces))
	var total float64
	for _, s := range surfaces {
		r := aggregateRoom(s, byRoom[s.Room], p)
		total += r.LoadVA
		rooms = append(rooms, r)
	}

	total = Round2(total)
	return RoomsResult{
		Rooms:         rooms,
		CategoryLoads: CategoryTotals(rooms),
		Totals: models.SystemTotals{
			TotalVA:  total,
			CurrentA: Round2(LineCurrent(total, sys.VoltageV, sys.Phases)),
			VoltageV: sys.VoltageV,
			Phases:   sys.Phases,
		},
	}, nil
}

func aggregateRoom(s models.Surface, loads []models.Consumption, p RoomParams) models.RoomResult {
	lighting := s.AreaM2 * p.LightingVAPerM2

	va := lighting
	watts := lighting
	var reactive float64
	categories := map[models.LoadCategory]float64{models.CategoryLighting: lighting}

	defaulted := 0
	for _, c := range loads {
		if c.PowerFactor == nil {
			defaulted++
		}
		cpf := powerFactorOf(c, p.DefaultPowerFactor)
		apparent := c.PowerW / cpf
		va += apparent
		watts += c.PowerW
		reactive += apparent * math.Sin(math.Acos(cpf))
		categories[c.Category] += apparent
	}

	var notes []string
	pf := 1.0
	if len(loads) == 0 {
		notes = append(notes, "no point loads; lighting allowance only")
	} else if va > 0 {
		raw := watts / va
		pf = clamp(raw, 0.1, 1.0)
		if pf != raw {
			notes = append(notes, fmt.Sprintf("effective power factor %.3f clamped to %.2f", raw, pf))
		}
	}
	if defaulted > 0 {
		notes = append(notes, fmt.Sprintf("default power factor %.2f applied to %d load(s)", p.DefaultPowerFactor, defaulted))
	}

	for k, v := range categories {
		categories[k] = Round2(v)
	}

	return models.RoomResult{
		Room:        s.Room,
		AreaM2:      s.AreaM2,
		LightingVA:  Round2(lighting),
		LoadVA:      Round2(va),
		RealPowerW:  Round2(watts),
		ReactiveVAR: Round2(reactive),
		PowerFactor: Round2(pf),
		CategoryVA:  categories,
		Notes:       notes,
	}
}

// CategoryTotals sums room category loads in canonical category order.
// Categories absent from every room are omitted.
func CategoryTotals(rooms []models.RoomResult) []models.CategoryLoad {
	sums := make(map[models.LoadCategory]float64)
	for _, r := range rooms {
		for cat, v := range r.CategoryVA {
			sums[cat] += v
		}
	}

	out := make([]models.CategoryLoad, 0, len(sums))
	for _, cat := range models.Categories {
		v, ok := sums[cat]
		if !ok {
			continue
		}
		out = append(out, models.CategoryLoad{Category: cat, RawVA: Round2(v)})
	}
	return out
}
