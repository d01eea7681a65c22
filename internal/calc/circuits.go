package calc

import (
	"fmt"
	"math"

	"elecdesign/internal/models"
	"elecdesign/internal/norms"
)

// StandardBreakerSteps are the ratings used to estimate a breaker while packing.
var StandardBreakerSteps = []int{15, 20, 25, 30, 40, 50, 60, 80, 100}

// utilizationWarningPct flags circuits loaded close to their breaker.
const utilizationWarningPct = 80.0

// CircuitParams are the normative constants and options of circuit synthesis.
type CircuitParams struct {
	MaxUtilization    float64
	ContinuousFactor  float64
	Material          string
	SeparateByRoom    bool
	PreferSinglePhase bool
}

// CircuitResult is the output of SynthesizeCircuits.
type CircuitResult struct {
	Circuits     []models.Circuit
	Summary      models.CircuitSummary
	Observations []string
}

// EstimateBreaker returns the first standard step whose loading ceiling holds
// current, or the largest step.
func EstimateBreaker(current, maxUtilization float64) int {
	for _, rating := range StandardBreakerSteps {
		if current <= float64(rating)*maxUtilization+eps {
			return rating
		}
	}
	return StandardBreakerSteps[len(StandardBreakerSteps)-1]
}

// pendingCircuit is a group of loads that has no breaker or conductor yet.
// It never leaves this package; assign turns it into a models.Circuit.
type pendingCircuit struct {
	category models.LoadCategory
	room     string
	loads    []models.LoadItem
	va       float64
	current  float64
}

func (c *pendingCircuit) fits(current, maxUtilization float64) bool {
	if len(c.loads) == 0 {
		return true
	}
	combined := c.current + current
	return combined <= float64(EstimateBreaker(combined, maxUtilization))*maxUtilization+eps
}

func (c *pendingCircuit) add(item models.LoadItem, current float64) {
	c.loads = append(c.loads, item)
	c.va += item.VA
	c.current += current
}

type groupKey struct {
	category models.LoadCategory
	room     string
}

// SynthesizeCircuits groups loads into branch circuits and assigns a breaker
// and conductor to each.
func SynthesizeCircuits(loads []models.LoadItem, sys models.SystemConfig, p CircuitParams, tables *norms.Tables) CircuitResult {
	var obs []string
	poles := sys.Phases
	if p.PreferSinglePhase {
		poles = 1
	}
	phases, voltage := branchSupply(sys, poles)
	ceiling := float64(StandardBreakerSteps[len(StandardBreakerSteps)-1]) * p.MaxUtilization

	// group in first-seen order
	var keys []groupKey
	groups := make(map[groupKey][]models.LoadItem)
	for _, item := range loads {
		k := groupKey{category: item.Category}
		if p.SeparateByRoom {
			k.room = item.Room
		}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], item)
	}

	var pending []*pendingCircuit
	for _, k := range keys {
		open := &pendingCircuit{category: k.category, room: k.room}
		for _, item := range groups[k] {
			current := LineCurrent(item.VA, voltage, phases)
			if current > ceiling+eps {
				obs = append(obs, fmt.Sprintf("load %q draws %.2f A, above the %.0f A packing ceiling; placed on a dedicated circuit", item.Name, current, ceiling))
			}
			if !open.fits(current, p.MaxUtilization) {
				pending = append(pending, open)
				open = &pendingCircuit{category: k.category, room: k.room}
			}
			open.add(item, current)
		}
		if len(open.loads) > 0 {
			pending = append(pending, open)
		}
	}

	res := CircuitResult{Circuits: make([]models.Circuit, 0, len(pending))}
	perCategory := make(map[models.LoadCategory]int)
	for i, pc := range pending {
		perCategory[pc.category]++
		c, notes := assign(pc, i+1, perCategory[pc.category], phases, p, tables)
		obs = append(obs, notes...)
		res.Circuits = append(res.Circuits, c)
	}

	res.Summary = summarize(res.Circuits)
	res.Observations = obs
	return res
}

func assign(pc *pendingCircuit, seq, nth, phases int, p CircuitParams, tables *norms.Tables) (models.Circuit, []string) {
	var obs []string
	id := fmt.Sprintf("C-%02d", seq)

	name := fmt.Sprintf("%s %d", pc.category.Label(), nth)
	if pc.room != "" {
		name = fmt.Sprintf("%s (%s) %d", pc.category.Label(), pc.room, nth)
	}

	breaker, ok := selectBreaker(pc.current, phases, p, tables)
	if !ok {
		obs = append(obs, fmt.Sprintf("%s: no breaker rated for %.2f A at %.0f%% utilization; largest available %d A applied"+approximate,
			id, pc.current, p.MaxUtilization*100, breaker.AmperageA))
	}

	factor := 1.0
	if pc.category.Continuous() {
		factor = p.ContinuousFactor
	}
	design := pc.current * factor

	conductor, ok, note := selectConductor(design, p.Material, tables)
	if note != "" {
		obs = append(obs, fmt.Sprintf("%s: %s", id, note))
	}
	if !ok {
		obs = append(obs, fmt.Sprintf("%s: no conductor carries %.2f A; largest available %s (%.0f A) applied"+approximate,
			id, design, conductor.Calibre, conductor.AmpacityA))
	}

	var util float64
	if breaker.AmperageA > 0 {
		util = Round2(pc.current / float64(breaker.AmperageA) * 100)
	}

	var warnings []string
	if util > utilizationWarningPct {
		warnings = append(warnings, fmt.Sprintf("utilization %.2f%% exceeds %.0f%%", util, utilizationWarningPct))
	}
	if !ok {
		warnings = append(warnings, "conductor undersized for design current")
	}

	var length float64
	for _, l := range pc.loads {
		length = math.Max(length, l.LengthM)
	}

	members := make([]models.LoadItem, len(pc.loads))
	copy(members, pc.loads)

	return models.Circuit{
		ID:              id,
		Name:            name,
		Category:        pc.category,
		Room:            pc.room,
		Loads:           members,
		VA:              Round2(pc.va),
		CurrentA:        Round2(pc.current),
		DesignCurrentA:  Round2(design),
		Breaker:         breaker,
		Conductor:       conductor,
		UtilizationPct:  util,
		SafetyMarginPct: int(math.Round(factor * 100)),
		LengthM:         length,
		Warnings:        warnings,
	}, obs
}

// selectBreaker picks the smallest breaker with at most phases poles rated for
// current at the utilization ceiling. Among equal ratings it prefers the pole
// count equal to phases. ok is false when the largest breaker had to be used.
func selectBreaker(current float64, phases int, p CircuitParams, tables *norms.Tables) (models.BreakerSpec, bool) {
	candidates := tables.BreakersUpTo(phases)
	if len(candidates) == 0 {
		candidates = tables.Breakers
	}
	if len(candidates) == 0 {
		return models.BreakerSpec{}, false
	}

	required := current / p.MaxUtilization
	rating := -1
	for _, b := range candidates {
		if float64(b.AmperageA)+eps >= required {
			rating = b.AmperageA
			break
		}
	}
	ok := rating >= 0
	if !ok {
		rating = candidates[len(candidates)-1].AmperageA
	}

	wantPoles := phases
	var best models.BreakerSpec
	bestDist := math.MaxInt
	for _, b := range candidates {
		if b.AmperageA != rating {
			continue
		}
		d := b.Poles - wantPoles
		if d < 0 {
			d = -d
		}
		if d < bestDist {
			bestDist = d
			best = models.BreakerSpec{AmperageA: b.AmperageA, Poles: b.Poles, Curve: b.Curve}
		}
	}
	return best, ok
}

// selectConductor picks the smallest conductor of material whose ampacity
// covers design. ok is false when the largest conductor had to be used; note
// reports a material substitution.
func selectConductor(design float64, material string, tables *norms.Tables) (spec models.ConductorSpec, ok bool, note string) {
	rows := tables.Conductors(material)
	if len(rows) == 0 && material != norms.Copper {
		note = fmt.Sprintf("no %s conductors tabulated; copper used", material)
		rows = tables.Conductors(norms.Copper)
	}
	if len(rows) == 0 {
		return models.ConductorSpec{}, false, note
	}

	row := rows[len(rows)-1]
	for _, r := range rows {
		if r.AmpacityA+eps >= design {
			row = r
			ok = true
			break
		}
	}
	return models.ConductorSpec{
		Calibre:    row.Calibre,
		SectionMM2: row.SectionMM2,
		Material:   row.Material,
		Insulation: row.Insulation,
		AmpacityA:  row.AmpacityA,
	}, ok, note
}

func summarize(circuits []models.Circuit) models.CircuitSummary {
	s := models.CircuitSummary{CircuitCount: len(circuits)}
	if len(circuits) == 0 {
		return s
	}

	var va, current, util float64
	var minC, maxC *models.ConductorSpec
	for i := range circuits {
		c := &circuits[i]
		va += c.VA
		current += c.CurrentA
		util += c.UtilizationPct
		if c.Breaker.Poles > 1 {
			s.MultiPhaseCircuits++
		} else {
			s.SinglePhaseCircuits++
		}
		if minC == nil || c.Conductor.SectionMM2 < minC.SectionMM2 {
			minC = &c.Conductor
		}
		if maxC == nil || c.Conductor.SectionMM2 > maxC.SectionMM2 {
			maxC = &c.Conductor
		}
	}

	s.TotalVA = Round2(va)
	s.TotalCurrentA = Round2(current)
	s.AverageUtilizationPct = Round2(util / float64(len(circuits)))
	s.MinCalibre = minC.Calibre
	s.MaxCalibre = maxC.Calibre
	return s
}
