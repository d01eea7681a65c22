package calc

import (
	"fmt"
	"math"

	"elecdesign/internal/models"
	"elecdesign/internal/norms"
)

// DropParams are the limits and feeder inputs of voltage-drop analysis.
type DropParams struct {
	BranchLimitPct float64
	TotalLimitPct  float64
	WarningBandPct float64
	// DefaultLengthM replaces circuits with an unknown run length.
	DefaultLengthM float64
	FeederLengthM  float64
	FeederMaterial string
	// FeederCurrentA overrides the current derived from the circuits when positive.
	FeederCurrentA float64
}

// DropResult is the output of AnalyzeVoltageDrop.
type DropResult struct {
	Circuits     []models.CircuitDrop
	Feeder       models.FeederSpec
	Summary      models.VoltageDropSummary
	Observations []string
}

// DropVolts is the voltage drop across a run of lengthM metres.
func DropVolts(lengthM, current, ohmPerKm float64, phases int) float64 {
	return phaseFactor(phases) * (lengthM / 1000) * current * ohmPerKm
}

// DropPercent expresses a drop relative to the nominal voltage.
func DropPercent(dropV, voltage float64) float64 {
	return dropV / voltage * 100
}

// Classify rates a drop against its limit: ERROR above the limit, WARNING
// within band percentage points of it, OK otherwise.
func Classify(pct, limit, band float64) models.Status {
	switch {
	case pct > limit+eps:
		return models.StatusError
	case pct >= limit-band-eps:
		return models.StatusWarning
	default:
		return models.StatusOK
	}
}

// CriticalLength is the longest run, in metres, that keeps the drop within
// limitPct. It is zero when the run carries no current.
func CriticalLength(limitPct, voltage, current, ohmPerKm float64, phases int) float64 {
	if limitPct <= 0 || current <= 0 || ohmPerKm <= 0 {
		return 0
	}
	allowed := limitPct / 100 * voltage
	return allowed / (phaseFactor(phases) * current * ohmPerKm) * 1000
}

// AnalyzeVoltageDrop evaluates every branch circuit and sizes the feeder so
// that the worst branch plus the feeder stays within the total limit.
// Circuits are read, never modified.
func AnalyzeVoltageDrop(circuits []models.Circuit, sys models.SystemConfig, p DropParams, tables *norms.Tables) DropResult {
	var obs []string
	res := DropResult{Circuits: make([]models.CircuitDrop, 0, len(circuits))}
	overall := models.StatusOK

	var worstBranch, totalVA float64
	for _, c := range circuits {
		length := c.LengthM
		if length <= 0 {
			length = p.DefaultLengthM
			obs = append(obs, fmt.Sprintf("%s: run length unknown; %.0f m assumed", c.ID, length))
		}

		material := c.Conductor.Material
		if material == "" {
			material = p.FeederMaterial
		}
		ohm, note := branchResistance(material, c.Conductor.SectionMM2, tables)
		if note != "" {
			obs = append(obs, fmt.Sprintf("%s: %s", c.ID, note))
		}

		phases, voltage := branchSupply(sys, c.Breaker.Poles)
		dropV := DropVolts(length, c.CurrentA, ohm, phases)
		pct := DropPercent(dropV, voltage)
		status := Classify(pct, p.BranchLimitPct, p.WarningBandPct)
		if status == models.StatusError {
			res.Summary.OutOfLimitCircuits++
		}
		overall = overall.Worse(status)
		worstBranch = math.Max(worstBranch, pct)
		totalVA += c.VA

		res.Circuits = append(res.Circuits, models.CircuitDrop{
			CircuitID:        c.ID,
			CurrentA:         c.CurrentA,
			LengthM:          length,
			SectionMM2:       c.Conductor.SectionMM2,
			ResistivityOhmKm: ohm,
			DropV:            Round2(dropV),
			DropPct:          Round2(pct),
			CriticalLengthM:  Round2(CriticalLength(p.BranchLimitPct, voltage, c.CurrentA, ohm, phases)),
			Status:           status,
		})
	}

	current := LineCurrent(totalVA, sys.VoltageV, sys.Phases)
	if p.FeederCurrentA > 0 {
		current = p.FeederCurrentA
	}

	feeder, notes := sizeFeeder(current, worstBranch, sys, p, tables)
	feeder.TotalVA = Round2(totalVA)
	obs = append(obs, notes...)
	overall = overall.Worse(feeder.Status)

	res.Feeder = feeder
	res.Summary.WorstBranchDropPct = Round2(worstBranch)
	res.Summary.WorstTotalDropPct = Round2(worstBranch + feeder.DropPct)
	res.Summary.Status = overall
	res.Observations = obs
	return res
}

func branchResistance(material string, section float64, tables *norms.Tables) (float64, string) {
	row, exact, ok := tables.Resistance(material, section)
	if ok && exact {
		return row.OhmPerKm, ""
	}
	if ok {
		return row.OhmPerKm, fmt.Sprintf("no resistivity for %s %.2f mm²; %.2f mm² used", material, section, row.SectionMM2)
	}
	rows := tables.ResistivityFor(material)
	if len(rows) == 0 {
		return 0, fmt.Sprintf("no resistivity tabulated for %s; drop not computed", material)
	}
	last := rows[len(rows)-1]
	return last.OhmPerKm, fmt.Sprintf("%.2f mm² exceeds the %s resistivity table; %.2f mm² used", section, material, last.SectionMM2)
}

// sizeFeeder scans sections ascending and keeps the first one that carries the
// current and whose drop fits the budget left by the worst branch.
func sizeFeeder(current, worstBranch float64, sys models.SystemConfig, p DropParams, tables *norms.Tables) (models.FeederSpec, []string) {
	var obs []string
	budget := p.TotalLimitPct - worstBranch

	f := models.FeederSpec{
		CurrentA:       Round2(current),
		Material:       p.FeederMaterial,
		LengthM:        p.FeederLengthM,
		AllowedDropPct: Round2(math.Max(budget, 0)),
	}

	rows := tables.ResistivityFor(p.FeederMaterial)
	if len(rows) == 0 {
		f.Status = models.StatusError
		obs = append(obs, fmt.Sprintf("feeder: no resistivity tabulated for %s", p.FeederMaterial))
		return f, obs
	}

	var chosen *models.ResistivityRow
	var pct float64
	for i := range rows {
		r := &rows[i]
		amp, ok := tables.ConductorBySection(p.FeederMaterial, r.SectionMM2)
		if !ok || amp.AmpacityA+eps < current {
			continue
		}
		pct = DropPercent(DropVolts(p.FeederLengthM, current, r.OhmPerKm, sys.Phases), sys.VoltageV)
		if pct <= budget+eps {
			chosen = r
			break
		}
	}

	var status models.Status
	if chosen == nil {
		chosen = &rows[len(rows)-1]
		pct = DropPercent(DropVolts(p.FeederLengthM, current, chosen.OhmPerKm, sys.Phases), sys.VoltageV)
		status = models.StatusError
		obs = append(obs, fmt.Sprintf("feeder: no %s section keeps %.2f A within the %.2f%% budget; largest %.2f mm² applied"+approximate,
			p.FeederMaterial, current, math.Max(budget, 0), chosen.SectionMM2))
	} else {
		status = Classify(worstBranch+pct, p.TotalLimitPct, p.WarningBandPct)
	}

	f.SectionMM2 = chosen.SectionMM2
	f.ResistivityOhmKm = chosen.OhmPerKm
	if amp, ok := tables.ConductorBySection(p.FeederMaterial, chosen.SectionMM2); ok {
		f.Calibre = amp.Calibre
		f.AmpacityA = amp.AmpacityA
	}
	f.DropV = Round2(DropVolts(p.FeederLengthM, current, chosen.OhmPerKm, sys.Phases))
	f.DropPct = Round2(pct)
	f.CriticalLengthM = Round2(CriticalLength(budget, sys.VoltageV, current, chosen.OhmPerKm, sys.Phases))
	f.Status = status
	return f, obs
}
