package calc

import (
	"fmt"
	"math"
	"strings"

	"elecdesign/internal/models"
	"elecdesign/internal/norms"
)

// Electrode geometry used by the resistance estimate.
const (
	rodLengthM  = 2.4
	rodRadiusM  = 0.008
	rodType     = "copper-bonded rod 16 mm x 2.4 m"
	mainMarginA = 1.25
)

// parallelRodFactor corrects the ideal R/n of n rods for mutual coupling at a
// spacing close to the rod length.
var parallelRodFactor = map[int]float64{1: 1.0, 2: 1.16, 3: 1.29}

// GroundingResult is the output of SizeGrounding.
type GroundingResult struct {
	models.GroundingSpec
	Observations []string
}

type electrodeLayout struct {
	count   int
	spacing float64
}

var layouts = map[models.GroundingSystemType]electrodeLayout{
	models.GroundingTNS:  {count: 1},
	models.GroundingTNCS: {count: 1},
	models.GroundingTT:   {count: 2, spacing: 3.0},
	models.GroundingIT:   {count: 3, spacing: 6.0},
}

type resistanceTier struct {
	maxOhm float64
	level  string
	rank   int
}

var classTiers = map[models.InstallationClass]resistanceTier{
	models.InstallationResidential: {maxOhm: 25, level: models.GroundingStandard, rank: 0},
	models.InstallationCommercial:  {maxOhm: 10, level: models.GroundingStrict, rank: 1},
	models.InstallationIndustrial:  {maxOhm: 5, level: models.GroundingCritical, rank: 2},
}

// breakerTier tightens the class tier for large services.
func breakerTier(amp int) (resistanceTier, bool) {
	switch {
	case amp > 400:
		return resistanceTier{maxOhm: 5, level: models.GroundingCritical, rank: 2}, true
	case amp > 200:
		return resistanceTier{maxOhm: 10, level: models.GroundingStrict, rank: 1}, true
	}
	return resistanceTier{}, false
}

// MainBreakerFor derives a main breaker from the service current: the smallest
// tabulated rating covering current × 1.25. ok is false when none does and the
// largest rating is returned.
func MainBreakerFor(current float64, tables *norms.Tables) (int, bool) {
	if len(tables.Breakers) == 0 {
		return 0, false
	}
	need := current * mainMarginA
	for _, b := range tables.Breakers {
		if float64(b.AmperageA)+eps >= need {
			return b.AmperageA, true
		}
	}
	return tables.Breakers[len(tables.Breakers)-1].AmperageA, false
}

// EstimateRodResistance estimates the resistance of n parallel rods in soil of
// the given resistivity (Dwight's single-rod formula).
func EstimateRodResistance(soilOhmM float64, n int) float64 {
	single := soilOhmM / (2 * math.Pi * rodLengthM) * (math.Log(4*rodLengthM/rodRadiusM) - 1)
	if n <= 1 {
		return single
	}
	f, ok := parallelRodFactor[n]
	if !ok {
		f = parallelRodFactor[3]
	}
	return single / float64(n) * f
}

// SizeGrounding sizes the equipment and electrode grounding conductors and the
// electrode system. A zero main breaker is derived from the service current.
func SizeGrounding(p models.GroundingParams, totals models.SystemTotals, feeder models.FeederSpec, tables *norms.Tables) GroundingResult {
	var obs []string

	mainA := p.MainBreakerA
	if mainA == 0 {
		current := feeder.CurrentA
		if current == 0 {
			current = totals.CurrentA
		}
		var ok bool
		mainA, ok = MainBreakerFor(current, tables)
		obs = append(obs, fmt.Sprintf("main breaker not supplied; %d A derived from %.2f A service current", mainA, current))
		if !ok {
			obs = append(obs, "service current exceeds every tabulated breaker")
		}
	}

	rule, ok := tables.GroundingRule(mainA)
	if !ok {
		rule, _ = tables.LargestGroundingRule()
		obs = append(obs, fmt.Sprintf("main breaker %d A exceeds the grounding table; largest range (≤%d A) applied"+approximate, mainA, rule.MaxBreakerA))
	}

	egc := models.ConductorSpec{Calibre: rule.EGCCalibre, SectionMM2: rule.EGCSectionMM2, Material: rule.Material}
	gec := models.ConductorSpec{Calibre: rule.GECCalibre, SectionMM2: rule.GECSectionMM2, Material: rule.Material}

	// The EGC never needs to exceed the phase conductors it protects.
	if feeder.SectionMM2 > 0 && egc.SectionMM2 > feeder.SectionMM2 {
		obs = append(obs, fmt.Sprintf("EGC %.2f mm² capped at feeder section %.2f mm²", egc.SectionMM2, feeder.SectionMM2))
		egc.SectionMM2 = feeder.SectionMM2
		egc.Calibre = feeder.Calibre
	}
	if feeder.Material != "" && !strings.EqualFold(feeder.Material, rule.Material) {
		obs = append(obs, fmt.Sprintf("feeder is %s; grounding conductors sized in %s", feeder.Material, rule.Material))
	}

	layout := layouts[p.SystemType]
	if p.SystemType == models.GroundingIT && p.InstallationClass != models.InstallationIndustrial {
		obs = append(obs, fmt.Sprintf("IT systems are normally reserved for industrial installations, got %s", p.InstallationClass))
	}

	tier := classTiers[p.InstallationClass]
	if bt, ok := breakerTier(mainA); ok {
		if bt.maxOhm < tier.maxOhm {
			tier.maxOhm = bt.maxOhm
		}
		if bt.rank > tier.rank {
			tier.level, tier.rank = bt.level, bt.rank
		}
	}

	sys := models.ElectrodeSystem{
		Type:             p.SystemType,
		ElectrodeCount:   layout.count,
		ElectrodeType:    rodType,
		SpacingM:         layout.spacing,
		MaxResistanceOhm: tier.maxOhm,
		Level:            tier.level,
		Status:           models.StatusOK,
	}

	if p.SoilResistivityOhmM > 0 {
		est := Round2(EstimateRodResistance(p.SoilResistivityOhmM, layout.count))
		sys.EstimatedResistance = &est
		switch {
		case est > tier.maxOhm:
			sys.Status = models.StatusError
			obs = append(obs, fmt.Sprintf("estimated electrode resistance %.2f Ω exceeds %.0f Ω; add electrodes or treat the soil", est, tier.maxOhm))
		case est > 0.9*tier.maxOhm:
			sys.Status = models.StatusWarning
			obs = append(obs, fmt.Sprintf("estimated electrode resistance %.2f Ω is within 10%% of %.0f Ω", est, tier.maxOhm))
		}
	} else {
		obs = append(obs, "soil resistivity not supplied; electrode resistance must be verified by field measurement")
	}

	return GroundingResult{
		GroundingSpec: models.GroundingSpec{
			EGC:     egc,
			GEC:     gec,
			System:  sys,
			Summary: groundingSummary(mainA, egc, gec, sys),
		},
		Observations: obs,
	}
}

func groundingSummary(mainA int, egc, gec models.ConductorSpec, sys models.ElectrodeSystem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Main breaker %d A: EGC %g mm² (%s) %s, GEC %g mm² (%s) %s. ",
		mainA, egc.SectionMM2, egc.Calibre, egc.Material, gec.SectionMM2, gec.Calibre, gec.Material)
	fmt.Fprintf(&b, "%s system with %d electrode(s)", sys.Type, sys.ElectrodeCount)
	if sys.SpacingM > 0 {
		fmt.Fprintf(&b, " spaced %.1f m", sys.SpacingM)
	}
	fmt.Fprintf(&b, "; maximum resistance %g Ω [%s]", sys.MaxResistanceOhm, sys.Level)
	if sys.EstimatedResistance != nil {
		fmt.Fprintf(&b, ", estimated %.2f Ω", *sys.EstimatedResistance)
	}
	fmt.Fprintf(&b, ": %s.", sys.Status)
	return b.String()
}
