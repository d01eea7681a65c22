package norms

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"elecdesign/internal/models"
)

// Tables holds the ordered reference tables of a rule set. Call Normalize after
// building one by hand; lookups assume sorted rows.
type Tables struct {
	DemandFactors []models.DemandFactorRow `json:"demand_factors" yaml:"demand_factors"`
	Ampacity      []models.AmpacityRow     `json:"ampacity" yaml:"ampacity"`
	Breakers      []models.BreakerRow      `json:"breakers" yaml:"breakers"`
	Resistivity   []models.ResistivityRow  `json:"resistivity" yaml:"resistivity"`
	Grounding     []models.GroundingRow    `json:"grounding" yaml:"grounding"`
}

// Find returns the first row satisfying pred.
func Find[T any](rows []T, pred func(T) bool) (T, bool) {
	for _, r := range rows {
		if pred(r) {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// Normalize sorts every table into lookup order.
func (t *Tables) Normalize() {
	sort.SliceStable(t.DemandFactors, func(i, j int) bool {
		a, b := t.DemandFactors[i], t.DemandFactors[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.MinVA < b.MinVA
	})
	sort.SliceStable(t.Ampacity, func(i, j int) bool {
		a, b := t.Ampacity[i], t.Ampacity[j]
		if a.Material != b.Material {
			return a.Material < b.Material
		}
		if a.AmpacityA != b.AmpacityA {
			return a.AmpacityA < b.AmpacityA
		}
		return a.SectionMM2 < b.SectionMM2
	})
	sort.SliceStable(t.Breakers, func(i, j int) bool {
		a, b := t.Breakers[i], t.Breakers[j]
		if a.AmperageA != b.AmperageA {
			return a.AmperageA < b.AmperageA
		}
		return a.Poles < b.Poles
	})
	sort.SliceStable(t.Resistivity, func(i, j int) bool {
		a, b := t.Resistivity[i], t.Resistivity[j]
		if a.Material != b.Material {
			return a.Material < b.Material
		}
		return a.SectionMM2 < b.SectionMM2
	})
	sort.SliceStable(t.Grounding, func(i, j int) bool {
		return t.Grounding[i].MaxBreakerA < t.Grounding[j].MaxBreakerA
	})
}

// Validate rejects tables a calculation cannot run against.
func (t *Tables) Validate() error {
	var errs []error
	if len(t.Ampacity) == 0 {
		errs = append(errs, errors.New("ampacity table is empty"))
	}
	if len(t.Breakers) == 0 {
		errs = append(errs, errors.New("breaker table is empty"))
	}
	if len(t.Resistivity) == 0 {
		errs = append(errs, errors.New("resistivity table is empty"))
	}
	if len(t.Grounding) == 0 {
		errs = append(errs, errors.New("grounding table is empty"))
	}
	for _, r := range t.DemandFactors {
		if r.Factor <= 0 {
			errs = append(errs, fmt.Errorf("demand factor for %s at %.0f VA must be positive", r.Category, r.MinVA))
		}
		if r.MaxVA != nil && *r.MaxVA < r.MinVA {
			errs = append(errs, fmt.Errorf("demand range for %s has max below min", r.Category))
		}
	}
	for _, r := range t.Resistivity {
		if r.OhmPerKm <= 0 || r.SectionMM2 <= 0 {
			errs = append(errs, fmt.Errorf("resistivity row %s %.2f mm² is invalid", r.Material, r.SectionMM2))
		}
	}
	return errors.Join(errs...)
}

// DemandFactor returns the row of category whose range contains va.
func (t *Tables) DemandFactor(category models.LoadCategory, va float64) (models.DemandFactorRow, bool) {
	return Find(t.DemandFactors, func(r models.DemandFactorRow) bool {
		return r.Category == category && r.Contains(va)
	})
}

// Conductors returns the ampacity rows of material, ascending by ampacity.
func (t *Tables) Conductors(material string) []models.AmpacityRow {
	var out []models.AmpacityRow
	for _, r := range t.Ampacity {
		if strings.EqualFold(r.Material, material) {
			out = append(out, r)
		}
	}
	return out
}

// ConductorBySection returns the ampacity row of material with the given section.
func (t *Tables) ConductorBySection(material string, section float64) (models.AmpacityRow, bool) {
	return Find(t.Ampacity, func(r models.AmpacityRow) bool {
		return strings.EqualFold(r.Material, material) && r.SectionMM2 == section
	})
}

// BreakersUpTo returns breakers with at most maxPoles poles, ascending by rating.
func (t *Tables) BreakersUpTo(maxPoles int) []models.BreakerRow {
	var out []models.BreakerRow
	for _, r := range t.Breakers {
		if r.Poles <= maxPoles {
			out = append(out, r)
		}
	}
	return out
}

// ResistivityFor returns the rows of material ascending by section.
func (t *Tables) ResistivityFor(material string) []models.ResistivityRow {
	var out []models.ResistivityRow
	for _, r := range t.Resistivity {
		if strings.EqualFold(r.Material, material) {
			out = append(out, r)
		}
	}
	return out
}

// Resistance returns the row for section, or the next larger section when the
// exact one is not tabulated. exact is false in the second case.
func (t *Tables) Resistance(material string, section float64) (row models.ResistivityRow, exact, ok bool) {
	rows := t.ResistivityFor(material)
	i := sort.Search(len(rows), func(i int) bool { return rows[i].SectionMM2 >= section })
	if i == len(rows) {
		return models.ResistivityRow{}, false, false
	}
	return rows[i], rows[i].SectionMM2 == section, true
}

// GroundingRule returns the first range whose upper bound covers breakerA.
func (t *Tables) GroundingRule(breakerA int) (models.GroundingRow, bool) {
	i := sort.Search(len(t.Grounding), func(i int) bool { return t.Grounding[i].MaxBreakerA >= breakerA })
	if i == len(t.Grounding) {
		return models.GroundingRow{}, false
	}
	return t.Grounding[i], true
}

// LargestGroundingRule returns the last grounding range.
func (t *Tables) LargestGroundingRule() (models.GroundingRow, bool) {
	if len(t.Grounding) == 0 {
		return models.GroundingRow{}, false
	}
	return t.Grounding[len(t.Grounding)-1], true
}
