package models

import (
	"github.com/uptrace/bun"
)

// NormParam is a scalar normative constant of a rule set.
type NormParam struct {
	bun.BaseModel `bun:"table:norm_params,alias:np" json:"-" yaml:"-"`

	RuleSet string `bun:"rule_set" json:"rule_set"`
	Key     string `bun:"key" json:"key"`
	Value   string `bun:"value" json:"value"`
}

// DemandFactorRow maps a category VA range to a demand factor.
type DemandFactorRow struct {
	bun.BaseModel `bun:"table:demand_factors,alias:df" json:"-" yaml:"-"`

	Category LoadCategory `bun:"category" json:"category" yaml:"category"`
	MinVA    float64      `bun:"min_va" json:"min_va" yaml:"min_va"`
	MaxVA    *float64     `bun:"max_va" json:"max_va,omitempty" yaml:"max_va,omitempty"` // nil = open ended
	Factor   float64      `bun:"factor" json:"factor" yaml:"factor"`
}

// Contains reports whether va falls in [MinVA, MaxVA].
func (r DemandFactorRow) Contains(va float64) bool {
	if va < r.MinVA {
		return false
	}
	return r.MaxVA == nil || va <= *r.MaxVA
}

// AmpacityRow is a conductor ampacity entry.
type AmpacityRow struct {
	bun.BaseModel `bun:"table:conductor_ampacity,alias:ca" json:"-" yaml:"-"`

	Material     string  `bun:"material" json:"material" yaml:"material"`
	Insulation   string  `bun:"insulation" json:"insulation" yaml:"insulation"`
	TemperatureC int     `bun:"temperature_c" json:"temperature_c" yaml:"temperature_c"`
	Calibre      string  `bun:"calibre" json:"calibre" yaml:"calibre"`
	SectionMM2   float64 `bun:"section_mm2" json:"section_mm2" yaml:"section_mm2"`
	AmpacityA    float64 `bun:"ampacity_a" json:"ampacity_a" yaml:"ampacity_a"`
}

// BreakerRow is a standard breaker rating.
type BreakerRow struct {
	bun.BaseModel `bun:"table:breakers,alias:br" json:"-" yaml:"-"`

	AmperageA int    `bun:"amperage_a" json:"amperage_a" yaml:"amperage_a"`
	Poles     int    `bun:"poles" json:"poles" yaml:"poles"`
	Curve     string `bun:"curve" json:"curve" yaml:"curve"`
}

// ResistivityRow is the conductor resistance per km.
type ResistivityRow struct {
	bun.BaseModel `bun:"table:conductor_resistivity,alias:cr" json:"-" yaml:"-"`

	Material   string  `bun:"material" json:"material" yaml:"material"`
	SectionMM2 float64 `bun:"section_mm2" json:"section_mm2" yaml:"section_mm2"`
	OhmPerKm   float64 `bun:"ohm_per_km" json:"ohm_per_km" yaml:"ohm_per_km"`
}

// GroundingRow sizes EGC and GEC for breakers up to MaxBreakerA.
type GroundingRow struct {
	bun.BaseModel `bun:"table:grounding_rules,alias:gr" json:"-" yaml:"-"`

	MaxBreakerA   int     `bun:"max_breaker_a" json:"max_breaker_a" yaml:"max_breaker_a"`
	Material      string  `bun:"material" json:"material" yaml:"material"`
	EGCSectionMM2 float64 `bun:"egc_section_mm2" json:"egc_section_mm2" yaml:"egc_section_mm2"`
	EGCCalibre    string  `bun:"egc_calibre" json:"egc_calibre" yaml:"egc_calibre"`
	GECSectionMM2 float64 `bun:"gec_section_mm2" json:"gec_section_mm2" yaml:"gec_section_mm2"`
	GECCalibre    string  `bun:"gec_calibre" json:"gec_calibre" yaml:"gec_calibre"`
}
