package norms

// Norm parameter keys.
const (
	KeyLightingVAPerM2          = "lighting_va_per_m2"
	KeyDefaultPowerFactor       = "default_power_factor"
	KeyMaxCircuitUtilization    = "max_circuit_utilization"
	KeyContinuousLoadFactor     = "continuous_load_factor"
	KeyBranchDropMaxPct         = "voltage_drop_branch_max_pct"
	KeyTotalDropMaxPct          = "voltage_drop_total_max_pct"
	KeyDropWarningBandPct       = "voltage_drop_warning_band_pct"
	KeyDefaultBranchLengthM     = "default_branch_length_m"
	KeyDefaultConductorMaterial = "default_conductor_material"
)

// Materials.
const (
	Copper   = "copper"
	Aluminum = "aluminum"
)

// DefaultParams is the seeded rule set.
func DefaultParams() StaticSource {
	return StaticSource{
		KeyLightingVAPerM2:          "32.3",
		KeyDefaultPowerFactor:       "0.9",
		KeyMaxCircuitUtilization:    "0.8",
		KeyContinuousLoadFactor:     "1.25",
		KeyBranchDropMaxPct:         "3",
		KeyTotalDropMaxPct:          "5",
		KeyDropWarningBandPct:       "0.5",
		KeyDefaultBranchLengthM:     "15",
		KeyDefaultConductorMaterial: Copper,
	}
}

// AllKeys lists the keys a calculation may resolve.
func AllKeys() []string {
	return []string{
		KeyLightingVAPerM2,
		KeyDefaultPowerFactor,
		KeyMaxCircuitUtilization,
		KeyContinuousLoadFactor,
		KeyBranchDropMaxPct,
		KeyTotalDropMaxPct,
		KeyDropWarningBandPct,
		KeyDefaultBranchLengthM,
		KeyDefaultConductorMaterial,
	}
}
