package models

// LoadCategory tags a load for demand factors and circuit grouping.
type LoadCategory string

const (
	CategoryLighting      LoadCategory = "lighting"
	CategoryGeneralOutlet LoadCategory = "general_outlet"
	CategoryAppliance     LoadCategory = "appliance"
	CategoryHVAC          LoadCategory = "hvac"
	CategorySpecial       LoadCategory = "special"
)

// Categories lists every known category in canonical order.
var Categories = []LoadCategory{
	CategoryLighting,
	CategoryGeneralOutlet,
	CategoryAppliance,
	CategoryHVAC,
	CategorySpecial,
}

// Valid reports whether c is one of the known categories.
func (c LoadCategory) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Continuous reports whether the category is continuous-duty (125% design margin).
func (c LoadCategory) Continuous() bool {
	return c == CategoryLighting || c == CategoryHVAC
}

// Label is the human readable name used for circuit names.
func (c LoadCategory) Label() string {
	switch c {
	case CategoryLighting:
		return "Lighting"
	case CategoryGeneralOutlet:
		return "General outlets"
	case CategoryAppliance:
		return "Appliances"
	case CategoryHVAC:
		return "HVAC"
	case CategorySpecial:
		return "Special"
	default:
		return string(c)
	}
}

// Status is the compliance classification shared by all stages.
type Status string

const (
	StatusOK      Status = "OK"
	StatusWarning Status = "WARNING"
	StatusError   Status = "ERROR"
)

// Worse returns the more severe of two statuses.
func (s Status) Worse(other Status) Status {
	if s.rank() >= other.rank() {
		return s
	}
	return other
}

func (s Status) rank() int {
	switch s {
	case StatusError:
		return 2
	case StatusWarning:
		return 1
	default:
		return 0
	}
}

// SystemConfig is the supply the installation is designed for.
type SystemConfig struct {
	VoltageV    float64 `json:"voltage_v" yaml:"voltage_v"`
	Phases      int     `json:"phases" yaml:"phases"`
	FrequencyHz float64 `json:"frequency_hz" yaml:"frequency_hz"`
}

// Surface is a room with its floor area.
type Surface struct {
	Room   string  `json:"room" yaml:"room"`
	AreaM2 float64 `json:"area_m2" yaml:"area_m2"`
	// PanelDistanceM is the cable run from the panel; zero means unknown.
	PanelDistanceM float64 `json:"panel_distance_m,omitempty" yaml:"panel_distance_m,omitempty"`
}

// Consumption is a point load placed in a room.
type Consumption struct {
	Name        string       `json:"name" yaml:"name"`
	Room        string       `json:"room" yaml:"room"`
	PowerW      float64      `json:"power_w" yaml:"power_w"`
	PowerFactor *float64     `json:"power_factor,omitempty" yaml:"power_factor,omitempty"`
	Category    LoadCategory `json:"category" yaml:"category"`
}

// RoomResult is the connected load of one room.
type RoomResult struct {
	Room        string                   `json:"room"`
	AreaM2      float64                  `json:"area_m2"`
	LightingVA  float64                  `json:"lighting_va"`
	LoadVA      float64                  `json:"load_va"`
	RealPowerW  float64                  `json:"real_power_w"`
	ReactiveVAR float64                  `json:"reactive_var"`
	PowerFactor float64                  `json:"power_factor"`
	CategoryVA  map[LoadCategory]float64 `json:"category_va"`
	Notes       []string                 `json:"notes,omitempty"`
}

// SystemTotals summarizes a stage output at the supply point.
type SystemTotals struct {
	TotalVA  float64 `json:"total_va"`
	CurrentA float64 `json:"current_a"`
	VoltageV float64 `json:"voltage_v"`
	Phases   int     `json:"phases"`
}

// CategoryLoad is the raw connected load of one category.
type CategoryLoad struct {
	Category LoadCategory `json:"category"`
	RawVA    float64      `json:"raw_va"`
}

// DemandRange is the matched demand-factor table row.
type DemandRange struct {
	MinVA  float64  `json:"min_va"`
	MaxVA  *float64 `json:"max_va,omitempty"`
	Factor float64  `json:"factor"`
}

// DiversifiedLoad is a category load after demand factors.
type DiversifiedLoad struct {
	Category      LoadCategory `json:"category"`
	RawVA         float64      `json:"raw_va"`
	DemandFactor  float64      `json:"demand_factor"`
	DiversifiedVA float64      `json:"diversified_va"`
	Range         *DemandRange `json:"range,omitempty"`
	FactorFound   bool         `json:"factor_found"`
	Note          string       `json:"note,omitempty"`
}

// DemandTotals aggregates the diversification stage.
type DemandTotals struct {
	RawVA               float64 `json:"raw_va"`
	DiversifiedVA       float64 `json:"diversified_va"`
	DiversifiedCurrentA float64 `json:"diversified_current_a"`
	SavingsVA           float64 `json:"savings_va"`
	SavingsPct          float64 `json:"savings_pct"`
}

// LoadItem is a single diversified load handed to circuit synthesis.
type LoadItem struct {
	Name     string       `json:"name"`
	Category LoadCategory `json:"category"`
	VA       float64      `json:"va"`
	Room     string       `json:"room,omitempty"`
	LengthM  float64      `json:"length_m,omitempty"`
}

// BreakerSpec is a selected protective device.
type BreakerSpec struct {
	AmperageA int    `json:"amperage_a"`
	Poles     int    `json:"poles"`
	Curve     string `json:"curve"`
}

// ConductorSpec is a selected conductor.
type ConductorSpec struct {
	Calibre    string  `json:"calibre"`
	SectionMM2 float64 `json:"section_mm2"`
	Material   string  `json:"material"`
	Insulation string  `json:"insulation,omitempty"`
	AmpacityA  float64 `json:"ampacity_a,omitempty"`
}

// Circuit is a fully assigned branch circuit.
type Circuit struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Category        LoadCategory  `json:"category"`
	Room            string        `json:"room,omitempty"`
	Loads           []LoadItem    `json:"loads"`
	VA              float64       `json:"va"`
	CurrentA        float64       `json:"current_a"`
	DesignCurrentA  float64       `json:"design_current_a"`
	Breaker         BreakerSpec   `json:"breaker"`
	Conductor       ConductorSpec `json:"conductor"`
	UtilizationPct  float64       `json:"utilization_pct"`
	SafetyMarginPct int           `json:"safety_margin_pct"`
	LengthM         float64       `json:"length_m,omitempty"`
	Warnings        []string      `json:"warnings,omitempty"`
}

// CircuitSummary aggregates a synthesized panel schedule.
type CircuitSummary struct {
	CircuitCount          int     `json:"circuit_count"`
	TotalVA               float64 `json:"total_va"`
	TotalCurrentA         float64 `json:"total_current_a"`
	AverageUtilizationPct float64 `json:"average_utilization_pct"`
	SinglePhaseCircuits   int     `json:"single_phase_circuits"`
	MultiPhaseCircuits    int     `json:"multi_phase_circuits"`
	MinCalibre            string  `json:"min_calibre,omitempty"`
	MaxCalibre            string  `json:"max_calibre,omitempty"`
}

// CircuitDrop is the voltage-drop result of one branch circuit.
type CircuitDrop struct {
	CircuitID        string  `json:"circuit_id"`
	CurrentA         float64 `json:"current_a"`
	LengthM          float64 `json:"length_m"`
	SectionMM2       float64 `json:"section_mm2"`
	ResistivityOhmKm float64 `json:"resistivity_ohm_km"`
	DropV            float64 `json:"drop_v"`
	DropPct          float64 `json:"drop_pct"`
	CriticalLengthM  float64 `json:"critical_length_m"`
	Status           Status  `json:"status"`
}

// FeederSpec is the selected feeder between supply and panel.
type FeederSpec struct {
	TotalVA          float64 `json:"total_va"`
	CurrentA         float64 `json:"current_a"`
	Material         string  `json:"material"`
	Calibre          string  `json:"calibre,omitempty"`
	SectionMM2       float64 `json:"section_mm2"`
	AmpacityA        float64 `json:"ampacity_a,omitempty"`
	LengthM          float64 `json:"length_m"`
	ResistivityOhmKm float64 `json:"resistivity_ohm_km"`
	DropV            float64 `json:"drop_v"`
	DropPct          float64 `json:"drop_pct"`
	AllowedDropPct   float64 `json:"allowed_drop_pct"`
	CriticalLengthM  float64 `json:"critical_length_m"`
	Status           Status  `json:"status"`
}

// VoltageDropSummary aggregates branch and feeder drops.
type VoltageDropSummary struct {
	WorstBranchDropPct float64 `json:"worst_branch_drop_pct"`
	WorstTotalDropPct  float64 `json:"worst_total_drop_pct"`
	OutOfLimitCircuits int     `json:"out_of_limit_circuits"`
	Status             Status  `json:"status"`
}

// GroundingSystemType is the earthing arrangement.
type GroundingSystemType string

const (
	GroundingTNS  GroundingSystemType = "TN-S"
	GroundingTNCS GroundingSystemType = "TN-C-S"
	GroundingTT   GroundingSystemType = "TT"
	GroundingIT   GroundingSystemType = "IT"
)

// Valid reports whether t is a known system type.
func (t GroundingSystemType) Valid() bool {
	switch t {
	case GroundingTNS, GroundingTNCS, GroundingTT, GroundingIT:
		return true
	}
	return false
}

// InstallationClass drives resistance limits.
type InstallationClass string

const (
	InstallationResidential InstallationClass = "residential"
	InstallationCommercial  InstallationClass = "commercial"
	InstallationIndustrial  InstallationClass = "industrial"
)

// Valid reports whether c is a known installation class.
func (c InstallationClass) Valid() bool {
	switch c {
	case InstallationResidential, InstallationCommercial, InstallationIndustrial:
		return true
	}
	return false
}

// Grounding severity labels.
const (
	GroundingStandard = "ESTÁNDAR"
	GroundingStrict   = "ESTRICTO"
	GroundingCritical = "CRÍTICO"
)

// ElectrodeSystem is the electrode arrangement.
type ElectrodeSystem struct {
	Type                GroundingSystemType `json:"type"`
	ElectrodeCount      int                 `json:"electrode_count"`
	ElectrodeType       string              `json:"electrode_type"`
	SpacingM            float64             `json:"spacing_m"`
	MaxResistanceOhm    float64             `json:"max_resistance_ohm"`
	EstimatedResistance *float64            `json:"estimated_resistance_ohm,omitempty"`
	Level               string              `json:"level"`
	Status              Status              `json:"status"`
}

// GroundingSpec is the complete grounding design.
type GroundingSpec struct {
	EGC     ConductorSpec   `json:"egc"`
	GEC     ConductorSpec   `json:"gec"`
	System  ElectrodeSystem `json:"system"`
	Summary string          `json:"summary"`
}

// Metadata is attached to every stage response.
type Metadata struct {
	CalculationID  string `json:"calculation_id"`
	Stage          string `json:"stage"`
	RuleSetVersion string `json:"rule_set_version,omitempty"`
	CalculatedAt   string `json:"calculated_at"`
}
