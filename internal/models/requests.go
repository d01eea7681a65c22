package models

// RoomsRequest is the input of room aggregation.
type RoomsRequest struct {
	System       SystemConfig  `json:"system" yaml:"system"`
	Surfaces     []Surface     `json:"surfaces" yaml:"surfaces"`
	Consumptions []Consumption `json:"consumptions" yaml:"consumptions"`
}

// RoomsResponse is the output of room aggregation.
type RoomsResponse struct {
	Rooms         []RoomResult   `json:"rooms"`
	CategoryLoads []CategoryLoad `json:"category_loads"`
	Totals        SystemTotals   `json:"totals"`
	Metadata      Metadata       `json:"metadata"`
}

// DemandRequest is the input of demand diversification.
type DemandRequest struct {
	CategoryLoads []CategoryLoad `json:"category_loads"`
	Totals        SystemTotals   `json:"totals"`
}

// DemandResponse is the output of demand diversification.
type DemandResponse struct {
	Loads        []DiversifiedLoad `json:"loads"`
	Totals       DemandTotals      `json:"totals"`
	Observations []string          `json:"observations"`
	Metadata     Metadata          `json:"metadata"`
}

// GroupingOptions tune circuit synthesis.
type GroupingOptions struct {
	// MaxUtilization is the breaker loading ceiling; zero selects the norm default.
	MaxUtilization    float64 `json:"max_utilization,omitempty" yaml:"max_utilization,omitempty"`
	SeparateByRoom    bool    `json:"separate_by_room,omitempty" yaml:"separate_by_room,omitempty"`
	PreferSinglePhase bool    `json:"prefer_single_phase,omitempty" yaml:"prefer_single_phase,omitempty"`
	// ConductorMaterial defaults to the norm parameter default_conductor_material.
	ConductorMaterial string `json:"conductor_material,omitempty" yaml:"conductor_material,omitempty"`
}

// CircuitsRequest is the input of circuit synthesis.
type CircuitsRequest struct {
	Loads   []LoadItem      `json:"loads"`
	System  SystemConfig    `json:"system"`
	Options GroupingOptions `json:"options"`
}

// CircuitsResponse is the output of circuit synthesis.
type CircuitsResponse struct {
	Circuits     []Circuit      `json:"circuits"`
	Summary      CircuitSummary `json:"summary"`
	Observations []string       `json:"observations"`
	Metadata     Metadata       `json:"metadata"`
}

// FeederParams describe the feeder run.
type FeederParams struct {
	LengthM  float64 `json:"length_m" yaml:"length_m"`
	Material string  `json:"material,omitempty" yaml:"material,omitempty"`
	// BranchLimitPct and TotalLimitPct default to the norm parameters when zero.
	BranchLimitPct float64 `json:"branch_limit_pct,omitempty" yaml:"branch_limit_pct,omitempty"`
	TotalLimitPct  float64 `json:"total_limit_pct,omitempty" yaml:"total_limit_pct,omitempty"`
	// DesignCurrentA overrides the feeder current derived from the circuits.
	DesignCurrentA float64 `json:"design_current_a,omitempty" yaml:"design_current_a,omitempty"`
}

// VoltageDropRequest is the input of voltage-drop analysis.
type VoltageDropRequest struct {
	Circuits []Circuit    `json:"circuits"`
	System   SystemConfig `json:"system"`
	Feeder   FeederParams `json:"feeder"`
}

// VoltageDropResponse is the output of voltage-drop analysis.
type VoltageDropResponse struct {
	Circuits     []CircuitDrop      `json:"circuits"`
	Feeder       FeederSpec         `json:"feeder"`
	Summary      VoltageDropSummary `json:"summary"`
	Observations []string           `json:"observations"`
	Metadata     Metadata           `json:"metadata"`
}

// GroundingParams describe the grounding design inputs.
type GroundingParams struct {
	MainBreakerA      int                 `json:"main_breaker_a" yaml:"main_breaker_a"`
	InstallationClass InstallationClass   `json:"installation_class" yaml:"installation_class"`
	SystemType        GroundingSystemType `json:"system_type" yaml:"system_type"`
	// SoilResistivityOhmM enables the electrode resistance estimate when positive.
	SoilResistivityOhmM float64 `json:"soil_resistivity_ohm_m,omitempty" yaml:"soil_resistivity_ohm_m,omitempty"`
}

// GroundingRequest is the input of grounding sizing.
type GroundingRequest struct {
	Totals SystemTotals    `json:"totals"`
	Feeder FeederSpec      `json:"feeder"`
	Params GroundingParams `json:"params"`
}

// GroundingResponse is the output of grounding sizing.
type GroundingResponse struct {
	GroundingSpec
	Observations []string `json:"observations"`
	Metadata     Metadata `json:"metadata"`
}

// PipelineRequest chains all five stages.
type PipelineRequest struct {
	System       SystemConfig    `json:"system" yaml:"system"`
	Surfaces     []Surface       `json:"surfaces" yaml:"surfaces"`
	Consumptions []Consumption   `json:"consumptions" yaml:"consumptions"`
	Grouping     GroupingOptions `json:"grouping" yaml:"grouping"`
	Feeder       FeederParams    `json:"feeder" yaml:"feeder"`
	Grounding    GroundingParams `json:"grounding" yaml:"grounding"`
}

// PipelineResponse holds every stage output.
type PipelineResponse struct {
	Rooms       RoomsResponse       `json:"rooms"`
	Demand      DemandResponse      `json:"demand"`
	Circuits    CircuitsResponse    `json:"circuits"`
	VoltageDrop VoltageDropResponse `json:"voltage_drop"`
	Grounding   GroundingResponse   `json:"grounding"`
	Status      Status              `json:"status"`
}
