package calc

import (
	"elecdesign/internal/models"
)

func checkSystem(v *ValidationError, sys models.SystemConfig) {
	if sys.VoltageV <= 0 {
		v.add("system voltage must be positive, got %g V", sys.VoltageV)
	}
	if sys.Phases != 1 && sys.Phases != 3 {
		v.add("system phases must be 1 or 3, got %d", sys.Phases)
	}
	if sys.FrequencyHz < 0 {
		v.add("system frequency must not be negative, got %g Hz", sys.FrequencyHz)
	}
}

// ValidateSystem checks the supply description.
func ValidateSystem(sys models.SystemConfig) error {
	v := &ValidationError{}
	checkSystem(v, sys)
	return v.orNil()
}

// ValidateRooms checks a room aggregation request, including that every
// consumption references a declared surface.
func ValidateRooms(sys models.SystemConfig, surfaces []models.Surface, consumptions []models.Consumption) error {
	v := &ValidationError{}
	checkSystem(v, sys)
	checkRooms(v, surfaces, consumptions)
	return v.orNil()
}

func checkRooms(v *ValidationError, surfaces []models.Surface, consumptions []models.Consumption) {
	rooms := make(map[string]struct{}, len(surfaces))
	for i, s := range surfaces {
		switch {
		case s.Room == "":
			v.add("surfaces[%d]: room name is required", i)
		default:
			if _, dup := rooms[s.Room]; dup {
				v.add("surfaces[%d]: duplicate room %q", i, s.Room)
			}
			rooms[s.Room] = struct{}{}
		}
		if s.AreaM2 <= 0 {
			v.add("surfaces[%d] (%s): area must be positive, got %g m²", i, s.Room, s.AreaM2)
		}
		if s.PanelDistanceM < 0 {
			v.add("surfaces[%d] (%s): panel distance must not be negative", i, s.Room)
		}
	}

	for i, c := range consumptions {
		if c.Name == "" {
			v.add("consumptions[%d]: name is required", i)
		}
		if _, ok := rooms[c.Room]; !ok {
			v.add("consumptions[%d] (%s): unknown room %q", i, c.Name, c.Room)
		}
		if c.PowerW <= 0 {
			v.add("consumptions[%d] (%s): power must be positive, got %g W", i, c.Name, c.PowerW)
		}
		if c.PowerFactor != nil && (*c.PowerFactor < 0.1 || *c.PowerFactor > 1.0) {
			v.add("consumptions[%d] (%s): power factor must be within 0.1-1.0, got %g", i, c.Name, *c.PowerFactor)
		}
		if !c.Category.Valid() {
			v.add("consumptions[%d] (%s): unknown category %q", i, c.Name, c.Category)
		}
	}
}

// ValidateCategoryLoads checks a diversification request.
func ValidateCategoryLoads(loads []models.CategoryLoad, totals models.SystemTotals) error {
	v := &ValidationError{}
	if totals.VoltageV <= 0 {
		v.add("voltage must be positive, got %g V", totals.VoltageV)
	}
	if totals.Phases != 0 && totals.Phases != 1 && totals.Phases != 3 {
		v.add("phases must be 1 or 3, got %d", totals.Phases)
	}
	for i, l := range loads {
		if l.Category == "" {
			v.add("category_loads[%d]: category is required", i)
		}
		if l.RawVA < 0 {
			v.add("category_loads[%d] (%s): raw VA must not be negative", i, l.Category)
		}
	}
	return v.orNil()
}

// ValidateLoadItems checks a circuit synthesis request.
func ValidateLoadItems(loads []models.LoadItem, sys models.SystemConfig, opts models.GroupingOptions) error {
	v := &ValidationError{}
	checkSystem(v, sys)
	checkGrouping(v, opts)
	for i, l := range loads {
		if l.Category == "" {
			v.add("loads[%d] (%s): category is required", i, l.Name)
		}
		if l.VA < 0 {
			v.add("loads[%d] (%s): VA must not be negative", i, l.Name)
		}
		if l.LengthM < 0 {
			v.add("loads[%d] (%s): length must not be negative", i, l.Name)
		}
	}
	return v.orNil()
}

func checkGrouping(v *ValidationError, opts models.GroupingOptions) {
	if opts.MaxUtilization < 0 || opts.MaxUtilization > 1 {
		v.add("max utilization must be within [0, 1] where 0 keeps the norm value, got %g", opts.MaxUtilization)
	}
}

// ValidateDropRequest checks a voltage-drop request.
func ValidateDropRequest(circuits []models.Circuit, sys models.SystemConfig, feeder models.FeederParams) error {
	v := &ValidationError{}
	checkSystem(v, sys)
	checkFeeder(v, feeder)
	for i, c := range circuits {
		if c.CurrentA < 0 {
			v.add("circuits[%d] (%s): current must not be negative", i, c.ID)
		}
		if c.LengthM < 0 {
			v.add("circuits[%d] (%s): length must not be negative", i, c.ID)
		}
		if c.Conductor.SectionMM2 <= 0 {
			v.add("circuits[%d] (%s): conductor section is required", i, c.ID)
		}
	}
	return v.orNil()
}

func checkFeeder(v *ValidationError, feeder models.FeederParams) {
	if feeder.LengthM < 0 {
		v.add("feeder length must not be negative, got %g m", feeder.LengthM)
	}
	if feeder.BranchLimitPct < 0 || feeder.TotalLimitPct < 0 {
		v.add("voltage-drop limits must not be negative")
	}
	if feeder.DesignCurrentA < 0 {
		v.add("feeder design current must not be negative")
	}
}

// ValidateGrounding checks a grounding request.
func ValidateGrounding(p models.GroundingParams) error {
	v := &ValidationError{}
	checkGrounding(v, p)
	return v.orNil()
}

func checkGrounding(v *ValidationError, p models.GroundingParams) {
	if p.MainBreakerA < 0 {
		v.add("main breaker must not be negative, got %d A", p.MainBreakerA)
	}
	if !p.InstallationClass.Valid() {
		v.add("unknown installation class %q", p.InstallationClass)
	}
	if !p.SystemType.Valid() {
		v.add("unknown grounding system type %q", p.SystemType)
	}
	if p.SoilResistivityOhmM < 0 {
		v.add("soil resistivity must not be negative")
	}
}

// ValidatePipeline checks every part of a full pipeline request at once, so a
// bad request is rejected before any stage runs.
func ValidatePipeline(req *models.PipelineRequest) error {
	v := &ValidationError{}
	checkSystem(v, req.System)
	checkRooms(v, req.Surfaces, req.Consumptions)
	checkGrouping(v, req.Grouping)
	checkFeeder(v, req.Feeder)
	checkGrounding(v, req.Grounding)
	return v.orNil()
}
