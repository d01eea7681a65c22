package norms

import "elecdesign/internal/models"

func va(v float64) *float64 { return &v }

// DefaultTables returns the seeded reference tables, normalized.
// Ampacities are THHN 75 °C; resistances are DC values at 75 °C.
func DefaultTables() *Tables {
	t := &Tables{
		DemandFactors: []models.DemandFactorRow{
			{Category: models.CategoryLighting, MinVA: 0, MaxVA: va(3000), Factor: 1.0},
			{Category: models.CategoryLighting, MinVA: 3000.01, MaxVA: va(120000), Factor: 0.35},
			{Category: models.CategoryLighting, MinVA: 120000.01, Factor: 0.25},
			{Category: models.CategoryGeneralOutlet, MinVA: 0, MaxVA: va(10000), Factor: 1.0},
			{Category: models.CategoryGeneralOutlet, MinVA: 10000.01, Factor: 0.5},
			{Category: models.CategoryAppliance, MinVA: 0, MaxVA: va(10000), Factor: 0.85},
			{Category: models.CategoryAppliance, MinVA: 10000.01, Factor: 0.75},
			{Category: models.CategoryHVAC, MinVA: 0, Factor: 1.0},
			// special loads are deliberately left without rows
		},
		Ampacity: []models.AmpacityRow{
			{Material: Copper, Insulation: "THHN", TemperatureC: 75, Calibre: "14 AWG", SectionMM2: 2.08, AmpacityA: 20},
			{Material: Copper, Insulation: "THHN", TemperatureC: 75, Calibre: "12 AWG", SectionMM2: 3.31, AmpacityA: 25},
			{Material: Copper, Insulation: "THHN", TemperatureC: 75, Calibre: "10 AWG", SectionMM2: 5.26, AmpacityA: 35},
			{Material: Copper, Insulation: "THHN", TemperatureC: 75, Calibre: "8 AWG", SectionMM2: 8.37, AmpacityA: 50},
			{Material: Copper, Insulation: "THHN", TemperatureC: 75, Calibre: "6 AWG", SectionMM2: 13.3, AmpacityA: 65},
			{Material: Copper, Insulation: "THHN", TemperatureC: 75, Calibre: "4 AWG", SectionMM2: 21.2, AmpacityA: 85},
			{Material: Copper, Insulation: "THHN", TemperatureC: 75, Calibre: "3 AWG", SectionMM2: 26.7, AmpacityA: 100},
			{Material: Copper, Insulation: "THHN", TemperatureC: 75, Calibre: "2 AWG", SectionMM2: 33.6, AmpacityA: 115},
			{Material: Copper, Insulation: "THHN", TemperatureC: 75, Calibre: "1 AWG", SectionMM2: 42.4, AmpacityA: 130},
			{Material: Copper, Insulation: "THHN", TemperatureC: 75, Calibre: "1/0 AWG", SectionMM2: 53.5, AmpacityA: 150},
			{Material: Copper, Insulation: "THHN", TemperatureC: 75, Calibre: "2/0 AWG", SectionMM2: 67.4, AmpacityA: 175},
			{Material: Copper, Insulation: "THHN", TemperatureC: 75, Calibre: "3/0 AWG", SectionMM2: 85.0, AmpacityA: 200},
			{Material: Copper, Insulation: "THHN", TemperatureC: 75, Calibre: "4/0 AWG", SectionMM2: 107.2, AmpacityA: 230},
			{Material: Aluminum, Insulation: "THHN", TemperatureC: 75, Calibre: "12 AWG", SectionMM2: 3.31, AmpacityA: 20},
			{Material: Aluminum, Insulation: "THHN", TemperatureC: 75, Calibre: "10 AWG", SectionMM2: 5.26, AmpacityA: 30},
			{Material: Aluminum, Insulation: "THHN", TemperatureC: 75, Calibre: "8 AWG", SectionMM2: 8.37, AmpacityA: 40},
			{Material: Aluminum, Insulation: "THHN", TemperatureC: 75, Calibre: "6 AWG", SectionMM2: 13.3, AmpacityA: 50},
			{Material: Aluminum, Insulation: "THHN", TemperatureC: 75, Calibre: "4 AWG", SectionMM2: 21.2, AmpacityA: 65},
			{Material: Aluminum, Insulation: "THHN", TemperatureC: 75, Calibre: "2 AWG", SectionMM2: 33.6, AmpacityA: 90},
			{Material: Aluminum, Insulation: "THHN", TemperatureC: 75, Calibre: "1/0 AWG", SectionMM2: 53.5, AmpacityA: 120},
			{Material: Aluminum, Insulation: "THHN", TemperatureC: 75, Calibre: "2/0 AWG", SectionMM2: 67.4, AmpacityA: 135},
			{Material: Aluminum, Insulation: "THHN", TemperatureC: 75, Calibre: "3/0 AWG", SectionMM2: 85.0, AmpacityA: 155},
			{Material: Aluminum, Insulation: "THHN", TemperatureC: 75, Calibre: "4/0 AWG", SectionMM2: 107.2, AmpacityA: 180},
		},
		Resistivity: []models.ResistivityRow{
			{Material: Copper, SectionMM2: 2.08, OhmPerKm: 10.2},
			{Material: Copper, SectionMM2: 3.31, OhmPerKm: 6.6},
			{Material: Copper, SectionMM2: 5.26, OhmPerKm: 3.9},
			{Material: Copper, SectionMM2: 8.37, OhmPerKm: 2.56},
			{Material: Copper, SectionMM2: 13.3, OhmPerKm: 1.61},
			{Material: Copper, SectionMM2: 21.2, OhmPerKm: 1.02},
			{Material: Copper, SectionMM2: 26.7, OhmPerKm: 0.82},
			{Material: Copper, SectionMM2: 33.6, OhmPerKm: 0.62},
			{Material: Copper, SectionMM2: 42.4, OhmPerKm: 0.49},
			{Material: Copper, SectionMM2: 53.5, OhmPerKm: 0.39},
			{Material: Copper, SectionMM2: 67.4, OhmPerKm: 0.33},
			{Material: Copper, SectionMM2: 85.0, OhmPerKm: 0.259},
			{Material: Copper, SectionMM2: 107.2, OhmPerKm: 0.207},
			{Material: Aluminum, SectionMM2: 3.31, OhmPerKm: 10.5},
			{Material: Aluminum, SectionMM2: 5.26, OhmPerKm: 6.6},
			{Material: Aluminum, SectionMM2: 8.37, OhmPerKm: 4.3},
			{Material: Aluminum, SectionMM2: 13.3, OhmPerKm: 2.66},
			{Material: Aluminum, SectionMM2: 21.2, OhmPerKm: 1.67},
			{Material: Aluminum, SectionMM2: 33.6, OhmPerKm: 1.05},
			{Material: Aluminum, SectionMM2: 53.5, OhmPerKm: 0.66},
			{Material: Aluminum, SectionMM2: 67.4, OhmPerKm: 0.52},
			{Material: Aluminum, SectionMM2: 85.0, OhmPerKm: 0.43},
			{Material: Aluminum, SectionMM2: 107.2, OhmPerKm: 0.33},
		},
		Grounding: []models.GroundingRow{
			{MaxBreakerA: 15, Material: Copper, EGCSectionMM2: 2.5, EGCCalibre: "14 AWG", GECSectionMM2: 10, GECCalibre: "8 AWG"},
			{MaxBreakerA: 20, Material: Copper, EGCSectionMM2: 4, EGCCalibre: "12 AWG", GECSectionMM2: 10, GECCalibre: "8 AWG"},
			{MaxBreakerA: 60, Material: Copper, EGCSectionMM2: 6, EGCCalibre: "10 AWG", GECSectionMM2: 10, GECCalibre: "8 AWG"},
			{MaxBreakerA: 100, Material: Copper, EGCSectionMM2: 10, EGCCalibre: "8 AWG", GECSectionMM2: 16, GECCalibre: "6 AWG"},
			{MaxBreakerA: 200, Material: Copper, EGCSectionMM2: 16, EGCCalibre: "6 AWG", GECSectionMM2: 25, GECCalibre: "4 AWG"},
			{MaxBreakerA: 300, Material: Copper, EGCSectionMM2: 25, EGCCalibre: "4 AWG", GECSectionMM2: 35, GECCalibre: "2 AWG"},
			{MaxBreakerA: 400, Material: Copper, EGCSectionMM2: 35, EGCCalibre: "2 AWG", GECSectionMM2: 50, GECCalibre: "1/0 AWG"},
			{MaxBreakerA: 600, Material: Copper, EGCSectionMM2: 50, EGCCalibre: "1 AWG", GECSectionMM2: 70, GECCalibre: "2/0 AWG"},
			{MaxBreakerA: 800, Material: Copper, EGCSectionMM2: 50, EGCCalibre: "1/0 AWG", GECSectionMM2: 95, GECCalibre: "3/0 AWG"},
		},
	}

	for _, amp := range []int{15, 20, 25, 30, 40, 50, 60, 80, 100, 125, 150, 200} {
		for _, poles := range []int{1, 2, 3} {
			t.Breakers = append(t.Breakers, models.BreakerRow{AmperageA: amp, Poles: poles, Curve: "C"})
		}
	}

	t.Normalize()
	return t
}
