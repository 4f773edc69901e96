package sky

import "math"

// Ground describes the terrain around a site.
type Ground struct {
	// Albedo is the fraction of incident radiation the bare ground
	// reflects, in [0, 1].
	Albedo float64 `yaml:"albedo" json:"albedo"`

	// ThermalDiffusivity of the soil, in m²/day. It is carried for
	// ground heat models and does not affect radiation.
	ThermalDiffusivity float64 `yaml:"thermalDiffusivity" json:"thermalDiffusivity"`

	// SnowReflectionFactors holds one factor per month, January first.
	// 0 means no snow cover; 1 means the ground reflects everything.
	SnowReflectionFactors [12]float64 `yaml:"snowReflectionFactors" json:"snowReflectionFactors"`
}

// DefaultGround returns grassland without snow.
func DefaultGround() Ground {
	return Ground{Albedo: 0.3, ThermalDiffusivity: 0.05}
}

// Reflectance returns the effective ground reflectance in the given
// 0-based month, blending the bare albedo toward 1 by the snow factor.
func (g Ground) Reflectance(month int) float64 {
	snow := math.Max(0, math.Min(1, g.SnowReflectionFactors[clampMonth(month)]))
	albedo := math.Max(0, math.Min(1, g.Albedo))
	return albedo + snow*(1-albedo)
}
