package sky

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// An AirMass selects how the optical path length through the atmosphere
// grows as the sun approaches the horizon.
type AirMass uint8

const (
	// AirMassKastenYoung is the Kasten & Young (1989) approximation.
	AirMassKastenYoung AirMass = iota
	// AirMassSphere models the atmosphere as a homogeneous spherical
	// shell around the Earth.
	AirMassSphere
	// AirMassNone ignores the sun's zenith angle entirely.
	AirMassNone
)

var airMassNames = map[AirMass]string{
	AirMassKastenYoung: "kasten-young",
	AirMassSphere:      "sphere",
	AirMassNone:        "none",
}

func (a AirMass) String() string {
	if s, ok := airMassNames[a]; ok {
		return s
	}
	return fmt.Sprintf("AirMass(%d)", uint8(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a AirMass) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AirMass) UnmarshalText(text []byte) error {
	v, err := ParseAirMass(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// ParseAirMass parses the name of an air mass model.
func ParseAirMass(s string) (AirMass, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return AirMassKastenYoung, nil
	}
	for a, name := range airMassNames {
		if name == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown air mass model %q", s)
}

// SolarConstant is the extraterrestrial radiation used by the Meinel
// model, in W/m².
const SolarConstant = 1353

// ashraeC is the ASHRAE clear-sky diffuse radiation factor for each
// month, January first.
var ashraeC = [12]float64{0.058, 0.060, 0.071, 0.097, 0.121, 0.134, 0.136, 0.122, 0.092, 0.073, 0.063, 0.057}

// ClearSky is a clear-sky irradiance model. The zero value is ready to
// use and safe for concurrent use.
type ClearSky struct{}

// PeakRadiation returns the direct beam radiation on a plane
// perpendicular to sun, in W/m². elevation is the site elevation in
// meters.
func (ClearSky) PeakRadiation(sun r3.Vec, dayOfYear int, elevation float64, model AirMass) float64 {
	// This is based on https://www.pveducation.org/pvcdrom/properties-of-sunlight/air-mass
	cosZenith := r3.Cos(sun, r3.Vec{Z: 1})
	if math.IsNaN(cosZenith) || cosZenith < 0 {
		return 0
	}
	am := airMass(cosZenith, model)

	// Compute direct component of sunlight, accounting for elevation.
	// From Meinel, A. B. and Meinel, M. P., Applied Solar Energy.
	// Addison Wesley Publishing Co., 1976.
	h := elevation / 1000 // To kilometers
	a := 0.14
	iDirect := SolarConstant * ((1-a*h)*math.Pow(0.7, math.Pow(am, 0.678)) + a*h)

	// Earth-Sun distance correction.
	return iDirect * (1 + 0.033*math.Cos(2*math.Pi*float64(dayOfYear)/365))
}

func airMass(cosZenith float64, model AirMass) float64 {
	switch model {
	case AirMassNone:
		return 1
	case AirMassSphere:
		// Ratio of Earth radius to the effective atmosphere height.
		const r = 708
		rc := r * cosZenith
		return math.Sqrt(rc*rc+2*r+1) - rc
	default:
		// This is a unitless number that is between 1 if the sun is
		// directly overhead and ~38 if the sun is at the horizon. The
		// core of this formula is simply the 1/cos(Θ); the rest of the
		// terms account for the curvature of the Earth.
		//
		// From Kasten, F. and Young, A. T., “Revised optical air mass
		// tables and approximation formula”, Applied Optics, vol. 28,
		// pp. 4735–4738, 1989.
		zenithAngle := math.Acos(math.Min(1, cosZenith)) * 180 / math.Pi
		return 1 / (cosZenith + 0.50572*math.Pow(96.07995-zenithAngle, -1.6364))
	}
}

// DiffuseAndReflected returns the sky-diffuse plus ground-reflected
// radiation on a surface with the given unit normal, in W/m². month is
// 0-based and peak is the direct beam radiation from PeakRadiation.
func (ClearSky) DiffuseAndReflected(ground Ground, month int, normal r3.Vec, peak float64) float64 {
	if peak <= 0 {
		return 0
	}
	month = clampMonth(month)
	c := ashraeC[month]
	cosTilt := math.Max(-1, math.Min(1, normal.Z))

	result := 0.0
	if skyView := 0.5 * (1 + cosTilt); skyView > 0 {
		result += skyView * c * peak
	}
	if groundView := 0.5 * (1 - cosTilt); groundView > 0 {
		result += groundView * ground.Reflectance(month) * (c + 1) * peak
	}
	return result
}

func clampMonth(month int) int {
	if month < 0 {
		return 0
	}
	if month > 11 {
		return 11
	}
	return month
}
