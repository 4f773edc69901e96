// Package sky models where the sun is and how much radiation reaches a
// surface under a clear sky.
package sky

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
	"gonum.org/v1/gonum/spatial/r3"
)

// A Sun is the state of the sun for a single simulated instant.
//
// The coordinate system is as follows:
//
//	Z/up
//	|  Y/north
//	| /
//	|/____ X/east
type Sun struct {
	// Direction is the unit vector pointing from the ground toward the
	// sun.
	Direction r3.Vec

	// DayOfYear is in [1, 366].
	DayOfYear int

	// ElevationAngle is the altitude of the sun above the horizon, in
	// radians. It is negative at night.
	ElevationAngle float64
}

// NewSun returns the sun state for the given altitude and azimuth, both
// in radians. Azimuth is measured clockwise from north, so east is π/2.
func NewSun(altitude, azimuth float64, dayOfYear int) Sun {
	return Sun{
		Direction: r3.Unit(r3.Vec{
			X: math.Sin(azimuth) * math.Cos(altitude),
			Y: math.Cos(azimuth) * math.Cos(altitude),
			Z: math.Sin(altitude),
		}),
		DayOfYear:      dayOfYear,
		ElevationAngle: altitude,
	}
}

// SunAt returns the sun state at time t for the given location.
// Latitude and longitude are in degrees, where north and east are
// positive, respectively.
func SunAt(t time.Time, latitude, longitude float64) Sun {
	p := suncalc.GetPosition(t, latitude, longitude)
	// suncalc returns angles in radians (even though it takes latitude
	// and longitude in degrees). Also, it uses a non-standard
	// convention for azimuth where -90° is east, 0 is south, 90° is
	// west, and 180° is north.
	return NewSun(p.Altitude, p.Azimuth+math.Pi, t.YearDay())
}

// Up reports whether the sun is above the horizon.
func (s Sun) Up() bool {
	return s.Direction.Z > 0
}

// Month returns the 0-based month containing DayOfYear, using a
// non-leap calendar.
func (s Sun) Month() int {
	return MonthOf(s.DayOfYear)
}

// MonthOf returns the 0-based month of a 1-based day of the year.
func MonthOf(dayOfYear int) int {
	if dayOfYear < 1 {
		dayOfYear = 1
	}
	if dayOfYear > 365 {
		dayOfYear = 365
	}
	return int(time.Date(2001, 1, dayOfYear, 0, 0, 0, 0, time.UTC).Month()) - 1
}
