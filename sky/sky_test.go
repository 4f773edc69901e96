package sky

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

// assertBetween checks that x is in [a, b].
func assertBetween(t *testing.T, msg string, x, a, b float64) {
	t.Helper()
	if a <= x && x <= b {
		return
	}
	t.Errorf("got %s = %v, want in range [%v, %v]", msg, x, a, b)
}

func sunAtAltitude(deg float64) r3.Vec {
	al := deg * math.Pi / 180
	return r3.Vec{Y: math.Cos(al), Z: math.Sin(al)}
}

func TestPeakRadiation(t *testing.T) {
	// These ranges follow the tables at
	// https://www.ftexploring.com/solar-energy/air-mass-and-insolation2.htm
	// with the 10% diffuse share taken out. Day 91 has a negligible
	// Earth-Sun distance correction.
	var m ClearSky
	const day = 91
	assertBetween(t, "PeakRadiation at 90°", m.PeakRadiation(sunAtAltitude(90), day, 0, AirMassKastenYoung), 946.5, 948)
	assertBetween(t, "PeakRadiation at 1°", m.PeakRadiation(sunAtAltitude(1), day, 0, AirMassKastenYoung), 50.5, 52)
	assertBetween(t, "PeakRadiation at 0°", m.PeakRadiation(sunAtAltitude(0), day, 0, AirMassKastenYoung), 20.3, 20.5)
	assert.Zero(t, m.PeakRadiation(sunAtAltitude(-5), day, 0, AirMassKastenYoung))
}

func TestPeakRadiationModels(t *testing.T) {
	var m ClearSky
	overhead := sunAtAltitude(90)
	low := sunAtAltitude(10)

	ky := m.PeakRadiation(overhead, 91, 0, AirMassKastenYoung)
	sphere := m.PeakRadiation(overhead, 91, 0, AirMassSphere)
	assert.InDelta(t, ky, sphere, 0.5, "models agree overhead")

	none := m.PeakRadiation(low, 91, 0, AirMassNone)
	assert.InDelta(t, sphere, none, 0.5, "no air mass means no zenith dependence")
	assert.Less(t, m.PeakRadiation(low, 91, 0, AirMassKastenYoung), none)
	assert.Less(t, m.PeakRadiation(low, 91, 0, AirMassSphere), none)

	// Higher sites get more direct radiation.
	assert.Greater(t, m.PeakRadiation(low, 91, 2000, AirMassKastenYoung), m.PeakRadiation(low, 91, 0, AirMassKastenYoung))

	// Perihelion is in early January.
	assert.Greater(t, m.PeakRadiation(overhead, 1, 0, AirMassKastenYoung), m.PeakRadiation(overhead, 182, 0, AirMassKastenYoung))
}

func TestDiffuseAndReflected(t *testing.T) {
	var m ClearSky
	g := DefaultGround()
	const june = 5

	up := m.DiffuseAndReflected(g, june, r3.Vec{Z: 1}, 1000)
	assert.InDelta(t, 134, up, 1e-9, "horizontal surfaces see only the sky")

	wall := m.DiffuseAndReflected(g, june, r3.Vec{X: 1}, 1000)
	assert.InDelta(t, 0.5*0.134*1000+0.5*0.3*1.134*1000, wall, 1e-9)

	down := m.DiffuseAndReflected(g, june, r3.Vec{Z: -1}, 1000)
	assert.InDelta(t, 0.3*1.134*1000, down, 1e-9, "downward surfaces see only the ground")

	assert.Zero(t, m.DiffuseAndReflected(g, june, r3.Vec{X: 1}, 0))
}

func TestGroundReflectance(t *testing.T) {
	g := DefaultGround()
	g.SnowReflectionFactors[0] = 1
	g.SnowReflectionFactors[1] = 0.5
	assert.InDelta(t, 1, g.Reflectance(0), 1e-12)
	assert.InDelta(t, 0.65, g.Reflectance(1), 1e-12)
	assert.InDelta(t, 0.3, g.Reflectance(6), 1e-12)
	assert.InDelta(t, 0.3, g.Reflectance(42), 1e-12, "out of range months clamp")
}

func TestMonthOf(t *testing.T) {
	tests := []struct{ day, month int }{
		{1, 0}, {31, 0}, {32, 1}, {59, 1}, {60, 2}, {182, 6}, {365, 11}, {366, 11}, {0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.month, MonthOf(tt.day), "day %d", tt.day)
	}
}

func TestNewSun(t *testing.T) {
	s := NewSun(math.Pi/6, math.Pi/2, 100)
	assert.InDelta(t, math.Cos(math.Pi/6), s.Direction.X, 1e-12, "east")
	assert.InDelta(t, 0, s.Direction.Y, 1e-12)
	assert.InDelta(t, 0.5, s.Direction.Z, 1e-12)
	assert.True(t, s.Up())
	assert.Equal(t, 3, s.Month())
}

func TestSunAt(t *testing.T) {
	// Solar noon in Boston is around 16:40 UTC in June; the sun is high
	// in the southern sky.
	s := SunAt(time.Date(2022, 6, 21, 16, 40, 0, 0, time.UTC), 42.36, -71.06)
	assert.Equal(t, 172, s.DayOfYear)
	assert.True(t, s.Up())
	assertBetween(t, "noon altitude", s.ElevationAngle*180/math.Pi, 65, 75)
	assert.Less(t, s.Direction.Y, 0.0, "sun is to the south")
	assert.InDelta(t, 1, r3.Norm(s.Direction), 1e-9)

	night := SunAt(time.Date(2022, 6, 21, 5, 0, 0, 0, time.UTC), 42.36, -71.06)
	assert.False(t, night.Up())
}

func TestParseAirMass(t *testing.T) {
	for _, a := range []AirMass{AirMassKastenYoung, AirMassSphere, AirMassNone} {
		got, err := ParseAirMass(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	got, err := ParseAirMass("")
	require.NoError(t, err)
	assert.Equal(t, AirMassKastenYoung, got)

	_, err = ParseAirMass("plasma")
	assert.Error(t, err)
}
