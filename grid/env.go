// Package grid discretizes building surfaces into cells and computes
// the solar energy each cell receives at a single instant.
//
// Every computation is a pure function of a Surface and an Env. Grids
// are owned by the call that creates them, so independent surfaces can
// be computed concurrently; see ComputeAll.
package grid

import (
	"log/slog"
	"math"

	"github.com/aclements/solargrid/sky"
	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultCellSize is the default grid cell edge length, in world units.
const DefaultCellSize = 0.5

// Config controls discretization.
type Config struct {
	// CellSize is the target cell edge length. Surfaces always get at
	// least two cells along each axis.
	CellSize float64 `yaml:"solarRadiationHeatmapGridCellSize" json:"solarRadiationHeatmapGridCellSize"`
}

func (c Config) cellSize() float64 {
	if !(c.CellSize > 0) || math.IsInf(c.CellSize, 1) {
		return DefaultCellSize
	}
	return c.CellSize
}

// cells returns the number of cells covering extent, never less than 2.
func (c Config) cells(extent float64) int {
	n := math.Round(extent / c.cellSize())
	if math.IsNaN(n) || n < 2 {
		return 2
	}
	return int(n)
}

// Irradiance is a clear-sky radiation model. sky.ClearSky implements
// it.
type Irradiance interface {
	// PeakRadiation returns the direct beam radiation perpendicular to
	// sun, in W/m².
	PeakRadiation(sun r3.Vec, dayOfYear int, elevation float64, model sky.AirMass) float64

	// DiffuseAndReflected returns the diffuse and ground-reflected
	// radiation on a surface facing normal, in W/m².
	DiffuseAndReflected(ground sky.Ground, month int, normal r3.Vec, peak float64) float64
}

// A ShadowOracle decides whether the sun is blocked at a point.
// Implementations must be safe for concurrent use.
type ShadowOracle interface {
	// InShadow reports whether point, on the surface surfaceID, is
	// occluded along sun.
	InShadow(surfaceID string, point, sun r3.Vec) bool
}

// ShadowFunc adapts a function to a ShadowOracle.
type ShadowFunc func(surfaceID string, point, sun r3.Vec) bool

func (f ShadowFunc) InShadow(surfaceID string, point, sun r3.Vec) bool {
	return f(surfaceID, point, sun)
}

// NoShadow is an oracle under which nothing is ever shaded.
var NoShadow ShadowOracle = ShadowFunc(func(string, r3.Vec, r3.Vec) bool { return false })

// Env is everything a surface computation depends on besides the
// surface itself. An Env must not be modified while computations that
// use it are running.
type Env struct {
	Sun    sky.Sun
	Ground sky.Ground

	// Elevation is the site elevation in meters.
	Elevation float64
	AirMass   sky.AirMass

	// Model defaults to sky.ClearSky.
	Model Irradiance

	// Shadow defaults to NoShadow.
	Shadow ShadowOracle

	Config Config

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Compute discretizes s and returns its energy grid. Invalid geometry
// degrades to a finite, possibly meaningless grid; use s.Validate to
// reject it up front.
func (e *Env) Compute(s Surface) *EnergyGrid {
	return s.build(e)
}

func (e *Env) model() Irradiance {
	if e.Model == nil {
		return sky.ClearSky{}
	}
	return e.Model
}

func (e *Env) shadow() ShadowOracle {
	if e.Shadow == nil {
		return NoShadow
	}
	return e.Shadow
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.Default()
	}
	return e.Logger
}

// An accumulator adds per-cell energy for one surface. The diffuse and
// direct terms are constant over a planar surface, so they are
// computed once.
type accumulator struct {
	id     string
	sun    r3.Vec
	shadow ShadowOracle

	// diffuse and direct are already multiplied by the cell area.
	diffuse float64
	direct  float64
}

func (e *Env) newAccumulator(id string, normal r3.Vec, da float64) *accumulator {
	m := e.model()
	sun := e.Sun.Direction
	peak := m.PeakRadiation(sun, e.Sun.DayOfYear, e.Elevation, e.AirMass)
	a := &accumulator{
		id:      id,
		sun:     sun,
		shadow:  e.shadow(),
		diffuse: m.DiffuseAndReflected(e.Ground, e.Sun.Month(), normal, peak) * da,
	}
	if dot := r3.Dot(normal, sun); dot > 0 {
		a.direct = dot * peak * da
	}
	return a
}

// add deposits energy into cell for a sample at world point p.
func (a *accumulator) add(cell *float64, p r3.Vec) {
	*cell += a.diffuse
	if a.direct > 0 && !a.shadow.InShadow(a.id, p, a.sun) {
		*cell += a.direct
	}
}
