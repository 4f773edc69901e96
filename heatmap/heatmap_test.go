package heatmap

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aclements/solargrid/grid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid() *grid.EnergyGrid {
	return &grid.EnergyGrid{
		SurfaceID: "wall",
		Nx:        3,
		Ny:        2,
		CellArea:  0.25,
		Energy:    [][]float64{{0, 10}, {20, 30}, {40, 0}},
	}
}

func TestEnergyGrid(t *testing.T) {
	e := energyGrid{testGrid()}
	c, r := e.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 30.0, e.Z(1, 1))
	assert.Equal(t, 10.0, e.Min(), "zero cells are underflow")
	assert.Equal(t, 40.0, e.Max())

	uniform := energyGrid{&grid.EnergyGrid{Nx: 2, Ny: 2, Energy: [][]float64{{5, 5}, {5, 5}}}}
	assert.Less(t, uniform.Min(), uniform.Max())

	empty := energyGrid{&grid.EnergyGrid{Nx: 2, Ny: 2, Energy: [][]float64{{0, 0}, {0, 0}}}}
	assert.Equal(t, 0.0, empty.Min())
	assert.Equal(t, 1.0, empty.Max())
}

func TestSaveSurface(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wall.png")
	require.NoError(t, Save(Surface(testGrid()), path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func daySamples(day time.Time, step time.Duration) []Sample {
	var samples []Sample
	for t := day; t.Before(day.Add(24 * time.Hour)); t = t.Add(step) {
		e := 0.0
		if h := t.Hour(); h >= 6 && h < 18 {
			e = float64(h)
		}
		samples = append(samples, Sample{Time: t, Energy: e})
	}
	return samples
}

func TestSeasonGrid(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	var samples []Sample
	for d := 0; d < 3; d++ {
		samples = append(samples, daySamples(start.AddDate(0, 0, d), time.Hour)...)
	}
	g := newSeasonGrid(samples, time.Hour)
	require.NotNil(t, g)
	c, r := g.Dims()
	assert.Equal(t, 3, c)
	// Only the lit hours, 6:00 through 17:00.
	assert.Equal(t, 12, r)
	assert.Equal(t, float64(6*time.Hour), g.Y(0))
	assert.Equal(t, 6.0, g.Z(0, 0))
	assert.Equal(t, 17.0, g.Max())
	assert.Equal(t, float64(start.Add(12*time.Hour).Unix()), g.X(0))

	assert.Nil(t, newSeasonGrid([]Sample{{Time: start}}, time.Hour))
	assert.Nil(t, newSeasonGrid(nil, time.Hour))
}

func TestDayAndSeasonPlots(t *testing.T) {
	dir := t.TempDir()
	day := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	samples := daySamples(day, 30*time.Minute)
	plt, err := Day("house", samples)
	require.NoError(t, err)
	require.NoError(t, Save(plt, filepath.Join(dir, "day.png")))

	samples = append(samples, daySamples(day.AddDate(0, 0, 1), 30*time.Minute)...)
	require.NoError(t, Save(Season("house", samples, 30*time.Minute), filepath.Join(dir, "season.png")))
}

func TestTimeOfDayTicks(t *testing.T) {
	ticks := timeOfDayTicks{target: 5}.Ticks(float64(6*time.Hour), float64(18*time.Hour))
	var labels []string
	for _, tick := range ticks {
		if tick.Label != "" {
			labels = append(labels, tick.Label)
		}
	}
	assert.Equal(t, []string{"06:00", "09:00", "12:00", "15:00", "18:00"}, labels)
	assert.Len(t, ticks, 13, "hourly minor ticks")

	ticks = timeOfDayTicks{target: 3}.Ticks(float64(-15*time.Minute), float64(23*time.Hour))
	assert.Equal(t, "00:00", ticks[0].Label)
}

func TestPickTODStep(t *testing.T) {
	assert.Equal(t, todStep{6 * time.Hour, time.Hour}, pickTODStep(0, 24*time.Hour, 4))
	assert.Equal(t, todStep{15 * time.Minute, 5 * time.Minute}, pickTODStep(0, time.Hour, 5))
	assert.Equal(t, todSteps[0], pickTODStep(time.Hour, 0, 5), "empty range")
}

func TestCeilTo(t *testing.T) {
	assert.Equal(t, 6*time.Hour, ceilTo(5*time.Hour, 3*time.Hour))
	assert.Equal(t, 6*time.Hour, ceilTo(6*time.Hour, 3*time.Hour))
	assert.Equal(t, -3*time.Hour, ceilTo(-5*time.Hour, 3*time.Hour))
	assert.Equal(t, -6*time.Hour, ceilTo(-6*time.Hour, 3*time.Hour))
}

func TestMonthTicks(t *testing.T) {
	unix := func(y int, m time.Month, d int) float64 {
		return float64(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix())
	}
	ticks := monthTicks{}.Ticks(unix(2024, 1, 1), unix(2024, 12, 31))
	require.Len(t, ticks, 12)
	assert.Equal(t, "Jan 2024", ticks[0].Label)
	assert.Equal(t, "", ticks[1].Label)
	assert.Equal(t, "Apr", ticks[3].Label)
	assert.Equal(t, unix(2024, 7, 1), ticks[6].Value)

	ticks = monthTicks{}.Ticks(unix(2024, 6, 20)+3600, unix(2024, 6, 23))
	require.Len(t, ticks, 1)
	assert.Equal(t, "Jun 21", ticks[0].Label)
}
