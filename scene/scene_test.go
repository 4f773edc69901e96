package scene

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

var up = r3.Vec{Z: 1}

func TestIntersectTriangle(t *testing.T) {
	tri := r3.Triangle{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}

	r := Ray{Origin: r3.Vec{X: 0.2, Y: 0.2, Z: -1}, Dir: up}
	d, ok := r.IntersectTriangle(&tri)
	require.True(t, ok)
	assert.InDelta(t, 1, d, 1e-9)
	assert.InDelta(t, 0, r.Along(d).Z, 1e-9)

	r = Ray{Origin: r3.Vec{X: 2, Y: 2, Z: -1}, Dir: up}
	_, ok = r.IntersectTriangle(&tri)
	assert.False(t, ok, "outside the triangle")

	r = Ray{Origin: r3.Vec{X: 0.2, Y: 0.2, Z: 1}, Dir: up}
	_, ok = r.IntersectTriangle(&tri)
	assert.False(t, ok, "triangle behind the ray")

	r = Ray{Origin: r3.Vec{X: -1, Y: 0.2, Z: 0}, Dir: r3.Vec{X: 1}}
	_, ok = r.IntersectTriangle(&tri)
	assert.False(t, ok, "ray in the plane of the triangle")
}

func TestBoxHit(t *testing.T) {
	b := emptyBox()
	b.extend(r3.Vec{X: -1, Y: -1, Z: 2})
	b.extend(r3.Vec{X: 1, Y: 1, Z: 3})

	for _, test := range []struct {
		origin, dir r3.Vec
		want        bool
	}{
		{r3.Vec{}, up, true},
		{r3.Vec{X: 5}, up, false},
		{r3.Vec{Z: 4}, up, false},
		{r3.Vec{X: -5, Z: 2.5}, r3.Vec{X: 1}, true},
		{r3.Vec{X: -5, Z: 2.5}, r3.Vec{X: -1}, false},
		{r3.Vec{X: -3}, r3.Unit(r3.Vec{X: 1, Z: 1}), true},
	} {
		r := Ray{Origin: test.origin, Dir: test.dir}
		assert.Equal(t, test.want, b.hitBy(&r), "ray %+v", r)
	}
}

func square(z, half float64) []r3.Vec {
	return []r3.Vec{
		{X: -half, Y: -half, Z: z}, {X: half, Y: -half, Z: z},
		{X: half, Y: half, Z: z}, {X: -half, Y: half, Z: z},
	}
}

func TestOracleIgnoresOwnSurface(t *testing.T) {
	s := New()
	s.AddSurface("roof-0", square(3, 5))
	assert.Equal(t, 2, s.Len())

	o := s.Oracle(172)
	p := r3.Vec{X: 1, Y: -2}
	assert.True(t, o.InShadow("wall", p, up))
	assert.False(t, o.InShadow("roof-0", p, up))
	assert.False(t, o.InShadow("wall", r3.Vec{X: 20}, up))

	// A point on the roof itself, lit from above.
	assert.False(t, o.InShadow("roof-0", r3.Vec{X: 1, Y: -2, Z: 3}, up))
}

func TestOracleLowSun(t *testing.T) {
	s := New()
	// A wall along the X axis, 2 m tall, north of the origin.
	s.AddSurface("fence", []r3.Vec{{X: -10, Y: 1}, {X: 10, Y: 1}, {X: 10, Y: 1, Z: 2}, {X: -10, Y: 1, Z: 2}})
	o := s.Oracle(172)

	north := func(altitude float64) r3.Vec {
		return r3.Vec{Y: math.Cos(altitude), Z: math.Sin(altitude)}
	}
	assert.True(t, o.InShadow("ground", r3.Vec{}, north(math.Pi/8)))
	assert.False(t, o.InShadow("ground", r3.Vec{}, north(3*math.Pi/8)))
}

func TestFoliageTransmissivity(t *testing.T) {
	for _, test := range []struct {
		day  int
		want float64
	}{
		{1, 0.5},
		{59, 0.5},
		{105, 0.275},
		{200, 0.05},
		{243, 0.05},
		{334, 0.5},
		{365, 0.5},
	} {
		assert.InDelta(t, test.want, foliageTransmissivity(test.day), 1e-9, "day %d", test.day)
	}
}

func TestFoliageShade(t *testing.T) {
	s := New()
	s.AddFoliage("tree", squareTris(5, 2))
	p := r3.Vec{X: 0.5, Y: -1}

	assert.False(t, s.Oracle(15).InShadow("roof", p, up), "bare tree in winter")
	assert.True(t, s.Oracle(200).InShadow("roof", p, up), "full canopy in summer")

	// Two bare trees stack up.
	s.AddFoliage("tree2", squareTris(7, 2))
	assert.True(t, s.Oracle(15).InShadow("roof", p, up))
}

func squareTris(z, half float64) []r3.Triangle {
	q := square(z, half)
	return []r3.Triangle{{q[0], q[1], q[2]}, {q[0], q[2], q[3]}}
}

func writeSTL(t *testing.T, tris []r3.Triangle) []byte {
	t.Helper()
	var buf bytes.Buffer
	var header [80]byte
	copy(header[:], "test mesh")
	buf.Write(header[:])
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(tris))))
	for _, tri := range tris {
		rec := make([]float32, 12)
		for v, p := range tri {
			rec[3+3*v], rec[4+3*v], rec[5+3*v] = float32(p.X), float32(p.Y), float32(p.Z)
		}
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, rec))
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint16(0)))
	}
	return buf.Bytes()
}

func TestReadSTL(t *testing.T) {
	data := writeSTL(t, squareTris(3, 1))
	m, err := ReadSTL(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "test mesh", m.Header)
	assert.Len(t, m.Tris, 2)
	assert.Len(t, m.Verts, 4, "shared vertices are merged")

	tris := m.Triangles(2)
	assert.Equal(t, r3.Vec{X: -2, Y: -2, Z: 6}, tris[0][0])

	_, err = ReadSTL(bytes.NewReader(data[:len(data)-10]))
	assert.Error(t, err, "truncated file")
}

func TestLoadSTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shed.stl")
	require.NoError(t, os.WriteFile(path, writeSTL(t, squareTris(3, 1)), 0o666))

	s := New()
	require.NoError(t, s.LoadSTL(path, 1, false))
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Oracle(1).InShadow("any", r3.Vec{X: 0.5, Y: -0.5}, up))
	assert.Equal(t, squareTris(3, 1), s.Triangles())

	assert.Error(t, s.LoadSTL(filepath.Join(t.TempDir(), "missing.stl"), 1, false))
}
