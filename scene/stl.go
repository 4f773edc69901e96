package scene

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

type Mesh struct {
	Header string

	Verts [][3]float32
	Tris  [][3]int
}

// ReadSTL reads a binary STL file. Coordinates are taken as-is, so the
// file must already be in world units with Z up.
func ReadSTL(r io.Reader) (*Mesh, error) {
	m := new(Mesh)

	var header struct {
		H    [80]byte
		NTri uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading STL header: %w", err)
	}
	m.Header = strings.TrimRight(string(header.H[:]), " \x00")

	vertMap := make(map[[3]float32]int)

	var vert [3]float32
	var tri [3]int
	triBuf := make([]byte, 4*3*4+2)
	for i := 0; i < int(header.NTri); i++ {
		// Read a triangle
		if _, err := io.ReadFull(r, triBuf); err != nil {
			return nil, fmt.Errorf("reading STL triangle %d: %w", i, err)
		}
		// Read the vertexes.
		for v := range tri {
			// Read the coordinates of this vertex.
			for c := range vert {
				const start = 3 * 4 // Skip normal
				vert[c] = math.Float32frombits(binary.LittleEndian.Uint32(triBuf[start+12*v+4*c:]))
			}
			// Add the vertex to the vertex set.
			vertIndex, ok := vertMap[vert]
			if !ok {
				vertIndex = len(m.Verts)
				m.Verts = append(m.Verts, vert)
				vertMap[vert] = vertIndex
			}
			tri[v] = vertIndex
		}
		// Add the triangle.
		m.Tris = append(m.Tris, tri)
	}

	return m, nil
}

// Triangles returns the mesh triangles, scaled by scale.
func (m *Mesh) Triangles(scale float64) []r3.Triangle {
	tris := make([]r3.Triangle, len(m.Tris))
	for i, idxs := range m.Tris {
		for j, idx := range idxs {
			v := m.Verts[idx]
			tris[i][j] = r3.Scale(scale, r3.Vec{X: float64(v[0]), Y: float64(v[1]), Z: float64(v[2])})
		}
	}
	return tris
}
