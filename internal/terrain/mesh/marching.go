package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/voxel"
)

// cornerOffset positions the eight cube corners relative to the cell
// origin: 0..3 ring the lower face, 4..7 the upper face.
var cornerOffset = [8][3]int{
	{0, 0, 0},
	{1, 0, 0},
	{1, 0, 1},
	{0, 0, 1},
	{0, 1, 0},
	{1, 1, 0},
	{1, 1, 1},
	{0, 1, 1},
}

// Extract polygonises the iso-surface of a density volume at the given
// iso level (zero for the terrain surface). Cells with density below the
// iso level count as solid. The volume is only read, so extraction can run
// concurrently with other readers.
func Extract(vol *voxel.Volume, isoLevel float32) *Mesh {
	m := &Mesh{}

	var corners [8]mgl32.Vec3
	var values [8]float32
	var verts [12]mgl32.Vec3
	var norms [12]mgl32.Vec3

	for z := 0; z < vol.Depth-1; z++ {
		for y := 0; y < vol.Height-1; y++ {
			for x := 0; x < vol.Width-1; x++ {
				cubeIndex := 0
				for i, off := range cornerOffset {
					cx, cy, cz := x+off[0], y+off[1], z+off[2]
					corners[i] = mgl32.Vec3{float32(cx), float32(cy), float32(cz)}
					values[i] = vol.At(cx, cy, cz)
					if values[i] < isoLevel {
						cubeIndex |= 1 << i
					}
				}

				edges := edgeTable[cubeIndex]
				if edges == 0 {
					continue
				}

				for e := 0; e < 12; e++ {
					if edges&(1<<e) == 0 {
						continue
					}
					a, b := cornerA[e], cornerB[e]
					t := interpFactor(isoLevel, values[a], values[b])
					verts[e] = lerpVec(corners[a], corners[b], t)

					ga := gradientAt(vol, x+cornerOffset[a][0], y+cornerOffset[a][1], z+cornerOffset[a][2])
					gb := gradientAt(vol, x+cornerOffset[b][0], y+cornerOffset[b][1], z+cornerOffset[b][2])
					norms[e] = normalize(lerpVec(ga, gb, t))
				}

				tri := &triTable[cubeIndex]
				for i := 0; tri[i] != -1; i += 3 {
					m.addTriangle(
						verts[tri[i]], norms[tri[i]],
						verts[tri[i+1]], norms[tri[i+1]],
						verts[tri[i+2]], norms[tri[i+2]],
					)
				}
			}
		}
	}
	return m
}

func (m *Mesh) addTriangle(v0, n0, v1, n1, v2, n2 mgl32.Vec3) {
	base := uint32(m.VertexCount())
	for _, p := range [3][2]mgl32.Vec3{{v0, n0}, {v1, n1}, {v2, n2}} {
		m.Vertices = append(m.Vertices, p[0].X(), p[0].Y(), p[0].Z())
		m.Normals = append(m.Normals, p[1].X(), p[1].Y(), p[1].Z())
	}
	m.Indices = append(m.Indices, base, base+1, base+2)
}

// interpFactor places the surface crossing on an edge whose endpoint
// densities straddle the iso level.
func interpFactor(iso, a, b float32) float32 {
	d := b - a
	if d > -1e-6 && d < 1e-6 {
		return 0.5
	}
	t := (iso - a) / d
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func lerpVec(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

func normalize(v mgl32.Vec3) mgl32.Vec3 {
	if v.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return v.Normalize()
}

// gradientAt estimates the density gradient at a lattice point with central
// differences, falling back to one-sided differences at the volume border.
// Density grows from solid to air, so the gradient points out of the
// surface and serves directly as the vertex normal.
func gradientAt(vol *voxel.Volume, x, y, z int) mgl32.Vec3 {
	return mgl32.Vec3{
		axisDiff(vol, x, y, z, 0),
		axisDiff(vol, x, y, z, 1),
		axisDiff(vol, x, y, z, 2),
	}
}

func axisDiff(vol *voxel.Volume, x, y, z, axis int) float32 {
	dims := [3]int{vol.Width, vol.Height, vol.Depth}
	lo := [3]int{x, y, z}
	hi := lo
	scale := float32(0.5)

	if lo[axis] > 0 {
		lo[axis]--
	} else {
		scale = 1
	}
	if hi[axis] < dims[axis]-1 {
		hi[axis]++
	} else {
		scale = 1
	}
	if lo[axis] == hi[axis] {
		return 0
	}
	return (vol.At(hi[0], hi[1], hi[2]) - vol.At(lo[0], lo[1], lo[2])) * scale
}
