// Package mesh extracts triangle meshes from voxel density volumes using
// marching cubes. The iso-surface sits where the density crosses zero:
// negative cells are solid, positive cells are air.
package mesh

// Mesh is a triangle mesh with flat buffers: three floats per vertex in
// Vertices and Normals, three uint32 per triangle in Indices.
type Mesh struct {
	Vertices []float32
	Normals  []float32
	Indices  []uint32
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty reports whether the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// AppendTranslated appends o's geometry to m with its vertices shifted by
// (dx, dy, dz). Used to stitch per-chunk meshes into one world mesh: chunk
// extraction runs in local coordinates, the chunk's world offset comes in
// here.
func (m *Mesh) AppendTranslated(o *Mesh, dx, dy, dz float32) {
	base := uint32(m.VertexCount())
	for i := 0; i < o.VertexCount(); i++ {
		m.Vertices = append(m.Vertices,
			o.Vertices[i*3]+dx, o.Vertices[i*3+1]+dy, o.Vertices[i*3+2]+dz)
	}
	m.Normals = append(m.Normals, o.Normals...)
	for _, idx := range o.Indices {
		m.Indices = append(m.Indices, base+idx)
	}
}
