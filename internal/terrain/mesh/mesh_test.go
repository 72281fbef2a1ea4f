package mesh

import "testing"

func TestMeshCounts(t *testing.T) {
	m := &Mesh{
		Vertices: make([]float32, 9),
		Normals:  make([]float32, 9),
		Indices:  []uint32{0, 1, 2},
	}
	if m.VertexCount() != 3 {
		t.Errorf("VertexCount = %d, want 3", m.VertexCount())
	}
	if m.TriangleCount() != 1 {
		t.Errorf("TriangleCount = %d, want 1", m.TriangleCount())
	}
	if m.IsEmpty() {
		t.Error("mesh with vertices reported empty")
	}
	if !(&Mesh{}).IsEmpty() {
		t.Error("zero mesh not reported empty")
	}
}

func TestAppendTranslated(t *testing.T) {
	a := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
	}
	b := &Mesh{
		Vertices: []float32{0, 0, 0, 0, 1, 0, 0, 0, 1},
		Normals:  []float32{1, 0, 0, 1, 0, 0, 1, 0, 0},
		Indices:  []uint32{0, 1, 2},
	}

	a.AppendTranslated(b, 16, 0, 32)

	if a.VertexCount() != 6 || a.TriangleCount() != 2 {
		t.Fatalf("merged mesh has %d vertices, %d triangles", a.VertexCount(), a.TriangleCount())
	}
	// b's first vertex lands at (16, 0, 32).
	if a.Vertices[9] != 16 || a.Vertices[10] != 0 || a.Vertices[11] != 32 {
		t.Errorf("translated vertex = (%f,%f,%f), want (16,0,32)",
			a.Vertices[9], a.Vertices[10], a.Vertices[11])
	}
	// b's indices are rebased past a's vertices.
	if a.Indices[3] != 3 || a.Indices[4] != 4 || a.Indices[5] != 5 {
		t.Errorf("rebased indices = %v, want [3 4 5]", a.Indices[3:6])
	}
	// Normals are direction vectors; translation must not touch them.
	if a.Normals[9] != 1 || a.Normals[10] != 0 || a.Normals[11] != 0 {
		t.Errorf("normal changed by translation: %v", a.Normals[9:12])
	}
}
