// Package export writes extracted terrain meshes to disk.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/mesh"
)

// WriteOBJ writes m as Wavefront OBJ: vertex positions, vertex normals,
// and faces referencing both. OBJ indices are 1-based.
func WriteOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	for i := 0; i < m.VertexCount(); i++ {
		if _, err := fmt.Fprintf(bw, "v %g %g %g\n",
			m.Vertices[i*3], m.Vertices[i*3+1], m.Vertices[i*3+2]); err != nil {
			return fmt.Errorf("write vertex: %w", err)
		}
	}
	for i := 0; i < len(m.Normals)/3; i++ {
		if _, err := fmt.Fprintf(bw, "vn %g %g %g\n",
			m.Normals[i*3], m.Normals[i*3+1], m.Normals[i*3+2]); err != nil {
			return fmt.Errorf("write normal: %w", err)
		}
	}
	for i := 0; i < m.TriangleCount(); i++ {
		a := m.Indices[i*3] + 1
		b := m.Indices[i*3+1] + 1
		c := m.Indices[i*3+2] + 1
		if _, err := fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a, a, b, b, c, c); err != nil {
			return fmt.Errorf("write face: %w", err)
		}
	}
	return bw.Flush()
}

// Save writes m to path as OBJ. A path ending in .gz is gzip-compressed;
// terrain meshes are text-heavy and compress well.
func Save(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	var w io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		gz = gzip.NewWriter(f)
		w = gz
	}

	if err := WriteOBJ(w, m); err != nil {
		f.Close()
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			f.Close()
			return fmt.Errorf("flush gzip %s: %w", path, err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
