package world

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/density"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/heightmap"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/voxel"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testFactory(m *heightmap.Map, amplitude float32) KernelFactory {
	return func(offset voxel.Vec3i, out *voxel.Volume) Keyed {
		return density.HeightmapKernel{
			Heightmap:   m,
			Amplitude:   amplitude,
			WorldOffset: offset,
			Volume:      out,
		}
	}
}

func testMap(t *testing.T, w, h int, value float32) *heightmap.Map {
	t.Helper()
	data := make([]float32, w*h)
	for i := range data {
		data[i] = value
	}
	m, err := heightmap.New(w, h, data)
	if err != nil {
		t.Fatalf("heightmap.New: %v", err)
	}
	return m
}

func TestGenerateChunkPopulatesVolume(t *testing.T) {
	m := testMap(t, 32, 32, 0.5)
	s, err := NewStore(16, 16, 16, 2, testFactory(m, 10), testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	vol, err := s.GenerateChunk(context.Background(), ChunkPos{})
	if err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}

	// amplitude*sample = 5, so (0, y, 0) = y - 5.
	for y := 0; y < 16; y++ {
		if got, want := vol.At(0, y, 0), float32(y)-5; got != want {
			t.Fatalf("voxel (0,%d,0) = %f, want %f", y, got, want)
		}
	}
}

func TestGenerateChunkAppliesWorldOffset(t *testing.T) {
	m := testMap(t, 64, 64, 0.5)
	s, err := NewStore(16, 16, 16, 1, testFactory(m, 10), testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	// Chunk (0,1,0) spans world y in [16, 32): (x, 0, z) = 16 - 5 = 11.
	vol, err := s.GenerateChunk(context.Background(), ChunkPos{Y: 1})
	if err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}
	if got := vol.At(3, 0, 3); got != 11 {
		t.Errorf("voxel (3,0,3) of chunk y=1 = %f, want 11", got)
	}

	// Chunk (3,0,0) spans world x in [48, 64): still inside the heightmap.
	vol, err = s.GenerateChunk(context.Background(), ChunkPos{X: 3})
	if err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}
	if got := vol.At(0, 2, 0); got != -3 {
		t.Errorf("voxel (0,2,0) of chunk x=3 = %f, want -3", got)
	}

	// Chunk (4,0,0) spans world x in [64, 80): outside, all air sentinel.
	vol, err = s.GenerateChunk(context.Background(), ChunkPos{X: 4})
	if err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}
	if got := vol.At(0, 0, 0); got != 1.0 {
		t.Errorf("out-of-extent chunk voxel = %f, want 1.0", got)
	}
}

func TestGenerateChunkDedupesIdenticalRequests(t *testing.T) {
	m := testMap(t, 32, 32, 0.5)
	s, err := NewStore(8, 8, 8, 1, testFactory(m, 10), testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	first, err := s.GenerateChunk(context.Background(), ChunkPos{X: 1})
	if err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}
	second, err := s.GenerateChunk(context.Background(), ChunkPos{X: 1})
	if err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}
	if first != second {
		t.Error("identical request should return the cached volume, not regenerate")
	}
	if s.Len() != 1 {
		t.Errorf("store holds %d chunks, want 1", s.Len())
	}
}

func TestSetFactoryInvalidatesCachedChunk(t *testing.T) {
	m := testMap(t, 32, 32, 0.5)
	s, err := NewStore(8, 8, 8, 1, testFactory(m, 10), testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	pos := ChunkPos{}
	first, err := s.GenerateChunk(context.Background(), pos)
	if err != nil {
		t.Fatalf("GenerateChunk: %v", err)
	}
	if got := first.At(0, 0, 0); got != -5 {
		t.Fatalf("voxel (0,0,0) = %f, want -5", got)
	}

	s.SetFactory(testFactory(m, 4))
	second, err := s.GenerateChunk(context.Background(), pos)
	if err != nil {
		t.Fatalf("GenerateChunk after SetFactory: %v", err)
	}
	if second == first {
		t.Fatal("changed configuration should regenerate, not serve the cache")
	}
	if got := second.At(0, 0, 0); got != -2 {
		t.Errorf("voxel (0,0,0) after amplitude change = %f, want -2", got)
	}
}

func TestGenerateChunkConcurrent(t *testing.T) {
	m := testMap(t, 64, 64, 0.25)
	s, err := NewStore(16, 16, 16, 2, testFactory(m, 8), testLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	pos := ChunkPos{X: 2, Z: 1}
	var wg sync.WaitGroup
	vols := make([]*voxel.Volume, 8)
	for i := range vols {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := s.GenerateChunk(context.Background(), pos)
			if err != nil {
				t.Errorf("GenerateChunk: %v", err)
				return
			}
			vols[i] = v
		}(i)
	}
	wg.Wait()

	// All racers see complete, identical data for the chunk.
	for i := 1; i < len(vols); i++ {
		if vols[i] == nil || vols[0] == nil {
			t.Fatal("missing volume from concurrent generation")
		}
		for c := range vols[0].Data {
			if vols[i].Data[c] != vols[0].Data[c] {
				t.Fatalf("concurrent volumes diverge at cell %d", c)
			}
		}
	}
}
