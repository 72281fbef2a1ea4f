package density

import (
	"context"
	"errors"
	"testing"

	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/heightmap"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/voxel"
)

func flatMap(t *testing.T, w, h int, value float32) *heightmap.Map {
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

func mustVolume(t *testing.T, w, h, d int) *voxel.Volume {
	t.Helper()
	vol, err := voxel.New(w, h, d)
	if err != nil {
		t.Fatalf("voxel.New: %v", err)
	}
	return vol
}

func TestHeightmapKernelWorkedExample(t *testing.T) {
	// 2x2 all-zero heightmap, amplitude 10, 2x5x2 volume: local (0,3,0) is
	// in bounds and must come out as 3 - 0 - 0 = 3.
	k := HeightmapKernel{
		Heightmap: flatMap(t, 2, 2, 0),
		Amplitude: 10,
		Volume:    mustVolume(t, 2, 5, 2),
	}
	if err := RunBatch(context.Background(), k, 1); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	idx := voxel.XYZToIndex(0, 3, 0, 2, 5)
	got, err := k.Volume.GetVoxelData(idx)
	if err != nil {
		t.Fatalf("GetVoxelData: %v", err)
	}
	if got != 3 {
		t.Errorf("voxel (0,3,0) = %f, want 3", got)
	}
}

func TestHeightmapKernelBoundarySentinel(t *testing.T) {
	// Volume wider than the heightmap: world x >= 2 must be exactly 1.0.
	k := HeightmapKernel{
		Heightmap: flatMap(t, 2, 2, 0.5),
		Amplitude: 10,
		Volume:    mustVolume(t, 4, 3, 4),
	}
	if err := RunBatch(context.Background(), k, 1); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	for z := 0; z < 4; z++ {
		for y := 0; y < 3; y++ {
			for x := 0; x < 4; x++ {
				got := k.Volume.At(x, y, z)
				if x >= 2 || z >= 2 {
					if got != 1.0 {
						t.Fatalf("out-of-extent voxel (%d,%d,%d) = %f, want 1.0", x, y, z, got)
					}
				} else if want := float32(y) - 5; got != want {
					t.Fatalf("in-extent voxel (%d,%d,%d) = %f, want %f", x, y, z, got, want)
				}
			}
		}
	}
}

func TestHeightmapKernelNegativeWorldCoordsAreAir(t *testing.T) {
	// Chunks at negative world offsets must read as air, not sample the
	// heightmap out of bounds.
	k := HeightmapKernel{
		Heightmap:   flatMap(t, 8, 8, 1),
		Amplitude:   4,
		WorldOffset: voxel.Vec3i{X: -2, Y: 0, Z: -2},
		Volume:      mustVolume(t, 4, 4, 4),
	}
	if err := RunBatch(context.Background(), k, 1); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	for z := 0; z < 4; z++ {
		for y := 0; y < 4; y++ {
			for x := 0; x < 4; x++ {
				got := k.Volume.At(x, y, z)
				if x < 2 || z < 2 {
					if got != 1.0 {
						t.Fatalf("negative-world voxel (%d,%d,%d) = %f, want 1.0", x, y, z, got)
					}
				} else {
					want := float32(y) - 4
					if got != want {
						t.Fatalf("voxel (%d,%d,%d) = %f, want %f", x, y, z, got, want)
					}
				}
			}
		}
	}
}

func TestHeightmapKernelAffineCorrectness(t *testing.T) {
	data := []float32{0.25, 0.5, 0.75, 1.0}
	m, err := heightmap.New(2, 2, data)
	if err != nil {
		t.Fatalf("heightmap.New: %v", err)
	}
	k := HeightmapKernel{
		Heightmap:    m,
		Amplitude:    8,
		HeightOffset: 1.5,
		Volume:       mustVolume(t, 2, 6, 2),
	}
	if err := RunBatch(context.Background(), k, 1); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	for z := 0; z < 2; z++ {
		for y := 0; y < 6; y++ {
			for x := 0; x < 2; x++ {
				want := float32(y) - 8*data[x+z*2] - 1.5
				if got := k.Volume.At(x, y, z); got != want {
					t.Fatalf("voxel (%d,%d,%d) = %f, want %f", x, y, z, got, want)
				}
			}
		}
	}
}

func TestRunBatchDeterministicAcrossWorkerCounts(t *testing.T) {
	m := flatMap(t, 32, 32, 0.5)
	run := func(workers int) []float32 {
		k := HeightmapKernel{
			Heightmap:    m,
			Amplitude:    20,
			HeightOffset: 3,
			Volume:       mustVolume(t, 32, 16, 32),
		}
		if err := RunBatch(context.Background(), k, workers); err != nil {
			t.Fatalf("RunBatch(workers=%d): %v", workers, err)
		}
		return k.Volume.Data
	}

	reference := run(1)
	for _, workers := range []int{2, 8} {
		got := run(workers)
		for i := range reference {
			if got[i] != reference[i] {
				t.Fatalf("workers=%d: cell %d = %f, want %f", workers, i, got[i], reference[i])
			}
		}
	}
}

func TestHeightmapKernelValidate(t *testing.T) {
	m := flatMap(t, 2, 2, 0)
	vol := mustVolume(t, 2, 2, 2)

	if err := (HeightmapKernel{Heightmap: m}).Validate(); !errors.Is(err, ErrNoVolume) {
		t.Errorf("missing volume: got %v", err)
	}
	if err := (HeightmapKernel{Volume: vol}).Validate(); !errors.Is(err, ErrNoHeightmap) {
		t.Errorf("missing heightmap: got %v", err)
	}

	short := &heightmap.Map{Width: 4, Height: 4, Data: make([]float32, 4)}
	if err := (HeightmapKernel{Heightmap: short, Volume: vol}).Validate(); err == nil {
		t.Error("undersized heightmap data should fail validation")
	}

	if err := (HeightmapKernel{Heightmap: m, Volume: vol}).Validate(); err != nil {
		t.Errorf("valid kernel rejected: %v", err)
	}
}

type failingKernel struct {
	vol *voxel.Volume
	err error
}

func (f failingKernel) Validate() error             { return nil }
func (f failingKernel) OutputVolume() *voxel.Volume { return f.vol }

func (f failingKernel) Invoke(index int) error {
	if index == 5 {
		return f.err
	}
	return f.vol.SetVoxelData(0, index)
}

func TestRunBatchAbortsOnInvocationError(t *testing.T) {
	boom := errors.New("boom")
	k := failingKernel{vol: mustVolume(t, 4, 4, 4), err: boom}
	if err := RunBatch(context.Background(), k, 2); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
}
