package density

import (
	"context"
	"testing"

	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/noise"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/voxel"
)

func TestHeightmapKernelEqualityAndHash(t *testing.T) {
	m := flatMap(t, 4, 4, 0.5)
	vol := mustVolume(t, 4, 4, 4)

	base := HeightmapKernel{
		Heightmap:    m,
		Amplitude:    10,
		HeightOffset: 2,
		WorldOffset:  voxel.Vec3i{X: 1, Y: 2, Z: 3},
		Volume:       vol,
	}
	same := base

	if !base.Equal(same) {
		t.Fatal("identical kernels should be equal")
	}
	if base.Hash() != same.Hash() {
		t.Fatal("equal kernels must have equal hashes")
	}

	variants := map[string]HeightmapKernel{
		"amplitude":    {Heightmap: m, Amplitude: 11, HeightOffset: 2, WorldOffset: base.WorldOffset, Volume: vol},
		"heightOffset": {Heightmap: m, Amplitude: 10, HeightOffset: 3, WorldOffset: base.WorldOffset, Volume: vol},
		"worldOffset":  {Heightmap: m, Amplitude: 10, HeightOffset: 2, WorldOffset: voxel.Vec3i{X: 9}, Volume: vol},
		"heightmap":    {Heightmap: flatMap(t, 4, 4, 0.5), Amplitude: 10, HeightOffset: 2, WorldOffset: base.WorldOffset, Volume: vol},
		"volume":       {Heightmap: m, Amplitude: 10, HeightOffset: 2, WorldOffset: base.WorldOffset, Volume: mustVolume(t, 4, 4, 4)},
	}
	for name, v := range variants {
		if base.Equal(v) {
			t.Errorf("kernel differing in %s should not be equal", name)
		}
		if base.Hash() == v.Hash() {
			t.Errorf("kernel differing in %s should hash differently", name)
		}
	}
}

func TestHeightmapEqualityIsIdentityNotContent(t *testing.T) {
	// Two maps with identical contents are distinct cache keys: equality is
	// reference identity, not a deep compare of the sample buffer.
	a := flatMap(t, 8, 8, 0.25)
	b := flatMap(t, 8, 8, 0.25)
	vol := mustVolume(t, 2, 2, 2)

	ka := HeightmapKernel{Heightmap: a, Amplitude: 1, Volume: vol}
	kb := HeightmapKernel{Heightmap: b, Amplitude: 1, Volume: vol}
	if ka.Equal(kb) {
		t.Error("kernels over distinct heightmap instances should not be equal")
	}
}

func TestNoiseKernelEqualityAndHash(t *testing.T) {
	ng := noise.New(7)
	vol := mustVolume(t, 4, 4, 4)

	base := NoiseKernel{
		Noise:       ng,
		Frequency:   1.0 / 32.0,
		Octaves:     4,
		Persistence: 0.5,
		BaseHeight:  16,
		Gradient:    8,
		Volume:      vol,
	}
	same := base
	if !base.Equal(same) || base.Hash() != same.Hash() {
		t.Fatal("identical noise kernels should be equal with equal hashes")
	}

	other := base
	other.Octaves = 5
	if base.Equal(other) || base.Hash() == other.Hash() {
		t.Error("kernel differing in octaves should be unequal with different hash")
	}

	reseeded := base
	reseeded.Noise = noise.New(7)
	if base.Equal(reseeded) {
		t.Error("kernels over distinct generator instances should not be equal")
	}
}

func TestNoiseKernelBatchDeterministic(t *testing.T) {
	ng := noise.New(99)
	run := func(workers int) []float32 {
		k := NoiseKernel{
			Noise:       ng,
			Frequency:   1.0 / 16.0,
			Octaves:     3,
			Persistence: 0.5,
			BaseHeight:  8,
			Gradient:    8,
			Volume:      mustVolume(t, 16, 16, 16),
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

func TestNoiseKernelSolidBelowSurface(t *testing.T) {
	k := NoiseKernel{
		Noise:       noise.New(1),
		Frequency:   1.0 / 32.0,
		Octaves:     2,
		Persistence: 0.5,
		BaseHeight:  32,
		Gradient:    4,
		Volume:      mustVolume(t, 8, 64, 8),
	}
	if err := RunBatch(context.Background(), k, 0); err != nil {
		t.Fatalf("RunBatch: %v", err)
	}

	// Far below the base height the gradient dominates the noise term
	// (|noise| <= 1, gradient contribution at y=0 is 32/4 = 8), so the
	// bottom layer must be solid and the top layer air.
	for x := 0; x < 8; x++ {
		for z := 0; z < 8; z++ {
			if d := k.Volume.At(x, 0, z); d >= 0 {
				t.Fatalf("bottom voxel (%d,0,%d) = %f, want negative (solid)", x, z, d)
			}
			if d := k.Volume.At(x, 63, z); d <= 0 {
				t.Fatalf("top voxel (%d,63,%d) = %f, want positive (air)", x, z, d)
			}
		}
	}
}
