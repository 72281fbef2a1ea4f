// Package density computes signed voxel density fields for terrain chunks.
//
// A kernel is an immutable configuration bundle whose Invoke method computes
// exactly one output cell from a flat index. Invocations are pure functions
// of (index, configuration): they read shared immutable inputs, write one
// disjoint cell of the output volume, and never touch another invocation's
// cell. That makes a batch safe to run over any sharding of the index range
// with byte-identical results.
//
// Kernel equality and hashing exist for request deduplication: two equal
// kernels describe the same generation work, so a scheduler can skip the
// duplicate. Large shared buffers (heightmap samples, output storage)
// compare by reference identity, never by content.
package density

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"

	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/heightmap"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/voxel"
)

// airDensity is written for columns outside the heightmap's sampled extent:
// strictly positive, so out-of-extent space always reads as empty.
const airDensity = 1.0

var (
	// ErrNoVolume means a kernel was dispatched without an output volume.
	ErrNoVolume = errors.New("density: kernel has no output volume")
	// ErrNoHeightmap means a heightmap kernel has no samples to read.
	ErrNoHeightmap = errors.New("density: kernel has no heightmap")
)

// HeightmapKernel computes a density field from 2D height samples.
// The written value is wy - Amplitude*sample - HeightOffset: negative below
// the height surface (solid), positive above (air), zero on the iso-surface
// consumed by mesh extraction. It is an affine vertical displacement, not a
// true signed distance, which is the conventional cheap field for heightmap
// terrain.
//
// The zero value is not usable; populate every field and Validate before
// dispatch. The struct is copied freely; all referenced data is read-only
// for the duration of a batch except the output volume's disjoint cells.
type HeightmapKernel struct {
	Heightmap    *heightmap.Map
	Amplitude    float32
	HeightOffset float32
	WorldOffset  voxel.Vec3i
	Volume       *voxel.Volume
}

// Validate checks that the configuration is dispatchable. Configuration
// errors surface here, before any worker runs, so a batch never starts on
// inputs that would fault mid-flight.
func (k HeightmapKernel) Validate() error {
	if k.Volume == nil {
		return ErrNoVolume
	}
	if k.Heightmap == nil {
		return ErrNoHeightmap
	}
	need := k.Heightmap.Width * k.Heightmap.Height
	if len(k.Heightmap.Data) < need {
		return fmt.Errorf("density: heightmap has %d samples, need %d for %dx%d",
			len(k.Heightmap.Data), need, k.Heightmap.Width, k.Heightmap.Height)
	}
	return nil
}

// OutputVolume returns the volume this kernel writes into.
func (k HeightmapKernel) OutputVolume() *voxel.Volume {
	return k.Volume
}

// Invoke computes and writes the density for one flat index.
//
// Columns whose world X/Z fall outside [0, heightmap extent) get the air
// sentinel. The original implementation only checked the upper bound and
// read out of bounds for negative world coordinates; the lower-bound check
// here is deliberate hardening, so chunks at negative offsets produce air
// instead of sampling undefined memory.
func (k HeightmapKernel) Invoke(index int) error {
	x, y, z := voxel.IndexToXYZ(index, k.Volume.Width, k.Volume.Height)
	wx := x + k.WorldOffset.X
	wy := y + k.WorldOffset.Y
	wz := z + k.WorldOffset.Z

	result := float32(airDensity)
	if wx >= 0 && wx < k.Heightmap.Width && wz >= 0 && wz < k.Heightmap.Height {
		h := k.Amplitude * k.Heightmap.At(wx, wz)
		result = float32(wy) - h - k.HeightOffset
	}
	return k.Volume.SetVoxelData(result, index)
}

// Equal reports whether two kernels describe identical generation work.
// Heightmap and volume compare by reference identity.
func (k HeightmapKernel) Equal(o HeightmapKernel) bool {
	return k.Heightmap == o.Heightmap &&
		k.Amplitude == o.Amplitude &&
		k.HeightOffset == o.HeightOffset &&
		k.WorldOffset == o.WorldOffset &&
		k.Volume == o.Volume
}

// Hash returns a 64-bit hash consistent with Equal.
func (k HeightmapKernel) Hash() uint64 {
	h := fnv.New64a()
	writeUint64(h, ptrToken(k.Heightmap))
	writeUint32(h, math.Float32bits(k.Amplitude))
	writeUint32(h, math.Float32bits(k.HeightOffset))
	writeVec3i(h, k.WorldOffset)
	writeUint64(h, ptrToken(k.Volume))
	return h.Sum64()
}
