package density

import (
	"errors"
	"hash/fnv"
	"math"

	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/noise"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/voxel"
)

// ErrNoNoise means a noise kernel has no generator to sample.
var ErrNoNoise = errors.New("density: kernel has no noise generator")

// NoiseKernel computes a fully 3D density field from layered simplex noise
// plus a vertical gradient, allowing overhangs and caves that a heightmap
// cannot express. Sign convention matches HeightmapKernel: negative is
// solid, positive is air.
type NoiseKernel struct {
	Noise       *noise.Generator
	Frequency   float64
	Octaves     int
	Persistence float64
	BaseHeight  float64
	Gradient    float64
	WorldOffset voxel.Vec3i
	Volume      *voxel.Volume
}

// Validate checks that the configuration is dispatchable.
func (k NoiseKernel) Validate() error {
	if k.Volume == nil {
		return ErrNoVolume
	}
	if k.Noise == nil {
		return ErrNoNoise
	}
	if k.Octaves < 1 {
		return errors.New("density: noise kernel needs at least one octave")
	}
	if k.Gradient == 0 {
		return errors.New("density: noise kernel gradient must be non-zero")
	}
	return nil
}

// OutputVolume returns the volume this kernel writes into.
func (k NoiseKernel) OutputVolume() *voxel.Volume {
	return k.Volume
}

// Invoke computes and writes the density for one flat index.
// Below BaseHeight the gradient pulls density negative (solid); the noise
// term perturbs the surface so terrain is not a flat slab.
func (k NoiseKernel) Invoke(index int) error {
	x, y, z := voxel.IndexToXYZ(index, k.Volume.Width, k.Volume.Height)
	wx := float64(x + k.WorldOffset.X)
	wy := float64(y + k.WorldOffset.Y)
	wz := float64(z + k.WorldOffset.Z)

	n := k.Noise.Octave3(wx*k.Frequency, wy*k.Frequency, wz*k.Frequency, k.Octaves, k.Persistence)
	d := n + (k.BaseHeight-wy)/k.Gradient

	// Solid regions are negative in this field.
	return k.Volume.SetVoxelData(float32(-d), index)
}

// Equal reports whether two kernels describe identical generation work.
// The noise generator and volume compare by reference identity.
func (k NoiseKernel) Equal(o NoiseKernel) bool {
	return k.Noise == o.Noise &&
		k.Frequency == o.Frequency &&
		k.Octaves == o.Octaves &&
		k.Persistence == o.Persistence &&
		k.BaseHeight == o.BaseHeight &&
		k.Gradient == o.Gradient &&
		k.WorldOffset == o.WorldOffset &&
		k.Volume == o.Volume
}

// Hash returns a 64-bit hash consistent with Equal.
func (k NoiseKernel) Hash() uint64 {
	h := fnv.New64a()
	writeUint64(h, ptrToken(k.Noise))
	writeUint64(h, math.Float64bits(k.Frequency))
	writeUint64(h, uint64(int64(k.Octaves)))
	writeUint64(h, math.Float64bits(k.Persistence))
	writeUint64(h, math.Float64bits(k.BaseHeight))
	writeUint64(h, math.Float64bits(k.Gradient))
	writeVec3i(h, k.WorldOffset)
	writeUint64(h, ptrToken(k.Volume))
	return h.Sum64()
}
