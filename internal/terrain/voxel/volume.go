package voxel

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned when a flat index falls outside a volume's
// backing storage. Writes at invalid indices are never clamped; a bad index
// is a caller bug and clamping it would corrupt a neighbouring voxel.
var ErrIndexOutOfRange = errors.New("voxel: index out of range")

// Vec3i is an integer 3-vector, used for world-space offsets.
type Vec3i struct {
	X, Y, Z int
}

// Add returns the component-wise sum of v and o.
func (v Vec3i) Add(o Vec3i) Vec3i {
	return Vec3i{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Volume is a dense 3D scalar field with fixed dimensions.
// Cells are stored in a flat slice ordered x + y*Width + z*Width*Height
// (x fastest-varying). Values are signed distance-like densities: negative
// below the surface, positive above, with the iso-surface at zero.
//
// Concurrent writes to distinct flat indices are safe; no cell is written
// by more than one invocation during a generation batch.
type Volume struct {
	Width  int
	Height int
	Depth  int
	Data   []float32
}

// New allocates a Volume of the given dimensions.
func New(width, height, depth int) (*Volume, error) {
	if width < 1 || height < 1 || depth < 1 {
		return nil, fmt.Errorf("voxel: invalid volume dimensions %dx%dx%d", width, height, depth)
	}
	return &Volume{
		Width:  width,
		Height: height,
		Depth:  depth,
		Data:   make([]float32, width*height*depth),
	}, nil
}

// Len returns the number of cells in the volume.
func (v *Volume) Len() int {
	return v.Width * v.Height * v.Depth
}

// SetVoxelData writes value into the cell at the given flat index.
func (v *Volume) SetVoxelData(value float32, index int) error {
	if index < 0 || index >= len(v.Data) {
		return fmt.Errorf("%w: %d (volume %dx%dx%d)", ErrIndexOutOfRange, index, v.Width, v.Height, v.Depth)
	}
	v.Data[index] = value
	return nil
}

// GetVoxelData returns the value of the cell at the given flat index.
func (v *Volume) GetVoxelData(index int) (float32, error) {
	if index < 0 || index >= len(v.Data) {
		return 0, fmt.Errorf("%w: %d (volume %dx%dx%d)", ErrIndexOutOfRange, index, v.Width, v.Height, v.Depth)
	}
	return v.Data[index], nil
}

// At returns the value at (x, y, z) without bounds checking.
// Coordinates must be valid by construction.
func (v *Volume) At(x, y, z int) float32 {
	return v.Data[x+y*v.Width+z*v.Width*v.Height]
}
