package density

import (
	"context"
	"fmt"

	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/sched"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/voxel"
)

// Kernel is one per-index density computation plus its configuration.
// Invoke must be a pure function of the index and the kernel's fields,
// writing only the output cell owned by that index.
type Kernel interface {
	Validate() error
	OutputVolume() *voxel.Volume
	Invoke(index int) error
}

// RunBatch runs one invocation per cell of the kernel's output volume,
// spread over the given number of workers (<= 0 means one per CPU).
//
// The batch either completes in full or fails as a whole: the first
// invocation error aborts the rest, and the volume's contents are undefined
// until RunBatch returns nil. Results are identical for any worker count.
func RunBatch(ctx context.Context, k Kernel, workers int) error {
	if err := k.Validate(); err != nil {
		return err
	}
	vol := k.OutputVolume()
	if err := sched.ParallelFor(ctx, vol.Len(), workers, k.Invoke); err != nil {
		return fmt.Errorf("density batch: %w", err)
	}
	return nil
}
