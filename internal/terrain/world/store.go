// Package world manages generated terrain chunks: a cache of density
// volumes keyed by chunk position, with duplicate generation requests
// detected through kernel equality instead of being recomputed.
package world

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/density"
	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/voxel"
)

// ChunkPos identifies a chunk by its position in chunk coordinates.
type ChunkPos struct {
	X, Y, Z int
}

// Keyed is a kernel that can act as a dedup cache key. Implementations must
// be comparable value types whose == matches their Equal method.
type Keyed interface {
	density.Kernel
	Hash() uint64
}

// KernelFactory builds the kernel for one chunk. The world offset positions
// the chunk's local voxel coordinates in world space; out is the volume the
// kernel writes into.
type KernelFactory func(offset voxel.Vec3i, out *voxel.Volume) Keyed

// Store caches generated chunk volumes. A chunk is regenerated only when
// the kernel built for it no longer equals the one that produced the cached
// result, so repeated identical requests cost one map lookup.
type Store struct {
	mu      sync.RWMutex
	chunks  map[ChunkPos]*voxel.Volume
	kernels map[ChunkPos]Keyed

	factory KernelFactory
	chunkW  int
	chunkH  int
	chunkD  int
	workers int
	log     *slog.Logger
}

// NewStore creates a Store generating chunks of the given dimensions.
func NewStore(chunkW, chunkH, chunkD, workers int, factory KernelFactory, log *slog.Logger) (*Store, error) {
	if chunkW < 1 || chunkH < 1 || chunkD < 1 {
		return nil, fmt.Errorf("world: invalid chunk dimensions %dx%dx%d", chunkW, chunkH, chunkD)
	}
	if factory == nil {
		return nil, fmt.Errorf("world: kernel factory required")
	}
	return &Store{
		chunks:  make(map[ChunkPos]*voxel.Volume),
		kernels: make(map[ChunkPos]Keyed),
		factory: factory,
		chunkW:  chunkW,
		chunkH:  chunkH,
		chunkD:  chunkD,
		workers: workers,
		log:     log,
	}, nil
}

// SetFactory swaps the kernel factory, e.g. after a live parameter change.
// Cached chunks whose kernels no longer match regenerate on next access.
func (s *Store) SetFactory(factory KernelFactory) {
	s.mu.Lock()
	s.factory = factory
	s.mu.Unlock()
}

// Offset returns the world offset of a chunk's local origin.
func (s *Store) Offset(pos ChunkPos) voxel.Vec3i {
	return voxel.Vec3i{X: pos.X * s.chunkW, Y: pos.Y * s.chunkH, Z: pos.Z * s.chunkD}
}

// GenerateChunk returns the density volume for pos, generating it if there
// is no cached result for an equal kernel configuration. The returned
// volume is fully populated; callers must not retain it across a factory
// change if they need a stable snapshot.
func (s *Store) GenerateChunk(ctx context.Context, pos ChunkPos) (*voxel.Volume, error) {
	s.mu.RLock()
	vol, cached := s.chunks[pos]
	prev, hasKernel := s.kernels[pos]
	factory := s.factory
	s.mu.RUnlock()

	if cached && hasKernel {
		candidate := factory(s.Offset(pos), vol)
		if candidate == prev {
			s.log.Debug("duplicate generation request, serving cached chunk",
				"pos", pos, "kernelHash", prev.Hash())
			return vol, nil
		}
	}

	out, err := voxel.New(s.chunkW, s.chunkH, s.chunkD)
	if err != nil {
		return nil, err
	}
	kernel := factory(s.Offset(pos), out)

	reqID := uuid.NewString()
	start := time.Now()
	s.log.Info("generating chunk", "request", reqID, "pos", pos, "kernelHash", kernel.Hash())

	if err := density.RunBatch(ctx, kernel, s.workers); err != nil {
		// A partially populated volume is unusable downstream; drop it and
		// report the chunk as failed so the caller can skip or retry.
		s.log.Error("chunk generation failed", "request", reqID, "pos", pos, "error", err)
		return nil, fmt.Errorf("generate chunk %v: %w", pos, err)
	}

	s.mu.Lock()
	// A concurrent request may have finished the same new chunk while the
	// batch ran; keep the first completed result so callers share one volume.
	if existing, ok := s.chunks[pos]; ok && !cached {
		s.mu.Unlock()
		return existing, nil
	}
	s.chunks[pos] = out
	s.kernels[pos] = kernel
	s.mu.Unlock()

	s.log.Info("chunk generated", "request", reqID, "pos", pos,
		"cells", out.Len(), "elapsed", time.Since(start))
	return out, nil
}

// Cached returns the cached volume for pos, if any.
func (s *Store) Cached(pos ChunkPos) (*voxel.Volume, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vol, ok := s.chunks[pos]
	return vol, ok
}

// Len returns the number of cached chunks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}
