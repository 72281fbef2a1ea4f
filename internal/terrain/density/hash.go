package density

import (
	"encoding/binary"
	"hash"
	"reflect"

	"github.com/heatonlan/marching-cubes-terrain/internal/terrain/voxel"
)

// ptrToken returns an identity key for a shared reference. Hashing the
// address keeps dedup cheap; hashing buffer contents would defeat the point
// of using equality as a cache key.
func ptrToken[T any](p *T) uint64 {
	if p == nil {
		return 0
	}
	return uint64(reflect.ValueOf(p).Pointer())
}

func writeUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	h.Write(buf[:])
}

func writeUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	h.Write(buf[:])
}

func writeVec3i(h hash.Hash64, v voxel.Vec3i) {
	writeUint64(h, uint64(int64(v.X)))
	writeUint64(h, uint64(int64(v.Y)))
	writeUint64(h, uint64(int64(v.Z)))
}
