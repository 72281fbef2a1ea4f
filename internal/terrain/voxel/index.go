package voxel

// IndexToXYZ converts a flat index into local (x, y, z) coordinates for a
// volume of the given width and height. Inverse of XYZToIndex: x varies
// fastest, then y, then z.
func IndexToXYZ(index, width, height int) (x, y, z int) {
	x = index % width
	y = (index / width) % height
	z = index / (width * height)
	return x, y, z
}

// XYZToIndex converts local (x, y, z) coordinates into a flat index.
func XYZToIndex(x, y, z, width, height int) int {
	return x + y*width + z*width*height
}
