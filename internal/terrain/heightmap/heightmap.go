// Package heightmap holds 2D terrain height samples and imports them from
// raster images. One sample covers one world unit on the X/Z plane.
package heightmap

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Map is a row-major grid of height samples in [0, 1].
// Index = x + z*Width. The data is shared read-only between all kernel
// invocations of a batch; nothing mutates it after construction, so
// kernels compare maps by pointer identity, never by content.
type Map struct {
	Width  int
	Height int
	Data   []float32
}

// New wraps existing samples in a Map. The slice is referenced, not copied;
// len(data) must be at least width*height.
func New(width, height int, data []float32) (*Map, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("heightmap: invalid dimensions %dx%d", width, height)
	}
	if len(data) < width*height {
		return nil, fmt.Errorf("heightmap: %d samples for %dx%d map (need %d)",
			len(data), width, height, width*height)
	}
	return &Map{Width: width, Height: height, Data: data}, nil
}

// FromImage converts an image into height samples. The image is converted
// to grayscale and each pixel's luminance is normalized to [0, 1].
func FromImage(img image.Image) *Map {
	gray := imaging.Grayscale(img)
	b := gray.Bounds()
	w, h := b.Dx(), b.Dy()

	data := make([]float32, w*h)
	for z := 0; z < h; z++ {
		row := gray.Pix[z*gray.Stride:]
		for x := 0; x < w; x++ {
			// Grayscale NRGBA: R == G == B.
			data[x+z*w] = float32(row[x*4]) / 255.0
		}
	}
	return &Map{Width: w, Height: h, Data: data}
}

// Load reads an image file and converts it into a Map.
func Load(path string) (*Map, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open heightmap %s: %w", path, err)
	}
	return FromImage(img), nil
}

// LoadScaled reads an image file, resamples it to width×height, and
// converts it into a Map. Lets one source image drive worlds of any extent.
func LoadScaled(path string, width, height int) (*Map, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("heightmap: invalid target dimensions %dx%d", width, height)
	}
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open heightmap %s: %w", path, err)
	}
	resized := imaging.Resize(img, width, height, imaging.Lanczos)
	return FromImage(resized), nil
}

// At returns the sample at (x, z). Coordinates must be within the map's
// extent; the kernel checks bounds before sampling.
func (m *Map) At(x, z int) float32 {
	return m.Data[x+z*m.Width]
}
