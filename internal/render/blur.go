package render

import (
	"image"
	"math"

	"gonum.org/v1/gonum/floats"
)

// gaussianKernel returns a normalised 1-D kernel of length 2*radius+1
func gaussianKernel(radius int) []float64 {
	sigma := math.Max(float64(radius)/2, 0.5)
	k := make([]float64, 2*radius+1)
	for i := range k {
		x := float64(i - radius)
		k[i] = math.Exp(-(x * x) / (2 * sigma * sigma))
	}
	floats.Scale(1/floats.Sum(k), k)
	return k
}

// Blur returns a Gaussian-smoothed copy of src. It runs a horizontal then a
// vertical pass, clamping at the image edges. A radius below 1 returns an
// unmodified copy. The output depends only on src and radius.
func Blur(src *image.NRGBA, radius int) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	if radius < 1 {
		copy(dst.Pix, src.Pix)
		return dst
	}

	w, h := b.Dx(), b.Dy()
	k := gaussianKernel(radius)
	tmp := make([]float64, w*h*4)

	// Horizontal pass into tmp
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			var acc [4]float64
			for i, kw := range k {
				sx := clampIndex(x+i-radius, w)
				p := row[sx*4 : sx*4+4]
				acc[0] += kw * float64(p[0])
				acc[1] += kw * float64(p[1])
				acc[2] += kw * float64(p[2])
				acc[3] += kw * float64(p[3])
			}
			copy(tmp[(y*w+x)*4:], acc[:])
		}
	}

	// Vertical pass into dst
	for y := 0; y < h; y++ {
		out := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			var acc [4]float64
			for i, kw := range k {
				sy := clampIndex(y+i-radius, h)
				p := tmp[(sy*w+x)*4 : (sy*w+x)*4+4]
				acc[0] += kw * p[0]
				acc[1] += kw * p[1]
				acc[2] += kw * p[2]
				acc[3] += kw * p[3]
			}
			for c := 0; c < 4; c++ {
				out[x*4+c] = toByte(acc[c])
			}
		}
	}

	return dst
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func toByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
