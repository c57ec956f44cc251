/*
DESCRIPTION
  A motion detector operating on image.Image frames. The absolute difference
  of two frames is converted to intensity, blurred, thresholded and dilated
  into a binary mask from which the connected motion regions are found.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package motion

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/ausocean/theremin/config"
)

// Basic is a motion detector that works on image.Image frames without
// OpenCV.
type Basic struct {
	debugging debugWindows
	p         Params
}

// NewBasic returns a pointer to a new Basic detector using the motion
// parameters of c.
func NewBasic(c config.Config) *Basic {
	return &Basic{
		p:         ParamsFrom(c),
		debugging: newWindows("BASIC"),
	}
}

// Close frees any debugging resources.
func (b *Basic) Close() error {
	return b.debugging.close()
}

// Detect finds the largest motion region between prev and cur.
func (b *Basic) Detect(prev, cur image.Image) (Detection, error) {
	mask, err := Diff(prev, cur, b.p)
	if err != nil {
		return Detection{}, err
	}
	cs := Contours(mask)
	region, status := Select(cs, b.p.MinArea)

	// Draw debug information.
	b.debugging.show(cur, mask, status == Found, boxes(cs), fmt.Sprintf("Area: %.0f", region.Area), fmt.Sprintf("Threshold: %.0f", b.p.MinArea))

	return Detection{Status: status, Region: region, Size: cur.Bounds().Size()}, nil
}

// Diff computes the binary motion mask of two frames. The frames must be
// non-empty and have the same bounds. The returned mask has the same size as
// the frames with its origin at (0, 0); motion pixels are 0xff.
func Diff(prev, cur image.Image, p Params) (*image.Gray, error) {
	pb, cb := prev.Bounds(), cur.Bounds()
	if pb.Empty() || cb.Empty() {
		return nil, errEmptyFrame
	}
	if pb.Size() != cb.Size() {
		return nil, fmt.Errorf("%w: %v and %v", errSizeMismatch, pb.Size(), cb.Size())
	}

	w, h := cb.Dx(), cb.Dy()
	gray := image.NewGray(image.Rect(0, 0, w, h))

	// Use one goroutine per band of rows.
	const bands = 4
	var wg sync.WaitGroup
	for i := 0; i < bands; i++ {
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			for y := y0; y < y1; y++ {
				for x := 0; x < w; x++ {
					gray.Pix[y*gray.Stride+x] = absDiffGray(prev.At(pb.Min.X+x, pb.Min.Y+y), cur.At(cb.Min.X+x, cb.Min.Y+y))
				}
			}
		}(i*h/bands, (i+1)*h/bands)
	}
	wg.Wait()

	blurred := blur(gray, gaussianKernel(p.BlurKernel))
	threshold(blurred, p.DiffThreshold)
	for i := 0; i < p.DilateIterations; i++ {
		blurred = dilate(blurred)
	}
	return blurred, nil
}

// absDiffGray returns the intensity of the per channel absolute difference of
// two colours, using the ITU-R BT.601 weights.
func absDiffGray(a, b color.Color) uint8 {
	ar, ag, ab, _ := a.RGBA()
	br, bg, bb, _ := b.RGBA()
	dr := float64(absDiff(ar>>8, br>>8))
	dg := float64(absDiff(ag>>8, bg>>8))
	db := float64(absDiff(ab>>8, bb>>8))
	return uint8(math.Round(0.299*dr + 0.587*dg + 0.114*db))
}

// Returns the absolute value of the difference of two uint32 numbers.
func absDiff(a, b uint32) int {
	c := int(a) - int(b)
	if c < 0 {
		return -c
	}
	return c
}

// gaussianKernel returns the normalised 1D Gaussian kernel of size n. Sizes up
// to 7 use the fixed binomial tables OpenCV uses when sigma is not given,
// larger sizes derive sigma from the size in the same way OpenCV does.
func gaussianKernel(n int) []float64 {
	switch n {
	case 1:
		return []float64{1}
	case 3:
		return []float64{0.25, 0.5, 0.25}
	case 5:
		return []float64{0.0625, 0.25, 0.375, 0.25, 0.0625}
	case 7:
		return []float64{0.03125, 0.109375, 0.21875, 0.28125, 0.21875, 0.109375, 0.03125}
	}
	sigma := 0.3*(float64(n-1)*0.5-1) + 0.8
	k := make([]float64, n)
	var sum float64
	for i := range k {
		x := float64(i - n/2)
		k[i] = math.Exp(-x * x / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// blur applies the separable kernel k to img horizontally then vertically.
// Borders are reflected without repeating the edge pixel.
func blur(img *image.Gray, k []float64) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	r := len(k) / 2

	tmp := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var s float64
			for i, kv := range k {
				s += kv * float64(img.Pix[y*img.Stride+reflect101(x+i-r, w)])
			}
			tmp[y*w+x] = s
		}
	}

	out := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var s float64
			for i, kv := range k {
				s += kv * tmp[reflect101(y+i-r, h)*w+x]
			}
			out.Pix[y*out.Stride+x] = uint8(math.Min(math.Round(s), 255))
		}
	}
	return out
}

// reflect101 maps i into [0, n) by reflecting about the edges, e.g.
// -1 maps to 1 and n maps to n-2.
func reflect101(i, n int) int {
	if n == 1 {
		return 0
	}
	for i < 0 || i >= n {
		if i < 0 {
			i = -i
		}
		if i >= n {
			i = 2*n - 2 - i
		}
	}
	return i
}

// threshold binarises img in place; pixels above t become 0xff and all
// others 0.
func threshold(img *image.Gray, t float64) {
	for i, v := range img.Pix {
		if float64(v) > t {
			img.Pix[i] = 0xff
		} else {
			img.Pix[i] = 0
		}
	}
}

// dilate returns img dilated by a 3x3 rectangular structuring element.
// Pixels outside the image do not contribute.
func dilate(img *image.Gray) *image.Gray {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	rows := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var m uint8
			for dx := -1; dx <= 1; dx++ {
				if xx := x + dx; xx >= 0 && xx < w && img.Pix[y*img.Stride+xx] > m {
					m = img.Pix[y*img.Stride+xx]
				}
			}
			rows.Pix[y*rows.Stride+x] = m
		}
	}

	out := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var m uint8
			for dy := -1; dy <= 1; dy++ {
				if yy := y + dy; yy >= 0 && yy < h && rows.Pix[yy*rows.Stride+x] > m {
					m = rows.Pix[yy*rows.Stride+x]
				}
			}
			out.Pix[y*out.Stride+x] = m
		}
	}
	return out
}
