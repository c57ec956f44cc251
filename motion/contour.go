/*
DESCRIPTION
  contour.go finds the 8-connected foreground regions of a binary mask.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package motion

import "image"

// Contours returns the 8-connected regions of non-zero pixels in mask. The
// area of a region is its pixel count. Regions are ordered by their first
// pixel in raster order, so the result is deterministic and Select breaks
// ties in favour of the top-most, then left-most, region.
func Contours(mask *image.Gray) []Contour {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	seen := make([]bool, w*h)

	var (
		cs    []Contour
		stack []int
	)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if seen[i] || mask.Pix[y*mask.Stride+x] == 0 {
				continue
			}

			box := image.Rect(x, y, x+1, y+1)
			var n int
			seen[i] = true
			stack = append(stack[:0], i)
			for len(stack) > 0 {
				j := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				n++
				px, py := j%w, j/w
				box = box.Union(image.Rect(px, py, px+1, py+1))

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := px+dx, py+dy
						if nx < 0 || ny < 0 || nx >= w || ny >= h {
							continue
						}
						k := ny*w + nx
						if seen[k] || mask.Pix[ny*mask.Stride+nx] == 0 {
							continue
						}
						seen[k] = true
						stack = append(stack, k)
					}
				}
			}
			cs = append(cs, Contour{Area: float64(n), Box: box.Add(b.Min)})
		}
	}
	return cs
}
