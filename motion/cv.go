//go:build withcv
// +build withcv

/*
DESCRIPTION
  A motion detector using gocv. The absolute difference of two frames is
  converted to grayscale, blurred, thresholded and dilated, then the
  contours of the motion mask are found.

AUTHORS
  Scott Barnard <scott@ausocean.org>

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

	"gocv.io/x/gocv"

	"github.com/ausocean/theremin/config"
)

// CV is a motion detection algorithm using gocv.
type CV struct {
	debugging debugWindows
	p         Params
	knl       gocv.Mat // 3x3 structuring element used for dilation.
	delta     gocv.Mat // Reused difference and mask matrix.
}

// NewCV returns a pointer to a new CV detector using the motion parameters
// of c.
func NewCV(c config.Config) *CV {
	return &CV{
		p:         ParamsFrom(c),
		knl:       gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3)),
		delta:     gocv.NewMat(),
		debugging: newWindows("CV"),
	}
}

// Close frees resources used by gocv. It has to be done manually,
// due to gocv using c-go.
func (d *CV) Close() error {
	d.debugging.close()
	d.knl.Close()
	d.delta.Close()
	return nil
}

// Detect finds the largest motion region between prev and cur.
func (d *CV) Detect(prev, cur gocv.Mat) (Detection, error) {
	if prev.Empty() || cur.Empty() {
		return Detection{}, errEmptyFrame
	}
	if prev.Rows() != cur.Rows() || prev.Cols() != cur.Cols() {
		return Detection{}, fmt.Errorf("%w: %dx%d and %dx%d", errSizeMismatch, prev.Cols(), prev.Rows(), cur.Cols(), cur.Rows())
	}
	if prev.Type() != cur.Type() {
		return Detection{}, errTypeMismatch
	}

	// Separate foreground and background.
	gocv.AbsDiff(prev, cur, &d.delta)
	if d.delta.Channels() > 1 {
		gocv.CvtColor(d.delta, &d.delta, gocv.ColorBGRToGray)
	}

	// Smooth, threshold and merge nearby fragments.
	gocv.GaussianBlur(d.delta, &d.delta, image.Pt(d.p.BlurKernel, d.p.BlurKernel), 0, 0, gocv.BorderDefault)
	gocv.Threshold(d.delta, &d.delta, float32(d.p.DiffThreshold), 255, gocv.ThresholdBinary)
	for i := 0; i < d.p.DilateIterations; i++ {
		gocv.Dilate(d.delta, &d.delta, d.knl)
	}

	// Find contours in the order they are traced.
	all := gocv.FindContours(d.delta, gocv.RetrievalTree, gocv.ChainApproxSimple)
	defer all.Close()
	cs := make([]Contour, 0, all.Size())
	for i := 0; i < all.Size(); i++ {
		cs = append(cs, Contour{
			Area: gocv.ContourArea(all.At(i)),
			Box:  gocv.BoundingRect(all.At(i)),
		})
	}
	region, status := Select(cs, d.p.MinArea)

	// Draw debug information.
	d.debugging.show(cur, d.delta, status == Found, boxes(cs), fmt.Sprintf("Area: %.0f", region.Area), fmt.Sprintf("Threshold: %.0f", d.p.MinArea))

	return Detection{Status: status, Region: region, Size: image.Pt(cur.Cols(), cur.Rows())}, nil
}
