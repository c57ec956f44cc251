//go:build debug && withcv
// +build debug,withcv

/*
DESCRIPTION
  Displays debug information for the motion detectors.

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
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// debugWindows is used for displaying debug information for the motion detectors.
type debugWindows struct {
	windows []*gocv.Window
}

// close frees resources used by gocv.
func (d *debugWindows) close() error {
	for _, window := range d.windows {
		err := window.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// newWindows creates debugging windows for the motion detector.
func newWindows(name string) debugWindows {
	return debugWindows{
		windows: []*gocv.Window{
			gocv.NewWindow(name + ": Frame"),
			gocv.NewWindow(name + ": Motion Mask"),
		},
	}
}

// show displays debug information for the motion detectors. img and mask may
// be either image.Image or gocv.Mat.
func (d *debugWindows) show(img, mask interface{}, motion bool, boxes []image.Rectangle, text ...string) {
	const errMsg = "cannot show frame in window: wrong type"
	var drkRed = color.RGBA{191, 0, 0, 0}
	var lhtRed = color.RGBA{191, 31, 31, 0}

	im := toMat(img, errMsg)
	defer im.Close()
	imD := toMat(mask, errMsg)
	defer imD.Close()

	// Draw region boxes.
	for _, r := range boxes {
		gocv.Rectangle(&im, r, lhtRed, 1)
	}

	// Draw debugging text.
	if motion {
		text = append(text, "Motion Detected")
	}
	for i, str := range text {
		gocv.PutText(&im, str, image.Pt(32, 32*(i+1)), gocv.FontHersheyPlain, 2.0, drkRed, 2)
	}

	// Display windows.
	d.windows[0].IMShow(im)
	d.windows[1].IMShow(imD)
	d.windows[0].WaitKey(1)
}

// toMat returns a copy of v as a Mat, which the caller must close.
func toMat(v interface{}, errMsg string) gocv.Mat {
	switch v := v.(type) {
	case *image.Gray:
		m, err := gocv.ImageGrayToMatGray(v)
		if err != nil {
			panic(err)
		}
		return m
	case image.Image:
		m, err := gocv.ImageToMatRGB(v)
		if err != nil {
			panic(err)
		}
		return m
	case gocv.Mat:
		return v.Clone()
	default:
		panic(errMsg)
	}
}
