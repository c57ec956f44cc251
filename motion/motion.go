/*
DESCRIPTION
  motion.go provides the types shared by the motion detectors and the
  selection of the dominant motion region from a set of contours.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package motion provides frame differencing and motion region selection.
// Two detectors are provided: Basic, which works on image.Image values in
// pure Go, and CV, which uses gocv and is only built with the withcv tag.
package motion

import (
	"errors"
	"image"

	"github.com/ausocean/theremin/config"
)

// Frame validation errors.
var (
	errEmptyFrame   = errors.New("frame is empty")
	errSizeMismatch = errors.New("frames differ in size")
	errTypeMismatch = errors.New("frames differ in type")
)

// Status describes the outcome of motion detection on a frame pair.
type Status int

const (
	None     Status = iota // No motion contours were found.
	TooSmall               // The largest contour did not exceed the area threshold.
	Found                  // A qualifying motion region was found.
)

func (s Status) String() string {
	switch s {
	case None:
		return "no motion"
	case TooSmall:
		return "motion too small"
	case Found:
		return "motion"
	default:
		return "unknown"
	}
}

// Contour is a connected motion region described by its area and bounding box.
type Contour struct {
	// Area is the pixel count of the region for Basic and the area enclosed
	// by the traced outline for CV, which is smaller by about half the
	// perimeter (99x99 for a filled 100x100 square). MotionThreshold is
	// compared against whichever the detector in use reports.
	Area float64
	Box  image.Rectangle
}

// Center returns the centre of the contour's bounding box, rounded down to
// whole pixels.
func (c Contour) Center() image.Point {
	return image.Pt(c.Box.Min.X+c.Box.Dx()/2, c.Box.Min.Y+c.Box.Dy()/2)
}

// Detection is the result of running a detector on a frame pair.
type Detection struct {
	Status Status
	Region Contour     // The largest contour; zero when Status is None.
	Size   image.Point // Dimensions of the frames.
}

// Params holds the motion detection parameters.
type Params struct {
	DiffThreshold    float64 // Intensity above which a blurred difference is motion.
	BlurKernel       int     // Side of the Gaussian blur kernel.
	DilateIterations int     // Number of 3x3 dilations.
	MinArea          float64 // Area a region must exceed to be Found.
}

// ParamsFrom extracts the motion parameters from a validated config.
func ParamsFrom(c config.Config) Params {
	return Params{
		DiffThreshold:    c.DiffThreshold,
		BlurKernel:       int(c.BlurKernel),
		DilateIterations: int(c.DilateIterations),
		MinArea:          c.MotionThreshold,
	}
}

// Select returns the contour with the largest area. Ties keep the earliest
// contour in cs. The status is None if cs is empty and TooSmall if the largest
// area does not exceed minArea; the largest contour is returned in both the
// TooSmall and Found cases.
func Select(cs []Contour, minArea float64) (Contour, Status) {
	if len(cs) == 0 {
		return Contour{}, None
	}
	best := cs[0]
	for _, c := range cs[1:] {
		if c.Area > best.Area {
			best = c
		}
	}
	if best.Area <= minArea {
		return best, TooSmall
	}
	return best, Found
}

// boxes returns the bounding boxes of cs.
func boxes(cs []Contour) []image.Rectangle {
	r := make([]image.Rectangle, len(cs))
	for i, c := range cs {
		r[i] = c.Box
	}
	return r
}
