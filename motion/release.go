//go:build !debug || !withcv
// +build !debug !withcv

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
)

// debugWindows is used for displaying debug information for the motion detectors.
type debugWindows struct{}

// close frees resources used by gocv.
func (d *debugWindows) close() error { return nil }

// newWindows creates debugging windows for the motion detector.
func newWindows(name string) debugWindows { return debugWindows{} }

// show displays debug information for the motion detectors.
func (d *debugWindows) show(img, mask interface{}, motion bool, boxes []image.Rectangle, text ...string) {
}
