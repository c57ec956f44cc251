/*
DESCRIPTION
  config.go validates the capture fields of a theremin Config for webcams.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package webcam provides frame capture from a camera or a video file. The
// capture device itself uses gocv and is only built with the withcv tag.
package webcam

import (
	"errors"
	"os"
	"time"

	"github.com/ausocean/theremin/config"
	"github.com/ausocean/theremin/device"
)

// Used to indicate package in logging.
const pkg = "webcam: "

// Configuration defaults.
const (
	defaultCameraIndex = 0
	defaultWarmUp      = time.Second
)

// Configuration field errors.
var (
	errBadCameraIndex = errors.New("camera index bad, defaulting")
	errBadWarmUp      = errors.New("warm up bad or unset, defaulting")
	errBadInputPath   = errors.New("input path does not exist, using camera")
)

// validate checks the capture fields of c. Invalid fields are defaulted and
// an error for each is returned in a device.MultiError.
func validate(c config.Config) (config.Config, error) {
	var errs device.MultiError
	if c.InputPath != "" {
		if _, err := os.Stat(c.InputPath); err != nil {
			errs = append(errs, errBadInputPath)
			c.InputPath = ""
		}
	}

	if c.CameraIndex < 0 {
		errs = append(errs, errBadCameraIndex)
		c.CameraIndex = defaultCameraIndex
	}

	if c.WarmUp < 0 {
		errs = append(errs, errBadWarmUp)
		c.WarmUp = defaultWarmUp
	}

	if len(errs) != 0 {
		return c, errs
	}
	return c, nil
}
