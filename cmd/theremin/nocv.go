//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  nocv.go replaces the theremin command when OpenCV is not available.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"os"

	"github.com/ausocean/utils/logging"
)

func main() {
	l := logging.New(logging.Info, os.Stderr, false)
	l.Error("theremin requires OpenCV, rebuild with -tags withcv")
	os.Exit(1)
}
