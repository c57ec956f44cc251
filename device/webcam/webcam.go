//go:build withcv
// +build withcv

/*
DESCRIPTION
  webcam.go provides Webcam, a capture device reading frames from a camera or
  a video file through gocv.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package webcam

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ausocean/theremin/config"
	"github.com/ausocean/utils/logging"
)

// ErrNotOpen is returned when the capture device could not be opened.
var ErrNotOpen = errors.New("capture device is not open")

// Webcam reads BGR frames from a camera or video file.
type Webcam struct {
	log       logging.Logger
	cfg       config.Config
	cap       *gocv.VideoCapture
	mu        sync.Mutex
	isRunning bool
	sleep     func(time.Duration)
}

// New returns a new Webcam.
func New(l logging.Logger) *Webcam {
	return &Webcam{log: l, sleep: time.Sleep}
}

// Name returns the name of the device.
func (w *Webcam) Name() string {
	return "Webcam"
}

// Set will validate the relevant fields of the given Config struct and assign
// the struct to the Webcam's Config. If fields are not valid, an error is
// added to the MultiError and a default value is used.
func (w *Webcam) Set(c config.Config) error {
	var err error
	w.cfg, err = validate(c)
	return err
}

// Start opens the capture device and waits for the warm up period so that
// the camera can settle its exposure.
func (w *Webcam) Start() error {
	var (
		vc  *gocv.VideoCapture
		err error
	)
	if w.cfg.InputPath != "" {
		w.log.Info(pkg+"opening video file", "path", w.cfg.InputPath)
		vc, err = gocv.OpenVideoCapture(w.cfg.InputPath)
	} else {
		w.log.Info(pkg+"opening camera", "index", w.cfg.CameraIndex)
		vc, err = gocv.OpenVideoCapture(w.cfg.CameraIndex)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotOpen, err)
	}
	if !vc.IsOpened() {
		vc.Close()
		return ErrNotOpen
	}

	w.mu.Lock()
	w.cap = vc
	w.isRunning = true
	w.mu.Unlock()

	w.log.Debug(pkg+"warming up", "duration", w.cfg.WarmUp)
	w.sleep(w.cfg.WarmUp)
	return nil
}

// Read reads the next frame into m. io.EOF is returned once the device has
// stopped producing frames or has been stopped.
func (w *Webcam) Read(m *gocv.Mat) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.isRunning || !w.cap.IsOpened() {
		return io.EOF
	}
	if !w.cap.Read(m) || m.Empty() {
		return io.EOF
	}
	return nil
}

// Stop releases the capture device.
func (w *Webcam) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.isRunning {
		return nil
	}
	w.isRunning = false
	w.log.Debug(pkg + "releasing capture device")
	return w.cap.Close()
}

// IsRunning is used to determine if the webcam is running.
func (w *Webcam) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}
