/*
NAME
  config.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for the theremin.
package config

import (
	"time"

	"github.com/ausocean/theremin/codec/pcm"
	"github.com/ausocean/utils/logging"
)

// Enums to define modes, smoothing spaces and volume curves.
const (
	// Indicates no option has been set.
	NothingDefined = iota

	// Audio emission modes.
	ModeContinuous // Background oscillator fed by shared state.
	ModeDiscrete   // One blocking tone burst per motion event.

	// Smoothing spaces.
	SmoothPosition  // Smooth the region centre before mapping.
	SmoothFrequency // Smooth the mapped frequency.

	// Volume curves.
	CurveLinear
	CurveSquared
)

// Config provides parameters relevant to a theremin instance. Default values
// for these fields are defined in variables.go and are applied by Validate
// according to the selected Mode.
type Config struct {
	// Mode selects the audio emitter, either ModeContinuous or ModeDiscrete.
	// The mode also selects the defaults of the motion and mapping fields.
	Mode uint8

	// CameraIndex is the index of the capture device to open when InputPath
	// is empty.
	CameraIndex int

	// InputPath optionally names a video file to read frames from instead of
	// a camera.
	InputPath string

	// WarmUp is how long to wait after opening the capture device before
	// reading the first frame pair.
	WarmUp time.Duration

	// KeyDelay is the display event wait per frame. An ESC key press during
	// the wait stops the theremin.
	KeyDelay time.Duration

	SampleRate   uint             // Samples a second (Hz).
	SampleFormat pcm.SampleFormat // Sample format played by the audio device.
	ChunkSize    uint             // Number of samples generated per continuous audio chunk.

	BaseFreq      float64 // Frequency at the right edge of the frame (Hz).
	MaxFreq       float64 // Frequency at the left edge of the frame (Hz).
	MinVolume     float64 // Volume at the bottom edge of the frame.
	MaxVolume     float64 // Volume at the top edge of the frame.
	InitialFreq   float64 // Frequency played before any motion is tracked.
	InitialVolume float64 // Volume played before any motion is tracked.

	DiffThreshold    float64 // Intensity at which a blurred difference pixel is considered motion.
	BlurKernel       uint    // Side length of the smoothing blur kernel; must be odd.
	DilateIterations uint    // Number of 3x3 dilations applied to the motion mask.
	MotionThreshold  float64 // Area a motion region must exceed to be tracked.

	// Smoothing is the exponential smoothing factor applied to the previous
	// value, i.e. new = Smoothing*prev + (1-Smoothing)*raw.
	Smoothing float64

	// SmoothSpace is either SmoothPosition or SmoothFrequency.
	SmoothSpace uint8

	// VolumeCurve is either CurveLinear or CurveSquared.
	VolumeCurve uint8

	// ResetOnIdle reinitialises the smoother from the raw value on the first
	// detection after a frame without qualifying motion.
	ResetOnIdle bool

	BurstDuration time.Duration // Length of a discrete mode tone burst.
	FadeDuration  time.Duration // Length of the fade in and fade out of a burst.

	// RecordPath optionally names a WAV file to which all emitted audio is
	// recorded.
	RecordPath string

	// Logger holds an implementation of the Logger interface.
	// This must be set for the theremin to work correctly.
	Logger logging.Logger

	// LogLevel is the logging verbosity level.
	// Valid values are defined by enums from the logger package: logging.Debug,
	// logging.Info, logging.Warning logging.Error, logging.Fatal.
	LogLevel int8
}

// Continuous returns the configuration of the continuous oscillator variant.
func Continuous(l logging.Logger) Config {
	c := Config{Logger: l, Mode: ModeContinuous}
	c.Validate()
	return c
}

// Discrete returns the configuration of the discrete tone burst variant.
func Discrete(l logging.Logger) Config {
	c := Config{Logger: l, Mode: ModeDiscrete}
	c.Validate()
	return c
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
