/*
DESCRIPTION
  config_test.go provides testing for the Config struct methods (Validate and Update).

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"testing"
	"time"

	"github.com/ausocean/theremin/codec/pcm"
	"github.com/ausocean/utils/logging"
	"github.com/google/go-cmp/cmp"
)

type dumbLogger struct{}

func (dl *dumbLogger) Log(l int8, m string, a ...interface{})  {}
func (dl *dumbLogger) SetLevel(l int8)                         {}
func (dl *dumbLogger) Debug(msg string, args ...interface{})   {}
func (dl *dumbLogger) Info(msg string, args ...interface{})    {}
func (dl *dumbLogger) Warning(msg string, args ...interface{}) {}
func (dl *dumbLogger) Error(msg string, args ...interface{})   {}
func (dl *dumbLogger) Fatal(msg string, args ...interface{})   {}

// common holds the defaults shared by both modes.
func common(l logging.Logger) Config {
	return Config{
		Logger:           l,
		WarmUp:           defaultWarmUp,
		KeyDelay:         defaultKeyDelay,
		SampleRate:       defaultSampleRate,
		ChunkSize:        defaultChunkSize,
		BaseFreq:         defaultBaseFreq,
		MaxFreq:          defaultMaxFreq,
		MinVolume:        defaultMinVolume,
		MaxVolume:        defaultMaxVolume,
		InitialFreq:      defaultInitialFreq,
		InitialVolume:    defaultInitialVolume,
		DiffThreshold:    defaultDiffThreshold,
		BlurKernel:       defaultBlurKernel,
		DilateIterations: defaultDilateIterations,
		BurstDuration:    defaultBurstDuration,
		FadeDuration:     defaultFadeDuration,
		LogLevel:         defaultVerbosity,
	}
}

func TestValidate(t *testing.T) {
	dl := &dumbLogger{}

	want := common(dl)
	want.Mode = ModeContinuous
	want.MotionThreshold = defaultContinuousThreshold
	want.Smoothing = defaultContinuousSmoothing
	want.SmoothSpace = defaultContinuousSmoothSpace
	want.VolumeCurve = defaultContinuousCurve

	got := Config{Logger: dl}
	err := (&got).Validate()
	if err != nil {
		t.Fatalf("did not expect error: %v", err)
	}

	if !cmp.Equal(got, want) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}

func TestPresets(t *testing.T) {
	dl := &dumbLogger{}

	tests := []struct {
		name      string
		got       Config
		threshold float64
		smoothing float64
		space     uint8
		curve     uint8
	}{
		{
			name:      "continuous",
			got:       Continuous(dl),
			threshold: 4000,
			smoothing: 0.7,
			space:     SmoothPosition,
			curve:     CurveSquared,
		},
		{
			name:      "discrete",
			got:       Discrete(dl),
			threshold: 1000,
			smoothing: 0.85,
			space:     SmoothFrequency,
			curve:     CurveLinear,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := test.got
			if c.MotionThreshold != test.threshold {
				t.Errorf("unexpected threshold, got: %v, want: %v", c.MotionThreshold, test.threshold)
			}
			if c.Smoothing != test.smoothing {
				t.Errorf("unexpected smoothing, got: %v, want: %v", c.Smoothing, test.smoothing)
			}
			if c.SmoothSpace != test.space {
				t.Errorf("unexpected smoothing space, got: %v, want: %v", c.SmoothSpace, test.space)
			}
			if c.VolumeCurve != test.curve {
				t.Errorf("unexpected volume curve, got: %v, want: %v", c.VolumeCurve, test.curve)
			}
			if c.BaseFreq != 110 || c.MaxFreq != 1760 || c.SampleRate != 44100 {
				t.Errorf("unexpected audio range: base %v, max %v, rate %v", c.BaseFreq, c.MaxFreq, c.SampleRate)
			}
		})
	}
}

func TestValidateRanges(t *testing.T) {
	dl := &dumbLogger{}

	tests := []struct {
		name string
		in   Config
		want func(c Config) bool
	}{
		{
			name: "max below base",
			in:   Config{Logger: dl, BaseFreq: 500, MaxFreq: 400},
			want: func(c Config) bool { return c.BaseFreq == 500 && c.MaxFreq == defaultMaxFreq },
		},
		{
			name: "base above default max",
			in:   Config{Logger: dl, BaseFreq: 3000, MaxFreq: 2000},
			want: func(c Config) bool { return c.BaseFreq == defaultBaseFreq && c.MaxFreq == defaultMaxFreq },
		},
		{
			name: "max above nyquist",
			in:   Config{Logger: dl, SampleRate: 8000, MaxFreq: 5000},
			want: func(c Config) bool { return c.MaxFreq == defaultMaxFreq },
		},
		{
			name: "default max above nyquist of low rate",
			in:   Config{Logger: dl, SampleRate: 2000},
			want: func(c Config) bool {
				return c.MaxFreq == 900 && c.BaseFreq == defaultBaseFreq && c.InitialFreq == defaultInitialFreq
			},
		},
		{
			name: "whole range above nyquist of low rate",
			in:   Config{Logger: dl, SampleRate: 200},
			want: func(c Config) bool {
				return c.MaxFreq == 90 && c.BaseFreq < c.MaxFreq && c.InitialFreq == c.MaxFreq
			},
		},
		{
			name: "unknown sample format",
			in:   Config{Logger: dl, SampleFormat: pcm.Unknown},
			want: func(c Config) bool { return c.SampleFormat == pcm.S16_LE },
		},
		{
			name: "even blur kernel",
			in:   Config{Logger: dl, BlurKernel: 4},
			want: func(c Config) bool { return c.BlurKernel == defaultBlurKernel },
		},
		{
			name: "smoothing of one",
			in:   Config{Logger: dl, Mode: ModeDiscrete, Smoothing: 1},
			want: func(c Config) bool { return c.Smoothing == defaultDiscreteSmoothing },
		},
		{
			name: "fade longer than half burst",
			in:   Config{Logger: dl, BurstDuration: 100 * time.Millisecond, FadeDuration: 60 * time.Millisecond},
			want: func(c Config) bool { return c.FadeDuration == defaultFadeDuration },
		},
		{
			name: "initial volume outside range",
			in:   Config{Logger: dl, MinVolume: 0.3, MaxVolume: 0.6, InitialVolume: 0.9},
			want: func(c Config) bool { return c.InitialVolume == defaultInitialVolume },
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := test.in
			c.Validate()
			if !test.want(c) {
				t.Errorf("unexpected validated config: %+v", c)
			}
		})
	}
}

func TestUpdate(t *testing.T) {
	updateMap := map[string]string{
		"BaseFreq":         "220",
		"BlurKernel":       "7",
		"BurstDuration":    "200",
		"CameraIndex":      "1",
		"ChunkSize":        "512",
		"DiffThreshold":    "25",
		"DilateIterations": "2",
		"FadeDuration":     "10",
		"InitialFreq":      "330",
		"InitialVolume":    "0.3",
		"InputPath":        "/inputpath",
		"KeyDelay":         "20",
		"logging":          "Error",
		"MaxFreq":          "880",
		"MaxVolume":        "0.9",
		"MinVolume":        "0.1",
		"Mode":             "Discrete",
		"MotionThreshold":  "1500",
		"RecordPath":       "/recordpath",
		"ResetOnIdle":      "true",
		"SampleFormat":     "s32_le",
		"SampleRate":       "48000",
		"Smoothing":        "0.5",
		"SmoothSpace":      "Position",
		"VolumeCurve":      "Squared",
		"WarmUp":           "500",
	}

	dl := &dumbLogger{}

	want := Config{
		Logger:           dl,
		Mode:             ModeDiscrete,
		CameraIndex:      1,
		InputPath:        "/inputpath",
		WarmUp:           500 * time.Millisecond,
		KeyDelay:         20 * time.Millisecond,
		SampleRate:       48000,
		SampleFormat:     pcm.S32_LE,
		ChunkSize:        512,
		BaseFreq:         220,
		MaxFreq:          880,
		MinVolume:        0.1,
		MaxVolume:        0.9,
		InitialFreq:      330,
		InitialVolume:    0.3,
		DiffThreshold:    25,
		BlurKernel:       7,
		DilateIterations: 2,
		MotionThreshold:  1500,
		Smoothing:        0.5,
		SmoothSpace:      SmoothPosition,
		VolumeCurve:      CurveSquared,
		ResetOnIdle:      true,
		BurstDuration:    200 * time.Millisecond,
		FadeDuration:     10 * time.Millisecond,
		RecordPath:       "/recordpath",
		LogLevel:         logging.Error,
	}

	got := Config{Logger: dl}
	got.Update(updateMap)
	if !cmp.Equal(want, got) {
		t.Errorf("configs not equal\nwant: %v\ngot: %v", want, got)
	}
}
