/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ausocean/theremin/codec/pcm"
	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyBaseFreq         = "BaseFreq"
	KeyBlurKernel       = "BlurKernel"
	KeyBurstDuration    = "BurstDuration"
	KeyCameraIndex      = "CameraIndex"
	KeyChunkSize        = "ChunkSize"
	KeyDiffThreshold    = "DiffThreshold"
	KeyDilateIterations = "DilateIterations"
	KeyFadeDuration     = "FadeDuration"
	KeyInitialFreq      = "InitialFreq"
	KeyInitialVolume    = "InitialVolume"
	KeyInputPath        = "InputPath"
	KeyKeyDelay         = "KeyDelay"
	KeyLogging          = "logging"
	KeyMaxFreq          = "MaxFreq"
	KeyMaxVolume        = "MaxVolume"
	KeyMinVolume        = "MinVolume"
	KeyMode             = "Mode"
	KeyMotionThreshold  = "MotionThreshold"
	KeyRecordPath       = "RecordPath"
	KeyResetOnIdle      = "ResetOnIdle"
	KeySampleFormat     = "SampleFormat"
	KeySampleRate       = "SampleRate"
	KeySmoothing        = "Smoothing"
	KeySmoothSpace      = "SmoothSpace"
	KeyVolumeCurve      = "VolumeCurve"
	KeyWarmUp           = "WarmUp"
)

// Config map parameter types.
const (
	typeString = "string"
	typeInt    = "int"
	typeUint   = "uint"
	typeBool   = "bool"
	typeFloat  = "float"
)

// Default variable values.
const (
	// General defaults.
	defaultMode         = ModeContinuous
	defaultVerbosity    = logging.Info
	defaultWarmUp       = time.Second
	defaultKeyDelay     = 10 * time.Millisecond
	defaultSampleRate   = 44100
	defaultSampleFormat = pcm.S16_LE
	defaultChunkSize    = 1024

	// Mapping defaults.
	defaultBaseFreq      = 110.0
	defaultMaxFreq       = 1760.0
	defaultMinVolume     = 0.05
	defaultMaxVolume     = 1.0
	defaultInitialFreq   = 440.0
	defaultInitialVolume = 0.2

	// Fraction of the Nyquist frequency used as the highest frequency when
	// the sample rate is too low for the default.
	nyquistMargin = 0.9

	// Motion detection defaults.
	defaultDiffThreshold    = 20.0
	defaultBlurKernel       = 5
	defaultDilateIterations = 3

	// Continuous variant defaults.
	defaultContinuousThreshold   = 4000.0
	defaultContinuousSmoothing   = 0.7
	defaultContinuousSmoothSpace = SmoothPosition
	defaultContinuousCurve       = CurveSquared

	// Discrete variant defaults.
	defaultDiscreteThreshold   = 1000.0
	defaultDiscreteSmoothing   = 0.85
	defaultDiscreteSmoothSpace = SmoothFrequency
	defaultDiscreteCurve       = CurveLinear
	defaultBurstDuration       = 150 * time.Millisecond
	defaultFadeDuration        = 5 * time.Millisecond
)

// Variables describes the variables that can be used for theremin control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
// Mode is first so that mode dependent defaults are chosen after it is validated.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name: KeyMode,
		Type: "enum:Continuous,Discrete",
		Update: func(c *Config, v string) {
			c.Mode = parseEnum(
				KeyMode,
				v,
				map[string]uint8{
					"continuous": ModeContinuous,
					"discrete":   ModeDiscrete,
				},
				c,
			)
		},
		Validate: func(c *Config) {
			switch c.Mode {
			case ModeContinuous, ModeDiscrete:
			default:
				c.LogInvalidField(KeyMode, defaultMode)
				c.Mode = defaultMode
			}
		},
	},
	{
		Name:   KeyBaseFreq,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.BaseFreq = parseFloat(KeyBaseFreq, v, c) },
		Validate: func(c *Config) {
			if c.BaseFreq <= 0 {
				c.LogInvalidField(KeyBaseFreq, defaultBaseFreq)
				c.BaseFreq = defaultBaseFreq
			}
		},
	},
	{
		Name:   KeyBlurKernel,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.BlurKernel = parseUint(KeyBlurKernel, v, c) },
		Validate: func(c *Config) {
			if c.BlurKernel == 0 || c.BlurKernel%2 == 0 {
				c.LogInvalidField(KeyBlurKernel, defaultBlurKernel)
				c.BlurKernel = defaultBlurKernel
			}
		},
	},
	{
		Name:   KeyBurstDuration,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.BurstDuration = parseMillis(KeyBurstDuration, v, c) },
		Validate: func(c *Config) {
			if c.BurstDuration <= 0 {
				c.LogInvalidField(KeyBurstDuration, defaultBurstDuration)
				c.BurstDuration = defaultBurstDuration
			}
		},
	},
	{
		Name:   KeyCameraIndex,
		Type:   typeInt,
		Update: func(c *Config, v string) { c.CameraIndex = parseInt(KeyCameraIndex, v, c) },
		Validate: func(c *Config) {
			if c.CameraIndex < 0 {
				c.LogInvalidField(KeyCameraIndex, 0)
				c.CameraIndex = 0
			}
		},
	},
	{
		Name:   KeyChunkSize,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.ChunkSize = parseUint(KeyChunkSize, v, c) },
		Validate: func(c *Config) {
			c.ChunkSize = lessThanOrEqual(KeyChunkSize, c.ChunkSize, 0, c, defaultChunkSize)
		},
	},
	{
		Name:   KeyDiffThreshold,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.DiffThreshold = parseFloat(KeyDiffThreshold, v, c) },
		Validate: func(c *Config) {
			if c.DiffThreshold <= 0 || c.DiffThreshold >= 255 {
				c.LogInvalidField(KeyDiffThreshold, defaultDiffThreshold)
				c.DiffThreshold = defaultDiffThreshold
			}
		},
	},
	{
		Name:   KeyDilateIterations,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.DilateIterations = parseUint(KeyDilateIterations, v, c) },
		Validate: func(c *Config) {
			c.DilateIterations = lessThanOrEqual(KeyDilateIterations, c.DilateIterations, 0, c, defaultDilateIterations)
		},
	},
	{
		Name:   KeyFadeDuration,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.FadeDuration = parseMillis(KeyFadeDuration, v, c) },
		Validate: func(c *Config) {
			if c.FadeDuration <= 0 || 2*c.FadeDuration > c.BurstDuration {
				c.LogInvalidField(KeyFadeDuration, defaultFadeDuration)
				c.FadeDuration = defaultFadeDuration
			}
		},
	},
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v },
	},
	{
		Name:   KeyKeyDelay,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.KeyDelay = parseMillis(KeyKeyDelay, v, c) },
		Validate: func(c *Config) {
			if c.KeyDelay <= 0 {
				c.LogInvalidField(KeyKeyDelay, defaultKeyDelay)
				c.KeyDelay = defaultKeyDelay
			}
		},
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyMaxFreq,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.MaxFreq = parseFloat(KeyMaxFreq, v, c) },
		Validate: func(c *Config) {
			if c.MaxFreq <= c.BaseFreq || c.MaxFreq >= float64(nyquist(c)) {
				c.LogInvalidField(KeyMaxFreq, defaultMaxFreq)
				c.MaxFreq = defaultMaxFreq
				if c.BaseFreq >= c.MaxFreq {
					c.LogInvalidField(KeyBaseFreq, defaultBaseFreq)
					c.BaseFreq = defaultBaseFreq
				}
			}
		},
	},
	{
		Name:   KeyMinVolume,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.MinVolume = parseFloat(KeyMinVolume, v, c) },
		Validate: func(c *Config) {
			if c.MinVolume <= 0 || c.MinVolume > 1 {
				c.LogInvalidField(KeyMinVolume, defaultMinVolume)
				c.MinVolume = defaultMinVolume
			}
		},
	},
	{
		Name:   KeyMaxVolume,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.MaxVolume = parseFloat(KeyMaxVolume, v, c) },
		Validate: func(c *Config) {
			if c.MaxVolume <= c.MinVolume || c.MaxVolume > 1 {
				c.LogInvalidField(KeyMaxVolume, defaultMaxVolume)
				c.MaxVolume = defaultMaxVolume
			}
		},
	},
	{
		Name:   KeyInitialFreq,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.InitialFreq = parseFloat(KeyInitialFreq, v, c) },
		Validate: func(c *Config) {
			if c.InitialFreq < c.BaseFreq || c.InitialFreq > c.MaxFreq {
				c.LogInvalidField(KeyInitialFreq, defaultInitialFreq)
				c.InitialFreq = defaultInitialFreq
			}
		},
	},
	{
		Name:   KeyInitialVolume,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.InitialVolume = parseFloat(KeyInitialVolume, v, c) },
		Validate: func(c *Config) {
			if c.InitialVolume < c.MinVolume || c.InitialVolume > c.MaxVolume {
				c.LogInvalidField(KeyInitialVolume, defaultInitialVolume)
				c.InitialVolume = defaultInitialVolume
			}
		},
	},
	{
		Name:   KeyMotionThreshold,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.MotionThreshold = parseFloat(KeyMotionThreshold, v, c) },
		Validate: func(c *Config) {
			if c.MotionThreshold <= 0 {
				def := modeDefault(c, defaultContinuousThreshold, defaultDiscreteThreshold)
				c.LogInvalidField(KeyMotionThreshold, def)
				c.MotionThreshold = def
			}
		},
	},
	{
		Name:   KeyRecordPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.RecordPath = v },
	},
	{
		Name:   KeyResetOnIdle,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.ResetOnIdle = parseBool(KeyResetOnIdle, v, c) },
	},
	{
		Name: KeySampleFormat,
		Type: "enum:S16_LE,S32_LE",
		Update: func(c *Config, v string) {
			sf, err := pcm.SFFromString(strings.ToUpper(v))
			if err != nil {
				c.Logger.Warning("invalid SampleFormat param", "value", v, "error", err)
			}
			c.SampleFormat = sf
		},
		Validate: func(c *Config) {
			if c.SampleFormat.Bytes() == 0 {
				c.LogInvalidField(KeySampleFormat, defaultSampleFormat)
				c.SampleFormat = defaultSampleFormat
			}
		},
	},
	{
		Name:   KeySampleRate,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.SampleRate = parseUint(KeySampleRate, v, c) },
		Validate: func(c *Config) {
			c.SampleRate = lessThanOrEqual(KeySampleRate, c.SampleRate, 0, c, defaultSampleRate)
			fitNyquist(c)
		},
	},
	{
		Name:   KeySmoothing,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.Smoothing = parseFloat(KeySmoothing, v, c) },
		Validate: func(c *Config) {
			if c.Smoothing <= 0 || c.Smoothing >= 1 {
				def := modeDefault(c, defaultContinuousSmoothing, defaultDiscreteSmoothing)
				c.LogInvalidField(KeySmoothing, def)
				c.Smoothing = def
			}
		},
	},
	{
		Name: KeySmoothSpace,
		Type: "enum:Position,Frequency",
		Update: func(c *Config, v string) {
			c.SmoothSpace = parseEnum(
				KeySmoothSpace,
				v,
				map[string]uint8{
					"position":  SmoothPosition,
					"frequency": SmoothFrequency,
				},
				c,
			)
		},
		Validate: func(c *Config) {
			switch c.SmoothSpace {
			case SmoothPosition, SmoothFrequency:
			default:
				def := uint8(modeDefault(c, defaultContinuousSmoothSpace, defaultDiscreteSmoothSpace))
				c.LogInvalidField(KeySmoothSpace, def)
				c.SmoothSpace = def
			}
		},
	},
	{
		Name: KeyVolumeCurve,
		Type: "enum:Linear,Squared",
		Update: func(c *Config, v string) {
			c.VolumeCurve = parseEnum(
				KeyVolumeCurve,
				v,
				map[string]uint8{
					"linear":  CurveLinear,
					"squared": CurveSquared,
				},
				c,
			)
		},
		Validate: func(c *Config) {
			switch c.VolumeCurve {
			case CurveLinear, CurveSquared:
			default:
				def := uint8(modeDefault(c, defaultContinuousCurve, defaultDiscreteCurve))
				c.LogInvalidField(KeyVolumeCurve, def)
				c.VolumeCurve = def
			}
		},
	},
	{
		Name:   KeyWarmUp,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.WarmUp = parseMillis(KeyWarmUp, v, c) },
		Validate: func(c *Config) {
			if c.WarmUp <= 0 {
				c.LogInvalidField(KeyWarmUp, defaultWarmUp)
				c.WarmUp = defaultWarmUp
			}
		},
	},
}

// modeDefault returns cont or disc depending on the validated mode of c.
func modeDefault(c *Config, cont, disc float64) float64 {
	if c.Mode == ModeDiscrete {
		return disc
	}
	return cont
}

// nyquist returns half the sample rate, or half the default rate if the
// sample rate is unset.
func nyquist(c *Config) uint {
	if c.SampleRate == 0 {
		return defaultSampleRate / 2
	}
	return c.SampleRate / 2
}

// fitNyquist lowers the frequency range of c so that it lies below the
// Nyquist frequency of the validated sample rate.
func fitNyquist(c *Config) {
	ny := float64(nyquist(c))
	if c.MaxFreq < ny {
		return
	}
	hi := math.Min(defaultMaxFreq, nyquistMargin*ny)
	c.LogInvalidField(KeyMaxFreq, hi)
	c.MaxFreq = hi
	if c.BaseFreq >= c.MaxFreq {
		base := c.MaxFreq * defaultBaseFreq / defaultMaxFreq
		c.LogInvalidField(KeyBaseFreq, base)
		c.BaseFreq = base
	}
	if c.InitialFreq < c.BaseFreq || c.InitialFreq > c.MaxFreq {
		f := math.Min(math.Max(c.InitialFreq, c.BaseFreq), c.MaxFreq)
		c.LogInvalidField(KeyInitialFreq, f)
		c.InitialFreq = f
	}
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseInt(n, v string, c *Config) int {
	_v, err := strconv.Atoi(v)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected integer for param %s", n), "value", v)
	}
	return _v
}

func parseFloat(n, v string, c *Config) float64 {
	_v, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected float for param %s", n), "value", v)
	}
	return _v
}

// parseMillis parses a duration given as a whole number of milliseconds.
func parseMillis(n, v string, c *Config) time.Duration {
	_v, err := strconv.Atoi(v)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected milliseconds for param %s", n), "value", v)
	}
	return time.Duration(_v) * time.Millisecond
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}

func parseEnum(n, v string, enums map[string]uint8, c *Config) uint8 {
	_v, ok := enums[strings.ToLower(v)]
	if !ok {
		c.Logger.Warning(fmt.Sprintf("invalid value for %s param", n), "value", v)
	}
	return _v
}

func lessThanOrEqual(n string, v, cmp uint, c *Config, def uint) uint {
	if v <= cmp {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}
