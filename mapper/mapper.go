/*
DESCRIPTION
  mapper.go maps the centre of a motion region to a tone frequency and
  volume, smoothing either the position or the frequency between frames.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package mapper converts motion positions into tones.
package mapper

import (
	"image"

	"github.com/ausocean/theremin/config"
)

// Tone is a frequency (Hz) and volume pair.
type Tone struct {
	Frequency float64
	Volume    float64
}

// Params holds the mapping parameters.
type Params struct {
	BaseFreq  float64 // Frequency at the right edge.
	MaxFreq   float64 // Frequency at the left edge.
	MinVolume float64 // Volume at the bottom edge.
	MaxVolume float64 // Volume at the top edge.

	Alpha       float64 // Weight of the previous value when smoothing.
	Space       uint8   // config.SmoothPosition or config.SmoothFrequency.
	Curve       uint8   // config.CurveLinear or config.CurveSquared.
	ResetOnIdle bool
}

// ParamsFrom extracts the mapping parameters from a validated config.
func ParamsFrom(c config.Config) Params {
	return Params{
		BaseFreq:    c.BaseFreq,
		MaxFreq:     c.MaxFreq,
		MinVolume:   c.MinVolume,
		MaxVolume:   c.MaxVolume,
		Alpha:       c.Smoothing,
		Space:       c.SmoothSpace,
		Curve:       c.VolumeCurve,
		ResetOnIdle: c.ResetOnIdle,
	}
}

// Mapper maps region centres to tones. A Mapper carries smoothing history
// and is not safe for concurrent use.
type Mapper struct {
	p      Params
	x, y   Smoother
	freq   Smoother
	center image.Point // Centre the last tone was mapped from.
}

// New returns a new Mapper using p.
func New(p Params) *Mapper {
	return &Mapper{
		p:    p,
		x:    Smoother{Alpha: p.Alpha},
		y:    Smoother{Alpha: p.Alpha},
		freq: Smoother{Alpha: p.Alpha},
	}
}

// Map returns the tone for a region centred at center in a frame of the given
// size. The smoothing history is initialised by the first call and updated by
// every call after that.
func (m *Mapper) Map(center, size image.Point) Tone {
	if size.X <= 0 || size.Y <= 0 {
		return Tone{Frequency: m.p.BaseFreq, Volume: m.p.MinVolume}
	}
	cx, cy := float64(center.X), float64(center.Y)

	if m.p.Space == config.SmoothPosition {
		cx = m.x.Update(cx)
		cy = m.y.Update(cy)
	}
	m.center = image.Pt(int(cx), int(cy))

	t := Tone{
		Frequency: Frequency(m.p, 1-cx/float64(size.X)),
		Volume:    Volume(m.p, 1-cy/float64(size.Y)),
	}

	if m.p.Space == config.SmoothFrequency {
		t.Frequency = m.freq.Update(t.Frequency)
	}
	return t
}

// Center returns the centre the last tone was mapped from, truncated to whole
// pixels. It is the smoothed centre when smoothing in position space and the
// given centre otherwise.
func (m *Mapper) Center() image.Point { return m.center }

// Idle notes a frame without qualifying motion. The smoothing history is
// kept unless ResetOnIdle is set.
func (m *Mapper) Idle() {
	if m.p.ResetOnIdle {
		m.Reset()
	}
}

// Reset clears the smoothing history.
func (m *Mapper) Reset() {
	m.x.Reset()
	m.y.Reset()
	m.freq.Reset()
}

// Frequency maps the horizontal ratio r, clamped to [0, 1], linearly onto
// [BaseFreq, MaxFreq].
func Frequency(p Params, r float64) float64 {
	return p.BaseFreq + clamp(r)*(p.MaxFreq-p.BaseFreq)
}

// Volume maps the vertical ratio r, clamped to [0, 1], onto
// [MinVolume, MaxVolume] through the configured curve.
func Volume(p Params, r float64) float64 {
	r = clamp(r)
	if p.Curve == config.CurveSquared {
		r *= r
	}
	return p.MinVolume + r*(p.MaxVolume-p.MinVolume)
}

func clamp(r float64) float64 {
	switch {
	case r < 0:
		return 0
	case r > 1:
		return 1
	default:
		return r
	}
}
