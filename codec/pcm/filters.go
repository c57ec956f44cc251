/*
NAME
  filters.go

DESCRIPTION
  filters.go contains filters applied to synthesised audio: volume
  amplification and edge fades.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pcm

import (
	"math"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
)

// AudioFilter is an interface which contains an Apply function.
// Apply is used to filter samples in [-1, 1] in place.
type AudioFilter interface {
	Apply(f []float64)
}

var (
	_ AudioFilter = (*Amplifier)(nil)
	_ AudioFilter = (*Fader)(nil)
)

// Amplifier scales samples by a factor, clipping the result to [-1, 1].
type Amplifier struct {
	factor float64
}

// NewAmplifier returns an Amplifier with the given factor of amplification.
// The absolute value of factor is used.
func NewAmplifier(factor float64) *Amplifier {
	return &Amplifier{factor: math.Abs(factor)}
}

// Apply amplifies f in place.
func (amp *Amplifier) Apply(f []float64) {
	floats.Scale(amp.factor, f)
	for i := range f {
		f[i] = clip(f[i])
	}
}

// Fader fades the edges of a buffer in and out; see Fade.
type Fader struct {
	n int
}

// NewFader returns a Fader with fades n samples long.
func NewFader(n int) *Fader { return &Fader{n: n} }

// Apply fades f in place.
func (fd *Fader) Apply(f []float64) { Fade(f, fd.n) }

// Fade applies a raised cosine fade in over the first n samples of f and a
// fade out over the last n samples. n is limited to half the length of f.
func Fade(f []float64, n int) {
	if n > len(f)/2 {
		n = len(f) / 2
	}
	if n <= 0 {
		return
	}

	// The rising half of a Hann window of length 2n+1 goes from 0 to 1.
	w := window.Hann(2*n + 1)
	for i := 0; i < n; i++ {
		f[i] *= w[i]
		f[len(f)-1-i] *= w[i]
	}
}
