/*
LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package synth

import (
	"math"

	"github.com/ausocean/theremin/codec/pcm"
)

// Oscillator is a sine oscillator that carries its phase from one chunk to
// the next, so consecutive chunks join without a discontinuity even when the
// frequency changes between them.
type Oscillator struct {
	rate  float64
	phase float64
}

// NewOscillator returns an Oscillator for the given sample rate, starting at
// zero phase.
func NewOscillator(rate uint) *Oscillator {
	return &Oscillator{rate: float64(rate)}
}

// Next fills buf with the next len(buf) samples of a sine at freq Hz scaled
// by vol, and advances the phase by the same number of samples.
func (o *Oscillator) Next(buf []float64, freq, vol float64) {
	inc := 2 * math.Pi * freq / o.rate
	for i := range buf {
		buf[i] = math.Sin(o.phase + inc*float64(i))
	}
	o.phase = math.Mod(o.phase+inc*float64(len(buf)), 2*math.Pi)
	pcm.NewAmplifier(vol).Apply(buf)
}

// Phase returns the current phase in radians, in [0, 2π).
func (o *Oscillator) Phase() float64 { return o.phase }
