/*
DESCRIPTION
  theremin.go provides Theremin, which turns per frame motion detections into
  tones and passes them to an emitter.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package theremin provides the per frame pipeline of a motion theremin:
// a detection is mapped to a tone, which is emitted as sound.
package theremin

import (
	"fmt"
	"image"

	"github.com/ausocean/theremin/config"
	"github.com/ausocean/theremin/mapper"
	"github.com/ausocean/theremin/motion"
	"github.com/ausocean/theremin/synth"
	"github.com/ausocean/utils/logging"
)

// Tracking states.
type State int

const (
	Idle           State = iota // No qualifying motion in the last frame.
	TrackingInit                // First qualifying motion after Idle.
	TrackingSteady              // Qualifying motion in consecutive frames.
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case TrackingInit:
		return "tracking (init)"
	case TrackingSteady:
		return "tracking"
	default:
		return "unknown"
	}
}

// Result describes what Observe did with a detection.
type Result struct {
	Status motion.Status
	State  State
	Tone   mapper.Tone // The current tone, changed only by Found detections.
	Center image.Point // Smoothed centre the tone was mapped from; zero unless Found.
	Box    image.Rectangle
	Area   float64
}

// Theremin holds the tracking state of a running theremin.
type Theremin struct {
	l     logging.Logger
	m     *mapper.Mapper
	e     synth.Emitter
	state State
	tone  mapper.Tone
}

// New returns a Theremin mapping with the parameters of c and emitting to e.
func New(c config.Config, e synth.Emitter) *Theremin {
	return &Theremin{
		l:    c.Logger,
		m:    mapper.New(mapper.ParamsFrom(c)),
		e:    e,
		tone: mapper.Tone{Frequency: c.InitialFreq, Volume: c.InitialVolume},
	}
}

// State returns the tracking state.
func (t *Theremin) State() State { return t.state }

// Tone returns the current tone.
func (t *Theremin) Tone() mapper.Tone { return t.tone }

// Observe advances the tracking state with det. A Found detection is mapped
// to a tone which is emitted; any other detection leaves the tone unchanged
// and emits nothing. An error is returned only if the emitter fails.
func (t *Theremin) Observe(det motion.Detection) (Result, error) {
	r := Result{Status: det.Status, Area: det.Region.Area}

	switch det.Status {
	case motion.Found:
		if t.state == Idle {
			t.state = TrackingInit
		} else {
			t.state = TrackingSteady
		}
		r.Box = det.Region.Box
		t.tone = t.m.Map(det.Region.Center(), det.Size)
		r.Center = t.m.Center()
		t.l.Info("motion", "frequency", fmt.Sprintf("%.1f", t.tone.Frequency), "volume", fmt.Sprintf("%.2f", t.tone.Volume))

		err := t.e.Emit(t.tone)
		if err != nil {
			r.State, r.Tone = t.state, t.tone
			return r, fmt.Errorf("could not emit tone: %w", err)
		}
	case motion.TooSmall:
		t.idle()
		t.l.Info("motion too small", "area", det.Region.Area)
	default:
		t.idle()
		t.l.Info("no motion")
	}

	r.State, r.Tone = t.state, t.tone
	return r, nil
}

func (t *Theremin) idle() {
	if t.state != Idle {
		t.l.Debug("tracking lost")
	}
	t.state = Idle
	t.m.Idle()
}
