/*
LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package theremin

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/ausocean/theremin/config"
	"github.com/ausocean/theremin/mapper"
	"github.com/ausocean/theremin/motion"
	"github.com/ausocean/utils/logging"
)

// dumbEmitter records the tones it is given.
type dumbEmitter struct {
	tones []mapper.Tone
	err   error
}

func (e *dumbEmitter) Start() error { return nil }
func (e *dumbEmitter) Stop() error  { return nil }
func (e *dumbEmitter) Emit(t mapper.Tone) error {
	e.tones = append(e.tones, t)
	return e.err
}

var size = image.Pt(640, 480)

func found(box image.Rectangle) motion.Detection {
	return motion.Detection{Status: motion.Found, Region: motion.Contour{Area: float64(box.Dx() * box.Dy()), Box: box}, Size: size}
}

func TestStateMachine(t *testing.T) {
	c := config.Continuous((*logging.TestLogger)(t))
	e := &dumbEmitter{}
	th := New(c, e)

	small := motion.Detection{Status: motion.TooSmall, Region: motion.Contour{Area: 100, Box: image.Rect(0, 0, 10, 10)}, Size: size}
	none := motion.Detection{Status: motion.None, Size: size}
	box := image.Rect(110, 70, 210, 170)

	steps := []struct {
		det  motion.Detection
		want State
	}{
		{none, Idle},
		{small, Idle},
		{found(box), TrackingInit},
		{found(box), TrackingSteady},
		{found(box), TrackingSteady},
		{small, Idle},
		{found(box), TrackingInit},
		{none, Idle},
	}

	for i, s := range steps {
		r, err := th.Observe(s.det)
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if r.State != s.want || th.State() != s.want {
			t.Errorf("step %d: unexpected state, got: %v, want: %v", i, r.State, s.want)
		}
	}
	if len(e.tones) != 4 {
		t.Errorf("unexpected number of emitted tones: %d", len(e.tones))
	}
}

// TestSubThresholdKeepsTone checks that detections that are not Found never
// change the tone.
func TestSubThresholdKeepsTone(t *testing.T) {
	c := config.Continuous((*logging.TestLogger)(t))
	e := &dumbEmitter{}
	th := New(c, e)

	initial := mapper.Tone{Frequency: c.InitialFreq, Volume: c.InitialVolume}
	if th.Tone() != initial {
		t.Fatalf("unexpected initial tone: %+v", th.Tone())
	}

	r, _ := th.Observe(found(image.Rect(0, 0, 100, 100)))
	want := r.Tone

	for _, area := range []float64{0, 100, c.MotionThreshold} {
		det := motion.Detection{Status: motion.TooSmall, Region: motion.Contour{Area: area, Box: image.Rect(500, 400, 510, 410)}, Size: size}
		r, err := th.Observe(det)
		if err != nil {
			t.Fatal(err)
		}
		if r.Tone != want {
			t.Errorf("tone changed by sub threshold motion, got: %+v, want: %+v", r.Tone, want)
		}
	}
	if r, _ := th.Observe(motion.Detection{Status: motion.None, Size: size}); r.Tone != want {
		t.Errorf("tone changed by no motion, got: %+v, want: %+v", r.Tone, want)
	}
	if len(e.tones) != 1 {
		t.Errorf("unexpected number of emitted tones: %d", len(e.tones))
	}
}

// TestSmoothedCenter checks that the reported centre follows the smoothed
// position rather than the raw region.
func TestSmoothedCenter(t *testing.T) {
	th := New(config.Continuous((*logging.TestLogger)(t)), &dumbEmitter{})

	r, _ := th.Observe(found(image.Rect(110, 70, 210, 170)))
	if r.Center != image.Pt(160, 120) {
		t.Errorf("unexpected first centre, got: %v, want: %v", r.Center, image.Pt(160, 120))
	}

	// 0.7*160 + 0.3*475 and 0.7*120 + 0.3*355, truncated.
	r, _ = th.Observe(found(image.Rect(425, 305, 525, 405)))
	want := image.Pt(254, 190)
	if r.Center != want {
		t.Errorf("unexpected smoothed centre, got: %v, want: %v", r.Center, want)
	}
	if r.Box != image.Rect(425, 305, 525, 405) {
		t.Errorf("unexpected box: %v", r.Box)
	}
}

func TestEmitError(t *testing.T) {
	want := errors.New("no sound card")
	th := New(config.Discrete((*logging.TestLogger)(t)), &dumbEmitter{err: want})
	if _, err := th.Observe(found(image.Rect(0, 0, 100, 100))); !errors.Is(err, want) {
		t.Errorf("expected emitter error, got: %v", err)
	}
}

// TestEndToEnd runs a blank frame and a frame with a 100x100 patch centred at
// (160, 120) through the detector and the theremin.
func TestEndToEnd(t *testing.T) {
	prev := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(prev, prev.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	cur := image.NewRGBA(image.Rectangle{Max: size})
	draw.Draw(cur, cur.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)
	draw.Draw(cur, image.Rect(110, 70, 210, 170), image.NewUniform(color.White), image.Point{}, draw.Src)

	tests := []struct {
		name   string
		c      config.Config
		volume float64
	}{
		{"continuous", config.Continuous((*logging.TestLogger)(t)), 0.05 + 0.75*0.75*0.95},
		{"discrete", config.Discrete((*logging.TestLogger)(t)), 0.05 + 0.75*0.95},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			det, err := motion.NewBasic(test.c).Detect(prev, cur)
			if err != nil {
				t.Fatal(err)
			}
			e := &dumbEmitter{}
			r, err := New(test.c, e).Observe(det)
			if err != nil {
				t.Fatal(err)
			}
			if r.Status != motion.Found || r.Area <= test.c.MotionThreshold {
				t.Fatalf("unexpected detection: %v, area %v", r.Status, r.Area)
			}
			if r.Center != image.Pt(160, 120) {
				t.Errorf("unexpected centre: %v", r.Center)
			}

			freq := 110 + (1-160.0/640)*(1760-110)
			if !scalar.EqualWithinAbs(r.Tone.Frequency, freq, 1e-3) {
				t.Errorf("unexpected frequency, got: %v, want: %v", r.Tone.Frequency, freq)
			}
			if !scalar.EqualWithinAbs(r.Tone.Volume, test.volume, 1e-3) {
				t.Errorf("unexpected volume, got: %v, want: %v", r.Tone.Volume, test.volume)
			}
			if len(e.tones) != 1 || e.tones[0] != r.Tone {
				t.Errorf("unexpected emitted tones: %+v", e.tones)
			}
		})
	}
}
