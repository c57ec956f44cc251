/*
DESCRIPTION
  discrete.go provides Discrete, an emitter that plays a short tone burst
  for each motion event and waits for it to finish.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package synth

import (
	"fmt"
	"io"
	"time"

	"github.com/ausocean/theremin/codec/pcm"
	"github.com/ausocean/theremin/config"
	"github.com/ausocean/theremin/device"
	"github.com/ausocean/theremin/mapper"
	"github.com/ausocean/utils/logging"
)

// Discrete plays fixed length bursts. Each burst starts at zero phase and is
// faded in and out.
type Discrete struct {
	l       logging.Logger
	sink    device.AudioSink
	rec     io.Writer
	rate    uint
	burst   time.Duration
	samples int
	filters []pcm.AudioFilter // Applied to each burst after synthesis.

	now   func() time.Time
	sleep func(time.Duration)
}

// NewDiscrete returns a Discrete emitter playing bursts of c.BurstDuration
// with fades of c.FadeDuration.
func NewDiscrete(c config.Config, sink device.AudioSink) *Discrete {
	return &Discrete{
		l:       c.Logger,
		sink:    sink,
		rate:    c.SampleRate,
		burst:   c.BurstDuration,
		samples: int(float64(c.SampleRate) * c.BurstDuration.Seconds()),
		filters: []pcm.AudioFilter{pcm.NewFader(int(float64(c.SampleRate) * c.FadeDuration.Seconds()))},
		now:     time.Now,
		sleep:   time.Sleep,
	}
}

// WithRecorder sets w to receive a copy of all audio written to the sink.
func (e *Discrete) WithRecorder(w io.Writer) *Discrete {
	e.rec = w
	return e
}

// Start starts the sink.
func (e *Discrete) Start() error {
	err := e.sink.Start()
	if err != nil {
		return fmt.Errorf("could not start %s: %w", e.sink.Name(), err)
	}
	e.l.Info(pkg+"discrete emitter started", "sink", e.sink.Name(), "burst", e.burst)
	return nil
}

// Emit plays t; see Play.
func (e *Discrete) Emit(t mapper.Tone) error { return e.Play(t) }

// Play synthesises a burst of t and blocks until it has played.
func (e *Discrete) Play(t mapper.Tone) error {
	buf := make([]float64, e.samples)
	NewOscillator(e.rate).Next(buf, t.Frequency, t.Volume)
	for _, f := range e.filters {
		f.Apply(buf)
	}
	b := pcm.FloatsToBytes(buf)

	start := e.now()
	_, err := e.sink.Write(b)
	if err != nil {
		return fmt.Errorf("audio device failed: %w", err)
	}
	record(e.l, e.rec, b)

	// The sink returns once the burst is buffered; wait out the rest of it.
	if rem := e.burst - e.now().Sub(start); rem > 0 {
		e.sleep(rem)
	}
	return nil
}

// Stop closes the sink.
func (e *Discrete) Stop() error {
	err := e.sink.Stop()
	if err != nil {
		return fmt.Errorf("could not stop %s: %w", e.sink.Name(), err)
	}
	return nil
}
