/*
DESCRIPTION
  continuous.go provides Continuous, an emitter that streams a sine tone
  whose frequency and volume follow a shared State.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package synth

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ausocean/theremin/codec/pcm"
	"github.com/ausocean/theremin/config"
	"github.com/ausocean/theremin/device"
	"github.com/ausocean/theremin/mapper"
	"github.com/ausocean/utils/logging"
)

// Continuous streams chunks of a phase continuous sine to an audio sink from
// its own routine. The capture loop only updates the shared State and never
// waits on audio.
type Continuous struct {
	l     logging.Logger
	sink  device.AudioSink
	rec   io.Writer
	state *State
	osc   *Oscillator
	chunk int

	mu      sync.Mutex
	err     error
	started bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// NewContinuous returns a Continuous emitter generating c.ChunkSize samples
// at a time at c.SampleRate.
func NewContinuous(c config.Config, sink device.AudioSink, state *State) *Continuous {
	return &Continuous{
		l:     c.Logger,
		sink:  sink,
		state: state,
		osc:   NewOscillator(c.SampleRate),
		chunk: int(c.ChunkSize),
		done:  make(chan struct{}),
	}
}

// WithRecorder sets w to receive a copy of all audio written to the sink.
// It must be called before Start.
func (e *Continuous) WithRecorder(w io.Writer) *Continuous {
	e.rec = w
	return e
}

// State returns the shared state read by the audio routine.
func (e *Continuous) State() *State { return e.state }

// Start starts the sink and the audio routine.
func (e *Continuous) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.started {
		return errors.New("continuous emitter already started")
	}
	err := e.sink.Start()
	if err != nil {
		return fmt.Errorf("could not start %s: %w", e.sink.Name(), err)
	}
	e.started = true
	e.wg.Add(1)
	go e.run()
	e.l.Info(pkg+"continuous emitter started", "sink", e.sink.Name(), "chunk", e.chunk)
	return nil
}

// Emit sets the tone played from the next chunk on. It returns the error
// that ended the audio routine, if it has ended.
func (e *Continuous) Emit(t mapper.Tone) error {
	e.state.Set(t)
	return e.Err()
}

// Done returns a channel that is closed when the audio routine exits.
func (e *Continuous) Done() <-chan struct{} { return e.done }

// Err returns the audio device error that ended the audio routine, if any.
func (e *Continuous) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.err
}

// Stop clears the running flag, closes the sink so that a blocked write
// returns, and then waits for the audio routine.
func (e *Continuous) Stop() error {
	e.state.Stop()
	err := e.sink.Stop()
	if err != nil {
		e.l.Error(pkg+"could not stop sink", "error", err)
	}
	e.wg.Wait()
	e.l.Info(pkg + "continuous emitter stopped")
	return e.Err()
}

// run generates and writes chunks until the state stops running or the sink
// fails.
func (e *Continuous) run() {
	defer e.wg.Done()
	defer close(e.done)

	buf := make([]float64, e.chunk)
	for e.state.Running() {
		t := e.state.Get()
		e.osc.Next(buf, t.Frequency, t.Volume)
		b := pcm.FloatsToBytes(buf)

		_, err := e.sink.Write(b)
		if err != nil {
			if !e.state.Running() {
				return
			}
			e.l.Error(pkg+"audio device failed", "error", err)
			e.mu.Lock()
			e.err = fmt.Errorf("audio device failed: %w", err)
			e.mu.Unlock()
			return
		}
		record(e.l, e.rec, b)
	}
}
