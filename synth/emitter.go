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
	"io"

	"github.com/ausocean/theremin/config"
	"github.com/ausocean/theremin/device"
	"github.com/ausocean/theremin/mapper"
	"github.com/ausocean/utils/logging"
)

const pkg = "synth: "

// Emitter turns tones into sound.
type Emitter interface {
	// Start starts the emitter and its audio sink.
	Start() error

	// Emit sounds t. Continuous emitters return immediately; discrete
	// emitters return once the tone has played.
	Emit(t mapper.Tone) error

	// Stop stops the emitter and closes its audio sink.
	Stop() error
}

// New returns the emitter selected by c.Mode writing to sink. rec, if not
// nil, receives a copy of all audio written to sink.
func New(c config.Config, sink device.AudioSink, rec io.Writer) Emitter {
	if c.Mode == config.ModeDiscrete {
		return NewDiscrete(c, sink).WithRecorder(rec)
	}
	s := NewState(mapper.Tone{Frequency: c.InitialFreq, Volume: c.InitialVolume})
	return NewContinuous(c, sink, s).WithRecorder(rec)
}

// record writes b to rec if it is set. Failures are logged, not returned.
func record(l logging.Logger, rec io.Writer, b []byte) {
	if rec == nil {
		return
	}
	_, err := rec.Write(b)
	if err != nil {
		l.Warning(pkg+"could not record audio", "error", err)
	}
}
