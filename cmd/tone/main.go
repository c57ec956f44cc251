/*
DESCRIPTION
  tone is a speaker check for the theremin. It plays a fixed tone, or sweeps
  across the theremin's frequency range, through the same synthesiser and
  ALSA output the theremin uses, without needing a camera.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Command tone is a command line speaker check.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ausocean/theremin/codec/wav"
	"github.com/ausocean/theremin/config"
	"github.com/ausocean/theremin/device"
	"github.com/ausocean/theremin/device/alsa"
	"github.com/ausocean/theremin/mapper"
	"github.com/ausocean/theremin/synth"
	"github.com/ausocean/utils/logging"
)

const (
	logVerbosity = logging.Info
	logSuppress  = false
	sweepSteps   = 32
)

func main() {
	freqPtr := flag.Float64("freq", 440, "frequency to play (Hz)")
	volPtr := flag.Float64("vol", 0.5, "volume to play, 0 to 1")
	durPtr := flag.Duration("dur", 2*time.Second, "how long to play for")
	sweepPtr := flag.Bool("sweep", false, "sweep from the maximum to the base frequency instead of playing -freq")
	recordPtr := flag.String("record", "", "WAV file to record the played audio to")
	flag.Parse()

	log := logging.New(logVerbosity, os.Stdout, logSuppress)

	c := config.Config{Logger: log, Mode: config.ModeContinuous, RecordPath: *recordPtr}
	c.Validate()

	sink := alsa.New(log)
	err := sink.Setup(c)
	var me device.MultiError
	if errors.As(err, &me) {
		log.Warning("invalid audio config", "error", err.Error())
	} else if err != nil {
		log.Fatal("could not set up audio device", "error", err.Error())
	}

	state := synth.NewState(mapper.Tone{Frequency: *freqPtr, Volume: *volPtr})
	e := synth.NewContinuous(c, sink, state)

	var rec *wav.Recorder
	if c.RecordPath != "" {
		rec, err = wav.NewRecorder(c.RecordPath, c.SampleRate, log)
		if err != nil {
			log.Fatal("could not start recording", "error", err.Error())
		}
		e.WithRecorder(rec)
	}

	err = e.Start()
	if err != nil {
		log.Fatal("could not start audio", "error", err.Error())
	}

	if *sweepPtr {
		err = sweep(e, mapper.ParamsFrom(c), *volPtr, *durPtr/sweepSteps, log, time.Sleep)
		if err != nil {
			log.Error("sweep stopped", "error", err.Error())
		}
	} else {
		log.Info("playing", "frequency", *freqPtr, "volume", *volPtr, "duration", *durPtr)
		select {
		case <-time.After(*durPtr):
		case <-e.Done():
			log.Error("audio routine exited", "error", e.Err())
		}
	}

	err = e.Stop()
	if err != nil {
		log.Error("audio stopped with error", "error", err.Error())
	}
	if rec != nil {
		err = rec.Close()
		if err != nil {
			log.Error("could not close recording", "error", err.Error())
		}
	}
}

// sweep emits tones from the highest to the lowest frequency of p, holding
// each for step. It stops at the first emit error.
func sweep(e synth.Emitter, p mapper.Params, vol float64, step time.Duration, l logging.Logger, sleep func(time.Duration)) error {
	for i := 0; i <= sweepSteps; i++ {
		f := mapper.Frequency(p, 1-float64(i)/sweepSteps)
		err := e.Emit(mapper.Tone{Frequency: f, Volume: vol})
		if err != nil {
			return fmt.Errorf("could not emit %.1f Hz: %w", f, err)
		}
		l.Info("playing", "frequency", f)
		sleep(step)
	}
	return nil
}
