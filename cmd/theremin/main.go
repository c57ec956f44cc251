//go:build withcv
// +build withcv

/*
DESCRIPTION
  theremin is a motion theremin. It watches a camera for the largest region
  of frame to frame motion and plays a tone whose pitch follows the region
  horizontally and whose volume follows it vertically.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Command theremin plays tones driven by motion seen by a camera.
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gocv.io/x/gocv"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/theremin/codec/wav"
	"github.com/ausocean/theremin/config"
	"github.com/ausocean/theremin/device"
	"github.com/ausocean/theremin/device/alsa"
	"github.com/ausocean/theremin/device/webcam"
	"github.com/ausocean/theremin/motion"
	"github.com/ausocean/theremin/synth"
	"github.com/ausocean/theremin/theremin"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration.
const (
	logPath      = "/var/log/theremin/theremin.log"
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Info
	logSuppress  = false
)

// Display configuration.
const (
	windowName = "Theremin"
	keyEsc     = 27
	pkg        = "theremin: "
)

var (
	boxColor    = color.RGBA{0, 255, 0, 0}
	centreColor = color.RGBA{255, 0, 0, 0}
	textColor   = color.RGBA{255, 255, 255, 0}
)

func main() {
	showVersion := flag.Bool("version", false, "show version")
	modePtr := flag.String("mode", "", "emitter mode: Continuous or Discrete")
	varsPtr := flag.String("vars", "", "comma separated Key=Value config variables, e.g. MaxFreq=880,Smoothing=0.5")
	inputPtr := flag.String("input", "", "video file to read instead of a camera")
	cameraPtr := flag.Int("camera", -1, "index of the camera to open (default 0)")
	recordPtr := flag.String("record", "", "WAV file to record the played audio to")
	logPtr := flag.String("log", logPath, "log file path")
	flag.Parse()
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   *logPtr,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}

	// Status lines go to the console as well as the log file.
	log := logging.New(logVerbosity, io.MultiWriter(os.Stdout, fileLog), logSuppress)
	log.Info("starting theremin", "version", version)

	vars, err := parseVars(*varsPtr)
	if err != nil {
		log.Fatal(pkg+"could not parse vars", "error", err.Error())
	}
	vars = merge(vars, flagVars(*modePtr, *inputPtr, *cameraPtr, *recordPtr))

	c := config.Config{Logger: log}
	c.Update(vars)
	c.Validate()
	log.SetLevel(c.LogLevel)

	err = run(c)
	if err != nil {
		log.Error(pkg+"theremin stopped", "error", err.Error())
		os.Exit(1)
	}
}

// run sets up the capture device, audio output and display, then runs the
// capture loop until ESC, the end of the input, an interrupt or an audio
// failure. Everything that was set up is released before run returns.
func run(c config.Config) error {
	l := c.Logger

	cam := webcam.New(l)
	err := cam.Set(c)
	if err != nil {
		l.Warning(pkg+"invalid capture config", "error", err.Error())
	}
	err = cam.Start()
	if err != nil {
		return fmt.Errorf("could not open capture device: %w", err)
	}
	defer cam.Stop()

	sink := alsa.New(l)
	err = sink.Setup(c)
	var me device.MultiError
	if errors.As(err, &me) {
		l.Warning(pkg+"invalid audio config", "error", err.Error())
	} else if err != nil {
		return fmt.Errorf("could not set up audio device: %w", err)
	}

	var rec *wav.Recorder
	if c.RecordPath != "" {
		rec, err = wav.NewRecorder(c.RecordPath, c.SampleRate, l)
		if err != nil {
			return fmt.Errorf("could not start recording: %w", err)
		}
		defer rec.Close()
	}

	var emitter synth.Emitter
	if rec != nil {
		emitter = synth.New(c, sink, rec)
	} else {
		emitter = synth.New(c, sink, nil)
	}
	err = emitter.Start()
	if err != nil {
		return fmt.Errorf("could not start audio: %w", err)
	}

	// Deferred calls run in reverse, so the emitter is stopped and joined
	// before the capture device is released.
	defer func() {
		l.Info("shutting down")
		err := emitter.Stop()
		if err != nil {
			l.Error(pkg+"audio stopped with error", "error", err.Error())
		}
	}()

	window := gocv.NewWindow(windowName)
	defer window.Close()

	det := motion.NewCV(c)
	defer det.Close()

	th := theremin.New(c, emitter)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	var audioDone <-chan struct{}
	if e, ok := emitter.(*synth.Continuous); ok {
		audioDone = e.Done()
	}

	prev, cur := gocv.NewMat(), gocv.NewMat()
	defer prev.Close()
	defer cur.Close()
	if err := cam.Read(&prev); err != nil {
		return fmt.Errorf("could not read first frame: %w", err)
	}
	if err := cam.Read(&cur); err != nil {
		return fmt.Errorf("could not read second frame: %w", err)
	}

	l.Info("theremin ready, move your hand, press ESC to exit", "mode", modeName(c.Mode))
	delay := int(c.KeyDelay.Milliseconds())
	if delay < 1 {
		delay = 1
	}
	for {
		d, err := det.Detect(prev, cur)
		if err != nil {
			return fmt.Errorf("could not detect motion: %w", err)
		}
		r, err := th.Observe(d)
		if err != nil {
			return err
		}

		show := cur.Clone()
		annotate(&show, r, c.Mode == config.ModeDiscrete)
		window.IMShow(show)
		show.Close()

		// Advance the frame window; the old previous frame is overwritten
		// by the next read.
		prev, cur = cur, prev
		err = cam.Read(&cur)
		if err == io.EOF {
			l.Info("capture device closed")
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read frame: %w", err)
		}

		if window.WaitKey(delay) == keyEsc {
			return nil
		}

		select {
		case s := <-sig:
			l.Info("received signal", "signal", s.String())
			return nil
		case <-audioDone:
			return errors.New("audio routine exited")
		default:
		}
	}
}

// annotate draws the motion region, its centre and, in discrete mode, the
// current tone on img.
func annotate(img *gocv.Mat, r theremin.Result, text bool) {
	if r.Status != motion.Found {
		return
	}
	gocv.Rectangle(img, r.Box, boxColor, 2)
	gocv.Circle(img, r.Center, 5, centreColor, -1)
	if text {
		s := fmt.Sprintf("Freq: %.1f Hz  Vol: %.2f", r.Tone.Frequency, r.Tone.Volume)
		gocv.PutText(img, s, image.Pt(10, 30), gocv.FontHersheySimplex, 0.8, textColor, 2)
	}
}

func modeName(m uint8) string {
	if m == config.ModeDiscrete {
		return "discrete"
	}
	return "continuous"
}
