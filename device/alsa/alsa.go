/*
NAME
  alsa.go

AUTHOR
  Alan Noble <alan@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package alsa provides audio output to ALSA playback devices.
package alsa

import (
	"errors"
	"fmt"
	"sync"

	yalsa "github.com/yobert/alsa"

	"github.com/ausocean/theremin/codec/pcm"
	"github.com/ausocean/theremin/config"
	"github.com/ausocean/theremin/device"
	"github.com/ausocean/utils/logging"
)

const pkg = "alsa: "

// "running" means writes are passed to the ALSA device.
// "paused" means the device is open but writes are refused.
// "stopped" means the ALSA device is closed.
const (
	running = iota + 1
	paused
	stopped
)

const (
	defaultSampleRate = 44100
	defaultChannels   = 1
	bitDepth          = 16
	wantPeriod        = 0.05 // Seconds.
)

// Configuration field errors.
var (
	errInvalidSampleRate   = errors.New("invalid sample rate, defaulting")
	errInvalidSampleFormat = errors.New("invalid sample format, defaulting")
	errOddWrite            = errors.New("write is not a whole number of samples")
)

// An ALSA device holds everything we need to know about the audio output
// stream and implements device.AudioSink.
type ALSA struct {
	l     logging.Logger // Logger for device's routines to log to.
	mode  uint8          // Operating mode, either running, paused, or stopped.
	mu    sync.Mutex     // Provides synchronisation when changing modes concurrently.
	wmu   sync.Mutex     // Serialises device writes and closing.
	title string         // Name of audio title, or empty for the default title.
	dev   *yalsa.Device  // ALSA device's audio output device.
	devCh int            // Channels negotiated with the device.
	Config               // Configuration parameters for this device.
}

// Config provides parameters used by the ALSA device.
type Config struct {
	SampleRate   uint
	SampleFormat pcm.SampleFormat
	Channels     uint
}

// New initializes and returns an ALSA device which has its logger set as the given logger.
func New(l logging.Logger) *ALSA { return &ALSA{l: l} }

// Name returns the name of the device.
func (d *ALSA) Name() string {
	return "ALSA"
}

// Setup will take a Config struct, check the validity of the relevant fields
// and then open the first playback device. If fields are not valid, an error
// is added to the MultiError and a default value is used. The device is left
// paused until Start is called.
func (d *ALSA) Setup(c config.Config) error {
	var errs device.MultiError
	if c.SampleRate <= 0 {
		errs = append(errs, errInvalidSampleRate)
		c.SampleRate = defaultSampleRate
	}
	if _, err := alsaFormat(c.SampleFormat); err != nil {
		errs = append(errs, errInvalidSampleFormat)
		c.SampleFormat = pcm.S16_LE
	}
	d.Config = Config{
		SampleRate:   c.SampleRate,
		SampleFormat: c.SampleFormat,
		Channels:     defaultChannels,
	}

	err := d.open()
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}

	d.mu.Lock()
	d.mode = paused
	d.mu.Unlock()

	if len(errs) != 0 {
		return errs
	}
	return nil
}

// Start will start passing writes to the device.
func (d *ALSA) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.mode {
	case paused, running:
		d.mode = running
		return nil
	case stopped:
		return errors.New("device is stopped")
	default:
		return fmt.Errorf("invalid mode: %d", d.mode)
	}
}

// Stop closes the device, waiting for any write in progress to return.
// Once an ALSA device has been stopped it cannot be started again.
func (d *ALSA) Stop() error {
	d.mu.Lock()
	d.mode = stopped
	d.mu.Unlock()

	d.wmu.Lock()
	defer d.wmu.Unlock()
	if d.dev != nil {
		d.l.Debug(pkg+"closing ALSA device", "title", d.title)
		d.dev.Close()
		d.dev = nil
	}
	return nil
}

// IsRunning is used to determine if the ALSA device is running.
func (d *ALSA) IsRunning() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode == running
}

// Write plays p, which holds mono S16_LE PCM at the configured rate. Write
// blocks until the device has buffered the audio. An underrun is recovered by
// preparing the device and retrying once.
func (d *ALSA) Write(p []byte) (int, error) {
	if len(p)%2 != 0 {
		return 0, errOddWrite
	}
	if !d.IsRunning() {
		return 0, device.ErrNotRunning
	}

	buf := pcm.Buffer{
		Format: pcm.BufferFormat{SFormat: pcm.S16_LE, Rate: d.SampleRate, Channels: 1},
		Data:   p,
	}
	if d.devCh == 2 {
		var err error
		buf, err = pcm.MonoToStereo(buf)
		if err != nil {
			return 0, fmt.Errorf("could not convert to stereo: %w", err)
		}
	}
	if d.SampleFormat == pcm.S32_LE {
		var err error
		buf, err = pcm.S16ToS32(buf)
		if err != nil {
			return 0, fmt.Errorf("could not convert to %v: %w", d.SampleFormat, err)
		}
	}

	d.wmu.Lock()
	defer d.wmu.Unlock()
	if d.dev == nil {
		return 0, device.ErrNotRunning
	}

	err := d.dev.Write(buf.Data, buf.Frames())
	if err != nil {
		d.l.Warning(pkg+"write failed, preparing device", "error", err)
		if perr := d.dev.Prepare(); perr != nil {
			return 0, fmt.Errorf("could not prepare device after failed write: %w", perr)
		}
		err = d.dev.Write(buf.Data, buf.Frames())
		if err != nil {
			return 0, fmt.Errorf("could not write to device: %w", err)
		}
	}
	return len(p), nil
}

// open the playback device with the given name and prepare it to play.
// If name is empty, the first playback device is used.
func (d *ALSA) open() error {
	d.wmu.Lock()
	defer d.wmu.Unlock()

	// Close any existing device.
	if d.dev != nil {
		d.l.Debug(pkg+"closing device", "title", d.title)
		d.dev.Close()
		d.dev = nil
	}

	d.l.Debug(pkg + "opening sound card")
	cards, err := yalsa.OpenCards()
	if err != nil {
		return err
	}
	defer yalsa.CloseCards(cards)

	d.l.Debug(pkg + "finding audio device")
	for _, card := range cards {
		devices, err := card.Devices()
		if err != nil {
			continue
		}
		for _, dev := range devices {
			if dev.Type != yalsa.PCM || !dev.Play {
				continue
			}
			if dev.Title == d.title || d.title == "" {
				d.dev = dev
				break
			}
		}
		if d.dev != nil {
			break
		}
	}
	if d.dev == nil {
		return errors.New("no ALSA playback device found")
	}

	d.l.Debug(pkg+"opening ALSA device", "title", d.dev.Title)
	err = d.dev.Open()
	if err != nil {
		d.dev = nil
		return err
	}

	err = d.negotiate()
	if err != nil {
		d.dev.Close()
		d.dev = nil
		return err
	}
	d.l.Debug(pkg + "successfully negotiated device params")
	return nil
}

// negotiate sets the channels, rate, format, period and buffer size of the
// open device.
func (d *ALSA) negotiate() error {
	channels, err := d.dev.NegotiateChannels(int(d.Channels))
	if err != nil && d.Channels == 1 {
		d.l.Info(pkg+"device is unable to play in mono, trying stereo", "error", err)
		channels, err = d.dev.NegotiateChannels(2)
	}
	if err != nil {
		return fmt.Errorf("device is unable to play with requested number of channels: %w", err)
	}
	d.devCh = channels
	d.l.Debug(pkg+"alsa device channels set", "channels", channels)

	// Synthesised audio is generated at the configured rate, so the device
	// must play at exactly that rate.
	rate, err := d.dev.NegotiateRate(int(d.SampleRate))
	if err != nil {
		return fmt.Errorf("device is unable to play at %d Hz: %w", d.SampleRate, err)
	}
	if rate != int(d.SampleRate) {
		return fmt.Errorf("device negotiated %d Hz, want %d Hz", rate, d.SampleRate)
	}
	d.l.Debug(pkg+"alsa device sample rate set", "rate", rate)

	want, err := alsaFormat(d.SampleFormat)
	if err != nil {
		return err
	}
	devFmt, err := d.dev.NegotiateFormat(want)
	if err != nil {
		return err
	}
	if devFmt != want {
		return fmt.Errorf("device is unable to play %v", d.SampleFormat)
	}
	d.l.Debug(pkg+"alsa device sample format set", "format", d.SampleFormat.String())

	// Some devices only accept even period sizes while others want powers of 2,
	// so use the closest power of 2 to the desired period in frames.
	periodSize, err := d.dev.NegotiatePeriodSize(nearestPowerOfTwo(int(float64(rate) * wantPeriod)))
	if err != nil {
		return err
	}
	d.l.Debug(pkg+"alsa device period size set", "periodsize", periodSize)

	// At least four period sizes should fit within the buffer.
	bufSize, err := d.dev.NegotiateBufferSize(periodSize * 4)
	if err != nil {
		return err
	}
	d.l.Debug(pkg+"alsa device buffer size set", "buffersize", bufSize)

	return d.dev.Prepare()
}

// alsaFormat returns the ALSA format type for a sample format.
func alsaFormat(f pcm.SampleFormat) (yalsa.FormatType, error) {
	switch f {
	case pcm.S16_LE:
		return yalsa.S16_LE, nil
	case pcm.S32_LE:
		return yalsa.S32_LE, nil
	default:
		return 0, fmt.Errorf("unsupported sample format %v", f)
	}
}

// nearestPowerOfTwo finds and returns the nearest power of two to the given integer.
// If the lower and higher power of two are the same distance, it returns the higher power.
// For negative values, 1 is returned.
// Source: https://stackoverflow.com/a/45859570
func nearestPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	if n == 1 {
		return 2
	}
	v := n
	v--
	v |= v >> 1
	v |= v >> 2
	v |= v >> 4
	v |= v >> 8
	v |= v >> 16
	v++         // higher power of 2
	x := v >> 1 // lower power of 2
	if (v - n) > (n - x) {
		return x
	}
	return v
}
