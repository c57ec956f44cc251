/*
DESCRIPTION
  device.go provides AudioSink, an interface that describes a configurable
  audio output device that can be started and stopped and to which PCM
  audio may be written.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package device provides an interface and implementations for audio output
// devices that can be started and stopped and written to, along with capture
// devices for video input.
package device

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ausocean/theremin/config"
)

// ErrNotRunning is returned by writes to a sink that has not been started or
// has been stopped.
var ErrNotRunning = errors.New("device is not running")

// AudioSink describes a configurable audio output device. Audio is written as
// mono signed 16 bit little endian PCM at the configured sample rate. A
// write blocks until the device has accepted the audio, so a sink also paces
// its writer.
type AudioSink interface {
	io.Writer

	// Name returns the name of the AudioSink.
	Name() string

	// Setup configures the AudioSink using a Config struct and opens the
	// underlying device. Invalid fields are defaulted and reported in a
	// MultiError.
	Setup(c config.Config) error

	// Start starts the AudioSink accepting writes.
	Start() error

	// Stop closes the AudioSink. Writes blocked in the device return and
	// later writes fail with ErrNotRunning.
	Stop() error

	// IsRunning is used to determine if the device is running.
	IsRunning() bool
}

// MultiError implements the built in error interface. MultiError is used here
// to collect multiple errors during validation of configuration parameters for
// devices.
type MultiError []error

func (me MultiError) Error() string {
	if len(me) == 0 {
		panic("device: invalid use of MultiError")
	}
	return fmt.Sprintf("%v", []error(me))
}

// ManualSink is an implementation of the AudioSink interface that keeps the
// audio written to it in memory. It is used where no audio hardware is
// present, and the audio can be inspected with Bytes.
type ManualSink struct {
	mu        sync.Mutex
	isRunning bool
	data      []byte
	writes    int
	rate      uint
}

// NewManualSink provides a new ManualSink.
func NewManualSink() *ManualSink {
	return &ManualSink{}
}

// Name returns the name of ManualSink i.e. "ManualSink".
func (m *ManualSink) Name() string { return "ManualSink" }

// Setup records the sample rate of c; no other fields are used.
func (m *ManualSink) Setup(c config.Config) error {
	m.mu.Lock()
	m.rate = c.SampleRate
	m.mu.Unlock()
	return nil
}

// Start sets the ManualSink isRunning flag to true.
func (m *ManualSink) Start() error {
	m.mu.Lock()
	m.isRunning = true
	m.mu.Unlock()
	return nil
}

// Stop sets the isRunning flag to false.
func (m *ManualSink) Stop() error {
	m.mu.Lock()
	m.isRunning = false
	m.mu.Unlock()
	return nil
}

// IsRunning returns the value of the isRunning flag to indicate if Start has
// been called (and Stop has not been called after).
func (m *ManualSink) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isRunning
}

// Write appends p to the audio held by the ManualSink.
func (m *ManualSink) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.isRunning {
		return 0, ErrNotRunning
	}
	m.data = append(m.data, p...)
	m.writes++
	return len(p), nil
}

// Bytes returns a copy of the audio written so far.
func (m *ManualSink) Bytes() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.data...)
}

// Writes returns the number of successful writes.
func (m *ManualSink) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// SampleRate returns the sample rate given to Setup.
func (m *ManualSink) SampleRate() uint {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rate
}
