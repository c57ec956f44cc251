/*
NAME
  wav_test.go

DESCRIPTION
  wav_test.go tests the WAV recorder.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package wav

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"github.com/ausocean/utils/logging"
)

func TestRecorder(t *testing.T) {
	const rate = 44100
	path := filepath.Join(t.TempDir(), "session.wav")

	r, err := NewRecorder(path, rate, (*logging.TestLogger)(t))
	if err != nil {
		t.Fatalf("could not create recorder: %v", err)
	}

	want := []int{0, 16384, -16384, 32767, -32768}
	chunk := make([]byte, 2*len(want))
	for i, v := range want {
		binary.LittleEndian.PutUint16(chunk[2*i:], uint16(int16(v)))
	}

	const writes = 3
	for i := 0; i < writes; i++ {
		if _, err := r.Write(chunk); err != nil {
			t.Fatalf("unexpected write error: %v", err)
		}
	}
	if err := r.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if _, err := r.Write(chunk); err != errClosed {
		t.Errorf("expected errClosed after close, got: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	d := wav.NewDecoder(file)
	if !d.IsValidFile() {
		t.Fatal("recorded file is not a valid wav file")
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("could not decode recording: %v", err)
	}
	if d.SampleRate != rate || d.NumChans != 1 || d.BitDepth != 16 {
		t.Errorf("unexpected format: rate %d, channels %d, depth %d", d.SampleRate, d.NumChans, d.BitDepth)
	}
	if len(buf.Data) != writes*len(want) {
		t.Fatalf("unexpected number of samples, got: %d, want: %d", len(buf.Data), writes*len(want))
	}
	for i, v := range buf.Data {
		if w := want[i%len(want)]; v != w {
			t.Errorf("sample %d: got %d, want %d", i, v, w)
		}
	}
}

// TestRecorderLongWrite checks that a write longer than a ring buffer chunk,
// such as a long discrete burst, is recorded in full.
func TestRecorderLongWrite(t *testing.T) {
	const (
		rate    = 44100
		samples = rate * 3 / 2
	)
	path := filepath.Join(t.TempDir(), "burst.wav")

	r, err := NewRecorder(path, rate, (*logging.TestLogger)(t))
	if err != nil {
		t.Fatalf("could not create recorder: %v", err)
	}

	b := make([]byte, 2*samples)
	for i := 0; i < samples; i++ {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(int16(i%1000)))
	}
	n, err := r.Write(b)
	if err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if n != len(b) {
		t.Errorf("unexpected write length, got: %d, want: %d", n, len(b))
	}
	if err := r.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if r.Frames() != samples {
		t.Errorf("unexpected frames encoded, got: %d, want: %d", r.Frames(), samples)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer file.Close()

	buf, err := wav.NewDecoder(file).FullPCMBuffer()
	if err != nil {
		t.Fatalf("could not decode recording: %v", err)
	}
	if len(buf.Data) != samples {
		t.Fatalf("unexpected number of samples, got: %d, want: %d", len(buf.Data), samples)
	}
	for i, v := range buf.Data {
		if v != i%1000 {
			t.Fatalf("sample %d: got %d, want %d", i, v, i%1000)
		}
	}
}

func TestRecorderInvalid(t *testing.T) {
	l := (*logging.TestLogger)(t)
	if _, err := NewRecorder(filepath.Join(t.TempDir(), "a.wav"), 0, l); err != errInvalidRate {
		t.Errorf("expected errInvalidRate, got: %v", err)
	}
	if _, err := NewRecorder(filepath.Join(t.TempDir(), "missing", "a.wav"), 44100, l); err == nil {
		t.Error("expected error creating file in missing directory")
	}
}
