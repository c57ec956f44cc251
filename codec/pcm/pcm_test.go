/*
NAME
  pcm_test.go

DESCRIPTION
  pcm_test.go contains functions for testing the pcm package.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package pcm

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBytesToFloats(t *testing.T) {
	tests := []struct {
		in      []byte
		want    []float64
		wantErr error
	}{
		{in: nil, wantErr: ErrNoAudio},
		{in: []byte{0x00, 0x00, 0x01}, wantErr: ErrOddLength},
		{in: []byte{0x00, 0x00, 0x00, 0x40, 0x00, 0x80}, want: []float64{0, 0.5, -1}},
	}

	for i, test := range tests {
		got, err := BytesToFloats(test.in)
		if !errors.Is(err, test.wantErr) {
			t.Errorf("did not get expected error for test %d\ngot: %v\nwant: %v", i, err, test.wantErr)
			continue
		}
		if !cmp.Equal(got, test.want) {
			t.Errorf("did not get expected result for test %d\ngot: %v\nwant: %v", i, got, test.want)
		}
	}
}

func TestFloatsToBytes(t *testing.T) {
	got := FloatsToBytes([]float64{0, 1, -1, 2, -2})
	want := []byte{
		0x00, 0x00,
		0xff, 0x7f,
		0x01, 0x80,
		0xff, 0x7f,
		0x01, 0x80,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("did not get expected result\ngot: %v\nwant: %v", got, want)
	}
}

func TestMonoToStereo(t *testing.T) {
	mono := Buffer{
		Format: BufferFormat{SFormat: S16_LE, Rate: 44100, Channels: 1},
		Data:   []byte{0x01, 0x02, 0x03, 0x04},
	}
	got, err := MonoToStereo(mono)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Buffer{
		Format: BufferFormat{SFormat: S16_LE, Rate: 44100, Channels: 2},
		Data:   []byte{0x01, 0x02, 0x01, 0x02, 0x03, 0x04, 0x03, 0x04},
	}
	if !cmp.Equal(got, want) {
		t.Errorf("did not get expected result\ngot: %v\nwant: %v", got, want)
	}
	if got.Frames() != mono.Frames() {
		t.Errorf("frame count changed: %d != %d", got.Frames(), mono.Frames())
	}

	_, err = MonoToStereo(Buffer{Format: BufferFormat{SFormat: S16_LE, Channels: 3}})
	if err == nil {
		t.Error("expected error for 3 channel audio")
	}
}

func TestSFFromString(t *testing.T) {
	for _, f := range []SampleFormat{S16_LE, S32_LE} {
		got, err := SFFromString(f.String())
		if err != nil || got != f {
			t.Errorf("round trip of %v failed: got %v, err %v", f, got, err)
		}
	}
	if _, err := SFFromString("U8"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestS16ToS32(t *testing.T) {
	in := Buffer{
		Format: BufferFormat{SFormat: S16_LE, Rate: 44100, Channels: 2},
		Data:   []byte{0x01, 0x00, 0xfe, 0xff},
	}
	got, err := S16ToS32(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Buffer{
		Format: BufferFormat{SFormat: S32_LE, Rate: 44100, Channels: 2},
		Data:   []byte{0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0xfe, 0xff},
	}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected conversion, got: %v, want: %v", got, want)
	}
	if got.Frames() != 1 {
		t.Errorf("unexpected frames: %d", got.Frames())
	}

	if _, err := S16ToS32(Buffer{Format: BufferFormat{SFormat: Unknown}, Data: []byte{0, 0}}); err == nil {
		t.Error("expected error for unknown format")
	}
	if _, err := S16ToS32(Buffer{Format: BufferFormat{SFormat: S16_LE}, Data: []byte{0}}); !errors.Is(err, ErrOddLength) {
		t.Errorf("expected ErrOddLength, got: %v", err)
	}
}

func TestAmplifier(t *testing.T) {
	f := []float64{0.1, -0.2, 0.6, -0.9}
	var amp AudioFilter = NewAmplifier(-2)
	amp.Apply(f)
	want := []float64{0.2, -0.4, 1, -1}
	for i := range f {
		if math.Abs(f[i]-want[i]) > 1e-12 {
			t.Errorf("sample %d: got %v, want %v", i, f[i], want[i])
		}
	}
}

func TestFade(t *testing.T) {
	const n = 100
	f := make([]float64, 1000)
	for i := range f {
		f[i] = 1
	}
	Fade(f, n)

	if f[0] != 0 || f[len(f)-1] != 0 {
		t.Errorf("edges not silent: %v, %v", f[0], f[len(f)-1])
	}
	for i := 1; i < n; i++ {
		if f[i] < f[i-1] {
			t.Errorf("fade in not rising at %d", i)
		}
		if f[len(f)-1-i] < f[len(f)-i] {
			t.Errorf("fade out not falling at %d", len(f)-1-i)
		}
	}
	for i := n; i < len(f)-n; i++ {
		if f[i] != 1 {
			t.Fatalf("sample %d outside fades changed: %v", i, f[i])
		}
	}

	// Fades longer than half the buffer are limited.
	short := []float64{1, 1, 1}
	Fade(short, 10)
	if short[1] != 1 {
		t.Errorf("middle sample of short buffer changed: %v", short[1])
	}

	g := []float64{1, 1, 1, 1}
	var fd AudioFilter = NewFader(1)
	fd.Apply(g)
	if diff := cmp.Diff([]float64{0, 1, 1, 0}, g); diff != "" {
		t.Errorf("unexpected faded samples (-want +got):\n%s", diff)
	}
}
