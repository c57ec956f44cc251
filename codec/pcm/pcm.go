/*
NAME
  pcm.go

DESCRIPTION
  pcm.go contains the PCM buffer types and conversions between float
  samples and signed 16 bit PCM.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package pcm provides functions for processing and converting pcm audio.
package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	pkgerrors "github.com/pkg/errors"
)

// SampleFormat is the format that a PCM Buffer's samples can be in.
type SampleFormat int

// Used to represent an unknown format.
const (
	Unknown SampleFormat = -1
)

// Sample formats that we use.
const (
	S16_LE SampleFormat = iota
	S32_LE
)

// BufferFormat contains the format for a PCM Buffer.
type BufferFormat struct {
	SFormat  SampleFormat
	Rate     uint
	Channels uint
}

// Buffer contains a buffer of PCM data and the format that it is in.
type Buffer struct {
	Format BufferFormat
	Data   []byte
}

// Errors returned by the conversions.
var (
	ErrNoAudio   = errors.New("no audio to convert")
	ErrOddLength = errors.New("uneven number of bytes (not whole number of samples)")
)

// DataSize takes audio attributes describing PCM audio data and returns the size of that data.
func DataSize(rate, channels, bitDepth uint, period float64) int {
	return int(float64(channels) * float64(rate) * float64(bitDepth/8) * period)
}

// Frames returns the number of sample frames held in b.
func (b Buffer) Frames() int {
	n := b.Format.SFormat.Bytes() * int(b.Format.Channels)
	if n == 0 {
		return 0
	}
	return len(b.Data) / n
}

// BytesToFloats converts signed 16 bit little endian PCM into samples in
// [-1, 1).
func BytesToFloats(b []byte) ([]float64, error) {
	if len(b) == 0 {
		return nil, ErrNoAudio
	} else if len(b)%2 != 0 {
		return nil, ErrOddLength
	}

	f := make([]float64, len(b)/2)
	for i := range f {
		f[i] = float64(int16(binary.LittleEndian.Uint16(b[2*i:]))) / (math.MaxInt16 + 1)
	}
	return f, nil
}

// FloatsToBytes converts samples in [-1, 1] into signed 16 bit little endian
// PCM. Samples outside that range are clipped.
func FloatsToBytes(f []float64) []byte {
	b := make([]byte, len(f)*2)
	for i, v := range f {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(int16(clip(v)*math.MaxInt16)))
	}
	return b
}

// MonoToStereo duplicates each sample of a mono buffer into both channels.
func MonoToStereo(c Buffer) (Buffer, error) {
	if c.Format.Channels == 2 {
		return c, nil
	}
	if c.Format.Channels != 1 {
		return Buffer{}, fmt.Errorf("audio is not stereo or mono, it has %v channels", c.Format.Channels)
	}

	n := c.Format.SFormat.Bytes()
	if n == 0 {
		return Buffer{}, fmt.Errorf("unhandled sample format %v", c.Format.SFormat)
	}

	stereo := make([]byte, 0, len(c.Data)*2)
	for i := 0; i+n <= len(c.Data); i += n {
		stereo = append(stereo, c.Data[i:i+n]...)
		stereo = append(stereo, c.Data[i:i+n]...)
	}

	return Buffer{
		Format: BufferFormat{
			Channels: 2,
			SFormat:  c.Format.SFormat,
			Rate:     c.Format.Rate,
		},
		Data: stereo,
	}, nil
}

// S16ToS32 widens the samples of a S16_LE buffer to S32_LE.
func S16ToS32(c Buffer) (Buffer, error) {
	switch c.Format.SFormat {
	case S32_LE:
		return c, nil
	case S16_LE:
	default:
		return Buffer{}, fmt.Errorf("unhandled sample format %v", c.Format.SFormat)
	}
	if len(c.Data)%2 != 0 {
		return Buffer{}, ErrOddLength
	}

	out := make([]byte, len(c.Data)*2)
	for i := 0; i < len(c.Data)/2; i++ {
		v := int32(int16(binary.LittleEndian.Uint16(c.Data[2*i:]))) << 16
		binary.LittleEndian.PutUint32(out[4*i:], uint32(v))
	}

	f := c.Format
	f.SFormat = S32_LE
	return Buffer{Format: f, Data: out}, nil
}

// Bytes returns the number of bytes in one sample of format f, or 0 if the
// format is unknown.
func (f SampleFormat) Bytes() int {
	switch f {
	case S16_LE:
		return 2
	case S32_LE:
		return 4
	default:
		return 0
	}
}

// String returns the string representation of a SampleFormat.
func (f SampleFormat) String() string {
	switch f {
	case S16_LE:
		return "S16_LE"
	case S32_LE:
		return "S32_LE"
	default:
		return "Unknown"
	}
}

// SFFromString takes a string representing a sample format and returns the corresponding SampleFormat.
func SFFromString(s string) (SampleFormat, error) {
	switch s {
	case "S16_LE":
		return S16_LE, nil
	case "S32_LE":
		return S32_LE, nil
	default:
		return Unknown, pkgerrors.Errorf("unknown sample format (%s)", s)
	}
}

func clip(v float64) float64 {
	if v > 1 {
		return 1
	} else if v < -1 {
		return -1
	}
	return v
}
