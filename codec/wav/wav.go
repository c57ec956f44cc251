/*
NAME
  wav.go

DESCRIPTION
  wav.go provides Recorder, which records mono 16 bit PCM to a WAV file.
  Audio written to a Recorder is queued in a ring buffer and encoded to disk
  by a separate routine.

AUTHOR
  David Sutton <davidsutton@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package wav provides recording of pcm audio to wav files.
package wav

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ausocean/theremin/codec/pcm"
	"github.com/ausocean/utils/logging"
	"github.com/ausocean/utils/pool"
)

const (
	pkg = "wav: "

	// PCMFormat defines the value for pcm audio as defined by the wav std.
	PCMFormat = 1

	bitDepth      = 16
	channels      = 1
	rbLen         = 64
	rbChunkPeriod = 1.0 // Seconds of audio per ring buffer chunk.
	rbTimeout     = 10 * time.Millisecond
	rbNextTimeout = 50 * time.Millisecond
)

var (
	errInvalidRate = errors.New("invalid or no sample rate defined")
	errClosed      = errors.New("recorder is closed")
)

// Recorder records audio to a WAV file. Write may be called concurrently with
// the encoding routine but not after Close.
type Recorder struct {
	l    logging.Logger
	f    *os.File
	enc  *wav.Encoder
	buf   *pool.Buffer
	chunk int // Ring buffer chunk size in bytes.
	rate  int

	mu     sync.Mutex
	closed bool
	stop   chan struct{}
	done   chan struct{}
	frames int
}

// NewRecorder creates the file at path and starts a routine encoding the
// audio written to the Recorder.
func NewRecorder(path string, rate uint, l logging.Logger) (*Recorder, error) {
	if rate == 0 {
		return nil, errInvalidRate
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("could not create wav file: %w", err)
	}

	chunk := pcm.DataSize(rate, channels, bitDepth, rbChunkPeriod)
	pool.MaxAlloc(rbLen * chunk)
	r := &Recorder{
		l:     l,
		f:     f,
		enc:   wav.NewEncoder(f, int(rate), bitDepth, channels, PCMFormat),
		buf:   pool.NewBuffer(rbLen, chunk, rbTimeout),
		chunk: chunk,
		rate:  int(rate),
		stop:  make(chan struct{}),
		done:  make(chan struct{}),
	}
	go r.encode()
	l.Info(pkg+"recording", "path", path, "rate", rate)
	return r, nil
}

// Write queues p, which holds mono S16_LE PCM, for encoding. Writes longer
// than a ring buffer chunk are split across chunks. If the queue is full the
// oldest audio is dropped and pool.ErrDropped is returned once p is queued.
func (r *Recorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return 0, errClosed
	}

	var n int
	var dropped error
	for len(p) > 0 {
		m := min(len(p), r.chunk)
		w, err := r.buf.Write(p[:m])
		n += w
		switch err {
		case nil:
		case pool.ErrDropped:
			r.l.Warning(pkg+"old audio data overwritten", "bytes", m)
			dropped = err
		default:
			return n, fmt.Errorf("could not queue audio: %w", err)
		}
		r.buf.Flush()
		p = p[m:]
	}
	return n, dropped
}

// Frames returns the number of sample frames encoded so far.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Close waits for queued audio to be encoded, then finalises the WAV header
// and closes the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return errClosed
	}
	r.closed = true
	r.mu.Unlock()

	close(r.stop)
	<-r.done

	err := r.buf.Close()
	if err != nil {
		r.l.Error(pkg+"unable to close pool buffer", "error", err)
	}
	err = r.enc.Close()
	if err != nil {
		r.f.Close()
		return fmt.Errorf("could not finalise wav: %w", err)
	}
	r.l.Info(pkg+"recording closed", "frames", r.Frames())
	return r.f.Close()
}

// encode takes audio from the ring buffer and encodes it until the
// Recorder is closed and the ring buffer has drained.
func (r *Recorder) encode() {
	defer close(r.done)
	ib := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: r.rate},
		SourceBitDepth: bitDepth,
	}
	for {
		chunk, err := r.buf.Next(rbNextTimeout)
		switch err {
		case nil:
		case pool.ErrTimeout:
			select {
			case <-r.stop:
				return
			default:
				continue
			}
		case io.EOF:
			return
		default:
			r.l.Error(pkg+"unexpected error from Next", "error", err)
			return
		}

		f, err := pcm.BytesToFloats(chunk.Bytes())
		chunk.Close()
		if err != nil {
			r.l.Warning(pkg+"skipping bad chunk", "error", err)
			continue
		}
		ib.Data = ib.Data[:0]
		for _, v := range f {
			ib.Data = append(ib.Data, int(v*(1<<15)))
		}
		err = r.enc.Write(ib)
		if err != nil {
			r.l.Error(pkg+"could not encode audio", "error", err)
			continue
		}
		r.mu.Lock()
		r.frames += len(f)
		r.mu.Unlock()
	}
}
