/*
DESCRIPTION
  state.go provides State, the tone shared between the capture loop and the
  audio routine.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package synth generates and emits sine tones, either as a continuous
// stream whose tone follows a shared State or as one-shot bursts.
package synth

import (
	"sync"

	"github.com/ausocean/theremin/mapper"
)

// State holds the current tone and running flag. It is safe for concurrent
// use; readers always see a tone set by a single call to Set.
type State struct {
	mu      sync.Mutex
	tone    mapper.Tone
	running bool
}

// NewState returns a running State holding t.
func NewState(t mapper.Tone) *State {
	return &State{tone: t, running: true}
}

// Set replaces the current tone.
func (s *State) Set(t mapper.Tone) {
	s.mu.Lock()
	s.tone = t
	s.mu.Unlock()
}

// Get returns the current tone.
func (s *State) Get() mapper.Tone {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tone
}

// Running reports whether Stop has not yet been called.
func (s *State) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Stop clears the running flag.
func (s *State) Stop() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}
