/*
LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package mapper

// Smoother is an exponential smoothing filter. The zero value with Alpha set
// is ready to use.
type Smoother struct {
	Alpha float64 // Weight of the previous value.

	prev float64
	init bool
}

// Update returns Alpha*prev + (1-Alpha)*raw and stores it as the new
// previous value. The first update after construction or Reset returns raw.
func (s *Smoother) Update(raw float64) float64 {
	if !s.init {
		s.prev, s.init = raw, true
		return raw
	}
	s.prev = s.Alpha*s.prev + (1-s.Alpha)*raw
	return s.prev
}

// Value returns the previous value and whether there is one.
func (s *Smoother) Value() (float64, bool) { return s.prev, s.init }

// Reset discards the previous value.
func (s *Smoother) Reset() { s.prev, s.init = 0, false }
