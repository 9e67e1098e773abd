// This file is part of Koalastream.
//
// Koalastream is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Koalastream is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Koalastream.  If not, see <https://www.gnu.org/licenses/>.

// Package limiter paces the emulation so that video frames are produced at the
// refresh rate of the machine. Without the limiter the emulation runs as fast
// as the host allows.
package limiter

import (
	"sync/atomic"
	"time"
)

// Limiter should be called once per video frame with CheckFrame().
type Limiter struct {
	// whether to wait for the pulse every frame
	Active bool

	// the number of frames per second requested with SetLimit()
	IdealFPS atomic.Value // float32

	// pulse that performs the limiting. the duration of the ticker is set by
	// SetLimit()
	pulse *time.Ticker

	// waiting on the pulse every frame is expensive so we wait for a group of
	// frames instead
	pulseCt      int
	pulseCtLimit int

	// pulse that performs the FPS measurement
	measuringPulse *time.Ticker
	measureTime    time.Time
	measureCt      int

	// the measured number of frames per second
	Measured atomic.Value // float32
}

// NewLimiter is the preferred method of initialisation for the Limiter type.
func NewLimiter(fps float32) *Limiter {
	lmtr := &Limiter{
		Active:         true,
		pulse:          time.NewTicker(time.Millisecond * 20),
		measuringPulse: time.NewTicker(time.Second),
	}
	lmtr.Measured.Store(float32(0.0))
	lmtr.SetLimit(fps)
	return lmtr
}

// SetLimit changes the number of frames per second. A value of zero or less is
// ignored.
func (lmtr *Limiter) SetLimit(fps float32) {
	if fps <= 0.0 {
		return
	}
	lmtr.IdealFPS.Store(fps)

	lmtr.pulseCt = 0
	lmtr.pulseCtLimit = 1 + int(fps/20)
	lmtr.pulse.Reset(time.Duration(float32(time.Second) / fps * float32(lmtr.pulseCtLimit)))

	lmtr.measureCt = 0
	lmtr.measureTime = time.Now()
}

// CheckFrame should be called every frame. It blocks until it is time for the
// next frame.
func (lmtr *Limiter) CheckFrame() {
	lmtr.measureCt++
	if lmtr.Active {
		lmtr.pulseCt++
		if lmtr.pulseCt >= lmtr.pulseCtLimit {
			lmtr.pulseCt = 0
			<-lmtr.pulse.C
		}
	}
}

// MeasureActual updates the Measured field once a second. It should be called
// every frame after CheckFrame().
func (lmtr *Limiter) MeasureActual() {
	select {
	case <-lmtr.measuringPulse.C:
		t := time.Now()
		lmtr.Measured.Store(float32(lmtr.measureCt) / float32(t.Sub(lmtr.measureTime).Seconds()))
		lmtr.measureTime = t
		lmtr.measureCt = 0
	default:
	}
}

// Stop the limiter. It can not be restarted.
func (lmtr *Limiter) Stop() {
	lmtr.pulse.Stop()
	lmtr.measuringPulse.Stop()
}
