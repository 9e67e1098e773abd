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

// Package frameclock provides delays that are synchronised to the raster of
// the video chip. The delays busy-wait on the raster registers. They do not
// use the timer interrupt and so work the same with interrupts masked or
// unmasked.
//
// The waits must not be called from an interrupt handler. The raster continues
// to move while the handler runs but the conditions the waits look for might
// depend on code that only runs once the handler has returned. Calling a wait
// from an interrupt handler, or calling a wait while another wait is in
// progress, is a programming error and causes a panic.
package frameclock

import (
	"github.com/vreid/koalastream/curated"
)

// Sentinal error patterns. These are used as panic values.
const (
	InterruptContext = "frameclock: wait called from interrupt handler"
	Reentrant        = "frameclock: wait called while waiting"
)

// raster register addresses.
const (
	control1 = 0xd011
	raster   = 0xd012
)

// the raster counter's most significant bit in the control1 register
const rasterMSB = 0x80

// Raster is the interface to the machine required by Clock.
type Raster interface {
	Read(address uint16) uint8
	InInterrupt() bool
}

// Clock provides raster synchronised delays.
type Clock struct {
	raster  Raster
	refresh int
	busy    bool
}

// NewClock is the preferred method of initialisation for the Clock type. The
// refresh rate is the number of frames per second of the video signal.
func NewClock(r Raster, refresh int) *Clock {
	return &Clock{
		raster:  r,
		refresh: refresh,
	}
}

// RefreshRate returns the refresh rate used by WaitVideoSeconds().
func (clk *Clock) RefreshRate() int {
	return clk.refresh
}

func (clk *Clock) enter() {
	if clk.raster.InInterrupt() {
		panic(curated.Errorf(InterruptContext))
	}
	if clk.busy {
		panic(curated.Errorf(Reentrant))
	}
	clk.busy = true
}

func (clk *Clock) leave() {
	clk.busy = false
}

// WaitFrames returns after the raster register has changed n times. This is a
// coarse delay suitable for pacing visual effects.
func (clk *Clock) WaitFrames(n int) {
	clk.enter()
	defer clk.leave()

	for range n {
		start := clk.raster.Read(raster)
		for clk.raster.Read(raster) == start {
		}
	}
}

// atFrameStart returns true if the raster is on the first line of the frame.
// the raster counter is nine bits wide and the frame starts when it is 256.
func (clk *Clock) atFrameStart() bool {
	return clk.raster.Read(control1)&rasterMSB == rasterMSB && clk.raster.Read(raster) == 0
}

// WaitVideoFrames returns after n complete video frames have started. If the
// raster is already at the start of a frame that frame is not counted.
func (clk *Clock) WaitVideoFrames(n int) {
	clk.enter()
	defer clk.leave()

	for range n {
		for clk.atFrameStart() {
		}
		for !clk.atFrameStart() {
		}
	}
}

// WaitVideoSeconds waits for the number of seconds, measured in video frames.
func (clk *Clock) WaitVideoSeconds(s int) {
	clk.WaitVideoFrames(s * clk.refresh)
}
