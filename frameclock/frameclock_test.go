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

package frameclock_test

import (
	"testing"

	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/environment"
	"github.com/vreid/koalastream/frameclock"
	"github.com/vreid/koalastream/hardware"
	"github.com/vreid/koalastream/test"
)

func newMachine(t *testing.T, tv string) *hardware.Machine {
	t.Helper()
	env, err := environment.NewEnvironment(environment.Label("test"), nil)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, env.Prefs.TVSpec.Set(tv))
	mc, err := hardware.NewMachine(env)
	test.DemandSuccess(t, err)
	return mc
}

func TestWaitVideoFrames(t *testing.T) {
	for _, tv := range []string{"PAL", "NTSC"} {
		mc := newMachine(t, tv)
		clk := frameclock.NewClock(mc, mc.Spec.RefreshRate)

		clk.WaitVideoFrames(1)
		test.ExpectEquality(t, mc.VIC.Line(), 256, tv)

		// already at the start of the frame. the current frame is not counted
		start := mc.Cycles()
		clk.WaitVideoFrames(5)
		test.ExpectEquality(t, mc.VIC.Line(), 256, tv)
		test.ExpectApproximate(t, mc.Cycles()-start, mc.Spec.CyclesPerFrame()*5, 0.01, tv)
	}
}

func TestWaitVideoSeconds(t *testing.T) {
	mc := newMachine(t, "NTSC")
	clk := frameclock.NewClock(mc, mc.Spec.RefreshRate)
	test.ExpectEquality(t, clk.RefreshRate(), 60)

	clk.WaitVideoFrames(1)
	frames := mc.VIC.Frames()
	clk.WaitVideoSeconds(1)
	test.ExpectEquality(t, mc.VIC.Frames()-frames, 60)
}

func TestWaitFrames(t *testing.T) {
	mc := newMachine(t, "PAL")
	clk := frameclock.NewClock(mc, mc.Spec.RefreshRate)

	// every change of the raster register is counted. in other words, every
	// raster line
	line := mc.VIC.Line()
	clk.WaitFrames(4)
	test.ExpectEquality(t, mc.VIC.Line()-line, 4)

	// zero frames returns immediately
	c := mc.Cycles()
	clk.WaitFrames(0)
	test.ExpectEquality(t, mc.Cycles(), c)
}

type raster struct {
	clk         *frameclock.Clock
	line        uint8
	inInterrupt bool
	reenter     bool
}

func (r *raster) Read(address uint16) uint8 {
	if r.reenter {
		r.reenter = false
		r.clk.WaitFrames(1)
	}
	r.line++
	return r.line
}

func (r *raster) InInterrupt() bool {
	return r.inInterrupt
}

func expectPanic(t *testing.T, pattern string, f func()) {
	t.Helper()
	defer func() {
		err, ok := recover().(error)
		test.DemandSuccess(t, ok)
		test.ExpectSuccess(t, curated.Is(err, pattern))
	}()
	f()
}

func TestMisuse(t *testing.T) {
	r := &raster{inInterrupt: true}
	clk := frameclock.NewClock(r, 50)
	r.clk = clk

	expectPanic(t, frameclock.InterruptContext, func() {
		clk.WaitVideoFrames(1)
	})

	r.inInterrupt = false
	r.reenter = true
	expectPanic(t, frameclock.Reentrant, func() {
		clk.WaitFrames(1)
	})

	// a panic does not leave the clock busy
	clk.WaitFrames(2)
}
