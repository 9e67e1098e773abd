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

package limiter_test

import (
	"testing"

	"github.com/vreid/koalastream/hardware/limiter"
	"github.com/vreid/koalastream/test"
)

const measurementTolerance = 0.05
const numFramesPerTest = 2

func TestLimiter(t *testing.T) {
	if testing.Short() {
		t.Skip("real time test")
	}

	for _, hz := range []float32{50.0, 60.0} {
		lmtr := limiter.NewLimiter(hz)
		for range int(hz * numFramesPerTest) {
			lmtr.CheckFrame()
			lmtr.MeasureActual()
		}
		lmtr.Stop()

		rate := lmtr.Measured.Load().(float32)
		test.ExpectApproximate(t, rate, hz, measurementTolerance)
	}
}

func TestInactive(t *testing.T) {
	lmtr := limiter.NewLimiter(1)
	lmtr.Active = false

	// an inactive limiter never blocks
	for range 1000 {
		lmtr.CheckFrame()
	}
	lmtr.Stop()
	test.ExpectEquality(t, lmtr.IdealFPS.Load().(float32), float32(1))
}
