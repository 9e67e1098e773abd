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

package specification_test

import (
	"testing"

	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/hardware/specification"
	"github.com/vreid/koalastream/test"
)

func TestGet(t *testing.T) {
	spec, err := specification.Get("pal")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, spec.ID, "PAL")
	test.ExpectEquality(t, spec.CyclesPerFrame(), 19656)

	spec, err = specification.Get("NTSC")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, spec.ID, "NTSC")
	test.ExpectEquality(t, spec.CyclesPerFrame(), 17095)

	_, err = specification.Get("SECAM")
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, specification.UnknownSpec))
}

func TestFrameRate(t *testing.T) {
	test.ExpectApproximate(t, specification.SpecPAL.FrameRate(), 50.0, 0.01)
	test.ExpectApproximate(t, specification.SpecNTSC.FrameRate(), 60.0, 0.01)
}

// the frame-start position used by the frame clock is raster line 256. both
// specifications must have that line
func TestFrameStartLine(t *testing.T) {
	for _, id := range specification.SpecList {
		spec, err := specification.Get(id)
		test.DemandSuccess(t, err)
		test.ExpectSuccess(t, spec.Lines > 256, id)
	}
}
