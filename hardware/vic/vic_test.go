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

package vic_test

import (
	"testing"

	"github.com/vreid/koalastream/hardware/specification"
	"github.com/vreid/koalastream/hardware/vic"
	"github.com/vreid/koalastream/test"
)

func TestRaster(t *testing.T) {
	v := vic.NewVIC(specification.SpecPAL)
	test.ExpectEquality(t, v.Read(vic.Raster), uint8(0))

	v.Step(62)
	test.ExpectEquality(t, v.Line(), 0)
	v.Step(1)
	test.ExpectEquality(t, v.Line(), 1)
	test.ExpectEquality(t, v.Read(vic.Raster), uint8(1))

	// step to line 256. the MSB of the raster is visible in bit 7 of $d011
	v.Step(255 * 63)
	test.ExpectEquality(t, v.Line(), 256)
	test.ExpectEquality(t, v.Read(vic.Raster), uint8(0))
	test.ExpectEquality(t, v.Read(vic.Control1)&vic.Control1RasterMSB, uint8(vic.Control1RasterMSB))

	// the rest of the frame
	frames := v.Step((312 - 256) * 63)
	test.ExpectEquality(t, frames, 1)
	test.ExpectEquality(t, v.Line(), 0)
	test.ExpectEquality(t, v.Frames(), 1)
	test.ExpectEquality(t, v.Read(vic.Control1)&vic.Control1RasterMSB, uint8(0))

	// a step of several frames
	frames = v.Step(3 * specification.SpecPAL.CyclesPerFrame())
	test.ExpectEquality(t, frames, 3)
	test.ExpectEquality(t, v.Frames(), 4)
}

func TestRegisters(t *testing.T) {
	v := vic.NewVIC(specification.SpecNTSC)
	test.ExpectFailure(t, v.BitmapMode())
	test.ExpectSuccess(t, v.DisplayEnabled())
	test.ExpectFailure(t, v.MulticolourMode())

	// writing the MSB of the raster does not change what is read back
	v.Write(vic.Control1, 0xbb)
	test.ExpectEquality(t, v.Read(vic.Control1), uint8(0x3b))
	test.ExpectSuccess(t, v.BitmapMode())

	// registers are mirrored every 64 bytes
	v.Write(vic.Control2+0x40, 0x18)
	test.ExpectSuccess(t, v.MulticolourMode())

	v.Write(vic.MemoryPtrs, 0x18)
	test.ExpectEquality(t, v.ScreenOffset(), uint16(0x0400))
	test.ExpectEquality(t, v.BitmapOffset(), uint16(0x2000))

	v.Write(vic.Border, 0x02)
	test.ExpectEquality(t, v.Read(vic.Border), uint8(0xf2))
	test.ExpectEquality(t, v.BorderColour(), uint8(0x02))
}
