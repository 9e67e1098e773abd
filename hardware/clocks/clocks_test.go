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

package clocks_test

import (
	"testing"

	"github.com/vreid/koalastream/hardware/clocks"
	"github.com/vreid/koalastream/test"
)

func TestTimerReload(t *testing.T) {
	test.ExpectEquality(t, clocks.TimerReload(clocks.PAL_Hz, 6000), uint16(164))
	test.ExpectEquality(t, clocks.TimerReload(clocks.NTSC_Hz, 6000), uint16(170))
	test.ExpectEquality(t, clocks.TimerReload(clocks.PAL_Hz, 1), uint16(0xffff))
	test.ExpectEquality(t, clocks.TimerReload(clocks.PAL_Hz, 0), uint16(0xffff))
	test.ExpectEquality(t, clocks.TimerReload(100, 1000), uint16(1))
}
