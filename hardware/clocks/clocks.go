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

// Package clocks defines the constant values that define the speed of the CPU
// clock in the PAL and NTSC versions of the machine.
//
// The MHz values are used where a rate is required. The integer Hz values are
// used when calculating timer reload values.
package clocks

const (
	NTSC = 1.022727
	PAL  = 0.985248
)

const (
	NTSC_Hz = 1022727
	PAL_Hz  = 985248
)

// TimerReload returns the CIA timer reload value that produces the requested
// number of underflows per second. The result is truncated rather than
// rounded and is clamped to the range of the 16 bit timer latch.
func TimerReload(clockHz int, rate int) uint16 {
	if rate <= 0 {
		return 0xffff
	}
	r := clockHz / rate
	if r < 1 {
		return 1
	}
	if r > 0xffff {
		return 0xffff
	}
	return uint16(r)
}
