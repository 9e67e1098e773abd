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

// Package random provides the pseudo-random number generator used inside the
// emulation. The generator is a 16-bit xorshift, small enough to run on the
// target machine, and is deterministic: the same seed always produces the same
// sequence of numbers.
//
// The math/rand package should not be used inside the emulation because the
// sequence of numbers it produces is not guaranteed between Go releases.
package random
