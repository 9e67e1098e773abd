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

// Package memory contains the RAM of the machine, the colour RAM and the Region
// type.
//
// A Region is a named, fixed-size window onto a Bus. The bounds of a region are
// checked when it is created and on every access. Regions are how the
// components address fixed locations in memory, such as the planes of a
// picture or the screen matrix. Because a Region accesses memory through the
// Bus interface, the same region can be placed over the emulated machine or
// over plain RAM in a test.
package memory
