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

package screenshot

import "image/color"

// Palette is the 16 colour palette of the video chip as measured by Pepto.
var Palette = [16]color.NRGBA{
	{R: 0x00, G: 0x00, B: 0x00, A: 0xff},
	{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
	{R: 0x68, G: 0x37, B: 0x2b, A: 0xff},
	{R: 0x70, G: 0xa4, B: 0xb2, A: 0xff},
	{R: 0x6f, G: 0x3d, B: 0x86, A: 0xff},
	{R: 0x58, G: 0x8d, B: 0x43, A: 0xff},
	{R: 0x35, G: 0x28, B: 0x79, A: 0xff},
	{R: 0xb8, G: 0xc7, B: 0x6f, A: 0xff},
	{R: 0x6f, G: 0x4f, B: 0x25, A: 0xff},
	{R: 0x43, G: 0x39, B: 0x00, A: 0xff},
	{R: 0x9a, G: 0x67, B: 0x59, A: 0xff},
	{R: 0x44, G: 0x44, B: 0x44, A: 0xff},
	{R: 0x6c, G: 0x6c, B: 0x6c, A: 0xff},
	{R: 0x9a, G: 0xd2, B: 0x84, A: 0xff},
	{R: 0x6c, G: 0x5e, B: 0xb5, A: 0xff},
	{R: 0x95, G: 0x95, B: 0x95, A: 0xff},
}
