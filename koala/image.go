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

// Package koala streams a Koala Painter picture from a device on the serial
// bus into video memory.
//
// The picture is loaded in four parts. The pixel plane is loaded while the
// screen shows whatever it was showing before. Once the pixel plane is complete
// the video chip is switched to multicolour bitmap mode with a blank screen.
// The name plane and the attribute plane follow and the picture is revealed
// one row of character cells at a time, from the top of the screen downwards,
// as the attribute data for each row arrives. The background colour is last.
package koala

import (
	"github.com/vreid/koalastream/hardware/memory"
)

// Addresses and sizes of the image buffer. The pixel plane is also the bitmap
// shown by the video chip.
const (
	PixelOrigin      = 0x6000
	PixelSize        = 8000
	NameOrigin       = 0x7f40
	NameSize         = 1000
	AttributeOrigin  = 0x8328
	AttributeSize    = 1000
	BackgroundOrigin = 0x8710
	BackgroundSize   = 1
)

// Geometry of the screen in character cells.
const (
	Columns = 40
	Rows    = 25
)

// Header is the load address that a Koala file may start with, stored little
// endian.
const (
	Header   = 0x6000
	HeaderLo = uint8(Header & 0xff)
	HeaderHi = uint8(Header >> 8)
)

// File sizes with and without the header.
const (
	RawSize    = PixelSize + NameSize + AttributeSize + BackgroundSize
	HeaderSize = RawSize + 2
)

// ImageBuffer is the memory that a picture is loaded into.
type ImageBuffer struct {
	Pixels     *memory.Region
	Names      *memory.Region
	Attributes *memory.Region
	Background *memory.Region
}

// NewImageBuffer is the preferred method of initialisation for the ImageBuffer
// type. The bus can be the machine or plain memory.
func NewImageBuffer(bus memory.Bus) (*ImageBuffer, error) {
	var img ImageBuffer
	var err error

	for _, r := range []struct {
		reg    **memory.Region
		name   string
		origin uint16
		size   int
	}{
		{&img.Pixels, "pixels", PixelOrigin, PixelSize},
		{&img.Names, "names", NameOrigin, NameSize},
		{&img.Attributes, "attributes", AttributeOrigin, AttributeSize},
		{&img.Background, "background", BackgroundOrigin, BackgroundSize},
	} {
		*r.reg, err = memory.NewRegion(bus, r.name, r.origin, r.size)
		if err != nil {
			return nil, err
		}
	}

	return &img, nil
}
