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

package koala

import (
	"github.com/vreid/koalastream/hardware/memory"
)

// Addresses of the display surface. The screen matrix is at $0400 in the
// second video bank.
const (
	ScreenOrigin = 0x4400
	ColourOrigin = 0xd800
)

const (
	cia2PortA   = 0xdd00
	vicControl1 = 0xd011
	vicControl2 = 0xd016
	vicMemory   = 0xd018
	vicBorder   = 0xd020
	vicBack     = 0xd021
)

// register values for multicolour bitmap mode with the screen matrix at $0400
// and the bitmap at $2000 in the video bank.
const (
	bankMask       = 0xfc
	bank4000       = 0x02
	displayEnable  = 0x10
	multicolourOn  = 0x18
	memoryPointers = 0x18
	bitmapOn       = 0x3b
)

// Display is the surface the picture is revealed on: the screen matrix and
// colour RAM.
type Display struct {
	bus    memory.Bus
	Screen *memory.Region
	Colour *memory.Region
}

// NewDisplay is the preferred method of initialisation for the Display type.
func NewDisplay(bus memory.Bus) (*Display, error) {
	scr, err := memory.NewRegion(bus, "screen", ScreenOrigin, Columns*Rows)
	if err != nil {
		return nil, err
	}
	col, err := memory.NewRegion(bus, "colour", ColourOrigin, Columns*Rows)
	if err != nil {
		return nil, err
	}
	return &Display{
		bus:    bus,
		Screen: scr,
		Colour: col,
	}, nil
}

// EnableBitmap switches the video chip to multicolour bitmap mode showing the
// pixel plane. The display is turned off while the screen matrix and colour
// RAM are blanked so that nothing but the background colour is visible when
// the display is turned back on.
func (disp *Display) EnableBitmap(background uint8) {
	disp.bus.Write(cia2PortA, disp.bus.Read(cia2PortA)&bankMask|bank4000)
	disp.bus.Write(vicControl1, disp.bus.Read(vicControl1)&^displayEnable)
	disp.bus.Write(vicControl2, multicolourOn)
	disp.bus.Write(vicMemory, memoryPointers)
	disp.SetBackground(background)

	disp.Screen.Fill(0x00)
	disp.Colour.Fill(0x00)

	disp.bus.Write(vicControl1, bitmapOn)
}

// SetBackground sets the background and border colour.
func (disp *Display) SetBackground(c uint8) {
	disp.bus.Write(vicBack, c)
	disp.bus.Write(vicBorder, c)
}

// RevealRow copies one row of the name plane to the screen matrix and the
// same row of the attribute plane to colour RAM. Only the lower four bits of
// the attributes are significant.
func (disp *Display) RevealRow(img *ImageBuffer, row int) error {
	offset := row * Columns
	if err := memory.Copy(disp.Screen, offset, img.Names, offset, Columns, 0xff); err != nil {
		return err
	}
	return memory.Copy(disp.Colour, offset, img.Attributes, offset, Columns, 0x0f)
}
