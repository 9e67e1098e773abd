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

// Package vic models the parts of the VIC-II video chip that are visible to
// the streaming components: the raster counter, the control registers, the
// memory pointers and the border and background colours.
//
// The raster counter is driven by CPU cycles. The chip does not generate
// pictures. The screenshot package reads the registers and the memory they
// point to and renders the picture on demand.
package vic

import (
	"fmt"

	"github.com/vreid/koalastream/hardware/specification"
)

// Register offsets. Registers are mirrored every 64 bytes.
const (
	Control1   = 0x11
	Raster     = 0x12
	IRQFlags   = 0x19
	IRQEnable  = 0x1a
	Control2   = 0x16
	MemoryPtrs = 0x18
	Border     = 0x20
	Background = 0x21
)

// bits of the Control1 register.
const (
	Control1RasterMSB = 0x80
	Control1Bitmap    = 0x20
	Control1Display   = 0x10
)

// bits of the Control2 register.
const (
	Control2Multicolour = 0x10
)

// VIC is the video chip.
type VIC struct {
	spec specification.Spec

	regs [0x40]uint8

	// the current raster line and the number of cycles into that line
	line  int
	cycle int

	// number of completed frames
	frames int
}

// NewVIC is the preferred method of initialisation for the VIC type.
func NewVIC(spec specification.Spec) *VIC {
	vic := &VIC{
		spec: spec,
	}
	vic.Reset()
	return vic
}

func (vic *VIC) String() string {
	return fmt.Sprintf("line=%03d cycle=%02d d011=%02x d016=%02x d018=%02x",
		vic.line, vic.cycle, vic.regs[Control1], vic.regs[Control2], vic.regs[MemoryPtrs])
}

// Reset registers to the values the KERNAL leaves them in after power on.
func (vic *VIC) Reset() {
	clear(vic.regs[:])
	vic.regs[Control1] = 0x1b
	vic.regs[Control2] = 0xc8
	vic.regs[MemoryPtrs] = 0x15
	vic.regs[Border] = 0x0e
	vic.regs[Background] = 0x06
	vic.line = 0
	vic.cycle = 0
	vic.frames = 0
}

// Step the raster by the number of CPU cycles. Returns the number of frames
// that were completed during the step.
func (vic *VIC) Step(cycles int) int {
	frames := 0
	vic.cycle += cycles
	for vic.cycle >= vic.spec.CyclesPerLine {
		vic.cycle -= vic.spec.CyclesPerLine
		vic.line++
		if vic.line >= vic.spec.Lines {
			vic.line = 0
			vic.frames++
			frames++
		}
	}
	return frames
}

// Read a register. The most significant bit of the raster counter is visible in
// the Control1 register.
func (vic *VIC) Read(reg uint8) uint8 {
	reg &= 0x3f
	switch reg {
	case Control1:
		v := vic.regs[Control1] &^ Control1RasterMSB
		if vic.line&0x100 == 0x100 {
			v |= Control1RasterMSB
		}
		return v
	case Raster:
		return uint8(vic.line)
	case Border, Background:
		// unused upper bits read as one
		return vic.regs[reg] | 0xf0
	}
	if reg >= 0x2f {
		return 0xff
	}
	return vic.regs[reg]
}

// Write a register. Writing to the raster register sets the raster compare
// value, which is stored but not otherwise used.
func (vic *VIC) Write(reg uint8, data uint8) {
	reg &= 0x3f
	if reg >= 0x2f {
		return
	}
	vic.regs[reg] = data
}

// Line returns the current raster line.
func (vic *VIC) Line() int {
	return vic.line
}

// Frames returns the number of completed frames since reset.
func (vic *VIC) Frames() int {
	return vic.frames
}

// BitmapMode returns true if the bitmap mode bit is set.
func (vic *VIC) BitmapMode() bool {
	return vic.regs[Control1]&Control1Bitmap == Control1Bitmap
}

// DisplayEnabled returns true if the display enable bit is set.
func (vic *VIC) DisplayEnabled() bool {
	return vic.regs[Control1]&Control1Display == Control1Display
}

// MulticolourMode returns true if the multicolour bit is set.
func (vic *VIC) MulticolourMode() bool {
	return vic.regs[Control2]&Control2Multicolour == Control2Multicolour
}

// ScreenOffset returns the offset of the screen matrix inside the VIC bank.
func (vic *VIC) ScreenOffset() uint16 {
	return uint16(vic.regs[MemoryPtrs]>>4) * 0x0400
}

// BitmapOffset returns the offset of the bitmap inside the VIC bank.
func (vic *VIC) BitmapOffset() uint16 {
	return uint16(vic.regs[MemoryPtrs]&0x08) << 10
}

// BorderColour returns the four bit border colour.
func (vic *VIC) BorderColour() uint8 {
	return vic.regs[Border] & 0x0f
}

// BackgroundColour returns the four bit background colour.
func (vic *VIC) BackgroundColour() uint8 {
	return vic.regs[Background] & 0x0f
}
