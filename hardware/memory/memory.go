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

package memory

import (
	"github.com/vreid/koalastream/curated"
)

// Bus is the interface to memory used by regions and components.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, data uint8)
}

// RAM is the 64K of main memory. It implements the Bus interface directly and
// so can be used as plain memory in tests.
type RAM struct {
	data [0x10000]uint8
}

// NewRAM is the preferred method of initialisation for the RAM type.
func NewRAM() *RAM {
	return &RAM{}
}

// Read implements the Bus interface.
func (ram *RAM) Read(address uint16) uint8 {
	return ram.data[address]
}

// Write implements the Bus interface.
func (ram *RAM) Write(address uint16, data uint8) {
	ram.data[address] = data
}

// Clear sets every location to zero.
func (ram *RAM) Clear() {
	clear(ram.data[:])
}

// ColourRAMSize is the number of nibbles in colour RAM. Only the first 1000
// are visible on screen.
const ColourRAMSize = 1024

// ColourRAM is the 1K of four bit memory that holds the foreground colour of
// each character cell.
type ColourRAM struct {
	data [ColourRAMSize]uint8
}

// Read the nibble at the offset. The upper four bits are always zero.
func (col *ColourRAM) Read(offset uint16) uint8 {
	return col.data[offset%ColourRAMSize]
}

// Write the lower four bits of data to the offset.
func (col *ColourRAM) Write(offset uint16, data uint8) {
	col.data[offset%ColourRAMSize] = data & 0x0f
}

// RegionBounds is returned when an access to a region is outside the region or
// when a region does not fit in the address space.
const RegionBounds = "memory: %s: offset %d outside region of size %d"

// RegionDefinition is returned when a region is defined with invalid values.
const RegionDefinition = "memory: %s: invalid region (origin %#04x, size %d)"

// Region is a named, size-checked window onto a Bus.
type Region struct {
	bus    Bus
	name   string
	origin uint16
	size   int
}

// NewRegion is the preferred method of initialisation for the Region type. The
// region must have a positive size and must fit in the 16 bit address space.
func NewRegion(bus Bus, name string, origin uint16, size int) (*Region, error) {
	if size <= 0 || int(origin)+size > 0x10000 {
		return nil, curated.Errorf(RegionDefinition, name, origin, size)
	}
	return &Region{
		bus:    bus,
		name:   name,
		origin: origin,
		size:   size,
	}, nil
}

func (r *Region) String() string {
	return r.name
}

// Name returns the name of the region.
func (r *Region) Name() string {
	return r.name
}

// Origin returns the address of the first byte of the region.
func (r *Region) Origin() uint16 {
	return r.origin
}

// Size returns the number of bytes in the region.
func (r *Region) Size() int {
	return r.size
}

// Address returns the bus address of the offset.
func (r *Region) Address(offset int) (uint16, error) {
	if offset < 0 || offset >= r.size {
		return 0, curated.Errorf(RegionBounds, r.name, offset, r.size)
	}
	return r.origin + uint16(offset), nil
}

// Contains returns true if the address is inside the region.
func (r *Region) Contains(address uint16) bool {
	return address >= r.origin && int(address) < int(r.origin)+r.size
}

// Overlaps returns true if any part of the two regions occupy the same
// addresses.
func (r *Region) Overlaps(o *Region) bool {
	return int(r.origin) < int(o.origin)+o.size && int(o.origin) < int(r.origin)+r.size
}

// Store a value at the offset.
func (r *Region) Store(offset int, data uint8) error {
	a, err := r.Address(offset)
	if err != nil {
		return err
	}
	r.bus.Write(a, data)
	return nil
}

// Load the value at the offset.
func (r *Region) Load(offset int) (uint8, error) {
	a, err := r.Address(offset)
	if err != nil {
		return 0, err
	}
	return r.bus.Read(a), nil
}

// Copy length bytes starting at the offset of the source region into the
// destination region at the offset. The mask is applied to every byte.
func Copy(dst *Region, dstOffset int, src *Region, srcOffset int, length int, mask uint8) error {
	for i := range length {
		v, err := src.Load(srcOffset + i)
		if err != nil {
			return err
		}
		if err := dst.Store(dstOffset+i, v&mask); err != nil {
			return err
		}
	}
	return nil
}

// Fill the region with the value.
func (r *Region) Fill(data uint8) {
	for i := range r.size {
		r.bus.Write(r.origin+uint16(i), data)
	}
}
