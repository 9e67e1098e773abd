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

// Package iec models the serial bus that connects the machine to its disk
// drives. The bus carries whole bytes. The handshaking of the real bus is not
// modelled but the time it takes to transfer a byte is: every Device reports
// the number of CPU cycles that one byte costs and the KERNAL advances the
// machine by that amount for every byte read.
//
// End of data is signalled with the last byte of a file, in the same way as
// the EOI handshake of the real bus. Reading beyond the last byte results in a
// timeout.
package iec

import (
	"fmt"
	"sort"

	"github.com/vreid/koalastream/curated"
)

// Bits of the KERNAL status byte that are set by the serial bus.
const (
	StatusTimeout          = 0x02
	StatusEOI              = 0x40
	StatusDeviceNotPresent = 0x80
)

// Sentinal error patterns.
const (
	DeviceNotPresent = "iec: device not present (%d)"
	DeviceConflict   = "iec: device %d is already attached"
	InvalidDevice    = "iec: invalid device number (%d)"
)

// Device is anything attached to the serial bus that can supply files.
type Device interface {
	// the device number. disk drives are numbered 8 and above
	ID() int

	// open the named file on the channel given by the secondary address
	Open(name string, secondary int) (Stream, error)

	// the number of CPU cycles it takes to transfer one byte
	TransferCycles() int
}

// Stream is an open file on a Device.
type Stream interface {
	// Next returns the next byte of the file and the status of the bus after
	// the transfer. The status is a combination of the Status* bits
	Next() (uint8, uint8)

	// Close the file. The stream should not be used after closure
	Close() error
}

// Bus connects devices to the machine.
type Bus struct {
	devices map[int]Device
}

// NewBus is the preferred method of initialisation for the Bus type.
func NewBus() *Bus {
	return &Bus{
		devices: make(map[int]Device),
	}
}

func (bus *Bus) String() string {
	ids := make([]int, 0, len(bus.devices))
	for id := range bus.devices {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return fmt.Sprintf("iec: devices %v", ids)
}

// Attach a device to the bus. Device numbers 0 to 3 are reserved for the
// keyboard, cassette, RS232 and screen and cannot be used.
func (bus *Bus) Attach(dev Device) error {
	id := dev.ID()
	if id < 4 || id > 30 {
		return curated.Errorf(InvalidDevice, id)
	}
	if _, ok := bus.devices[id]; ok {
		return curated.Errorf(DeviceConflict, id)
	}
	bus.devices[id] = dev
	return nil
}

// Detach the device with the ID. Returns false if there was no such device.
func (bus *Bus) Detach(id int) bool {
	if _, ok := bus.devices[id]; !ok {
		return false
	}
	delete(bus.devices, id)
	return true
}

// Device returns the device with the ID.
func (bus *Bus) Device(id int) (Device, error) {
	dev, ok := bus.devices[id]
	if !ok {
		return nil, curated.Errorf(DeviceNotPresent, id)
	}
	return dev, nil
}
