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

// Package kernal provides the parts of the platform ROM that the streaming
// components depend on: the logical file table with the OPEN, CHKIN, CHRIN,
// READST, CLRCHN and CLOSE routines, and the default interrupt routine.
//
// The routines are not emulated instruction by instruction. Each routine
// advances the machine by an approximation of the number of cycles the ROM
// routine takes, so that the frame timer keeps running and interrupts are
// serviced while the routine is busy.
package kernal

import (
	"fmt"

	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/hardware/iec"
	"github.com/vreid/koalastream/hardware/irq"
)

// Sentinal error patterns.
const (
	FileAlreadyOpen = "kernal: file %d already open"
	FileNotOpen     = "kernal: file %d not open"
	TooManyFiles    = "kernal: too many files"
	NotInputFile    = "kernal: file %d is not an input file"
)

// zero page locations used by the routines.
const (
	StatusAddress = 0x90
	JiffyAddress  = 0xa0
)

// the jiffy clock is reset after 24 hours
const jiffyDay = 0x4f1a01

// approximate cost in cycles of the routines. the cost of CHRIN does not
// include the transfer time of the byte on the serial bus
const (
	openCycles    = 1800
	chkinCycles   = 900
	chrinCycles   = 30
	closeCycles   = 900
	clrchnCycles  = 200
	jiffyCycles   = 12
	maxOpenFiles  = 10
	DefaultIRQTag = "kernal"
)

// Machine is the interface to the machine required by the KERNAL.
type Machine interface {
	// read and write the bus with all the side effects of a CPU access
	Read(address uint16) uint8
	Write(address uint16, data uint8)

	// read and write memory without side effects and without consuming time
	Peek(address uint16) uint8
	Poke(address uint16, data uint8)

	// advance the machine by the number of cycles
	Step(cycles int)
}

type logicalFile struct {
	lfn       int
	device    iec.Device
	secondary int
	name      string
	stream    iec.Stream
}

// Kernal is the platform ROM.
type Kernal struct {
	mc  Machine
	bus *iec.Bus

	files map[int]*logicalFile

	// the file selected by ChkIn(). nil if input is from the keyboard
	input *logicalFile
}

// NewKernal is the preferred method of initialisation for the Kernal type.
func NewKernal(mc Machine, bus *iec.Bus) *Kernal {
	return &Kernal{
		mc:    mc,
		bus:   bus,
		files: make(map[int]*logicalFile),
	}
}

func (k *Kernal) String() string {
	if k.input == nil {
		return fmt.Sprintf("kernal: %d open files, input from keyboard", len(k.files))
	}
	return fmt.Sprintf("kernal: %d open files, input from %d", len(k.files), k.input.lfn)
}

func (k *Kernal) setStatus(st uint8) {
	k.mc.Poke(StatusAddress, k.mc.Peek(StatusAddress)|st)
}

// Open a logical file on a device.
func (k *Kernal) Open(lfn int, device int, secondary int, name string) error {
	k.mc.Step(openCycles)
	k.mc.Poke(StatusAddress, 0)

	if _, ok := k.files[lfn]; ok {
		return curated.Errorf(FileAlreadyOpen, lfn)
	}
	if len(k.files) >= maxOpenFiles {
		return curated.Errorf(TooManyFiles)
	}

	dev, err := k.bus.Device(device)
	if err != nil {
		k.setStatus(iec.StatusDeviceNotPresent)
		return err
	}

	stream, err := dev.Open(name, secondary)
	if err != nil {
		return err
	}

	k.files[lfn] = &logicalFile{
		lfn:       lfn,
		device:    dev,
		secondary: secondary,
		name:      name,
		stream:    stream,
	}

	return nil
}

// ChkIn selects the logical file as the source for ChrIn().
func (k *Kernal) ChkIn(lfn int) error {
	k.mc.Step(chkinCycles)
	f, ok := k.files[lfn]
	if !ok {
		return curated.Errorf(FileNotOpen, lfn)
	}
	if f.stream == nil {
		return curated.Errorf(NotInputFile, lfn)
	}
	k.mc.Poke(StatusAddress, 0)
	k.input = f
	return nil
}

// ChrIn reads a byte from the selected input. The status of the read is
// available through ReadSt(). If no file has been selected then the read times
// out.
func (k *Kernal) ChrIn() uint8 {
	if k.input == nil {
		k.mc.Step(chrinCycles)
		k.setStatus(iec.StatusTimeout)
		return 0
	}

	k.mc.Step(chrinCycles + k.input.device.TransferCycles())
	d, st := k.input.stream.Next()
	k.setStatus(st)
	return d
}

// ReadSt returns the status of the most recent operation.
func (k *Kernal) ReadSt() uint8 {
	return k.mc.Peek(StatusAddress)
}

// ClrChn restores input to the keyboard.
func (k *Kernal) ClrChn() {
	k.mc.Step(clrchnCycles)
	k.input = nil
}

// Close the logical file. Closing a file that is not open does nothing.
func (k *Kernal) Close(lfn int) error {
	k.mc.Step(closeCycles)
	f, ok := k.files[lfn]
	if !ok {
		return nil
	}
	delete(k.files, lfn)
	if k.input == f {
		k.input = nil
	}
	return f.stream.Close()
}

// OpenFiles returns the number of open logical files.
func (k *Kernal) OpenFiles() int {
	return len(k.files)
}

// Jiffies returns the value of the jiffy clock.
func (k *Kernal) Jiffies() int {
	return int(k.mc.Peek(JiffyAddress))<<16 | int(k.mc.Peek(JiffyAddress+1))<<8 | int(k.mc.Peek(JiffyAddress+2))
}

// DefaultStage returns the platform default interrupt routine. The routine
// updates the jiffy clock and scans the keyboard.
//
// The routine does not acknowledge the interrupt. Any stage chained in front of
// it that enables an interrupt source is responsible for acknowledging it.
func (k *Kernal) DefaultStage() irq.Stage {
	return irq.Stage{
		Label:   DefaultIRQTag,
		Handler: k.defaultIRQ,
	}
}

func (k *Kernal) defaultIRQ() {
	j := k.Jiffies() + 1
	if j >= jiffyDay {
		j = 0
	}
	k.mc.Poke(JiffyAddress, uint8(j>>16))
	k.mc.Poke(JiffyAddress+1, uint8(j>>8))
	k.mc.Poke(JiffyAddress+2, uint8(j))
	k.mc.Step(jiffyCycles)

	// keyboard scan. select all columns and read the rows
	k.mc.Write(0xdc00, 0x00)
	k.mc.Read(0xdc01)
}
