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

package cpu

import (
	"fmt"

	"github.com/vreid/koalastream/curated"
)

// StackOverflow and StackUnderflow are the errors returned by Push() and Pull()
// when the stack pointer wraps.
const (
	StackOverflow  = "cpu: stack overflow"
	StackUnderflow = "cpu: stack underflow"
)

// Registers is a copy of the registers that an interrupt handler must save on
// entry and restore on exit.
type Registers struct {
	A  uint8
	X  uint8
	Y  uint8
	SP uint8
	P  uint8
}

func (r Registers) String() string {
	var sr StatusRegister
	sr.FromValue(r.P)
	return fmt.Sprintf("A=%02x X=%02x Y=%02x SP=%02x P=%s", r.A, r.X, r.Y, r.SP, sr)
}

// CPU is the programmer visible state of the 6510.
type CPU struct {
	A      uint8
	X      uint8
	Y      uint8
	SP     uint8
	Status StatusRegister

	// page one of memory. the CPU has sole use of this memory so there is no
	// need for it to be visible on the bus
	stack [256]uint8
}

// NewCPU is the preferred method of initialisation for the CPU type.
func NewCPU() *CPU {
	mc := &CPU{}
	mc.Reset()
	return mc
}

func (mc *CPU) String() string {
	return mc.Save().String()
}

// Reset the CPU to the state it is in after the KERNAL has initialised the
// machine. Interrupts are enabled.
func (mc *CPU) Reset() {
	mc.A = 0
	mc.X = 0
	mc.Y = 0
	mc.SP = 0xff
	mc.Status.FromValue(0)
	clear(mc.stack[:])
}

// Save returns a copy of the registers.
func (mc *CPU) Save() Registers {
	return Registers{
		A:  mc.A,
		X:  mc.X,
		Y:  mc.Y,
		SP: mc.SP,
		P:  mc.Status.Value(),
	}
}

// Restore the registers from a previous call to Save().
func (mc *CPU) Restore(r Registers) {
	mc.A = r.A
	mc.X = r.X
	mc.Y = r.Y
	mc.SP = r.SP
	mc.Status.FromValue(r.P)
}

// Push a value onto the stack.
func (mc *CPU) Push(v uint8) error {
	if mc.SP == 0x00 {
		return curated.Errorf(StackOverflow)
	}
	mc.stack[mc.SP] = v
	mc.SP--
	return nil
}

// Pull a value from the stack.
func (mc *CPU) Pull() (uint8, error) {
	if mc.SP == 0xff {
		return 0, curated.Errorf(StackUnderflow)
	}
	mc.SP++
	return mc.stack[mc.SP], nil
}

// SEI sets the interrupt disable flag.
func (mc *CPU) SEI() {
	mc.Status.InterruptDisable = true
}

// CLI clears the interrupt disable flag.
func (mc *CPU) CLI() {
	mc.Status.InterruptDisable = false
}

// PHP pushes the status register onto the stack.
func (mc *CPU) PHP() error {
	return mc.Push(mc.Status.Value() | 0x10)
}

// PLP pulls the status register from the stack. The break flag is not a real
// flag and is not restored.
func (mc *CPU) PLP() error {
	v, err := mc.Pull()
	if err != nil {
		return err
	}
	mc.Status.FromValue(v &^ 0x10)
	return nil
}
