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

// Package cia models the 6526 Complex Interface Adapter. There are two CIAs in
// the machine. CIA1 produces the system interrupt with timer A and scans the
// keyboard through its ports. CIA2 selects the memory bank seen by the video
// chip through the lower two bits of port A.
//
// Only the parts of the chip used by the machine are modelled: both timers in
// one-shot and continuous modes counting CPU cycles, the interrupt control
// register and the I/O ports. The time of day clocks and the serial port are
// not modelled.
package cia

import (
	"fmt"
)

// Register offsets. Registers are mirrored every 16 bytes.
const (
	PortA              = 0x00
	PortB              = 0x01
	DataDirectionA     = 0x02
	DataDirectionB     = 0x03
	TimerALo           = 0x04
	TimerAHi           = 0x05
	TimerBLo           = 0x06
	TimerBHi           = 0x07
	InterruptControl   = 0x0d
	ControlA           = 0x0e
	ControlB           = 0x0f
	numberOfRegisters  = 0x10
	timeOfDayRegisters = 0x08
)

// bits of the control registers.
const (
	ControlStart     = 0x01
	ControlOneShot   = 0x08
	ControlForceLoad = 0x10
)

// bits of the interrupt control register.
const (
	InterruptTimerA = 0x01
	InterruptTimerB = 0x02
	InterruptSet    = 0x80
)

// Timer identifies one of the two timers.
type Timer int

// List of valid Timer values.
const (
	TimerA Timer = iota
	TimerB
)

type timer struct {
	counter uint16
	latch   uint16
	control uint8
}

func (t *timer) running() bool {
	return t.control&ControlStart == ControlStart
}

// step the timer and return true if it underflowed. the counter reloads from
// the latch on underflow. the period of the timer is latch+1 cycles. a timer
// will not underflow more than once in a step. the caller should limit the step
// with cyclesToUnderflow()
func (t *timer) step(cycles int) bool {
	if !t.running() {
		return false
	}
	if cycles <= int(t.counter) {
		t.counter -= uint16(cycles)
		return false
	}

	remaining := cycles - int(t.counter) - 1
	t.counter = t.latch
	if t.control&ControlOneShot == ControlOneShot {
		t.control &^= ControlStart
		return true
	}

	// any cycles left over after the underflow count down from the latch value
	if t.latch > 0 {
		t.counter -= uint16(remaining % (int(t.latch) + 1))
	}
	return true
}

func (t *timer) cyclesToUnderflow() int {
	if !t.running() {
		return -1
	}
	return int(t.counter) + 1
}

// CIA is a single 6526 chip.
type CIA struct {
	label string

	pra, prb   uint8
	ddra, ddrb uint8

	timers [2]timer

	// interrupt flags and interrupt mask
	icr  uint8
	mask uint8

	// the keyboard matrix connected to the ports. nil if nothing is connected
	keyboard Keyboard
}

// Keyboard is connected to the ports of a CIA. Scan is given the column
// selection written to port A and returns the rows that are pressed. A bit is
// clear if a key is pressed.
type Keyboard interface {
	Scan(columns uint8) uint8
}

// NewCIA is the preferred method of initialisation for the CIA type.
func NewCIA(label string) *CIA {
	cia := &CIA{
		label: label,
	}
	cia.Reset()
	return cia
}

func (cia *CIA) String() string {
	return fmt.Sprintf("%s: ta=%04x/%04x cra=%02x tb=%04x/%04x crb=%02x icr=%02x mask=%02x",
		cia.label,
		cia.timers[TimerA].counter, cia.timers[TimerA].latch, cia.timers[TimerA].control,
		cia.timers[TimerB].counter, cia.timers[TimerB].latch, cia.timers[TimerB].control,
		cia.icr, cia.mask)
}

// Reset the chip to its power on state. Timer latches are set to $ffff.
func (cia *CIA) Reset() {
	cia.pra = 0
	cia.prb = 0
	cia.ddra = 0
	cia.ddrb = 0
	for i := range cia.timers {
		cia.timers[i] = timer{counter: 0xffff, latch: 0xffff}
	}
	cia.icr = 0
	cia.mask = 0
}

// AttachKeyboard connects a keyboard matrix to the ports.
func (cia *CIA) AttachKeyboard(k Keyboard) {
	cia.keyboard = k
}

// Step the timers by the number of CPU cycles.
func (cia *CIA) Step(cycles int) {
	if cia.timers[TimerA].step(cycles) {
		cia.icr |= InterruptTimerA
	}
	if cia.timers[TimerB].step(cycles) {
		cia.icr |= InterruptTimerB
	}
}

// CyclesToUnderflow returns the number of cycles until the next timer
// underflow. Returns -1 if no timer is running.
func (cia *CIA) CyclesToUnderflow() int {
	a := cia.timers[TimerA].cyclesToUnderflow()
	b := cia.timers[TimerB].cyclesToUnderflow()
	if a < 0 {
		return b
	}
	if b < 0 {
		return a
	}
	return min(a, b)
}

// IRQ returns true if the chip is asserting the interrupt line. The line is
// asserted when an interrupt flag is set and the corresponding mask bit is set.
func (cia *CIA) IRQ() bool {
	return cia.icr&cia.mask != 0
}

// Read a register. Reading the interrupt control register returns the flags
// and clears them. Bit 7 is set if any unmasked flag is set.
func (cia *CIA) Read(reg uint8) uint8 {
	reg &= 0x0f
	if reg == InterruptControl {
		v := cia.Peek(reg)
		cia.icr = 0
		return v
	}
	return cia.Peek(reg)
}

// Peek returns the value of a register without any side effects.
func (cia *CIA) Peek(reg uint8) uint8 {
	switch reg & 0x0f {
	case PortA:
		return cia.pra | ^cia.ddra
	case PortB:
		v := cia.prb | ^cia.ddrb
		if cia.keyboard != nil {
			v &= cia.keyboard.Scan(cia.pra | ^cia.ddra)
		}
		return v
	case DataDirectionA:
		return cia.ddra
	case DataDirectionB:
		return cia.ddrb
	case TimerALo:
		return uint8(cia.timers[TimerA].counter)
	case TimerAHi:
		return uint8(cia.timers[TimerA].counter >> 8)
	case TimerBLo:
		return uint8(cia.timers[TimerB].counter)
	case TimerBHi:
		return uint8(cia.timers[TimerB].counter >> 8)
	case InterruptControl:
		v := cia.icr
		if cia.IRQ() {
			v |= InterruptSet
		}
		return v
	case ControlA:
		return cia.timers[TimerA].control
	case ControlB:
		return cia.timers[TimerB].control
	}
	return 0x00
}

// Write a register.
//
// Writing the high byte of a timer latch while the timer is stopped also loads
// the counter. Writing a control register with the force load bit set loads the
// counter from the latch. The force load bit is a strobe and is never stored.
//
// Writing the interrupt control register sets the mask bits given in the lower
// bits if bit 7 is set and clears them if bit 7 is clear.
func (cia *CIA) Write(reg uint8, data uint8) {
	switch reg & 0x0f {
	case PortA:
		cia.pra = data
	case PortB:
		cia.prb = data
	case DataDirectionA:
		cia.ddra = data
	case DataDirectionB:
		cia.ddrb = data
	case TimerALo:
		cia.writeLatch(TimerA, data, false)
	case TimerAHi:
		cia.writeLatch(TimerA, data, true)
	case TimerBLo:
		cia.writeLatch(TimerB, data, false)
	case TimerBHi:
		cia.writeLatch(TimerB, data, true)
	case InterruptControl:
		if data&InterruptSet == InterruptSet {
			cia.mask |= data & 0x1f
		} else {
			cia.mask &^= data & 0x1f
		}
	case ControlA:
		cia.writeControl(TimerA, data)
	case ControlB:
		cia.writeControl(TimerB, data)
	}
}

func (cia *CIA) writeLatch(tmr Timer, data uint8, hi bool) {
	t := &cia.timers[tmr]
	if hi {
		t.latch = (t.latch & 0x00ff) | uint16(data)<<8
		if !t.running() {
			t.counter = t.latch
		}
	} else {
		t.latch = (t.latch & 0xff00) | uint16(data)
	}
}

func (cia *CIA) writeControl(tmr Timer, data uint8) {
	t := &cia.timers[tmr]
	if data&ControlForceLoad == ControlForceLoad {
		t.counter = t.latch
	}
	t.control = data &^ ControlForceLoad
}

// Latch returns the value of the timer latch.
func (cia *CIA) Latch(tmr Timer) uint16 {
	return cia.timers[tmr].latch
}

// Counter returns the current value of the timer counter.
func (cia *CIA) Counter(tmr Timer) uint16 {
	return cia.timers[tmr].counter
}

// InterruptMask returns the interrupt mask.
func (cia *CIA) InterruptMask() uint8 {
	return cia.mask
}

// VICBank returns the base address of the memory seen by the video chip. The
// bank is selected by the inverted lower two bits of port A.
func (cia *CIA) VICBank() uint16 {
	return uint16(3-(cia.Peek(PortA)&0x03)) * 0x4000
}
