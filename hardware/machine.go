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

package hardware

import (
	"fmt"

	"github.com/vreid/koalastream/environment"
	"github.com/vreid/koalastream/hardware/cia"
	"github.com/vreid/koalastream/hardware/cpu"
	"github.com/vreid/koalastream/hardware/iec"
	"github.com/vreid/koalastream/hardware/irq"
	"github.com/vreid/koalastream/hardware/kernal"
	"github.com/vreid/koalastream/hardware/limiter"
	"github.com/vreid/koalastream/hardware/memory"
	"github.com/vreid/koalastream/hardware/sid"
	"github.com/vreid/koalastream/hardware/specification"
	"github.com/vreid/koalastream/hardware/vic"
	"github.com/vreid/koalastream/logger"
)

// the number of cycles consumed by a single bus access. this is the cost of an
// absolute LDA or STA instruction
const accessCycles = 4

// the cost of entering an interrupt handler and of returning from it
const (
	irqEntryCycles = 7
	irqExitCycles  = 6
)

// I/O address ranges.
const (
	vicOrigin    = 0xd000
	sidOrigin    = 0xd400
	colourOrigin = 0xd800
	cia1Origin   = 0xdc00
	cia2Origin   = 0xdd00
	ioOrigin     = 0xde00
	ioMemtop     = 0xdfff
)

// Machine is the emulated computer.
type Machine struct {
	env  *environment.Environment
	Spec specification.Spec

	CPU    *cpu.CPU
	RAM    *memory.RAM
	Colour *memory.ColourRAM
	VIC    *vic.VIC
	SID    *sid.SID
	CIA1   *cia.CIA
	CIA2   *cia.CIA
	IRQ    *irq.Vector
	IEC    *iec.Bus
	Kernal *kernal.Kernal

	// number of cycles since reset
	cycles int

	// an interrupt is being serviced
	inInterrupt bool

	// number of interrupts serviced since reset
	irqCount int

	// limiter is nil unless real time pacing has been requested
	limiter *limiter.Limiter
}

// NewMachine is the preferred method of initialisation for the Machine type.
// The machine is reset before it is returned.
func NewMachine(env *environment.Environment) (*Machine, error) {
	spec, err := specification.Get(env.Prefs.TVSpec.String())
	if err != nil {
		return nil, err
	}

	mc := &Machine{
		env:    env,
		Spec:   spec,
		CPU:    cpu.NewCPU(),
		RAM:    memory.NewRAM(),
		Colour: &memory.ColourRAM{},
		VIC:    vic.NewVIC(spec),
		SID:    sid.NewSID(spec.ClockHz),
		CIA1:   cia.NewCIA("CIA1"),
		CIA2:   cia.NewCIA("CIA2"),
		IEC:    iec.NewBus(),
	}

	mc.Kernal = kernal.NewKernal(mc, mc.IEC)
	mc.IRQ = irq.NewVector(mc.Kernal.DefaultStage())

	mc.Reset()

	return mc, nil
}

func (mc *Machine) String() string {
	return fmt.Sprintf("%s cycles=%d irqs=%d %s", mc.Spec.ID, mc.cycles, mc.irqCount, mc.VIC)
}

// Env returns the environment the machine was created with.
func (mc *Machine) Env() *environment.Environment {
	return mc.env
}

// Reset the machine to the state the KERNAL leaves it in after power on. The
// CIA1 timer is running at the frame rate but the timer interrupt is disabled
// until something enables it.
func (mc *Machine) Reset() {
	mc.RAM.Clear()
	mc.RAM.Write(0x01, 0x37)

	mc.CPU.Reset()
	mc.VIC.Reset()
	mc.SID.Reset()
	mc.CIA1.Reset()
	mc.CIA2.Reset()

	mc.CIA1.Write(cia.TimerALo, uint8(mc.Spec.KernalTimerLatch))
	mc.CIA1.Write(cia.TimerAHi, uint8(mc.Spec.KernalTimerLatch>>8))
	mc.CIA1.Write(cia.ControlA, cia.ControlStart|cia.ControlForceLoad)
	mc.CIA1.Write(cia.InterruptControl, 0x7f)

	mc.CIA2.Write(cia.DataDirectionA, 0x3f)
	mc.CIA2.Write(cia.PortA, 0x97)

	mc.cycles = 0
	mc.irqCount = 0
	mc.inInterrupt = false

	logger.Logf(mc.env, "machine", "reset (%s)", mc.Spec.ID)
}

// SetRealTime paces the machine to the refresh rate of the specification.
func (mc *Machine) SetRealTime(realtime bool) {
	if realtime {
		if mc.limiter == nil {
			mc.limiter = limiter.NewLimiter(float32(mc.Spec.FrameRate()))
		}
		return
	}
	if mc.limiter != nil {
		mc.limiter.Stop()
		mc.limiter = nil
	}
}

// MeasuredFPS returns the measured frame rate when real time pacing is active.
func (mc *Machine) MeasuredFPS() float32 {
	if mc.limiter == nil {
		return 0
	}
	return mc.limiter.Measured.Load().(float32)
}

// AddAudioMixer adds a mixer to the SID.
func (mc *Machine) AddAudioMixer(m sid.AudioMixer) {
	mc.SID.AddMixer(m)
}

// EndMixing flushes audio to all mixers.
func (mc *Machine) EndMixing() error {
	return mc.SID.EndMixing()
}

// Cycles returns the number of cycles since reset.
func (mc *Machine) Cycles() int {
	return mc.cycles
}

// IRQCount returns the number of interrupts serviced since reset.
func (mc *Machine) IRQCount() int {
	return mc.irqCount
}

// InInterrupt returns true if an interrupt handler is running.
func (mc *Machine) InInterrupt() bool {
	return mc.inInterrupt
}

// Read an address with the side effects and time of a CPU access. The value
// read is left in the A register.
func (mc *Machine) Read(address uint16) uint8 {
	mc.serviceIRQ()
	mc.Step(accessCycles)
	v := mc.read(address)
	mc.CPU.A = v
	return v
}

// Write an address with the side effects and time of a CPU access.
func (mc *Machine) Write(address uint16, data uint8) {
	mc.serviceIRQ()
	mc.Step(accessCycles)
	mc.write(address, data)
}

// Peek returns the value at the address without side effects and without
// consuming any time.
func (mc *Machine) Peek(address uint16) uint8 {
	switch {
	case address >= vicOrigin && address < sidOrigin:
		return mc.VIC.Read(uint8(address & 0x3f))
	case address >= sidOrigin && address < colourOrigin:
		return mc.SID.Read(uint8(address & 0x1f))
	case address >= colourOrigin && address < cia1Origin:
		return mc.Colour.Read(address - colourOrigin)
	case address >= cia1Origin && address < cia2Origin:
		return mc.CIA1.Peek(uint8(address & 0x0f))
	case address >= cia2Origin && address < ioOrigin:
		return mc.CIA2.Peek(uint8(address & 0x0f))
	case address >= ioOrigin && address <= ioMemtop:
		return 0xff
	}
	return mc.RAM.Read(address)
}

// Poke writes the address without consuming any time.
func (mc *Machine) Poke(address uint16, data uint8) {
	mc.write(address, data)
}

func (mc *Machine) read(address uint16) uint8 {
	switch {
	case address >= cia1Origin && address < cia2Origin:
		return mc.CIA1.Read(uint8(address & 0x0f))
	case address >= cia2Origin && address < ioOrigin:
		return mc.CIA2.Read(uint8(address & 0x0f))
	}
	return mc.Peek(address)
}

func (mc *Machine) write(address uint16, data uint8) {
	switch {
	case address >= vicOrigin && address < sidOrigin:
		mc.VIC.Write(uint8(address&0x3f), data)
	case address >= sidOrigin && address < colourOrigin:
		mc.SID.Write(uint8(address&0x1f), data)
	case address >= colourOrigin && address < cia1Origin:
		mc.Colour.Write(address-colourOrigin, data)
	case address >= cia1Origin && address < cia2Origin:
		mc.CIA1.Write(uint8(address&0x0f), data)
	case address >= cia2Origin && address < ioOrigin:
		mc.CIA2.Write(uint8(address&0x0f), data)
	case address >= ioOrigin && address <= ioMemtop:
	default:
		mc.RAM.Write(address, data)
	}
}

// Step advances the machine by the number of cycles. Pending interrupts are
// serviced as they occur.
func (mc *Machine) Step(cycles int) {
	for cycles > 0 {
		n := cycles
		if u := mc.CIA1.CyclesToUnderflow(); u > 0 && u < n {
			n = u
		}
		mc.advance(n)
		cycles -= n
		mc.serviceIRQ()
	}
}

func (mc *Machine) advance(cycles int) {
	mc.cycles += cycles
	frames := mc.VIC.Step(cycles)
	mc.CIA1.Step(cycles)
	mc.CIA2.Step(cycles)
	if err := mc.SID.Step(cycles); err != nil {
		logger.Log(mc.env, "machine", err)
	}
	if mc.limiter != nil {
		for range frames {
			mc.limiter.CheckFrame()
			mc.limiter.MeasureActual()
		}
	}
}

// serviceIRQ runs the interrupt vector if the CIA1 is asserting the interrupt
// line and interrupts are not disabled. Interrupts do not nest.
//
// The interrupt line stays asserted until a stage in the vector reads the
// interrupt control register. If no stage does so the interrupt is taken again
// at the next opportunity.
func (mc *Machine) serviceIRQ() {
	if mc.inInterrupt || mc.CPU.Status.InterruptDisable || !mc.CIA1.IRQ() {
		return
	}

	// the registers are pushed on entry and pulled on exit by the vector so
	// the foreground sees no change to them whatever the stages do
	mc.inInterrupt = true
	regs := mc.CPU.Save()
	mc.CPU.SEI()
	mc.Step(irqEntryCycles)

	mc.IRQ.Dispatch()

	mc.Step(irqExitCycles)
	mc.CPU.Restore(regs)
	mc.inInterrupt = false
	mc.irqCount++
}
