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

package hardware_test

import (
	"testing"

	"github.com/vreid/koalastream/environment"
	"github.com/vreid/koalastream/hardware"
	"github.com/vreid/koalastream/hardware/cia"
	"github.com/vreid/koalastream/hardware/irq"
	"github.com/vreid/koalastream/hardware/kernal"
	"github.com/vreid/koalastream/hardware/specification"
	"github.com/vreid/koalastream/test"
)

func newMachine(t *testing.T) *hardware.Machine {
	t.Helper()
	env, err := environment.NewEnvironment(environment.Label("test"), nil)
	test.DemandSuccess(t, err)
	mc, err := hardware.NewMachine(env)
	test.DemandSuccess(t, err)
	return mc
}

func TestBoot(t *testing.T) {
	mc := newMachine(t)

	test.ExpectEquality(t, mc.Spec.ID, specification.SpecPAL.ID)
	test.ExpectEquality(t, mc.Peek(0x01), uint8(0x37))
	test.ExpectEquality(t, mc.Peek(0xd011), uint8(0x1b))
	test.ExpectEquality(t, mc.Peek(0xd018), uint8(0x15))
	test.ExpectEquality(t, mc.Peek(0xd020), uint8(0xfe))
	test.ExpectEquality(t, mc.Peek(0xd418), uint8(0x00))
	test.ExpectEquality(t, mc.CIA1.Latch(cia.TimerA), specification.SpecPAL.KernalTimerLatch)
	test.ExpectEquality(t, mc.CIA1.InterruptMask(), uint8(0))
	test.ExpectEquality(t, mc.CIA2.VICBank(), uint16(0x0000))
	test.ExpectEquality(t, mc.CPU.Status.InterruptDisable, false)
	test.ExpectEquality(t, mc.IRQ.Stages()[0], kernal.DefaultIRQTag)

	// the timer is running but the interrupt is disabled
	mc.Step(mc.Spec.CyclesPerFrame() * 2)
	test.ExpectEquality(t, mc.IRQCount(), 0)
	test.ExpectEquality(t, mc.VIC.Frames(), 2)
}

func TestDecode(t *testing.T) {
	mc := newMachine(t)

	mc.Write(0x6000, 0xaa)
	test.ExpectEquality(t, mc.Read(0x6000), uint8(0xaa))
	test.ExpectEquality(t, mc.CPU.A, uint8(0xaa))

	// colour RAM stores nibbles
	mc.Write(0xd800, 0xf7)
	test.ExpectEquality(t, mc.Read(0xd800), uint8(0x07))
	test.ExpectEquality(t, mc.RAM.Read(0xd800), uint8(0x00))

	// VIC registers are mirrored
	mc.Write(0xd060, 0x03)
	test.ExpectEquality(t, mc.Peek(0xd020), uint8(0xf3))

	// SID registers are mirrored
	mc.Write(0xd438, 0x0f)
	test.ExpectEquality(t, mc.SID.Volume(), uint8(0x0f))

	// open address space
	mc.Write(0xde00, 0x01)
	test.ExpectEquality(t, mc.Read(0xde00), uint8(0xff))

	// every access takes time
	c := mc.Cycles()
	mc.Read(0x1000)
	test.ExpectEquality(t, mc.Cycles()-c, 4)

	// peek and poke do not
	c = mc.Cycles()
	mc.Poke(0x1000, 0x01)
	mc.Peek(0x1000)
	test.ExpectEquality(t, mc.Cycles(), c)
}

func enableTimerInterrupt(mc *hardware.Machine) {
	mc.Write(0xdc0d, cia.InterruptSet|cia.InterruptTimerA)
}

func TestInterrupts(t *testing.T) {
	mc := newMachine(t)

	var inside bool
	test.DemandSuccess(t, mc.IRQ.Chain(irq.Stage{
		Label: "ack",
		Handler: func() {
			inside = mc.InInterrupt()
			mc.Read(0xdc0d)
		},
	}))

	// the write that enables the interrupt costs cycles so the first underflow
	// is slightly earlier than the full period from here
	enableTimerInterrupt(mc)
	period := int(mc.Spec.KernalTimerLatch) + 1
	mc.Step(period * 10)

	test.ExpectEquality(t, mc.IRQCount(), 10)
	test.ExpectEquality(t, mc.Kernal.Jiffies(), 10)
	test.ExpectEquality(t, inside, true)
	test.ExpectEquality(t, mc.InInterrupt(), false)
	test.ExpectEquality(t, mc.CPU.Status.InterruptDisable, false)
}

func TestInterruptPreservesRegisters(t *testing.T) {
	mc := newMachine(t)

	test.DemandSuccess(t, mc.IRQ.Chain(irq.Stage{
		Label: "clobber",
		Handler: func() {
			mc.Read(0xdc0d)
			mc.CPU.X = 0xff
			mc.CPU.Y = 0xff
		},
	}))

	enableTimerInterrupt(mc)
	mc.CPU.A = 0x12
	mc.CPU.X = 0x34
	mc.CPU.Y = 0x56
	sp := mc.CPU.SP

	// the default stage reads the keyboard after the chained stage
	mc.Step((int(mc.Spec.KernalTimerLatch) + 1) * 3)
	test.ExpectEquality(t, mc.IRQCount(), 3)
	test.ExpectEquality(t, mc.CPU.A, uint8(0x12))
	test.ExpectEquality(t, mc.CPU.X, uint8(0x34))
	test.ExpectEquality(t, mc.CPU.Y, uint8(0x56))
	test.ExpectEquality(t, mc.CPU.SP, sp)
	test.ExpectEquality(t, mc.CPU.Status.InterruptDisable, false)
}

func TestInterruptStorm(t *testing.T) {
	mc := newMachine(t)

	// the default stage does not acknowledge the interrupt
	enableTimerInterrupt(mc)
	mc.Step(int(mc.Spec.KernalTimerLatch) + 1)
	test.ExpectEquality(t, mc.IRQCount(), 1)

	for range 100 {
		mc.Read(0x1000)
	}
	test.ExpectSuccess(t, mc.IRQCount() > 100)
}

func TestMasked(t *testing.T) {
	mc := newMachine(t)
	test.DemandSuccess(t, mc.IRQ.Chain(irq.Stage{
		Label: "ack",
		Handler: func() {
			mc.Read(0xdc0d)
		},
	}))
	enableTimerInterrupt(mc)

	mc.Masked(func() {
		test.ExpectEquality(t, mc.CPU.Status.InterruptDisable, true)

		// nested masking leaves interrupts disabled
		mc.Masked(func() {})
		test.ExpectEquality(t, mc.CPU.Status.InterruptDisable, true)

		mc.Step(int(mc.Spec.KernalTimerLatch) * 2)
		test.ExpectEquality(t, mc.IRQCount(), 0)
	})
	test.ExpectEquality(t, mc.CPU.Status.InterruptDisable, false)

	// pending interrupt is serviced at the next access
	mc.Read(0x1000)
	test.ExpectEquality(t, mc.IRQCount(), 1)
}

func TestSnapshot(t *testing.T) {
	mc := newMachine(t)
	mc.Write(0xd418, 0x1f)
	enableTimerInterrupt(mc)

	before := mc.TakeSnapshot()
	test.ExpectEquality(t, before.Volume, uint8(0x1f))
	test.ExpectEquality(t, before.TimerALatch, mc.Spec.KernalTimerLatch)
	test.ExpectEquality(t, before.ControlA, uint8(cia.ControlStart))
	test.ExpectEquality(t, before.InterruptMask, uint8(cia.InterruptTimerA))

	func() {
		defer func() {
			test.ExpectInequality(t, recover(), nil)
		}()
		mc.WithSnapshot(func() {
			mc.Write(0xdc0e, 0x00)
			mc.Write(0xdc04, 164)
			mc.Write(0xdc05, 0)
			mc.Write(0xdc0d, 0x7f)
			mc.Write(0xd418, 0x13)
			panic("playback")
		})
	}()

	test.ExpectEquality(t, mc.TakeSnapshot(), before)
	test.ExpectEquality(t, mc.CIA1.Counter(cia.TimerA) <= mc.Spec.KernalTimerLatch, true)
}
