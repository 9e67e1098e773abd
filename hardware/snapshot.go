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

	"github.com/vreid/koalastream/hardware/cia"
	"github.com/vreid/koalastream/hardware/sid"
)

// register addresses used by the snapshot.
const (
	sidModeVolume  = sidOrigin + sid.ModeVolume
	cia1TimerALo   = cia1Origin + cia.TimerALo
	cia1TimerAHi   = cia1Origin + cia.TimerAHi
	cia1Interrupts = cia1Origin + cia.InterruptControl
	cia1ControlA   = cia1Origin + cia.ControlA
)

// Snapshot is a copy of the registers that are reprogrammed by sample
// playback. The value is immutable once taken.
type Snapshot struct {
	Volume        uint8
	TimerALatch   uint16
	ControlA      uint8
	InterruptMask uint8
}

func (s Snapshot) String() string {
	return fmt.Sprintf("vol=%02x latch=%04x cra=%02x mask=%02x", s.Volume, s.TimerALatch, s.ControlA, s.InterruptMask)
}

// TakeSnapshot of the registers. The timer latch and interrupt mask can't be
// read by a program on the real machine. A program would know the values
// because it, or the KERNAL, put them there.
func (mc *Machine) TakeSnapshot() Snapshot {
	return Snapshot{
		Volume:        mc.Peek(sidModeVolume),
		TimerALatch:   mc.CIA1.Latch(cia.TimerA),
		ControlA:      mc.Peek(cia1ControlA),
		InterruptMask: mc.CIA1.InterruptMask(),
	}
}

// RestoreSnapshot writes the registers in the snapshot back to the hardware.
// The timer is stopped while the latch is written and is then reloaded from the
// latch.
func (mc *Machine) RestoreSnapshot(s Snapshot) {
	mc.Write(cia1ControlA, s.ControlA&^cia.ControlStart)
	mc.Write(cia1TimerALo, uint8(s.TimerALatch))
	mc.Write(cia1TimerAHi, uint8(s.TimerALatch>>8))
	mc.Write(cia1ControlA, s.ControlA|cia.ControlForceLoad)
	mc.Write(cia1Interrupts, 0x7f)
	mc.Write(cia1Interrupts, cia.InterruptSet|s.InterruptMask)
	mc.Write(sidModeVolume, s.Volume)
}

// WithSnapshot calls f after taking a snapshot. The snapshot is restored when f
// returns, including when f panics.
func (mc *Machine) WithSnapshot(f func()) {
	s := mc.TakeSnapshot()
	defer mc.RestoreSnapshot(s)
	f()
}

// Masked calls f with interrupts disabled. The status register is pushed
// before interrupts are disabled and pulled afterwards, so Masked() can be
// nested and leaves interrupts disabled if they were already disabled.
func (mc *Machine) Masked(f func()) {
	if err := mc.CPU.PHP(); err != nil {
		panic(err)
	}
	mc.CPU.SEI()
	defer func() {
		if err := mc.CPU.PLP(); err != nil {
			panic(err)
		}
	}()
	f()
}
