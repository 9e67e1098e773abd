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

// Package sid models the SID sound chip. The register file is complete and the
// chip can synthesise audio for any number of AudioMixer implementations.
//
// SID registers are write only on real hardware. Reading a register here
// returns the last value written to it, with the exception of the read only
// registers at the top of the register file. The streaming components rely on
// this to save and restore the volume register.
package sid

import (
	"fmt"
)

// NumVoices is the number of voices in the chip.
const NumVoices = 3

// VoiceRegisters is the number of registers belonging to each voice.
const VoiceRegisters = 7

// register offsets relative to the start of a voice.
const (
	FreqLo = iota
	FreqHi
	PulseLo
	PulseHi
	Control
	AttackDecay
	SustainRelease
)

// global register offsets.
const (
	FilterCutoffLo = 0x15
	FilterCutoffHi = 0x16
	FilterControl  = 0x17
	ModeVolume     = 0x18
	PotX           = 0x19
	PotY           = 0x1a
	Osc3           = 0x1b
	Env3           = 0x1c
)

// bits of the voice control register.
const (
	ControlGate     = 0x01
	ControlSync     = 0x02
	ControlRingMod  = 0x04
	ControlTest     = 0x08
	ControlTriangle = 0x10
	ControlSawtooth = 0x20
	ControlPulse    = 0x40
	ControlNoise    = 0x80
)

// VolumeMask is the part of the ModeVolume register that sets the volume. The
// upper nibble selects the filter mode.
const VolumeMask = 0x0f

// VoiceBase returns the offset of the first register of the voice. Voices are
// numbered from zero.
func VoiceBase(voice int) uint8 {
	return uint8(voice * VoiceRegisters)
}

// Observer is called for every write to a register.
type Observer func(reg uint8, data uint8)

// SID is the sound chip.
type SID struct {
	regs [0x20]uint8

	observers []Observer

	synth synth
}

// NewSID is the preferred method of initialisation for the SID type. The clock
// is the CPU clock in Hz and is used for audio synthesis.
func NewSID(clockHz int) *SID {
	sid := &SID{}
	sid.synth.init(clockHz)
	return sid
}

func (sid *SID) String() string {
	return fmt.Sprintf("vol=%x v1=%04x/%02x v2=%04x/%02x v3=%04x/%02x",
		sid.regs[ModeVolume]&VolumeMask,
		sid.Frequency(0), sid.regs[VoiceBase(0)+Control],
		sid.Frequency(1), sid.regs[VoiceBase(1)+Control],
		sid.Frequency(2), sid.regs[VoiceBase(2)+Control])
}

// Reset all registers to zero and silence the synthesiser.
func (sid *SID) Reset() {
	clear(sid.regs[:])
	sid.synth.reset()
}

// AddObserver adds a function to be called on every register write.
func (sid *SID) AddObserver(o Observer) {
	sid.observers = append(sid.observers, o)
}

// Write a register.
func (sid *SID) Write(reg uint8, data uint8) {
	reg &= 0x1f
	if reg >= PotX {
		return
	}

	old := sid.regs[reg]
	sid.regs[reg] = data

	if reg < NumVoices*VoiceRegisters && reg%VoiceRegisters == Control {
		sid.synth.control(int(reg/VoiceRegisters), old, data)
	}

	for _, o := range sid.observers {
		o(reg, data)
	}
}

// Read a register.
func (sid *SID) Read(reg uint8) uint8 {
	reg &= 0x1f
	switch reg {
	case PotX, PotY:
		return 0xff
	case Osc3:
		return sid.synth.osc3()
	case Env3:
		return sid.synth.env3()
	}
	if reg > Env3 {
		return 0xff
	}
	return sid.regs[reg]
}

// Frequency returns the 16 bit frequency value of the voice.
func (sid *SID) Frequency(voice int) uint16 {
	b := VoiceBase(voice)
	return uint16(sid.regs[b+FreqLo]) | uint16(sid.regs[b+FreqHi])<<8
}

// VoiceControl returns the value of the control register of the voice.
func (sid *SID) VoiceControl(voice int) uint8 {
	return sid.regs[VoiceBase(voice)+Control]
}

// Gate returns true if the gate bit of the voice is set.
func (sid *SID) Gate(voice int) bool {
	return sid.VoiceControl(voice)&ControlGate == ControlGate
}

// Volume returns the four bit volume.
func (sid *SID) Volume() uint8 {
	return sid.regs[ModeVolume] & VolumeMask
}
