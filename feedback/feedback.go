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

// Package feedback generates the short noise bursts that accompany loading.
// Each burst is a retrigger of the noise waveform on the third SID voice at a
// pseudo-random frequency. The random number generator has a fixed seed so the
// sequence of frequencies is the same every time.
package feedback

import (
	"github.com/vreid/koalastream/hardware/memory"
	"github.com/vreid/koalastream/hardware/sid"
	"github.com/vreid/koalastream/logger"
	"github.com/vreid/koalastream/random"
)

// the voice used for bursts. voices are numbered from zero
const Voice = 2

const (
	sidBase    = 0xd400
	modeVolume = sidBase + sid.ModeVolume
)

// envelope of the burst. a fast attack and a short decay to zero sustain,
// which sounds like a click
const (
	burstAttackDecay    = 0x01
	burstSustainRelease = 0x00
)

// Generator produces the loading bursts.
type Generator struct {
	perm logger.Permission
	bus  memory.Bus
	rnd  *random.Xorshift16

	// registers saved by Init() and restored by Shutdown()
	volume      uint8
	voice       [sid.VoiceRegisters]uint8
	initialised bool
}

// NewGenerator is the preferred method of initialisation for the Generator
// type. A seed of zero selects the default seed.
func NewGenerator(perm logger.Permission, bus memory.Bus, seed uint16) *Generator {
	return &Generator{
		perm: perm,
		bus:  bus,
		rnd:  random.NewXorshift16(seed),
	}
}

func reg(voice int, r uint8) uint16 {
	return sidBase + uint16(sid.VoiceBase(voice)+r)
}

// Init saves the volume register and the registers of the burst voice and
// configures the voice for noise. The volume is turned up if it is zero.
func (gen *Generator) Init() {
	gen.volume = gen.bus.Read(modeVolume)
	for i := range gen.voice {
		gen.voice[i] = gen.bus.Read(reg(Voice, uint8(i)))
	}
	gen.initialised = true

	gen.bus.Write(reg(Voice, sid.Control), 0x00)
	gen.bus.Write(reg(Voice, sid.AttackDecay), burstAttackDecay)
	gen.bus.Write(reg(Voice, sid.SustainRelease), burstSustainRelease)
	gen.bus.Write(reg(Voice, sid.Control), sid.ControlNoise)

	if gen.volume&sid.VolumeMask == 0 {
		gen.bus.Write(modeVolume, gen.volume|sid.VolumeMask)
	}

	logger.Logf(gen.perm, "feedback", "initialised (seed %#04x)", gen.rnd.Seed())
}

// Tick produces one burst and returns the frequency that was used.
func (gen *Generator) Tick() uint16 {
	f := gen.rnd.Next()
	gen.bus.Write(reg(Voice, sid.FreqLo), uint8(f))
	gen.bus.Write(reg(Voice, sid.FreqHi), uint8(f>>8))
	gen.bus.Write(reg(Voice, sid.Control), sid.ControlNoise)
	gen.bus.Write(reg(Voice, sid.Control), sid.ControlNoise|sid.ControlGate)
	return f
}

// MuteNow silences every voice immediately. The envelope is cut off rather
// than released and the oscillators are reset with the test bit.
func (gen *Generator) MuteNow() {
	for v := range sid.NumVoices {
		gen.bus.Write(reg(v, sid.AttackDecay), 0x00)
		gen.bus.Write(reg(v, sid.SustainRelease), 0x00)
		gen.bus.Write(reg(v, sid.Control), sid.ControlTest)
		gen.bus.Write(reg(v, sid.Control), 0x00)
	}
}

// Shutdown restores the registers saved by Init(). Does nothing if Init() has
// not been called or if Shutdown() has already been called.
func (gen *Generator) Shutdown() {
	if !gen.initialised {
		return
	}
	gen.initialised = false

	for i, v := range gen.voice {
		gen.bus.Write(reg(Voice, uint8(i)), v)
	}
	gen.bus.Write(modeVolume, gen.volume)

	logger.Log(gen.perm, "feedback", "shutdown")
}

// Reset the random number generator to the start of the sequence.
func (gen *Generator) Reset() {
	gen.rnd.Reset()
}
