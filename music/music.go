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

// Package music plays a melody on the first SID voice from the timer
// interrupt. The Sequencer is advanced by one tick on every interrupt.
//
// Each note of the melody sounds for its length multiplied by the tempo, in
// ticks. An audible note is followed by a short forced silence so that the
// envelope of the next note is retriggered even if it has the same pitch. A
// rest is silent for its whole length and is not followed by a forced silence.
// The melody repeats forever.
package music

import (
	"fmt"

	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/hardware"
	"github.com/vreid/koalastream/hardware/irq"
	"github.com/vreid/koalastream/hardware/memory"
	"github.com/vreid/koalastream/hardware/sid"
	"github.com/vreid/koalastream/logger"
)

// AlreadyInstalled is returned by InstallInterrupt() if it has already been
// called successfully.
const AlreadyInstalled = "music: interrupt already installed: %v"

// StageLabel is the label of the interrupt stage installed by
// InstallInterrupt().
const StageLabel = "music"

// the voice used by the sequencer. voices are numbered from zero
const Voice = 0

const (
	sidBase        = 0xd400
	modeVolume     = sidBase + sid.ModeVolume
	cia1Interrupts = 0xdc0d
)

// voice configuration
const (
	waveform       = sid.ControlPulse
	pulseWidth     = 0x0800
	attackDecay    = 0x09
	sustainRelease = 0xa4
)

// Note is a single entry in a melody. A Freq of zero is a rest.
type Note struct {
	Freq   uint16
	Length uint8
}

// IsRest returns true if the note is silent.
func (n Note) IsRest() bool {
	return n.Freq == 0
}

// State of the sequencer.
type State int

// List of valid State values.
const (
	Resting State = iota
	Sustaining
	Releasing
)

func (s State) String() string {
	switch s {
	case Resting:
		return "resting"
	case Sustaining:
		return "sustaining"
	case Releasing:
		return "releasing"
	}
	return "unknown"
}

// Sequencer plays a melody one tick at a time.
type Sequencer struct {
	perm logger.Permission
	bus  memory.Bus

	melody  []Note
	tempo   int
	release int

	state   State
	index   int
	sustain int
	gap     int
	rest    bool
	enabled bool

	// the next tick starts the note at index rather than advancing
	primed bool

	// the volume register as set by Init(). restored by Resume()
	volume uint8

	installed bool
}

// NewSequencer is the preferred method of initialisation for the Sequencer
// type. The tempo is the number of ticks per unit of note length and the
// release is the number of ticks of silence after an audible note. The
// sequencer does nothing until Init() is called.
func NewSequencer(perm logger.Permission, bus memory.Bus, melody []Note, tempo int, release int) *Sequencer {
	return &Sequencer{
		perm:    perm,
		bus:     bus,
		melody:  melody,
		tempo:   max(tempo, 1),
		release: max(release, 0),
	}
}

func (seq *Sequencer) String() string {
	return fmt.Sprintf("%s index=%d sustain=%d gap=%d", seq.state, seq.index, seq.sustain, seq.gap)
}

func reg(r uint8) uint16 {
	return sidBase + uint16(sid.VoiceBase(Voice)+r)
}

// Init configures the voice and the volume and enables the sequencer. The
// first note starts on the next tick.
func (seq *Sequencer) Init() {
	seq.bus.Write(reg(sid.Control), waveform)
	seq.bus.Write(reg(sid.PulseLo), uint8(pulseWidth&0xff))
	seq.bus.Write(reg(sid.PulseHi), uint8(pulseWidth>>8))
	seq.envelope()

	seq.volume = seq.bus.Read(modeVolume)&^sid.VolumeMask | sid.VolumeMask
	seq.bus.Write(modeVolume, seq.volume)

	seq.state = Resting
	seq.index = 0
	seq.sustain = 0
	seq.gap = 0
	seq.rest = false
	seq.primed = true
	seq.enabled = len(seq.melody) > 0

	logger.Logf(seq.perm, "music", "initialised with %d notes (tempo %d)", len(seq.melody), seq.tempo)
}

// State returns the current state.
func (seq *Sequencer) State() State {
	return seq.state
}

// Index returns the index of the current note.
func (seq *Sequencer) Index() int {
	return seq.index
}

// Enabled returns true if the sequencer is advancing on every tick.
func (seq *Sequencer) Enabled() bool {
	return seq.enabled
}

// the envelope registers are shared with anything else that silences the
// voice so they are written again before every note
func (seq *Sequencer) envelope() {
	seq.bus.Write(reg(sid.AttackDecay), attackDecay)
	seq.bus.Write(reg(sid.SustainRelease), sustainRelease)
}

func (seq *Sequencer) gateOff() {
	seq.bus.Write(reg(sid.Control), waveform)
}

func (seq *Sequencer) start() {
	n := seq.melody[seq.index]
	seq.sustain = max(int(n.Length)*seq.tempo, 1)
	seq.rest = n.IsRest()
	seq.state = Sustaining

	if seq.rest {
		seq.gateOff()
		return
	}

	seq.bus.Write(reg(sid.FreqLo), uint8(n.Freq))
	seq.bus.Write(reg(sid.FreqHi), uint8(n.Freq>>8))
	seq.gateOff()
	seq.envelope()
	seq.bus.Write(reg(sid.Control), waveform|sid.ControlGate)
}

func (seq *Sequencer) advance() {
	seq.index++
	if seq.index >= len(seq.melody) {
		seq.index = 0
	}
	seq.start()
}

// Tick advances the sequencer by one tick. It is called from the interrupt
// handler and must not block.
func (seq *Sequencer) Tick() {
	if !seq.enabled {
		return
	}

	if seq.primed {
		seq.primed = false
		seq.start()
		return
	}

	switch seq.state {
	case Resting:
		seq.start()
	case Sustaining:
		seq.sustain--
		if seq.sustain > 0 {
			return
		}
		if !seq.rest && seq.release > 0 {
			seq.gateOff()
			seq.gap = seq.release
			seq.state = Releasing
			return
		}
		seq.advance()
	case Releasing:
		seq.gap--
		if seq.gap <= 0 {
			seq.advance()
		}
	}
}

// Pause stops the sequencer and silences it. The filter bits of the volume
// register are preserved.
func (seq *Sequencer) Pause() {
	seq.enabled = false
	seq.bus.Write(modeVolume, seq.bus.Read(modeVolume)&^sid.VolumeMask)
	seq.gateOff()
	seq.state = Resting
}

// Resume restarts the sequencer from the beginning of the melody. The volume
// register is restored to the value set by Init().
func (seq *Sequencer) Resume() {
	seq.bus.Write(modeVolume, seq.volume)
	seq.gateOff()
	seq.envelope()
	seq.index = 0
	seq.state = Resting
	seq.primed = true
	seq.enabled = len(seq.melody) > 0
}

// InstallInterrupt chains the sequencer to the interrupt vector of the machine
// and enables the timer interrupt. The stage saves the CPU registers,
// acknowledges the interrupt with a single read of the interrupt control
// register, ticks the sequencer and restores the registers. The default stage
// of the vector runs afterwards.
func (seq *Sequencer) InstallInterrupt(mc *hardware.Machine) error {
	if seq.installed {
		return curated.Errorf(AlreadyInstalled, "sequencer")
	}

	var err error
	mc.Masked(func() {
		err = mc.IRQ.Chain(irq.Stage{
			Label: StageLabel,
			Handler: func() {
				regs := mc.CPU.Save()
				mc.Read(cia1Interrupts)
				seq.Tick()
				mc.CPU.Restore(regs)
			},
		})
		if err != nil {
			return
		}
		mc.Write(cia1Interrupts, 0x81)
	})
	if err != nil {
		return curated.Errorf(AlreadyInstalled, err)
	}

	seq.installed = true
	logger.Logf(seq.perm, "music", "interrupt installed %v", mc.IRQ.Stages())

	return nil
}

// RemoveInterrupt disables the timer interrupt and removes the stage installed
// by InstallInterrupt().
func (seq *Sequencer) RemoveInterrupt(mc *hardware.Machine) {
	if !seq.installed {
		return
	}
	mc.Masked(func() {
		mc.Write(cia1Interrupts, 0x01)
		mc.IRQ.Unchain(StageLabel)
	})
	seq.installed = false
}
