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

package music_test

import (
	"testing"

	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/environment"
	"github.com/vreid/koalastream/hardware"
	"github.com/vreid/koalastream/hardware/sid"
	"github.com/vreid/koalastream/music"
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

func pitch(t *testing.T, name string, octave int) uint16 {
	t.Helper()
	p, err := music.Pitch(name, octave)
	test.DemandSuccess(t, err)
	return p
}

type step struct {
	state music.State
	index int
	gate  bool
}

func TestSequence(t *testing.T) {
	mc := newMachine(t)
	a := pitch(t, "A", 4)
	b := pitch(t, "B", 4)
	melody := []music.Note{
		{Freq: a, Length: 2},
		{Length: 1},
		{Freq: b, Length: 1},
	}

	seq := music.NewSequencer(mc.Env(), mc, melody, 2, 2)
	seq.Init()
	test.ExpectEquality(t, mc.SID.Volume(), uint8(0x0f))
	test.ExpectEquality(t, seq.State(), music.Resting)

	expected := []step{
		{music.Sustaining, 0, true},  // 1: A starts
		{music.Sustaining, 0, true},  // 2
		{music.Sustaining, 0, true},  // 3
		{music.Sustaining, 0, true},  // 4
		{music.Releasing, 0, false},  // 5: A has sounded for length x tempo ticks
		{music.Releasing, 0, false},  // 6
		{music.Sustaining, 1, false}, // 7: rest starts
		{music.Sustaining, 1, false}, // 8
		{music.Sustaining, 2, true},  // 9: no gap after a rest. B starts
		{music.Sustaining, 2, true},  // 10
		{music.Releasing, 2, false},  // 11
		{music.Releasing, 2, false},  // 12
		{music.Sustaining, 0, true},  // 13: melody wraps
	}

	for i, e := range expected {
		seq.Tick()
		test.ExpectEquality(t, seq.State(), e.state, i+1)
		test.ExpectEquality(t, seq.Index(), e.index, i+1)
		test.ExpectEquality(t, mc.SID.Gate(music.Voice), e.gate, i+1)
	}
	test.ExpectEquality(t, mc.SID.Frequency(music.Voice), a)
}

func TestNoRelease(t *testing.T) {
	mc := newMachine(t)
	melody := []music.Note{
		{Freq: pitch(t, "C", 4), Length: 1},
		{Freq: pitch(t, "D", 4), Length: 1},
	}
	seq := music.NewSequencer(mc.Env(), mc, melody, 3, 0)
	seq.Init()

	// the note changes every three ticks
	for i := range 12 {
		seq.Tick()
		test.ExpectEquality(t, seq.Index(), (i/3)%2, i)
		test.ExpectEquality(t, seq.State(), music.Sustaining, i)
	}
}

func TestPauseResume(t *testing.T) {
	mc := newMachine(t)
	mc.Write(0xd418, 0x30)

	seq := music.NewSequencer(mc.Env(), mc, music.DefaultMelody(), 1, 1)
	seq.Init()
	test.ExpectEquality(t, mc.Peek(0xd418), uint8(0x3f))

	for range 20 {
		seq.Tick()
	}
	test.ExpectInequality(t, seq.Index(), 0)

	seq.Pause()
	test.ExpectEquality(t, seq.Enabled(), false)
	test.ExpectEquality(t, seq.State(), music.Resting)
	test.ExpectEquality(t, mc.Peek(0xd418), uint8(0x30))
	test.ExpectEquality(t, mc.SID.Gate(music.Voice), false)

	// ticks do nothing while paused
	idx := seq.Index()
	for range 10 {
		seq.Tick()
	}
	test.ExpectEquality(t, seq.Index(), idx)
	test.ExpectEquality(t, mc.SID.Gate(music.Voice), false)

	seq.Resume()
	test.ExpectEquality(t, seq.Index(), 0)
	test.ExpectEquality(t, mc.Peek(0xd418), uint8(0x3f))
	test.ExpectEquality(t, mc.SID.Gate(music.Voice), false)

	// silent until the first tick after resuming
	seq.Tick()
	test.ExpectEquality(t, seq.Index(), 0)
	test.ExpectEquality(t, mc.SID.Gate(music.Voice), true)
}

func TestEnvelopeRestored(t *testing.T) {
	mc := newMachine(t)
	melody := []music.Note{
		{Freq: pitch(t, "E", 4), Length: 1},
		{Length: 1},
	}
	seq := music.NewSequencer(mc.Env(), mc, melody, 1, 0)
	seq.Init()

	ad := sid.VoiceBase(music.Voice) + sid.AttackDecay
	sr := sid.VoiceBase(music.Voice) + sid.SustainRelease
	envelope := mc.SID.Read(ad)
	sustain := mc.SID.Read(sr)
	test.ExpectInequality(t, sustain, uint8(0))

	// another user of the voice clears the envelope. the next note sets it again
	wipe := func() {
		mc.Write(0xd400+uint16(ad), 0x00)
		mc.Write(0xd400+uint16(sr), 0x00)
	}

	wipe()
	seq.Tick()
	test.ExpectEquality(t, mc.SID.Gate(music.Voice), true)
	test.ExpectEquality(t, mc.SID.Read(ad), envelope)
	test.ExpectEquality(t, mc.SID.Read(sr), sustain)

	// a rest leaves the envelope alone
	wipe()
	seq.Tick()
	test.ExpectEquality(t, mc.SID.Read(sr), uint8(0))

	// the envelope is in place as soon as the sequencer is resumed
	seq.Pause()
	seq.Resume()
	test.ExpectEquality(t, mc.SID.Read(ad), envelope)
	test.ExpectEquality(t, mc.SID.Read(sr), sustain)
}

func TestInterrupt(t *testing.T) {
	mc := newMachine(t)
	seq := music.NewSequencer(mc.Env(), mc, music.DefaultMelody(), 3, 2)
	seq.Init()

	test.DemandSuccess(t, seq.InstallInterrupt(mc))
	test.ExpectEquality(t, mc.CIA1.InterruptMask(), uint8(0x01))

	stages := mc.IRQ.Stages()
	test.DemandEquality(t, len(stages), 2)
	test.ExpectEquality(t, stages[0], music.StageLabel)

	err := seq.InstallInterrupt(mc)
	test.ExpectSuccess(t, curated.Is(err, music.AlreadyInstalled))

	// another sequencer can't install itself
	other := music.NewSequencer(mc.Env(), mc, music.DefaultMelody(), 3, 2)
	err = other.InstallInterrupt(mc)
	test.ExpectSuccess(t, curated.Is(err, music.AlreadyInstalled))

	mc.CPU.X = 0x12
	mc.CPU.Y = 0x34

	// the interrupt is acknowledged exactly once per timer underflow
	period := int(mc.Spec.KernalTimerLatch) + 1
	irqs := mc.IRQCount()
	mc.Step(period * 50)
	test.ExpectApproximate(t, mc.IRQCount()-irqs, 50, 0.05)
	test.ExpectSuccess(t, mc.CIA1.IRQ() == false)

	test.ExpectEquality(t, mc.CPU.X, uint8(0x12))
	test.ExpectEquality(t, mc.CPU.Y, uint8(0x34))
	test.ExpectSuccess(t, mc.Kernal.Jiffies() >= 50)

	seq.RemoveInterrupt(mc)
	test.ExpectEquality(t, mc.CIA1.InterruptMask(), uint8(0x00))
	test.ExpectEquality(t, len(mc.IRQ.Stages()), 1)
}

func TestPitch(t *testing.T) {
	test.ExpectEquality(t, pitch(t, "C", 1), uint16(0x0225))
	test.ExpectEquality(t, pitch(t, "B", 7), uint16(0xffff))

	_, err := music.Pitch("H", 4)
	test.ExpectSuccess(t, curated.Is(err, music.UnknownNote))
	_, err = music.Pitch("C", 8)
	test.ExpectSuccess(t, curated.Is(err, music.OctaveRange))
}
