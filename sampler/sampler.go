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

// Package sampler loads a sample from a device on the serial bus and plays it
// back through the volume register of the SID. Each byte of the sample holds
// two 4-bit samples, the high nibble first.
//
// Playback is timed by CIA1 timer A. The timer is reprogrammed for the
// duration of playback and interrupts are masked, so the music sequencer and
// anything else driven by the timer interrupt stops while the sample plays.
package sampler

import (
	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/hardware"
	"github.com/vreid/koalastream/hardware/cia"
	"github.com/vreid/koalastream/hardware/clocks"
	"github.com/vreid/koalastream/logger"
	"github.com/vreid/koalastream/serial"
)

// AllocationFailure is returned by Load() if the sample does not fit in the
// buffer limit.
const AllocationFailure = "sampler: %s: sample larger than buffer limit (%d bytes)"

// the logical file number and secondary address used to read the sample
const (
	lfn       = 3
	secondary = 0
)

// the sample file starts with a load address that is skipped
const headerLength = 2

const (
	modeVolume     = 0xd418
	cia1TimerALo   = 0xdc04
	cia1TimerAHi   = 0xdc05
	cia1Interrupts = 0xdc0d
	cia1ControlA   = 0xdc0e
)

// Engine loads and plays samples.
type Engine struct {
	mc *hardware.Machine

	// the sample. the capacity of the buffer grows by a fixed step
	buf []uint8
}

// NewEngine is the preferred method of initialisation for the Engine type.
func NewEngine(mc *hardware.Machine) *Engine {
	return &Engine{
		mc: mc,
	}
}

// Size returns the length of the loaded sample in bytes.
func (eng *Engine) Size() int {
	return len(eng.buf)
}

// Capacity returns the current capacity of the sample buffer.
func (eng *Engine) Capacity() int {
	return cap(eng.buf)
}

// Sample returns the loaded sample. The returned slice should not be modified.
func (eng *Engine) Sample() []uint8 {
	return eng.buf
}

// Release the sample buffer.
func (eng *Engine) Release() {
	eng.buf = nil
}

// grow the buffer by the growth step without exceeding the limit. returns false
// if the buffer is already at the limit
func (eng *Engine) grow() bool {
	prefs := eng.mc.Env().Prefs
	limit := prefs.BufferLimit.Int()
	if len(eng.buf) >= limit {
		return false
	}
	n := make([]uint8, len(eng.buf), min(cap(eng.buf)+prefs.GrowthStep.Int(), limit))
	copy(n, eng.buf)
	eng.buf = n
	return true
}

// Load the named sample from the device. Any previously loaded sample is
// released first. The sample is released if the load fails.
func (eng *Engine) Load(name string, device int) error {
	eng.Release()

	env := eng.mc.Env()
	ch, err := serial.OpenChannel(env, eng.mc.Kernal, lfn, name, device, secondary)
	if err != nil {
		return err
	}
	defer func() {
		if err := ch.Close(); err != nil {
			logger.Log(env, "sampler", err)
		}
	}()

	if err := eng.load(ch); err != nil {
		eng.Release()
		return err
	}

	logger.Logf(env, "sampler", "%s: loaded %d bytes", name, len(eng.buf))
	return nil
}

func (eng *Engine) load(ch *serial.Channel) error {
	env := eng.mc.Env()

	if err := ch.ReadStructure(headerLength, false, func(_ int, _ uint8) error {
		return nil
	}); err != nil {
		return err
	}

	progress := env.Prefs.ProgressInterval.Int()
	next := progress

	for !ch.AtEnd() {
		d, ok := ch.ReadByte()
		if !ok {
			return curated.Errorf(serial.TruncatedStream, ch.Name(), ch.Count())
		}

		if len(eng.buf) >= cap(eng.buf) && !eng.grow() {
			return curated.Errorf(AllocationFailure, ch.Name(), env.Prefs.BufferLimit.Int())
		}
		eng.buf = append(eng.buf, d)

		if len(eng.buf) >= next {
			logger.Logf(env, "sampler", "%s: %d bytes", ch.Name(), len(eng.buf))
			next += progress
		}
	}

	return nil
}

// Play the loaded sample. Does nothing if no sample is loaded. The timer and
// volume registers are restored when playback ends.
func (eng *Engine) Play() {
	if len(eng.buf) == 0 {
		return
	}

	mc := eng.mc
	reload := clocks.TimerReload(mc.Spec.ClockHz, mc.Env().Prefs.SampleRate.Int())

	mc.WithSnapshot(func() {
		base := mc.Read(modeVolume) & 0xf0

		mc.Write(cia1ControlA, 0x00)
		mc.Write(cia1TimerALo, uint8(reload))
		mc.Write(cia1TimerAHi, uint8(reload>>8))
		mc.Read(cia1Interrupts)
		mc.Write(cia1ControlA, cia.ControlStart|cia.ControlForceLoad)

		mc.Masked(func() {
			for _, b := range eng.buf {
				eng.wait()
				mc.Write(modeVolume, base|b>>4)
				eng.wait()
				mc.Write(modeVolume, base|b&0x0f)
			}
		})
	})

	logger.Logf(mc.Env(), "sampler", "played %d bytes", len(eng.buf))
}

// wait for the timer to underflow
func (eng *Engine) wait() {
	for eng.mc.Read(cia1Interrupts)&cia.InterruptTimerA == 0 {
	}
}
