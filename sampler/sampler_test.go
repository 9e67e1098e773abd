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

package sampler_test

import (
	"testing"
	"testing/fstest"

	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/environment"
	"github.com/vreid/koalastream/hardware"
	"github.com/vreid/koalastream/hardware/cia"
	"github.com/vreid/koalastream/hardware/iec"
	"github.com/vreid/koalastream/hardware/irq"
	"github.com/vreid/koalastream/hardware/sid"
	"github.com/vreid/koalastream/sampler"
	"github.com/vreid/koalastream/serial"
	"github.com/vreid/koalastream/test"
)

func sample(n int) []byte {
	d := []byte{0x00, 0x10}
	for i := range n {
		d = append(d, uint8(i))
	}
	return d
}

func setup(t *testing.T) *hardware.Machine {
	t.Helper()
	env, err := environment.NewEnvironment(environment.Label("test"), nil)
	test.DemandSuccess(t, err)

	// fast load keeps the tests quick
	test.DemandSuccess(t, env.Prefs.FastLoad.Set(true))

	mc, err := hardware.NewMachine(env)
	test.DemandSuccess(t, err)

	disk := fstest.MapFS{
		"LONG":      &fstest.MapFile{Data: sample(5000)},
		"SHORT":     &fstest.MapFile{Data: sample(3)},
		"HEADER":    &fstest.MapFile{Data: sample(0)},
		"TRUNCATED": &fstest.MapFile{Data: []byte{0x00}},
	}
	test.DemandSuccess(t, mc.IEC.Attach(iec.NewDiskDrive(8, disk, env.Prefs.TransferCyclesPerByte())))
	return mc
}

func TestLoad(t *testing.T) {
	mc := setup(t)
	eng := sampler.NewEngine(mc)

	test.DemandSuccess(t, eng.Load("long", 8))
	test.ExpectEquality(t, eng.Size(), 5000)
	test.ExpectEquality(t, eng.Capacity(), 6144)
	test.ExpectEquality(t, eng.Sample()[0], uint8(0))
	test.ExpectEquality(t, eng.Sample()[4999], uint8(4999&0xff))
	test.ExpectEquality(t, mc.Kernal.OpenFiles(), 0)

	// a new load replaces the old sample
	test.DemandSuccess(t, eng.Load("short", 8))
	test.ExpectEquality(t, eng.Size(), 3)
	test.ExpectEquality(t, eng.Capacity(), 2048)
}

func TestLoadFailures(t *testing.T) {
	mc := setup(t)
	eng := sampler.NewEngine(mc)

	test.DemandSuccess(t, eng.Load("short", 8))

	// a sample with no data after the header
	err := eng.Load("header", 8)
	test.ExpectSuccess(t, curated.Is(err, serial.TruncatedStream))
	test.ExpectEquality(t, eng.Size(), 0)

	// end of file in the header
	err = eng.Load("truncated", 8)
	test.ExpectSuccess(t, curated.Is(err, serial.TruncatedStream))
	test.ExpectEquality(t, eng.Size(), 0)

	err = eng.Load("missing", 8)
	test.ExpectSuccess(t, curated.Is(err, serial.ChannelOpenFailure))

	err = eng.Load("long", 9)
	test.ExpectSuccess(t, curated.Is(err, serial.ChannelOpenFailure))

	// the buffer limit
	test.DemandSuccess(t, mc.Env().Prefs.BufferLimit.Set(4096))
	err = eng.Load("long", 8)
	test.ExpectSuccess(t, curated.Is(err, sampler.AllocationFailure))
	test.ExpectEquality(t, eng.Size(), 0)
	test.ExpectEquality(t, eng.Capacity(), 0)

	// every channel was closed
	test.ExpectEquality(t, mc.Kernal.OpenFiles(), 0)
}

func TestPlayEmpty(t *testing.T) {
	mc := setup(t)
	mc.Write(0xd418, 0x1f)
	eng := sampler.NewEngine(mc)

	c := mc.Cycles()
	eng.Play()
	test.ExpectEquality(t, mc.Cycles(), c)
	test.ExpectEquality(t, mc.Peek(0xd418), uint8(0x1f))
}

type nibble struct {
	data   uint8
	cycles int
	latch  uint16
}

func TestPlay(t *testing.T) {
	mc := setup(t)
	eng := sampler.NewEngine(mc)
	test.DemandSuccess(t, eng.Load("short", 8))

	// an interrupt handler that acknowledges the timer and counts interrupts
	var ticks int
	test.DemandSuccess(t, mc.IRQ.Chain(irq.Stage{
		Label: "count",
		Handler: func() {
			mc.Read(0xdc0d)
			ticks++
		},
	}))
	mc.Write(0xdc0d, 0x81)
	mc.Write(0xd418, 0x2f)

	before := mc.TakeSnapshot()

	var nibbles []nibble
	mc.SID.AddObserver(func(reg uint8, data uint8) {
		if reg == sid.ModeVolume {
			nibbles = append(nibbles, nibble{
				data:   data,
				cycles: mc.Cycles(),
				latch:  mc.CIA1.Latch(cia.TimerA),
			})
		}
	})

	ticks = 0
	irqs := mc.IRQCount()
	eng.Play()
	test.ExpectEquality(t, mc.IRQCount(), irqs)
	test.ExpectEquality(t, ticks, 0)

	// two nibbles for every byte plus the restoration of the volume register
	test.DemandEquality(t, len(nibbles), 7)
	for i, d := range []uint8{0x20, 0x20, 0x20, 0x21, 0x20, 0x22, 0x2f} {
		test.ExpectEquality(t, nibbles[i].data, d, i)
	}

	// one nibble per timer period. the period is the reload value plus one.
	// the polling loop adds a few cycles of jitter
	for i := range 6 {
		test.ExpectEquality(t, nibbles[i].latch, uint16(164), i)
		if i > 0 {
			test.ExpectApproximate(t, nibbles[i].cycles-nibbles[i-1].cycles, 165, 0.04, i)
		}
	}

	// the timer was restored after playback
	test.ExpectEquality(t, nibbles[6].latch, before.TimerALatch)
	test.ExpectEquality(t, mc.TakeSnapshot(), before)
	test.ExpectEquality(t, mc.CPU.Status.InterruptDisable, false)
}
