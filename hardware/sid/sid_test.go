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

package sid_test

import (
	"testing"

	"github.com/vreid/koalastream/hardware/clocks"
	"github.com/vreid/koalastream/hardware/sid"
	"github.com/vreid/koalastream/test"
)

type write struct {
	reg  uint8
	data uint8
}

func TestRegisters(t *testing.T) {
	s := sid.NewSID(clocks.PAL_Hz)

	var writes []write
	s.AddObserver(func(reg uint8, data uint8) {
		writes = append(writes, write{reg: reg, data: data})
	})

	base := sid.VoiceBase(2)
	test.ExpectEquality(t, base, uint8(14))

	s.Write(base+sid.FreqLo, 0x34)
	s.Write(base+sid.FreqHi, 0x12)
	s.Write(base+sid.Control, sid.ControlNoise|sid.ControlGate)
	test.ExpectEquality(t, s.Frequency(2), uint16(0x1234))
	test.ExpectSuccess(t, s.Gate(2))
	test.ExpectFailure(t, s.Gate(0))

	// registers read back the last value written. the register file is
	// mirrored every 32 bytes
	s.Write(sid.ModeVolume+0x20, 0x1f)
	test.ExpectEquality(t, s.Read(sid.ModeVolume), uint8(0x1f))
	test.ExpectEquality(t, s.Volume(), uint8(0x0f))

	// paddles are not connected
	test.ExpectEquality(t, s.Read(sid.PotX), uint8(0xff))

	test.DemandEquality(t, len(writes), 4)
	test.ExpectEquality(t, writes[2], write{reg: base + sid.Control, data: 0x81})
	test.ExpectEquality(t, writes[3], write{reg: sid.ModeVolume, data: 0x1f})

	// writes to the read only registers are ignored
	s.Write(sid.Osc3, 0x00)
	test.ExpectEquality(t, len(writes), 4)
}

type mixer struct {
	samples []int16
	ended   bool
}

func (m *mixer) SetAudio(samples []int16) error {
	m.samples = append(m.samples, samples...)
	return nil
}

func (m *mixer) EndMixing() error {
	m.ended = true
	return nil
}

func (m *mixer) Reset() {
	m.samples = m.samples[:0]
}

func TestSynthesis(t *testing.T) {
	s := sid.NewSID(clocks.PAL_Hz)
	m := &mixer{}
	s.AddMixer(m)

	// one second of silence at zero volume
	test.ExpectSuccess(t, s.Step(clocks.PAL_Hz))
	test.ExpectSuccess(t, s.EndMixing())
	test.ExpectSuccess(t, m.ended)
	test.ExpectApproximate(t, len(m.samples), sid.SampleFreq, 0.001)

	// the volume register produces a DC offset. this is how samples are played
	// through the volume register
	m.Reset()
	s.Write(sid.ModeVolume, 0x00)
	test.ExpectSuccess(t, s.Step(1000))
	s.Write(sid.ModeVolume, 0x0f)
	test.ExpectSuccess(t, s.Step(1000))
	test.ExpectSuccess(t, s.EndMixing())
	test.DemandSuccess(t, len(m.samples) > 80)
	test.ExpectSuccess(t, m.samples[0] < m.samples[len(m.samples)-1])

	// a gated sawtooth voice produces a changing signal
	m.Reset()
	s.Write(sid.FreqLo, 0x00)
	s.Write(sid.FreqHi, 0x20)
	s.Write(sid.AttackDecay, 0x00)
	s.Write(sid.SustainRelease, 0xf0)
	s.Write(sid.Control, sid.ControlSawtooth|sid.ControlGate)
	test.ExpectSuccess(t, s.Step(20000))
	test.ExpectSuccess(t, s.EndMixing())

	lo, hi := m.samples[0], m.samples[0]
	for _, v := range m.samples {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	test.ExpectSuccess(t, int(hi)-int(lo) > 1000)
}

func TestNoMixer(t *testing.T) {
	// no synthesis is performed without a mixer and stepping never fails
	s := sid.NewSID(clocks.NTSC_Hz)
	test.ExpectSuccess(t, s.Step(clocks.NTSC_Hz))
	test.ExpectSuccess(t, s.EndMixing())
}
