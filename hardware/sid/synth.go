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

package sid

// envelope rates in milliseconds, indexed by the four bit attack value. decay
// and release rates are three times as long
var attackMs = [16]float64{2, 8, 16, 24, 38, 56, 68, 80, 100, 250, 500, 800, 1000, 3000, 5000, 8000}

type envStage int

const (
	envIdle envStage = iota
	envAttack
	envDecaySustain
	envRelease
)

// the proportion of the output given to the voices and to the DC offset
// produced by the volume register. the offset is what makes sample playback
// through the volume register audible
const (
	voiceLevel = 0.6
	dcLevel    = 0.4
)

// size of the buffer sent to audio mixers
const bufferSize = 1024

type voice struct {
	acc   uint32
	lfsr  uint32
	env   float64
	stage envStage
}

func (v *voice) reset() {
	v.acc = 0
	v.lfsr = 0x7ffff8
	v.env = 0
	v.stage = envIdle
}

type synth struct {
	clockHz         int
	cyclesPerSample float64
	pending         float64
	frac            float64

	voices [NumVoices]voice

	buffer []int16
	mixers []AudioMixer
}

func (s *synth) init(clockHz int) {
	s.clockHz = clockHz
	s.cyclesPerSample = float64(clockHz) / SampleFreq
	s.buffer = make([]int16, 0, bufferSize)
	s.reset()
}

func (s *synth) reset() {
	for i := range s.voices {
		s.voices[i].reset()
	}
	s.pending = 0
	s.frac = 0
	s.buffer = s.buffer[:0]
	for _, m := range s.mixers {
		m.Reset()
	}
}

// control is called when a voice control register is written.
func (s *synth) control(n int, old uint8, data uint8) {
	v := &s.voices[n]
	if data&ControlTest == ControlTest {
		v.acc = 0
		v.lfsr = 0x7ffff8
	}
	if old&ControlGate == 0 && data&ControlGate == ControlGate {
		v.stage = envAttack
	} else if old&ControlGate == ControlGate && data&ControlGate == 0 {
		v.stage = envRelease
	}
}

func (s *synth) step(regs *[0x20]uint8, cycles int) error {
	s.pending += float64(cycles)
	for s.pending >= s.cyclesPerSample {
		s.pending -= s.cyclesPerSample

		s.frac += s.cyclesPerSample
		n := int(s.frac)
		s.frac -= float64(n)

		s.buffer = append(s.buffer, s.sample(regs, n))
		if len(s.buffer) >= bufferSize {
			if err := s.flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *synth) flush() error {
	if len(s.buffer) == 0 {
		return nil
	}
	for _, m := range s.mixers {
		if err := m.SetAudio(s.buffer); err != nil {
			return err
		}
	}
	s.buffer = s.buffer[:0]
	return nil
}

// sample advances every voice by n cycles and returns the mixed output.
func (s *synth) sample(regs *[0x20]uint8, n int) int16 {
	var mix float64

	for i := range s.voices {
		b := VoiceBase(i)
		v := &s.voices[i]
		freq := uint32(regs[b+FreqLo]) | uint32(regs[b+FreqHi])<<8
		ctrl := regs[b+Control]

		if ctrl&ControlTest == 0 {
			old := uint64(v.acc)
			total := old + uint64(freq)*uint64(n)
			v.acc = uint32(total & 0xffffff)

			// the noise shift register is clocked by bit 19 of the accumulator
			edges := ((total + 0x80000) >> 20) - ((old + 0x80000) >> 20)
			for range min(edges, 32) {
				bit := ((v.lfsr >> 22) ^ (v.lfsr >> 17)) & 0x01
				v.lfsr = ((v.lfsr << 1) | bit) & 0x7fffff
			}
		}

		s.envelope(v, regs[b+AttackDecay], regs[b+SustainRelease], n)

		// voice 3 can be disconnected from the output
		if i == 2 && regs[ModeVolume]&0x80 == 0x80 {
			continue
		}

		w := waveform(v, ctrl, uint16(regs[b+PulseLo])|uint16(regs[b+PulseHi]&0x0f)<<8)
		mix += (float64(w)/2047.5 - 1.0) * v.env
	}

	vol := float64(regs[ModeVolume]&VolumeMask) / 15.0
	out := (mix/NumVoices)*vol*voiceLevel + (vol-0.5)*dcLevel

	out *= 32767
	if out > 32767 {
		out = 32767
	} else if out < -32768 {
		out = -32768
	}
	return int16(out)
}

func (s *synth) envelope(v *voice, ad uint8, sr uint8, n int) {
	cycles := float64(n)
	perMs := float64(s.clockHz) / 1000.0

	switch v.stage {
	case envAttack:
		v.env += cycles / (attackMs[ad>>4] * perMs)
		if v.env >= 1.0 {
			v.env = 1.0
			v.stage = envDecaySustain
		}
	case envDecaySustain:
		sustain := float64(sr>>4) / 15.0
		if v.env > sustain {
			v.env -= cycles / (attackMs[ad&0x0f] * 3 * perMs)
			if v.env < sustain {
				v.env = sustain
			}
		}
	case envRelease:
		v.env -= cycles / (attackMs[sr&0x0f] * 3 * perMs)
		if v.env <= 0 {
			v.env = 0
			v.stage = envIdle
		}
	}
}

// waveform returns the 12 bit output of the oscillator. when more than one
// waveform is selected the outputs are combined with a logical AND
func waveform(v *voice, ctrl uint8, pw uint16) uint16 {
	w := uint16(0xfff)
	selected := false

	if ctrl&ControlTriangle == ControlTriangle {
		a := v.acc
		if a&0x800000 == 0x800000 {
			a ^= 0xffffff
		}
		w &= uint16(a>>11) & 0xfff
		selected = true
	}
	if ctrl&ControlSawtooth == ControlSawtooth {
		w &= uint16(v.acc >> 12)
		selected = true
	}
	if ctrl&ControlPulse == ControlPulse {
		if ctrl&ControlTest == ControlTest || uint16(v.acc>>12) >= pw {
			w &= 0xfff
		} else {
			w = 0
		}
		selected = true
	}
	if ctrl&ControlNoise == ControlNoise {
		l := v.lfsr
		n := ((l>>22)&1)<<7 | ((l>>20)&1)<<6 | ((l>>16)&1)<<5 | ((l>>13)&1)<<4 |
			((l>>11)&1)<<3 | ((l>>7)&1)<<2 | ((l>>4)&1)<<1 | (l>>2)&1
		w &= uint16(n) << 4
		selected = true
	}

	if !selected {
		return 0x800
	}
	return w
}

func (s *synth) osc3() uint8 {
	v := &s.voices[2]
	return uint8(v.acc >> 16)
}

func (s *synth) env3() uint8 {
	return uint8(s.voices[2].env * 255)
}
