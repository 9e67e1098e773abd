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

// SampleFreq is the frequency of the audio produced by the synthesiser.
const SampleFreq = 44100

// AudioMixer implementations receive the audio produced by the SID.
type AudioMixer interface {
	// SetAudio is called with a buffer of mono 16 bit samples. The buffer is
	// reused after the function returns.
	SetAudio(samples []int16) error

	// EndMixing is called when no more audio will be produced.
	EndMixing() error

	// Reset is called when the SID is reset.
	Reset()
}

// AddMixer adds an audio mixer. Audio synthesis is performed only when at
// least one mixer has been added.
func (sid *SID) AddMixer(m AudioMixer) {
	sid.synth.mixers = append(sid.synth.mixers, m)
}

// Step the synthesiser by the number of CPU cycles.
func (sid *SID) Step(cycles int) error {
	if len(sid.synth.mixers) == 0 {
		return nil
	}
	return sid.synth.step(&sid.regs, cycles)
}

// EndMixing flushes any buffered audio to the mixers and tells them that no
// more audio will be produced.
func (sid *SID) EndMixing() error {
	if err := sid.synth.flush(); err != nil {
		return err
	}
	for _, m := range sid.synth.mixers {
		if err := m.EndMixing(); err != nil {
			return err
		}
	}
	return nil
}
