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

// Package speaker plays the audio produced by the SID through the host's
// audio device.
package speaker

import (
	"github.com/ebitengine/oto/v3"
	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/hardware/sid"
	"github.com/vreid/koalastream/logger"
)

// one quarter of a second of audio is buffered
const bufferLength = sid.SampleFreq / 4

// Speaker implements the sid.AudioMixer interface.
type Speaker struct {
	perm   logger.Permission
	ctx    *oto.Context
	player *oto.Player
	buffer *ring
}

// NewSpeaker is the preferred method of initialisation for the Speaker type.
// Only one Speaker should be created during the lifetime of the program
// because the audio context cannot be recreated.
func NewSpeaker(perm logger.Permission) (*Speaker, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sid.SampleFreq,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, curated.Errorf("speaker: %v", err)
	}
	<-ready

	spk := &Speaker{
		perm:   perm,
		ctx:    ctx,
		buffer: newRing(bufferLength),
	}
	spk.player = ctx.NewPlayer(spk.buffer)
	spk.player.Play()

	return spk, nil
}

// SetAudio implements the sid.AudioMixer interface.
func (spk *Speaker) SetAudio(samples []int16) error {
	spk.buffer.push(samples)
	return nil
}

// EndMixing implements the sid.AudioMixer interface.
func (spk *Speaker) EndMixing() error {
	if spk.buffer.overrun > 0 {
		logger.Logf(spk.perm, "speaker", "%d samples dropped", spk.buffer.overrun)
	}
	if err := spk.player.Close(); err != nil {
		return curated.Errorf("speaker: %v", err)
	}
	return nil
}

// Reset implements the sid.AudioMixer interface.
func (spk *Speaker) Reset() {
	spk.buffer.clear()
}
