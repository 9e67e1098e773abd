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

// Package wavwriter allows writing of audio data to disk as a WAV file. Note
// that audio data is buffered in memory in its entirity, and written to disk
// when mixing ends. It is therefore only suitable for short sessions.
package wavwriter

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/hardware/sid"
	"github.com/vreid/koalastream/logger"
)

// the format of the output file
const (
	bitDepth    = 16
	numChannels = 1

	// PCM in the WAVE format header
	audioFormat = 1
)

// WavWriter implements the sid.AudioMixer interface.
type WavWriter struct {
	perm     logger.Permission
	filename string
	buffer   []int
}

// New is the preferred method of initialisation for the WavWriter type.
func New(perm logger.Permission, filename string) (*WavWriter, error) {
	if filename == "" {
		return nil, curated.Errorf("wavwriter: %v", "no filename")
	}

	aw := &WavWriter{
		perm:     perm,
		filename: filename,
		buffer:   make([]int, 0, sid.SampleFreq),
	}

	return aw, nil
}

// SetAudio implements the sid.AudioMixer interface.
func (aw *WavWriter) SetAudio(samples []int16) error {
	for _, s := range samples {
		aw.buffer = append(aw.buffer, int(s))
	}
	return nil
}

// Samples returns the number of samples collected so far.
func (aw *WavWriter) Samples() int {
	return len(aw.buffer)
}

// EndMixing implements the sid.AudioMixer interface.
func (aw *WavWriter) EndMixing() (rerr error) {
	f, err := os.Create(aw.filename)
	if err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf("wavwriter: %v", err)
		}
	}()

	enc := wav.NewEncoder(f, sid.SampleFreq, bitDepth, numChannels, audioFormat)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChannels,
			SampleRate:  sid.SampleFreq,
		},
		Data:           aw.buffer,
		SourceBitDepth: bitDepth,
	}

	logger.Logf(aw.perm, "wavwriter", "writing %d samples to %s", len(aw.buffer), aw.filename)

	if err := enc.Write(buf); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	// the header is completed when the encoder is closed
	if err := enc.Close(); err != nil {
		return curated.Errorf("wavwriter: %v", err)
	}

	return nil
}

// Reset implements the sid.AudioMixer interface.
func (aw *WavWriter) Reset() {
	aw.buffer = aw.buffer[:0]
}
