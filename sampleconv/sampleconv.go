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

// Package sampleconv builds the 4 bit sample files played by the sampler
// package from wav or mp3 recordings.
//
// The recording is reduced to mono, resampled to the playback rate and
// quantised to four bits. Two samples are packed into each byte with the
// first sample in the high nibble. The file starts with a two byte load
// address which is skipped by the sampler.
package sampleconv

import (
	"bufio"
	"os"

	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/logger"
)

// LoadAddress is written at the start of every sample file.
const LoadAddress = 0x1000

// Resample the audio data to the new rate using linear interpolation.
func Resample(p PCM, rate int) []float32 {
	if rate <= 0 || p.SampleRate <= 0 || len(p.Data) == 0 {
		return nil
	}

	step := p.SampleRate / float64(rate)
	n := int(float64(len(p.Data)) / step)

	out := make([]float32, 0, n)
	for i := range n {
		pos := float64(i) * step
		j := int(pos)
		frac := float32(pos - float64(j))

		a := p.Data[j]
		b := a
		if j+1 < len(p.Data) {
			b = p.Data[j+1]
		}
		out = append(out, a+(b-a)*frac)
	}

	return out
}

// Quantise a value in the range -1.0 to 1.0 to four bits. Values outside the
// range are clamped.
func Quantise(v float32) uint8 {
	q := int((v+1.0)*7.5 + 0.5)
	return uint8(min(max(q, 0), 15))
}

// Pack the data into bytes of two nibbles, the first in the high nibble. An odd
// sample at the end is paired with the mid-point value.
func Pack(data []float32) []uint8 {
	out := make([]uint8, 0, (len(data)+1)/2)
	for i := 0; i < len(data); i += 2 {
		hi := Quantise(data[i])
		lo := uint8(0x08)
		if i+1 < len(data) {
			lo = Quantise(data[i+1])
		}
		out = append(out, hi<<4|lo)
	}
	return out
}

// Build returns the contents of a sample file for the audio data played back
// at the rate in nibbles per second.
func Build(p PCM, rate int) []uint8 {
	out := []uint8{uint8(LoadAddress & 0xff), uint8(LoadAddress >> 8)}
	return append(out, Pack(Resample(p, rate))...)
}

// Convert the recording in the input file to a sample file.
func Convert(perm logger.Permission, input string, output string, rate int) (rerr error) {
	if rate <= 0 {
		return curated.Errorf("sampleconv: invalid rate: %d", rate)
	}

	in, err := os.Open(input)
	if err != nil {
		return curated.Errorf("sampleconv: %v", err)
	}
	defer in.Close()

	p, err := Decode(perm, input, in)
	if err != nil {
		return err
	}

	data := Build(p, rate)

	out, err := os.Create(output)
	if err != nil {
		return curated.Errorf("sampleconv: %v", err)
	}
	defer func() {
		if err := out.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf("sampleconv: %v", err)
		}
	}()

	w := bufio.NewWriter(out)
	if _, err := w.Write(data); err != nil {
		return curated.Errorf("sampleconv: %v", err)
	}
	if err := w.Flush(); err != nil {
		return curated.Errorf("sampleconv: %v", err)
	}

	logger.Logf(perm, "sampleconv", "%s: %d bytes at %dHz", output, len(data), rate)

	return nil
}
