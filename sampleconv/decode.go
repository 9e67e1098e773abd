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

package sampleconv

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/logger"
)

// UnsupportedFormat is returned when the file extension is not recognised.
const UnsupportedFormat = "sampleconv: unsupported format: %s"

// DecodeFailure is returned when the audio data cannot be decoded.
const DecodeFailure = "sampleconv: %s: %v"

// PCM is mono audio data. Values are in the range -1.0 to 1.0.
type PCM struct {
	SampleRate float64
	Data       []float32
}

// Duration returns the length of the recording in seconds.
func (p PCM) Duration() float64 {
	if p.SampleRate == 0 {
		return 0
	}
	return float64(len(p.Data)) / p.SampleRate
}

// Decode the audio data. The format is selected by the extension of the
// filename, which need not exist on disk. Only the first channel of stereo
// data is used.
func Decode(perm logger.Permission, filename string, r io.ReadSeeker) (PCM, error) {
	var p PCM
	var err error

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".wav":
		p, err = decodeWAV(r)
	case ".mp3":
		p, err = decodeMP3(r)
	default:
		return p, curated.Errorf(UnsupportedFormat, filename)
	}

	if err != nil {
		return p, curated.Errorf(DecodeFailure, filename, err)
	}

	logger.Logf(perm, "sampleconv", "%s: sample rate: %0.2fHz", filename, p.SampleRate)
	logger.Logf(perm, "sampleconv", "%s: total time: %.02fs", filename, p.Duration())

	return p, nil
}

func decodeWAV(r io.ReadSeeker) (PCM, error) {
	var p PCM

	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return p, curated.Errorf("not a valid wav file")
	}

	// load all data at once
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return p, err
	}

	chans := max(int(dec.NumChans), 1)
	scale := float32(int(1) << (max(buf.SourceBitDepth, 8) - 1))

	// 8 bit wav data is unsigned
	var offset float32
	if buf.SourceBitDepth == 8 {
		offset = 1.0
	}

	// copy first channel only of data stream
	p.Data = make([]float32, 0, len(buf.Data)/chans)
	for i := 0; i < len(buf.Data); i += chans {
		p.Data = append(p.Data, float32(buf.Data[i])/scale-offset)
	}
	p.SampleRate = float64(dec.SampleRate)

	return p, nil
}

func decodeMP3(r io.Reader) (PCM, error) {
	var p PCM

	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return p, err
	}

	// the stream is always 16 bit little-endian with two channels, even if the
	// source is mono. a sample frame is always four bytes
	chunk := make([]byte, 4096)
	for {
		n, err := io.ReadFull(dec, chunk)
		for i := 0; i+1 < n-(n%4); i += 4 {
			s := int16(uint16(chunk[i]) | uint16(chunk[i+1])<<8)
			p.Data = append(p.Data, float32(s)/32768.0)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			break
		}
		if err != nil {
			return p, err
		}
	}
	p.SampleRate = float64(dec.SampleRate())

	return p, nil
}
