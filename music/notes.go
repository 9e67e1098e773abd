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

package music

import (
	"github.com/vreid/koalastream/curated"
)

// Sentinal error patterns.
const (
	OctaveRange = "music: octave out of range (%d)"
	UnknownNote = "music: unknown note (%s)"
)

// SID frequency values for seven octaves of the equal tempered scale on a PAL
// machine. The first entry is C in octave one.
var noteTable = [...]uint16{
	0x0225, 0x0245, 0x0268, 0x028C, 0x02B3, 0x02DC, 0x0308, 0x0336, 0x0367, 0x039B, 0x03D2, 0x040C, // 1
	0x0449, 0x048B, 0x04D0, 0x0519, 0x0567, 0x05B9, 0x0610, 0x066C, 0x06CE, 0x0735, 0x07A3, 0x0817, // 2
	0x0893, 0x0915, 0x099F, 0x0A32, 0x0ACD, 0x0B72, 0x0C20, 0x0CD8, 0x0D9C, 0x0E6B, 0x0F46, 0x102F, // 3
	0x1125, 0x122A, 0x133F, 0x1464, 0x159A, 0x16E3, 0x183F, 0x19B1, 0x1B38, 0x1CD6, 0x1E8D, 0x205E, // 4
	0x224B, 0x2455, 0x267E, 0x28C8, 0x2B34, 0x2DC6, 0x307F, 0x3361, 0x366F, 0x39AC, 0x3D1A, 0x40BC, // 5
	0x4495, 0x48A9, 0x4CFC, 0x518F, 0x5669, 0x5B8C, 0x60FE, 0x66C2, 0x6CDF, 0x7358, 0x7A34, 0x8178, // 6
	0x892B, 0x9153, 0x99F7, 0xA31F, 0xACD2, 0xB719, 0xC1FC, 0xCD85, 0xD9BD, 0xE6B0, 0xF467, 0xFFFF, // 7
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Pitch returns the SID frequency value for the named note in the octave.
// Octaves are numbered from one to seven. Sharps are written with a '#'
// suffix. Flats are not supported.
func Pitch(name string, octave int) (uint16, error) {
	if octave < 1 || octave > 7 {
		return 0, curated.Errorf(OctaveRange, octave)
	}
	for i, n := range noteNames {
		if n == name {
			return noteTable[(octave-1)*12+i], nil
		}
	}
	return 0, curated.Errorf(UnknownNote, name)
}

// mustPitch is used to build the built in melodies
func mustPitch(name string, octave int) uint16 {
	p, err := Pitch(name, octave)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultMelody returns the melody that is played while loading.
func DefaultMelody() []Note {
	n := func(name string, octave int, length uint8) Note {
		return Note{Freq: mustPitch(name, octave), Length: length}
	}
	rest := func(length uint8) Note {
		return Note{Length: length}
	}

	return []Note{
		n("A", 3, 4), n("C", 4, 2), n("E", 4, 2), n("A", 4, 4), rest(2),
		n("G", 4, 2), n("E", 4, 2), n("D", 4, 2), n("C", 4, 4), rest(2),
		n("F", 3, 4), n("A", 3, 2), n("C", 4, 2), n("F", 4, 4), rest(2),
		n("E", 4, 2), n("D", 4, 2), n("B", 3, 2), n("G#", 3, 4), rest(4),
	}
}
