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

package random

// DefaultSeed is used when a seed of zero is requested. A xorshift generator
// seeded with zero only ever produces zero.
const DefaultSeed = 0xace1

// Xorshift16 is a 16-bit xorshift generator using the shift triple (7, 9, 8).
// The period is 65535.
type Xorshift16 struct {
	state uint16
	seed  uint16
}

// NewXorshift16 is the preferred method of initialisation for the Xorshift16
// type.
func NewXorshift16(seed uint16) *Xorshift16 {
	rnd := &Xorshift16{}
	rnd.Reseed(seed)
	return rnd
}

// Reseed sets the generator to the start of the sequence for the seed.
func (rnd *Xorshift16) Reseed(seed uint16) {
	if seed == 0 {
		seed = DefaultSeed
	}
	rnd.seed = seed
	rnd.state = seed
}

// Reset the generator to the start of the sequence for the current seed.
func (rnd *Xorshift16) Reset() {
	rnd.state = rnd.seed
}

// Seed returns the seed of the current sequence.
func (rnd *Xorshift16) Seed() uint16 {
	return rnd.seed
}

// Next advances the generator and returns the new value. The value is never
// zero.
func (rnd *Xorshift16) Next() uint16 {
	x := rnd.state
	x ^= x << 7
	x ^= x >> 9
	x ^= x << 8
	rnd.state = x
	return x
}
