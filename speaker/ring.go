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

package speaker

import (
	"encoding/binary"
	"sync"
)

// ring is a fixed size buffer of samples shared between the emulation, which
// writes to it, and the audio device, which reads from it.
type ring struct {
	crit sync.Mutex
	data []int16
	head int
	size int

	// number of samples discarded because the buffer was full
	overrun int
}

func newRing(capacity int) *ring {
	return &ring{
		data: make([]int16, capacity),
	}
}

// push samples to the buffer. the oldest samples are discarded if there is not
// enough room
func (r *ring) push(samples []int16) {
	r.crit.Lock()
	defer r.crit.Unlock()

	for _, s := range samples {
		if r.size == len(r.data) {
			r.head = (r.head + 1) % len(r.data)
			r.size--
			r.overrun++
		}
		r.data[(r.head+r.size)%len(r.data)] = s
		r.size++
	}
}

// Read implements the io.Reader interface. The buffer is filled as 16 bit
// little-endian samples. Silence is returned when there are no samples so the
// function never blocks.
func (r *ring) Read(p []byte) (int, error) {
	r.crit.Lock()
	defer r.crit.Unlock()

	n := len(p) / 2
	for i := range n {
		var s int16
		if r.size > 0 {
			s = r.data[r.head]
			r.head = (r.head + 1) % len(r.data)
			r.size--
		}
		binary.LittleEndian.PutUint16(p[i*2:], uint16(s))
	}

	return n * 2, nil
}

func (r *ring) len() int {
	r.crit.Lock()
	defer r.crit.Unlock()
	return r.size
}

func (r *ring) clear() {
	r.crit.Lock()
	defer r.crit.Unlock()
	r.head = 0
	r.size = 0
}
