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
	"testing"

	"github.com/vreid/koalastream/test"
)

func TestSilence(t *testing.T) {
	r := newRing(8)
	p := []byte{1, 2, 3, 4, 5}
	n, err := r.Read(p)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 4)
	for i := range 4 {
		test.ExpectEquality(t, p[i], uint8(0), i)
	}
}

func TestPushRead(t *testing.T) {
	r := newRing(8)
	r.push([]int16{1, -1, 0x1234})
	test.ExpectEquality(t, r.len(), 3)

	p := make([]byte, 8)
	n, err := r.Read(p)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, n, 8)
	test.ExpectEquality(t, p[0], uint8(0x01))
	test.ExpectEquality(t, p[1], uint8(0x00))
	test.ExpectEquality(t, p[2], uint8(0xff))
	test.ExpectEquality(t, p[3], uint8(0xff))
	test.ExpectEquality(t, p[4], uint8(0x34))
	test.ExpectEquality(t, p[5], uint8(0x12))

	// padded with silence
	test.ExpectEquality(t, p[6], uint8(0x00))
	test.ExpectEquality(t, r.len(), 0)
}

func TestOverrun(t *testing.T) {
	r := newRing(4)
	r.push([]int16{1, 2, 3, 4, 5, 6})
	test.ExpectEquality(t, r.len(), 4)
	test.ExpectEquality(t, r.overrun, 2)

	p := make([]byte, 2)
	_, _ = r.Read(p)
	test.ExpectEquality(t, p[0], uint8(3))

	r.clear()
	test.ExpectEquality(t, r.len(), 0)
}
