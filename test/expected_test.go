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

package test_test

import (
	"errors"
	"testing"

	"github.com/vreid/koalastream/test"
)

func TestExpectations(t *testing.T) {
	var err error
	test.ExpectSuccess(t, true)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, nil)

	test.ExpectFailure(t, false)
	test.ExpectFailure(t, errors.New("truncated"))

	test.ExpectEquality(t, uint8(0x3b), 0x1b|0x20)
	test.ExpectEquality(t, uint16(0x4000), (3-2)*0x4000)
	test.ExpectInequality(t, 164, 165)

	test.ExpectApproximate(t, 165, 164, 0.01)
	test.ExpectApproximate(t, 50.125, 50.0, 0.01)
}

func TestWriter(t *testing.T) {
	tw := &test.Writer{}
	tw.Write([]byte("FAIL."))
	test.ExpectSuccess(t, tw.Compare("FAIL."))
	test.ExpectEquality(t, tw.String(), "FAIL.")
	tw.Clear()
	test.ExpectSuccess(t, tw.Compare(""))
}
