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

// Package terminal waits for a key press on the controlling terminal. The
// terminal is put into raw mode for the duration of the wait so that the key
// does not need to be followed by return.
package terminal

import (
	"fmt"
	"io"

	"github.com/pkg/term"
	"github.com/vreid/koalastream/curated"
)

// Device is the controlling terminal.
const Device = "/dev/tty"

// WaitKey prints the prompt to the output and waits for a key to be pressed on
// the controlling terminal. The key is returned.
func WaitKey(output io.Writer, prompt string) (uint8, error) {
	return waitKey(Device, output, prompt)
}

func waitKey(device string, output io.Writer, prompt string) (key uint8, rerr error) {
	t, err := term.Open(device, term.RawMode)
	if err != nil {
		return 0, curated.Errorf("terminal: %v", err)
	}
	defer func() {
		if err := t.Restore(); err != nil && rerr == nil {
			rerr = curated.Errorf("terminal: %v", err)
		}
		_ = t.Close()
	}()

	if output != nil && prompt != "" {
		fmt.Fprint(output, prompt)
	}

	b := make([]byte, 1)
	if _, err := t.Read(b); err != nil {
		return 0, curated.Errorf("terminal: %v", err)
	}

	return b[0], nil
}
