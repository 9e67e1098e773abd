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

// Package serial reads files from a device on the serial bus one byte at a
// time. A Channel is a logical file opened through the KERNAL and selected for
// input.
//
// The end of a file is signalled with the last byte. ReadStructure() reads a
// fixed number of bytes and decides whether the end of the file is acceptable:
// it is only acceptable with the last byte of the last structure in the file.
package serial

import (
	"fmt"

	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/hardware/iec"
	"github.com/vreid/koalastream/logger"
)

// Sentinal error patterns.
const (
	ChannelOpenFailure = "serial: cannot open %s on device %d: %v"
	TruncatedStream    = "serial: %s: stream ended early after %d bytes"
	AlreadyClosed      = "serial: %s: channel already closed"
)

// State of the Channel.
type State int

// List of valid State values.
const (
	Closed State = iota
	Open
	Error
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case Error:
		return "error"
	}
	return "unknown"
}

// Kernal is the interface to the KERNAL routines used by the Channel.
type Kernal interface {
	Open(lfn int, device int, secondary int, name string) error
	ChkIn(lfn int) error
	ChrIn() uint8
	ReadSt() uint8
	ClrChn()
	Close(lfn int) error
}

// Channel is an open file on a device.
type Channel struct {
	perm logger.Permission
	k    Kernal

	lfn       int
	name      string
	device    int
	secondary int

	state State

	// the end of the file has been reached. the byte that was read with the
	// end of file signal is valid
	eoi bool

	// number of bytes read so far
	count int
}

// OpenChannel opens the named file on the device and selects it for input.
// If the file is opened but can't be selected for input the file is closed
// before returning.
func OpenChannel(perm logger.Permission, k Kernal, lfn int, name string, device int, secondary int) (*Channel, error) {
	if err := k.Open(lfn, device, secondary, name); err != nil {
		return nil, curated.Errorf(ChannelOpenFailure, name, device, err)
	}

	if err := k.ChkIn(lfn); err != nil {
		k.ClrChn()
		_ = k.Close(lfn)
		return nil, curated.Errorf(ChannelOpenFailure, name, device, err)
	}

	ch := &Channel{
		perm:      perm,
		k:         k,
		lfn:       lfn,
		name:      name,
		device:    device,
		secondary: secondary,
		state:     Open,
	}
	logger.Logf(perm, "serial", "opened %s", ch)

	return ch, nil
}

func (ch *Channel) String() string {
	return fmt.Sprintf("%s (lfn %d, device %d, secondary %d)", ch.name, ch.lfn, ch.device, ch.secondary)
}

// State returns the current state of the channel.
func (ch *Channel) State() State {
	return ch.state
}

// Name returns the name of the file.
func (ch *Channel) Name() string {
	return ch.name
}

// Count returns the number of bytes read.
func (ch *Channel) Count() int {
	return ch.count
}

// ReadByte returns the next byte of the file. The boolean is false if no byte
// could be read, either because of a bus error or because the end of the file
// had already been reached. A channel that fails to read a byte moves to the
// Error state.
func (ch *Channel) ReadByte() (uint8, bool) {
	if ch.state != Open {
		return 0, false
	}

	d := ch.k.ChrIn()
	st := ch.k.ReadSt()
	if st&(iec.StatusTimeout|iec.StatusDeviceNotPresent) != 0 {
		ch.state = Error
		return 0, false
	}

	ch.count++
	if st&iec.StatusEOI == iec.StatusEOI {
		ch.eoi = true
	}

	return d, true
}

// AtEnd returns true if the last byte of the file has been read.
func (ch *Channel) AtEnd() bool {
	return ch.eoi
}

// ReadStructure reads n bytes, passing each byte to fn along with its index.
// The end of the file is only accepted if final is true and the end is
// signalled with the last byte. Any other end of file, or a failure to read a
// byte, results in a TruncatedStream error. An error from fn is returned
// immediately.
func (ch *Channel) ReadStructure(n int, final bool, fn func(i int, data uint8) error) error {
	for i := range n {
		d, ok := ch.ReadByte()
		if !ok {
			return curated.Errorf(TruncatedStream, ch.name, ch.count)
		}

		if err := fn(i, d); err != nil {
			return err
		}

		if ch.eoi && !(final && i == n-1) {
			ch.state = Error
			return curated.Errorf(TruncatedStream, ch.name, ch.count)
		}
	}
	return nil
}

// Close the channel. Input is returned to the keyboard. A channel can only be
// closed once. A second call to Close() returns an error and does nothing else.
func (ch *Channel) Close() error {
	if ch.state == Closed {
		return curated.Errorf(AlreadyClosed, ch.name)
	}
	ch.state = Closed
	ch.k.ClrChn()
	logger.Logf(ch.perm, "serial", "closed %s after %d bytes", ch.name, ch.count)
	return ch.k.Close(ch.lfn)
}
