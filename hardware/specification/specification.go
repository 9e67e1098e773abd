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

// Package specification contains the definitions of the PAL and NTSC versions
// of the machine. The versions differ in CPU clock speed, raster geometry and
// the value the KERNAL uses for the frame timer.
package specification

import (
	"strings"

	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/hardware/clocks"
)

// UnknownSpec is returned by Get() when the ID does not name a specification.
const UnknownSpec = "specification: unknown specification (%s)"

// SpecList is the list of specifications that the machine may adopt.
var SpecList = []string{"PAL", "NTSC"}

// Spec is used to define the two machine specifications.
type Spec struct {
	ID string

	// CPU clock in Hz
	ClockHz int

	// raster geometry. the raster counter runs from zero to Lines-1 and each
	// line lasts for CyclesPerLine CPU cycles
	CyclesPerLine int
	Lines         int

	// the nominal number of video frames per second. the true rate is
	// ClockHz / CyclesPerFrame() but the nominal value is used for converting
	// seconds to frames
	RefreshRate int

	// the value the KERNAL writes to the CIA1 timer A latch to produce the
	// system interrupt
	KernalTimerLatch uint16
}

// CyclesPerFrame returns the number of CPU cycles in one video frame.
func (spec Spec) CyclesPerFrame() int {
	return spec.CyclesPerLine * spec.Lines
}

// FrameRate returns the true number of video frames per second.
func (spec Spec) FrameRate() float64 {
	return float64(spec.ClockHz) / float64(spec.CyclesPerFrame())
}

// SpecPAL is the specification for PAL machines.
var SpecPAL = Spec{
	ID:               "PAL",
	ClockHz:          clocks.PAL_Hz,
	CyclesPerLine:    63,
	Lines:            312,
	RefreshRate:      50,
	KernalTimerLatch: 0x4025,
}

// SpecNTSC is the specification for NTSC machines.
var SpecNTSC = Spec{
	ID:               "NTSC",
	ClockHz:          clocks.NTSC_Hz,
	CyclesPerLine:    65,
	Lines:            263,
	RefreshRate:      60,
	KernalTimerLatch: 0x4295,
}

// Get returns the specification with the ID. The comparison is case
// insensitive.
func Get(id string) (Spec, error) {
	switch strings.ToUpper(strings.TrimSpace(id)) {
	case "PAL":
		return SpecPAL, nil
	case "NTSC":
		return SpecNTSC, nil
	}
	return Spec{}, curated.Errorf(UnknownSpec, id)
}
