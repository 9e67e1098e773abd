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

// Package hardware is the base package for the emulated machine. The Machine
// type ties together the CPU registers, memory, the VIC-II, the SID, the two
// CIAs, the interrupt vector, the serial bus and the KERNAL.
//
// The streaming components are not emulated 6510 programs. They are Go code
// that accesses the machine through the Read() and Write() functions in the
// same way that a program running on the CPU would. Every access takes time
// and an interrupt is serviced before an access if one is pending and the
// interrupt disable flag of the CPU is clear.
//
// Code that must not be interrupted uses Masked(). Code that reprograms the
// timer and the volume register uses WithSnapshot() so that the registers are
// restored however the code exits.
package hardware
