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

// Package cpu models the programmer-visible state of the 6510 CPU: the
// accumulator, the index registers, the stack pointer and the status register.
//
// Instructions are not decoded or executed. Foreground code and interrupt
// handlers are Go functions and the machine charges CPU cycles for every bus
// access they make. What remains of the CPU is the state that those functions
// must preserve across an interrupt, the stack that PHP and PLP use and the
// interrupt disable flag that decides whether an interrupt can be taken.
package cpu
