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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. It takes a
// formatting pattern, placeholder values and returns an error. The pattern
// is what identifies the error and so it is the pattern that is tested by
// the Is() and Has() functions:
//
//	e := curated.Errorf(serial.TruncatedStream, "vreid.koa", 8000)
//
//	if curated.Is(e, serial.TruncatedStream) {
//		fmt.Println("true")
//	}
//
// Has() is similar but checks if the pattern occurs somewhere in the error
// chain. A chain is built by using a curated error as one of the placeholder
// values of another curated error.
//
//	f := curated.Errorf("koala: %v", e)
//
//	if curated.Has(f, serial.TruncatedStream) {
//		fmt.Println("true")
//	}
//
// In this example Is(f, serial.TruncatedStream) would be false because f was
// created with the pattern "koala: %v".
//
// The Error() function normalises the message by removing duplicate adjacent
// parts of the chain. Parts are separated by the sub-string ": ". This means
// that a function can wrap an error with its own package prefix without
// worrying that a callee has already done the same thing.
//
// Sentinel errors are expressed as exported pattern strings, suitably named
// and commented, in the package that creates them.
package curated
