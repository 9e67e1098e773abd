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

package prefs

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
)

// Value represents the actual Go preference value.
type Value any

// types supported by the prefs system must implement the pref interface.
type pref interface {
	fmt.Stringer
	Set(value Value) error
	Get() Value
	Reset() error
}

// Bool implements a boolean type in the prefs system.
type Bool struct {
	value   atomic.Value // bool
	initial bool
}

func (p *Bool) String() string {
	return fmt.Sprintf("%v", p.Get())
}

// Set new value to Bool type. New value must be of type bool or string. A
// string value of anything other than "true" (case insensitive) will set the
// value to false.
func (p *Bool) Set(v Value) error {
	var nv bool
	switch v := v.(type) {
	case bool:
		nv = v
	case string:
		nv = strings.ToLower(strings.TrimSpace(v)) == "true"
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Bool", v)
	}
	p.value.Store(nv)
	return nil
}

// Get returns the raw pref value.
func (p *Bool) Get() Value {
	ov := p.value.Load()
	if ov == nil {
		return p.initial
	}
	return ov.(bool)
}

// Bool is the same as Get() but with the correct type.
func (p *Bool) Bool() bool {
	return p.Get().(bool)
}

// Default sets the value that Reset() will revert to. The current value is
// also set.
func (p *Bool) Default(v bool) {
	p.initial = v
	p.value.Store(v)
}

// Reset sets the value to the default value.
func (p *Bool) Reset() error {
	return p.Set(p.initial)
}

// String implements a string type in the prefs system.
type String struct {
	value   atomic.Value // string
	initial string

	// if allowed is not empty then the value must be one of the listed
	// strings. comparison is case insensitive and the stored value is the
	// entry from the allowed list
	allowed []string
}

func (p *String) String() string {
	return p.Get().(string)
}

// SetAllowed restricts the values accepted by Set() to the those listed.
func (p *String) SetAllowed(allowed ...string) {
	p.allowed = allowed
}

// Set new value to String type.
func (p *String) Set(v Value) error {
	nv := strings.TrimSpace(fmt.Sprintf("%s", v))

	if len(p.allowed) > 0 {
		found := false
		for _, a := range p.allowed {
			if strings.EqualFold(a, nv) {
				nv = a
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("prefs: %q is not one of %s", nv, strings.Join(p.allowed, ", "))
		}
	}

	p.value.Store(nv)
	return nil
}

// Get returns the raw pref value.
func (p *String) Get() Value {
	ov := p.value.Load()
	if ov == nil {
		return p.initial
	}
	return ov.(string)
}

// Default sets the value that Reset() will revert to. The current value is
// also set.
func (p *String) Default(v string) {
	p.initial = v
	p.value.Store(v)
}

// Reset sets the value to the default value.
func (p *String) Reset() error {
	return p.Set(p.initial)
}

// Int implements an integer type in the prefs system. The value can be limited
// to a range with SetRange().
type Int struct {
	value   atomic.Value // int
	initial int

	ranged   bool
	min, max int
}

func (p *Int) String() string {
	return fmt.Sprintf("%d", p.Get())
}

// SetRange limits the values accepted by Set(). Both limits are inclusive.
func (p *Int) SetRange(min, max int) {
	p.ranged = true
	p.min = min
	p.max = max
}

// Set new value to Int type. New value can be an int or string.
func (p *Int) Set(v Value) error {
	var nv int
	switch v := v.(type) {
	case int64:
		nv = int(v)
	case int32:
		nv = int(v)
	case int:
		nv = v
	case uint8:
		nv = int(v)
	case string:
		var err error
		nv, err = strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("prefs: cannot convert %q to prefs.Int", v)
		}
	default:
		return fmt.Errorf("prefs: cannot convert %T to prefs.Int", v)
	}

	if p.ranged && (nv < p.min || nv > p.max) {
		return fmt.Errorf("prefs: %d is outside the range %d to %d", nv, p.min, p.max)
	}

	p.value.Store(nv)
	return nil
}

// Get returns the raw pref value.
func (p *Int) Get() Value {
	ov := p.value.Load()
	if ov == nil {
		return p.initial
	}
	return ov.(int)
}

// Int is the same as Get() but with the correct type.
func (p *Int) Int() int {
	return p.Get().(int)
}

// Default sets the value that Reset() will revert to. The current value is
// also set.
func (p *Int) Default(v int) {
	p.initial = v
	p.value.Store(v)
}

// Reset sets the value to the default value.
func (p *Int) Reset() error {
	return p.Set(p.initial)
}
