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
	"sort"
	"strings"

	"github.com/vreid/koalastream/curated"
)

// UnknownPref is returned by Parse() when the key does not exist in the group.
const UnknownPref = "prefs: unknown preference (%s)"

// DuplicatePref is returned by Add() when the key has already been used.
const DuplicatePref = "prefs: duplicate preference (%s)"

// Group is a collection of named preference values. Nothing is ever written to
// or read from disk. Values are set by the program or by a preferences string
// given on the command line.
type Group struct {
	entries map[string]pref
}

// NewGroup is the preferred method of initialisation for the Group type.
func NewGroup() *Group {
	return &Group{
		entries: make(map[string]pref),
	}
}

// Add a preference value to the group.
func (g *Group) Add(key string, p pref) error {
	if _, ok := g.entries[key]; ok {
		return curated.Errorf(DuplicatePref, key)
	}
	g.entries[key] = p
	return nil
}

// Keys returns the list of keys in the group in alphabetical order.
func (g *Group) Keys() []string {
	keys := make([]string, 0, len(g.entries))
	for k := range g.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set the value of the named preference.
func (g *Group) Set(key string, v Value) error {
	p, ok := g.entries[key]
	if !ok {
		return curated.Errorf(UnknownPref, key)
	}
	if err := p.Set(v); err != nil {
		return curated.Errorf("prefs: %s: %v", key, err)
	}
	return nil
}

// Reset all preferences in the group to their default values.
func (g *Group) Reset() error {
	for _, k := range g.Keys() {
		if err := g.entries[k].Reset(); err != nil {
			return curated.Errorf("prefs: %s: %v", k, err)
		}
	}
	return nil
}

// Parse a preferences string and apply the values to the group. The string is
// a list of key/value pairs separated by semi-colons. Key and value are
// separated by a double colon. For example:
//
//	"sampler.rate::6000; serial.transfer::400"
//
// Entries with no double colon are ignored. Unknown keys are an error.
func (g *Group) Parse(s string) error {
	for _, p := range strings.Split(s, ";") {
		kv := strings.Split(p, "::")
		if len(kv) != 2 {
			continue
		}
		if err := g.Set(strings.TrimSpace(kv[0]), strings.TrimSpace(kv[1])); err != nil {
			return err
		}
	}
	return nil
}

// String returns the group as a preferences string suitable for Parse().
func (g *Group) String() string {
	s := strings.Builder{}
	for _, k := range g.Keys() {
		s.WriteString(fmt.Sprintf("%s::%s; ", k, g.entries[k].String()))
	}
	return strings.TrimSuffix(s.String(), "; ")
}
