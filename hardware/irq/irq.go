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

// Package irq models the interrupt vector as an ordered list of handler
// stages. The platform default stage is registered when the vector is created
// and is always the last stage to run. Stages added with Chain() run before it,
// the most recently chained stage first.
//
// A stage that claims an interrupt must acknowledge the interrupt source
// itself. The vector does not acknowledge anything.
package irq

import (
	"github.com/vreid/koalastream/curated"
)

// DuplicateStage is returned by Chain() if a stage with the same label has
// already been chained.
const DuplicateStage = "irq: stage already chained (%s)"

// Stage is a single handler in the interrupt vector.
type Stage struct {
	Label   string
	Handler func()
}

// Vector is the list of stages that run when an interrupt is taken.
type Vector struct {
	chained []Stage
	def     Stage
}

// NewVector is the preferred method of initialisation for the Vector type. The
// default stage is the routine that the platform runs for every interrupt.
func NewVector(def Stage) *Vector {
	return &Vector{
		def: def,
	}
}

// Chain a stage in front of the stages already in the vector.
func (v *Vector) Chain(s Stage) error {
	if s.Label == v.def.Label {
		return curated.Errorf(DuplicateStage, s.Label)
	}
	for _, c := range v.chained {
		if c.Label == s.Label {
			return curated.Errorf(DuplicateStage, s.Label)
		}
	}
	v.chained = append([]Stage{s}, v.chained...)
	return nil
}

// Unchain removes the stage with the label. Returns false if there is no such
// stage. The default stage can not be removed.
func (v *Vector) Unchain(label string) bool {
	for i, c := range v.chained {
		if c.Label == label {
			v.chained = append(v.chained[:i], v.chained[i+1:]...)
			return true
		}
	}
	return false
}

// Dispatch runs every stage in order, ending with the default stage.
func (v *Vector) Dispatch() {
	for _, s := range v.chained {
		if s.Handler != nil {
			s.Handler()
		}
	}
	if v.def.Handler != nil {
		v.def.Handler()
	}
}

// Stages returns the labels of the stages in the order they are run.
func (v *Vector) Stages() []string {
	l := make([]string, 0, len(v.chained)+1)
	for _, s := range v.chained {
		l = append(l, s.Label)
	}
	return append(l, v.def.Label)
}
