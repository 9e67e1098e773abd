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

// Package preferences collates the configurable values of the emulated machine
// and the streaming components that run on it.
package preferences

import (
	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/prefs"
)

// InvalidPreferences is returned by Validate() when the combination of values
// cannot be used.
const InvalidPreferences = "preferences: %s"

// Preferences defines and collates all the preference values used by the
// machine and the components.
type Preferences struct {
	group *prefs.Group

	// television specification. PAL or NTSC
	TVSpec prefs.String

	// device number of the disk drive on the serial bus
	Device prefs.Int

	// number of CPU cycles it takes the disk drive to deliver one byte. the
	// default is the speed of an unmodified 1541. FastLoadCycles is used
	// instead if FastLoad is true
	TransferCycles prefs.Int
	FastLoad       prefs.Bool
	FastLoadCycles prefs.Int

	// number of frames to wait after every row of the picture
	Pacing prefs.Int

	// cycle the border colour while the pixel plane is loading
	BorderPulse prefs.Bool

	// number of pixel bytes between feedback bursts and the seed of the
	// random number generator that chooses the burst frequency
	FeedbackInterval prefs.Int
	FeedbackSeed     prefs.Int

	// sample playback rate in nibbles per second
	SampleRate prefs.Int

	// the sample buffer grows by GrowthStep bytes at a time and will not grow
	// beyond BufferLimit bytes. progress is logged every ProgressInterval bytes
	GrowthStep       prefs.Int
	BufferLimit      prefs.Int
	ProgressInterval prefs.Int

	// music sequencer tempo multiplier and the number of ticks of silence
	// after an audible note
	Tempo        prefs.Int
	ReleaseTicks prefs.Int
}

func (p *Preferences) String() string {
	return p.group.String()
}

// NewPreferences is the preferred method of initialisation for the Preferences type.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{
		group: prefs.NewGroup(),
	}

	p.TVSpec.SetAllowed("PAL", "NTSC")
	p.Device.SetRange(8, 30)
	p.TransferCycles.SetRange(1, 100000)
	p.FastLoadCycles.SetRange(1, 100000)
	p.Pacing.SetRange(0, 255)
	p.FeedbackInterval.SetRange(1, 8000)
	p.FeedbackSeed.SetRange(0, 0xffff)
	p.SampleRate.SetRange(1000, 20000)
	p.GrowthStep.SetRange(1, 0xffff)
	p.BufferLimit.SetRange(1, 0xffff)
	p.ProgressInterval.SetRange(1, 0xffff)
	p.Tempo.SetRange(1, 255)
	p.ReleaseTicks.SetRange(0, 255)

	for _, e := range []struct {
		key string
		p   interface {
			String() string
			Set(prefs.Value) error
			Get() prefs.Value
			Reset() error
		}
	}{
		{"hardware.tv", &p.TVSpec},
		{"serial.device", &p.Device},
		{"serial.transfer", &p.TransferCycles},
		{"serial.fastload", &p.FastLoad},
		{"serial.fastcycles", &p.FastLoadCycles},
		{"koala.pacing", &p.Pacing},
		{"koala.pulse", &p.BorderPulse},
		{"feedback.interval", &p.FeedbackInterval},
		{"feedback.seed", &p.FeedbackSeed},
		{"sampler.rate", &p.SampleRate},
		{"sampler.growth", &p.GrowthStep},
		{"sampler.limit", &p.BufferLimit},
		{"sampler.progress", &p.ProgressInterval},
		{"music.tempo", &p.Tempo},
		{"music.release", &p.ReleaseTicks},
	} {
		if err := p.group.Add(e.key, e.p); err != nil {
			return nil, err
		}
	}

	p.SetDefaults()

	return p, nil
}

// SetDefaults reverts all preferences to the default values.
func (p *Preferences) SetDefaults() {
	p.TVSpec.Default("PAL")
	p.Device.Default(8)
	p.TransferCycles.Default(2463)
	p.FastLoad.Default(false)
	p.FastLoadCycles.Default(200)
	p.Pacing.Default(4)
	p.BorderPulse.Default(true)
	p.FeedbackInterval.Default(64)
	p.FeedbackSeed.Default(0xace1)
	p.SampleRate.Default(6000)
	p.GrowthStep.Default(2048)
	p.BufferLimit.Default(0xa000)
	p.ProgressInterval.Default(2048)
	p.Tempo.Default(3)
	p.ReleaseTicks.Default(2)
}

// Parse a preferences string of the form "key::value; key::value". Validate()
// should be called afterwards.
func (p *Preferences) Parse(s string) error {
	return p.group.Parse(s)
}

// Validate checks that the preferences can be used together.
func (p *Preferences) Validate() error {
	if p.GrowthStep.Int() > p.BufferLimit.Int() {
		return curated.Errorf(InvalidPreferences, "sample growth step is larger than the buffer limit")
	}
	if p.FastLoad.Bool() && p.FastLoadCycles.Int() > p.TransferCycles.Int() {
		return curated.Errorf(InvalidPreferences, "fast load is slower than normal transfer")
	}
	return nil
}

// TransferCyclesPerByte returns the number of cycles it takes the disk drive
// to deliver one byte, taking the fast load setting into account.
func (p *Preferences) TransferCyclesPerByte() int {
	if p.FastLoad.Bool() {
		return p.FastLoadCycles.Int()
	}
	return p.TransferCycles.Int()
}
