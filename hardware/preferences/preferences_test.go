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

package preferences_test

import (
	"testing"

	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/hardware/preferences"
	"github.com/vreid/koalastream/test"
)

func TestDefaults(t *testing.T) {
	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)

	test.ExpectEquality(t, p.TVSpec.String(), "PAL")
	test.ExpectEquality(t, p.Device.Int(), 8)
	test.ExpectEquality(t, p.SampleRate.Int(), 6000)
	test.ExpectEquality(t, p.GrowthStep.Int(), 2048)
	test.ExpectEquality(t, p.ReleaseTicks.Int(), 2)
	test.ExpectEquality(t, p.TransferCyclesPerByte(), 2463)
	test.ExpectSuccess(t, p.Validate())
}

func TestParse(t *testing.T) {
	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)

	test.ExpectSuccess(t, p.Parse("hardware.tv::ntsc; serial.fastload::true; music.tempo::5"))
	test.ExpectEquality(t, p.TVSpec.String(), "NTSC")
	test.ExpectEquality(t, p.Tempo.Int(), 5)
	test.ExpectEquality(t, p.TransferCyclesPerByte(), p.FastLoadCycles.Int())

	// out of range values are rejected and the previous value is kept
	test.ExpectFailure(t, p.Parse("serial.device::4"))
	test.ExpectEquality(t, p.Device.Int(), 8)

	p.SetDefaults()
	test.ExpectEquality(t, p.TVSpec.String(), "PAL")
	test.ExpectEquality(t, p.Tempo.Int(), 3)
}

func TestValidate(t *testing.T) {
	p, err := preferences.NewPreferences()
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, p.Parse("sampler.growth::4096; sampler.limit::2048"))
	err = p.Validate()
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, preferences.InvalidPreferences))
}
