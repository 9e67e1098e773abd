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

package session_test

import (
	"testing"
	"testing/fstest"

	"github.com/vreid/koalastream/environment"
	"github.com/vreid/koalastream/hardware"
	"github.com/vreid/koalastream/hardware/iec"
	"github.com/vreid/koalastream/hardware/sid"
	"github.com/vreid/koalastream/koala"
	"github.com/vreid/koalastream/music"
	"github.com/vreid/koalastream/session"
	"github.com/vreid/koalastream/test"
)

func picture() []byte {
	d := []byte{koala.HeaderLo, koala.HeaderHi}
	for i := range koala.RawSize {
		d = append(d, uint8(i*7))
	}
	return d
}

func setup(t *testing.T) *session.Session {
	t.Helper()
	env, err := environment.NewEnvironment(environment.Label("test"), nil)
	test.DemandSuccess(t, err)
	test.DemandSuccess(t, env.Prefs.FastLoad.Set(true))

	mc, err := hardware.NewMachine(env)
	test.DemandSuccess(t, err)

	drv := iec.NewDiskDrive(8, fstest.MapFS{
		"PICTURE": &fstest.MapFile{Data: picture()},
		"SHORT":   &fstest.MapFile{Data: picture()[:100]},
		"SAMPLE":  &fstest.MapFile{Data: []byte{0x00, 0x00, 0x12, 0x34, 0x56}},
		"NOSOUND": &fstest.MapFile{Data: []byte{0x00, 0x00}},
	}, env.Prefs.TransferCyclesPerByte())
	test.DemandSuccess(t, mc.IEC.Attach(drv))

	s, err := session.NewSession(mc)
	test.DemandSuccess(t, err)
	return s
}

func TestImage(t *testing.T) {
	s := setup(t)
	test.ExpectSuccess(t, s.StreamLoadImage("picture", 0))
	test.ExpectEquality(t, s.Machine().VIC.BitmapMode(), true)

	test.ExpectFailure(t, s.StreamLoadImage("short", 0))
	test.ExpectFailure(t, s.StreamLoadImage("missing", 0))
	test.ExpectEquality(t, s.Machine().Kernal.OpenFiles(), 0)
}

func TestSample(t *testing.T) {
	s := setup(t)
	test.ExpectSuccess(t, s.LoadSample("sample", 8))
	test.ExpectEquality(t, s.Sampler.Size(), 3)
	s.PlaySample()

	test.ExpectFailure(t, s.LoadSample("nosound", 8))
	test.ExpectEquality(t, s.Sampler.Size(), 0)
	test.ExpectFailure(t, s.LoadSample("sample", 9))

	// playing without a sample does nothing
	s.PlaySample()
}

func TestMusicWhileLoading(t *testing.T) {
	s := setup(t)
	mc := s.Machine()

	s.MusicInit()
	test.ExpectSuccess(t, s.MusicInstallInterrupt())
	test.ExpectFailure(t, s.MusicInstallInterrupt())

	irqs := mc.IRQCount()
	test.ExpectSuccess(t, s.StreamLoadImage("picture", 1))
	test.ExpectSuccess(t, mc.IRQCount() > irqs)
	test.ExpectSuccess(t, s.Music.Index() > 0)

	// every voice is silenced at the end of the load. the melody still sounds
	// once the next note starts
	sr := sid.VoiceBase(music.Voice) + sid.SustainRelease
	irqs = mc.IRQCount()
	s.Clock.WaitVideoFrames(50)
	test.ExpectSuccess(t, mc.IRQCount() > irqs)
	test.ExpectEquality(t, mc.SID.Read(sr), uint8(0xa4))

	s.MusicPause()
	test.ExpectEquality(t, s.Music.Enabled(), false)
	test.ExpectEquality(t, mc.Peek(0xd418)&0x0f, uint8(0))

	index := s.Music.Index()
	s.Clock.WaitVideoFrames(10)
	test.ExpectEquality(t, s.Music.Index(), index)

	s.MusicResume()
	test.ExpectEquality(t, s.Music.Enabled(), true)
	test.ExpectEquality(t, mc.Peek(0xd418)&0x0f, uint8(0x0f))
	test.ExpectEquality(t, s.Music.State(), music.Resting)
}
