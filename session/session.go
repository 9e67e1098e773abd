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

// Package session ties the streaming components to a single machine and
// exposes the operations used by the presentation layer. Every component error
// is logged and reduced to a boolean at this level.
package session

import (
	"github.com/vreid/koalastream/feedback"
	"github.com/vreid/koalastream/frameclock"
	"github.com/vreid/koalastream/hardware"
	"github.com/vreid/koalastream/koala"
	"github.com/vreid/koalastream/logger"
	"github.com/vreid/koalastream/music"
	"github.com/vreid/koalastream/sampler"
)

// Session is the façade over the streaming components.
type Session struct {
	mc *hardware.Machine

	Clock    *frameclock.Clock
	Feedback *feedback.Generator
	Loader   *koala.Loader
	Sampler  *sampler.Engine
	Music    *music.Sequencer

	// device number used by StreamLoadImage()
	device int
}

// NewSession is the preferred method of initialisation for the Session type.
// The components are configured from the preferences of the machine's
// environment.
func NewSession(mc *hardware.Machine) (*Session, error) {
	prefs := mc.Env().Prefs

	s := &Session{
		mc:     mc,
		Clock:  frameclock.NewClock(mc, mc.Spec.RefreshRate),
		device: prefs.Device.Int(),
	}

	s.Feedback = feedback.NewGenerator(mc.Env(), mc, uint16(prefs.FeedbackSeed.Int()))

	var err error
	s.Loader, err = koala.NewLoader(mc, s.Clock, s.Feedback)
	if err != nil {
		return nil, err
	}

	s.Sampler = sampler.NewEngine(mc)
	s.Music = music.NewSequencer(mc.Env(), mc, music.DefaultMelody(),
		prefs.Tempo.Int(), prefs.ReleaseTicks.Int())

	return s, nil
}

// Machine returns the machine the session is running on.
func (s *Session) Machine() *hardware.Machine {
	return s.mc
}

// StreamLoadImage loads and reveals the named picture from the session's
// device. The pacing is the number of raster changes to wait after each row.
func (s *Session) StreamLoadImage(name string, pacing int) bool {
	if err := s.Loader.StreamLoad(name, s.device, pacing); err != nil {
		logger.Log(s.mc.Env(), "session", err)
		return false
	}
	return true
}

// LoadSample loads the named sample from the device.
func (s *Session) LoadSample(name string, device int) bool {
	if err := s.Sampler.Load(name, device); err != nil {
		logger.Log(s.mc.Env(), "session", err)
		return false
	}
	return true
}

// PlaySample plays the loaded sample. It does nothing if no sample is loaded.
func (s *Session) PlaySample() {
	s.Sampler.Play()
}

// MusicInit prepares the music voice.
func (s *Session) MusicInit() {
	s.Music.Init()
}

// MusicInstallInterrupt schedules the music sequencer on the frame interrupt.
func (s *Session) MusicInstallInterrupt() bool {
	if err := s.Music.InstallInterrupt(s.mc); err != nil {
		logger.Log(s.mc.Env(), "session", err)
		return false
	}
	return true
}

// MusicPause silences the music.
func (s *Session) MusicPause() {
	s.Music.Pause()
}

// MusicResume restores the music after a call to MusicPause().
func (s *Session) MusicResume() {
	s.Music.Resume()
}
