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

package koala

import (
	"github.com/vreid/koalastream/curated"
	"github.com/vreid/koalastream/feedback"
	"github.com/vreid/koalastream/frameclock"
	"github.com/vreid/koalastream/hardware"
	"github.com/vreid/koalastream/logger"
	"github.com/vreid/koalastream/serial"
)

// FormatMismatch is logged when a file does not start with the header. The
// file is then loaded as a raw picture. It is never returned as an error.
const FormatMismatch = "koala: %s: no header (%02x %02x). loading as raw picture"

// the logical file number and secondary address used to read the picture
const (
	lfn       = 2
	secondary = 2
)

// the border pulse changes colour every 16th pixel byte
const pulseMask = 0x0f

// Loader streams pictures into an ImageBuffer and reveals them on a Display.
type Loader struct {
	mc    *hardware.Machine
	clock *frameclock.Clock
	fb    *feedback.Generator

	Image   *ImageBuffer
	Display *Display

	// counter for the border pulse
	pulse uint8
}

// NewLoader is the preferred method of initialisation for the Loader type.
func NewLoader(mc *hardware.Machine, clock *frameclock.Clock, fb *feedback.Generator) (*Loader, error) {
	img, err := NewImageBuffer(mc)
	if err != nil {
		return nil, err
	}
	disp, err := NewDisplay(mc)
	if err != nil {
		return nil, err
	}
	return &Loader{
		mc:      mc,
		clock:   clock,
		fb:      fb,
		Image:   img,
		Display: disp,
	}, nil
}

// open the channel and skip the header if there is one. if there is no header
// the channel is closed and opened again so that the first two bytes are read
// as part of the picture
func (ldr *Loader) open(name string, device int) (*serial.Channel, error) {
	env := ldr.mc.Env()

	ch, err := serial.OpenChannel(env, ldr.mc.Kernal, lfn, name, device, secondary)
	if err != nil {
		return nil, err
	}

	var probe [2]uint8
	err = ch.ReadStructure(len(probe), false, func(i int, d uint8) error {
		probe[i] = d
		return nil
	})
	if err != nil {
		_ = ch.Close()
		return nil, err
	}

	if probe[0] == HeaderLo && probe[1] == HeaderHi {
		return ch, nil
	}

	logger.Log(env, "koala", curated.Errorf(FormatMismatch, name, probe[0], probe[1]))

	if err := ch.Close(); err != nil {
		return nil, err
	}

	return serial.OpenChannel(env, ldr.mc.Kernal, lfn, name, device, secondary)
}

// StreamLoad loads the named picture from the device. The pacing is the number
// of raster changes to wait for after each row of the name and attribute
// planes.
//
// The channel is closed exactly once whether the load succeeds or fails. Rows
// of the picture that have been revealed when a failure occurs stay on screen.
func (ldr *Loader) StreamLoad(name string, device int, pacing int) error {
	env := ldr.mc.Env()

	ch, err := ldr.open(name, device)
	if err != nil {
		return err
	}
	defer func() {
		if err := ch.Close(); err != nil {
			logger.Log(env, "koala", err)
		}
	}()

	if err := ldr.loadPixels(ch); err != nil {
		return err
	}

	ldr.Display.EnableBitmap(0)

	if err := ldr.loadNames(ch, pacing); err != nil {
		return err
	}

	if err := ldr.loadAttributes(ch, pacing); err != nil {
		return err
	}

	var bg uint8
	err = ch.ReadStructure(BackgroundSize, true, func(i int, d uint8) error {
		bg = d
		return ldr.Image.Background.Store(i, d)
	})
	if err != nil {
		return err
	}
	ldr.Display.SetBackground(bg)

	logger.Logf(env, "koala", "%s: loaded %d bytes", name, ch.Count())

	return nil
}

// the feedback generator runs while the pixel plane loads. it is muted and
// shut down before the display switches to bitmap mode. it is shut down
// without muting if the load fails
func (ldr *Loader) loadPixels(ch *serial.Channel) error {
	prefs := ldr.mc.Env().Prefs
	interval := prefs.FeedbackInterval.Int()
	pulse := prefs.BorderPulse.Bool()

	ldr.fb.Init()

	err := ch.ReadStructure(PixelSize, false, func(i int, d uint8) error {
		if err := ldr.Image.Pixels.Store(i, d); err != nil {
			return err
		}
		if (i+1)%interval == 0 {
			ldr.fb.Tick()
		}
		if pulse && i&pulseMask == 0 {
			ldr.pulseBorder()
		}
		return nil
	})
	if err != nil {
		ldr.fb.Shutdown()
		return err
	}

	ldr.fb.MuteNow()
	ldr.fb.Shutdown()

	return nil
}

func (ldr *Loader) pulseBorder() {
	ldr.mc.Write(vicBorder, (ldr.pulse>>3)&0x07)
	ldr.pulse++
}

// the name plane is buffered and not shown until the attribute plane for the
// same row has been loaded
func (ldr *Loader) loadNames(ch *serial.Channel, pacing int) error {
	for row := range Rows {
		offset := row * Columns
		err := ch.ReadStructure(Columns, false, func(i int, d uint8) error {
			return ldr.Image.Names.Store(offset+i, d)
		})
		if err != nil {
			return err
		}
		ldr.clock.WaitFrames(pacing)
	}
	return nil
}

func (ldr *Loader) loadAttributes(ch *serial.Channel, pacing int) error {
	for row := range Rows {
		offset := row * Columns
		err := ch.ReadStructure(Columns, false, func(i int, d uint8) error {
			return ldr.Image.Attributes.Store(offset+i, d)
		})
		if err != nil {
			return err
		}
		if err := ldr.Display.RevealRow(ldr.Image, row); err != nil {
			return err
		}
		ldr.clock.WaitFrames(pacing)
	}
	return nil
}
